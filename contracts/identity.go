package contracts

import (
	"fmt"
	"reflect"
)

// Identity uniquely identifies one declared method of one type
type Identity struct {
	Type      string `json:"type"`
	Method    string `json:"method"`
	Signature string `json:"signature,omitempty"`
}

// NewIdentity creates an identity from its parts
func NewIdentity(typeName, method, signature string) Identity {
	return Identity{
		Type:      typeName,
		Method:    method,
		Signature: signature,
	}
}

// IdentityOf derives the identity of the named method declared on receiver.
// The type name includes the package path so that equally named types from
// different packages never collide.
func IdentityOf(receiver interface{}, method string) (Identity, error) {
	if receiver == nil {
		return Identity{}, fmt.Errorf("receiver cannot be nil")
	}

	t := reflect.TypeOf(receiver)
	m, ok := t.MethodByName(method)
	if !ok {
		return Identity{}, &MethodNotFoundError{Type: TypeName(t), Method: method}
	}

	// Drop the receiver from the signature so pointer and value receivers of the
	// same declaration render the same way.
	in := make([]reflect.Type, 0, m.Type.NumIn())
	for i := 1; i < m.Type.NumIn(); i++ {
		in = append(in, m.Type.In(i))
	}
	out := make([]reflect.Type, 0, m.Type.NumOut())
	for i := 0; i < m.Type.NumOut(); i++ {
		out = append(out, m.Type.Out(i))
	}
	sig := reflect.FuncOf(in, out, m.Type.IsVariadic())

	return NewIdentity(TypeName(t), m.Name, sig.String()), nil
}

// TypeName returns the package qualified name of t, looking through pointers
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		return t.String()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + name
	}
	return name
}

// String renders the identity as Type.Method(signature)
func (id Identity) String() string {
	if id.Signature == "" {
		return id.Type + "." + id.Method
	}
	return fmt.Sprintf("%s.%s(%s)", id.Type, id.Method, id.Signature)
}

// IsZero reports whether the identity is unset
func (id Identity) IsZero() bool {
	return id == Identity{}
}
