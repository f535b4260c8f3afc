package interpose

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/glimte/interpose/contracts"
	"github.com/glimte/interpose/interceptors"
)

var (
	// ErrUnsupportedSignature is returned for methods whose results cannot be
	// mapped onto a Target
	ErrUnsupportedSignature = errors.New("unsupported method signature")
	// ErrArgumentMismatch is returned by a reflected target when the call
	// arguments do not fit the method's parameters
	ErrArgumentMismatch = errors.New("argument mismatch")
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// MethodOf describes the named method of receiver and returns a Target that
// calls it. Supported result shapes are (), (T), (error) and (T, error).
// When the method's first parameter is a context.Context it receives the
// call's context and is not counted among the arguments.
func MethodOf(receiver interface{}, name string, typeMarkers, methodMarkers contracts.Markers) (contracts.Method, interceptors.Target, error) {
	id, err := contracts.IdentityOf(receiver, name)
	if err != nil {
		return contracts.Method{}, nil, err
	}

	fn := reflect.ValueOf(receiver).MethodByName(name)
	if err := checkResults(id, fn.Type()); err != nil {
		return contracts.Method{}, nil, err
	}

	method := contracts.NewMethod(id, typeMarkers, methodMarkers)
	return method, reflectedTarget(id, fn), nil
}

func checkResults(id contracts.Identity, t reflect.Type) error {
	switch t.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if t.Out(1) == errorType {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedSignature, id)
}

func reflectedTarget(id contracts.Identity, fn reflect.Value) interceptors.Target {
	t := fn.Type()
	withContext := t.NumIn() > 0 && t.In(0) == contextType

	return func(ctx context.Context, args []interface{}) (interface{}, error) {
		in, err := callArguments(ctx, id, t, withContext, args)
		if err != nil {
			return nil, err
		}

		return callResults(t, fn.Call(in))
	}
}

func callArguments(ctx context.Context, id contracts.Identity, t reflect.Type, withContext bool, args []interface{}) ([]reflect.Value, error) {
	offset := 0
	in := make([]reflect.Value, 0, t.NumIn())
	if withContext {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(&ctx).Elem())
		offset = 1
	}

	fixed := t.NumIn() - offset
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: %s takes at least %d arguments, got %d", ErrArgumentMismatch, id, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgumentMismatch, id, fixed, len(args))
	}

	for i, arg := range args {
		var param reflect.Type
		if t.IsVariadic() && i >= fixed {
			param = t.In(t.NumIn() - 1).Elem()
		} else {
			param = t.In(offset + i)
		}

		v, err := argumentValue(arg, param)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %d: %v", ErrArgumentMismatch, id, i, err)
		}
		in = append(in, v)
	}
	return in, nil
}

func argumentValue(arg interface{}, param reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch param.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return reflect.Zero(param), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", param)
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(param) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), param)
	}
	return v, nil
}

func callResults(t reflect.Type, out []reflect.Value) (interface{}, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
