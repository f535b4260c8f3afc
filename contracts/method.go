package contracts

// Method describes one declared method as seen by matchers: its identity plus
// the markers of its owning type and of the method itself.
type Method struct {
	ID            Identity
	TypeMarkers   Markers
	MethodMarkers Markers
}

// NewMethod creates a method descriptor
func NewMethod(id Identity, typeMarkers, methodMarkers Markers) Method {
	return Method{
		ID:            id,
		TypeMarkers:   typeMarkers,
		MethodMarkers: methodMarkers,
	}
}

// String returns the identity string
func (m Method) String() string {
	return m.ID.String()
}
