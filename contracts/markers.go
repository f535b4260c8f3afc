package contracts

import "sort"

// Marker is an opaque tag attached to a type or a method
type Marker string

// Markers is an immutable set of markers. The zero value is the empty set.
type Markers struct {
	set map[Marker]struct{}
}

// NewMarkers creates a marker set. The input slice is copied.
func NewMarkers(markers ...Marker) Markers {
	if len(markers) == 0 {
		return Markers{}
	}

	set := make(map[Marker]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	return Markers{set: set}
}

// Has reports whether marker is in the set
func (m Markers) Has(marker Marker) bool {
	_, ok := m.set[marker]
	return ok
}

// Len returns the number of distinct markers
func (m Markers) Len() int {
	return len(m.set)
}

// List returns the markers in sorted order
func (m Markers) List() []Marker {
	out := make([]Marker, 0, len(m.set))
	for marker := range m.set {
		out = append(out, marker)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
