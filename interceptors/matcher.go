package interceptors

import (
	"fmt"
	"strings"

	"github.com/glimte/interpose/contracts"
)

// Matcher decides from a marker set whether a binding applies. Matchers are
// pure: the answer depends on the markers alone.
type Matcher interface {
	Matches(markers contracts.Markers) bool
}

// MatcherFunc is a function adapter for Matcher
type MatcherFunc func(markers contracts.Markers) bool

// Matches implements Matcher
func (f MatcherFunc) Matches(markers contracts.Markers) bool {
	return f(markers)
}

type anyMatcher struct{}

func (anyMatcher) Matches(contracts.Markers) bool { return true }

func (anyMatcher) String() string { return "any()" }

// Any returns a matcher that always holds
func Any() Matcher {
	return anyMatcher{}
}

// MarkerMatcher holds when every one of its markers is present
type MarkerMatcher struct {
	required []contracts.Marker
}

// AnnotatedWith returns a matcher that holds when marker is present
func AnnotatedWith(marker contracts.Marker) *MarkerMatcher {
	return &MarkerMatcher{required: []contracts.Marker{marker}}
}

// AnnotatedWithAll returns a matcher that holds when all markers are present
func AnnotatedWithAll(markers ...contracts.Marker) *MarkerMatcher {
	required := make([]contracts.Marker, len(markers))
	copy(required, markers)
	return &MarkerMatcher{required: required}
}

// Matches implements Matcher
func (m *MarkerMatcher) Matches(markers contracts.Markers) bool {
	for _, marker := range m.required {
		if !markers.Has(marker) {
			return false
		}
	}
	return true
}

func (m *MarkerMatcher) String() string {
	parts := make([]string, len(m.required))
	for i, marker := range m.required {
		parts[i] = string(marker)
	}
	return fmt.Sprintf("annotatedWith(%s)", strings.Join(parts, ", "))
}

// AndMatcher combines multiple matchers with AND logic
type AndMatcher struct {
	matchers []Matcher
}

// And creates a matcher that holds when all matchers hold
func And(matchers ...Matcher) *AndMatcher {
	return &AndMatcher{matchers: matchers}
}

// Matches implements Matcher - all matchers must hold
func (m *AndMatcher) Matches(markers contracts.Markers) bool {
	for _, matcher := range m.matchers {
		if !matcher.Matches(markers) {
			return false
		}
	}
	return true
}

// OrMatcher combines multiple matchers with OR logic
type OrMatcher struct {
	matchers []Matcher
}

// Or creates a matcher that holds when at least one matcher holds
func Or(matchers ...Matcher) *OrMatcher {
	return &OrMatcher{matchers: matchers}
}

// Matches implements Matcher - at least one matcher must hold
func (m *OrMatcher) Matches(markers contracts.Markers) bool {
	for _, matcher := range m.matchers {
		if matcher.Matches(markers) {
			return true
		}
	}
	return false
}

// Not inverts a matcher
func Not(matcher Matcher) Matcher {
	return MatcherFunc(func(markers contracts.Markers) bool {
		return !matcher.Matches(markers)
	})
}
