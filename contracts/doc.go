// Package contracts provides the core value types shared by the interception
// engine and the metrics registry.
//
// This package defines:
//   - Identity: stable key for one declared method of one type
//   - Marker / Markers: opaque, immutable tag sets attached to types and methods
//   - Method: an Identity together with its type and method markers
//
// Identity is a comparable value and is used directly as a map key everywhere
// in interpose. Two identities are equal if and only if they name the same
// declared method.
package contracts
