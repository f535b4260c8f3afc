// Package metrics provides the per-method instruments collected by interpose.
//
// The package is organized around three types:
//   - Counter: an atomic, monotonically increasing invocation count
//   - Timer: a fixed capacity ring buffer of elapsed times with a rolling mean
//   - Registry: owner of every Counter and Timer, keyed by contracts.Identity
//
// Registry.Counter and Registry.Timer are get-or-create. Concurrent first use
// of the same identity always yields one shared instance: creation goes
// through an insert-if-absent on the registry's maps, so a losing candidate is
// discarded before anyone can observe it. GetCounter and GetTimer never create.
// Entries are never removed.
//
// Example usage:
//
//	registry := metrics.NewRegistry()
//	id := contracts.NewIdentity("orders.Service", "Place", "func(context.Context) error")
//
//	result, err := registry.Counter(id).Observe(func() (interface{}, error) {
//		return registry.Timer(id).Observe(call)
//	})
//
//	if timer, ok := registry.GetTimer(id); ok {
//		mean, _ := timer.Value()
//		_ = mean
//	}
package metrics
