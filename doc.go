// Package interpose instruments Go methods with interceptors selected by
// markers, and keeps per-method call counts and timings.
//
// A Client ties together an interceptors.Binder and a metrics.Registry:
//
//	client, err := interpose.NewClient(interpose.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	err = client.Register(
//		interceptors.AnnotatedWith("tracked"),
//		interceptors.Any(),
//		client.Counting(),
//		client.Timing(),
//	)
//
//	method, call, err := client.WrapMethod(svc, "Lookup",
//		contracts.NewMarkers("tracked"), contracts.NewMarkers())
//	result, err := call(ctx, []interface{}{"key"})
//
//	counter, _ := client.Registry().GetCounter(method.ID)
//
// Module exposes the same components to go.uber.org/fx applications.
package interpose
