// Package interceptors weaves cross-cutting behavior around method calls.
//
// A Binder holds bindings. Each binding pairs a type Matcher and a method
// Matcher with an ordered list of interceptors. When an instrumented method
// is called, every binding whose matchers accept the method's type markers
// and method markers contributes its interceptors, in registration order,
// and the call runs through the resulting InterceptorChain.
//
// Each interceptor receives a JoinPoint. It may inspect the method identity
// and arguments, and call Proceed at most once to run the rest of the chain.
// A second Proceed on the same JoinPoint panics with a ProtocolViolationError.
// An interceptor that never calls Proceed short-circuits the call.
//
//	binder := interceptors.NewBinder()
//	err := binder.Register(
//		interceptors.AnnotatedWith("tracked"),
//		interceptors.AnnotatedWith("count"),
//		interceptors.NewCountingInterceptor(registry),
//	)
//	call := binder.Weave(method, target)
//	result, err := call(ctx, args)
//
// Custom interceptors implement Interceptor:
//
//	type auditInterceptor struct{}
//
//	func (auditInterceptor) Intercept(jp *interceptors.JoinPoint) (interface{}, error) {
//		// before
//		result, err := jp.Proceed()
//		// after
//		return result, err
//	}
//
//	func (auditInterceptor) Name() string { return "audit" }
package interceptors
