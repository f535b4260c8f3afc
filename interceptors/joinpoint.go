package interceptors

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/glimte/interpose/contracts"
)

// State is the lifecycle state of one invocation
type State int32

const (
	// StatePending means no layer has proceeded yet
	StatePending State = iota
	// StateProceeding means the chain is being traversed
	StateProceeding
	// StateCompleted means the target returned without error
	StateCompleted
	// StateFailed means the target returned an error or panicked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProceeding:
		return "proceeding"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// invocation is the shared state of one call through a chain
type invocation struct {
	id           string
	ctx          context.Context
	method       contracts.Method
	args         []interface{}
	interceptors []Interceptor
	target       Target
	attributes   *InterceptorContext
	logger       *slog.Logger

	state     atomic.Int32
	targetRan atomic.Bool
}

func newInvocation(ctx context.Context, c *InterceptorChain, args []interface{}) *invocation {
	if ctx == nil {
		ctx = context.Background()
	}

	copied := make([]interface{}, len(args))
	copy(copied, args)

	// A nested instrumented call starts from a snapshot of the caller's
	// attributes; its own writes stay local to it.
	attributes := NewInterceptorContext()
	if outer, ok := GetInterceptorContext(ctx); ok {
		attributes = outer.Copy()
	}
	return &invocation{
		id:           uuid.New().String(),
		ctx:          WithInterceptorContext(ctx, attributes),
		method:       c.method,
		args:         copied,
		interceptors: c.interceptors,
		target:       c.target,
		attributes:   attributes,
		logger:       c.logger,
	}
}

// advance runs layer next, or the target once every interceptor has proceeded
func (inv *invocation) advance(next int) (interface{}, error) {
	if next < len(inv.interceptors) {
		return inv.interceptors[next].Intercept(&JoinPoint{inv: inv, layer: next})
	}
	return inv.runTarget()
}

func (inv *invocation) runTarget() (result interface{}, err error) {
	if !inv.targetRan.CompareAndSwap(false, true) {
		inv.violate(-1, "", "target executed more than once")
	}

	returned := false
	defer func() {
		switch {
		case !returned, err != nil:
			inv.state.Store(int32(StateFailed))
		default:
			inv.state.Store(int32(StateCompleted))
		}
	}()

	result, err = inv.target(inv.ctx, inv.args)
	returned = true
	return result, err
}

func (inv *invocation) violate(layer int, interceptor, reason string) {
	violation := &ProtocolViolationError{
		Method:       inv.method.ID,
		InvocationID: inv.id,
		Layer:        layer,
		Interceptor:  interceptor,
		Reason:       reason,
	}
	inv.logger.Error("interceptor protocol violation",
		"method", inv.method.ID.String(),
		"invocationId", inv.id,
		"layer", layer,
		"interceptor", interceptor,
		"reason", reason,
	)
	panic(violation)
}

// JoinPoint is one interceptor's view of an in-flight invocation.
// Every layer of the chain receives its own JoinPoint; all of them share the
// invocation's identity, arguments, context, attributes and state.
type JoinPoint struct {
	inv       *invocation
	layer     int
	proceeded atomic.Bool
}

// Method returns the identity of the invoked method
func (jp *JoinPoint) Method() contracts.Identity {
	return jp.inv.method.ID
}

// Descriptor returns the invoked method together with its markers
func (jp *JoinPoint) Descriptor() contracts.Method {
	return jp.inv.method
}

// Arguments returns a copy of the call arguments
func (jp *JoinPoint) Arguments() []interface{} {
	out := make([]interface{}, len(jp.inv.args))
	copy(out, jp.inv.args)
	return out
}

// Context returns the context the chain was invoked with
func (jp *JoinPoint) Context() context.Context {
	return jp.inv.ctx
}

// InvocationID returns the unique id of this invocation
func (jp *JoinPoint) InvocationID() string {
	return jp.inv.id
}

// Layer returns the position of the receiving interceptor in the chain
func (jp *JoinPoint) Layer() int {
	return jp.layer
}

// State returns the current state of the invocation
func (jp *JoinPoint) State() State {
	return State(jp.inv.state.Load())
}

// Attributes returns the bag shared by every layer of this invocation
func (jp *JoinPoint) Attributes() *InterceptorContext {
	return jp.inv.attributes
}

// Proceed invokes the next interceptor, or the target method when this is the
// last layer, and returns its result unchanged. It may be called at most once
// per JoinPoint; a second call panics with a *ProtocolViolationError. Not
// calling it at all is legal and means the target does not run.
func (jp *JoinPoint) Proceed() (interface{}, error) {
	if !jp.proceeded.CompareAndSwap(false, true) {
		jp.inv.violate(jp.layer, jp.inv.interceptors[jp.layer].Name(), "proceed called more than once")
	}
	jp.inv.state.CompareAndSwap(int32(StatePending), int32(StateProceeding))
	return jp.inv.advance(jp.layer + 1)
}
