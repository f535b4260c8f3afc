package interceptors

import (
	"errors"
	"fmt"

	"github.com/glimte/interpose/contracts"
)

var (
	// ErrProtocolViolation marks a misbehaving interceptor, such as one that
	// calls Proceed more than once. It is raised with panic, never returned.
	ErrProtocolViolation = errors.New("interceptor protocol violation")

	// ErrInvalidBinding is returned by Binder.Register for unusable arguments
	ErrInvalidBinding = errors.New("invalid binding")
)

// ProtocolViolationError describes where the interception protocol was broken
type ProtocolViolationError struct {
	Method       contracts.Identity
	InvocationID string
	Layer        int
	Interceptor  string
	Reason       string
}

func (e *ProtocolViolationError) Error() string {
	if e.Interceptor != "" {
		return fmt.Sprintf("interceptor protocol violation: %s in %s (layer %d) for %s, invocation %s",
			e.Reason, e.Interceptor, e.Layer, e.Method, e.InvocationID)
	}
	return fmt.Sprintf("interceptor protocol violation: %s for %s, invocation %s",
		e.Reason, e.Method, e.InvocationID)
}

func (e *ProtocolViolationError) Unwrap() error {
	return ErrProtocolViolation
}
