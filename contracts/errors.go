package contracts

import (
	"errors"
	"fmt"
)

// ErrMethodNotFound is returned when a receiver has no method with the requested name
var ErrMethodNotFound = errors.New("method not found")

// MethodNotFoundError reports the type and method that could not be resolved
type MethodNotFoundError struct {
	Type   string
	Method string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method not found: %s has no exported method %s", e.Type, e.Method)
}

func (e *MethodNotFoundError) Unwrap() error {
	return ErrMethodNotFound
}
