package interceptors

import (
	"context"
	"sync"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	// InterceptorContextKey is the key for storing interceptor context
	InterceptorContextKey contextKey = "interpose:interceptor:context"
)

// InterceptorContext holds data shared between the layers of one invocation.
// The target method can reach it through GetInterceptorContext on its context.
type InterceptorContext struct {
	values map[string]interface{}
	mu     sync.RWMutex
}

// NewInterceptorContext creates a new interceptor context
func NewInterceptorContext() *InterceptorContext {
	return &InterceptorContext{
		values: make(map[string]interface{}),
	}
}

// Set stores a value in the interceptor context
func (ic *InterceptorContext) Set(key string, value interface{}) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.values[key] = value
}

// Get retrieves a value from the interceptor context
func (ic *InterceptorContext) Get(key string) (interface{}, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	value, exists := ic.values[key]
	return value, exists
}

// GetString retrieves a string value from the interceptor context
func (ic *InterceptorContext) GetString(key string) (string, bool) {
	value, exists := ic.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt retrieves an int value from the interceptor context
func (ic *InterceptorContext) GetInt(key string) (int, bool) {
	value, exists := ic.Get(key)
	if !exists {
		return 0, false
	}
	i, ok := value.(int)
	return i, ok
}

// Delete removes a value from the interceptor context
func (ic *InterceptorContext) Delete(key string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.values, key)
}

// Clear removes all values from the interceptor context
func (ic *InterceptorContext) Clear() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.values = make(map[string]interface{})
}

// Copy creates a copy of the interceptor context
func (ic *InterceptorContext) Copy() *InterceptorContext {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	newContext := NewInterceptorContext()
	for k, v := range ic.values {
		newContext.values[k] = v
	}
	return newContext
}

// GetInterceptorContext retrieves the interceptor context from the context
func GetInterceptorContext(ctx context.Context) (*InterceptorContext, bool) {
	value := ctx.Value(InterceptorContextKey)
	if value == nil {
		return nil, false
	}
	ic, ok := value.(*InterceptorContext)
	return ic, ok
}

// WithInterceptorContext adds the interceptor context to the context
func WithInterceptorContext(ctx context.Context, ic *InterceptorContext) context.Context {
	return context.WithValue(ctx, InterceptorContextKey, ic)
}
