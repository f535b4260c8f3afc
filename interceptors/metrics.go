package interceptors

import (
	"github.com/glimte/interpose/contracts"
	"github.com/glimte/interpose/metrics"
)

// CounterRegistry serves per-method counters
type CounterRegistry interface {
	Counter(id contracts.Identity) *metrics.Counter
}

// TimerRegistry serves per-method timers
type TimerRegistry interface {
	Timer(id contracts.Identity) *metrics.Timer
}

// CountingInterceptor counts invocations of the methods it is bound to
type CountingInterceptor struct {
	registry CounterRegistry
}

// NewCountingInterceptor creates a new counting interceptor
func NewCountingInterceptor(registry CounterRegistry) *CountingInterceptor {
	return &CountingInterceptor{registry: registry}
}

// Intercept implements Interceptor
func (i *CountingInterceptor) Intercept(jp *JoinPoint) (interface{}, error) {
	return i.registry.Counter(jp.Method()).Observe(jp.Proceed)
}

// Name implements Interceptor
func (i *CountingInterceptor) Name() string {
	return "CountingInterceptor"
}

// TimingInterceptor times the part of the chain below it. With several
// interceptors bound to one method, each timing interceptor measures exactly
// the span of its own Proceed call.
type TimingInterceptor struct {
	registry TimerRegistry
}

// NewTimingInterceptor creates a new timing interceptor
func NewTimingInterceptor(registry TimerRegistry) *TimingInterceptor {
	return &TimingInterceptor{registry: registry}
}

// Intercept implements Interceptor
func (i *TimingInterceptor) Intercept(jp *JoinPoint) (interface{}, error) {
	return i.registry.Timer(jp.Method()).Observe(jp.Proceed)
}

// Name implements Interceptor
func (i *TimingInterceptor) Name() string {
	return "TimingInterceptor"
}
