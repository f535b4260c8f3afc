package interceptors

import (
	"context"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/glimte/interpose/contracts"
)

// Target is the real method at the end of a chain
type Target func(ctx context.Context, args []interface{}) (interface{}, error)

// Interceptor wraps invocations of the methods it is bound to
type Interceptor interface {
	// Intercept handles one invocation. Implementations call jp.Proceed at most
	// once to continue the chain and normally return its result unchanged.
	Intercept(jp *JoinPoint) (interface{}, error)

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc struct {
	name string
	fn   func(jp *JoinPoint) (interface{}, error)
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc(name string, fn func(jp *JoinPoint) (interface{}, error)) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor
func (i *InterceptorFunc) Intercept(jp *JoinPoint) (interface{}, error) {
	return i.fn(jp)
}

// Name implements Interceptor
func (i *InterceptorFunc) Name() string {
	return i.name
}

// InterceptorChain is the ordered list of interceptors wrapped around one
// method. It is immutable and safe for concurrent use; every Invoke starts a
// fresh invocation.
type InterceptorChain struct {
	method       contracts.Method
	target       Target
	interceptors []Interceptor
	logger       *slog.Logger
}

// chainConfig holds chain configuration
type chainConfig struct {
	logger *slog.Logger
}

// ChainOption configures an interceptor chain
type ChainOption func(*chainConfig)

// WithChainLogger sets the logger used to report protocol violations
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(cfg *chainConfig) {
		cfg.logger = logger
	}
}

// NewInterceptorChain creates a chain that runs interceptors in order around target
func NewInterceptorChain(method contracts.Method, target Target, interceptors []Interceptor, options ...ChainOption) *InterceptorChain {
	cfg := &chainConfig{}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	copied := make([]Interceptor, len(interceptors))
	copy(copied, interceptors)

	return &InterceptorChain{
		method:       method,
		target:       target,
		interceptors: copied,
		logger:       cfg.logger,
	}
}

// Method returns the method the chain wraps
func (c *InterceptorChain) Method() contracts.Method {
	return c.method
}

// Len returns the number of interceptors in the chain
func (c *InterceptorChain) Len() int {
	return len(c.interceptors)
}

// Names returns the interceptor names in execution order
func (c *InterceptorChain) Names() []string {
	names := make([]string, len(c.interceptors))
	for i, interceptor := range c.interceptors {
		names[i] = interceptor.Name()
	}
	return names
}

// Invoke runs one invocation through the chain. Errors from the target or an
// interceptor are returned unchanged and panics propagate unchanged.
func (c *InterceptorChain) Invoke(ctx context.Context, args ...interface{}) (interface{}, error) {
	if len(c.interceptors) == 0 {
		return c.target(ctx, args)
	}

	inv := newInvocation(ctx, c, args)
	return inv.advance(0)
}

// Built-in interceptors

// LoggingInterceptor logs every invocation with its duration
type LoggingInterceptor struct {
	logger *slog.Logger
	level  slog.Level
	clock  clock.Clock
}

// NewLoggingInterceptor creates a new logging interceptor that logs at debug level
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor{logger: logger, level: slog.LevelDebug, clock: clock.New()}
}

// WithLevel returns a copy that logs successful invocations at level
func (i *LoggingInterceptor) WithLevel(level slog.Level) *LoggingInterceptor {
	c := *i
	c.level = level
	return &c
}

// WithClock returns a copy that measures durations with clk
func (i *LoggingInterceptor) WithClock(clk clock.Clock) *LoggingInterceptor {
	c := *i
	if clk != nil {
		c.clock = clk
	}
	return &c
}

// Intercept implements Interceptor
func (i *LoggingInterceptor) Intercept(jp *JoinPoint) (interface{}, error) {
	start := i.clock.Now()
	method := jp.Method().String()

	i.logger.Log(jp.Context(), i.level, "invoking method",
		"method", method,
		"invocationId", jp.InvocationID(),
		"arguments", len(jp.inv.args),
	)

	result, err := jp.Proceed()
	duration := i.clock.Since(start)

	if err != nil {
		i.logger.Error("method invocation failed",
			"method", method,
			"invocationId", jp.InvocationID(),
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Log(jp.Context(), i.level, "method invocation completed",
			"method", method,
			"invocationId", jp.InvocationID(),
			"duration", duration,
		)
	}

	return result, err
}

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// ChainBuilder builds an interceptor chain for a single method
type ChainBuilder struct {
	method       contracts.Method
	target       Target
	interceptors []Interceptor
	logger       *slog.Logger
}

// NewChainBuilder creates a new builder
func NewChainBuilder(method contracts.Method, target Target, logger *slog.Logger) *ChainBuilder {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChainBuilder{
		method: method,
		target: target,
		logger: logger,
	}
}

// WithLogging adds a logging interceptor
func (b *ChainBuilder) WithLogging() *ChainBuilder {
	return b.Use(NewLoggingInterceptor(b.logger))
}

// WithCounting adds a counting interceptor backed by registry
func (b *ChainBuilder) WithCounting(registry CounterRegistry) *ChainBuilder {
	return b.Use(NewCountingInterceptor(registry))
}

// WithTiming adds a timing interceptor backed by registry
func (b *ChainBuilder) WithTiming(registry TimerRegistry) *ChainBuilder {
	return b.Use(NewTimingInterceptor(registry))
}

// Use adds interceptors in the given order
func (b *ChainBuilder) Use(interceptors ...Interceptor) *ChainBuilder {
	b.interceptors = append(b.interceptors, interceptors...)
	return b
}

// Build returns the built interceptor chain
func (b *ChainBuilder) Build() *InterceptorChain {
	return NewInterceptorChain(b.method, b.target, b.interceptors, WithChainLogger(b.logger))
}
