package interceptors

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/glimte/interpose/contracts"
)

// ErrCircuitOpen is returned instead of calling a method whose breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerState represents the circuit breaker state
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitOpenError reports a call rejected by an open breaker
type CircuitOpenError struct {
	Method    contracts.Identity
	State     BreakerState
	Failures  int
	NextRetry time.Time
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker %s for %s (failures: %d, next retry: %s)",
		e.State, e.Method, e.Failures, e.NextRetry.Format(time.RFC3339))
}

func (e *CircuitOpenError) Unwrap() error {
	return ErrCircuitOpen
}

// breaker tracks the failures of one method
type breaker struct {
	mu              sync.Mutex
	state           BreakerState
	failures        int
	successes       int
	halfOpenCalls   int
	lastFailureTime time.Time
}

// BreakerInterceptor stops calling a method after it keeps failing. Each
// method it is bound to gets its own breaker. While a breaker is open, calls
// return a *CircuitOpenError without proceeding.
type BreakerInterceptor struct {
	breakers sync.Map // contracts.Identity -> *breaker

	failureThreshold int
	successThreshold int
	halfOpenRequests int
	timeout          time.Duration
	clock            clock.Clock
	logger           *slog.Logger
}

// BreakerOption configures the breaker interceptor
type BreakerOption func(*BreakerInterceptor)

// WithFailureThreshold sets the consecutive failures that open a breaker
func WithFailureThreshold(threshold int) BreakerOption {
	return func(b *BreakerInterceptor) {
		b.failureThreshold = threshold
	}
}

// WithSuccessThreshold sets the successes in half-open state that close a breaker
func WithSuccessThreshold(threshold int) BreakerOption {
	return func(b *BreakerInterceptor) {
		b.successThreshold = threshold
	}
}

// WithHalfOpenRequests sets the max calls let through in half-open state
func WithHalfOpenRequests(requests int) BreakerOption {
	return func(b *BreakerInterceptor) {
		b.halfOpenRequests = requests
	}
}

// WithOpenTimeout sets how long a breaker stays open before probing again
func WithOpenTimeout(timeout time.Duration) BreakerOption {
	return func(b *BreakerInterceptor) {
		b.timeout = timeout
	}
}

// WithBreakerClock sets the clock
func WithBreakerClock(clk clock.Clock) BreakerOption {
	return func(b *BreakerInterceptor) {
		b.clock = clk
	}
}

// WithBreakerLogger sets the logger
func WithBreakerLogger(logger *slog.Logger) BreakerOption {
	return func(b *BreakerInterceptor) {
		b.logger = logger
	}
}

// NewBreakerInterceptor creates a breaker interceptor
func NewBreakerInterceptor(options ...BreakerOption) *BreakerInterceptor {
	b := &BreakerInterceptor{
		failureThreshold: 5,
		successThreshold: 3,
		halfOpenRequests: 3,
		timeout:          30 * time.Second,
	}
	for _, opt := range options {
		opt(b)
	}
	if b.clock == nil {
		b.clock = clock.New()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Intercept implements Interceptor
func (b *BreakerInterceptor) Intercept(jp *JoinPoint) (interface{}, error) {
	br := b.breakerFor(jp.Method())
	if err := b.allow(jp.Method(), br); err != nil {
		return nil, err
	}

	succeeded := false
	defer func() {
		// panics count as failures
		b.record(jp.Method(), br, succeeded)
	}()

	result, err := jp.Proceed()
	succeeded = err == nil
	return result, err
}

// Name implements Interceptor
func (b *BreakerInterceptor) Name() string {
	return "BreakerInterceptor"
}

// State returns the breaker state of method. Methods never called are closed.
func (b *BreakerInterceptor) State(method contracts.Identity) BreakerState {
	v, ok := b.breakers.Load(method)
	if !ok {
		return BreakerClosed
	}
	br := v.(*breaker)
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.state
}

// Reset closes the breaker of method
func (b *BreakerInterceptor) Reset(method contracts.Identity) {
	v, ok := b.breakers.Load(method)
	if !ok {
		return
	}
	br := v.(*breaker)
	br.mu.Lock()
	defer br.mu.Unlock()
	b.transition(method, br, BreakerClosed, "reset")
}

func (b *BreakerInterceptor) breakerFor(method contracts.Identity) *breaker {
	if v, ok := b.breakers.Load(method); ok {
		return v.(*breaker)
	}
	v, _ := b.breakers.LoadOrStore(method, &breaker{})
	return v.(*breaker)
}

func (b *BreakerInterceptor) allow(method contracts.Identity, br *breaker) error {
	br.mu.Lock()
	defer br.mu.Unlock()

	switch br.state {
	case BreakerOpen:
		nextRetry := br.lastFailureTime.Add(b.timeout)
		if b.clock.Now().Before(nextRetry) {
			return &CircuitOpenError{Method: method, State: br.state, Failures: br.failures, NextRetry: nextRetry}
		}
		b.transition(method, br, BreakerHalfOpen, "timeout expired")
		br.halfOpenCalls = 1
		return nil

	case BreakerHalfOpen:
		if br.halfOpenCalls >= b.halfOpenRequests {
			return &CircuitOpenError{Method: method, State: br.state, Failures: br.failures, NextRetry: b.clock.Now().Add(time.Second)}
		}
		br.halfOpenCalls++
		return nil

	default:
		return nil
	}
}

func (b *BreakerInterceptor) record(method contracts.Identity, br *breaker, succeeded bool) {
	br.mu.Lock()
	defer br.mu.Unlock()

	if !succeeded {
		br.failures++
		br.lastFailureTime = b.clock.Now()
		switch br.state {
		case BreakerClosed:
			if br.failures >= b.failureThreshold {
				b.transition(method, br, BreakerOpen,
					fmt.Sprintf("failure threshold reached (%d/%d)", br.failures, b.failureThreshold))
			}
		case BreakerHalfOpen:
			b.transition(method, br, BreakerOpen, "failure in half-open state")
		}
		return
	}

	switch br.state {
	case BreakerClosed:
		br.failures = 0
	case BreakerHalfOpen:
		br.successes++
		if br.successes >= b.successThreshold {
			b.transition(method, br, BreakerClosed,
				fmt.Sprintf("success threshold reached (%d/%d)", br.successes, b.successThreshold))
		}
	}
}

// transition must be called with br.mu held
func (b *BreakerInterceptor) transition(method contracts.Identity, br *breaker, to BreakerState, reason string) {
	from := br.state
	br.state = to
	br.successes = 0
	br.halfOpenCalls = 0
	if to == BreakerClosed {
		br.failures = 0
	}
	if from != to {
		b.logger.Warn("circuit breaker state changed",
			"method", method.String(),
			"from", from.String(),
			"to", to.String(),
			"reason", reason,
		)
	}
}
