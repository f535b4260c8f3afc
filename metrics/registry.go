package metrics

import (
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/glimte/interpose/contracts"
)

// Registry owns the Counter and Timer of every instrumented method
type Registry struct {
	counters sync.Map // map[contracts.Identity]*Counter
	timers   sync.Map // map[contracts.Identity]*Timer

	timerCapacity int
	clock         clock.Clock
	logger        *slog.Logger
}

// registryConfig holds registry configuration
type registryConfig struct {
	timerCapacity int
	clock         clock.Clock
	logger        *slog.Logger
}

// RegistryOption configures the registry
type RegistryOption func(*registryConfig)

// WithTimerCapacity sets how many samples each Timer keeps.
// Values below one fall back to DefaultTimerCapacity.
func WithTimerCapacity(capacity int) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.timerCapacity = capacity
	}
}

// WithClock sets the clock used by timers
func WithClock(clk clock.Clock) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.clock = clk
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.logger = logger
	}
}

// NewRegistry creates an empty registry
func NewRegistry(options ...RegistryOption) *Registry {
	cfg := &registryConfig{
		timerCapacity: DefaultTimerCapacity,
	}
	for _, opt := range options {
		opt(cfg)
	}

	if cfg.timerCapacity <= 0 {
		cfg.timerCapacity = DefaultTimerCapacity
	}
	if cfg.clock == nil {
		cfg.clock = clock.New()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Registry{
		timerCapacity: cfg.timerCapacity,
		clock:         cfg.clock,
		logger:        cfg.logger,
	}
}

// Counter returns the counter for id, creating it on first use
func (r *Registry) Counter(id contracts.Identity) *Counter {
	if v, ok := r.counters.Load(id); ok {
		return v.(*Counter)
	}

	v, loaded := r.counters.LoadOrStore(id, &Counter{})
	if !loaded {
		r.logger.Debug("counter created", "method", id.String())
	}
	return v.(*Counter)
}

// Timer returns the timer for id, creating it on first use
func (r *Registry) Timer(id contracts.Identity) *Timer {
	if v, ok := r.timers.Load(id); ok {
		return v.(*Timer)
	}

	v, loaded := r.timers.LoadOrStore(id, newTimer(r.timerCapacity, r.clock))
	if !loaded {
		r.logger.Debug("timer created", "method", id.String(), "capacity", r.timerCapacity)
	}
	return v.(*Timer)
}

// GetCounter returns the counter for id without creating one
func (r *Registry) GetCounter(id contracts.Identity) (*Counter, bool) {
	v, ok := r.counters.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Counter), true
}

// GetTimer returns the timer for id without creating one
func (r *Registry) GetTimer(id contracts.Identity) (*Timer, bool) {
	v, ok := r.timers.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Timer), true
}

// TimerCapacity returns the capacity given to new timers
func (r *Registry) TimerCapacity() int {
	return r.timerCapacity
}
