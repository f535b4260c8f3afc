package interpose

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/glimte/interpose/interceptors"
	"github.com/glimte/interpose/metrics"
)

// ErrInvalidConfig is returned when a Config fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the tunables of a Client
type Config struct {
	// TimerCapacity is the number of samples each timer keeps
	TimerCapacity int `json:"timerCapacity"`
	// ResolutionCacheSize is the number of method resolutions the binder
	// memoizes. Zero disables memoization.
	ResolutionCacheSize int `json:"resolutionCacheSize"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		TimerCapacity:       metrics.DefaultTimerCapacity,
		ResolutionCacheSize: interceptors.DefaultResolutionCacheSize,
	}
}

// Validate reports every invalid field
func (c Config) Validate() error {
	var errs error
	if c.TimerCapacity <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("timer capacity must be positive, got %d", c.TimerCapacity))
	}
	if c.ResolutionCacheSize < 0 {
		errs = multierr.Append(errs, fmt.Errorf("resolution cache size cannot be negative, got %d", c.ResolutionCacheSize))
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}
