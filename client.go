// Copyright 2024 Mmate Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interpose

import (
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/glimte/interpose/contracts"
	"github.com/glimte/interpose/interceptors"
	"github.com/glimte/interpose/metrics"
)

// Client provides the main entry point for interpose. It owns one binder and
// one metrics registry and hands out the interceptors that report into it.
type Client struct {
	binder   *interceptors.Binder
	registry *metrics.Registry
	counting *interceptors.CountingInterceptor
	timing   *interceptors.TimingInterceptor
	logging  *interceptors.LoggingInterceptor
	logger   *slog.Logger
}

// NewClient creates a new client with options
func NewClient(options ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		config: DefaultConfig(),
		logger: slog.Default(),
		clock:  clock.New(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.clock == nil {
		cfg.clock = clock.New()
	}

	registry := metrics.NewRegistry(
		metrics.WithTimerCapacity(cfg.config.TimerCapacity),
		metrics.WithClock(cfg.clock),
		metrics.WithLogger(cfg.logger),
	)
	binder := interceptors.NewBinder(
		interceptors.WithBinderLogger(cfg.logger),
		interceptors.WithResolutionCacheSize(cfg.config.ResolutionCacheSize),
	)

	return &Client{
		binder:   binder,
		registry: registry,
		counting: interceptors.NewCountingInterceptor(registry),
		timing:   interceptors.NewTimingInterceptor(registry),
		logging:  interceptors.NewLoggingInterceptor(cfg.logger).WithClock(cfg.clock),
		logger:   cfg.logger,
	}, nil
}

// Register adds a binding to the client's binder
func (c *Client) Register(typeMatcher, methodMatcher interceptors.Matcher, chain ...interceptors.Interceptor) error {
	return c.binder.Register(typeMatcher, methodMatcher, chain...)
}

// Wrap returns target instrumented by every binding that matches method, now
// or in the future
func (c *Client) Wrap(method contracts.Method, target interceptors.Target) interceptors.Target {
	return c.binder.Weave(method, target)
}

// WrapMethod looks up the named method on receiver and wraps it
func (c *Client) WrapMethod(receiver interface{}, name string, typeMarkers, methodMarkers contracts.Markers) (contracts.Method, interceptors.Target, error) {
	method, target, err := MethodOf(receiver, name, typeMarkers, methodMarkers)
	if err != nil {
		return contracts.Method{}, nil, err
	}
	return method, c.Wrap(method, target), nil
}

// Counting returns the interceptor that counts calls into the client's registry
func (c *Client) Counting() *interceptors.CountingInterceptor {
	return c.counting
}

// Timing returns the interceptor that times calls into the client's registry
func (c *Client) Timing() *interceptors.TimingInterceptor {
	return c.timing
}

// Logging returns an interceptor that logs every call at debug level
func (c *Client) Logging() *interceptors.LoggingInterceptor {
	return c.logging
}

// Binder returns the client's binder
func (c *Client) Binder() *interceptors.Binder {
	return c.binder
}

// Registry returns the client's metrics registry
func (c *Client) Registry() *metrics.Registry {
	return c.registry
}

// clientConfig holds client configuration
type clientConfig struct {
	config Config
	logger *slog.Logger
	clock  clock.Clock
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

// WithLogger sets the logger for all components
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// WithConfig replaces the whole configuration
func WithConfig(config Config) ClientOption {
	return func(cfg *clientConfig) {
		cfg.config = config
	}
}

// WithTimerCapacity sets how many samples each timer keeps
func WithTimerCapacity(capacity int) ClientOption {
	return func(cfg *clientConfig) {
		cfg.config.TimerCapacity = capacity
	}
}

// WithResolutionCacheSize sets how many method resolutions the binder memoizes
func WithResolutionCacheSize(size int) ClientOption {
	return func(cfg *clientConfig) {
		cfg.config.ResolutionCacheSize = size
	}
}

// WithClock sets the clock timers measure with
func WithClock(clk clock.Clock) ClientOption {
	return func(cfg *clientConfig) {
		cfg.clock = clk
	}
}
