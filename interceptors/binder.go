package interceptors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"

	"github.com/glimte/interpose/contracts"
)

// DefaultResolutionCacheSize is the number of method resolutions a Binder memoizes
const DefaultResolutionCacheSize = 1024

// Binding attaches interceptors to every method whose type markers satisfy
// TypeMatcher and whose method markers satisfy MethodMatcher
type Binding struct {
	TypeMatcher   Matcher
	MethodMatcher Matcher
	Interceptors  []Interceptor
}

// Applies reports whether the binding matches method
func (b Binding) Applies(method contracts.Method) bool {
	return b.TypeMatcher.Matches(method.TypeMarkers) && b.MethodMatcher.Matches(method.MethodMarkers)
}

// resolutionKey identifies a method descriptor for memoization. Matching
// depends on the markers as well as the identity, so both are part of the key.
type resolutionKey struct {
	id            contracts.Identity
	typeMarkers   string
	methodMarkers string
}

func keyOf(method contracts.Method) resolutionKey {
	return resolutionKey{
		id:            method.ID,
		typeMarkers:   fingerprint(method.TypeMarkers),
		methodMarkers: fingerprint(method.MethodMarkers),
	}
}

// fingerprint renders a marker set canonically; List is sorted
func fingerprint(markers contracts.Markers) string {
	list := markers.List()
	parts := make([]string, len(list))
	for i, marker := range list {
		parts[i] = string(marker)
	}
	return strings.Join(parts, "\x00")
}

// resolution is a memoized lookup, valid only for the generation it was computed in
type resolution struct {
	generation   uint64
	interceptors []Interceptor
}

// Binder holds the registered bindings and resolves them per method.
//
// Bindings may be registered at any time. A registration applies to every call
// that resolves after it returns; calls already in flight keep the chain they
// started with. Resolutions are memoized per identity and marker sets, and the
// memo is invalidated on every registration.
type Binder struct {
	mu         sync.RWMutex
	bindings   []Binding
	generation atomic.Uint64
	cache      *lru.Cache[resolutionKey, resolution]
	logger     *slog.Logger
}

// binderConfig holds binder configuration
type binderConfig struct {
	logger    *slog.Logger
	cacheSize int
}

// BinderOption configures the binder
type BinderOption func(*binderConfig)

// WithBinderLogger sets the logger
func WithBinderLogger(logger *slog.Logger) BinderOption {
	return func(cfg *binderConfig) {
		cfg.logger = logger
	}
}

// WithResolutionCacheSize sets how many resolutions are memoized. Zero or a
// negative size disables memoization.
func WithResolutionCacheSize(size int) BinderOption {
	return func(cfg *binderConfig) {
		cfg.cacheSize = size
	}
}

// NewBinder creates a binder with no bindings
func NewBinder(options ...BinderOption) *Binder {
	cfg := &binderConfig{
		cacheSize: DefaultResolutionCacheSize,
	}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	b := &Binder{logger: cfg.logger}
	if cfg.cacheSize > 0 {
		// lru.New only fails for non-positive sizes
		cache, err := lru.New[resolutionKey, resolution](cfg.cacheSize)
		if err == nil {
			b.cache = cache
		}
	}
	return b
}

// Register appends a binding. The interceptors run in the given order, after
// the interceptors of every earlier binding that matches the same method.
// Invalid arguments are all reported together and leave the binder unchanged.
func (b *Binder) Register(typeMatcher, methodMatcher Matcher, interceptors ...Interceptor) error {
	if err := validateBinding(typeMatcher, methodMatcher, interceptors); err != nil {
		return err
	}

	binding := Binding{
		TypeMatcher:   typeMatcher,
		MethodMatcher: methodMatcher,
		Interceptors:  append([]Interceptor(nil), interceptors...),
	}

	b.mu.Lock()
	b.bindings = append(b.bindings, binding)
	b.generation.Add(1)
	count := len(b.bindings)
	b.mu.Unlock()

	if b.cache != nil {
		b.cache.Purge()
	}

	b.logger.Debug("binding registered",
		"binding", count,
		"interceptors", len(interceptors),
	)
	return nil
}

func validateBinding(typeMatcher, methodMatcher Matcher, interceptors []Interceptor) error {
	var errs error
	if typeMatcher == nil {
		errs = multierr.Append(errs, errors.New("type matcher cannot be nil"))
	}
	if methodMatcher == nil {
		errs = multierr.Append(errs, errors.New("method matcher cannot be nil"))
	}
	if len(interceptors) == 0 {
		errs = multierr.Append(errs, errors.New("at least one interceptor is required"))
	}
	for i, interceptor := range interceptors {
		if interceptor == nil {
			errs = multierr.Append(errs, fmt.Errorf("interceptor %d cannot be nil", i))
		}
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBinding, errs)
	}
	return nil
}

// Bindings returns a copy of the registered bindings in registration order
func (b *Binder) Bindings() []Binding {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Binding, len(b.bindings))
	copy(out, b.bindings)
	return out
}

// Resolve returns the interceptors that apply to method, in order
func (b *Binder) Resolve(method contracts.Method) []Interceptor {
	resolved := b.resolve(method)
	if len(resolved) == 0 {
		return nil
	}
	return append([]Interceptor(nil), resolved...)
}

// resolve returns a shared slice that must not be modified
func (b *Binder) resolve(method contracts.Method) []Interceptor {
	var key resolutionKey
	if b.cache != nil {
		key = keyOf(method)
		if cached, ok := b.cache.Get(key); ok && cached.generation == b.generation.Load() {
			return cached.interceptors
		}
	}

	b.mu.RLock()
	generation := b.generation.Load()
	var resolved []Interceptor
	for _, binding := range b.bindings {
		if binding.Applies(method) {
			resolved = append(resolved, binding.Interceptors...)
		}
	}
	b.mu.RUnlock()

	if b.cache != nil {
		b.cache.Add(key, resolution{generation: generation, interceptors: resolved})
	}
	return resolved
}

// Chain builds the interceptor chain for method as of now
func (b *Binder) Chain(method contracts.Method, target Target) *InterceptorChain {
	return NewInterceptorChain(method, target, b.resolve(method), WithChainLogger(b.logger))
}

// Weave returns a target that instruments every call to target. Bindings are
// resolved on each call, so bindings registered later apply to later calls.
// Methods that match no binding run unwrapped.
func (b *Binder) Weave(method contracts.Method, target Target) Target {
	return func(ctx context.Context, args []interface{}) (interface{}, error) {
		interceptors := b.resolve(method)
		if len(interceptors) == 0 {
			return target(ctx, args)
		}

		chain := &InterceptorChain{
			method:       method,
			target:       target,
			interceptors: interceptors,
			logger:       b.logger,
		}
		return chain.Invoke(ctx, args...)
	}
}
