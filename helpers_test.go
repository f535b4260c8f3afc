package interpose

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glimte/interpose/contracts"
	"github.com/glimte/interpose/interceptors"
)

const (
	tracked contracts.Marker = "tracked"
	count   contracts.Marker = "count"
	timed   contracts.Marker = "timed"
)

var errOutOfStock = errors.New("out of stock")

// inventory is an instrumented service used throughout the tests
type inventory struct {
	calls atomic.Int64
}

func (s *inventory) IntMethod() int {
	s.calls.Add(1)
	return 42
}

func (s *inventory) VoidMethod() {
	s.calls.Add(1)
}

func (s *inventory) UnannotatedMethod() string {
	s.calls.Add(1)
	return "plain"
}

func (s *inventory) Reserve(ctx context.Context, sku string, qty int) (int, error) {
	s.calls.Add(1)
	if qty > 10 {
		return 0, errOutOfStock
	}
	return qty, nil
}

func (s *inventory) Sum(base int, values ...int) int {
	for _, v := range values {
		base += v
	}
	return base
}

func (s *inventory) Check(ok bool) error {
	if !ok {
		return errOutOfStock
	}
	return nil
}

func (s *inventory) Labels(labels map[string]string) int {
	return len(labels)
}

func (s *inventory) Pair() (int, string) {
	return 0, ""
}

func (s *inventory) Explode() int {
	panic("exploded")
}

// catalog is a second service that carries no type markers
type catalog struct{}

func (catalog) IntMethod() int {
	return 7
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, options ...ClientOption) *Client {
	t.Helper()
	client, err := NewClient(append([]ClientOption{WithLogger(discardLogger())}, options...)...)
	require.NoError(t, err)
	return client
}

// wrap instruments the named inventory method with tracked type markers
func wrap(t *testing.T, client *Client, receiver interface{}, name string, typeMarkers []contracts.Marker, methodMarkers ...contracts.Marker) (contracts.Method, interceptors.Target) {
	t.Helper()
	method, target, err := client.WrapMethod(receiver, name,
		contracts.NewMarkers(typeMarkers...), contracts.NewMarkers(methodMarkers...))
	require.NoError(t, err)
	return method, target
}

func call(t *testing.T, target interceptors.Target, args ...interface{}) interface{} {
	t.Helper()
	result, err := target(context.Background(), args)
	require.NoError(t, err)
	return result
}
