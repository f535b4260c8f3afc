package interceptors

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/glimte/interpose/contracts"
)

const (
	tracked contracts.Marker = "tracked"
	count   contracts.Marker = "count"
	timed   contracts.Marker = "timed"
)

var (
	intMethod = contracts.NewMethod(
		contracts.NewIdentity("example.Methods", "IntMethod", "func() int"),
		contracts.NewMarkers(tracked),
		contracts.NewMarkers(count, timed),
	)
	voidMethod = contracts.NewMethod(
		contracts.NewIdentity("example.Methods", "VoidMethod", "func()"),
		contracts.NewMarkers(tracked),
		contracts.NewMarkers(count, timed),
	)
	unannotatedMethod = contracts.NewMethod(
		contracts.NewIdentity("example.Methods", "UnannotatedMethod", "func()"),
		contracts.NewMarkers(tracked),
		contracts.NewMarkers(),
	)
	untrackedMethod = contracts.NewMethod(
		contracts.NewIdentity("example.Other", "IntMethod", "func() int"),
		contracts.NewMarkers(),
		contracts.NewMarkers(count, timed),
	)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockTarget is a target method backed by testify's mock
type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) Call(ctx context.Context, args []interface{}) (interface{}, error) {
	ret := m.Called(args)
	return ret.Get(0), ret.Error(1)
}

// recordingInterceptor appends before/after entries to a shared log
type recordingInterceptor struct {
	name string
	log  *[]string
	mu   *sync.Mutex
}

func newRecordingInterceptor(name string, log *[]string, mu *sync.Mutex) *recordingInterceptor {
	return &recordingInterceptor{name: name, log: log, mu: mu}
}

func (i *recordingInterceptor) Intercept(jp *JoinPoint) (interface{}, error) {
	i.append("before:" + i.name)
	result, err := jp.Proceed()
	i.append("after:" + i.name)
	return result, err
}

func (i *recordingInterceptor) append(entry string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	*i.log = append(*i.log, entry)
}

func (i *recordingInterceptor) Name() string {
	return i.name
}

func constant(v interface{}) Target {
	return func(ctx context.Context, args []interface{}) (interface{}, error) {
		return v, nil
	}
}

// recoverPanic runs fn and returns the recovered panic value, if any
func recoverPanic(fn func()) (recovered interface{}) {
	defer func() {
		recovered = recover()
	}()
	fn()
	return nil
}
