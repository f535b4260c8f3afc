package interpose

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/glimte/interpose/interceptors"
	"github.com/glimte/interpose/metrics"
)

func TestModule_Provides(t *testing.T) {
	var (
		client   *Client
		registry *metrics.Registry
		binder   *interceptors.Binder
	)

	app := fxtest.New(t,
		fx.NopLogger,
		Module,
		fx.Supply(discardLogger()),
		fx.Populate(&client, &registry, &binder),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, client)
	assert.Same(t, client.Registry(), registry)
	assert.Same(t, client.Binder(), binder)
	assert.Equal(t, metrics.DefaultTimerCapacity, registry.TimerCapacity())
}

func TestModule_OptionalInputs(t *testing.T) {
	var client *Client
	clk := clock.NewMock()

	app := fxtest.New(t,
		fx.NopLogger,
		Module,
		fx.Supply(discardLogger()),
		fx.Supply(&Config{TimerCapacity: 4}),
		fx.Provide(func() clock.Clock { return clk }),
		fx.Populate(&client),
	)
	defer app.RequireStart().RequireStop()

	assert.Equal(t, 4, client.Registry().TimerCapacity())
}

func TestModule_InvalidConfig(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		Module,
		fx.Supply(&Config{TimerCapacity: -1}),
		fx.Supply(discardLogger()),
	)

	err := app.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timer capacity must be positive")
}

func TestModule_BindingsRegisteredBeforeStart(t *testing.T) {
	app := fxtest.New(t,
		fx.NopLogger,
		Module,
		fx.Supply(discardLogger()),
		fx.Invoke(func(client *Client) error {
			return client.Register(interceptors.AnnotatedWith(tracked), interceptors.Any(), client.Counting())
		}),
		fx.Invoke(func(binder *interceptors.Binder) {
			assert.Len(t, binder.Bindings(), 1)
		}),
	)
	app.RequireStart().RequireStop()
}
