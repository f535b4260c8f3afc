package interpose

import (
	"context"
	"log/slog"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/glimte/interpose/interceptors"
	"github.com/glimte/interpose/metrics"
)

// Module provides a Client together with its binder and registry
var Module = fx.Module("interpose",
	fx.Provide(ProvideClient),
	fx.Invoke(registerLifecycle),
)

// ModuleInput are the optional dependencies of Module
type ModuleInput struct {
	fx.In
	Logger *slog.Logger `optional:"true"`
	Config *Config      `optional:"true"`
	Clock  clock.Clock  `optional:"true"`
}

// ModuleOutput are the components Module provides
type ModuleOutput struct {
	fx.Out
	Client   *Client
	Registry *metrics.Registry
	Binder   *interceptors.Binder
}

// ProvideClient builds a Client from the module inputs
func ProvideClient(input ModuleInput) (ModuleOutput, error) {
	options := []ClientOption{WithLogger(input.Logger)}
	if input.Config != nil {
		options = append(options, WithConfig(*input.Config))
	}
	if input.Clock != nil {
		options = append(options, WithClock(input.Clock))
	}

	client, err := NewClient(options...)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{
		Client:   client,
		Registry: client.Registry(),
		Binder:   client.Binder(),
	}, nil
}

func registerLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			client.logger.Info("interpose started",
				"bindings", len(client.binder.Bindings()),
				"timerCapacity", client.registry.TimerCapacity(),
			)
			return nil
		},
	})
}
