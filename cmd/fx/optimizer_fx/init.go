package optimizer_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"routeprocessing/internal/config"
	"routeprocessing/internal/optimization"
	"routeprocessing/internal/routepb"
	"routeprocessing/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideEngine, provideOptimizer),
	fx.Invoke(probeOptimizer),
)

func provideEngine(cfg *config.Config, client *routepb.Client, log zerolog.Logger) *optimization.Engine {
	return optimization.NewEngine(client, optimization.Config{
		ConnectionTimeout: cfg.Grpc.ConnectionTimeout(),
		RequestTimeout:    cfg.Grpc.RequestTimeout(),
		MaxRetryAttempts:  cfg.Grpc.MaxRetryAttempts,
		MaxPollAttempts:   cfg.Grpc.MaxPollAttempts,
		PollDelay:         cfg.Grpc.PollDelay(),
	}, optimization.NewLogSink(log), log)
}

func provideOptimizer(cfg *config.Config, engine *optimization.Engine, log zerolog.Logger) services.RouteOptimizer {
	if cfg.Processing.Backend == config.BackendScript {
		return services.NewScriptRouteOptimizer(cfg.Script, cfg.Processing.TempDataDirectory, log)
	}
	return services.NewGrpcRouteOptimizer(engine)
}

// probeOptimizer checks the backend once at startup. An unhealthy backend is
// only reported.
func probeOptimizer(lc fx.Lifecycle, optimizer services.RouteOptimizer, log zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			health := optimizer.Health(ctx)
			ev := log.Info()
			if !health.Healthy {
				ev = log.Warn().Str("error", health.Error)
			}
			ev.Str("backend", optimizer.Name()).
				Bool("healthy", health.Healthy).
				Str("status", health.Status).
				Str("version", health.Version).
				Msg("optimizer health probe")
			return nil
		},
	})
}
