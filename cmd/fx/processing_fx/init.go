package processing_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"routeprocessing/internal/config"
	"routeprocessing/internal/repositories"
	"routeprocessing/internal/services"
)

var Module = fx.Provide(provideProcessingService)

func provideProcessingService(
	lc fx.Lifecycle,
	cfg *config.Config,
	optimizer services.RouteOptimizer,
	runRepo repositories.ProcessingRunRepositoryInterface,
	publisher services.MessagePublisher,
	log zerolog.Logger,
) services.RouteProcessingServiceInterface {
	svc := services.NewRouteProcessingService(cfg.Processing, optimizer, runRepo, publisher, log)
	lc.Append(fx.Hook{
		OnStart: svc.Start,
		OnStop:  svc.Shutdown,
	})
	return svc
}
