package db_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"routeprocessing/internal/config"
	"routeprocessing/internal/infra"
	"routeprocessing/internal/repositories"
)

var Module = fx.Provide(provideRunRepository)

// provideRunRepository stores runs in Postgres when POSTGRES_URL is set and in
// process memory otherwise.
func provideRunRepository(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (repositories.ProcessingRunRepositoryInterface, error) {
	if cfg.Database.PostgresURL == "" {
		log.Info().Dur("retention", cfg.Processing.RetainRunsFor()).Msg("using in-memory run repository")
		return repositories.NewInMemoryProcessingRunRepository(cfg.Processing.RetainRunsFor()), nil
	}

	db, err := infra.InitPostgresql(cfg.Database.PostgresURL, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return repositories.NewProcessingRunRepository(db), nil
}
