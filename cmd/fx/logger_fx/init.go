package logger_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"routeprocessing/internal/config"
	"routeprocessing/pkg/logger"
)

var Module = fx.Provide(provideLogger)

func provideLogger(cfg *config.Config) zerolog.Logger {
	l := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(l)
	return l
}
