package infra

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"routeprocessing/internal/models/db_models"
)

// InitPostgresql opens the pool and migrates the processing run table.
func InitPostgresql(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := connectionPool.AutoMigrate(&db_models.ProcessingRun{}); err != nil {
		ClosePostgresql(connectionPool, log)
		return nil, fmt.Errorf("migrate processing runs: %w", err)
	}

	log.Info().Msg("PostgreSQL connection established")
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("get database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("close database connection")
	} else {
		log.Info().Msg("PostgreSQL database connection closed successfully")
	}
}
