package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"routeprocessing/internal/models/db_models"
	"routeprocessing/pkg/utils"
)

type ProcessingRunRepositoryInterface interface {
	CreateRun(ctx context.Context, run *db_models.ProcessingRun) error
	UpdateRun(ctx context.Context, run *db_models.ProcessingRun) error
	// GetRunByID returns nil, nil when the run does not exist.
	GetRunByID(ctx context.Context, runID string) (*db_models.ProcessingRun, error)
	ListRunsByRouteID(ctx context.Context, routeID string, limit int) ([]db_models.ProcessingRun, error)
	DeleteRunsCreatedBefore(ctx context.Context, cutoff int64) (int64, error)
}

func NewProcessingRunRepository(db *gorm.DB) ProcessingRunRepositoryInterface {
	return &ProcessingRunRepository{db: db}
}

type ProcessingRunRepository struct {
	db *gorm.DB
}

func (r *ProcessingRunRepository) CreateRun(ctx context.Context, run *db_models.ProcessingRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("%w: create run: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *ProcessingRunRepository) UpdateRun(ctx context.Context, run *db_models.ProcessingRun) error {
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("%w: update run %s: %v", utils.ErrDatabaseError, run.ID, err)
	}
	return nil
}

func (r *ProcessingRunRepository) GetRunByID(ctx context.Context, runID string) (*db_models.ProcessingRun, error) {
	var run db_models.ProcessingRun
	err := r.db.WithContext(ctx).Where("id = ?", runID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get run %s: %v", utils.ErrDatabaseError, runID, err)
	}
	return &run, nil
}

func (r *ProcessingRunRepository) ListRunsByRouteID(ctx context.Context, routeID string, limit int) ([]db_models.ProcessingRun, error) {
	var runs []db_models.ProcessingRun
	err := r.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list runs of route %s: %v", utils.ErrDatabaseError, routeID, err)
	}
	return runs, nil
}

func (r *ProcessingRunRepository) DeleteRunsCreatedBefore(ctx context.Context, cutoff int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&db_models.ProcessingRun{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: purge runs: %v", utils.ErrDatabaseError, res.Error)
	}
	return res.RowsAffected, nil
}
