package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"routeprocessing/internal/models/db_models"
	mem "routeprocessing/pkg/memcache"
)

// NewInMemoryProcessingRunRepository keeps runs in process memory. Each run
// expires retention after it was created.
func NewInMemoryProcessingRunRepository(retention time.Duration) ProcessingRunRepositoryInterface {
	return &InMemoryProcessingRunRepository{
		store:     mem.NewTTLStore[db_models.ProcessingRun](),
		retention: retention,
	}
}

type InMemoryProcessingRunRepository struct {
	store     *mem.TTLStore[db_models.ProcessingRun]
	retention time.Duration
}

func (r *InMemoryProcessingRunRepository) CreateRun(_ context.Context, run *db_models.ProcessingRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	now := time.Now().Unix()
	if run.CreatedAt == 0 {
		run.CreatedAt = now
	}
	run.UpdatedAt = now
	r.store.Set(run.ID.String(), *run, r.retention)
	return nil
}

func (r *InMemoryProcessingRunRepository) UpdateRun(_ context.Context, run *db_models.ProcessingRun) error {
	run.UpdatedAt = time.Now().Unix()
	if !r.store.Update(run.ID.String(), *run) {
		r.store.Set(run.ID.String(), *run, r.retention)
	}
	return nil
}

func (r *InMemoryProcessingRunRepository) GetRunByID(_ context.Context, runID string) (*db_models.ProcessingRun, error) {
	run, ok := r.store.Get(runID)
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (r *InMemoryProcessingRunRepository) ListRunsByRouteID(_ context.Context, routeID string, limit int) ([]db_models.ProcessingRun, error) {
	var runs []db_models.ProcessingRun
	for _, run := range r.store.Values() {
		if run.RouteID == routeID {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt > runs[j].CreatedAt })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *InMemoryProcessingRunRepository) DeleteRunsCreatedBefore(_ context.Context, cutoff int64) (int64, error) {
	n := r.store.DeleteFunc(func(_ string, run db_models.ProcessingRun) bool {
		return run.CreatedAt < cutoff
	})
	return int64(n), nil
}
