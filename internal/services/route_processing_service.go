package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"routeprocessing/internal/config"
	"routeprocessing/internal/models/db_models"
	"routeprocessing/internal/models/request_models"
	"routeprocessing/internal/models/response_models"
	"routeprocessing/internal/optimization"
	"routeprocessing/internal/repositories"
	"routeprocessing/pkg/utils"
)

const (
	ServiceName = "route-processing"

	runsPath       = "/api/v1/process-route/runs/"
	defaultRunList = 20
	maxRunList     = 100
	janitorEvery   = 10 * time.Minute
)

type RouteProcessingServiceInterface interface {
	// ProcessRoute optimizes synchronously, bounded by the worker pool.
	ProcessRoute(ctx context.Context, req *request_models.ProcessRouteRequest) (*response_models.OptimizedRoute, error)
	// SubmitAsync records a PENDING run and optimizes it in the background.
	SubmitAsync(ctx context.Context, req *request_models.ProcessRouteRequest) (*response_models.AsyncRunAccepted, error)
	GetRun(ctx context.Context, runID string) (*response_models.ProcessingRun, error)
	ListRuns(ctx context.Context, routeID string, limit int) ([]response_models.ProcessingRun, error)
	Health(ctx context.Context) response_models.Health
	PurgeExpiredRuns(ctx context.Context) (int64, error)
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type RouteProcessingService struct {
	optimizer RouteOptimizer
	runRepo   repositories.ProcessingRunRepositoryInterface
	publisher MessagePublisher
	retention time.Duration
	log       zerolog.Logger

	slots   chan struct{}
	wg      sync.WaitGroup
	janitor sync.WaitGroup

	// mu orders admissions against Shutdown so no wg.Add races wg.Wait.
	mu      sync.Mutex
	closing bool

	baseCtx context.Context
	cancel  context.CancelFunc
}

func NewRouteProcessingService(
	cfg config.ProcessingConfig,
	optimizer RouteOptimizer,
	runRepo repositories.ProcessingRunRepositoryInterface,
	publisher MessagePublisher,
	log zerolog.Logger,
) *RouteProcessingService {
	workers := cfg.MaxConcurrentRequests
	if workers < 1 {
		workers = 1
	}
	if publisher == nil {
		publisher = NewLogPublisher(log)
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &RouteProcessingService{
		optimizer: optimizer,
		runRepo:   runRepo,
		publisher: publisher,
		retention: cfg.RetainRunsFor(),
		log:       log.With().Str("component", "route_processing").Logger(),
		slots:     make(chan struct{}, workers),
		baseCtx:   baseCtx,
		cancel:    cancel,
	}
}

func (s *RouteProcessingService) ProcessRoute(ctx context.Context, req *request_models.ProcessRouteRequest) (*response_models.OptimizedRoute, error) {
	domain, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if !s.admit() {
		return nil, utils.ErrShuttingDown
	}
	defer s.wg.Done()

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	run, err := s.createRun(ctx, domain, false)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, run, domain)
}

func (s *RouteProcessingService) SubmitAsync(ctx context.Context, req *request_models.ProcessRouteRequest) (*response_models.AsyncRunAccepted, error) {
	domain, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	if !s.admit() {
		return nil, utils.ErrShuttingDown
	}

	run, err := s.createRun(ctx, domain, true)
	if err != nil {
		s.wg.Done()
		return nil, err
	}
	accepted := &response_models.AsyncRunAccepted{
		RunID:     run.ID.String(),
		Status:    string(run.Status),
		StatusURL: runsPath + run.ID.String(),
	}

	go func() {
		defer s.wg.Done()
		if err := s.acquire(s.baseCtx); err != nil {
			s.fail(run, &optimization.InterruptedError{Stage: "queue", Err: err})
			return
		}
		defer s.release()
		_, _ = s.execute(s.baseCtx, run, domain)
	}()

	return accepted, nil
}

func (s *RouteProcessingService) GetRun(ctx context.Context, runID string) (*response_models.ProcessingRun, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%w: run id %q is not a uuid", utils.ErrInvalidInput, runID)
	}
	run, err := s.runRepo.GetRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, utils.ErrRunNotFound
	}
	out := response_models.NewProcessingRun(run)
	return &out, nil
}

func (s *RouteProcessingService) ListRuns(ctx context.Context, routeID string, limit int) ([]response_models.ProcessingRun, error) {
	if routeID == "" {
		return nil, fmt.Errorf("%w: route_id is required", utils.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultRunList
	}
	if limit > maxRunList {
		limit = maxRunList
	}
	runs, err := s.runRepo.ListRunsByRouteID(ctx, routeID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]response_models.ProcessingRun, 0, len(runs))
	for i := range runs {
		out = append(out, response_models.NewProcessingRun(&runs[i]))
	}
	return out, nil
}

func (s *RouteProcessingService) Health(ctx context.Context) response_models.Health {
	remote := s.optimizer.Health(ctx)
	status := "UP"
	if !remote.Healthy {
		status = "DEGRADED"
	}
	if s.isClosing() {
		status = "SHUTTING_DOWN"
	}
	return response_models.Health{
		Status:    status,
		Service:   ServiceName,
		Backend:   s.optimizer.Name(),
		Timestamp: utils.FormatRFC3339(time.Now()),
		Remote:    &remote,
	}
}

func (s *RouteProcessingService) PurgeExpiredRuns(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.retention).Unix()
	n, err := s.runRepo.DeleteRunsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("purged expired processing runs")
	}
	return n, nil
}

// Start launches the janitor that purges runs older than the retention window.
func (s *RouteProcessingService) Start(context.Context) error {
	s.janitor.Add(1)
	go func() {
		defer s.janitor.Done()
		ticker := time.NewTicker(janitorEvery)
		defer ticker.Stop()
		for {
			select {
			case <-s.baseCtx.Done():
				return
			case <-ticker.C:
				if _, err := s.PurgeExpiredRuns(s.baseCtx); err != nil {
					s.log.Warn().Err(err).Msg("purge expired runs")
				}
			}
		}
	}()
	return nil
}

// Shutdown rejects new work and waits for in-flight runs. When ctx expires
// first, background runs are cancelled and ctx's error is returned.
func (s *RouteProcessingService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("shutdown deadline reached, cancelling in-flight runs")
		err = ctx.Err()
	}
	s.cancel()
	<-done
	s.janitor.Wait()
	return err
}

// admit registers one unit of work unless Shutdown has begun. Callers that
// get true must call wg.Done.
func (s *RouteProcessingService) admit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *RouteProcessingService) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *RouteProcessingService) validate(req *request_models.ProcessRouteRequest) (*optimization.OptimizationRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", utils.ErrInvalidInput)
	}
	domain := req.ToDomain()
	if _, err := optimization.TranslateRequest(domain); err != nil {
		return nil, err
	}
	return domain, nil
}

func (s *RouteProcessingService) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RouteProcessingService) release() {
	<-s.slots
}

func (s *RouteProcessingService) createRun(ctx context.Context, req *optimization.OptimizationRequest, async bool) (*db_models.ProcessingRun, error) {
	run := &db_models.ProcessingRun{
		RouteID: req.RouteID,
		UserID:  req.UserID,
		Backend: s.optimizer.Name(),
		Status:  db_models.RunStatusPending,
		Async:   async,
		Message: "Queued for optimization",
	}
	if err := s.runRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *RouteProcessingService) execute(ctx context.Context, run *db_models.ProcessingRun, req *optimization.OptimizationRequest) (*response_models.OptimizedRoute, error) {
	runID := run.ID.String()
	log := s.log.With().Str("run_id", runID).Str("route_id", run.RouteID).Logger()

	started := utils.NowUnixSeconds()
	run.Status = db_models.RunStatusRunning
	run.StartedAt = &started
	s.save(run)

	sink := optimization.MultiSink{
		optimization.SinkFunc(func(text string) {
			run.Message = text
			s.save(run)
		}),
		NewStatusNotifier(s.publisher, runID, run.RouteID, log),
	}

	job, result, err := s.optimizer.Optimize(ctx, req, sink)
	run.JobID = job.JobID
	run.Progress = job.Progress
	if err != nil {
		log.Error().Err(err).Str("job_id", job.JobID).Str("status", job.Status.String()).Msg("route optimization failed")
		s.fail(run, err)
		return nil, err
	}

	route := response_models.NewOptimizedRoute(runID, result)
	payload, err := json.Marshal(route)
	if err != nil {
		s.fail(run, err)
		return nil, err
	}

	finished := utils.NowUnixSeconds()
	run.Status = db_models.RunStatusCompleted
	run.Progress = 100
	run.Message = "Optimization completed"
	if !route.HasResults {
		run.Message = "Optimization completed with no results available"
	}
	run.Result = datatypes.JSON(payload)
	run.FinishedAt = &finished
	s.save(run)

	s.publishResult(ResultEvent{
		RunID:   runID,
		RouteID: run.RouteID,
		Status:  string(run.Status),
		Result:  &route,
	})
	log.Info().Str("job_id", job.JobID).Int("pois", len(route.OptimizedSequence)).Msg("route optimization completed")
	return &route, nil
}

func (s *RouteProcessingService) fail(run *db_models.ProcessingRun, cause error) {
	finished := utils.NowUnixSeconds()
	run.Status = db_models.RunStatusFailed
	run.Error = cause.Error()
	run.FinishedAt = &finished
	s.save(run)

	s.publishResult(ResultEvent{
		RunID:   run.ID.String(),
		RouteID: run.RouteID,
		Status:  string(run.Status),
		Error:   run.Error,
	})
}

// save persists run state on a detached context so a cancelled request still
// records how its run ended.
func (s *RouteProcessingService) save(run *db_models.ProcessingRun) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.runRepo.UpdateRun(ctx, run); err != nil {
		s.log.Warn().Err(err).Str("run_id", run.ID.String()).Msg("update processing run")
	}
}

func (s *RouteProcessingService) publishResult(e ResultEvent) {
	e.Timestamp = utils.FormatRFC3339(time.Now())
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishResult(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("run_id", e.RunID).Msg("publish result event")
	}
}
