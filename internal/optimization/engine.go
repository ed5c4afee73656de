package optimization

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"routeprocessing/internal/routepb"
)

// RemoteClient is the RPC surface of the optimization service. *routepb.Client
// satisfies it.
type RemoteClient interface {
	SubmitOptimization(ctx context.Context, req *routepb.RouteOptimizationRequest) (*routepb.SubmitOptimizationResponse, error)
	GetJobStatus(ctx context.Context, jobID string) (*routepb.JobStatusResponse, error)
	GetJobResult(ctx context.Context, jobID string) (*routepb.JobResultResponse, error)
	HealthCheck(ctx context.Context, serviceName string) (*routepb.HealthResponse, error)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Option func(*Engine)

func WithSleeper(s Sleeper) Option {
	return func(e *Engine) { e.sleeper = s }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine runs submit-and-poll flows against one shared RemoteClient. It keeps
// no per-request state and is safe for concurrent use.
type Engine struct {
	client  RemoteClient
	cfg     Config
	sink    StatusSink
	sleeper Sleeper
	now     func() time.Time
	log     zerolog.Logger
}

func NewEngine(client RemoteClient, cfg Config, sink StatusSink, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		cfg:     cfg.withDefaults(),
		sleeper: timerSleeper{},
		now:     time.Now,
		log:     log.With().Str("component", "optimization_engine").Logger(),
	}
	e.sink = guardedSink{sink: sink, log: e.log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Optimize runs the full flow for req and returns the optimized route.
func (e *Engine) Optimize(ctx context.Context, req *OptimizationRequest) (*OptimizationResult, error) {
	_, result, err := e.Run(ctx, req, nil)
	return result, err
}

// Run is Optimize with a per-call sink in addition to the engine's own. It also
// returns the last known Job snapshot, which is zero if no job was created.
func (e *Engine) Run(ctx context.Context, req *OptimizationRequest, sink StatusSink) (Job, *OptimizationResult, error) {
	f := &flow{Engine: e, events: e.sink}
	if sink != nil {
		f.events = MultiSink{e.sink, guardedSink{sink: sink, log: e.log}}
	}

	wire, err := TranslateRequest(req)
	if err != nil {
		return Job{}, nil, err
	}

	log := e.log.With().Str("route_id", wire.RouteID).Logger()
	start := e.now()

	f.notify(fmt.Sprintf("Submitting route %s with %d POIs for optimization", wire.RouteID, len(wire.POIs)))
	submitted, err := f.submit(ctx, wire)
	if err != nil {
		log.Error().Err(err).Msg("submit failed")
		f.notify(fmt.Sprintf("Optimization of route %s failed: %v", wire.RouteID, err))
		return Job{}, nil, err
	}

	requestID := submitted.RouteID
	if requestID == "" {
		requestID = wire.RouteID
	}

	job, result, err := f.poll(ctx, requestID, submitted)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.JobID).Str("status", job.Status.String()).Msg("optimization failed")
		return job, nil, err
	}

	log.Info().
		Str("job_id", job.JobID).
		Dur("elapsed", e.now().Sub(start)).
		Int("pois", len(result.Sequence)).
		Msg("optimization completed")
	return job, result, nil
}

// HealthCheck probes the remote service with the connection timeout.
func (e *Engine) HealthCheck(ctx context.Context) (*routepb.HealthResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ConnectionTimeout)
	defer cancel()

	resp, err := e.client.HealthCheck(callCtx, e.cfg.HealthServiceName)
	if err != nil {
		return nil, &RPCTransportError{Method: routepb.MethodHealthCheck, Attempt: 1, Err: err}
	}
	return resp, nil
}

// flow carries the sinks of a single Run.
type flow struct {
	*Engine
	events StatusSink
}

func (f *flow) notify(text string) {
	f.events.Notify(text)
}
