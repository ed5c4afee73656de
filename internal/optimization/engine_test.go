package optimization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"routeprocessing/internal/routepb"
)

type statusReply struct {
	resp *routepb.JobStatusResponse
	err  error
}

type fakeClient struct {
	mu sync.Mutex

	submitReplies []*routepb.SubmitOptimizationResponse
	submitErrs    []error
	statusReplies []statusReply
	resultReply   *routepb.JobResultResponse
	resultErr     error

	submitCalls   int
	statusCalls   int
	resultCalls   int
	deadlines     []time.Duration
	lastSubmitted *routepb.RouteOptimizationRequest
}

func (f *fakeClient) recordDeadline(ctx context.Context) {
	if d, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(d).Round(time.Second))
	}
}

func (f *fakeClient) SubmitOptimization(ctx context.Context, req *routepb.RouteOptimizationRequest) (*routepb.SubmitOptimizationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordDeadline(ctx)
	i := f.submitCalls
	f.submitCalls++
	f.lastSubmitted = req

	if i < len(f.submitErrs) && f.submitErrs[i] != nil {
		return nil, f.submitErrs[i]
	}
	if i < len(f.submitReplies) {
		return f.submitReplies[i], nil
	}
	return f.submitReplies[len(f.submitReplies)-1], nil
}

func (f *fakeClient) GetJobStatus(ctx context.Context, jobID string) (*routepb.JobStatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordDeadline(ctx)
	i := f.statusCalls
	f.statusCalls++

	r := f.statusReplies[len(f.statusReplies)-1]
	if i < len(f.statusReplies) {
		r = f.statusReplies[i]
	}
	return r.resp, r.err
}

func (f *fakeClient) GetJobResult(ctx context.Context, jobID string) (*routepb.JobResultResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordDeadline(ctx)
	f.resultCalls++
	return f.resultReply, f.resultErr
}

func (f *fakeClient) HealthCheck(ctx context.Context, serviceName string) (*routepb.HealthResponse, error) {
	return &routepb.HealthResponse{IsHealthy: true, Status: "SERVING", Version: serviceName}, nil
}

type recordingSleeper struct {
	mu     sync.Mutex
	waits  []time.Duration
	cancel context.CancelFunc
	// cancelAt cancels the flow on the n-th sleep (1-based) when set.
	cancelAt int
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	n := len(s.waits)
	s.mu.Unlock()

	if s.cancelAt > 0 && n == s.cancelAt && s.cancel != nil {
		s.cancel()
	}
	return ctx.Err()
}

func (s *recordingSleeper) total() time.Duration {
	var sum time.Duration
	for _, w := range s.waits {
		sum += w
	}
	return sum
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Notify(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, text)
}

func (s *recordingSink) contains(sub string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}

func newTestEngine(client RemoteClient, sink StatusSink, sleeper Sleeper) *Engine {
	fixed := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	return NewEngine(client, DefaultConfig(), sink, zerolog.Nop(),
		WithSleeper(sleeper),
		WithClock(func() time.Time { return fixed }),
	)
}

func completedResults() *routepb.OptimizationResults {
	return &routepb.OptimizationResults{
		TotalDistanceKm:   5.2,
		TotalTimeMinutes:  150,
		OptimizationScore: 0.8,
		OptimizedSequence: []routepb.OptimizedPOI{
			{POIID: 2, POIName: "Museo Larco", VisitOrder: 1},
			{POIID: 1, POIName: "Plaza de Armas", VisitOrder: 2},
		},
	}
}

func processing() statusReply {
	return statusReply{resp: &routepb.JobStatusResponse{JobID: "job-1", Status: "PROCESSING", Progress: 50}}
}

func TestEngine_InlineCompletionSkipsPolling(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{
			{Success: true, Status: "COMPLETED", JobID: "job-1", RouteID: "route-42", Results: completedResults()},
		},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(client, NopSink{}, sleeper)

	job, res, err := engine.Run(context.Background(), minimalRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, client.submitCalls)
	assert.Equal(t, 0, client.statusCalls)
	assert.Equal(t, 0, client.resultCalls)
	assert.Empty(t, sleeper.waits)

	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "route-42", res.RequestID)
	assert.Equal(t, "job-1-optimized", res.OptimizedRouteID)
	assert.Len(t, res.Sequence, 2)
}

func TestEngine_CompletedWithoutInlineResultsFetchesOnce(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "success", JobID: "job-1"}},
		resultReply:   &routepb.JobResultResponse{Success: true, JobID: "job-1", Results: completedResults()},
	}
	engine := newTestEngine(client, NopSink{}, &recordingSleeper{})

	res, err := engine.Optimize(context.Background(), minimalRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, client.statusCalls)
	assert.Equal(t, 1, client.resultCalls)
	assert.Equal(t, "route-42", res.RequestID)
}

func TestEngine_PollsUntilCompleted(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "QUEUED", JobID: "job-1", QueuePosition: 3}},
		statusReplies: []statusReply{
			processing(),
			processing(),
			{resp: &routepb.JobStatusResponse{JobID: "job-1", Status: "COMPLETED", Progress: 90}},
		},
		resultReply: &routepb.JobResultResponse{Success: true, JobID: "job-1", Results: completedResults()},
	}
	sink := &recordingSink{}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(client, sink, sleeper)

	job, res, err := engine.Run(context.Background(), minimalRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, client.statusCalls)
	assert.Equal(t, 1, client.resultCalls)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, sleeper.waits)
	assert.Equal(t, 100, job.Progress)
	assert.True(t, sink.contains("(100%)"))
	assert.Equal(t, 5.2, *res.TotalDistanceKm)
	assert.Equal(t, time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC), res.ProcessedAt)
}

func TestEngine_FreshDeadlinePerCall(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "QUEUED", JobID: "job-1"}},
		statusReplies: []statusReply{
			processing(),
			{resp: &routepb.JobStatusResponse{JobID: "job-1", Status: "COMPLETED"}},
		},
		resultReply: &routepb.JobResultResponse{Success: true, Results: completedResults()},
	}
	engine := newTestEngine(client, NopSink{}, &recordingSleeper{})

	_, err := engine.Optimize(context.Background(), minimalRequest())
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{600 * time.Second, 30 * time.Second, 30 * time.Second, 600 * time.Second}, client.deadlines)
}

func TestEngine_SubmitExhaustsRetries(t *testing.T) {
	transport := status.Error(codes.Unavailable, "connection refused")
	client := &fakeClient{submitErrs: []error{transport, transport, transport}}
	sink := &recordingSink{}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(client, sink, sleeper)

	_, err := engine.Optimize(context.Background(), minimalRequest())

	var exhausted *RPCExhaustedError
	require.True(t, errors.As(err, &exhausted), "got %v", err)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, 3, client.submitCalls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.waits)

	var transportErr *RPCTransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 3, transportErr.Attempt)
	assert.Equal(t, codes.Unavailable, status.Code(transportErr.Err))

	assert.True(t, sink.contains("attempt 2/3"))
	assert.True(t, sink.contains("attempt 3/3"))
}

func TestEngine_SubmitRecoversAfterTransportFailure(t *testing.T) {
	client := &fakeClient{
		submitErrs: []error{errors.New("reset by peer")},
		submitReplies: []*routepb.SubmitOptimizationResponse{
			nil,
			{Success: true, Status: "COMPLETED", JobID: "job-1", Results: completedResults()},
		},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(client, NopSink{}, sleeper)

	_, err := engine.Optimize(context.Background(), minimalRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, client.submitCalls)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.waits)
}

func TestEngine_BackoffDoubles(t *testing.T) {
	for attempt, want := range map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 4 * time.Second, 4: 8 * time.Second} {
		assert.Equal(t, want, backoff(attempt), fmt.Sprintf("attempt %d", attempt))
	}
}

func TestEngine_BackoffIsCapped(t *testing.T) {
	for _, attempt := range []int{0, 7, 8, 35, 40, 64, 1 << 20} {
		d := backoff(attempt)
		assert.Positive(t, d, "attempt %d", attempt)
		assert.LessOrEqual(t, d, maxBackoff, "attempt %d", attempt)
	}
	assert.Equal(t, time.Second, backoff(0))
	assert.Equal(t, maxBackoff, backoff(64))
}

func TestConfig_ClampsRetryAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetryAttempts = 1000
	assert.Equal(t, MaxRetryCeiling, cfg.withDefaults().MaxRetryAttempts)

	cfg.MaxRetryAttempts = 0
	assert.Equal(t, DefaultConfig().MaxRetryAttempts, cfg.withDefaults().MaxRetryAttempts)
}

func TestEngine_PollBudgetExhaustedTimesOut(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "QUEUED", JobID: "job-1"}},
		statusReplies: []statusReply{processing()},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(client, &recordingSink{}, sleeper)

	job, res, err := engine.Run(context.Background(), minimalRequest(), nil)
	assert.Nil(t, res)

	var timeout *PollTimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)
	assert.Equal(t, 60, client.statusCalls)
	assert.Equal(t, 0, client.resultCalls)
	assert.Equal(t, 300*time.Second, sleeper.total())
	assert.Equal(t, StatusTimeout, job.Status)
	assert.Contains(t, job.Message, "300 seconds")
	assert.Contains(t, err.Error(), "TIMEOUT")
	assert.Equal(t, StatusProcessing, timeout.LastStatus)
}

func TestEngine_UnknownStatusKeepsPolling(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "QUEUED", JobID: "job-1"}},
		statusReplies: []statusReply{
			{resp: &routepb.JobStatusResponse{Status: "weird"}},
			{resp: &routepb.JobStatusResponse{Status: "Success"}},
		},
		resultReply: &routepb.JobResultResponse{Success: true, Results: completedResults()},
	}
	engine := newTestEngine(client, NopSink{}, &recordingSleeper{})

	_, err := engine.Optimize(context.Background(), minimalRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, client.statusCalls)
}

func TestEngine_RemoteRejectionIsNotRetried(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: false, Status: "REJECTED", Message: "too many POIs"}},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(client, NopSink{}, sleeper)

	_, err := engine.Optimize(context.Background(), minimalRequest())

	var rejection *RemoteRejectionError
	require.True(t, errors.As(err, &rejection), "got %v", err)
	assert.Equal(t, "too many POIs", rejection.Message)
	assert.Equal(t, 1, client.submitCalls)
	assert.Empty(t, sleeper.waits)
}

func TestEngine_RemoteFailureStopsPolling(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "PROCESSING", JobID: "job-1"}},
		statusReplies: []statusReply{
			processing(),
			{resp: &routepb.JobStatusResponse{Status: "error", Message: "solver crashed"}},
		},
	}
	engine := newTestEngine(client, NopSink{}, &recordingSleeper{})

	job, _, err := engine.Run(context.Background(), minimalRequest(), nil)

	var failed *JobFailedError
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "solver crashed", failed.Message)
	assert.Equal(t, 2, failed.Polls)
	assert.Equal(t, 0, client.resultCalls)
	assert.Equal(t, StatusFailed, job.Status)
}

func TestEngine_TransportErrorToleratedUntilFinalPoll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPollAttempts = 3
	down := status.Error(codes.DeadlineExceeded, "status query timed out")

	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "QUEUED", JobID: "job-1"}},
		statusReplies: []statusReply{{err: down}, processing(), {err: down}},
	}
	engine := NewEngine(client, cfg, NopSink{}, zerolog.Nop(), WithSleeper(&recordingSleeper{}))

	job, _, err := engine.Run(context.Background(), minimalRequest(), nil)

	var failed *JobFailedError
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Contains(t, failed.Message, "status query timed out")
	assert.Equal(t, 3, client.statusCalls)
	assert.Equal(t, StatusFailed, job.Status)

	var transportErr *RPCTransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestEngine_ValidationErrorMakesNoCalls(t *testing.T) {
	client := &fakeClient{}
	engine := newTestEngine(client, NopSink{}, &recordingSleeper{})

	_, err := engine.Optimize(context.Background(), &OptimizationRequest{RouteID: "r"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, client.submitCalls)
}

func TestEngine_CancelDuringBackoffInterrupts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &fakeClient{submitErrs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	sleeper := &recordingSleeper{cancel: cancel, cancelAt: 1}
	engine := newTestEngine(client, NopSink{}, sleeper)

	_, err := engine.Optimize(ctx, minimalRequest())

	var interrupted *InterruptedError
	require.True(t, errors.As(err, &interrupted), "got %v", err)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, client.submitCalls)
}

func TestEngine_CancelDuringPollInterrupts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "QUEUED", JobID: "job-7"}},
		statusReplies: []statusReply{processing()},
	}
	sleeper := &recordingSleeper{cancel: cancel, cancelAt: 3}
	engine := newTestEngine(client, NopSink{}, sleeper)

	_, err := engine.Optimize(ctx, minimalRequest())

	var interrupted *InterruptedError
	require.True(t, errors.As(err, &interrupted), "got %v", err)
	assert.Equal(t, "job-7", interrupted.JobID)
	assert.Equal(t, 2, client.statusCalls)
}

func TestEngine_RealSleeperHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := timerSleeper{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestEngine_PanickingSinkDoesNotAlterFlow(t *testing.T) {
	client := &fakeClient{
		submitReplies: []*routepb.SubmitOptimizationResponse{{Success: true, Status: "COMPLETED", JobID: "job-1", Results: completedResults()}},
	}
	boom := SinkFunc(func(string) { panic("sink down") })
	engine := newTestEngine(client, boom, &recordingSleeper{})

	extra := &recordingSink{}
	_, res, err := engine.Run(context.Background(), minimalRequest(), extra)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.True(t, extra.contains("completed"))
}

func TestEngine_HealthCheck(t *testing.T) {
	engine := newTestEngine(&fakeClient{}, NopSink{}, &recordingSleeper{})

	resp, err := engine.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsHealthy)
	assert.Equal(t, "route-processing-service", resp.Version)
}
