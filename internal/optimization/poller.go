package optimization

import (
	"context"
	"fmt"
	"time"

	"routeprocessing/internal/routepb"
)

// poll drives the job from its submit response to a terminal state. Each status
// query is preceded by a PollDelay sleep and gets a fresh ConnectionTimeout
// deadline; the result fetch gets a fresh RequestTimeout deadline.
func (f *flow) poll(ctx context.Context, requestID string, submitted *routepb.SubmitOptimizationResponse) (Job, *OptimizationResult, error) {
	job := Job{
		JobID:         submitted.JobID,
		Status:        ParseJobStatus(submitted.Status),
		Message:       submitted.Message,
		QueuePosition: int(submitted.QueuePosition),
	}

	f.notify(fmt.Sprintf("Job %s accepted: %s (queue position %d)", job.JobID, job.Status.Description(), job.QueuePosition))

	switch {
	case job.Status == StatusCompleted:
		return f.complete(ctx, requestID, job, submitted.Results)
	case job.Status.IsFailure():
		return job, nil, f.failed(job, 0, nil)
	}

	maxPolls := f.cfg.MaxPollAttempts
	for poll := 1; poll <= maxPolls; poll++ {
		if err := f.sleeper.Sleep(ctx, f.cfg.PollDelay); err != nil {
			return job, nil, &InterruptedError{Stage: "poll delay", JobID: job.JobID, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, f.cfg.ConnectionTimeout)
		resp, err := f.client.GetJobStatus(callCtx, job.JobID)
		cancel()

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return job, nil, &InterruptedError{Stage: "status query", JobID: job.JobID, Err: ctxErr}
			}
			f.notify(fmt.Sprintf("Status check %d/%d for job %s failed: %v", poll, maxPolls, job.JobID, err))
			f.log.Warn().Err(err).Str("job_id", job.JobID).Int("poll", poll).Msg("status query failed")

			if poll == maxPolls {
				job.Status = StatusFailed
				job.Message = err.Error()
				terr := &RPCTransportError{Method: routepb.MethodGetJobStatus, Attempt: poll, Err: err}
				return job, nil, f.failed(job, poll, terr)
			}
			continue
		}

		job.Status = ParseJobStatus(resp.Status)
		job.Progress = clampProgress(resp.Progress)
		job.Message = resp.Message
		if job.Status == StatusCompleted {
			job.Progress = 100
		}

		f.notify(fmt.Sprintf("Status check %d/%d for job %s: %s (%d%%) %s",
			poll, maxPolls, job.JobID, job.Status, job.Progress, job.Message))

		switch {
		case job.Status == StatusCompleted:
			return f.complete(ctx, requestID, job, nil)
		case job.Status.IsFailure():
			return job, nil, f.failed(job, poll, nil)
		}
	}

	timeout := &PollTimeoutError{
		JobID:      job.JobID,
		LastStatus: job.Status,
		Polls:      maxPolls,
		Elapsed:    time.Duration(maxPolls) * f.cfg.PollDelay,
	}
	job.Status = StatusTimeout
	job.Message = timeout.Message()
	f.notify(fmt.Sprintf("Job %s timed out: %s", job.JobID, job.Message))
	return job, nil, timeout
}

// complete fetches the result unless the service already returned it inline.
func (f *flow) complete(ctx context.Context, requestID string, job Job, inline *routepb.OptimizationResults) (Job, *OptimizationResult, error) {
	job.Status = StatusCompleted
	job.Progress = 100

	results := inline
	if results == nil {
		callCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
		resp, err := f.client.GetJobResult(callCtx, job.JobID)
		cancel()

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return job, nil, &InterruptedError{Stage: "result fetch", JobID: job.JobID, Err: ctxErr}
			}
			f.notify(fmt.Sprintf("Fetching result of job %s failed: %v", job.JobID, err))
			return job, nil, &RPCTransportError{Method: routepb.MethodGetJobResult, Attempt: 1, Err: err}
		}
		if !resp.Success {
			f.notify(fmt.Sprintf("Result of job %s was rejected: %s", job.JobID, resp.Message))
			return job, nil, &RemoteRejectionError{Status: job.Status.String(), Message: resp.Message, Attempt: 1}
		}
		results = resp.Results
	}

	f.notify(fmt.Sprintf("Job %s completed (100%%)", job.JobID))
	return job, TranslateResult(requestID, job.JobID, results, f.now()), nil
}

func (f *flow) failed(job Job, polls int, cause error) error {
	msg := job.Message
	if msg == "" {
		msg = job.Status.Description()
	}
	f.notify(fmt.Sprintf("Job %s failed: %s", job.JobID, msg))
	return &JobFailedError{JobID: job.JobID, Status: job.Status, Message: msg, Polls: polls, Err: cause}
}

func clampProgress(p int32) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return int(p)
	}
}
