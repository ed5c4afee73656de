package optimization

import (
	"context"
	"fmt"
	"time"

	"routeprocessing/internal/routepb"
)

const maxBackoff = time.Minute

// backoff returns the wait before attempt+1: 1s, 2s, 4s, ... capped at maxBackoff.
func backoff(attempt int) time.Duration {
	shift := attempt - 1
	if shift < 0 {
		shift = 0
	}
	if shift > 6 {
		return maxBackoff
	}
	return min(time.Duration(1<<shift)*time.Second, maxBackoff)
}

// submit sends the wire request with bounded retries. Every attempt gets a fresh
// RequestTimeout deadline. Only calls that did not complete are retried.
func (f *flow) submit(ctx context.Context, wire *routepb.RouteOptimizationRequest) (*routepb.SubmitOptimizationResponse, error) {
	maxAttempts := f.cfg.MaxRetryAttempts
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &InterruptedError{Stage: "submit", Err: err}
		}
		if attempt > 1 {
			f.notify(fmt.Sprintf("Retrying submit of route %s (attempt %d/%d)", wire.RouteID, attempt, maxAttempts))
		}

		callCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
		resp, err := f.client.SubmitOptimization(callCtx, wire)
		cancel()

		if err == nil {
			if resp == nil || !resp.Success {
				rej := &RemoteRejectionError{Attempt: attempt}
				if resp != nil {
					rej.Status, rej.Message = resp.Status, resp.Message
				}
				return nil, rej
			}
			f.log.Debug().
				Str("route_id", wire.RouteID).
				Str("job_id", resp.JobID).
				Str("status", resp.Status).
				Int("attempt", attempt).
				Msg("optimization submitted")
			return resp, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &InterruptedError{Stage: "submit", Err: ctxErr}
		}

		lastErr = &RPCTransportError{Method: routepb.MethodSubmitOptimization, Attempt: attempt, Err: err}
		f.log.Warn().
			Err(err).
			Str("route_id", wire.RouteID).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("submit attempt failed")

		if attempt == maxAttempts {
			break
		}

		wait := backoff(attempt)
		f.notify(fmt.Sprintf("Submit attempt %d/%d failed, waiting %s before retrying", attempt, maxAttempts, wait))
		if err := f.sleeper.Sleep(ctx, wait); err != nil {
			return nil, &InterruptedError{Stage: "submit backoff", Err: err}
		}
	}

	return nil, &RPCExhaustedError{Attempts: maxAttempts, Last: lastErr}
}
