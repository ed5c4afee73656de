package optimization

import (
	"errors"
	"fmt"
	"time"
)

// ErrInterrupted is matched by every InterruptedError.
var ErrInterrupted = errors.New("optimization interrupted")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Message
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// RPCTransportError means a remote call did not complete.
type RPCTransportError struct {
	Method  string
	Attempt int
	Err     error
}

func (e *RPCTransportError) Error() string {
	return fmt.Sprintf("%s attempt %d: %v", e.Method, e.Attempt, e.Err)
}

func (e *RPCTransportError) Unwrap() error { return e.Err }

type RPCExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RPCExhaustedError) Error() string {
	return fmt.Sprintf("submit failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RPCExhaustedError) Unwrap() error { return e.Last }

// RemoteRejectionError means the remote call completed but reported success=false.
type RemoteRejectionError struct {
	Status  string
	Message string
	Attempt int
}

func (e *RemoteRejectionError) Error() string {
	return fmt.Sprintf("remote rejected optimization (status %q): %s", e.Status, e.Message)
}

// PollTimeoutError is the synthesized TIMEOUT outcome once the poll budget is spent.
type PollTimeoutError struct {
	JobID      string
	LastStatus JobStatus
	Polls      int
	Elapsed    time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("job %s: status %s: %s", e.JobID, StatusTimeout, e.Message())
}

func (e *PollTimeoutError) Message() string {
	return fmt.Sprintf("job did not finish within %d seconds (%d polls, last status %s)",
		int(e.Elapsed/time.Second), e.Polls, e.LastStatus)
}

// JobFailedError reports a FAILED or TIMEOUT job. Err is set when the failure
// came from a transport error on the final poll.
type JobFailedError struct {
	JobID   string
	Status  JobStatus
	Message string
	Polls   int
	Err     error
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s: status %s: %s", e.JobID, e.Status, e.Message)
}

func (e *JobFailedError) Unwrap() error { return e.Err }

// InterruptedError is returned when the caller's context ends mid-flow.
type InterruptedError struct {
	Stage string
	JobID string
	Err   error
}

func (e *InterruptedError) Error() string {
	if e.JobID != "" {
		return fmt.Sprintf("optimization interrupted during %s of job %s: %v", e.Stage, e.JobID, e.Err)
	}
	return fmt.Sprintf("optimization interrupted during %s: %v", e.Stage, e.Err)
}

func (e *InterruptedError) Unwrap() []error { return []error{ErrInterrupted, e.Err} }
