package optimization

import "strings"

type JobStatus string

const (
	StatusQueued     JobStatus = "QUEUED"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
	StatusTimeout    JobStatus = "TIMEOUT"
	StatusUnknown    JobStatus = "UNKNOWN"
)

type statusTraits struct {
	terminal    bool
	failure     bool
	description string
}

var jobStatusTraits = map[JobStatus]statusTraits{
	StatusQueued:     {description: "Job queued"},
	StatusProcessing: {description: "Job in progress"},
	StatusCompleted:  {terminal: true, description: "Job completed successfully"},
	StatusFailed:     {terminal: true, failure: true, description: "Job failed"},
	StatusTimeout:    {terminal: true, failure: true, description: "Job timed out"},
	// Unrecognized remote statuses keep the poller going until its budget runs out.
	StatusUnknown: {description: "Unknown status"},
}

var statusAliases = map[string]JobStatus{
	"SUCCESS": StatusCompleted,
	"ERROR":   StatusFailed,
}

// ParseJobStatus maps a remote status string to a JobStatus. Every input maps to
// exactly one state; anything unrecognized becomes StatusUnknown.
func ParseJobStatus(raw string) JobStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if alias, ok := statusAliases[s]; ok {
		return alias
	}
	if _, ok := jobStatusTraits[JobStatus(s)]; ok {
		return JobStatus(s)
	}
	return StatusUnknown
}

func (s JobStatus) IsTerminal() bool {
	return jobStatusTraits[s].terminal
}

func (s JobStatus) IsFailure() bool {
	return jobStatusTraits[s].failure
}

func (s JobStatus) Description() string {
	if t, ok := jobStatusTraits[s]; ok {
		return t.description
	}
	return jobStatusTraits[StatusUnknown].description
}

func (s JobStatus) String() string {
	return string(s)
}
