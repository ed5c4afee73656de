package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want JobStatus
	}{
		{"QUEUED", StatusQueued},
		{"queued", StatusQueued},
		{" Processing ", StatusProcessing},
		{"completed", StatusCompleted},
		{"COMPLETED", StatusCompleted},
		{"Success", StatusCompleted},
		{"failed", StatusFailed},
		{"ERROR", StatusFailed},
		{"timeout", StatusTimeout},
		{"unknown", StatusUnknown},
		{"", StatusUnknown},
		{"RUNNING", StatusUnknown},
		{"succeeded", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseJobStatus(tt.raw))
		})
	}
}

func TestJobStatusTraits(t *testing.T) {
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusUnknown.IsTerminal())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusCompleted.IsFailure())

	for _, s := range []JobStatus{StatusFailed, StatusTimeout} {
		assert.True(t, s.IsTerminal(), s)
		assert.True(t, s.IsFailure(), s)
	}
}

func TestJobStatusDescription(t *testing.T) {
	assert.Equal(t, "Job queued", StatusQueued.Description())
	assert.Equal(t, "Unknown status", JobStatus("bogus").Description())
}
