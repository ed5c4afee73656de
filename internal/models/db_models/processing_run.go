package db_models

import (
	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// ProcessingRun records one optimization request handled by the service.
type ProcessingRun struct {
	BaseModel
	RouteID  string    `gorm:"index;not null"`
	UserID   string    `gorm:"index"`
	Backend  string    `gorm:"size:32"`
	Status   RunStatus `gorm:"size:16;index"`
	JobID    string    `gorm:"index"` // remote job id, empty for the script backend
	Progress int
	Message  string
	Error    string
	Async    bool

	// Result holds the serialized optimized route once the run completes.
	Result datatypes.JSON `gorm:"type:jsonb"`

	StartedAt  *int64
	FinishedAt *int64
}

func (ProcessingRun) TableName() string {
	return "processing_runs"
}

func (r *ProcessingRun) IsFinished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
