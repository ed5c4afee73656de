package response_models

import (
	"encoding/json"
	"time"

	"routeprocessing/internal/models/db_models"
	"routeprocessing/internal/optimization"
)

type OptimizedRoute struct {
	RunID             string         `json:"run_id,omitempty"`
	RequestID         string         `json:"request_id"`
	OptimizedRouteID  string         `json:"optimized_route_id"`
	Algorithm         string         `json:"algorithm"`
	TotalDistanceKm   *float64       `json:"total_distance_km"`
	TotalTimeMinutes  *int           `json:"total_time_minutes"`
	OptimizationScore *float64       `json:"optimization_score"`
	OptimizedSequence []OptimizedPOI `json:"optimized_sequence"`
	ProcessedAt       string         `json:"processed_at"`
	// HasResults is false when the optimizer returned neither metrics nor a sequence.
	HasResults        bool           `json:"has_results"`
}

type OptimizedPOI struct {
	PoiID              int64   `json:"poi_id"`
	Name               string  `json:"name"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	VisitOrder         int     `json:"visit_order"`
	EstimatedVisitTime int     `json:"estimated_visit_time"`
	ArrivalTime        string  `json:"arrival_time"`
	DepartureTime      string  `json:"departure_time"`
}

func NewOptimizedRoute(runID string, r *optimization.OptimizationResult) OptimizedRoute {
	out := OptimizedRoute{
		RunID:             runID,
		RequestID:         r.RequestID,
		OptimizedRouteID:  r.OptimizedRouteID,
		Algorithm:         r.Algorithm,
		TotalDistanceKm:   r.TotalDistanceKm,
		TotalTimeMinutes:  r.TotalTimeMinutes,
		OptimizationScore: r.OptimizationScore,
		OptimizedSequence: make([]OptimizedPOI, 0, len(r.Sequence)),
		ProcessedAt:       r.ProcessedAt.UTC().Format(time.RFC3339),
		HasResults:        r.HasResults(),
	}
	for _, p := range r.Sequence {
		out.OptimizedSequence = append(out.OptimizedSequence, OptimizedPOI{
			PoiID:              p.POIID,
			Name:               p.Name,
			Latitude:           p.Latitude,
			Longitude:          p.Longitude,
			VisitOrder:         p.VisitOrder,
			EstimatedVisitTime: p.EstimatedVisitTime,
			ArrivalTime:        p.ArrivalTime,
			DepartureTime:      p.DepartureTime,
		})
	}
	return out
}

type ProcessingRun struct {
	RunID      string          `json:"run_id"`
	RouteID    string          `json:"route_id"`
	UserID     string          `json:"user_id,omitempty"`
	Backend    string          `json:"backend"`
	Status     string          `json:"status"`
	JobID      string          `json:"job_id,omitempty"`
	Progress   int             `json:"progress"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	Async      bool            `json:"async"`
	Finished   bool            `json:"finished"`
	CreatedAt  int64           `json:"created_at"`
	StartedAt  *int64          `json:"started_at,omitempty"`
	FinishedAt *int64          `json:"finished_at,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

func NewProcessingRun(run *db_models.ProcessingRun) ProcessingRun {
	out := ProcessingRun{
		RunID:      run.ID.String(),
		RouteID:    run.RouteID,
		UserID:     run.UserID,
		Backend:    run.Backend,
		Status:     string(run.Status),
		JobID:      run.JobID,
		Progress:   run.Progress,
		Message:    run.Message,
		Error:      run.Error,
		Async:      run.Async,
		Finished:   run.IsFinished(),
		CreatedAt:  run.CreatedAt,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if len(run.Result) > 0 {
		out.Result = json.RawMessage(run.Result)
	}
	return out
}

type AsyncRunAccepted struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}

type RemoteHealth struct {
	Healthy bool   `json:"healthy"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Health struct {
	Status    string        `json:"status"`
	Service   string        `json:"service"`
	Backend   string        `json:"backend"`
	Timestamp string        `json:"timestamp"`
	Remote    *RemoteHealth `json:"remote,omitempty"`
}
