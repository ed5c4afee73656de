// Package mockoptimizer serves the route optimization contract from memory
// for local development and end-to-end tests.
package mockoptimizer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"routeprocessing/internal/routepb"
)

const (
	Version = "mock-1.0.0"

	// Routes whose id starts with FailPrefix end in FAILED.
	FailPrefix = "fail-"

	travelMinutes = 15
	earthRadiusKm = 6371.0
)

type job struct {
	req   *routepb.RouteOptimizationRequest
	polls int
}

// Server advances each job one stage per status query:
// QUEUED, PROCESSING, then COMPLETED once StepsToComplete queries were made.
type Server struct {
	StepsToComplete int

	mu   sync.Mutex
	jobs map[string]*job
	log  zerolog.Logger
}

func NewServer(stepsToComplete int, log zerolog.Logger) *Server {
	if stepsToComplete < 1 {
		stepsToComplete = 1
	}
	return &Server{
		StepsToComplete: stepsToComplete,
		jobs:            make(map[string]*job),
		log:             log.With().Str("component", "mock_optimizer").Logger(),
	}
}

func (s *Server) SubmitOptimization(_ context.Context, req *routepb.RouteOptimizationRequest) (*routepb.SubmitOptimizationResponse, error) {
	if len(req.POIs) == 0 {
		return &routepb.SubmitOptimizationResponse{Success: false, Message: "no POIs supplied", RouteID: req.RouteID}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobID := uuid.NewString()
	s.jobs[jobID] = &job{req: req}
	s.log.Info().Str("job_id", jobID).Str("route_id", req.RouteID).Int("pois", len(req.POIs)).Msg("job queued")

	return &routepb.SubmitOptimizationResponse{
		Success:       true,
		Status:        "QUEUED",
		JobID:         jobID,
		Message:       "Job queued",
		QueuePosition: int32(len(s.jobs)),
		RouteID:       req.RouteID,
	}, nil
}

func (s *Server) GetJobStatus(_ context.Context, jobID string) (*routepb.JobStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "job %s not found", jobID)
	}
	j.polls++

	resp := &routepb.JobStatusResponse{JobID: jobID}
	switch {
	case j.polls >= s.StepsToComplete && strings.HasPrefix(j.req.RouteID, FailPrefix):
		resp.Status, resp.Message = "FAILED", "solver could not find a feasible route"
	case j.polls >= s.StepsToComplete:
		resp.Status, resp.Progress, resp.Message = "COMPLETED", 100, "Optimization finished"
	case j.polls == 1:
		resp.Status, resp.Message = "QUEUED", "Waiting for a worker"
	default:
		resp.Status = "PROCESSING"
		resp.Progress = int32(100 * j.polls / s.StepsToComplete)
		resp.Message = "Optimizing"
	}
	return resp, nil
}

func (s *Server) GetJobResult(_ context.Context, jobID string) (*routepb.JobResultResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "job %s not found", jobID)
	}
	if j.polls < s.StepsToComplete {
		return &routepb.JobResultResponse{Success: false, JobID: jobID, Message: "job not finished"}, nil
	}

	return &routepb.JobResultResponse{
		Success: true,
		JobID:   jobID,
		Message: "ok",
		Results: echoResults(j.req),
	}, nil
}

func (s *Server) HealthCheck(context.Context, string) (*routepb.HealthResponse, error) {
	return &routepb.HealthResponse{IsHealthy: true, Status: "SERVING", Version: Version}, nil
}

// echoResults keeps the submitted POI order and schedules each visit after a
// fixed travel time.
func echoResults(req *routepb.RouteOptimizationRequest) *routepb.OptimizationResults {
	clock := parseClock(req.Constraints.StartTime)
	out := &routepb.OptimizationResults{
		OptimizationScore: 1,
		OptimizedSequence: make([]routepb.OptimizedPOI, 0, len(req.POIs)),
	}

	for i, p := range req.POIs {
		if i > 0 {
			prev := req.POIs[i-1]
			out.TotalDistanceKm += haversineKm(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
			clock += travelMinutes
		}
		arrival := clock
		clock += int(p.VisitDuration)
		out.OptimizedSequence = append(out.OptimizedSequence, routepb.OptimizedPOI{
			POIID:              p.ID,
			POIName:            p.Name,
			Latitude:           p.Latitude,
			Longitude:          p.Longitude,
			VisitOrder:         int32(i + 1),
			EstimatedVisitTime: p.VisitDuration,
			ArrivalTime:        formatClock(arrival),
			DepartureTime:      formatClock(clock),
		})
	}
	out.TotalDistanceKm = math.Round(out.TotalDistanceKm*100) / 100
	out.TotalTimeMinutes = int32(clock - parseClock(req.Constraints.StartTime))
	return out
}

func parseClock(hhmm string) int {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 8 * 60
	}
	return h*60 + m
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
