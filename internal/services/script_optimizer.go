package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"routeprocessing/internal/config"
	"routeprocessing/internal/models/response_models"
	"routeprocessing/internal/optimization"
	"routeprocessing/pkg/utils"
)

const (
	AlgorithmScript = "MRL-AMIS"

	scriptInputFile  = "input_data.json"
	scriptOutputFile = "output_result.json"
)

type scriptInput struct {
	RouteID      string      `json:"routeId"`
	UserID       string      `json:"userId"`
	POIs         []scriptPOI `json:"pois"`
	OptimizeFor  string      `json:"optimizeFor"`
	MaxTotalTime int32       `json:"maxTotalTime"`
}

type scriptPOI struct {
	POIID         int64   `json:"poiId"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Category      string  `json:"category"`
	VisitDuration int32   `json:"visitDuration"`
	Cost          float64 `json:"cost"`
	Rating        float64 `json:"rating"`
}

type scriptOutput struct {
	OptimizedRouteID  string            `json:"optimizedRouteId"`
	OptimizedSequence []scriptOutputPOI `json:"optimizedSequence"`
	TotalDistance     *float64          `json:"totalDistance"`
	TotalTime         *int              `json:"totalTime"`
	OptimizationScore *float64          `json:"optimizationScore"`
	GeneratedAt       string            `json:"generatedAt"`
}

type scriptOutputPOI struct {
	POIID              int64   `json:"poiId"`
	Name               string  `json:"name"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	VisitOrder         int     `json:"visitOrder"`
	EstimatedVisitTime int     `json:"estimatedVisitTime"`
	ArrivalTime        string  `json:"arrivalTime"`
	DepartureTime      string  `json:"departureTime"`
}

// ScriptRouteOptimizer runs the legacy optimization script as a subprocess,
// exchanging JSON files in a per-request temp directory.
type ScriptRouteOptimizer struct {
	cfg         config.ScriptConfig
	tempDir     string
	interpreter string
	log         zerolog.Logger
}

func NewScriptRouteOptimizer(cfg config.ScriptConfig, tempDataDirectory string, log zerolog.Logger) *ScriptRouteOptimizer {
	return &ScriptRouteOptimizer{
		cfg:         cfg,
		tempDir:     tempDataDirectory,
		interpreter: "python",
		log:         log.With().Str("component", "script_optimizer").Logger(),
	}
}

func (s *ScriptRouteOptimizer) Name() string {
	return config.BackendScript
}

func (s *ScriptRouteOptimizer) Optimize(ctx context.Context, req *optimization.OptimizationRequest, sink optimization.StatusSink) (optimization.Job, *optimization.OptimizationResult, error) {
	if sink == nil {
		sink = optimization.NopSink{}
	}

	wire, err := optimization.TranslateRequest(req)
	if err != nil {
		return optimization.Job{}, nil, err
	}

	requestID := uuid.NewString()
	job := optimization.Job{JobID: requestID, Status: optimization.StatusProcessing}
	log := s.log.With().Str("route_id", wire.RouteID).Str("request_id", requestID).Logger()

	workDir := filepath.Join(s.tempDir, requestID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return job, nil, fmt.Errorf("%w: create temp dir: %v", utils.ErrScriptExecution, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn().Err(err).Str("dir", workDir).Msg("cleanup temp dir")
		}
	}()

	input := scriptInput{
		RouteID:      wire.RouteID,
		UserID:       wire.UserID,
		POIs:         make([]scriptPOI, 0, len(wire.POIs)),
		OptimizeFor:  wire.Preferences.OptimizeFor,
		MaxTotalTime: wire.Preferences.MaxTotalTime,
	}
	for _, p := range wire.POIs {
		input.POIs = append(input.POIs, scriptPOI{
			POIID:         p.ID,
			Name:          p.Name,
			Latitude:      p.Latitude,
			Longitude:     p.Longitude,
			Category:      p.Category,
			VisitDuration: p.VisitDuration,
			Cost:          p.Cost,
			Rating:        p.Rating,
		})
	}

	inputPath := filepath.Join(workDir, scriptInputFile)
	outputPath := filepath.Join(workDir, scriptOutputFile)

	raw, err := json.Marshal(input)
	if err != nil {
		return job, nil, fmt.Errorf("%w: encode input: %v", utils.ErrScriptExecution, err)
	}
	if err := os.WriteFile(inputPath, raw, 0o644); err != nil {
		return job, nil, fmt.Errorf("%w: write input: %v", utils.ErrScriptExecution, err)
	}

	sink.Notify(fmt.Sprintf("Running optimization script for route %s with %d POIs", wire.RouteID, len(wire.POIs)))
	if err := s.run(ctx, inputPath, outputPath, log); err != nil {
		job.Status = optimization.StatusFailed
		job.Message = err.Error()
		sink.Notify(fmt.Sprintf("Optimization script for route %s failed: %v", wire.RouteID, err))
		return job, nil, err
	}

	result, err := s.parseOutput(outputPath, requestID)
	if err != nil {
		job.Status = optimization.StatusFailed
		job.Message = err.Error()
		return job, nil, err
	}

	job.Status = optimization.StatusCompleted
	job.Progress = 100
	sink.Notify(fmt.Sprintf("Optimization script for route %s completed (100%%)", wire.RouteID))
	log.Info().Int("pois", len(result.Sequence)).Msg("script optimization completed")
	return job, result, nil
}

func (s *ScriptRouteOptimizer) command(inputPath, outputPath string) []string {
	var cmd []string
	if s.cfg.CondaEnvName != "" {
		cmd = append(cmd, "conda", "run", "-n", s.cfg.CondaEnvName)
	}
	return append(cmd, s.interpreter, s.cfg.Path, "--input", inputPath, "--output", outputPath)
}

func (s *ScriptRouteOptimizer) run(ctx context.Context, inputPath, outputPath string, log zerolog.Logger) error {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	args := s.command(inputPath, outputPath)
	log.Info().Str("command", strings.Join(args, " ")).Msg("executing optimization script")

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = s.cfg.WorkingDirectory
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		log.Debug().Str("output", string(output)).Msg("script output")
	}

	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &optimization.InterruptedError{Stage: "script execution", Err: ctxErr}
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out after %d minutes", utils.ErrScriptExecution, s.cfg.TimeoutMinutes)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Error().Int("exit_code", exitErr.ExitCode()).Str("output", string(output)).Msg("optimization script failed")
		return fmt.Errorf("%w: exit code %d", utils.ErrScriptExecution, exitErr.ExitCode())
	}
	return fmt.Errorf("%w: %v", utils.ErrScriptExecution, err)
}

func (s *ScriptRouteOptimizer) parseOutput(outputPath, requestID string) (*optimization.OptimizationResult, error) {
	raw, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: script did not generate output file: %v", utils.ErrScriptExecution, err)
	}

	var out scriptOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode output: %v", utils.ErrScriptExecution, err)
	}

	result := &optimization.OptimizationResult{
		RequestID:         requestID,
		OptimizedRouteID:  out.OptimizedRouteID,
		Algorithm:         AlgorithmScript,
		TotalDistanceKm:   out.TotalDistance,
		TotalTimeMinutes:  out.TotalTime,
		OptimizationScore: out.OptimizationScore,
		Sequence:          make([]optimization.OptimizedPOI, 0, len(out.OptimizedSequence)),
		ProcessedAt:       time.Now(),
	}
	for _, p := range out.OptimizedSequence {
		result.Sequence = append(result.Sequence, optimization.OptimizedPOI{
			POIID:              p.POIID,
			Name:               p.Name,
			Latitude:           p.Latitude,
			Longitude:          p.Longitude,
			VisitOrder:         p.VisitOrder,
			EstimatedVisitTime: p.EstimatedVisitTime,
			ArrivalTime:        p.ArrivalTime,
			DepartureTime:      p.DepartureTime,
		})
	}
	return result, nil
}

// Health reports whether the configured script is present on disk.
func (s *ScriptRouteOptimizer) Health(context.Context) response_models.RemoteHealth {
	info, err := os.Stat(s.cfg.Path)
	if err != nil {
		return response_models.RemoteHealth{Healthy: false, Status: "MISSING", Error: err.Error()}
	}
	if info.IsDir() {
		return response_models.RemoteHealth{Healthy: false, Status: "MISSING", Error: s.cfg.Path + " is a directory"}
	}
	return response_models.RemoteHealth{Healthy: true, Status: "READY", Version: AlgorithmScript}
}
