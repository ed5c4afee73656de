package services

import (
	"context"

	"routeprocessing/internal/config"
	"routeprocessing/internal/models/response_models"
	"routeprocessing/internal/optimization"
)

// RouteOptimizer is one backend able to produce an optimized route.
type RouteOptimizer interface {
	Name() string
	// Optimize returns the last known job snapshot alongside the result or error.
	Optimize(ctx context.Context, req *optimization.OptimizationRequest, sink optimization.StatusSink) (optimization.Job, *optimization.OptimizationResult, error)
	Health(ctx context.Context) response_models.RemoteHealth
}

// GrpcRouteOptimizer delegates to the remote optimization service.
type GrpcRouteOptimizer struct {
	engine *optimization.Engine
}

func NewGrpcRouteOptimizer(engine *optimization.Engine) *GrpcRouteOptimizer {
	return &GrpcRouteOptimizer{engine: engine}
}

func (g *GrpcRouteOptimizer) Name() string {
	return config.BackendGrpc
}

func (g *GrpcRouteOptimizer) Optimize(ctx context.Context, req *optimization.OptimizationRequest, sink optimization.StatusSink) (optimization.Job, *optimization.OptimizationResult, error) {
	return g.engine.Run(ctx, req, sink)
}

func (g *GrpcRouteOptimizer) Health(ctx context.Context) response_models.RemoteHealth {
	resp, err := g.engine.HealthCheck(ctx)
	if err != nil {
		return response_models.RemoteHealth{Healthy: false, Status: "UNREACHABLE", Error: err.Error()}
	}
	return response_models.RemoteHealth{Healthy: resp.IsHealthy, Status: resp.Status, Version: resp.Version}
}
