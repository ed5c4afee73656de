package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"routeprocessing/internal/models/request_models"
	"routeprocessing/internal/services"
	"routeprocessing/pkg/utils"
)

type RouteProcessingController struct {
	processingService services.RouteProcessingServiceInterface
}

func NewRouteProcessingController(processingService services.RouteProcessingServiceInterface) *RouteProcessingController {
	return &RouteProcessingController{
		processingService: processingService,
	}
}

func (rc *RouteProcessingController) bindRequest(c *gin.Context) (*request_models.ProcessRouteRequest, bool) {
	var req request_models.ProcessRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	// Authenticated callers may omit user_id.
	if req.UserID == "" {
		req.UserID = c.GetString("user_id")
	}
	return &req, true
}

// ProcessRoute godoc
// @Summary Optimize a route
// @Description Submit the POIs of a route to the optimizer and wait for the optimized sequence
// @Tags RouteProcessing
// @Accept json
// @Produce json
// @Param request body request_models.ProcessRouteRequest true "Route to optimize"
// @Success 200 {object} response_models.OptimizedRoute
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Failure 504 {object} utils.APIResponse
// @Security BearerAuth
// @Router /process-route [post]
func (rc *RouteProcessingController) ProcessRoute(c *gin.Context) {
	req, ok := rc.bindRequest(c)
	if !ok {
		return
	}

	route, err := rc.processingService.ProcessRoute(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, route, "Route optimized successfully")
}

// ProcessRouteAsync godoc
// @Summary Optimize a route in the background
// @Description Queue the route for optimization and return the run id to poll
// @Tags RouteProcessing
// @Accept json
// @Produce json
// @Param request body request_models.ProcessRouteRequest true "Route to optimize"
// @Success 202 {object} response_models.AsyncRunAccepted
// @Failure 400 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Security BearerAuth
// @Router /process-route/async [post]
func (rc *RouteProcessingController) ProcessRouteAsync(c *gin.Context) {
	req, ok := rc.bindRequest(c)
	if !ok {
		return
	}

	accepted, err := rc.processingService.SubmitAsync(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusAccepted, accepted, "Route queued for optimization")
}

// GetRun godoc
// @Summary Get a processing run
// @Description Fetch status, job id, error and result of one processing run
// @Tags RouteProcessing
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {object} response_models.ProcessingRun
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /process-route/runs/{runId} [get]
func (rc *RouteProcessingController) GetRun(c *gin.Context) {
	runID := c.Param("runId")
	if runID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Run ID is required")
		return
	}

	run, err := rc.processingService.GetRun(c.Request.Context(), runID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, run, "Run fetched successfully")
}

// ListRuns godoc
// @Summary List processing runs of a route
// @Tags RouteProcessing
// @Produce json
// @Param routeId query string true "Route ID"
// @Param limit query int false "Max runs" default(20) minimum(1) maximum(100)
// @Success 200 {array} response_models.ProcessingRun
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /process-route/runs [get]
func (rc *RouteProcessingController) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
		return
	}

	runs, err := rc.processingService.ListRuns(c.Request.Context(), c.Query("routeId"), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, runs, "Runs fetched successfully")
}

// Health godoc
// @Summary Service health
// @Description Local status plus the optimizer backend health
// @Tags Health
// @Produce json
// @Success 200 {object} response_models.Health
// @Failure 503 {object} utils.APIResponse
// @Router /health [get]
func (rc *RouteProcessingController) Health(c *gin.Context) {
	health := rc.processingService.Health(c.Request.Context())
	if health.Status == "UP" {
		utils.RespondSuccess(c, health, "Service is healthy")
		return
	}
	utils.RespondWithStatus(c, http.StatusServiceUnavailable, health, "Service is degraded")
}
