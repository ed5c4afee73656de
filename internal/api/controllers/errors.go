package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"routeprocessing/internal/optimization"
	"routeprocessing/pkg/utils"
)

// FailureDetail is attached to errors raised after a remote job exists.
type FailureDetail struct {
	JobID      string `json:"job_id,omitempty"`
	LastStatus string `json:"last_status,omitempty"`
	Attempts   int    `json:"attempts,omitempty"`
}

// handleServiceError maps optimization failures to HTTP responses and leaves
// everything else to utils.HandleServiceError.
func handleServiceError(c *gin.Context, err error) {
	var (
		validationErr *optimization.ValidationError
		rejectionErr  *optimization.RemoteRejectionError
		exhaustedErr  *optimization.RPCExhaustedError
		jobFailedErr  *optimization.JobFailedError
		timeoutErr    *optimization.PollTimeoutError
		transportErr  *optimization.RPCTransportError
	)
	traceID := c.GetString("trace_id")

	switch {
	case errors.As(err, &validationErr):
		utils.RespondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &rejectionErr):
		utils.RespondErrorWithData(c, http.StatusUnprocessableEntity, rejectionErr.Error(),
			FailureDetail{LastStatus: rejectionErr.Status, Attempts: rejectionErr.Attempt})
	case errors.Is(err, optimization.ErrInterrupted):
		utils.RespondError(c, http.StatusServiceUnavailable, "Optimization was interrupted")
	case errors.As(err, &timeoutErr):
		utils.RespondErrorWithData(c, http.StatusGatewayTimeout, timeoutErr.Message(),
			FailureDetail{JobID: timeoutErr.JobID, LastStatus: string(optimization.StatusTimeout), Attempts: timeoutErr.Polls})
	case errors.As(err, &jobFailedErr):
		utils.RespondErrorWithData(c, http.StatusBadGateway, jobFailedErr.Error(),
			FailureDetail{JobID: jobFailedErr.JobID, LastStatus: string(jobFailedErr.Status), Attempts: jobFailedErr.Polls})
	case errors.As(err, &exhaustedErr):
		log.Warn().Err(err).Str("trace_id", traceID).Msg("optimization service unreachable")
		utils.RespondErrorWithData(c, http.StatusBadGateway, "Optimization service unreachable",
			FailureDetail{Attempts: exhaustedErr.Attempts})
	case errors.As(err, &transportErr):
		log.Warn().Err(err).Str("trace_id", traceID).Msg("optimization call failed")
		utils.RespondError(c, http.StatusBadGateway, "Optimization service call failed")
	default:
		utils.HandleServiceError(c, err)
	}
}
