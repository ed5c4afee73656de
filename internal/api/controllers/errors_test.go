package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeprocessing/internal/optimization"
	"routeprocessing/pkg/utils"
)

func serveError(t *testing.T, err error) (int, utils.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("trace_id", "trace-1")
	handleServiceError(c, err)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleServiceError_OptimizationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &optimization.ValidationError{Field: "routeId", Message: "must not be empty"}, http.StatusBadRequest},
		{"rejection", &optimization.RemoteRejectionError{Status: "REJECTED", Message: "no"}, http.StatusUnprocessableEntity},
		{"exhausted", &optimization.RPCExhaustedError{Attempts: 3, Last: errors.New("down")}, http.StatusBadGateway},
		{"transport", &optimization.RPCTransportError{Method: "GetJobStatus", Err: errors.New("reset")}, http.StatusBadGateway},
		{"job failed", &optimization.JobFailedError{JobID: "j", Status: optimization.StatusFailed, Message: "boom"}, http.StatusBadGateway},
		{"poll timeout", &optimization.PollTimeoutError{JobID: "j", Polls: 60}, http.StatusGatewayTimeout},
		{"interrupted", &optimization.InterruptedError{Stage: "submit", Err: context.Canceled}, http.StatusServiceUnavailable},
		{"wrapped validation", fmt.Errorf("process: %w", &optimization.ValidationError{Field: "pois"}), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serveError(t, tt.err)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.want, body.Code)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestHandleServiceError_FallsBackToSharedErrors(t *testing.T) {
	code, _ := serveError(t, utils.ErrRunNotFound)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = serveError(t, fmt.Errorf("%w: exit 1", utils.ErrScriptExecution))
	assert.Equal(t, http.StatusBadGateway, code)

	code, _ = serveError(t, errors.New("???"))
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHandleServiceError_TimeoutCarriesJobDetail(t *testing.T) {
	_, body := serveError(t, &optimization.PollTimeoutError{JobID: "job-3", Polls: 60, Elapsed: 300e9})

	assert.Contains(t, body.Message, "300 seconds")
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "job-3", data["job_id"])
	assert.Equal(t, "TIMEOUT", data["last_status"])
	assert.EqualValues(t, 60, data["attempts"])
}
