package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-planner/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]int{"blocks": 21})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"blocks":21}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	ctx, buf := logger.NewCaptureContext(t)
	ctx = WithTraceID(ctx, "trace-1")
	req := httptest.NewRequest(http.MethodPost, "/api/blocks/x/complete", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	err := errors.New("dial postgres://app:hunter2@db:5432/scry: refused")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "An unexpected error occurred", body.Error)
	assert.Equal(t, "trace-1", body.TraceID)
	assert.NotContains(t, w.Body.String(), "hunter2")

	logger.AssertLogContains(t, buf, "API error response")
	logger.AssertLogField(t, buf, "trace_id", "trace-1")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid blockID")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid blockID"}`, w.Body.String())
}
