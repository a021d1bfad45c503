package handlers

import (
	"bytes"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"route-planner/internal/platform/logger"
)

func TestWriteJSONLogsEncodeFailureThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	writeJSON(rec, req, log, http.StatusOK, map[string]float64{"distance": math.Inf(1)})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "encode failed")
	assert.Contains(t, buf.String(), "/routes")
}

func TestWriteAppErrorHidesUnkindedErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	writeAppError(rec, req, log, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "handler failed")
}
