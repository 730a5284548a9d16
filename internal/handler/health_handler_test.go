package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"quiz-ai/internal/dto"
)

func TestHealthHandler(t *testing.T) {
	app, deps := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/health", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/health/ai", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ok dto.HealthResponse
	decode(t, resp, &ok)
	assert.Equal(t, "connection ok", ok.Response)

	deps.checker.Err = errors.New("invalid api key")
	resp = doRequest(t, app, http.MethodGet, "/api/health/ai", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var failed dto.HealthResponse
	decode(t, resp, &failed)
	assert.Equal(t, "error", failed.Status)
	assert.Equal(t, "invalid api key", failed.Error)
}
