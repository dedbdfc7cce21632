package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func readyResponse(t *testing.T, h *HealthHandler) (int, string, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, string(raw), body
}

func TestReady_AllDependenciesUp(t *testing.T) {
	h := NewHealthHandler("ticket-tracker", "test", stubPinger{}, stubPinger{}, nil, zap.NewNop())

	status, _, body := readyResponse(t, h)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReady_HidesPingErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cause := errors.New("dial tcp 10.0.0.5:5432: password authentication failed for user admin")
	h := NewHealthHandler("ticket-tracker", "test", stubPinger{err: cause}, stubPinger{}, nil, zap.New(core))

	status, raw, body := readyResponse(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.NotContains(t, raw, "password authentication")
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "unavailable", details["postgres"])
	assert.Equal(t, "ok", details["redis"])

	entries := logs.FilterMessage("readiness check failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "postgres", entries[0].ContextMap()["dependency"])
}
