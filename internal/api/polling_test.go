package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/enginewatch/snmp-engine-monitor/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollingStatus(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/polling/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status services.PollerStatus
	decodeBody(t, resp.Body, &status)

	assert.False(t, status.Running)
	assert.Equal(t, 2.0, status.IntervalSeconds)
	assert.Equal(t, 5.0, status.BackoffSeconds)
	assert.Zero(t, status.TotalCycles)
}

func TestPollingStartStop(t *testing.T) {
	app, poller, _ := setupTestApp(t)
	defer func() {
		if poller.IsRunning() {
			_ = poller.Stop()
		}
	}()

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/polling/start", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status services.PollerStatus
	decodeBody(t, resp.Body, &status)
	assert.True(t, status.Running)

	// Starting again must be rejected
	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/polling/start", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/polling/stop", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	decodeBody(t, resp.Body, &status)
	assert.False(t, status.Running)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/polling/stop", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestTriggerPoll_FullCycle(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/polling/poll", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		Engines map[string]models.EngineTelemetry `json:"engines"`
	}
	decodeBody(t, resp.Body, &payload)

	require.Len(t, payload.Engines, 3)
	for id, entry := range payload.Engines {
		assert.NotNil(t, entry.LastUpdated, "engine %s", id)
		assert.NotEqual(t, models.HealthUnknown, entry.HealthStatus, "engine %s", id)
	}
}

func TestTriggerPoll_SingleEngine(t *testing.T) {
	app, poller, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/polling/poll",
		strings.NewReader(`{"engine_id":"Engine-3"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var entry models.EngineTelemetry
	decodeBody(t, resp.Body, &entry)
	assert.Equal(t, "Engine-3", entry.EngineID)
	assert.NotNil(t, entry.LastUpdated)

	// Only the requested engine was refreshed
	other, ok := poller.GetOne("Engine-1")
	require.True(t, ok)
	assert.Nil(t, other.LastUpdated)
}

func TestTriggerPoll_UnknownEngine(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/polling/poll",
		strings.NewReader(`{"engine_id":"Engine-404"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestTriggerPoll_MalformedBody(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/polling/poll",
		strings.NewReader(`{"engine_id":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
