package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/enginewatch/snmp-engine-monitor/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableQuerier fails every query so polls always synthesize
type unreachableQuerier struct{}

func (unreachableQuerier) Get(host string, port uint16, community, oid string) (float64, error) {
	return 0, errors.New("no response from agent")
}

// setupTestApp creates a Fiber app with a real fleet and poller for testing
func setupTestApp(t *testing.T) (*fiber.App, *services.PollerService, *services.Fleet) {
	t.Helper()

	fleet := services.NewFleet(models.DefaultFleet())
	poller := services.NewPollerService(fleet, unreachableQuerier{}, nil)

	app := fiber.New()
	group := app.Group("/api/v1")

	NewEngineHandler(poller, fleet).RegisterRoutes(group)
	NewPollingHandler(poller).RegisterRoutes(group)

	return app, poller, fleet
}

func decodeBody(t *testing.T, resp io.Reader, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestListEngines(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/engines", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		Engines map[string]models.EngineTelemetry `json:"engines"`
	}
	decodeBody(t, resp.Body, &payload)

	require.Len(t, payload.Engines, 3)
	assert.Equal(t, models.HealthUnknown, payload.Engines["Engine-1"].HealthStatus)
	assert.Nil(t, payload.Engines["Engine-1"].LastUpdated)
}

func TestGetEngine(t *testing.T) {
	app, poller, _ := setupTestApp(t)
	require.NoError(t, poller.PollEngine("Engine-2"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/engines/Engine-2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var entry models.EngineTelemetry
	decodeBody(t, resp.Body, &entry)

	assert.Equal(t, "Engine-2", entry.EngineID)
	assert.Equal(t, uint16(1612), entry.Port)
	assert.NotNil(t, entry.LastUpdated)
	assert.Equal(t, models.RunStateRunning, entry.RunState)
}

func TestGetEngine_NotFound(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/engines/Engine-99", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetSummary(t *testing.T) {
	app, poller, _ := setupTestApp(t)
	require.NoError(t, poller.PollAll())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var summary models.FleetSummary
	decodeBody(t, resp.Body, &summary)

	assert.Equal(t, 3, summary.TotalEngines)
	assert.Equal(t, 3, summary.RunningEngines)
	assert.Greater(t, summary.AvgTemperature, 0.0)
}

func TestGetEngineMessages(t *testing.T) {
	app, poller, _ := setupTestApp(t)
	require.NoError(t, poller.PollEngine("Engine-1"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/engines/Engine-1/messages", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		EngineID string `json:"engine_id"`
		Messages []struct {
			Kind string `json:"message_type"`
			OID  string `json:"oid"`
		} `json:"messages"`
	}
	decodeBody(t, resp.Body, &payload)

	assert.Equal(t, "Engine-1", payload.EngineID)
	require.Len(t, payload.Messages, 12, "one request/response pair per variable")
	assert.Equal(t, "request", payload.Messages[0].Kind)
	assert.Equal(t, "response", payload.Messages[1].Kind)
}

func TestGetEngineMessages_NotFound(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/engines/nope/messages", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetAllMessages(t *testing.T) {
	app, poller, _ := setupTestApp(t)
	require.NoError(t, poller.PollAll())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/messages", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		Messages map[string][]json.RawMessage `json:"messages"`
	}
	decodeBody(t, resp.Body, &payload)

	require.Len(t, payload.Messages, 3)
	for id, records := range payload.Messages {
		assert.Len(t, records, 12, "engine %s", id)
	}
}

func TestGetEngineMIB(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/engines/Engine-1/mib", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		EngineID       string                            `json:"engine_id"`
		Port           uint16                            `json:"port"`
		MIBDefinitions map[string]map[string]interface{} `json:"mib_definitions"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	assert.Equal(t, "Engine-1", payload.EngineID)
	assert.Equal(t, uint16(1611), payload.Port)
	require.Len(t, payload.MIBDefinitions, 6)

	tempDef := payload.MIBDefinitions["1.3.6.1.4.1.9999.1.1.1.0"]
	require.NotNil(t, tempDef)
	assert.Equal(t, "engineTemperature", tempDef["name"])
	assert.Equal(t, "Gauge32", tempDef["type"])
	assert.Equal(t, "read-only", tempDef["access"])

	// Generator internals must not leak through the API
	assert.NotContains(t, string(body), "generator")
}

func TestGetAllMIB(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/mib", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload map[string]struct {
		Port uint16 `json:"port"`
	}
	decodeBody(t, resp.Body, &payload)

	require.Len(t, payload, 3)
	assert.Equal(t, uint16(1613), payload["Engine-3"].Port)
}
