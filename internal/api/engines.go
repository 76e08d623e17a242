package api

import (
	"time"

	"github.com/enginewatch/snmp-engine-monitor/internal/mib"
	"github.com/enginewatch/snmp-engine-monitor/internal/services"
	"github.com/enginewatch/snmp-engine-monitor/internal/simulator"
	"github.com/gofiber/fiber/v2"
)

// EngineHandler serves telemetry, message log, and MIB metadata reads. All
// responses come from poller/engine snapshots; handlers never mutate state.
type EngineHandler struct {
	poller *services.PollerService
	fleet  *services.Fleet
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(poller *services.PollerService, fleet *services.Fleet) *EngineHandler {
	return &EngineHandler{poller: poller, fleet: fleet}
}

// RegisterRoutes registers engine routes
func (h *EngineHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/engines", h.ListEngines)
	router.Get("/engines/:id", h.GetEngine)
	router.Get("/engines/:id/messages", h.GetEngineMessages)
	router.Get("/engines/:id/mib", h.GetEngineMIB)
	router.Get("/summary", h.GetSummary)
	router.Get("/messages", h.GetAllMessages)
	router.Get("/mib", h.GetAllMIB)
}

// ListEngines handles GET /api/v1/engines
func (h *EngineHandler) ListEngines(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"engines":   h.poller.GetAll(),
		"timestamp": time.Now(),
	})
}

// GetEngine handles GET /api/v1/engines/:id
func (h *EngineHandler) GetEngine(c *fiber.Ctx) error {
	entry, ok := h.poller.GetOne(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "Engine not found",
		})
	}
	return c.JSON(entry)
}

// GetSummary handles GET /api/v1/summary
func (h *EngineHandler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.poller.GetSummary())
}

// GetEngineMessages handles GET /api/v1/engines/:id/messages
func (h *EngineHandler) GetEngineMessages(c *fiber.Ctx) error {
	eng, ok := h.fleet.Get(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "Engine not found",
		})
	}
	return c.JSON(fiber.Map{
		"engine_id": eng.ID(),
		"messages":  eng.Log().Snapshot(),
	})
}

// GetAllMessages handles GET /api/v1/messages
func (h *EngineHandler) GetAllMessages(c *fiber.Ctx) error {
	logs := make(map[string][]simulator.LogRecord, h.fleet.Len())
	for _, id := range h.fleet.IDs() {
		eng, _ := h.fleet.Get(id)
		logs[id] = eng.Log().Snapshot()
	}
	return c.JSON(fiber.Map{
		"messages":  logs,
		"timestamp": time.Now(),
	})
}

// mibInfo is the per-engine MIB metadata payload. Generator internals are
// deliberately absent; clients only see descriptive metadata.
type mibInfo struct {
	EngineID       string                       `json:"engine_id"`
	Port           uint16                       `json:"port"`
	MIBDefinitions map[string]mib.VariableEntry `json:"mib_definitions"`
	MessageCount   int                          `json:"message_count"`
}

func engineMIBInfo(eng *simulator.Engine) mibInfo {
	defs := make(map[string]mib.VariableEntry, eng.Catalog().Len())
	for _, entry := range eng.Catalog().Entries() {
		defs[entry.OID] = entry
	}
	return mibInfo{
		EngineID:       eng.ID(),
		Port:           eng.Port(),
		MIBDefinitions: defs,
		MessageCount:   eng.Log().Len(),
	}
}

// GetEngineMIB handles GET /api/v1/engines/:id/mib
func (h *EngineHandler) GetEngineMIB(c *fiber.Ctx) error {
	eng, ok := h.fleet.Get(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "Engine not found",
		})
	}
	return c.JSON(engineMIBInfo(eng))
}

// GetAllMIB handles GET /api/v1/mib
func (h *EngineHandler) GetAllMIB(c *fiber.Ctx) error {
	info := make(map[string]mibInfo, h.fleet.Len())
	for _, id := range h.fleet.IDs() {
		eng, _ := h.fleet.Get(id)
		info[id] = engineMIBInfo(eng)
	}
	return c.JSON(info)
}
