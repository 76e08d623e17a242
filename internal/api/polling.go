package api

import (
	"github.com/enginewatch/snmp-engine-monitor/internal/services"
	"github.com/gofiber/fiber/v2"
)

// PollingHandler controls the poll loop over HTTP
type PollingHandler struct {
	poller *services.PollerService
}

// NewPollingHandler creates a new polling handler
func NewPollingHandler(poller *services.PollerService) *PollingHandler {
	return &PollingHandler{poller: poller}
}

// RegisterRoutes registers polling routes
func (h *PollingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/polling/status", h.GetStatus)
	router.Post("/polling/start", h.Start)
	router.Post("/polling/stop", h.Stop)
	router.Post("/polling/poll", h.TriggerPoll)
}

// GetStatus handles GET /api/v1/polling/status
func (h *PollingHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.poller.GetStatus())
}

// Start handles POST /api/v1/polling/start
func (h *PollingHandler) Start(c *fiber.Ctx) error {
	if err := h.poller.Start(); err != nil {
		return HandleError(c, 409, err, "Failed to start poller")
	}
	return c.JSON(h.poller.GetStatus())
}

// Stop handles POST /api/v1/polling/stop
func (h *PollingHandler) Stop(c *fiber.Ctx) error {
	if err := h.poller.Stop(); err != nil {
		return HandleError(c, 409, err, "Failed to stop poller")
	}
	return c.JSON(h.poller.GetStatus())
}

// TriggerPollRequest represents the request body for a manual poll
type TriggerPollRequest struct {
	EngineID string `json:"engine_id" validate:"omitempty,min=1"`
}

// TriggerPoll handles POST /api/v1/polling/poll. With an engine_id it polls
// that engine; without one it runs a full cycle.
func (h *PollingHandler) TriggerPoll(c *fiber.Ctx) error {
	var req TriggerPollRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if err := ValidateRequest(c, &req); err != nil {
			return err
		}
	}

	if req.EngineID != "" {
		if err := h.poller.PollEngine(req.EngineID); err != nil {
			return HandleError(c, 404, err, "Failed to poll engine")
		}
		entry, _ := h.poller.GetOne(req.EngineID)
		return c.JSON(entry)
	}

	if err := h.poller.PollAll(); err != nil {
		return HandleError(c, 500, err, "Poll cycle failed")
	}
	return c.JSON(fiber.Map{
		"engines": h.poller.GetAll(),
	})
}
