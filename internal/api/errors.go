package api

import (
	"log"
	"strings"

	"github.com/enginewatch/snmp-engine-monitor/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Global validator instance
var validate = validator.New()

// ErrorResponse represents a sanitized error response for API clients
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// sanitizeError returns a user-friendly error message and logs the detailed error
func sanitizeError(err error, userMessage string) string {
	if err == nil {
		return userMessage
	}

	// Log the detailed error server-side for debugging
	log.Printf("[API Error] %s: %v", userMessage, err)

	errStr := err.Error()

	if strings.Contains(errStr, "not found") {
		return "Resource not found"
	}
	if strings.Contains(errStr, "already running") {
		return "Poller is already running"
	}
	if strings.Contains(errStr, "not running") {
		return "Poller is not running"
	}
	if strings.Contains(errStr, "timeout") {
		return "Operation timed out"
	}

	return userMessage
}

// HandleError is a helper to return sanitized error responses
func HandleError(c *fiber.Ctx, statusCode int, err error, defaultMessage string) error {
	// Check if this is a structured APIError
	if apiErr, ok := err.(*models.APIError); ok {
		return c.Status(statusCode).JSON(ErrorResponse{
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		})
	}

	sanitized := sanitizeError(err, defaultMessage)
	return c.Status(statusCode).JSON(ErrorResponse{
		Error: sanitized,
	})
}

// ValidateRequest validates a request struct and returns a sanitized error if validation fails
func ValidateRequest(c *fiber.Ctx, req interface{}) error {
	if err := validate.Struct(req); err != nil {
		log.Printf("[Validation Error] %v", err)

		return c.Status(400).JSON(ErrorResponse{
			Error: "Invalid request - please check your input and try again",
			Code:  models.ErrCodeValidationFailed,
		})
	}
	return nil
}
