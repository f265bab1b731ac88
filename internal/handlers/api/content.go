package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"teamup/internal/events"
	"teamup/internal/models"
)

// ContentHandler lets clients check text before submitting an event.
type ContentHandler struct {
	svc *events.Service
}

// NewContentHandler creates a new API content handler.
func NewContentHandler(svc *events.Service) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Check classifies a name and description without storing anything.
func (h *ContentHandler) Check(c fiber.Ctx) error {
	var body models.ContentCheckRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	return jsonSuccess(c, h.svc.Check(body.Name, body.Description))
}
