package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"teamup/internal/events"
	"teamup/internal/middleware"
	"teamup/internal/models"
	"teamup/internal/validation"
)

// ModerationHandler handles event moderation via JSON API.
type ModerationHandler struct {
	svc *events.Service
}

// NewModerationHandler creates a new API moderation handler.
func NewModerationHandler(svc *events.Service) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// ListPending returns all events waiting for review.
func (h *ModerationHandler) ListPending(c fiber.Ctx) error {
	pending, err := h.svc.Pending(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch pending events")
	}

	// Ensure non-null arrays in JSON
	if pending == nil {
		pending = []models.Event{}
	}

	return jsonSuccess(c, pending)
}

// Approve publishes a pending event.
func (h *ModerationHandler) Approve(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.Approve(c.Context(), user, eventID)
	if err != nil {
		return failure(c, err, "approve event")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "event approved",
		"event":   event,
	})
}

// Reject refuses a pending event with an optional reason.
func (h *ModerationHandler) Reject(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	// Body and reason are both optional
	var body models.ReviewRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	event, err := h.svc.Reject(c.Context(), user, eventID, body.Reason)
	if err != nil {
		return failure(c, err, "reject event")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "event rejected",
		"event":   event,
	})
}
