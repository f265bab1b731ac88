package api

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamup/internal/events"
	"teamup/internal/middleware"
	"teamup/internal/models"
)

// EventHandler serves the public event API.
type EventHandler struct {
	svc *events.Service
	log *zap.Logger
}

// NewEventHandler creates a new API event handler.
func NewEventHandler(svc *events.Service, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: logger}
}

// list writes events or a 500, never null.
func (h *EventHandler) list(c fiber.Ctx, list []models.Event, err error) error {
	if err != nil {
		h.log.Error("list events failed", zap.String("path", c.Path()), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch events")
	}
	if list == nil {
		list = []models.Event{}
	}
	return jsonSuccess(c, list)
}

// List returns all published events.
func (h *EventHandler) List(c fiber.Ctx) error {
	list, err := h.svc.Published(c.Context())
	return h.list(c, list, err)
}

// Get returns a single event. Unpublished events are only returned to
// their author and moderators.
func (h *EventHandler) Get(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.Get(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return failure(c, err, "fetch event")
	}
	return jsonSuccess(c, event)
}

// ByName returns published events whose name contains the path parameter.
func (h *EventHandler) ByName(c fiber.Ctx) error {
	list, err := h.svc.SearchByName(c.Context(), c.Params("name"))
	return h.list(c, list, err)
}

// ByAuthor returns an author's events visible to the caller.
func (h *EventHandler) ByAuthor(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid author id")
	}
	list, err := h.svc.ByAuthor(c.Context(), middleware.CurrentUser(c), id)
	return h.list(c, list, err)
}

// ByType returns published events of an event type.
func (h *EventHandler) ByType(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event type id")
	}
	list, err := h.svc.ByType(c.Context(), id)
	return h.list(c, list, err)
}

// ByInterest returns published events tagged with an interest.
func (h *EventHandler) ByInterest(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid interest id")
	}
	list, err := h.svc.ByInterest(c.Context(), id)
	return h.list(c, list, err)
}

// Joined returns the events the caller takes part in.
func (h *EventHandler) Joined(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	list, err := h.svc.Joined(c.Context(), user)
	return h.list(c, list, err)
}

// Create screens and stores a new event. Clean content is published (201);
// content with unnecessary words is stored for review (202); forbidden
// words are refused (422).
func (h *EventHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.EventRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	outcome, err := h.svc.Create(c.Context(), user, &req)
	if err != nil {
		return failure(c, err, "create event")
	}

	if outcome.Queued() {
		return submitted(c, fiber.StatusAccepted, outcome, "event submitted for review")
	}
	return submitted(c, fiber.StatusCreated, outcome, "event published")
}

// Update screens and stores new content for an event.
func (h *EventHandler) Update(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req models.EventRequest
	if ok, err := decode(c, &req); !ok {
		return err
	}

	outcome, err := h.svc.Update(c.Context(), user, id, &req)
	if err != nil {
		return failure(c, err, "update event")
	}

	if outcome.Queued() {
		return submitted(c, fiber.StatusAccepted, outcome, "event sent back for review")
	}
	return submitted(c, fiber.StatusOK, outcome, "event updated")
}

func submitted(c fiber.Ctx, status int, outcome *events.Outcome, message string) error {
	return jsonStatus(c, status, models.EventSubmitResponse{
		Event:          outcome.Event,
		Classification: outcome.Verdict.Classification.String(),
		Message:        message,
	})
}

// Delete removes an event. Only the author or an admin may delete.
func (h *EventHandler) Delete(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	if err := h.svc.Delete(c.Context(), user, id); err != nil {
		return failure(c, err, "delete event")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "event deleted successfully",
	})
}

// Join adds the caller to a published event.
func (h *EventHandler) Join(c fiber.Ctx) error {
	return h.participate(c, h.svc.Join)
}

// Leave removes the caller from an event.
func (h *EventHandler) Leave(c fiber.Ctx) error {
	return h.participate(c, h.svc.Leave)
}

func (h *EventHandler) participate(c fiber.Ctx, fn func(context.Context, *models.User, uuid.UUID) (*models.Event, error)) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := fn(c.Context(), user, id)
	if err != nil {
		return failure(c, err, "update participation")
	}
	return jsonSuccess(c, event)
}
