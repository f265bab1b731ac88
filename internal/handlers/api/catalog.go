package api

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamup/internal/models"
)

// CatalogStore persists the lookup tables events refer to.
type CatalogStore interface {
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	GetEventType(ctx context.Context, id uuid.UUID) (*models.EventType, error)
	CreateEventType(ctx context.Context, t *models.EventType) error
	UpdateEventType(ctx context.Context, t *models.EventType) error
	DeleteEventType(ctx context.Context, id uuid.UUID) error

	ListInterests(ctx context.Context) ([]models.Interest, error)
	GetInterest(ctx context.Context, id uuid.UUID) (*models.Interest, error)
	CreateInterest(ctx context.Context, i *models.Interest) error
	UpdateInterest(ctx context.Context, i *models.Interest) error
	DeleteInterest(ctx context.Context, id uuid.UUID) error

	ListStatuses(ctx context.Context) ([]models.Status, error)
	CreateStatus(ctx context.Context, s *models.Status) error
	UpdateStatus(ctx context.Context, s *models.Status) error
	DeleteStatus(ctx context.Context, id uuid.UUID) error
}

// CatalogHandler manages event types, interests and statuses. Lists are
// open to signed-in users; changes are mounted behind RequireAdmin.
type CatalogHandler struct {
	db CatalogStore
}

// NewCatalogHandler creates a new API catalog handler.
func NewCatalogHandler(database CatalogStore) *CatalogHandler {
	return &CatalogHandler{db: database}
}

// Event types

// ListEventTypes returns all event types.
func (h *CatalogHandler) ListEventTypes(c fiber.Ctx) error {
	types, err := h.db.ListEventTypes(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch event types")
	}
	return jsonSuccess(c, types)
}

// GetEventType returns one event type.
func (h *CatalogHandler) GetEventType(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event type id")
	}
	t, err := h.db.GetEventType(c.Context(), id)
	if err != nil {
		return failure(c, err, "fetch event type")
	}
	return jsonSuccess(c, t)
}

// CreateEventType adds an event type.
func (h *CatalogHandler) CreateEventType(c fiber.Ctx) error {
	var body models.EventTypeRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	t := &models.EventType{Name: strings.TrimSpace(body.Name)}
	if err := h.db.CreateEventType(c.Context(), t); err != nil {
		return failure(c, err, "create event type")
	}
	return jsonStatus(c, fiber.StatusCreated, t)
}

// UpdateEventType renames an event type.
func (h *CatalogHandler) UpdateEventType(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid event type id")
	}

	var body models.EventTypeRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	t := &models.EventType{ID: id, Name: strings.TrimSpace(body.Name)}
	if err := h.db.UpdateEventType(c.Context(), t); err != nil {
		return failure(c, err, "update event type")
	}
	return jsonSuccess(c, t)
}

// DeleteEventType removes an event type. Events of that type keep
// existing without a type.
func (h *CatalogHandler) DeleteEventType(c fiber.Ctx) error {
	return h.remove(c, "event type", h.db.DeleteEventType)
}

// Interests

// ListInterests returns all interests.
func (h *CatalogHandler) ListInterests(c fiber.Ctx) error {
	interests, err := h.db.ListInterests(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch interests")
	}
	return jsonSuccess(c, interests)
}

// GetInterest returns one interest.
func (h *CatalogHandler) GetInterest(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid interest id")
	}
	i, err := h.db.GetInterest(c.Context(), id)
	if err != nil {
		return failure(c, err, "fetch interest")
	}
	return jsonSuccess(c, i)
}

// CreateInterest adds an interest.
func (h *CatalogHandler) CreateInterest(c fiber.Ctx) error {
	var body models.InterestRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	i := &models.Interest{
		Title:            strings.TrimSpace(body.Title),
		ShortDescription: strings.TrimSpace(body.ShortDescription),
	}
	if err := h.db.CreateInterest(c.Context(), i); err != nil {
		return failure(c, err, "create interest")
	}
	return jsonStatus(c, fiber.StatusCreated, i)
}

// UpdateInterest changes an interest's title and description.
func (h *CatalogHandler) UpdateInterest(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid interest id")
	}

	var body models.InterestRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	i := &models.Interest{
		ID:               id,
		Title:            strings.TrimSpace(body.Title),
		ShortDescription: strings.TrimSpace(body.ShortDescription),
	}
	if err := h.db.UpdateInterest(c.Context(), i); err != nil {
		return failure(c, err, "update interest")
	}
	return jsonSuccess(c, i)
}

// DeleteInterest removes an interest and untags its events.
func (h *CatalogHandler) DeleteInterest(c fiber.Ctx) error {
	return h.remove(c, "interest", h.db.DeleteInterest)
}

// Statuses

// ListStatuses returns all statuses.
func (h *CatalogHandler) ListStatuses(c fiber.Ctx) error {
	statuses, err := h.db.ListStatuses(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch statuses")
	}
	return jsonSuccess(c, statuses)
}

// CreateStatus adds a custom status.
func (h *CatalogHandler) CreateStatus(c fiber.Ctx) error {
	var body models.StatusRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	s := &models.Status{Name: strings.TrimSpace(body.Name)}
	if err := h.db.CreateStatus(c.Context(), s); err != nil {
		return failure(c, err, "create status")
	}
	return jsonStatus(c, fiber.StatusCreated, s)
}

// UpdateStatus renames a custom status. Built-in statuses are refused.
func (h *CatalogHandler) UpdateStatus(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid status id")
	}

	var body models.StatusRequest
	if ok, err := decode(c, &body); !ok {
		return err
	}

	s := &models.Status{ID: id, Name: strings.TrimSpace(body.Name)}
	if err := h.db.UpdateStatus(c.Context(), s); err != nil {
		return failure(c, err, "update status")
	}
	return jsonSuccess(c, s)
}

// DeleteStatus removes a custom status that no event uses.
func (h *CatalogHandler) DeleteStatus(c fiber.Ctx) error {
	return h.remove(c, "status", h.db.DeleteStatus)
}

func (h *CatalogHandler) remove(c fiber.Ctx, what string, del func(context.Context, uuid.UUID) error) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid "+what+" id")
	}
	if err := del(c.Context(), id); err != nil {
		return failure(c, err, "delete "+what)
	}
	return jsonSuccess(c, fiber.Map{
		"message": what + " deleted successfully",
	})
}
