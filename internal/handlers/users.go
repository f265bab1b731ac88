package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamup/internal/config"
	"teamup/internal/db"
	"teamup/internal/models"
)

// AdminStore is the persistence behind the admin page.
type AdminStore interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CountEventsByStatus(ctx context.Context) ([]models.StatusCount, error)
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	CreateEventType(ctx context.Context, t *models.EventType) error
	ListInterests(ctx context.Context) ([]models.Interest, error)
	CreateInterest(ctx context.Context, i *models.Interest) error
}

// UserHandler handles the admin page: users, roles, event counts and the
// event type and interest catalogs. Every route is behind RequireAdmin.
type UserHandler struct {
	db  AdminStore
	cfg *config.Config
}

// NewUserHandler creates a new user handler.
func NewUserHandler(database AdminStore, cfg *config.Config) *UserHandler {
	return &UserHandler{db: database, cfg: cfg}
}

// Index renders the admin page.
func (h *UserHandler) Index(c fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, fiber.Map{})
}

func (h *UserHandler) render(c fiber.Ctx, status int, data fiber.Map) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Context()

	users, err := h.db.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	counts, err := h.db.CountEventsByStatus(ctx)
	if err != nil {
		return err
	}
	types, err := h.db.ListEventTypes(ctx)
	if err != nil {
		return err
	}
	interests, err := h.db.ListInterests(ctx)
	if err != nil {
		return err
	}

	data["User"] = user
	data["Users"] = users
	data["StatusCounts"] = counts
	data["EventTypes"] = types
	data["Interests"] = interests
	data["Roles"] = models.Roles
	return c.Status(status).Render("admin", MergeBranding(data, h.cfg))
}

// UpdateUserRole updates a user's role.
func (h *UserHandler) UpdateUserRole(c fiber.Ctx) error {
	currentUser, err := requireUser(c)
	if err != nil {
		return err
	}

	userID, err := paramID(c, "user")
	if err != nil {
		return err
	}

	role := c.FormValue("role")
	if !models.ValidRole(role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	// Prevent admins from demoting themselves
	if userID == currentUser.ID && role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusBadRequest, "cannot change your own role")
	}

	if err := h.db.UpdateUserRole(c.Context(), userID, role); err != nil {
		return pageError(err)
	}

	return c.Redirect().To("/admin")
}

// DeleteUser deletes a user and their events.
func (h *UserHandler) DeleteUser(c fiber.Ctx) error {
	currentUser, err := requireUser(c)
	if err != nil {
		return err
	}

	userID, err := paramID(c, "user")
	if err != nil {
		return err
	}

	// Prevent admins from deleting themselves
	if userID == currentUser.ID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.db.DeleteUser(c.Context(), userID); err != nil {
		return pageError(err)
	}

	// HTMX removes the row itself.
	if c.Get("HX-Request") == "true" {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect().To("/admin")
}

// CreateEventType adds an event type from the admin page.
func (h *UserHandler) CreateEventType(c fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return h.render(c, fiber.StatusBadRequest, fiber.Map{"CatalogError": "event type name is required"})
	}

	if err := h.db.CreateEventType(c.Context(), &models.EventType{Name: name}); err != nil {
		if errors.Is(err, db.ErrDuplicateName) {
			return h.render(c, fiber.StatusConflict, fiber.Map{"CatalogError": "event type " + name + " already exists"})
		}
		return err
	}
	return c.Redirect().To("/admin")
}

// CreateInterest adds an interest from the admin page.
func (h *UserHandler) CreateInterest(c fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return h.render(c, fiber.StatusBadRequest, fiber.Map{"CatalogError": "interest title is required"})
	}

	interest := &models.Interest{
		Title:            title,
		ShortDescription: strings.TrimSpace(c.FormValue("short_description")),
	}
	if err := h.db.CreateInterest(c.Context(), interest); err != nil {
		if errors.Is(err, db.ErrDuplicateName) {
			return h.render(c, fiber.StatusConflict, fiber.Map{"CatalogError": "interest " + title + " already exists"})
		}
		return err
	}
	return c.Redirect().To("/admin")
}
