package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamup/internal/config"
	"teamup/internal/db"
	"teamup/internal/events"
	"teamup/internal/models"
	"teamup/internal/validation"
)

// ProfileStore is what the user page reads and writes besides events.
type ProfileStore interface {
	ListEventTypes(ctx context.Context) ([]models.EventType, error)
	ListInterests(ctx context.Context) ([]models.Interest, error)
	UpdateUserProfile(ctx context.Context, user *models.User) error
}

// ProfileHandler handles the signed-in user's page: their events, the
// events they joined, the new event form and their profile.
type ProfileHandler struct {
	svc *events.Service
	db  ProfileStore
	cfg *config.Config
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc *events.Service, database ProfileStore, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{svc: svc, db: database, cfg: cfg}
}

// Show renders the user page.
func (h *ProfileHandler) Show(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	return h.render(c, user, fiber.StatusOK, fiber.Map{})
}

func (h *ProfileHandler) render(c fiber.Ctx, user *models.User, status int, data fiber.Map) error {
	ctx := c.Context()

	mine, err := h.svc.ByAuthor(ctx, user, user.ID)
	if err != nil {
		return err
	}
	joined, err := h.svc.Joined(ctx, user)
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
	data["MyEvents"] = mine
	data["JoinedEvents"] = joined
	data["EventTypes"] = types
	data["Interests"] = interests
	return c.Status(status).Render("user", MergeBranding(data, h.cfg))
}

// CreateEvent handles the new event form. Forbidden words and bad input
// re-render the page with the form filled in.
func (h *ProfileHandler) CreateEvent(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	req, err := eventFromForm(c)
	if err != nil {
		return h.eventFailed(c, user, fiber.StatusBadRequest, req, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return h.eventFailed(c, user, fiber.StatusBadRequest, req, err.Error())
	}

	outcome, err := h.svc.Create(c.Context(), user, req)
	switch {
	case errors.Is(err, events.ErrForbiddenWords), errors.Is(err, events.ErrEventTooOld):
		return h.eventFailed(c, user, fiber.StatusUnprocessableEntity, req, err.Error())
	case errors.Is(err, db.ErrUnknownReference):
		return h.eventFailed(c, user, fiber.StatusBadRequest, req, "unknown event type or interest")
	case err != nil:
		return err
	}

	notice := "published"
	if outcome.Queued() {
		notice = "review"
	}
	return c.Redirect().To("/events/" + outcome.Event.ID.String() + "?notice=" + notice)
}

func (h *ProfileHandler) eventFailed(c fiber.Ctx, user *models.User, status int, req *models.EventRequest, message string) error {
	selected := make(map[uuid.UUID]bool, len(req.InterestIDs))
	for _, id := range req.InterestIDs {
		selected[id] = true
	}
	return h.render(c, user, status, fiber.Map{
		"EventError":        message,
		"EventForm":         req,
		"SelectedInterests": selected,
	})
}

// UpdateProfile saves the profile form.
func (h *ProfileHandler) UpdateProfile(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	age, err := formInt(c, "age")
	if err != nil {
		return h.render(c, user, fiber.StatusBadRequest, fiber.Map{"ProfileError": err.Error()})
	}

	req := models.ProfileRequest{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Login: strings.TrimSpace(c.FormValue("login")),
		City:  strings.TrimSpace(c.FormValue("city")),
		Age:   age,
		About: strings.TrimSpace(c.FormValue("about")),
	}
	if err := validation.Struct(&req); err != nil {
		return h.render(c, user, fiber.StatusBadRequest, fiber.Map{"ProfileError": err.Error()})
	}

	updated := *user
	updated.Name, updated.Login, updated.City = req.Name, req.Login, req.City
	updated.Age, updated.About = req.Age, req.About
	if err := h.db.UpdateUserProfile(c.Context(), &updated); err != nil {
		return err
	}

	return h.render(c, &updated, fiber.StatusOK, fiber.Map{"ProfileNotice": "Profile saved."})
}
