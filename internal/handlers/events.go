package handlers

import (
	"github.com/gofiber/fiber/v3"

	"teamup/internal/config"
	"teamup/internal/events"
	"teamup/internal/middleware"
	"teamup/internal/models"
)

// notices shown on the event page after a redirect.
var notices = map[string]string{
	"published": "Your event is live.",
	"review":    "Your event was sent to a moderator for review.",
	"joined":    "You joined this event.",
	"left":      "You left this event.",
}

// EventHandler serves the public event pages.
type EventHandler struct {
	svc *events.Service
	cfg *config.Config
}

// NewEventHandler creates a new event page handler.
func NewEventHandler(svc *events.Service, cfg *config.Config) *EventHandler {
	return &EventHandler{svc: svc, cfg: cfg}
}

// Index renders the welcome page with published events, optionally
// filtered by name.
func (h *EventHandler) Index(c fiber.Ctx) error {
	query := c.Query("q", "")

	var list []models.Event
	var err error
	if query != "" {
		list, err = h.svc.SearchByName(c.Context(), query)
	} else {
		list, err = h.svc.Published(c.Context())
	}
	if err != nil {
		return err
	}

	// If HTMX request, return just the list
	if c.Get("HX-Request") == "true" {
		return c.Render("partials/events_list", fiber.Map{
			"Events": list,
		}, "")
	}

	return c.Render("welcome", MergeBranding(fiber.Map{
		"User":   middleware.CurrentUser(c),
		"Events": list,
		"Query":  query,
	}, h.cfg))
}

// Show renders an event page.
func (h *EventHandler) Show(c fiber.Ctx) error {
	id, err := paramID(c, "event")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	event, err := h.svc.Get(c.Context(), user, id)
	if err != nil {
		return pageError(err)
	}

	data := fiber.Map{
		"User":   user,
		"Event":  event,
		"Notice": notices[c.Query("notice")],
	}
	if user != nil {
		data["IsAuthor"] = event.AuthorID == user.ID
		data["Joined"] = event.HasParticipant(user.ID)
		data["CanJoin"] = event.IsPublished() && !event.HasParticipant(user.ID)
		data["CanDelete"] = event.AuthorID == user.ID || user.IsAdmin()
	}

	return c.Render("event", MergeBranding(data, h.cfg))
}

// Join adds the signed-in user to an event.
func (h *EventHandler) Join(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "event")
	if err != nil {
		return err
	}

	if _, err := h.svc.Join(c.Context(), user, id); err != nil {
		return pageError(err)
	}
	return c.Redirect().To("/events/" + id.String() + "?notice=joined")
}

// Leave removes the signed-in user from an event.
func (h *EventHandler) Leave(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "event")
	if err != nil {
		return err
	}

	if _, err := h.svc.Leave(c.Context(), user, id); err != nil {
		return pageError(err)
	}
	return c.Redirect().To("/events/" + id.String() + "?notice=left")
}

// Delete removes an event and returns to the user's page.
func (h *EventHandler) Delete(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "event")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Context(), user, id); err != nil {
		return pageError(err)
	}
	return c.Redirect().To(user.HomePath())
}
