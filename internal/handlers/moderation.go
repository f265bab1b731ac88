package handlers

import (
	"github.com/gofiber/fiber/v3"

	"teamup/internal/config"
	"teamup/internal/events"
	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

// PendingEvent is an event waiting for review together with the reason
// it was queued.
type PendingEvent struct {
	models.Event
	Verdict wordfilter.Verdict
}

// ModerationHandler handles event moderation pages.
type ModerationHandler struct {
	svc    *events.Service
	filter *wordfilter.Filter
	cfg    *config.Config
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(svc *events.Service, filter *wordfilter.Filter, cfg *config.Config) *ModerationHandler {
	return &ModerationHandler{svc: svc, filter: filter, cfg: cfg}
}

func (h *ModerationHandler) pending(c fiber.Ctx) ([]PendingEvent, error) {
	list, err := h.svc.Pending(c.Context())
	if err != nil {
		return nil, err
	}
	out := make([]PendingEvent, len(list))
	for i, e := range list {
		// Inspect rather than Check: re-reading the queue is not a new submission.
		out[i] = PendingEvent{Event: e, Verdict: h.filter.Inspect(e.Name, e.Description)}
	}
	return out, nil
}

// Home renders the moderator landing page.
func (h *ModerationHandler) Home(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	pending, err := h.pending(c)
	if err != nil {
		return err
	}
	mine, err := h.svc.ByAuthor(c.Context(), user, user.ID)
	if err != nil {
		return err
	}

	return c.Render("moderator", MergeBranding(fiber.Map{
		"User":         user,
		"PendingCount": len(pending),
		"MyEvents":     mine,
	}, h.cfg))
}

// Index renders the moderation dashboard.
func (h *ModerationHandler) Index(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	pending, err := h.pending(c)
	if err != nil {
		return err
	}

	return c.Render("moderation", MergeBranding(fiber.Map{
		"User":    user,
		"Pending": pending,
	}, h.cfg))
}

// Approve publishes a pending event.
func (h *ModerationHandler) Approve(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "event")
	if err != nil {
		return err
	}

	event, err := h.svc.Approve(c.Context(), user, eventID)
	if err != nil {
		return pageError(err)
	}

	return h.done(c, "approved", event)
}

// Reject refuses a pending event.
func (h *ModerationHandler) Reject(c fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	eventID, err := paramID(c, "event")
	if err != nil {
		return err
	}

	reason := c.FormValue("reason") // Optional rejection reason
	event, err := h.svc.Reject(c.Context(), user, eventID, reason)
	if err != nil {
		return pageError(err)
	}

	return h.done(c, "rejected", event)
}

// done answers HTMX with a partial that replaces the queue row, and
// plain form posts with a redirect back to the queue.
func (h *ModerationHandler) done(c fiber.Ctx, action string, event *models.Event) error {
	if c.Get("HX-Request") == "true" {
		return c.Render("partials/moderation_success", fiber.Map{
			"Action": action,
			"Name":   event.Name,
		}, "")
	}
	return c.Redirect().To("/moderation")
}
