// Package handlers serves the server-rendered pages.
package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamup/internal/db"
	"teamup/internal/events"
	"teamup/internal/middleware"
	"teamup/internal/models"
)

// formTimeLayout is the value format of <input type="datetime-local">.
const formTimeLayout = "2006-01-02T15:04"

// TemplateFuncs are the helpers available in every view.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"formtime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(formTimeLayout)
		},
		"datetime": func(t time.Time) string {
			return t.Format("Mon, 02 Jan 2006 15:04")
		},
		// dict builds the data map for a nested template call.
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, errors.New("dict needs key/value pairs")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, errors.New("dict keys must be strings")
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
	}
}

// requireUser returns the signed-in user or a 401.
func requireUser(c fiber.Ctx) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}

// paramID parses a uuid route parameter or returns a 400.
func paramID(c fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+what+" id")
	}
	return id, nil
}

// eventFromForm reads an event form.
func eventFromForm(c fiber.Ctx) (*models.EventRequest, error) {
	req := &models.EventRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Place:       c.FormValue("place"),
	}

	if raw := c.FormValue("time"); raw != "" {
		t, err := time.ParseInLocation(formTimeLayout, raw, time.Local)
		if err != nil {
			return req, errors.New("time must look like 2024-05-01T18:30")
		}
		req.Time = t
	}

	if raw := c.FormValue("event_type_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return req, errors.New("invalid event type")
		}
		req.EventTypeID = &id
	}

	// One value per checked interest box.
	for _, raw := range c.Request().PostArgs().PeekMulti("interest_ids") {
		id, err := uuid.ParseBytes(raw)
		if err != nil {
			return req, errors.New("invalid interest")
		}
		req.InterestIDs = append(req.InterestIDs, id)
	}

	return req, nil
}

// formInt parses an optional integer form field.
func formInt(c fiber.Ctx, key string) (int, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be a number")
	}
	return n, nil
}

// pageError maps store and workflow errors to an HTTP error page.
func pageError(err error) error {
	switch {
	case errors.Is(err, db.ErrEventNotFound), errors.Is(err, events.ErrNotPublished):
		return fiber.NewError(fiber.StatusNotFound, "event not found")
	case errors.Is(err, db.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	case errors.Is(err, events.ErrNotAllowed):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, events.ErrNotOnReview), errors.Is(err, events.ErrEventFinished),
		errors.Is(err, events.ErrEventRejected), errors.Is(err, events.ErrNotJoinable):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, events.ErrForbiddenWords), errors.Is(err, events.ErrEventTooOld):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return err
}
