package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"teamup/internal/db"
	"teamup/internal/events"
	"teamup/internal/validation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return jsonStatus(c, fiber.StatusOK, data)
}

// jsonStatus returns data in the standard envelope with a custom status code.
func jsonStatus(c fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// paramID parses a uuid route parameter.
func paramID(c fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// decode unmarshals the request body into v and validates it. When ok is
// false a 400 has been written and the handler must return err as is.
func decode(c fiber.Ctx, v any) (ok bool, err error) {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return false, jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(v); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  verrs.Error(),
				"fields": verrs,
			})
		}
		return false, jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return true, nil
}

// failure maps store and workflow errors to a JSON error response. action
// names what was being done, for the 500 message.
func failure(c fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, events.ErrForbiddenWords), errors.Is(err, events.ErrEventTooOld):
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, events.ErrNotAllowed):
		return jsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, events.ErrNotOnReview), errors.Is(err, events.ErrEventFinished),
		errors.Is(err, events.ErrEventRejected), errors.Is(err, events.ErrNotJoinable):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, events.ErrNotPublished), errors.Is(err, db.ErrEventNotFound):
		// Hidden events look missing.
		return jsonError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, db.ErrUserNotFound):
		return jsonError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, db.ErrEventTypeNotFound):
		return jsonError(c, fiber.StatusNotFound, "event type not found")
	case errors.Is(err, db.ErrInterestNotFound):
		return jsonError(c, fiber.StatusNotFound, "interest not found")
	case errors.Is(err, db.ErrStatusNotFound):
		return jsonError(c, fiber.StatusNotFound, "status not found")
	case errors.Is(err, db.ErrUnknownReference):
		return jsonError(c, fiber.StatusBadRequest, "unknown event type or interest")
	case errors.Is(err, db.ErrDuplicateEmail):
		return jsonError(c, fiber.StatusConflict, "a user with this email already exists")
	case errors.Is(err, db.ErrDuplicateName):
		return jsonError(c, fiber.StatusConflict, "an entry with this name already exists")
	case errors.Is(err, db.ErrStatusInUse):
		return jsonError(c, fiber.StatusConflict, "status is still used by events")
	case errors.Is(err, db.ErrStatusProtected):
		return jsonError(c, fiber.StatusForbidden, "built-in statuses cannot be changed")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "failed to "+action)
	}
}
