package events

import "errors"

// Workflow error sentinels. Handlers map them to HTTP statuses.
var (
	ErrForbiddenWords = errors.New("event name or description contains forbidden words")
	ErrEventTooOld    = errors.New("event date is too far in the past")
	ErrNotAllowed     = errors.New("not allowed to change this event")
	ErrNotPublished   = errors.New("event is not published")
	ErrNotOnReview    = errors.New("event is not waiting for review")
	ErrEventFinished  = errors.New("event has already finished")
	ErrEventRejected  = errors.New("event was rejected by a moderator")
	ErrNotJoinable    = errors.New("only published events can be joined")
)
