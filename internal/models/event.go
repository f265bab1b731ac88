package models

import (
	"time"

	"github.com/google/uuid"
)

// Event status constants. Statuses live in their own table so admins can
// add more, but these four drive the event workflow.
const (
	StatusPublished = "published"
	StatusOnReview  = "on_review"
	StatusRejected  = "rejected"
	StatusFinished  = "finished"
)

// Event is a meetup created by a user.
type Event struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Place          string      `json:"place"`
	Time           time.Time   `json:"time"`
	EventTypeID    *uuid.UUID  `json:"event_type_id"`
	AuthorID       uuid.UUID   `json:"author_id"`
	Status         string      `json:"status"`
	InterestIDs    []uuid.UUID `json:"interest_ids"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	ReviewedBy     *uuid.UUID  `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time  `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsPublished returns true if the event is visible to everyone.
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsOnReview returns true if the event waits for a moderator.
func (e *Event) IsOnReview() bool {
	return e.Status == StatusOnReview
}

// HasParticipant returns true if userID has joined the event.
func (e *Event) HasParticipant(userID uuid.UUID) bool {
	for _, id := range e.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EventType is a category of event (conference, hike, board games...).
type EventType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Interest is a topic users and events can be tagged with.
type Interest struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
}

// Status is a row of the statuses table.
type Status struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// StatusCount is the number of events in one status.
type StatusCount struct {
	Status string
	Count  int64
}
