package models

import (
	"time"

	"github.com/google/uuid"
)

// EventRequest is the JSON body for creating or updating an event.
type EventRequest struct {
	Name        string      `json:"name" validate:"notblank,max=200"`
	Description string      `json:"description" validate:"notblank,max=5000"`
	Place       string      `json:"place" validate:"notblank,max=200"`
	Time        time.Time   `json:"time" validate:"required"`
	EventTypeID *uuid.UUID  `json:"event_type_id"`
	InterestIDs []uuid.UUID `json:"interest_ids" validate:"max=20"`
}

// EventSubmitResponse is returned after an event is created or updated.
// Status tells the client whether the event went live or waits for review.
type EventSubmitResponse struct {
	Event          *Event `json:"event"`
	Classification string `json:"classification"`
	Message        string `json:"message"`
}

// ContentCheckRequest asks for a classification without storing anything.
type ContentCheckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ReviewRequest carries an optional rejection reason.
type ReviewRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// RegisterRequest is the body of a self-service registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"notblank,max=100"`
	Login    string `json:"login" validate:"omitempty,login"`
	City     string `json:"city" validate:"max=100"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	About    string `json:"about" validate:"max=1000"`
}

// ProfileRequest is the self-service profile form.
type ProfileRequest struct {
	Name  string `json:"name" validate:"notblank,max=100"`
	Login string `json:"login" validate:"omitempty,login"`
	City  string `json:"city" validate:"max=100"`
	Age   int    `json:"age" validate:"gte=0,lte=150"`
	About string `json:"about" validate:"max=1000"`
}

// LoginRequest is the body of a password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserRequest is the admin body for creating or updating a user.
// Password is required on create and optional on update.
type UserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Name     string `json:"name" validate:"notblank,max=100"`
	Login    string `json:"login" validate:"omitempty,login"`
	City     string `json:"city" validate:"max=100"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	About    string `json:"about" validate:"max=1000"`
	Role     string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// RoleRequest changes a user's role.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// EventTypeRequest creates or renames an event type.
type EventTypeRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

// InterestRequest creates or updates an interest.
type InterestRequest struct {
	Title            string `json:"title" validate:"notblank,max=100"`
	ShortDescription string `json:"short_description" validate:"max=500"`
}

// StatusRequest creates or renames a custom status.
type StatusRequest struct {
	Name string `json:"name" validate:"notblank,max=50"`
}
