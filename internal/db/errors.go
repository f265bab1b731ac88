package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Event errors
	ErrEventNotFound    = errors.New("event not found")
	ErrUnknownReference = errors.New("event references an unknown type, interest or status")

	// Catalog errors
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrInterestNotFound  = errors.New("interest not found")
	ErrStatusNotFound    = errors.New("status not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrStatusInUse       = errors.New("status is used by existing events")
	ErrStatusProtected   = errors.New("built-in statuses cannot be changed")
)
