package service

import "errors"

// Sentinel errors shared across services; handlers map these to HTTP statuses.
var (
	// ErrNotFound signals a missing cycle, user, mentor or consolidated view.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals a malformed composite id or an empty update payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden signals a mentor candidate without the required user type.
	ErrForbidden = errors.New("forbidden")
)
