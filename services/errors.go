package services

import (
	"errors"

	"survivor-league/database"
)

// Sentinel errors returned by services. Handlers map them to HTTP statuses.
var (
	ErrNotFound     = database.ErrNotFound
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrLocked means the weekly lock time has passed
	ErrLocked = errors.New("pick'em submissions are locked")
	// ErrScored means at least one market has already been scored
	ErrScored = errors.New("pick'em market already scored")
)
