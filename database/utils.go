package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by repositories when no document matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate")

// Common timeout durations for database operations
const (
	// ShortTimeout for single-document reads and writes
	ShortTimeout = 5 * time.Second

	// MediumTimeout for queries returning many documents
	MediumTimeout = 10 * time.Second

	// LongTimeout for bulk writes and index builds
	LongTimeout = 30 * time.Second

	// VeryLongTimeout for backups
	VeryLongTimeout = 5 * time.Minute
)

// WithShortTimeout derives a ShortTimeout context from parent
func WithShortTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ShortTimeout)
}

// WithMediumTimeout derives a MediumTimeout context from parent
func WithMediumTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, MediumTimeout)
}

// WithLongTimeout derives a LongTimeout context from parent
func WithLongTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, LongTimeout)
}

// WithVeryLongTimeout derives a VeryLongTimeout context from parent
func WithVeryLongTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, VeryLongTimeout)
}

// notFound maps mongo.ErrNoDocuments to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
