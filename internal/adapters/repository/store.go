// Package repository defines the telemetry event log interface and errors.
package repository

import (
	"context"

	"github.com/okian/bureau/internal/domain/model"
)

// Store provides append-only access to the telemetry event log. Records are
// never mutated or deleted; a subject's history only grows.
type Store interface {
	// Append adds one event record to the log.
	Append(ctx context.Context, event model.EventRecord) error

	// EventsOf returns a copy of all records for a subject, in append order.
	// An unknown subject yields an empty slice, not an error: a subject
	// without events is a valid baseline subject.
	EventsOf(ctx context.Context, subjectID string) ([]model.EventRecord, error)

	// Subjects returns the ids of every subject with at least one record.
	Subjects(ctx context.Context) []string

	// Count returns the total number of records in the log.
	Count(ctx context.Context) int
}
