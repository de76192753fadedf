package ports

import (
	"context"

	"driver-log-service/internal/domain"
)

// Port: a boundary for persisting trips and their duty-log entries.
type TripRepository interface {
	// Store a planned trip.
	SaveTrip(ctx context.Context, trip *domain.Trip) error
	// Retrieve one trip by id.
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	// Replace all log entries for a trip in one transaction.
	ReplaceLogEntries(ctx context.Context, tripID string, entries []domain.LogEntry) error
	// Retrieve a trip's log entries ordered by sheet date then start time.
	ListLogEntries(ctx context.Context, tripID string) ([]domain.LogEntry, error)
	// Retrieve a trip's daily progress rows in day order.
	ListDailyProgress(ctx context.Context, tripID string) ([]domain.DailyProgress, error)
	// Replace a trip's daily progress rows.
	ReplaceDailyProgress(ctx context.Context, tripID string, rows []domain.DailyProgress) error
}
