package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"driver-log-service/internal/domain"
)

// ErrTripNotFound reports a lookup for an unknown trip id.
var ErrTripNotFound = errors.New("trip not found")

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

// Store a planned trip, replacing any previous row with the same id.
func (s *SqliteTripRepository) SaveTrip(ctx context.Context, trip *domain.Trip) error {
	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}
	if trip == nil || trip.TripID == "" {
		return errors.New("save trip: trip id is required")
	}

	query := `
	INSERT OR REPLACE INTO trips (
		trip_id, start_location, pickup_location, dropoff_location,
		cycle_hours, property_carry, fuel_interval_mi, service_minutes,
		start_date, distance_miles, duration_hours, fuel_stops,
		arrival_at, estimated, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	var distance, duration sql.NullFloat64
	var fuelStops sql.NullInt64
	var arrival sql.NullString
	if trip.Summary != nil {
		distance = sql.NullFloat64{Float64: trip.Summary.DistanceMiles, Valid: true}
		duration = sql.NullFloat64{Float64: trip.Summary.DurationHours, Valid: true}
		fuelStops = sql.NullInt64{Int64: int64(trip.Summary.FuelStops), Valid: true}
		arrival = sql.NullString{String: trip.Summary.ArrivalAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, query,
		trip.TripID, trip.StartLocation, trip.PickupLocation, trip.DropoffLocation,
		trip.CycleHours, trip.PropertyCarry, trip.FuelIntervalMi, trip.ServiceMinutes,
		trip.StartDate.UTC().Format(time.RFC3339), distance, duration, fuelStops,
		arrival, trip.Estimated, trip.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save trip %s: %w", trip.TripID, err)
	}
	return nil
}

// Retrieve one trip by id.
func (s *SqliteTripRepository) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT
		trip_id, start_location, pickup_location, dropoff_location,
		cycle_hours, property_carry, fuel_interval_mi, service_minutes,
		start_date, distance_miles, duration_hours, fuel_stops,
		arrival_at, estimated, created_at
	FROM trips
	WHERE trip_id = ?;
	`

	var t domain.Trip
	var startDate, createdAt string
	var distance, duration sql.NullFloat64
	var fuelStops sql.NullInt64
	var arrival sql.NullString

	err := s.DB.QueryRowContext(ctx, query, tripID).Scan(
		&t.TripID, &t.StartLocation, &t.PickupLocation, &t.DropoffLocation,
		&t.CycleHours, &t.PropertyCarry, &t.FuelIntervalMi, &t.ServiceMinutes,
		&startDate, &distance, &duration, &fuelStops,
		&arrival, &t.Estimated, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", tripID, ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", tripID, err)
	}

	if t.StartDate, err = parseStoredTime(startDate); err != nil {
		return nil, fmt.Errorf("get trip %s: start_date: %w", tripID, err)
	}
	if t.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return nil, fmt.Errorf("get trip %s: created_at: %w", tripID, err)
	}

	if distance.Valid {
		sum := domain.TripSummary{
			DistanceMiles: distance.Float64,
			DurationHours: duration.Float64,
			FuelStops:     int(fuelStops.Int64),
		}
		if arrival.Valid {
			if sum.ArrivalAt, err = parseStoredTime(arrival.String); err != nil {
				return nil, fmt.Errorf("get trip %s: arrival_at: %w", tripID, err)
			}
		}
		t.Summary = &sum
	}

	return &t, nil
}

// Replace all log entries for a trip in one transaction.
func (s *SqliteTripRepository) ReplaceLogEntries(ctx context.Context, tripID string, entries []domain.LogEntry) error {
	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace log entries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM log_entries WHERE trip_id = ?;`, tripID); err != nil {
		return fmt.Errorf("replace log entries: clear trip %s: %w", tripID, err)
	}

	query := `
	INSERT INTO log_entries (
		trip_id, sheet_date, status, start_at, end_at,
		start_location, end_location, miles_driven, remarks
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("replace log entries: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		_, err := stmt.ExecContext(ctx,
			tripID, e.SheetDate.UTC().Format(time.RFC3339), string(e.Status),
			e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339),
			e.StartLocation, e.EndLocation, e.MilesDriven, e.Remarks,
		)
		if err != nil {
			return fmt.Errorf("replace log entries: insert entry #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace log entries: commit tx: %w", err)
	}
	return nil
}

// Retrieve a trip's log entries ordered by sheet date then start time.
func (s *SqliteTripRepository) ListLogEntries(ctx context.Context, tripID string) ([]domain.LogEntry, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT
		entry_id, trip_id, sheet_date, status, start_at, end_at,
		start_location, end_location, miles_driven, remarks
	FROM log_entries
	WHERE trip_id = ?
	ORDER BY sheet_date, start_at, entry_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("list log entries: query: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LogEntry, 0, 32)
	for rows.Next() {
		var e domain.LogEntry
		var sheetDate, status, start, end string
		if err := rows.Scan(
			&e.EntryID, &e.TripID, &sheetDate, &status, &start, &end,
			&e.StartLocation, &e.EndLocation, &e.MilesDriven, &e.Remarks,
		); err != nil {
			return nil, fmt.Errorf("list log entries: scan row: %w", err)
		}
		if e.Status, err = domain.ParseDutyStatus(status); err != nil {
			return nil, fmt.Errorf("list log entries: entry %d: %w", e.EntryID, err)
		}
		if e.SheetDate, err = parseStoredTime(sheetDate); err != nil {
			return nil, fmt.Errorf("list log entries: entry %d: sheet_date: %w", e.EntryID, err)
		}
		if e.Start, err = parseStoredTime(start); err != nil {
			return nil, fmt.Errorf("list log entries: entry %d: start_at: %w", e.EntryID, err)
		}
		if e.End, err = parseStoredTime(end); err != nil {
			return nil, fmt.Errorf("list log entries: entry %d: end_at: %w", e.EntryID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list log entries: row iteration: %w", err)
	}

	return entries, nil
}

// Replace a trip's daily progress rows.
func (s *SqliteTripRepository) ReplaceDailyProgress(ctx context.Context, tripID string, progress []domain.DailyProgress) error {
	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace daily progress: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_progress WHERE trip_id = ?;`, tripID); err != nil {
		return fmt.Errorf("replace daily progress: clear trip %s: %w", tripID, err)
	}

	query := `
	INSERT INTO daily_progress (
		trip_id, progress_date, start_location, end_location,
		daily_miles, cumulative_miles, driving_hours
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("replace daily progress: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range progress {
		_, err := stmt.ExecContext(ctx,
			tripID, p.Date.UTC().Format(time.RFC3339), p.StartLocation, p.EndLocation,
			p.DailyMiles, p.CumulativeMi, p.DrivingHours,
		)
		if err != nil {
			return fmt.Errorf("replace daily progress: insert row #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace daily progress: commit tx: %w", err)
	}
	return nil
}

// Retrieve a trip's daily progress rows in day order.
func (s *SqliteTripRepository) ListDailyProgress(ctx context.Context, tripID string) ([]domain.DailyProgress, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT
		progress_date, start_location, end_location,
		daily_miles, cumulative_miles, driving_hours
	FROM daily_progress
	WHERE trip_id = ?
	ORDER BY progress_date;
	`
	rows, err := s.DB.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("list daily progress: query: %w", err)
	}
	defer rows.Close()

	progress := make([]domain.DailyProgress, 0, 8)
	for rows.Next() {
		var p domain.DailyProgress
		var date string
		if err := rows.Scan(
			&date, &p.StartLocation, &p.EndLocation,
			&p.DailyMiles, &p.CumulativeMi, &p.DrivingHours,
		); err != nil {
			return nil, fmt.Errorf("list daily progress: scan row: %w", err)
		}
		if p.Date, err = parseStoredTime(date); err != nil {
			return nil, fmt.Errorf("list daily progress: progress_date: %w", err)
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list daily progress: row iteration: %w", err)
	}

	return progress, nil
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}
