package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"driver-log-service/internal/domain"
	"driver-log-service/internal/ports"
)

// ErrInvalidTrip reports trip input the planner cannot work with.
var ErrInvalidTrip = errors.New("invalid trip")

// CreateTripRequest carries the validated form input for a new trip.
type CreateTripRequest struct {
	StartLocation   string
	PickupLocation  string
	DropoffLocation string
	CycleHours      float64
	PropertyCarry   bool
	FuelIntervalMi  int
	ServiceMinutes  int
	StartDate       time.Time
}

// CreateTrip plans a new trip and persists the trip, its duty-log entries,
// and its daily progress rows. The planner's fallback keeps creation
// working when the distance provider is unavailable; the stored trip is
// flagged estimated in that case.
func CreateTrip(
	ctx context.Context,
	req CreateTripRequest,
	repo ports.TripRepository,
	provider ports.DistanceProvider,
) (*domain.Trip, error) {
	if strings.TrimSpace(req.StartLocation) == "" ||
		strings.TrimSpace(req.PickupLocation) == "" ||
		strings.TrimSpace(req.DropoffLocation) == "" {
		return nil, fmt.Errorf("%w: start, pickup and dropoff locations are required", ErrInvalidTrip)
	}

	trip := &domain.Trip{
		TripID:          uuid.NewString(),
		StartLocation:   strings.TrimSpace(req.StartLocation),
		PickupLocation:  strings.TrimSpace(req.PickupLocation),
		DropoffLocation: strings.TrimSpace(req.DropoffLocation),
		CycleHours:      req.CycleHours,
		PropertyCarry:   req.PropertyCarry,
		FuelIntervalMi:  req.FuelIntervalMi,
		ServiceMinutes:  req.ServiceMinutes,
		StartDate:       domain.DayStart(req.StartDate),
		CreatedAt:       time.Now().UTC(),
	}

	plan, err := PlanTrip(ctx, trip, provider)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	trip.Summary = &plan.Summary
	trip.Estimated = plan.Estimated

	if err := repo.SaveTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	if err := repo.ReplaceLogEntries(ctx, trip.TripID, plan.Entries); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	if err := repo.ReplaceDailyProgress(ctx, trip.TripID, plan.Progress); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	return trip, nil
}

// LoadTripSheets retrieves a stored trip and rebuilds its daily sheets from
// the persisted log entries and progress rows.
func LoadTripSheets(
	ctx context.Context,
	tripID string,
	repo ports.TripRepository,
	carrierName string,
	truckNumber string,
) (*domain.Trip, []domain.DailySheet, error) {
	trip, err := repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("load trip sheets: %w", err)
	}

	entries, err := repo.ListLogEntries(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("load trip sheets: %w", err)
	}
	progress, err := repo.ListDailyProgress(ctx, tripID)
	if err != nil {
		return nil, nil, fmt.Errorf("load trip sheets: %w", err)
	}

	meta := domain.TripMeta{
		Origin:      trip.StartLocation,
		Destination: trip.DropoffLocation,
		StartDate:   trip.StartDate,
		CarrierName: carrierName,
		TruckNumber: truckNumber,
	}
	if trip.Summary != nil {
		meta.DistanceMiles = trip.Summary.DistanceMiles
	}

	sheets, err := BuildTripSheets(meta, entries, progress)
	if err != nil {
		return nil, nil, fmt.Errorf("load trip sheets: %w", err)
	}

	return trip, sheets, nil
}
