package domain

import "time"

// Trip is a planned multi-day driving trip.
// Route summary and daily progress are populated by the planner after the
// trip has been created.
type Trip struct {
	TripID          string
	StartLocation   string
	PickupLocation  string
	DropoffLocation string
	CycleHours      float64
	PropertyCarry   bool
	FuelIntervalMi  int
	ServiceMinutes  int
	StartDate       time.Time
	Summary         *TripSummary
	Estimated       bool
	CreatedAt       time.Time
}

// TripSummary describes the planned route at trip level.
type TripSummary struct {
	DistanceMiles float64
	DurationHours float64
	FuelStops     int
	ArrivalAt     time.Time
}

// TripMeta carries the trip-level constants shared by every daily sheet of
// one export. Read-only during rendering.
type TripMeta struct {
	Origin        string
	Destination   string
	DistanceMiles float64
	StartDate     time.Time
	CarrierName   string
	TruckNumber   string
}

// LogEntry is one persisted duty-status record of a trip's log.
// Times are clock times within SheetDate (UTC).
type LogEntry struct {
	EntryID       int64
	TripID        string
	SheetDate     time.Time
	Status        DutyStatus
	Start         time.Time
	End           time.Time
	StartLocation string
	EndLocation   string
	MilesDriven   float64
	Remarks       string
}

// Segment converts the entry to a raw duty segment for normalization.
func (e LogEntry) Segment() DutySegment {
	return DutySegment{Status: e.Status, Start: e.Start, End: e.End}
}

// DailyProgress summarizes one day's travel for the sheet header.
type DailyProgress struct {
	Date          time.Time
	StartLocation string
	EndLocation   string
	DailyMiles    float64
	CumulativeMi  float64
	DrivingHours  float64
}
