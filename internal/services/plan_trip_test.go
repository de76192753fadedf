package services

import (
	"context"
	"math"
	"testing"
	"time"

	"driver-log-service/internal/adapters/distance"
	"driver-log-service/internal/domain"
)

func miles(mi float64) int { return int(mi * metersPerMile) }

func testTrip() *domain.Trip {
	return &domain.Trip{
		TripID:          "t-1",
		StartLocation:   "Phoenix, AZ",
		PickupLocation:  "Tucson, AZ",
		DropoffLocation: "El Paso, TX",
		StartDate:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestPlanTripSingleDayWithPickup(t *testing.T) {
	provider := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "Phoenix, AZ", To: "Tucson, AZ", Meters: miles(110), Seconds: 7200},
		{From: "Tucson, AZ", To: "El Paso, TX", Meters: miles(275), Seconds: 18000},
	})

	res, err := PlanTrip(context.Background(), testTrip(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Estimated {
		t.Fatal("plan flagged estimated with a working provider")
	}

	if len(res.Progress) != 1 {
		t.Fatalf("expected 1 day, got %d", len(res.Progress))
	}
	if math.Abs(res.Summary.DistanceMiles-385) > 0.01 {
		t.Errorf("distance = %v, want ~385", res.Summary.DistanceMiles)
	}
	if res.Summary.FuelStops != 0 {
		t.Errorf("fuel stops = %d, want 0", res.Summary.FuelStops)
	}

	// The day's entries follow the milestone shape: OFF until 08:00, drive to
	// pickup, pickup service, drive to dropoff, dropoff service, OFF.
	wantStatuses := []domain.DutyStatus{
		domain.StatusOffDuty,
		domain.StatusDriving,
		domain.StatusOnDuty,
		domain.StatusDriving,
		domain.StatusOnDuty,
		domain.StatusOffDuty,
	}
	if len(res.Entries) != len(wantStatuses) {
		t.Fatalf("got %d entries, want %d", len(res.Entries), len(wantStatuses))
	}
	for i, want := range wantStatuses {
		if res.Entries[i].Status != want {
			t.Errorf("entry %d status = %v, want %v", i, res.Entries[i].Status, want)
		}
	}

	// Day normalizes cleanly and totals cover 24h.
	tl := domain.Normalize(segmentsOf(res.Entries), res.Progress[0].Date)
	if err := tl.Validate(); err != nil {
		t.Fatalf("planned day does not normalize: %v", err)
	}
	if got := tl.Totals().Sum(); math.Abs(got-24) > 1e-6 {
		t.Errorf("day totals = %v, want 24", got)
	}

	if res.Progress[0].EndLocation != "El Paso, TX" {
		t.Errorf("final day ends at %q, want dropoff", res.Progress[0].EndLocation)
	}
}

func TestPlanTripMultiDayWithFuelStop(t *testing.T) {
	trip := testTrip()
	trip.PickupLocation = ""
	trip.DropoffLocation = "Denver, CO"
	provider := distance.NewMockDistanceProvider([]distance.MockPair{
		{From: "Phoenix, AZ", To: "Denver, CO", Meters: miles(1100), Seconds: 72000},
	})

	res, err := PlanTrip(context.Background(), trip, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Progress) != 3 {
		t.Fatalf("expected 3 days, got %d", len(res.Progress))
	}
	if res.Summary.FuelStops != 1 {
		t.Errorf("fuel stops = %d, want 1", res.Summary.FuelStops)
	}

	// Cumulative miles are monotonically increasing and end at the total.
	prev := 0.0
	for i, p := range res.Progress {
		if p.CumulativeMi < prev {
			t.Errorf("day %d cumulative %v < previous %v", i, p.CumulativeMi, prev)
		}
		prev = p.CumulativeMi
	}
	if math.Abs(prev-res.Summary.DistanceMiles) > 0.01 {
		t.Errorf("final cumulative = %v, want %v", prev, res.Summary.DistanceMiles)
	}

	// Every planned day normalizes into a valid timeline.
	byDay := map[time.Time][]domain.DutySegment{}
	for _, e := range res.Entries {
		byDay[e.SheetDate] = append(byDay[e.SheetDate], e.Segment())
	}
	for day, segs := range byDay {
		if err := domain.Normalize(segs, day).Validate(); err != nil {
			t.Errorf("day %s does not normalize: %v", day.Format("2006-01-02"), err)
		}
	}

	// Days appear in input order with consecutive dates.
	for i := 1; i < len(res.Progress); i++ {
		if got := res.Progress[i].Date.Sub(res.Progress[i-1].Date); got != 24*time.Hour {
			t.Errorf("days %d..%d are %v apart, want 24h", i-1, i, got)
		}
	}
}

func TestPlanTripFallsBackWithoutProvider(t *testing.T) {
	res, err := PlanTrip(context.Background(), testTrip(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Estimated {
		t.Fatal("fallback plan not flagged as estimated")
	}
	if len(res.Entries) == 0 || len(res.Progress) == 0 {
		t.Fatal("fallback plan is empty")
	}
}

func TestFallbackPlanPattern(t *testing.T) {
	trip := testTrip()
	res := FallbackPlan(trip, 800)

	// 800 miles at 8 driving hours/day and 55 mph is two days.
	if len(res.Progress) != 2 {
		t.Fatalf("expected 2 days, got %d", len(res.Progress))
	}

	day := res.Progress[0].Date
	tl := domain.Normalize(segmentsOf(res.Entries[:6]), day)
	if err := tl.Validate(); err != nil {
		t.Fatalf("fallback day does not normalize: %v", err)
	}
	totals := tl.Totals()
	if totals.Driving != 8 || totals.OnDuty != 2 || totals.OffDuty != 14 {
		t.Errorf("fallback totals = %+v, want D=8 ON=2 OFF=14", totals)
	}

	if res.Progress[1].EndLocation != trip.DropoffLocation {
		t.Errorf("last day ends at %q, want dropoff", res.Progress[1].EndLocation)
	}
}

func segmentsOf(entries []domain.LogEntry) []domain.DutySegment {
	segs := make([]domain.DutySegment, 0, len(entries))
	for _, e := range entries {
		segs = append(segs, e.Segment())
	}
	return segs
}
