package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"driver-log-service/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func sampleTrip() *domain.Trip {
	return &domain.Trip{
		TripID:          "trip-1",
		StartLocation:   "Phoenix, AZ",
		PickupLocation:  "Tucson, AZ",
		DropoffLocation: "El Paso, TX",
		CycleHours:      12.5,
		FuelIntervalMi:  1000,
		ServiceMinutes:  60,
		StartDate:       time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		Summary: &domain.TripSummary{
			DistanceMiles: 385,
			DurationHours: 7,
			FuelStops:     0,
			ArrivalAt:     time.Date(2025, time.March, 3, 17, 0, 0, 0, time.UTC),
		},
		CreatedAt: time.Date(2025, time.March, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestTripRoundTrip(t *testing.T) {
	repo := NewSqliteTripRepository(openTestDB(t))
	ctx := context.Background()

	want := sampleTrip()
	if err := repo.SaveTrip(ctx, want); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	got, err := repo.GetTrip(ctx, "trip-1")
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.DropoffLocation != want.DropoffLocation || got.CycleHours != want.CycleHours {
		t.Errorf("trip fields lost: %+v", got)
	}
	if got.Summary == nil || got.Summary.DistanceMiles != 385 {
		t.Errorf("summary lost: %+v", got.Summary)
	}
	if !got.Summary.ArrivalAt.Equal(want.Summary.ArrivalAt) {
		t.Errorf("arrival = %v, want %v", got.Summary.ArrivalAt, want.Summary.ArrivalAt)
	}
	if !got.StartDate.Equal(want.StartDate) {
		t.Errorf("start date = %v, want %v", got.StartDate, want.StartDate)
	}
}

func TestGetTripNotFound(t *testing.T) {
	repo := NewSqliteTripRepository(openTestDB(t))
	if _, err := repo.GetTrip(context.Background(), "nope"); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("err = %v, want ErrTripNotFound", err)
	}
}

func TestSaveTripIsUpsert(t *testing.T) {
	repo := NewSqliteTripRepository(openTestDB(t))
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.SaveTrip(ctx, trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	trip.Estimated = true
	trip.Summary = nil
	if err := repo.SaveTrip(ctx, trip); err != nil {
		t.Fatalf("SaveTrip again: %v", err)
	}

	got, err := repo.GetTrip(ctx, trip.TripID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if !got.Estimated {
		t.Error("estimated flag not updated")
	}
	if got.Summary != nil {
		t.Errorf("summary should be cleared, got %+v", got.Summary)
	}
}

func TestReplaceAndListLogEntries(t *testing.T) {
	repo := NewSqliteTripRepository(openTestDB(t))
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.SaveTrip(ctx, trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	day := trip.StartDate
	first := []domain.LogEntry{
		{SheetDate: day, Status: domain.StatusOffDuty, Start: day, End: day.Add(8 * time.Hour)},
		{SheetDate: day, Status: domain.StatusDriving, Start: day.Add(8 * time.Hour), End: day.Add(15 * time.Hour), MilesDriven: 385, Remarks: "Drive to dropoff"},
	}
	if err := repo.ReplaceLogEntries(ctx, trip.TripID, first); err != nil {
		t.Fatalf("ReplaceLogEntries: %v", err)
	}

	// A second replace fully supersedes the first set.
	second := append(first, domain.LogEntry{
		SheetDate: day, Status: domain.StatusOnDuty, Start: day.Add(15 * time.Hour), End: day.Add(16 * time.Hour),
	})
	if err := repo.ReplaceLogEntries(ctx, trip.TripID, second); err != nil {
		t.Fatalf("ReplaceLogEntries again: %v", err)
	}

	got, err := repo.ListLogEntries(ctx, trip.TripID)
	if err != nil {
		t.Fatalf("ListLogEntries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Start.Before(got[i-1].Start) {
			t.Errorf("entries out of order at %d", i)
		}
	}
	if got[1].Remarks != "Drive to dropoff" || got[1].MilesDriven != 385 {
		t.Errorf("entry fields lost: %+v", got[1])
	}
	if got[1].Status != domain.StatusDriving {
		t.Errorf("status = %s, want %s", got[1].Status, domain.StatusDriving)
	}
}

func TestReplaceAndListDailyProgress(t *testing.T) {
	repo := NewSqliteTripRepository(openTestDB(t))
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.SaveTrip(ctx, trip); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}

	d1 := trip.StartDate
	rows := []domain.DailyProgress{
		{Date: d1.AddDate(0, 0, 1), StartLocation: "En route, mile 440", EndLocation: "El Paso, TX", DailyMiles: 110, CumulativeMi: 550},
		{Date: d1, StartLocation: "Phoenix, AZ", EndLocation: "En route, mile 440", DailyMiles: 440, CumulativeMi: 440},
	}
	if err := repo.ReplaceDailyProgress(ctx, trip.TripID, rows); err != nil {
		t.Fatalf("ReplaceDailyProgress: %v", err)
	}

	got, err := repo.ListDailyProgress(ctx, trip.TripID)
	if err != nil {
		t.Fatalf("ListDailyProgress: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if !got[0].Date.Equal(d1) {
		t.Errorf("rows not in day order: first = %v", got[0].Date)
	}
	if got[1].CumulativeMi != 550 {
		t.Errorf("cumulative = %v, want 550", got[1].CumulativeMi)
	}
}
