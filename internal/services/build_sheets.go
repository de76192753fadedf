package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"driver-log-service/internal/domain"
)

// BuildSheet assembles the render input for one trip day: it normalizes the
// day's raw duty segments, aggregates per-status totals, and attaches the
// day's progress row and the shared trip constants.
//
// Each call is independent and idempotent for the same inputs; nothing
// trip-level is mutated.
func BuildSheet(day time.Time, raw []domain.DutySegment, meta domain.TripMeta, progress domain.DailyProgress) domain.DailySheet {
	tl := domain.Normalize(raw, day)
	return domain.DailySheet{
		Date:          domain.DayStart(day),
		StartLocation: progress.StartLocation,
		EndLocation:   progress.EndLocation,
		DailyMiles:    progress.DailyMiles,
		CumulativeMi:  progress.CumulativeMi,
		Timeline:      tl,
		Totals:        tl.Totals(),
		Meta:          meta,
	}
}

// BuildTripSheets groups a trip's log entries by sheet date and builds one
// daily sheet per progress row, in day order. Days present in the progress
// sequence but missing from the entries still yield a sheet (a full-day OFF
// timeline) rather than a hole in the export.
func BuildTripSheets(meta domain.TripMeta, entries []domain.LogEntry, progress []domain.DailyProgress) ([]domain.DailySheet, error) {
	if len(progress) == 0 {
		return nil, errors.New("build trip sheets: at least one day of progress is required")
	}

	byDay := make(map[time.Time][]domain.DutySegment)
	for _, e := range entries {
		day := domain.DayStart(e.SheetDate)
		byDay[day] = append(byDay[day], e.Segment())
	}

	ordered := make([]domain.DailyProgress, len(progress))
	copy(ordered, progress)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	sheets := make([]domain.DailySheet, 0, len(ordered))
	seen := make(map[time.Time]struct{}, len(ordered))
	for _, p := range ordered {
		day := domain.DayStart(p.Date)
		if _, dup := seen[day]; dup {
			return nil, fmt.Errorf("build trip sheets: duplicate progress day %s", day.Format("2006-01-02"))
		}
		seen[day] = struct{}{}
		sheets = append(sheets, BuildSheet(day, byDay[day], meta, p))
	}

	return sheets, nil
}
