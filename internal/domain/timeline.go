package domain

import (
	"fmt"
	"sort"
	"time"
)

// Timeline is a gapless, non-overlapping partition of one calendar day into
// duty segments. Invariants (established by Normalize, immutable after):
//   - segments sorted ascending by Start;
//   - first segment starts at 00:00 of the day, last ends at the next midnight;
//   - adjacent segments share a boundary (next.Start == prev.End);
//   - every segment has End after Start.
type Timeline struct {
	Day      time.Time // midnight UTC of the covered day
	Segments []DutySegment
}

// DayStart returns midnight UTC of the given day.
func DayStart(day time.Time) time.Time {
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize converts raw duty segments for one calendar day into a Timeline.
//
// Zero- or negative-length segments are dropped, the rest are sorted by start
// and clamped to the day. All unaccounted time defaults to OFF duty: before
// the first segment, between segments, and after the last one. An empty input
// yields a single full-day OFF segment.
//
// When a segment starts before the previous one ends, the previous segment is
// truncated at the overlap point, so the later-starting segment wins for the
// shared interval. Any time uncovered after the truncation falls back to OFF
// through the gap policy above.
func Normalize(segments []DutySegment, day time.Time) Timeline {
	dayStart := DayStart(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	keep := make([]DutySegment, 0, len(segments))
	for _, s := range segments {
		start, end := s.Start, s.End
		if start.Before(dayStart) {
			start = dayStart
		}
		if end.After(dayEnd) {
			end = dayEnd
		}
		if !end.After(start) {
			continue
		}
		keep = append(keep, DutySegment{Status: s.Status, Start: start, End: end})
	}

	sort.SliceStable(keep, func(i, j int) bool { return keep[i].Start.Before(keep[j].Start) })

	out := make([]DutySegment, 0, len(keep)*2+1)
	cursor := dayStart
	for _, s := range keep {
		if s.Start.Before(cursor) && len(out) > 0 {
			// Overlap: the previous segment yields from this point on.
			last := &out[len(out)-1]
			last.End = s.Start
			if !last.End.After(last.Start) {
				out = out[:len(out)-1]
			}
			cursor = s.Start
		}
		if s.Start.After(cursor) {
			out = append(out, DutySegment{Status: StatusOffDuty, Start: cursor, End: s.Start})
			cursor = s.Start
		}
		if !s.End.After(cursor) {
			continue
		}
		out = append(out, DutySegment{Status: s.Status, Start: cursor, End: s.End})
		cursor = s.End
	}
	if cursor.Before(dayEnd) {
		out = append(out, DutySegment{Status: StatusOffDuty, Start: cursor, End: dayEnd})
	}

	return Timeline{Day: dayStart, Segments: out}
}

// Validate checks the Timeline invariants. Normalize output always passes;
// this exists for callers that build or deserialize timelines themselves.
func (t Timeline) Validate() error {
	if len(t.Segments) == 0 {
		return fmt.Errorf("timeline %s: no segments", t.Day.Format("2006-01-02"))
	}
	dayEnd := t.Day.Add(24 * time.Hour)
	if !t.Segments[0].Start.Equal(t.Day) {
		return fmt.Errorf("timeline %s: first segment starts at %s, not day start",
			t.Day.Format("2006-01-02"), t.Segments[0].Start.Format(time.RFC3339))
	}
	if !t.Segments[len(t.Segments)-1].End.Equal(dayEnd) {
		return fmt.Errorf("timeline %s: last segment ends at %s, not day end",
			t.Day.Format("2006-01-02"), t.Segments[len(t.Segments)-1].End.Format(time.RFC3339))
	}
	for i, s := range t.Segments {
		if !s.End.After(s.Start) {
			return fmt.Errorf("timeline %s: segment %d has non-positive length", t.Day.Format("2006-01-02"), i)
		}
		if i > 0 && !s.Start.Equal(t.Segments[i-1].End) {
			return fmt.Errorf("timeline %s: segments %d and %d do not share a boundary",
				t.Day.Format("2006-01-02"), i-1, i)
		}
	}
	return nil
}

// Totals sums segment durations per duty status, in hours. For any valid
// Timeline the four totals sum to 24.
func (t Timeline) Totals() DutyTotals {
	var totals DutyTotals
	for _, s := range t.Segments {
		h := s.Hours()
		switch s.Status {
		case StatusOffDuty:
			totals.OffDuty += h
		case StatusSleeper:
			totals.Sleeper += h
		case StatusDriving:
			totals.Driving += h
		case StatusOnDuty:
			totals.OnDuty += h
		}
	}
	return totals
}
