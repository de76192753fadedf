package domain

import (
	"math"
	"testing"
	"time"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func seg(status DutyStatus, startH, endH int) DutySegment {
	return DutySegment{Status: status, Start: at(startH, 0), End: at(endH, 0)}
}

func TestNormalizePadsGapsWithOffDuty(t *testing.T) {
	raw := []DutySegment{
		seg(StatusDriving, 8, 12),
		seg(StatusOnDuty, 12, 13),
		seg(StatusDriving, 13, 17),
		seg(StatusOnDuty, 17, 18),
	}

	tl := Normalize(raw, day)
	if err := tl.Validate(); err != nil {
		t.Fatalf("invalid timeline: %v", err)
	}

	want := []DutySegment{
		seg(StatusOffDuty, 0, 8),
		seg(StatusDriving, 8, 12),
		seg(StatusOnDuty, 12, 13),
		seg(StatusDriving, 13, 17),
		seg(StatusOnDuty, 17, 18),
		seg(StatusOffDuty, 18, 24),
	}
	if len(tl.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(tl.Segments), len(want))
	}
	for i, w := range want {
		g := tl.Segments[i]
		if g.Status != w.Status || !g.Start.Equal(w.Start) || !g.End.Equal(w.End) {
			t.Errorf("segment %d = %v %v-%v, want %v %v-%v",
				i, g.Status, g.Start, g.End, w.Status, w.Start, w.End)
		}
	}

	totals := tl.Totals()
	if totals.OffDuty != 14 || totals.Sleeper != 0 || totals.Driving != 8 || totals.OnDuty != 2 {
		t.Errorf("totals = %+v, want OFF=14 SB=0 D=8 ON=2", totals)
	}
}

func TestNormalizeEmptyDayIsFullOffDuty(t *testing.T) {
	tl := Normalize(nil, day)
	if err := tl.Validate(); err != nil {
		t.Fatalf("invalid timeline: %v", err)
	}
	if len(tl.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(tl.Segments))
	}
	s := tl.Segments[0]
	if s.Status != StatusOffDuty || !s.Start.Equal(day) || !s.End.Equal(day.Add(24*time.Hour)) {
		t.Errorf("segment = %v %v-%v, want full-day OFF", s.Status, s.Start, s.End)
	}
	if got := tl.Totals().OffDuty; got != 24 {
		t.Errorf("OFF total = %v, want 24", got)
	}
}

func TestNormalizeOverlapLaterSegmentWins(t *testing.T) {
	raw := []DutySegment{
		seg(StatusDriving, 9, 13),
		seg(StatusOnDuty, 12, 14),
	}

	tl := Normalize(raw, day)
	if err := tl.Validate(); err != nil {
		t.Fatalf("invalid timeline: %v", err)
	}

	// The driving segment is truncated at 12:00 where the later on-duty
	// segment takes over.
	var found bool
	for _, s := range tl.Segments {
		if s.Status == StatusDriving {
			if !s.End.Equal(at(12, 0)) {
				t.Errorf("driving segment ends at %v, want 12:00", s.End)
			}
			found = true
		}
		if s.Status == StatusOnDuty && !s.Start.Equal(at(12, 0)) {
			t.Errorf("on-duty segment starts at %v, want 12:00", s.Start)
		}
	}
	if !found {
		t.Fatal("driving segment missing from normalized timeline")
	}
}

func TestNormalizeCoverageInvariant(t *testing.T) {
	cases := []struct {
		name string
		raw  []DutySegment
	}{
		{"empty", nil},
		{"single", []DutySegment{seg(StatusSleeper, 22, 24)}},
		{"gapped", []DutySegment{seg(StatusDriving, 1, 2), seg(StatusDriving, 5, 9), seg(StatusOnDuty, 20, 21)}},
		{"unsorted", []DutySegment{seg(StatusOnDuty, 15, 16), seg(StatusDriving, 3, 7)}},
		{"overlapping", []DutySegment{seg(StatusDriving, 4, 10), seg(StatusSleeper, 8, 12), seg(StatusOnDuty, 11, 11)}},
		{"contained", []DutySegment{seg(StatusDriving, 6, 18), seg(StatusOnDuty, 10, 12)}},
		{"zero length dropped", []DutySegment{seg(StatusDriving, 5, 5), seg(StatusOnDuty, 7, 8)}},
		{"out of day clamped", []DutySegment{{Status: StatusDriving, Start: at(20, 0), End: day.Add(27 * time.Hour)}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tl := Normalize(tc.raw, day)
			if err := tl.Validate(); err != nil {
				t.Fatalf("coverage invariant violated: %v", err)
			}
			if got := tl.Totals().Sum(); math.Abs(got-24) > 1e-6 {
				t.Errorf("totals sum = %v, want 24", got)
			}
		})
	}
}

func TestNormalizeGapFillerIsAlwaysOffDuty(t *testing.T) {
	raw := []DutySegment{
		seg(StatusDriving, 2, 4),
		seg(StatusSleeper, 8, 10),
		seg(StatusOnDuty, 14, 15),
	}
	tl := Normalize(raw, day)

	// Every segment not present in the input must be an OFF filler.
	input := map[time.Time]DutyStatus{}
	for _, s := range raw {
		input[s.Start] = s.Status
	}
	for _, s := range tl.Segments {
		if st, ok := input[s.Start]; ok && st == s.Status {
			continue
		}
		if s.Status != StatusOffDuty {
			t.Errorf("filler segment %v-%v has status %v, want OFF", s.Start, s.End, s.Status)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []DutySegment{
		seg(StatusDriving, 8, 12),
		seg(StatusSleeper, 20, 23),
	}
	once := Normalize(raw, day)
	twice := Normalize(once.Segments, day)

	if len(once.Segments) != len(twice.Segments) {
		t.Fatalf("re-normalizing changed segment count: %d -> %d", len(once.Segments), len(twice.Segments))
	}
	for i := range once.Segments {
		a, b := once.Segments[i], twice.Segments[i]
		if a.Status != b.Status || !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
			t.Errorf("segment %d changed on re-normalization: %+v -> %+v", i, a, b)
		}
	}
}

func TestParseDutyStatus(t *testing.T) {
	cases := []struct {
		code string
		want DutyStatus
		ok   bool
	}{
		{"OFF", StatusOffDuty, true},
		{"SB", StatusSleeper, true},
		{"D", StatusDriving, true},
		{"DR", StatusDriving, true},
		{"ON", StatusOnDuty, true},
		{"X", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDutyStatus(tc.code)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseDutyStatus(%q) = %v, %v; want %v", tc.code, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseDutyStatus(%q) succeeded, want error", tc.code)
		}
	}
}
