package render

import (
	"strings"
	"testing"
	"time"

	"driver-log-service/internal/domain"
)

const testCoords = `{
	"dateMonth":    {"x": 180, "y": 38},
	"dateDay":      {"x": 220, "y": 38},
	"dateYear":     {"x": 260, "y": 38},
	"fromLocation": {"x": 90,  "y": 70},
	"toLocation":   {"x": 330, "y": 70},
	"milesToday":   {"x": 60,  "y": 110},
	"milesTotal":   {"x": 160, "y": 110},
	"carrierName":  {"x": 330, "y": 100},
	"gridTopLeft":     {"x": 60,  "y": 200},
	"gridTopRight":    {"x": 540, "y": 200},
	"gridBottomLeft":  {"x": 60,  "y": 320},
	"gridBottomRight": {"x": 540, "y": 320},
	"offDutyRowTop": {"x": 60, "y": 200},
	"sleeperRowTop": {"x": 60, "y": 230},
	"drivingRowTop": {"x": 60, "y": 260},
	"onDutyRowTop":  {"x": 60, "y": 290},
	"offDutyTotal": {"x": 550, "y": 205},
	"sleeperTotal": {"x": 550, "y": 235},
	"drivingTotal": {"x": 550, "y": 265},
	"onDutyTotal":  {"x": 550, "y": 295}
}`

func testMap(t *testing.T) *CoordinateMap {
	t.Helper()
	m, err := ParseCoordinateMap([]byte(testCoords))
	if err != nil {
		t.Fatalf("parse test coordinate map: %v", err)
	}
	return m
}

func TestLoadShippedCoordinateMap(t *testing.T) {
	m, err := LoadCoordinateMap("../../data/coordmap.json")
	if err != nil {
		t.Fatalf("load shipped coordinate map: %v", err)
	}
	for _, status := range []domain.DutyStatus{
		domain.StatusOffDuty, domain.StatusSleeper, domain.StatusDriving, domain.StatusOnDuty,
	} {
		if p := m.TotalAnchor(status); p.X == 0 && p.Y == 0 {
			t.Fatalf("missing totals anchor for %s", status)
		}
	}
}

func TestParseCoordinateMapMissingField(t *testing.T) {
	broken := strings.Replace(testCoords, `"drivingRowTop"`, `"drivingRowTopX"`, 1)
	if _, err := ParseCoordinateMap([]byte(broken)); err == nil {
		t.Fatal("expected error for missing drivingRowTop, got nil")
	}
}

func TestParseCoordinateMapRowOrder(t *testing.T) {
	swapped := strings.Replace(testCoords, `"sleeperRowTop": {"x": 60, "y": 230}`, `"sleeperRowTop": {"x": 60, "y": 295}`, 1)
	if _, err := ParseCoordinateMap([]byte(swapped)); err == nil {
		t.Fatal("expected error for non-monotonic row tops, got nil")
	}
}

func TestHourToXClampsToGrid(t *testing.T) {
	m := testMap(t)

	cases := []struct {
		hour float64
		want float64
	}{
		{0, 60},
		{12, 300},
		{24, 540},
		{-1, 60},
		{25, 540},
	}
	for _, tc := range cases {
		if got := m.HourToX(tc.hour); got != tc.want {
			t.Errorf("HourToX(%v) = %v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestStatusToYRowCenters(t *testing.T) {
	m := testMap(t)

	cases := []struct {
		status domain.DutyStatus
		want   float64
	}{
		{domain.StatusOffDuty, 215}, // midpoint 200..230
		{domain.StatusSleeper, 245}, // midpoint 230..260
		{domain.StatusDriving, 275}, // midpoint 260..290
		{domain.StatusOnDuty, 305},  // midpoint 290..gridBottom 320
	}
	for _, tc := range cases {
		if got := m.StatusToY(tc.status); got != tc.want {
			t.Errorf("StatusToY(%v) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestTimelinePathIsOneConnectedWalk(t *testing.T) {
	m := testMap(t)
	g := NewGridRenderer(m)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tl := domain.Normalize([]domain.DutySegment{
		{Status: domain.StatusDriving, Start: day.Add(8 * time.Hour), End: day.Add(12 * time.Hour)},
		{Status: domain.StatusOnDuty, Start: day.Add(12 * time.Hour), End: day.Add(13 * time.Hour)},
	}, day)

	points := g.TimelinePath(tl)
	if len(points) < 2 {
		t.Fatalf("path too short: %d points", len(points))
	}

	// Starts at hour 0 and ends at hour 24.
	if points[0].X != m.HourToX(0) {
		t.Errorf("path starts at x=%v, want %v", points[0].X, m.HourToX(0))
	}
	if last := points[len(points)-1]; last.X != m.HourToX(24) {
		t.Errorf("path ends at x=%v, want %v", last.X, m.HourToX(24))
	}

	// Each step is purely horizontal or purely vertical and x never
	// decreases: the stepped log shape.
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if a.X != b.X && a.Y != b.Y {
			t.Errorf("step %d is diagonal: (%v,%v) -> (%v,%v)", i, a.X, a.Y, b.X, b.Y)
		}
		if b.X < a.X {
			t.Errorf("step %d moves backwards in time: x %v -> %v", i, a.X, b.X)
		}
	}

	// The vertical connector at the 12:00 status change must be present.
	x12 := m.HourToX(12)
	var connector bool
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if a.X == x12 && b.X == x12 && a.Y != b.Y {
			connector = true
		}
	}
	if !connector {
		t.Error("missing vertical connector at the 12:00 status change")
	}
}

func TestTimelinePathFullDayOffIsFlat(t *testing.T) {
	m := testMap(t)
	g := NewGridRenderer(m)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tl := domain.Normalize(nil, day)

	points := g.TimelinePath(tl)
	if len(points) != 2 {
		t.Fatalf("flat day should be 2 points, got %d", len(points))
	}
	wantY := m.StatusToY(domain.StatusOffDuty)
	for _, p := range points {
		if p.Y != wantY {
			t.Errorf("point at y=%v, want %v", p.Y, wantY)
		}
	}
}

func TestRenderPolylineIsSinglePath(t *testing.T) {
	m := testMap(t)
	g := NewGridRenderer(m)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sheet := domain.DailySheet{
		Date:          day,
		StartLocation: "Phoenix, AZ",
		EndLocation:   "Albuquerque, NM",
		DailyMiles:    455,
		CumulativeMi:  455,
		Timeline: domain.Normalize([]domain.DutySegment{
			{Status: domain.StatusDriving, Start: day.Add(8 * time.Hour), End: day.Add(16 * time.Hour)},
		}, day),
		Meta: domain.TripMeta{CarrierName: "Acme Freight"},
	}
	sheet.Totals = sheet.Timeline.Totals()

	c := NewCanvas()
	g.Render(sheet, c)
	doc := c.Document()

	if got := strings.Count(doc, "<polyline"); got != 1 {
		t.Errorf("document has %d polylines, want exactly 1 continuous path", got)
	}
	for _, want := range []string{"Phoenix, AZ", "Albuquerque, NM", "Acme Freight", "16.00", "8.00"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}
