package render

import (
	"encoding/json"
	"fmt"
	"os"

	"driver-log-service/internal/domain"
)

// Point is a position in template space: points, origin top-left,
// y increasing downward. The template is US-Letter at 72 pt/inch.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Template page dimensions in points.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

// Field names every coordinate map must provide. Header anchors and totals
// anchors mark the top-left corner of the text box; status label anchors are
// centers; grid anchors are the grid corners themselves.
var requiredFields = []string{
	// header
	"dateMonth", "dateDay", "dateYear",
	"fromLocation", "toLocation",
	"milesToday", "milesTotal",
	"carrierName",
	// grid corners
	"gridTopLeft", "gridTopRight", "gridBottomLeft", "gridBottomRight",
	// row tops, fixed status order
	"offDutyRowTop", "sleeperRowTop", "drivingRowTop", "onDutyRowTop",
	// per-status totals
	"offDutyTotal", "sleeperTotal", "drivingTotal", "onDutyTotal",
}

var rowTopField = map[domain.DutyStatus]string{
	domain.StatusOffDuty: "offDutyRowTop",
	domain.StatusSleeper: "sleeperRowTop",
	domain.StatusDriving: "drivingRowTop",
	domain.StatusOnDuty:  "onDutyRowTop",
}

var totalField = map[domain.DutyStatus]string{
	domain.StatusOffDuty: "offDutyTotal",
	domain.StatusSleeper: "sleeperTotal",
	domain.StatusDriving: "drivingTotal",
	domain.StatusOnDuty:  "onDutyTotal",
}

// CoordinateMap maps named field and grid anchors to template positions.
// Produced once by the calibration tool, loaded read-only at startup, and
// injected into the renderer; it is never mutated after Parse.
type CoordinateMap struct {
	fields map[string]Point
}

// LoadCoordinateMap reads and validates a coordinate map JSON file.
func LoadCoordinateMap(path string) (*CoordinateMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load coordinate map: read %q: %w", path, err)
	}
	m, err := ParseCoordinateMap(raw)
	if err != nil {
		return nil, fmt.Errorf("load coordinate map %q: %w", path, err)
	}
	return m, nil
}

// ParseCoordinateMap parses a flat {"field": {"x":..,"y":..}} document and
// validates the anchors the renderer depends on. A missing required field is
// a configuration error: rendering cannot start without it.
func ParseCoordinateMap(raw []byte) (*CoordinateMap, error) {
	fields := map[string]Point{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse coordinate map: %w", err)
	}

	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("parse coordinate map: missing required field %q", name)
		}
	}

	m := &CoordinateMap{fields: fields}

	if m.fields["gridTopRight"].X <= m.fields["gridTopLeft"].X {
		return nil, fmt.Errorf("parse coordinate map: gridTopRight.x must exceed gridTopLeft.x")
	}

	// Row tops must descend the page in the fixed status order.
	prev := -1.0
	for _, status := range domain.StatusOrder {
		y := m.fields[rowTopField[status]].Y
		if y <= prev {
			return nil, fmt.Errorf("parse coordinate map: %s is not below the previous row top", rowTopField[status])
		}
		prev = y
	}

	return m, nil
}

// Point returns the anchor for a named field.
func (m *CoordinateMap) Point(name string) (Point, bool) {
	p, ok := m.fields[name]
	return p, ok
}

// HourToX maps an hour offset [0,24] to a grid x coordinate, clamped to the
// grid's horizontal extent.
func (m *CoordinateMap) HourToX(hour float64) float64 {
	left := m.fields["gridTopLeft"].X
	right := m.fields["gridTopRight"].X
	x := left + hour*(right-left)/24
	if x < left {
		return left
	}
	if x > right {
		return right
	}
	return x
}

// StatusToY returns the vertical center of a duty status row: the midpoint
// between that row's top anchor and the next row's (or the grid bottom for
// the last row), clamped to the grid's vertical extent.
func (m *CoordinateMap) StatusToY(status domain.DutyStatus) float64 {
	top := m.fields["gridTopLeft"].Y
	bottom := m.fields["gridBottomLeft"].Y

	rowTop := m.fields[rowTopField[status]].Y
	rowBottom := bottom
	for i, s := range domain.StatusOrder {
		if s == status && i+1 < len(domain.StatusOrder) {
			rowBottom = m.fields[rowTopField[domain.StatusOrder[i+1]]].Y
		}
	}

	y := (rowTop + rowBottom) / 2
	if y < top {
		return top
	}
	if y > bottom {
		return bottom
	}
	return y
}

// TotalAnchor returns the totals anchor for a duty status.
func (m *CoordinateMap) TotalAnchor(status domain.DutyStatus) Point {
	return m.fields[totalField[status]]
}
