package render

import (
	"fmt"
	"math"

	"driver-log-service/internal/domain"
)

const (
	lineStroke   = "#1d4ed8"
	lineWidth    = 2.0
	headerFontPt = 9.0
	totalsFontPt = 9.0
)

// GridRenderer draws normalized timelines and sheet text onto a canvas using
// an injected, immutable coordinate map.
type GridRenderer struct {
	coords *CoordinateMap
}

func NewGridRenderer(coords *CoordinateMap) *GridRenderer {
	return &GridRenderer{coords: coords}
}

// TimelinePath computes the duty polyline for a normalized timeline as one
// continuous point sequence: a horizontal run at each segment's row level and
// a vertical connector at every status change. Drawing it as a single path is
// what keeps the stepped log shape visually connected at status boundaries.
func (g *GridRenderer) TimelinePath(tl domain.Timeline) []Point {
	if len(tl.Segments) == 0 {
		return nil
	}

	points := make([]Point, 0, len(tl.Segments)*2+2)
	penX := g.coords.HourToX(0)
	penY := g.coords.StatusToY(tl.Segments[0].Status)
	points = append(points, Point{X: penX, Y: penY})

	for _, seg := range tl.Segments {
		startX := g.coords.HourToX(seg.Start.Sub(tl.Day).Hours())
		endX := g.coords.HourToX(seg.End.Sub(tl.Day).Hours())
		rowY := g.coords.StatusToY(seg.Status)

		if rowY != penY {
			// Status change: vertical connector at the segment's start hour.
			points = append(points, Point{X: startX, Y: penY}, Point{X: startX, Y: rowY})
		} else if startX > penX {
			// Same-row positional gap. Cannot occur after normalization but is
			// tolerated with a horizontal filler.
			points = append(points, Point{X: startX, Y: rowY})
		}

		points = append(points, Point{X: endX, Y: rowY})
		penX, penY = endX, rowY
	}

	if endX := g.coords.HourToX(24); penX < endX {
		points = append(points, Point{X: endX, Y: penY})
	}

	return dedupePoints(points)
}

// Render draws one daily sheet onto the canvas: the duty polyline, header
// fields and per-status totals.
func (g *GridRenderer) Render(sheet domain.DailySheet, c *Canvas) {
	c.Polyline(g.TimelinePath(sheet.Timeline), lineStroke, lineWidth)

	g.text(c, "dateMonth", fmt.Sprintf("%02d", int(sheet.Date.Month())))
	g.text(c, "dateDay", fmt.Sprintf("%02d", sheet.Date.Day()))
	g.text(c, "dateYear", fmt.Sprintf("%d", sheet.Date.Year()))
	g.text(c, "fromLocation", sheet.StartLocation)
	g.text(c, "toLocation", sheet.EndLocation)
	g.text(c, "milesToday", fmt.Sprintf("%.0f", sheet.DailyMiles))
	g.text(c, "milesTotal", fmt.Sprintf("%.0f", sheet.CumulativeMi))
	g.text(c, "carrierName", sheet.Meta.CarrierName)

	for _, status := range domain.StatusOrder {
		c.Text(g.coords.TotalAnchor(status), formatHours(sheet.Totals.For(status)), totalsFontPt)
	}

	// Optional calibration anchors: status labels are drawn centered when the
	// map provides them.
	for _, status := range domain.StatusOrder {
		if p, ok := g.coords.Point(string(status) + "Label"); ok {
			c.CenteredText(p, status.Label(), headerFontPt)
		}
	}
}

func (g *GridRenderer) text(c *Canvas, field, value string) {
	if p, ok := g.coords.Point(field); ok {
		c.Text(p, value, headerFontPt)
	}
}

// formatHours renders a duty total with two decimal places, rounded to the
// nearest hundredth of an hour, matching the printed recap boxes.
func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", math.Round(h*100)/100)
}

func dedupePoints(points []Point) []Point {
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.X == p.X && last.Y == p.Y {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
