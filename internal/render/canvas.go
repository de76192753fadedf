package render

import (
	"fmt"
	"strings"
)

// Canvas is an SVG drawing surface in template point space. Elements are
// accumulated in draw order and serialized with Document.
type Canvas struct {
	elements strings.Builder
}

func NewCanvas() *Canvas {
	return &Canvas{}
}

// Image draws a raster image with its top-left corner at the origin.
// href is typically a base64 data URI.
func (c *Canvas) Image(href string, width, height float64) {
	fmt.Fprintf(&c.elements,
		`<image x="0" y="0" width="%.2f" height="%.2f" href="%s" preserveAspectRatio="none"/>`+"\n",
		width, height, href)
}

// Polyline draws one continuous stroked path through the given points.
func (c *Canvas) Polyline(points []Point, stroke string, width float64) {
	if len(points) < 2 {
		return
	}
	var pts strings.Builder
	for i, p := range points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&c.elements,
		`<polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linejoin="round" stroke-linecap="round"/>`+"\n",
		pts.String(), stroke, width)
}

// Text draws a string whose bounding box's top-left corner sits at p.
// All header and totals anchors use this convention.
func (c *Canvas) Text(p Point, s string, size float64) {
	fmt.Fprintf(&c.elements,
		`<text x="%.2f" y="%.2f" font-family="Helvetica, sans-serif" font-size="%.1f" dominant-baseline="hanging">%s</text>`+"\n",
		p.X, p.Y, size, escapeXML(s))
}

// CenteredText draws a string centered on p. Only status-label anchors use
// center anchoring; everything else is top-left.
func (c *Canvas) CenteredText(p Point, s string, size float64) {
	fmt.Fprintf(&c.elements,
		`<text x="%.2f" y="%.2f" font-family="Helvetica, sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		p.X, p.Y, size, escapeXML(s))
}

// Document wraps the accumulated elements in a standalone SVG page of the
// template's dimensions.
func (c *Canvas) Document() string {
	var doc strings.Builder
	fmt.Fprintf(&doc,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		PageWidth, PageHeight, PageWidth, PageHeight)
	doc.WriteString(c.elements.String())
	doc.WriteString("</svg>\n")
	return doc.String()
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
