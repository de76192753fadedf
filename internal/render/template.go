package render

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"driver-log-service/internal/domain"
)

// Template is the static background page every daily sheet is drawn over.
// The raster is read and base64-encoded exactly once; all pages of an export
// share the same encoded bytes so backgrounds are pixel-identical and the
// file is never re-decoded per page.
type Template struct {
	dataURI string
}

// LoadTemplate reads the background raster (PNG or JPEG). A missing template
// asset is a configuration error reported before any page is produced.
func LoadTemplate(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load template: read %q: %w", path, err)
	}

	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("load template: %q is not an image (detected %s)", path, mime)
	}

	return &Template{
		dataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// DataURI returns the shared background data URI.
func (t *Template) DataURI() string { return t.dataURI }

// SheetDocument produces the complete SVG page for one daily sheet: the
// template background at 1:1 with the overlay drawn on top.
func (g *GridRenderer) SheetDocument(sheet domain.DailySheet, tpl *Template) string {
	c := NewCanvas()
	c.Image(tpl.DataURI(), PageWidth, PageHeight)
	g.Render(sheet, c)
	return c.Document()
}
