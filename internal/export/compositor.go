package export

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"time"

	"driver-log-service/internal/domain"
	"driver-log-service/internal/ports"
	"driver-log-service/internal/render"
)

const (
	// jpegQuality trades file size against legibility of the grid lines.
	jpegQuality = 90

	// defaultSettleDelay gives the rasterizer time to release page
	// resources before the next capture starts.
	defaultSettleDelay = 150 * time.Millisecond
)

// Compositor turns a run of daily sheets into a single PDF, one sheet per
// page. Pages are produced strictly one at a time through a shared render
// engine; any failure discards the partial document.
type Compositor struct {
	engine   ports.RenderEngine
	renderer *render.GridRenderer
	template *render.Template
	settle   time.Duration
}

func NewCompositor(engine ports.RenderEngine, renderer *render.GridRenderer, template *render.Template) *Compositor {
	return &Compositor{
		engine:   engine,
		renderer: renderer,
		template: template,
		settle:   defaultSettleDelay,
	}
}

// Compose renders every sheet in order and returns the assembled PDF bytes.
// Returns an error, and no document, if any page fails.
func (c *Compositor) Compose(ctx context.Context, title string, sheets []domain.DailySheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("compose: no sheets to render")
	}

	doc := newPDFDocument(title)
	for i, sheet := range sheets {
		jpg, w, h, err := c.renderPage(ctx, sheet)
		if err != nil {
			return nil, fmt.Errorf("compose: page %d (%s): %w", i+1, sheet.Date.Format("2006-01-02"), err)
		}
		doc.addImagePage(jpg, w, h, render.PageWidth, render.PageHeight)

		if i < len(sheets)-1 {
			if err := c.settleDown(ctx); err != nil {
				return nil, fmt.Errorf("compose: %w", err)
			}
		}
	}

	return doc.build(), nil
}

func (c *Compositor) renderPage(ctx context.Context, sheet domain.DailySheet) ([]byte, int, int, error) {
	svg := c.renderer.SheetDocument(sheet, c.template)

	shot, err := c.engine.Rasterize(ctx, []byte(svg))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("rasterize: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode capture: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}

	bounds := img.Bounds()
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}

func (c *Compositor) settleDown(ctx context.Context) error {
	t := time.NewTimer(c.settle)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Filename builds the download name for an exported document, qualified
// with a UTC timestamp so repeated exports never collide.
func Filename(tripID string, now time.Time) string {
	return fmt.Sprintf("logsheet-%s-%s.pdf", tripID, now.UTC().Format("20060102T150405Z"))
}
