package rasterizer

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/chromedp/chromedp"
)

// ChromeEngine rasterizes SVG documents by loading them into a headless
// browser and screenshotting the root svg element. A single worker goroutine
// owns the browser tab, so at most one capture is ever in flight.
type ChromeEngine struct {
	jobs        chan rasterJob
	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

type rasterJob struct {
	ctx  context.Context
	svg  []byte
	done chan rasterResult
}

type rasterResult struct {
	png []byte
	err error
}

// NewChromeEngine starts the headless browser and the capture worker. The
// returned engine must be closed to release the browser process.
func NewChromeEngine() (*ChromeEngine, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser process up front so a broken environment fails
	// at construction instead of on the first export.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("chrome engine: start browser: %w", err)
	}

	e := &ChromeEngine{
		jobs:        make(chan rasterJob),
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}
	go e.run()
	return e, nil
}

// Rasterize renders the SVG document and returns a PNG screenshot of it.
// Calls queue behind the single worker and run strictly one at a time.
func (e *ChromeEngine) Rasterize(ctx context.Context, svg []byte) ([]byte, error) {
	job := rasterJob{ctx: ctx, svg: svg, done: make(chan rasterResult, 1)}

	select {
	case e.jobs <- job:
	case <-ctx.Done():
		return nil, fmt.Errorf("rasterize: %w", ctx.Err())
	case <-e.browserCtx.Done():
		return nil, fmt.Errorf("rasterize: engine closed")
	}

	select {
	case res := <-job.done:
		if res.err != nil {
			return nil, fmt.Errorf("rasterize: %w", res.err)
		}
		return res.png, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("rasterize: %w", ctx.Err())
	}
}

func (e *ChromeEngine) run() {
	for {
		select {
		case job := <-e.jobs:
			job.done <- e.capture(job.ctx, job.svg)
		case <-e.browserCtx.Done():
			return
		}
	}
}

func (e *ChromeEngine) capture(ctx context.Context, svg []byte) rasterResult {
	if err := ctx.Err(); err != nil {
		return rasterResult{err: err}
	}

	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	var shot []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &shot, chromedp.ByQuery),
	}
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return rasterResult{err: fmt.Errorf("capture: %w", err)}
	}
	if len(shot) == 0 {
		return rasterResult{err: fmt.Errorf("capture: empty screenshot")}
	}
	return rasterResult{png: shot}
}

// Close shuts down the worker and the browser process.
func (e *ChromeEngine) Close() error {
	log.Println("Shutting down chrome engine...")
	e.cancelCtx()
	e.cancelAlloc()
	return nil
}
