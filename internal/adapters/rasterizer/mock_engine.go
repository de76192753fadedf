package rasterizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"
)

// MockEngine is an in-memory render engine for tests. It returns a small
// valid PNG for every call and records call timing so sequencing can be
// asserted.
type MockEngine struct {
	mu       sync.Mutex
	inFlight int
	png      []byte
	failAt   int

	Calls  [][]byte
	Starts []time.Time
	Ends   []time.Time
}

// NewMockEngine builds a mock whose captures are a solid 61x79 PNG. failAt
// makes the Nth call (1-based) fail; zero disables failures.
func NewMockEngine(failAt int) *MockEngine {
	img := image.NewRGBA(image.Rect(0, 0, 61, 79))
	for y := 0; y < 79; y++ {
		for x := 0; x < 61; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return &MockEngine{png: buf.Bytes(), failAt: failAt}
}

func (e *MockEngine) Rasterize(ctx context.Context, svg []byte) ([]byte, error) {
	e.mu.Lock()
	e.inFlight++
	overlap := e.inFlight > 1
	e.Calls = append(e.Calls, append([]byte(nil), svg...))
	e.Starts = append(e.Starts, time.Now())
	n := len(e.Calls)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight--
		e.Ends = append(e.Ends, time.Now())
		e.mu.Unlock()
	}()

	if overlap {
		return nil, fmt.Errorf("mock engine: concurrent capture")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.failAt > 0 && n == e.failAt {
		return nil, fmt.Errorf("mock engine: capture %d failed", n)
	}
	return e.png, nil
}

func (e *MockEngine) Close() error { return nil }
