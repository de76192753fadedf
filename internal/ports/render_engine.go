package ports

import "context"

// RenderEngine rasterizes one SVG page into PNG bytes.
//
// Implementations wrap a single shared, stateful rendering resource that does
// not tolerate concurrent use: callers must not overlap Rasterize calls, and
// the compositor drives pages strictly one at a time. An adapter backed by an
// engine proven safe for concurrency may relax this internally, but the port
// contract stays sequential.
type RenderEngine interface {
	Rasterize(ctx context.Context, svg []byte) ([]byte, error)
	Close() error
}
