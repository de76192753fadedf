package rasterizer

import (
	"context"
	"testing"
)

func TestMockEngineRecoversAfterCancelledCall(t *testing.T) {
	engine := NewMockEngine(0)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Rasterize(cancelled, []byte("<svg/>")); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	png, err := engine.Rasterize(context.Background(), []byte("<svg/>"))
	if err != nil {
		t.Fatalf("rasterize after cancelled call: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected png bytes")
	}
	if got := len(engine.Calls); got != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", got)
	}
}

func TestMockEngineRecoversAfterFailedCall(t *testing.T) {
	engine := NewMockEngine(1)

	if _, err := engine.Rasterize(context.Background(), []byte("<svg/>")); err == nil {
		t.Fatal("expected failure on first call")
	}

	if _, err := engine.Rasterize(context.Background(), []byte("<svg/>")); err != nil {
		t.Fatalf("rasterize after failed call: %v", err)
	}
}
