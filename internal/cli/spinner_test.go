package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStopIsNotCancellation(t *testing.T) {
	s := newSpinner("Rendering svg diagram")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	// Cancelled reflects the parent context only, never a plain Stop.
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop(), want false")
	}
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Rendering png diagram")
	s.Start()
	cancel()

	// The animation goroutine exits on its own once the parent ends.
	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after parent cancellation")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancellation, want true")
	}
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Rendering txt diagram")
	s.Start()
	time.Sleep(60 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent timeout, want true")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Rendering")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	s := newSpinner("Rendering")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.StopWithSuccess("Saved user.svg")

	s = newSpinner("Rendering")
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.StopWithError("Render failed: timeout")
}
