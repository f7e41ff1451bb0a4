// ABOUTME: Tests for background transform scheduling
// ABOUTME: Verifies request coalescing, the no-sample guard and lifecycle
package reversereverb

import (
	"context"
	"testing"
	"time"
)

func TestRequestTransform_NoSample(t *testing.T) {
	p := newTestProcessor(t, Config{})
	p.RequestTransform()
	if p.TransformPending() {
		t.Error("Expected request without a sample to be ignored")
	}
	if p.runPending() {
		t.Error("Expected nothing to run")
	}
}

func TestRequestTransform_Coalesces(t *testing.T) {
	runs := 0
	p := newTestProcessor(t, Config{
		OnTransformComplete: func(TransformStatus) { runs++ },
	})
	if err := p.LoadBuffer(impulseBuffer(1, 0.25, testRate), "clip"); err != nil {
		t.Fatalf("LoadBuffer failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		p.SetManualBPM(float64(100 + i))
		p.RequestTransform()
	}
	if !p.TransformPending() {
		t.Fatal("Expected a pending request")
	}

	if !p.runPending() {
		t.Fatal("Expected one transform to run")
	}
	if p.runPending() {
		t.Error("Expected requests to have coalesced into one run")
	}
	if runs != 1 {
		t.Errorf("Expected 1 completion callback, got %d", runs)
	}

	// The run used the last tempo: 1 bar at 104 BPM
	bpm := 104.0
	tail := 60 / bpm * 4
	want := int(0.25*testRate) + int(tail*testRate)
	if got := p.ProcessedBuffer().Frames(); got != want {
		t.Errorf("Expected %d frames, got %d", want, got)
	}
}

func TestScheduler_RunsInBackground(t *testing.T) {
	done := make(chan TransformStatus, 1)
	p := newTestProcessor(t, Config{
		TransformThrottle:   5 * time.Millisecond,
		OnTransformComplete: func(s TransformStatus) { done <- s },
	})
	if err := p.LoadBuffer(impulseBuffer(2, 0.25, testRate), "clip"); err != nil {
		t.Fatalf("LoadBuffer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.SetTailDivision(6)
	p.RequestTransform()

	select {
	case s := <-done:
		if !s.OK() {
			t.Fatalf("Transform failed: %v", s.Err)
		}
		if s.TailSeconds != 0.25 {
			t.Errorf("Expected 0.25s tail, got %v", s.TailSeconds)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for scheduled transform")
	}

	if err := p.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	// Close is idempotent
	if err := p.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestClose_WithoutStart(t *testing.T) {
	p := newTestProcessor(t, Config{})
	if err := p.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	// Start after Close must not launch a loop
	p.Start(context.Background())
	if p.sched.done != nil {
		t.Error("Expected no scheduler after Close")
	}
}
