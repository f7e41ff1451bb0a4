// ABOUTME: Tests for WAV export
// ABOUTME: Verifies fades are baked in, files are replaced and naming rules
package reversereverb

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/reversereverb-go/pkg/audio/decode"
)

func TestExport_NoSample(t *testing.T) {
	p := newTestProcessor(t, Config{})
	path := filepath.Join(t.TempDir(), "out.wav")

	err := p.Export(path)
	if !errors.Is(err, ErrExport) || !errors.Is(err, ErrNoSample) {
		t.Fatalf("Expected ErrExport and ErrNoSample, got %v", err)
	}
	if p.ExportTo(path) {
		t.Error("Expected ExportTo to report failure")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file to be written")
	}
}

func TestExport_WritesWAV(t *testing.T) {
	p := newTestProcessor(t, Config{})
	p.processed.Store(constantBuffer(2, 1000, 0.5))
	p.SetFadeIn(0.2)
	p.SetFadeOut(0.1)

	path := filepath.Join(t.TempDir(), "out.wav")
	if !p.ExportTo(path) {
		t.Fatal("ExportTo failed")
	}

	r, err := decode.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	buf, err := decode.ReadAll(r, 2)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if buf.SampleRate != testRate || buf.Channels() != 2 || buf.Frames() != 1000 {
		t.Fatalf("Unexpected format %dHz %dch %d frames", buf.SampleRate, buf.Channels(), buf.Frames())
	}

	tests := []struct {
		frame int
		want  float64
	}{
		{0, 0},
		{100, 0.5 * 0.125},
		{500, 0.5},
		{950, 0.5 * 0.125},
	}
	for _, tt := range tests {
		for ch := 0; ch < 2; ch++ {
			if got := buf.Samples[ch][tt.frame]; math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("ch %d frame %d: expected %v, got %v", ch, tt.frame, tt.want, got)
			}
		}
	}

	// The live sample is untouched
	if p.ProcessedBuffer().Samples[0][0] != 0.5 {
		t.Error("Expected export to leave the processed sample alone")
	}
}

func TestExport_ReplacesExisting(t *testing.T) {
	p := newTestProcessor(t, Config{})
	p.processed.Store(constantBuffer(1, 500, 0.25))

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := os.WriteFile(path, []byte("stale contents"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := p.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	r, err := decode.Open(path)
	if err != nil {
		t.Fatalf("Expected a valid WAV after export: %v", err)
	}
	r.Close()
}

func TestExport_BadPath(t *testing.T) {
	p := newTestProcessor(t, Config{})
	p.processed.Store(constantBuffer(1, 500, 0.25))

	path := filepath.Join(t.TempDir(), "missing-dir", "out.wav")
	if err := p.Export(path); !errors.Is(err, ErrExport) {
		t.Errorf("Expected ErrExport, got %v", err)
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	p := newTestProcessor(t, Config{})
	if got := p.ExportFileName(now); got != "ReverseReverb_20240309_140507.wav" {
		t.Errorf("Unexpected unnamed export: %q", got)
	}

	p.setName("Kick 01")
	if got := p.ExportFileName(now); got != "Reverse Reverb - Kick 01.wav" {
		t.Errorf("Unexpected named export: %q", got)
	}
}

func TestFadeCurve(t *testing.T) {
	curve := FadeCurve(10, 0.5, 0)
	if len(curve) != 10 {
		t.Fatalf("Expected 10 gains, got %d", len(curve))
	}
	for i := 1; i < 5; i++ {
		if curve[i] <= curve[i-1] {
			t.Errorf("Expected rising fade at %d", i)
		}
	}
	for i := 5; i < 10; i++ {
		if curve[i] != 1 {
			t.Errorf("Expected unity after fade at %d, got %v", i, curve[i])
		}
	}
}
