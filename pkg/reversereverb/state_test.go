// ABOUTME: Tests for persisted state
// ABOUTME: Checks the round trip, pinned fields and rejection of foreign documents
package reversereverb

import (
	"bytes"
	"strings"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	src := newTestProcessor(t, Config{})
	src.SetReverbSize(0.3)
	src.SetReverbMix(0.4)
	src.SetDryWet(1.5)
	src.SetTailDivision(5)
	src.SetManualBPM(90)
	src.SetStereoWidth(0.8)

	var buf bytes.Buffer
	if err := src.SaveState(&buf); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"type": "ReverseReverbSettings"`) {
		t.Errorf("Expected type tag in %s", buf.String())
	}

	dst := newTestProcessor(t, Config{})
	dst.SetReverbSize(0.1)
	if err := dst.LoadState(&buf); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	if dst.TailDivision() != 5 || dst.ManualBPM() != 90 || dst.StereoWidth() != 0.8 {
		t.Errorf("Expected tail=5 bpm=90 width=0.8, got %d %v %v",
			dst.TailDivision(), dst.ManualBPM(), dst.StereoWidth())
	}

	// Pinned regardless of what was saved
	if dst.ReverbSize() != 1 || dst.ReverbMix() != 1 || dst.DryWet() != 1 {
		t.Errorf("Expected size, mix and dry/wet pinned to 1, got %v %v %v",
			dst.ReverbSize(), dst.ReverbMix(), dst.DryWet())
	}
}

func TestLoadState_Defaults(t *testing.T) {
	p := newTestProcessor(t, Config{})
	p.SetTailDivision(7)
	p.SetManualBPM(200)
	p.SetStereoWidth(0.1)

	if err := p.LoadState(strings.NewReader(`{"type":"ReverseReverbSettings","version":1}`)); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if p.TailDivision() != 3 || p.ManualBPM() != 120 || p.StereoWidth() != 0.5 {
		t.Errorf("Expected defaults, got %d %v %v", p.TailDivision(), p.ManualBPM(), p.StereoWidth())
	}
}

func TestLoadState_Clamps(t *testing.T) {
	p := newTestProcessor(t, Config{})
	doc := `{"type":"ReverseReverbSettings","version":1,"tailDivision":42,"manualBpm":1000,"stereoWidth":-3}`
	if err := p.LoadState(strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if p.TailDivision() != 8 || p.ManualBPM() != 300 || p.StereoWidth() != 0 {
		t.Errorf("Expected clamped values, got %d %v %v", p.TailDivision(), p.ManualBPM(), p.StereoWidth())
	}
}

func TestLoadState_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong type", `{"type":"SomethingElse","version":1,"manualBpm":90}`},
		{"missing type", `{"version":1,"manualBpm":90}`},
		{"future version", `{"type":"ReverseReverbSettings","version":99,"manualBpm":90}`},
		{"malformed", `{"type":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t, Config{})
			p.SetReverbSize(0.25)

			if err := p.LoadState(strings.NewReader(tt.doc)); err == nil {
				t.Fatal("Expected an error")
			}
			if p.ManualBPM() != 120 || p.ReverbSize() != 0.25 {
				t.Error("Expected settings to be unchanged")
			}
		})
	}
}
