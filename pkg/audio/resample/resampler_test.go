// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package resample

import (
	"math"
	"testing"

	"github.com/harperreed/reversereverb-go/pkg/audio"
)

func rampBuffer(channels, frames, rate int) *audio.Buffer {
	buf := audio.NewBuffer(channels, frames, rate)
	for ch := range buf.Samples {
		for i := range buf.Samples[ch] {
			buf.Samples[ch][i] = float64(i) / float64(frames)
		}
	}
	return buf
}

func TestNew(t *testing.T) {
	r := New(44100, 48000)
	if r.inputRate != 44100 {
		t.Errorf("expected inputRate 44100, got %d", r.inputRate)
	}
	if r.outputRate != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.outputRate)
	}
}

func TestProcess_SameRate(t *testing.T) {
	buf := rampBuffer(2, 100, 44100)
	if out := New(44100, 44100).Process(buf); out != buf {
		t.Error("expected same-rate conversion to return the input")
	}
}

func TestProcess_Upsampling(t *testing.T) {
	in := rampBuffer(2, 4410, 44100)
	out := New(44100, 48000).Process(in)

	if out.SampleRate != 48000 {
		t.Errorf("expected rate 48000, got %d", out.SampleRate)
	}
	if out.Frames() < 4790 || out.Frames() > 4810 {
		t.Errorf("expected ~4800 frames, got %d", out.Frames())
	}
	if out.Channels() != 2 {
		t.Errorf("expected 2 channels, got %d", out.Channels())
	}

	// A ramp stays a ramp under linear interpolation
	for i := 1; i < out.Frames(); i++ {
		if out.Samples[0][i] < out.Samples[0][i-1] {
			t.Fatalf("ramp not monotonic at %d", i)
		}
	}
}

func TestProcess_Downsampling(t *testing.T) {
	in := rampBuffer(1, 4800, 48000)
	out := New(48000, 44100).Process(in)

	if out.Frames() < 4400 || out.Frames() > 4420 {
		t.Errorf("expected ~4410 frames, got %d", out.Frames())
	}

	// Duration is preserved
	if math.Abs(out.Seconds()-in.Seconds()) > 0.001 {
		t.Errorf("duration changed: %f -> %f", in.Seconds(), out.Seconds())
	}
}

func TestProcess_Interpolates(t *testing.T) {
	in := audio.NewBuffer(1, 3, 10)
	in.Samples[0] = []float64{0, 1, 0}

	out := New(10, 20).Process(in)
	if out.Frames() != 6 {
		t.Fatalf("expected 6 frames, got %d", out.Frames())
	}
	if out.Samples[0][1] != 0.5 {
		t.Errorf("expected midpoint 0.5, got %f", out.Samples[0][1])
	}
}

func TestBuffer_InvalidRates(t *testing.T) {
	buf := rampBuffer(1, 10, 0)
	if out := Buffer(buf, 44100); out != buf {
		t.Error("expected unknown input rate to be left alone")
	}
}
