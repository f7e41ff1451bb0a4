// ABOUTME: Tests for the reverb engine
// ABOUTME: Covers parameter handling, impulse response and stereo behavior
package reverb

import (
	"math"
	"testing"
)

func impulse(n int) []float64 {
	buf := make([]float64, n)
	buf[0] = 1
	return buf
}

func energy(buf []float64) float64 {
	sum := 0.0
	for _, s := range buf {
		sum += s * s
	}
	return sum
}

func TestSetParameters_Clamps(t *testing.T) {
	r := New(44100)
	r.SetParameters(Parameters{RoomSize: 2, Damping: -1, WetLevel: 1.5, DryLevel: math.NaN(), Width: 3})

	p := r.Parameters()
	if p.RoomSize != 1 || p.Damping != 0 || p.WetLevel != 1 || p.DryLevel != 0 || p.Width != 1 {
		t.Errorf("parameters not clamped: %+v", p)
	}
}

func TestProcessStereo_Silence(t *testing.T) {
	r := New(44100)
	left := make([]float64, 2048)
	right := make([]float64, 2048)
	r.ProcessStereo(left, right)

	if energy(left) != 0 || energy(right) != 0 {
		t.Error("expected silence in, silence out")
	}
}

func TestProcessStereo_ImpulseTail(t *testing.T) {
	r := New(44100)
	r.SetParameters(Parameters{RoomSize: 0.8, Damping: 0.3, WetLevel: 0.7, Width: 1})

	left := impulse(44100)
	right := impulse(44100)
	r.ProcessStereo(left, right)

	// Nothing comes back before the shortest comb delay
	if energy(left[1:1000]) != 0 {
		t.Error("expected no output before the first comb delay")
	}
	if energy(left[1100:]) == 0 || energy(right[1100:]) == 0 {
		t.Error("expected a reverb tail on both channels")
	}
	// Stereo spread makes the channels differ
	same := true
	for i := range left {
		if left[i] != right[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected decorrelated left and right tails")
	}
}

func TestProcessStereo_DryOnly(t *testing.T) {
	r := New(44100)
	r.SetParameters(Parameters{DryLevel: 0.5})

	left := []float64{0.1, 0.2, -0.3}
	right := []float64{0.4, -0.5, 0.6}
	r.ProcessStereo(left, right)

	// dry 0.5 scales to unity gain
	want := []float64{0.1, 0.2, -0.3}
	for i := range want {
		if math.Abs(left[i]-want[i]) > 1e-12 {
			t.Errorf("index %d: expected %f, got %f", i, want[i], left[i])
		}
	}
}

func TestProcessMono(t *testing.T) {
	r := New(48000)
	r.SetParameters(Parameters{RoomSize: 0.5, Damping: 0.5, WetLevel: 0.5, Width: 1})

	buf := impulse(48000)
	r.ProcessMono(buf)
	if energy(buf[2000:]) == 0 {
		t.Error("expected mono reverb tail")
	}
}

func TestFreezeMode(t *testing.T) {
	r := New(44100)
	r.SetParameters(Parameters{RoomSize: 0.2, WetLevel: 0.5, FreezeMode: 1})

	// Frozen reverb takes no new input
	left := impulse(4096)
	right := impulse(4096)
	r.ProcessStereo(left, right)
	if energy(left) != 0 {
		t.Error("expected frozen reverb to ignore input")
	}
}

func TestReset(t *testing.T) {
	r := New(44100)
	r.SetParameters(Parameters{RoomSize: 0.9, WetLevel: 1, Width: 1})

	left := impulse(3000)
	right := impulse(3000)
	r.ProcessStereo(left, right)

	r.Reset()
	left = make([]float64, 3000)
	right = make([]float64, 3000)
	r.ProcessStereo(left, right)
	if energy(left) != 0 {
		t.Error("expected reset to clear the tail")
	}
}

func TestSetSampleRate_ScalesDelays(t *testing.T) {
	r := New(88200)
	if got := len(r.comb[0][0].buffer); got != 2232 {
		t.Errorf("expected first comb of 2232 samples at 88.2kHz, got %d", got)
	}
	if got := len(r.comb[1][0].buffer); got != 2*(1116+stereoSpread) {
		t.Errorf("expected spread right comb, got %d", got)
	}
	if r.SampleRate() != 88200 {
		t.Errorf("expected sample rate 88200, got %f", r.SampleRate())
	}
}
