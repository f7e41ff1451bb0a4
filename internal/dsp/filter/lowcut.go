// ABOUTME: One-pole high-pass used as the final low-cut stage
// ABOUTME: Runs independently per channel with state reset on every call
package filter

import "math"

// MinLowCut is the cutoff at or below which the filter is bypassed
const MinLowCut = 20.0

// OnePoleHighPass is a first-order RC high-pass
type OnePoleHighPass struct {
	alpha   float64
	prevIn  float64
	prevOut float64
}

// NewOnePoleHighPass creates a high-pass at cutoff Hz
func NewOnePoleHighPass(cutoff, sampleRate float64) *OnePoleHighPass {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	return &OnePoleHighPass{alpha: rc / (rc + dt)}
}

// Alpha returns the filter coefficient
func (f *OnePoleHighPass) Alpha() float64 {
	return f.alpha
}

// Reset clears the filter history
func (f *OnePoleHighPass) Reset() {
	f.prevIn = 0
	f.prevOut = 0
}

// Process filters samples in place
func (f *OnePoleHighPass) Process(samples []float64) {
	for i, x := range samples {
		y := f.alpha * (f.prevOut + x - f.prevIn)
		f.prevIn = x
		f.prevOut = y
		samples[i] = y
	}
}

// LowCut high-passes every channel at freq. Cutoffs at or below MinLowCut
// and invalid sample rates leave the audio untouched. Returns whether the
// filter ran.
func LowCut(channels [][]float64, freq float64, sampleRate int) bool {
	if freq <= MinLowCut || sampleRate <= 0 {
		return false
	}
	hp := NewOnePoleHighPass(freq, float64(sampleRate))
	for _, ch := range channels {
		hp.Reset()
		hp.Process(ch)
	}
	return true
}
