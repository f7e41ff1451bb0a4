// ABOUTME: Freeverb-style stereo reverb engine
// ABOUTME: Eight damped combs and four all-passes per channel with a width matrix
package reverb

import "math"

const (
	numCombs     = 8
	numAllPasses = 4
	stereoSpread = 23

	fixedGain       = 0.015
	wetScaleFactor  = 3.0
	dryScaleFactor  = 2.0
	roomScaleFactor = 0.28
	roomOffset      = 0.7
	dampScaleFactor = 0.4

	tuningSampleRate = 44100.0
)

// Delay lengths in samples at 44.1kHz
var (
	combTunings    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allPassTunings = [numAllPasses]int{556, 441, 341, 225}
)

// Parameters controls the reverb. All values are 0-1.
type Parameters struct {
	RoomSize   float64
	Damping    float64
	WetLevel   float64
	DryLevel   float64
	Width      float64
	FreezeMode float64
}

// DefaultParameters returns a medium room with a mix of wet and dry
func DefaultParameters() Parameters {
	return Parameters{
		RoomSize:   0.5,
		Damping:    0.5,
		WetLevel:   0.33,
		DryLevel:   0.4,
		Width:      1.0,
		FreezeMode: 0,
	}
}

// Reverb is a two-channel Freeverb. Not safe for concurrent use.
type Reverb struct {
	params     Parameters
	sampleRate float64

	comb    [2][numCombs]*combFilter
	allPass [2][numAllPasses]*allPassFilter

	gain     float64
	wet1     float64
	wet2     float64
	dry      float64
	damping  float64
	feedback float64
}

// New creates a reverb tuned for sampleRate
func New(sampleRate float64) *Reverb {
	r := &Reverb{}
	r.SetSampleRate(sampleRate)
	r.SetParameters(DefaultParameters())
	return r
}

// SetSampleRate rebuilds the delay lines for a new rate, clearing state
func (r *Reverb) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = tuningSampleRate
	}
	r.sampleRate = sampleRate
	scale := sampleRate / tuningSampleRate

	for ch := 0; ch < 2; ch++ {
		spread := ch * stereoSpread
		for i, tuning := range combTunings {
			r.comb[ch][i] = newCombFilter(int(scale * float64(tuning+spread)))
		}
		for i, tuning := range allPassTunings {
			r.allPass[ch][i] = newAllPassFilter(int(scale * float64(tuning+spread)))
		}
	}
}

// SampleRate returns the rate the delay lines are tuned for
func (r *Reverb) SampleRate() float64 {
	return r.sampleRate
}

// SetParameters applies p, clamping each field to 0-1
func (r *Reverb) SetParameters(p Parameters) {
	p.RoomSize = clamp01(p.RoomSize)
	p.Damping = clamp01(p.Damping)
	p.WetLevel = clamp01(p.WetLevel)
	p.DryLevel = clamp01(p.DryLevel)
	p.Width = clamp01(p.Width)
	p.FreezeMode = clamp01(p.FreezeMode)
	r.params = p

	wet := p.WetLevel * wetScaleFactor
	r.dry = p.DryLevel * dryScaleFactor
	r.wet1 = 0.5 * wet * (1 + p.Width)
	r.wet2 = 0.5 * wet * (1 - p.Width)

	if r.frozen() {
		r.gain = 0
		r.damping = 0
		r.feedback = 1
	} else {
		r.gain = fixedGain
		r.damping = p.Damping * dampScaleFactor
		r.feedback = p.RoomSize*roomScaleFactor + roomOffset
	}
}

// Parameters returns the current (clamped) parameters
func (r *Reverb) Parameters() Parameters {
	return r.params
}

func (r *Reverb) frozen() bool {
	return r.params.FreezeMode >= 0.5
}

// Reset clears every delay line
func (r *Reverb) Reset() {
	for ch := 0; ch < 2; ch++ {
		for _, c := range r.comb[ch] {
			c.reset()
		}
		for _, a := range r.allPass[ch] {
			a.reset()
		}
	}
}

// ProcessStereo processes left and right in place. Both slices must be the
// same length; extra samples in the longer one are left untouched.
func (r *Reverb) ProcessStereo(left, right []float64) {
	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		input := (left[i] + right[i]) * r.gain
		outL, outR := 0.0, 0.0

		for j := 0; j < numCombs; j++ {
			outL += r.comb[0][j].process(input, r.damping, r.feedback)
			outR += r.comb[1][j].process(input, r.damping, r.feedback)
		}
		for j := 0; j < numAllPasses; j++ {
			outL = r.allPass[0][j].process(outL)
			outR = r.allPass[1][j].process(outR)
		}

		left[i] = outL*r.wet1 + outR*r.wet2 + left[i]*r.dry
		right[i] = outR*r.wet1 + outL*r.wet2 + right[i]*r.dry
	}
}

// ProcessMono processes a single channel in place using the left network
func (r *Reverb) ProcessMono(samples []float64) {
	for i := range samples {
		input := samples[i] * r.gain
		out := 0.0

		for j := 0; j < numCombs; j++ {
			out += r.comb[0][j].process(input, r.damping, r.feedback)
		}
		for j := 0; j < numAllPasses; j++ {
			out = r.allPass[0][j].process(out)
		}

		samples[i] = out*r.wet1 + samples[i]*r.dry
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
