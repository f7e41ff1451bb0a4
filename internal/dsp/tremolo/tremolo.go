// ABOUTME: Tremolo LFO producing a per-sample gain multiplier
// ABOUTME: Supports free-running, tempo-synced and rate-ramp modes
package tremolo

import "math"

const twoPi = 2 * math.Pi

// FallbackBPM is used by synced and ramped modes when the host reports no tempo
const FallbackBPM = 120.0

// Waveform selects the LFO shape
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
)

// String returns the waveform name
func (w Waveform) String() string {
	switch w {
	case Triangle:
		return "Triangle"
	case Square:
		return "Square"
	default:
		return "Sine"
	}
}

// divisionMultipliers maps a division index to LFO cycles per beat
var divisionMultipliers = [...]float64{
	0.125, // 2 bar
	0.25,  // 1 bar
	1,     // 1/1
	2,     // 1/2
	4,     // 1/4
	8,     // 1/8
	16,    // 1/16
	32,    // 1/32
	64,    // 1/64
}

// DivisionNames labels each division index
var DivisionNames = [...]string{"2 Bar", "1 Bar", "1/1", "1/2", "1/4", "1/8", "1/16", "1/32", "1/64"}

// MaxDivision is the largest valid division index
const MaxDivision = len(divisionMultipliers) - 1

// DivisionMultiplier returns cycles per beat for a division index, clamping
// out-of-range indices
func DivisionMultiplier(division int) float64 {
	return divisionMultipliers[clampDivision(division)]
}

func clampDivision(d int) int {
	if d < 0 {
		return 0
	}
	if d > MaxDivision {
		return MaxDivision
	}
	return d
}

// Params are the user-facing tremolo settings
type Params struct {
	Enabled         bool
	Depth           float64
	Rate            float64
	Waveform        Waveform
	SyncEnabled     bool
	SyncDivision    int
	RateRampEnabled bool
	StartDivision   int
	EndDivision     int
}

// DefaultParams returns tremolo settings for a fresh session
func DefaultParams() Params {
	return Params{
		Depth:         0.5,
		Rate:          4.0,
		Waveform:      Sine,
		SyncDivision:  2,
		StartDivision: 5,
		EndDivision:   7,
	}
}

// Transport is the host tempo and position for one block. The zero value
// means no host is attached.
type Transport struct {
	BPM     float64
	PPQ     float64
	HasBPM  bool
	HasPPQ  bool
	Playing bool
}

// hostBPM returns the host tempo when usable, else FallbackBPM
func (t Transport) hostBPM() float64 {
	if t.HasBPM && t.BPM > 0 {
		return t.BPM
	}
	return FallbackBPM
}

// LFO holds oscillator phase. Owned by the real-time context.
type LFO struct {
	sampleRate float64
	phase      float64
	lastPPQ    float64
	seenPPQ    bool
}

// NewLFO creates an LFO at sampleRate
func NewLFO(sampleRate float64) *LFO {
	return &LFO{sampleRate: sampleRate}
}

// SetSampleRate changes the rate used for phase increments
func (l *LFO) SetSampleRate(sampleRate float64) {
	l.sampleRate = sampleRate
}

// Reset returns the oscillator to phase zero and forgets the last host position
func (l *LFO) Reset() {
	l.phase = 0
	l.lastPPQ = 0
	l.seenPPQ = false
}

// Phase returns the current phase in radians
func (l *LFO) Phase() float64 {
	return l.phase
}

// Frequency picks the LFO rate in Hz. rampActive says whether a sample is
// loaded and playing; progress is playback progress in [0, 1].
func (p Params) Frequency(t Transport, progress float64, rampActive bool) float64 {
	switch {
	case p.RateRampEnabled && rampActive:
		return rampFrequency(p, t.hostBPM(), progress)
	case p.SyncEnabled:
		return t.hostBPM() / 60 * DivisionMultiplier(p.SyncDivision)
	default:
		return p.Rate
	}
}

func rampFrequency(p Params, bpm, progress float64) float64 {
	progress = math.Max(0, math.Min(1, progress))
	start := DivisionMultiplier(p.StartDivision)
	end := DivisionMultiplier(p.EndDivision)
	return bpm / 60 * (start + (end-start)*progress)
}

// Advance returns the gain for the current sample and steps the phase.
// The result lies in [1-depth, 1].
func (l *LFO) Advance(p Params, t Transport, progress float64, rampActive bool) float64 {
	freq := p.Frequency(t, progress, rampActive)

	// Re-lock to the host beat whenever its position moves
	if !(p.RateRampEnabled && rampActive) && p.SyncEnabled &&
		t.Playing && t.HasBPM && t.HasPPQ && (!l.seenPPQ || t.PPQ != l.lastPPQ) {
		mult := DivisionMultiplier(p.SyncDivision)
		l.phase = math.Mod(t.PPQ*mult, 1) * twoPi
		l.lastPPQ = t.PPQ
		l.seenPPQ = true
	}

	gain := Gain(p.Depth, Shape(p.Waveform, l.phase))
	l.phase = step(l.phase, freq, l.sampleRate)
	return gain
}

// Shape evaluates waveform w at phase (radians, 0 to 2π)
func Shape(w Waveform, phase float64) float64 {
	switch w {
	case Triangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	case Square:
		if phase < math.Pi {
			return 1
		}
		return -1
	default:
		return math.Sin(phase)
	}
}

// Gain maps an LFO value in [-1, 1] to a multiplier in [1-depth, 1]
func Gain(depth, lfo float64) float64 {
	return 1 - depth*0.5*(1-lfo)
}

func step(phase, freq, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return phase
	}
	phase += twoPi * freq / sampleRate
	if phase >= twoPi {
		phase = math.Mod(phase, twoPi)
	}
	return phase
}
