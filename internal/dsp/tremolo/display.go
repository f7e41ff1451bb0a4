// ABOUTME: Offline tremolo gain curve for waveform previews
// ABOUTME: Replays the LFO over a whole buffer at a fixed tempo
package tremolo

import vecmath "github.com/cwbudde/algo-vecmath"

// RenderGainCurve returns the tremolo gain for each of frames samples.
// No host is available at preview time, so synced and ramped modes assume
// FallbackBPM and the phase starts at zero.
func RenderGainCurve(p Params, frames int, sampleRate float64) []float64 {
	if frames <= 0 {
		return nil
	}
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	curve := make([]float64, frames)
	phase := 0.0
	for i := range curve {
		var freq float64
		switch {
		case p.RateRampEnabled:
			freq = rampFrequency(p, FallbackBPM, float64(i)/float64(frames))
		case p.SyncEnabled:
			freq = FallbackBPM / 60 * DivisionMultiplier(p.SyncDivision)
		default:
			freq = p.Rate
		}

		curve[i] = Gain(p.Depth, Shape(p.Waveform, phase))
		phase = step(phase, freq, sampleRate)
	}
	return curve
}

// ApplyGainCurve multiplies every channel by curve in place
func ApplyGainCurve(channels [][]float64, curve []float64) {
	for _, ch := range channels {
		n := min(len(ch), len(curve))
		vecmath.MulBlockInPlace(ch[:n], curve[:n])
	}
}
