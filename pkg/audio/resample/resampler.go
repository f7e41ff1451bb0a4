// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Converts whole planar buffers so loaded files match the engine rate
package resample

import "github.com/harperreed/reversereverb-go/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// OutputFrames calculates how many frames the conversion of inputFrames yields
func (r *Resampler) OutputFrames(inputFrames int) int {
	if inputFrames <= 0 {
		return 0
	}
	return int(float64(inputFrames) / r.ratio)
}

// Process converts a whole buffer. A buffer already at the output rate is
// returned as is.
func (r *Resampler) Process(in *audio.Buffer) *audio.Buffer {
	if r.inputRate == r.outputRate {
		return in
	}

	inFrames := in.Frames()
	outFrames := r.OutputFrames(inFrames)
	out := audio.NewBuffer(in.Channels(), outFrames, r.outputRate)

	for ch, src := range in.Samples {
		dst := out.Samples[ch]
		for i := range dst {
			pos := float64(i) * r.ratio
			idx := int(pos)
			if idx >= inFrames-1 {
				dst[i] = src[inFrames-1]
				continue
			}
			frac := pos - float64(idx)
			dst[i] = src[idx]*(1.0-frac) + src[idx+1]*frac
		}
	}

	return out
}

// Buffer converts buf to rate, a convenience for one-off conversions
func Buffer(buf *audio.Buffer, rate int) *audio.Buffer {
	if buf.SampleRate == rate || buf.SampleRate <= 0 || rate <= 0 {
		return buf
	}
	return New(buf.SampleRate, rate).Process(buf)
}
