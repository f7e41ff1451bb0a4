// ABOUTME: Offline reverse-reverb pipeline
// ABOUTME: Normalize, reverb tail, width, soft clip, reverse or blend, low cut, normalize
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/reversereverb-go/internal/dsp/filter"
	"github.com/harperreed/reversereverb-go/internal/dsp/reverb"
	"github.com/harperreed/reversereverb-go/internal/dsp/stereo"
	"github.com/harperreed/reversereverb-go/pkg/audio"
)

// ErrTransform wraps every pipeline failure
var ErrTransform = errors.New("transform failed")

const (
	// ChunkSize is the block size fed to the reverb engine
	ChunkSize = 512

	inputHeadroom   = 0.5
	outputTarget    = 0.707
	silenceFloor    = 0.001
	softClipKnee    = 0.95
	softClipRange   = 0.05
	denormalFloor   = 1e-10
	maxForwardTail  = 4.0
	tailFeedbackDiv = 10.0
)

// Params are the sound-shaping inputs to a run
type Params struct {
	RoomSize       float64
	Mix            float64
	StereoWidth    float64
	LowCutFreq     float64
	TransitionMode bool
	TailSeconds    float64
}

// Result is a finished transform plus the values it derived along the way
type Result struct {
	Buffer *audio.Buffer

	TailSeconds    float64
	Reverb         reverb.Parameters
	TailFrames     int
	ReversedFrames int
	ForwardFrames  int
	Overlap        int
	LowCutApplied  bool
	InputPeak      float64
}

// Derive maps user parameters onto reverb engine settings. Longer tails
// get a bigger room and less damping.
func Derive(p Params) reverb.Parameters {
	feedback := clamp(p.TailSeconds/tailFeedbackDiv, 0, 1)
	return reverb.Parameters{
		RoomSize:   clamp(p.RoomSize+feedback*0.3, 0, 1),
		Damping:    clamp(0.5-feedback*0.3, 0.1, 0.9),
		WetLevel:   clamp(p.Mix, 0, 1) * 0.7,
		DryLevel:   0,
		Width:      p.StereoWidth,
		FreezeMode: 0,
	}
}

// Run executes the full pipeline on in. in is not modified. Any failure,
// including a panic inside a stage, comes back as an error wrapping
// ErrTransform and no partial buffer is returned.
func Run(in *audio.Buffer, p Params) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrTransform, r)
		}
	}()

	if err := validate(in); err != nil {
		return nil, err
	}

	tail, settings, inputPeak, err := renderTail(in, p)
	if err != nil {
		return nil, err
	}

	res = &Result{
		TailSeconds: p.TailSeconds,
		Reverb:      settings,
		TailFrames:  tailFrames(p.TailSeconds, in.SampleRate),
		InputPeak:   inputPeak,
	}

	tail.Reverse()
	res.ReversedFrames = tail.Frames()

	out := tail
	if p.TransitionMode {
		forward := RenderForward(in, p)
		out, res.Overlap = blend(tail, forward)
		res.ForwardFrames = forward.Frames()
	}

	res.LowCutApplied = filter.LowCut(out.Samples, p.LowCutFreq, out.SampleRate)
	normalize(out, outputTarget)

	if err := checkFinite(out); err != nil {
		return nil, err
	}

	res.Buffer = out
	return res, nil
}

// RenderTail runs the forward half of the pipeline: normalize, extend,
// reverb, width and soft clip. The result is always stereo and not yet
// reversed.
func RenderTail(in *audio.Buffer, p Params) (*audio.Buffer, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	tail, _, _, err := renderTail(in, p)
	return tail, err
}

func renderTail(in *audio.Buffer, p Params) (*audio.Buffer, reverb.Parameters, float64, error) {
	work := in.Clone()
	work.TrimChannels(audio.MaxChannels)

	peak := work.Peak()
	normalize(work, inputHeadroom)

	settings := Derive(p)
	engine := reverb.New(float64(in.SampleRate))
	engine.SetParameters(settings)

	work.Extend(tailFrames(p.TailSeconds, in.SampleRate))
	work = toStereo(work)

	left, right := work.Samples[0], work.Samples[1]
	for pos := 0; pos < len(left); pos += ChunkSize {
		end := min(pos+ChunkSize, len(left))
		engine.ProcessStereo(left[pos:end], right[pos:end])
	}

	stereo.ApplyWidth(left, right, p.StereoWidth, in.SampleRate)
	softClip(work)

	return work, settings, peak, nil
}

// RenderForward reverberates the untouched input with the same settings as
// the tail, extended by at most maxForwardTail seconds of silence
func RenderForward(in *audio.Buffer, p Params) *audio.Buffer {
	fwd := in.Clone()
	fwd.TrimChannels(audio.MaxChannels)

	engine := reverb.New(float64(in.SampleRate))
	engine.SetParameters(Derive(p))

	fwd.Extend(tailFrames(math.Min(p.TailSeconds, maxForwardTail), in.SampleRate))

	if fwd.Channels() == 1 {
		engine.ProcessMono(fwd.Samples[0])
	} else {
		engine.ProcessStereo(fwd.Samples[0], fwd.Samples[1])
	}
	return fwd
}

// blend lays forward over the end of reversed with a smoothstep crossfade
// and returns the combined buffer and the overlap length
func blend(reversed, forward *audio.Buffer) (*audio.Buffer, int) {
	lenRev := reversed.Frames()
	lenFwd := forward.Frames()
	overlap := min(lenFwd/2, lenRev/2)
	total := lenRev + lenFwd - overlap
	start := lenRev - overlap

	out := audio.NewBuffer(reversed.Channels(), total, reversed.SampleRate)
	for ch := range out.Samples {
		copy(out.Samples[ch], reversed.Samples[ch])
	}

	channels := min(out.Channels(), forward.Channels())
	for ch := 0; ch < channels; ch++ {
		dst := out.Samples[ch]
		src := forward.Samples[ch]
		for i, s := range src {
			w := 1.0
			if i < overlap {
				w = smoothstep(float64(i) / float64(overlap))
			}
			dst[start+i] = dst[start+i]*(1-w) + s*w
		}
	}
	return out, overlap
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// toStereo duplicates a mono buffer into two channels
func toStereo(buf *audio.Buffer) *audio.Buffer {
	if buf.Channels() >= 2 {
		return buf
	}
	right := make([]float64, buf.Frames())
	copy(right, buf.Samples[0])
	buf.Samples = append(buf.Samples, right)
	return buf
}

func softClip(buf *audio.Buffer) {
	for _, ch := range buf.Samples {
		for i, s := range ch {
			if s > softClipKnee {
				s = softClipKnee + softClipRange*math.Tanh((s-softClipKnee)/softClipRange)
			} else if s < -softClipKnee {
				s = -softClipKnee + softClipRange*math.Tanh((s+softClipKnee)/softClipRange)
			}
			if math.Abs(s) < denormalFloor {
				s = 0
			}
			ch[i] = s
		}
	}
}

// normalize scales buf so its peak sits at target; near-silent buffers are
// left alone
func normalize(buf *audio.Buffer, target float64) {
	if peak := buf.Peak(); peak > silenceFloor {
		buf.ApplyGain(target / peak)
	}
}

func tailFrames(seconds float64, sampleRate int) int {
	n := int(seconds * float64(sampleRate))
	if n < 0 {
		return 0
	}
	return n
}

func validate(in *audio.Buffer) error {
	switch {
	case in == nil:
		return fmt.Errorf("%w: no input", ErrTransform)
	case in.Channels() == 0 || in.Frames() == 0:
		return fmt.Errorf("%w: empty input", ErrTransform)
	case in.SampleRate <= 0:
		return fmt.Errorf("%w: invalid sample rate %d", ErrTransform, in.SampleRate)
	}
	return nil
}

func checkFinite(buf *audio.Buffer) error {
	for ch, samples := range buf.Samples {
		for i, s := range samples {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return fmt.Errorf("%w: non-finite sample at channel %d frame %d", ErrTransform, ch, i)
			}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
