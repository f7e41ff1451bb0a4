// ABOUTME: Real-time playback of the processed sample
// ABOUTME: Block callback with MIDI triggering, fades, output gain and tremolo
package reversereverb

import (
	"math"

	"github.com/harperreed/reversereverb-go/internal/dsp/tremolo"
	"github.com/harperreed/reversereverb-go/internal/midi"
	"github.com/harperreed/reversereverb-go/pkg/audio/output"
)

const (
	outputCeiling = 0.99
	denormalFloor = 1e-10
)

// Trigger starts the processed sample from the top. It does nothing when
// no sample is loaded.
func (p *Processor) Trigger() {
	if !p.IsSampleLoaded() {
		return
	}
	p.movePlayhead(func() {
		p.position.Store(0)
		p.rampCounter.Store(0)
		p.playing.Store(true)
	})
}

// Stop silences playback at the next block
func (p *Processor) Stop() {
	p.movePlayhead(func() {
		p.playing.Store(false)
	})
}

// ProcessBlock renders one block of output. out is planar, one slice per
// device channel, all the same length. It never allocates, and the only
// wait is on a control-side playhead write (MIDI events only).
func (p *Processor) ProcessBlock(out [][]float32, events []midi.Event, transport tremolo.Transport) {
	for _, ch := range out {
		clear(ch)
	}

	for _, e := range events {
		switch {
		case midi.IsNoteOn(e):
			p.Trigger()
		case midi.IsNoteOff(e):
			p.Stop()
		}
	}

	gen := p.generation.Load()
	playing := p.playing.Load()
	buf := p.processed.Load()
	total := int64(buf.Frames())
	if !playing || total == 0 || buf.Channels() == 0 || len(out) == 0 {
		return
	}

	s := p.settings.Load()
	frames := len(out[0])
	channels := min(len(out), buf.Channels())
	pos := p.position.Load()
	counter := p.rampCounter.Load()

	for i := 0; i < frames; i++ {
		// A Stop from the control side silences the rest of the block
		if !playing || pos < 0 || pos >= total || !p.playing.Load() {
			playing = false
			counter = 0
			continue
		}

		fade := FadeGain(float64(pos)/float64(total), s.FadeIn, s.FadeOut)
		for ch := 0; ch < channels; ch++ {
			v := buf.Samples[ch][pos]
			if math.Abs(v) < denormalFloor {
				v = 0
			}
			v *= fade * s.DryWet
			out[ch][i] = float32(math.Max(-outputCeiling, math.Min(outputCeiling, v)))
		}
		pos++
	}

	if s.Tremolo.Enabled && playing {
		t := p.lfoTransport(transport)
		for i := 0; i < frames; i++ {
			if !p.playing.Load() {
				break
			}
			// Ramp progress runs on its own counter, which keeps counting
			// across loops of the sample
			progress := float64(counter) / float64(total)
			g := float32(p.lfo.Advance(s.Tremolo, t, progress, true))
			for ch := 0; ch < channels; ch++ {
				out[ch][i] *= g
			}
			if s.Tremolo.RateRampEnabled {
				counter++
				if counter >= total {
					counter = 0
				}
			}
		}
	}

	// Skip the write-back if the control side moved the playhead meanwhile.
	// Winning the CAS locks control writers out until the stores are done.
	if gen%2 != 0 || !p.generation.CompareAndSwap(gen, gen+1) {
		return
	}
	p.position.Store(pos)
	p.rampCounter.Store(counter)
	if !playing {
		p.playing.Store(false)
	}
	p.generation.Store(gen + 2)
}

// lfoTransport feeds the LFO the effective tempo. Standalone sessions and
// hosts without a valid tempo run at the manual BPM with no beat position.
func (p *Processor) lfoTransport(host tremolo.Transport) tremolo.Transport {
	if p.config.Hosted && host.HasBPM && host.BPM > 0 {
		return host
	}
	return tremolo.Transport{BPM: p.settings.Load().ManualBPM, HasBPM: true}
}

// FadeGain is the cubic fade multiplier at frac (0 to 1) through the sample
func FadeGain(frac, fadeIn, fadeOut float64) float64 {
	gain := 1.0
	if fadeIn > 0 && frac < fadeIn {
		x := frac / fadeIn
		gain *= x * x * x
	}
	if fadeOut > 0 && frac > 1-fadeOut {
		x := (1 - frac) / fadeOut
		gain *= x * x * x
	}
	return gain
}

// Source adapts the processor to an output device. Blocks carry no MIDI and
// use the transport last given to SetHostTransport.
func (p *Processor) Source() output.BlockSource {
	return blockSource{p: p}
}

type blockSource struct {
	p *Processor
}

// ProcessBlock renders a block with no MIDI
func (b blockSource) ProcessBlock(out [][]float32) {
	b.p.ProcessBlock(out, nil, *b.p.host.Load())
}
