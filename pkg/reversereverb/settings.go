// ABOUTME: Effect and tremolo parameters for the processor
// ABOUTME: Copy-on-write settings snapshot with clamping setters
package reversereverb

import (
	"math"

	"github.com/harperreed/reversereverb-go/internal/dsp/tremolo"
	"github.com/harperreed/reversereverb-go/internal/transform"
)

// Parameter ranges
const (
	MinDryWet   = 0.0
	MaxDryWet   = 2.0
	MinBPM      = 20.0
	MaxBPM      = 300.0
	MinLowCut   = 20.0
	MaxLowCut   = 500.0
	MaxFade     = 0.5
	MinTremRate = 0.1
	MaxTremRate = 20.0
)

// Settings is one consistent set of effect parameters. The real-time path
// reads a snapshot; setters publish a new one.
type Settings struct {
	ReverbSize     float64
	ReverbMix      float64
	DryWet         float64
	TailDivision   int
	ManualBPM      float64
	StereoWidth    float64
	LowCutFreq     float64
	FadeIn         float64
	FadeOut        float64
	TransitionMode bool

	Tremolo tremolo.Params
}

// DefaultSettings returns the parameters of a fresh session
func DefaultSettings() Settings {
	return Settings{
		ReverbSize:   1.0,
		ReverbMix:    1.0,
		DryWet:       1.0,
		TailDivision: 3,
		ManualBPM:    120.0,
		StereoWidth:  0.5,
		LowCutFreq:   20.0,
		Tremolo:      tremolo.DefaultParams(),
	}
}

// Clamped returns s with every field forced into its valid range
func (s Settings) Clamped() Settings {
	s.ReverbSize = clamp(s.ReverbSize, 0, 1)
	s.ReverbMix = clamp(s.ReverbMix, 0, 1)
	s.DryWet = clamp(s.DryWet, MinDryWet, MaxDryWet)
	s.TailDivision = transform.ClampDivision(s.TailDivision)
	s.ManualBPM = clamp(s.ManualBPM, MinBPM, MaxBPM)
	s.StereoWidth = clamp(s.StereoWidth, 0, 1)
	s.LowCutFreq = clamp(s.LowCutFreq, MinLowCut, MaxLowCut)
	s.FadeIn = clamp(s.FadeIn, 0, MaxFade)
	s.FadeOut = clamp(s.FadeOut, 0, MaxFade)

	t := &s.Tremolo
	t.Depth = clamp(t.Depth, 0, 1)
	t.Rate = clamp(t.Rate, MinTremRate, MaxTremRate)
	t.Waveform = tremolo.Waveform(clampInt(int(t.Waveform), int(tremolo.Sine), int(tremolo.Square)))
	t.SyncDivision = clampInt(t.SyncDivision, 0, tremolo.MaxDivision)
	t.StartDivision = clampInt(t.StartDivision, 0, tremolo.MaxDivision)
	t.EndDivision = clampInt(t.EndDivision, 0, tremolo.MaxDivision)
	return s
}

// Settings returns a copy of the current parameters
func (p *Processor) Settings() Settings {
	return *p.settings.Load()
}

// ApplySettings replaces every parameter at once, clamped
func (p *Processor) ApplySettings(s Settings) {
	p.update(func(cur *Settings) { *cur = s.Clamped() })
}

func (p *Processor) update(fn func(*Settings)) {
	p.settingsMu.Lock()
	defer p.settingsMu.Unlock()
	next := *p.settings.Load()
	fn(&next)
	next = next.Clamped()
	p.settings.Store(&next)
}

// Changing these alters the processed sound; callers follow up with
// RequestTransform.

// SetReverbSize sets the room size (0 to 1)
func (p *Processor) SetReverbSize(v float64) {
	p.update(func(s *Settings) { s.ReverbSize = v })
}

// SetReverbMix sets how much reverb feeds the tail (0 to 1)
func (p *Processor) SetReverbMix(v float64) {
	p.update(func(s *Settings) { s.ReverbMix = v })
}

// SetTailDivision sets the tail length as a division index, 0 (8 bars) to 8 (1/32)
func (p *Processor) SetTailDivision(d int) {
	p.update(func(s *Settings) { s.TailDivision = d })
}

// SetManualBPM sets the tempo used when no host tempo applies
func (p *Processor) SetManualBPM(v float64) {
	p.update(func(s *Settings) { s.ManualBPM = v })
}

// SetStereoWidth sets the tail width. 0.5 leaves it unchanged.
func (p *Processor) SetStereoWidth(v float64) {
	p.update(func(s *Settings) { s.StereoWidth = v })
}

// SetLowCutFreq sets the high-pass cutoff in Hz; 20 turns it off
func (p *Processor) SetLowCutFreq(v float64) {
	p.update(func(s *Settings) { s.LowCutFreq = v })
}

// SetTransitionMode makes the swell run into the forward hit
func (p *Processor) SetTransitionMode(on bool) {
	p.update(func(s *Settings) { s.TransitionMode = on })
}

// Playback-only parameters take effect on the next block.

// SetDryWet sets the output gain (0 to 2)
func (p *Processor) SetDryWet(v float64) {
	p.update(func(s *Settings) { s.DryWet = v })
}

// SetFadeIn sets the fade-in as a fraction of the sample
func (p *Processor) SetFadeIn(v float64) {
	p.update(func(s *Settings) { s.FadeIn = v })
}

// SetFadeOut sets the fade-out as a fraction of the sample
func (p *Processor) SetFadeOut(v float64) {
	p.update(func(s *Settings) { s.FadeOut = v })
}

// SetTremolo turns the tremolo on or off
func (p *Processor) SetTremolo(on bool) {
	p.update(func(s *Settings) { s.Tremolo.Enabled = on })
}

// SetTremoloDepth sets the tremolo depth (0 to 1)
func (p *Processor) SetTremoloDepth(v float64) {
	p.update(func(s *Settings) { s.Tremolo.Depth = v })
}

// SetTremoloRate sets the free-running rate in Hz
func (p *Processor) SetTremoloRate(v float64) {
	p.update(func(s *Settings) { s.Tremolo.Rate = v })
}

// SetTremoloWaveform sets the LFO shape
func (p *Processor) SetTremoloWaveform(w tremolo.Waveform) {
	p.update(func(s *Settings) { s.Tremolo.Waveform = w })
}

// SetTremoloSync locks the tremolo rate to the tempo
func (p *Processor) SetTremoloSync(on bool) {
	p.update(func(s *Settings) { s.Tremolo.SyncEnabled = on })
}

// SetTremoloSyncDivision sets the synced note division
func (p *Processor) SetTremoloSyncDivision(d int) {
	p.update(func(s *Settings) { s.Tremolo.SyncDivision = d })
}

// SetTremoloRateRamp sweeps the rate from the start to the end division
// over the sample
func (p *Processor) SetTremoloRateRamp(on bool) {
	p.update(func(s *Settings) { s.Tremolo.RateRampEnabled = on })
}

// SetTremoloStartDivision sets the division the ramp starts from
func (p *Processor) SetTremoloStartDivision(d int) {
	p.update(func(s *Settings) { s.Tremolo.StartDivision = d })
}

// SetTremoloEndDivision sets the division the ramp ends on
func (p *Processor) SetTremoloEndDivision(d int) {
	p.update(func(s *Settings) { s.Tremolo.EndDivision = d })
}

// ReverbSize returns the room size
func (p *Processor) ReverbSize() float64 { return p.settings.Load().ReverbSize }

// ReverbMix returns the reverb amount
func (p *Processor) ReverbMix() float64 { return p.settings.Load().ReverbMix }

// DryWet returns the output gain
func (p *Processor) DryWet() float64 { return p.settings.Load().DryWet }

// TailDivision returns the tail division index
func (p *Processor) TailDivision() int { return p.settings.Load().TailDivision }

// ManualBPM returns the manual tempo
func (p *Processor) ManualBPM() float64 { return p.settings.Load().ManualBPM }

// StereoWidth returns the tail width
func (p *Processor) StereoWidth() float64 { return p.settings.Load().StereoWidth }

// LowCutFreq returns the high-pass cutoff in Hz
func (p *Processor) LowCutFreq() float64 { return p.settings.Load().LowCutFreq }

// FadeIn returns the fade-in fraction
func (p *Processor) FadeIn() float64 { return p.settings.Load().FadeIn }

// FadeOut returns the fade-out fraction
func (p *Processor) FadeOut() float64 { return p.settings.Load().FadeOut }

// TransitionMode reports whether the forward hit follows the swell
func (p *Processor) TransitionMode() bool { return p.settings.Load().TransitionMode }

// Tremolo returns the current tremolo parameters
func (p *Processor) Tremolo() tremolo.Params { return p.settings.Load().Tremolo }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
