// ABOUTME: Editable parameter rows for the control surface
// ABOUTME: Maps each row to a settings field, a step size and a reprocess flag
package ui

import (
	"fmt"

	"github.com/harperreed/reversereverb-go/internal/dsp/tremolo"
	"github.com/harperreed/reversereverb-go/internal/transform"
	"github.com/harperreed/reversereverb-go/pkg/reversereverb"
)

// param is one adjustable row. step moves the value by dir (+1 or -1).
// Rows with reprocess set change the rendered sound and need a transform.
type param struct {
	label     string
	value     func(s reversereverb.Settings) string
	step      func(s *reversereverb.Settings, dir int)
	reprocess bool
}

var params = []param{
	{
		label:     "Reverb Size",
		value:     func(s reversereverb.Settings) string { return percent(s.ReverbSize) },
		step:      func(s *reversereverb.Settings, dir int) { s.ReverbSize += 0.05 * float64(dir) },
		reprocess: true,
	},
	{
		label:     "Tail",
		value:     func(s reversereverb.Settings) string { return transform.DivisionNames[s.TailDivision] },
		step:      func(s *reversereverb.Settings, dir int) { s.TailDivision -= dir },
		reprocess: true,
	},
	{
		label:     "BPM",
		value:     func(s reversereverb.Settings) string { return fmt.Sprintf("%.0f", s.ManualBPM) },
		step:      func(s *reversereverb.Settings, dir int) { s.ManualBPM += float64(dir) },
		reprocess: true,
	},
	{
		label:     "Width",
		value:     func(s reversereverb.Settings) string { return percent(s.StereoWidth) },
		step:      func(s *reversereverb.Settings, dir int) { s.StereoWidth += 0.05 * float64(dir) },
		reprocess: true,
	},
	{
		label:     "Low Cut",
		value:     func(s reversereverb.Settings) string { return lowCutLabel(s.LowCutFreq) },
		step:      func(s *reversereverb.Settings, dir int) { s.LowCutFreq += 10 * float64(dir) },
		reprocess: true,
	},
	{
		label:     "Transition",
		value:     func(s reversereverb.Settings) string { return onOff(s.TransitionMode) },
		step:      func(s *reversereverb.Settings, _ int) { s.TransitionMode = !s.TransitionMode },
		reprocess: true,
	},
	{
		label: "Output",
		value: func(s reversereverb.Settings) string { return percent(s.DryWet) },
		step:  func(s *reversereverb.Settings, dir int) { s.DryWet += 0.05 * float64(dir) },
	},
	{
		label: "Fade In",
		value: func(s reversereverb.Settings) string { return percent(s.FadeIn) },
		step:  func(s *reversereverb.Settings, dir int) { s.FadeIn += 0.01 * float64(dir) },
	},
	{
		label: "Fade Out",
		value: func(s reversereverb.Settings) string { return percent(s.FadeOut) },
		step:  func(s *reversereverb.Settings, dir int) { s.FadeOut += 0.01 * float64(dir) },
	},
	{
		label: "Tremolo",
		value: func(s reversereverb.Settings) string { return onOff(s.Tremolo.Enabled) },
		step:  func(s *reversereverb.Settings, _ int) { s.Tremolo.Enabled = !s.Tremolo.Enabled },
	},
	{
		label: "Trem Depth",
		value: func(s reversereverb.Settings) string { return percent(s.Tremolo.Depth) },
		step:  func(s *reversereverb.Settings, dir int) { s.Tremolo.Depth += 0.05 * float64(dir) },
	},
	{
		label: "Trem Rate",
		value: func(s reversereverb.Settings) string { return tremRateLabel(s.Tremolo) },
		step:  stepTremRate,
	},
	{
		label: "Trem Shape",
		value: func(s reversereverb.Settings) string { return s.Tremolo.Waveform.String() },
		step: func(s *reversereverb.Settings, dir int) {
			s.Tremolo.Waveform = tremolo.Waveform((int(s.Tremolo.Waveform) + dir + 3) % 3)
		},
	},
	{
		label: "Trem Sync",
		value: func(s reversereverb.Settings) string { return onOff(s.Tremolo.SyncEnabled) },
		step:  func(s *reversereverb.Settings, _ int) { s.Tremolo.SyncEnabled = !s.Tremolo.SyncEnabled },
	},
	{
		label: "Rate Ramp",
		value: func(s reversereverb.Settings) string { return rampLabel(s.Tremolo) },
		step:  func(s *reversereverb.Settings, _ int) { s.Tremolo.RateRampEnabled = !s.Tremolo.RateRampEnabled },
	},
	{
		label: "Ramp Start",
		value: func(s reversereverb.Settings) string { return tremolo.DivisionNames[s.Tremolo.StartDivision] },
		step:  func(s *reversereverb.Settings, dir int) { s.Tremolo.StartDivision += dir },
	},
	{
		label: "Ramp End",
		value: func(s reversereverb.Settings) string { return tremolo.DivisionNames[s.Tremolo.EndDivision] },
		step:  func(s *reversereverb.Settings, dir int) { s.Tremolo.EndDivision += dir },
	},
}

// stepTremRate moves the free rate in Hz, or the synced division when sync is on
func stepTremRate(s *reversereverb.Settings, dir int) {
	if s.Tremolo.SyncEnabled {
		s.Tremolo.SyncDivision += dir
		return
	}
	s.Tremolo.Rate += 0.1 * float64(dir)
}

func tremRateLabel(t tremolo.Params) string {
	if t.SyncEnabled {
		return tremolo.DivisionNames[t.SyncDivision]
	}
	return fmt.Sprintf("%.1f Hz", t.Rate)
}

func rampLabel(t tremolo.Params) string {
	if !t.RateRampEnabled {
		return "Off"
	}
	return fmt.Sprintf("%s > %s", tremolo.DivisionNames[t.StartDivision], tremolo.DivisionNames[t.EndDivision])
}

func lowCutLabel(freq float64) string {
	if freq <= reversereverb.MinLowCut {
		return "Off"
	}
	return fmt.Sprintf("%.0f Hz", freq)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
