// ABOUTME: Persisted parameter blob
// ABOUTME: Saves and restores a small versioned JSON settings document
package reversereverb

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	stateType    = "ReverseReverbSettings"
	stateVersion = 1
)

type stateDoc struct {
	Type         string   `json:"type"`
	Version      int      `json:"version"`
	ReverbSize   float64  `json:"reverbSize"`
	ReverbMix    float64  `json:"reverbMix"`
	DryWet       float64  `json:"dryWet"`
	TailDivision *int     `json:"tailDivision,omitempty"`
	ManualBPM    *float64 `json:"manualBpm,omitempty"`
	StereoWidth  *float64 `json:"stereoWidth,omitempty"`
}

// SaveState writes the persisted parameters to w
func (p *Processor) SaveState(w io.Writer) error {
	s := p.Settings()
	doc := stateDoc{
		Type:         stateType,
		Version:      stateVersion,
		ReverbSize:   s.ReverbSize,
		ReverbMix:    s.ReverbMix,
		DryWet:       s.DryWet,
		TailDivision: &s.TailDivision,
		ManualBPM:    &s.ManualBPM,
		StereoWidth:  &s.StereoWidth,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// LoadState restores parameters written by SaveState. Room size, mix and
// dry/wet always come back as 1.0 whatever was stored; tail division,
// manual BPM and stereo width are read, with defaults for missing keys.
// A document of the wrong type leaves the settings untouched.
func (p *Processor) LoadState(r io.Reader) error {
	var doc stateDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	if doc.Type != stateType {
		return fmt.Errorf("unexpected state type %q", doc.Type)
	}
	if doc.Version > stateVersion {
		return fmt.Errorf("unsupported state version %d", doc.Version)
	}

	defaults := DefaultSettings()
	p.update(func(s *Settings) {
		s.ReverbSize = 1.0
		s.ReverbMix = 1.0
		s.DryWet = 1.0

		s.TailDivision = defaults.TailDivision
		if doc.TailDivision != nil {
			s.TailDivision = *doc.TailDivision
		}
		s.ManualBPM = defaults.ManualBPM
		if doc.ManualBPM != nil {
			s.ManualBPM = *doc.ManualBPM
		}
		s.StereoWidth = defaults.StereoWidth
		if doc.StereoWidth != nil {
			s.StereoWidth = *doc.StereoWidth
		}
	})

	p.log.WithField("version", doc.Version).Debug("state restored")
	return nil
}
