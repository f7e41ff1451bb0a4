// ABOUTME: Export of the processed sample to WAV
// ABOUTME: Bakes the playback fades into a copy and writes it at the processor rate
package reversereverb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/harperreed/reversereverb-go/pkg/audio/encode"
)

// Export writes the processed sample with fades applied to path as a WAV
// file. An existing file at path is replaced.
func (p *Processor) Export(path string) error {
	src := p.processed.Load()
	if src.Frames() == 0 || src.Channels() == 0 {
		return fmt.Errorf("%w: %w", ErrExport, ErrNoSample)
	}

	buf := src.Clone()
	buf.SampleRate = p.config.SampleRate

	s := p.Settings()
	if s.FadeIn > 0 || s.FadeOut > 0 {
		curve := FadeCurve(buf.Frames(), s.FadeIn, s.FadeOut)
		for _, ch := range buf.Samples {
			vecmath.MulBlockInPlace(ch, curve)
		}
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	if err := encode.WriteFile(path, buf, p.config.ExportBitDepth); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}

	p.log.WithFields(logrus.Fields{
		"path":     path,
		"frames":   buf.Frames(),
		"channels": buf.Channels(),
		"bits":     p.config.ExportBitDepth,
	}).Info("sample exported")
	return nil
}

// ExportTo is Export reporting only success
func (p *Processor) ExportTo(path string) bool {
	if err := p.Export(path); err != nil {
		p.log.WithError(err).Warn("export failed")
		return false
	}
	return true
}

// ExportFileName names an export after the loaded file, or after now when
// the sample has no name
func (p *Processor) ExportFileName(now time.Time) string {
	if name := p.LoadedFileName(); name != "" {
		return "Reverse Reverb - " + name + ".wav"
	}
	return "ReverseReverb_" + now.Format("20060102_150405") + ".wav"
}

// ExportTemp exports into the system temp directory under ExportFileName
// and returns the written path
func (p *Processor) ExportTemp(now time.Time) (string, error) {
	path := filepath.Join(os.TempDir(), p.ExportFileName(now))
	if err := p.Export(path); err != nil {
		return "", err
	}
	return path, nil
}

// FadeCurve returns FadeGain for every frame of a sample of the given length
func FadeCurve(frames int, fadeIn, fadeOut float64) []float64 {
	curve := make([]float64, frames)
	for i := range curve {
		curve[i] = FadeGain(float64(i)/float64(frames), fadeIn, fadeOut)
	}
	return curve
}
