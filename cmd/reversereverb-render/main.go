// ABOUTME: Offline renderer for reverse reverb swells
// ABOUTME: Loads a sample, applies settings from flags and writes a WAV without a device
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/harperreed/reversereverb-go/internal/version"
	"github.com/harperreed/reversereverb-go/pkg/reversereverb"
)

// CLI defines the command-line interface
type CLI struct {
	Version    kong.VersionFlag `short:"v" help:"Show version information"`
	Input      string           `arg:"" type:"existingfile" help:"Sample to render (WAV, FLAC or MP3)"`
	Output     string           `short:"o" type:"path" help:"Output WAV path (default: named after the input, in the current directory)"`
	State      string           `type:"existingfile" help:"Settings file written by the sampler; its tempo, tail and width replace the flags"`
	SampleRate int              `default:"44100" env:"REVREVERB_SAMPLE_RATE" help:"Render sample rate"`
	BitDepth   int              `default:"24" help:"Output bit depth (16 or 24)"`
	BPM        float64          `name:"bpm" default:"120" help:"Tempo used to size the reverb tail"`
	Tail       int              `default:"3" help:"Tail length as a division index (0 = 8 bars, 8 = 1/32)"`
	Size       float64          `default:"1" help:"Room size (0-1)"`
	Mix        float64          `default:"1" help:"Reverb amount (0-1)"`
	Width      float64          `default:"0.5" help:"Stereo width (0 = mono, 0.5 = unchanged, 1 = widest)"`
	LowCut     float64          `default:"20" help:"High-pass cutoff in Hz (20 = off)"`
	Transition bool             `help:"Follow the reversed swell with the forward hit"`
	FadeIn     float64          `default:"0.05" help:"Fade-in as a fraction of the sample"`
	FadeOut    float64          `default:"0.05" help:"Fade-out as a fraction of the sample"`
	Debug      bool             `help:"Enable debug logging"`
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("reversereverb-render"),
		kong.Description("Render a reverse reverb swell from a one-shot sample"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cli.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	path, err := render(cli, logger)
	kctx.FatalIfErrorf(err)
	fmt.Println(path)
}

func render(cli *CLI, logger *logrus.Logger) (string, error) {
	proc := reversereverb.NewProcessor(reversereverb.Config{
		SampleRate:     cli.SampleRate,
		ExportBitDepth: cli.BitDepth,
		Logger:         logger,
	})
	defer func() { _ = proc.Close() }()

	proc.ApplySettings(cli.settings())

	if cli.State != "" {
		if err := loadState(proc, cli.State); err != nil {
			return "", err
		}
	}

	start := time.Now()
	if err := proc.LoadFile(cli.Input); err != nil {
		return "", err
	}
	logger.WithFields(logrus.Fields{
		"frames":  proc.ProcessedBuffer().Frames(),
		"tail":    proc.TailDurationSeconds(),
		"elapsed": time.Since(start),
	}).Info("rendered")

	out := cli.Output
	if out == "" {
		out = proc.ExportFileName(time.Now())
	}
	if filepath.Ext(out) == "" {
		out += ".wav"
	}
	if err := proc.Export(out); err != nil {
		return "", err
	}
	return out, nil
}

// settings maps the effect flags onto a settings snapshot
func (cli *CLI) settings() reversereverb.Settings {
	s := reversereverb.DefaultSettings()
	s.ManualBPM = cli.BPM
	s.TailDivision = cli.Tail
	s.ReverbSize = cli.Size
	s.ReverbMix = cli.Mix
	s.StereoWidth = cli.Width
	s.LowCutFreq = cli.LowCut
	s.TransitionMode = cli.Transition
	s.FadeIn = cli.FadeIn
	s.FadeOut = cli.FadeOut
	return s
}

func loadState(proc *reversereverb.Processor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return proc.LoadState(f)
}
