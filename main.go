// ABOUTME: Entry point for the Reverse Reverb sampler
// ABOUTME: Parses CLI flags, opens the audio device and runs the control TUI
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/harperreed/reversereverb-go/internal/ui"
	"github.com/harperreed/reversereverb-go/internal/version"
	"github.com/harperreed/reversereverb-go/pkg/audio/output"
	"github.com/harperreed/reversereverb-go/pkg/reversereverb"
)

// CLI defines the command-line interface
type CLI struct {
	Version    kong.VersionFlag `short:"v" help:"Show version information"`
	File       string           `arg:"" optional:"" type:"existingfile" help:"Sample to load (WAV, FLAC or MP3)"`
	SampleRate int              `default:"44100" env:"REVREVERB_SAMPLE_RATE" help:"Output device sample rate"`
	BPM        float64          `name:"bpm" default:"120" env:"REVREVERB_BPM" help:"Tempo used to size the reverb tail"`
	Tail       int              `default:"3" env:"REVREVERB_TAIL" help:"Tail length as a division index (0 = 8 bars, 8 = 1/32)"`
	State      string           `type:"path" env:"REVREVERB_STATE" help:"Settings file to restore on start and save on quit"`
	LogFile    string           `default:"reversereverb.log" env:"REVREVERB_LOG_FILE" help:"Log file path"`
	NoTUI      bool             `name:"no-tui" help:"Disable TUI, trigger once and stream logs instead"`
	Debug      bool             `help:"Enable debug logging"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("reversereverb"),
		kong.Description("Turns a one-shot sample into a tempo-synced reverse reverb swell"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	useTUI := !cli.NoTUI

	// Set up logging
	f, err := os.OpenFile(cli.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cli.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if useTUI {
		// TUI mode: log only to file
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	logger.WithField("version", version.Version).Info("starting " + version.Product)

	// TUI setup
	var tuiProg *tea.Program
	var ctrl *ui.Control

	updateTUI := func(msg tea.Msg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	proc := reversereverb.NewProcessor(reversereverb.Config{
		SampleRate: cli.SampleRate,
		Logger:     logger,
		OnTransformComplete: func(s reversereverb.TransformStatus) {
			updateTUI(ui.TransformMsg{RunID: s.RunID, Frames: s.Frames, Err: s.Err})
		},
		OnError: func(err error) {
			logger.WithError(err).Error("processor error")
		},
	})
	defer func() {
		if err := proc.Close(); err != nil {
			logger.WithError(err).Warn("error closing processor")
		}
	}()

	if cli.State != "" {
		if err := restoreState(proc, cli.State); err != nil {
			logger.WithError(err).Warn("settings not restored")
		}
	}
	// Flags only override the restored tempo when given explicitly
	if cli.State == "" || flagSet("--bpm", "REVREVERB_BPM") {
		proc.SetManualBPM(cli.BPM)
	}
	if cli.State == "" || flagSet("--tail", "REVREVERB_TAIL") {
		proc.SetTailDivision(cli.Tail)
	}

	if cli.File != "" {
		if err := proc.LoadFile(cli.File); err != nil {
			logger.WithError(err).Error("failed to load sample")
			if !useTUI {
				os.Exit(1)
			}
		}
	}

	out := output.NewOto(logrus.NewEntry(logger))
	if err := out.Open(proc.SampleRate(), 2, proc.Source()); err != nil {
		logger.WithError(err).Fatal("failed to open audio output")
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.WithError(err).Warn("error closing audio output")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if useTUI {
		ctrl = ui.NewControl()
		tuiProg, err = ui.Run(proc, ctrl)
		if err != nil {
			logger.WithError(err).Fatal("failed to start TUI")
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				logger.WithError(err).Error("TUI exited")
			}
		}()
		go handleVolumeControl(ctx, out, ctrl, logger)
		go statusUpdateLoop(ctx, proc, updateTUI)
	} else if proc.IsSampleLoaded() {
		proc.Trigger()
	}
	// The scheduler reports through updateTUI, so start it once tuiProg is set
	proc.Start(ctx)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if ctrl != nil {
		select {
		case <-ctrl.Quit:
			logger.Info("received quit signal from TUI")
		case <-sigChan:
			logger.Info("shutdown signal received")
			tuiProg.Quit()
		}
	} else {
		<-sigChan
		logger.Info("shutdown signal received")
	}

	if cli.State != "" {
		if err := saveState(proc, cli.State); err != nil {
			logger.WithError(err).Error("failed to save settings")
		}
	}
	logger.Info("sampler stopped")
}

// flagSet reports whether a flag was passed on the command line or through
// its environment variable
func flagSet(flag, env string) bool {
	if _, ok := os.LookupEnv(env); ok {
		return true
	}
	for _, arg := range os.Args[1:] {
		if arg == flag || strings.HasPrefix(arg, flag+"=") {
			return true
		}
	}
	return false
}

func restoreState(proc *reversereverb.Processor, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return proc.LoadState(f)
}

func saveState(proc *reversereverb.Processor, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := proc.SaveState(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// handleVolumeControl applies volume changes from the TUI to the device
func handleVolumeControl(ctx context.Context, out *output.Oto, ctrl *ui.Control, logger *logrus.Logger) {
	for {
		select {
		case vol := <-ctrl.Volume:
			logger.WithFields(logrus.Fields{
				"volume": vol.Volume,
				"muted":  vol.Muted,
			}).Debug("volume change")
			out.SetVolume(vol.Volume)
			out.SetMuted(vol.Muted)
		case <-ctx.Done():
			return
		}
	}
}

// statusUpdateLoop periodically pushes sample and playhead state to the TUI
func statusUpdateLoop(ctx context.Context, proc *reversereverb.Processor, updateTUI func(tea.Msg)) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loaded := proc.IsSampleLoaded()
			playing := proc.IsPlaying()
			transforming := proc.IsTransforming() || proc.TransformPending()

			msg := ui.StatusMsg{
				Loaded:       &loaded,
				FileName:     proc.LoadedFileName(),
				SampleRate:   proc.SampleRate(),
				Playing:      &playing,
				Transforming: &transforming,
				Progress:     proc.PlaybackProgress(),
				BPM:          proc.EffectiveBPM(),
				TailSeconds:  proc.TailDurationSeconds(),
			}
			if buf := proc.ProcessedBuffer(); buf != nil {
				msg.Frames = buf.Frames()
			}
			updateTUI(msg)
		}
	}
}
