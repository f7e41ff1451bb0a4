// ABOUTME: Oto-based audio output implementation
// ABOUTME: Pulls float32 blocks from a BlockSource with software volume control
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// otoBufferDuration is the device buffer oto is asked to keep
const otoBufferDuration = 20 * time.Millisecond

// Oto output implementation using the oto library
type Oto struct {
	mu         sync.Mutex // setup and control only, never held in Read
	otoCtx     *oto.Context
	player     *oto.Player
	reader     *blockReader
	sampleRate int
	channels   int
	log        *logrus.Entry
}

// NewOto creates a new Oto output that logs device events to log. A nil log
// falls back to the standard logger.
func NewOto(log *logrus.Entry) *Oto {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Oto{log: log.WithField("component", "output")}
}

// Open initializes the device and starts pulling from src
func (o *Oto) Open(sampleRate, channels int, src BlockSource) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid output format: %dHz %dch", sampleRate, channels)
	}

	// oto allows a single context per process; a format change keeps the old one
	if o.otoCtx != nil {
		if o.sampleRate != sampleRate || o.channels != channels {
			o.log.WithFields(logrus.Fields{
				"from": fmt.Sprintf("%dHz %dch", o.sampleRate, o.channels),
				"to":   fmt.Sprintf("%dHz %dch", sampleRate, channels),
			}).Warn("oto cannot be reinitialized, keeping existing context")
		}
		o.reader.setSource(src)
		if o.player == nil {
			o.player = o.otoCtx.NewPlayer(o.reader)
			o.player.Play()
		}
		return o.otoCtx.Resume()
	}

	ctx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   otoBufferDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels
	o.reader = newBlockReader(channels)
	o.reader.setSource(src)

	o.player = o.otoCtx.NewPlayer(o.reader)
	o.player.Play()

	o.log.WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"channels":    channels,
	}).Info("audio output initialized")

	return nil
}

// Close stops playback and suspends the device
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.reader != nil {
		o.reader.setSource(nil)
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			o.log.WithError(err).Warn("oto player close failed")
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.reader != nil {
		o.reader.setVolume(volume)
	}
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.reader != nil {
		o.reader.muted.Store(muted)
	}
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.reader == nil {
		return 100
	}
	return o.reader.Volume()
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reader != nil && o.reader.muted.Load()
}
