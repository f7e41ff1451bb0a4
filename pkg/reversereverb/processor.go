// ABOUTME: High-level Processor API for the reverse reverb sampler
// ABOUTME: Owns the loaded sample, runs transforms and exposes playback state
package reversereverb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harperreed/reversereverb-go/internal/dsp/tremolo"
	"github.com/harperreed/reversereverb-go/internal/transform"
	"github.com/harperreed/reversereverb-go/pkg/audio"
	"github.com/harperreed/reversereverb-go/pkg/audio/decode"
	"github.com/harperreed/reversereverb-go/pkg/audio/resample"
)

var (
	// ErrLoad is returned when a sample cannot be loaded
	ErrLoad = errors.New("load failed")

	// ErrTransform is returned when the reverse reverb pipeline fails
	ErrTransform = transform.ErrTransform

	// ErrExport is returned when the processed sample cannot be written
	ErrExport = errors.New("export failed")

	// ErrNoSample means there is nothing loaded or processed to work on
	ErrNoSample = errors.New("no sample loaded")
)

// Config holds processor configuration
type Config struct {
	// SampleRate is the device rate; loaded files are resampled to it (default: 44100)
	SampleRate int

	// MaxDuration is the longest file LoadFile accepts (default: 8s)
	MaxDuration time.Duration

	// ExportBitDepth is the WAV bit depth for Export (default: 24)
	ExportBitDepth int

	// Hosted makes EffectiveBPM follow the host transport when it has a
	// valid tempo. Standalone sessions always use the manual BPM.
	Hosted bool

	// TransformThrottle is how often the scheduler looks for a pending
	// transform request (default: 150ms)
	TransformThrottle time.Duration

	// Logger receives lifecycle logs (default: logrus.StandardLogger())
	Logger *logrus.Logger

	// OnTransformComplete is called after every scheduled transform
	OnTransformComplete func(TransformStatus)

	// OnError is called when a background operation fails
	OnError func(error)
}

// TransformStatus reports the outcome of one transform run
type TransformStatus struct {
	RunID       string
	Err         error
	Frames      int
	Channels    int
	TailSeconds float64
	Elapsed     time.Duration
	Resumed     bool
}

// OK reports whether the run produced a sample
func (s TransformStatus) OK() bool {
	return s.Err == nil
}

// Processor turns a loaded sample into a reversed reverb swell and plays it
// back from a real-time block callback
type Processor struct {
	config Config
	log    *logrus.Entry

	settingsMu sync.Mutex
	settings   atomic.Pointer[Settings]

	// transformMu serializes loads and transforms
	transformMu sync.Mutex
	original    *audio.Buffer
	name        atomic.Pointer[string]

	processed   atomic.Pointer[audio.Buffer]
	playing     atomic.Bool
	position    atomic.Int64
	rampCounter atomic.Int64

	// generation is odd while a writer owns the playhead and moves by two per
	// write. An in-flight block only writes back if it is unchanged.
	generation atomic.Uint64

	host atomic.Pointer[tremolo.Transport]
	lfo  *tremolo.LFO

	sched scheduler
}

// NewProcessor creates a processor with default settings
func NewProcessor(config Config) *Processor {
	if config.SampleRate <= 0 {
		config.SampleRate = 44100
	}
	if config.MaxDuration <= 0 {
		config.MaxDuration = 8 * time.Second
	}
	if config.ExportBitDepth == 0 {
		config.ExportBitDepth = 24
	}
	if config.TransformThrottle <= 0 {
		config.TransformThrottle = 150 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	p := &Processor{
		config: config,
		log:    config.Logger.WithField("component", "reversereverb"),
		lfo:    tremolo.NewLFO(float64(config.SampleRate)),
	}
	defaults := DefaultSettings()
	p.settings.Store(&defaults)
	empty := ""
	p.name.Store(&empty)
	p.host.Store(&tremolo.Transport{})
	return p
}

// SampleRate returns the processor rate
func (p *Processor) SampleRate() int {
	return p.config.SampleRate
}

// LoadFile decodes path, validates it and runs a transform. On a
// validation failure the previous sample and playback are left as they were.
func (p *Processor) LoadFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s is not a file", ErrLoad, path)
	}

	r, err := decode.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer r.Close()

	rate := r.SampleRate()
	if rate <= 0 {
		return fmt.Errorf("%w: invalid sample rate %d", ErrLoad, rate)
	}
	if err := p.checkDuration(float64(r.Length()) / float64(rate)); err != nil {
		return err
	}
	if r.Length() <= 0 || r.Channels() <= 0 {
		return fmt.Errorf("%w: file has no audio", ErrLoad)
	}

	p.transformMu.Lock()
	defer p.transformMu.Unlock()

	p.setName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	p.halt()

	buf, err := decode.ReadAll(r, audio.MaxChannels)
	if err != nil {
		p.original = nil
		p.setName("")
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	p.log.WithFields(logrus.Fields{
		"file":     path,
		"rate":     rate,
		"channels": buf.Channels(),
		"frames":   buf.Frames(),
	}).Info("sample loaded")

	return p.adopt(buf)
}

// LoadBuffer loads an in-memory sample under name, with the same checks as
// LoadFile. buf is copied.
func (p *Processor) LoadBuffer(buf *audio.Buffer, name string) error {
	if buf == nil || buf.SampleRate <= 0 {
		return fmt.Errorf("%w: invalid sample rate", ErrLoad)
	}
	if err := p.checkDuration(buf.Seconds()); err != nil {
		return err
	}
	if buf.Frames() <= 0 || buf.Channels() <= 0 {
		return fmt.Errorf("%w: buffer has no audio", ErrLoad)
	}

	work := buf.Clone()
	work.TrimChannels(audio.MaxChannels)

	p.transformMu.Lock()
	defer p.transformMu.Unlock()

	p.setName(name)
	p.halt()
	return p.adopt(work)
}

func (p *Processor) checkDuration(seconds float64) error {
	if seconds <= 0 || seconds > p.config.MaxDuration.Seconds() {
		return fmt.Errorf("%w: duration %.2fs outside (0, %.2fs]", ErrLoad, seconds, p.config.MaxDuration.Seconds())
	}
	return nil
}

// adopt installs buf as the original sample and processes it. Caller holds
// transformMu.
func (p *Processor) adopt(buf *audio.Buffer) error {
	if buf.SampleRate != p.config.SampleRate {
		p.log.WithFields(logrus.Fields{
			"from": buf.SampleRate,
			"to":   p.config.SampleRate,
		}).Debug("resampling sample")
		buf = resample.Buffer(buf, p.config.SampleRate)
	}
	p.original = buf

	status := p.transformLocked()
	if status.Err != nil {
		return status.Err
	}
	return nil
}

// Transform reprocesses the loaded sample with the current settings. If the
// sample was playing it resumes at the same relative position.
func (p *Processor) Transform() TransformStatus {
	p.transformMu.Lock()
	defer p.transformMu.Unlock()
	return p.transformLocked()
}

func (p *Processor) transformLocked() TransformStatus {
	status := TransformStatus{RunID: uuid.New().String()}
	if p.original == nil || p.original.Frames() == 0 {
		status.Err = ErrNoSample
		return status
	}

	start := time.Now()
	s := p.Settings()
	log := p.log.WithField("run", status.RunID)

	wasPlaying := p.playing.Load()
	saved := p.position.Load()
	oldLen := int64(p.processed.Load().Frames())

	p.halt()

	status.TailSeconds = p.TailDurationSeconds()
	res, err := transform.Run(p.original, transform.Params{
		RoomSize:       s.ReverbSize,
		Mix:            s.ReverbMix,
		StereoWidth:    s.StereoWidth,
		LowCutFreq:     s.LowCutFreq,
		TransitionMode: s.TransitionMode,
		TailSeconds:    status.TailSeconds,
	})
	status.Elapsed = time.Since(start)

	if err != nil {
		p.processed.Store(nil)
		p.halt()
		status.Err = err
		log.WithError(err).Error("transform failed")
		p.notifyError(err)
		return status
	}

	buf := res.Buffer
	p.processed.Store(buf)
	status.Frames = buf.Frames()
	status.Channels = buf.Channels()

	newLen := int64(buf.Frames())
	if wasPlaying && newLen > 0 {
		pos := int64(0)
		if oldLen > 0 && saved > 0 {
			pos = int64(float64(saved) / float64(oldLen) * float64(newLen))
			pos = max(0, min(pos, newLen-1))
		}
		p.movePlayhead(func() {
			p.position.Store(pos)
			p.rampCounter.Store(pos)
			p.playing.Store(true)
		})
		status.Resumed = true
	}

	log.WithFields(logrus.Fields{
		"tail":       status.TailSeconds,
		"room":       res.Reverb.RoomSize,
		"damping":    res.Reverb.Damping,
		"overlap":    res.Overlap,
		"frames":     status.Frames,
		"elapsed_ms": status.Elapsed.Milliseconds(),
		"resumed":    status.Resumed,
	}).Info("transform complete")

	return status
}

// halt stops playback and rewinds the playhead
func (p *Processor) halt() {
	p.movePlayhead(func() {
		p.playing.Store(false)
		p.position.Store(0)
		p.rampCounter.Store(0)
	})
}

// movePlayhead runs fn while holding the playhead. It waits out a block
// that is writing back its position, which takes a few stores.
func (p *Processor) movePlayhead(fn func()) {
	for {
		g := p.generation.Load()
		if g%2 == 0 && p.generation.CompareAndSwap(g, g+1) {
			fn()
			p.generation.Store(g + 2)
			return
		}
		runtime.Gosched()
	}
}

func (p *Processor) notifyError(err error) {
	if p.config.OnError != nil {
		p.config.OnError(err)
	}
}

func (p *Processor) setName(name string) {
	p.name.Store(&name)
}

// LoadedFileName returns the loaded file's base name without extension
func (p *Processor) LoadedFileName() string {
	return *p.name.Load()
}

// IsSampleLoaded reports whether a processed sample is available
func (p *Processor) IsSampleLoaded() bool {
	return p.processed.Load().Frames() > 0
}

// ProcessedBuffer returns the current processed sample. It must be treated
// as read-only; nil when nothing is loaded.
func (p *Processor) ProcessedBuffer() *audio.Buffer {
	return p.processed.Load()
}

// IsPlaying reports whether the sample is currently sounding
func (p *Processor) IsPlaying() bool {
	return p.playing.Load()
}

// PlaybackProgress returns the playhead as a fraction of the processed
// length, or 0 when stopped
func (p *Processor) PlaybackProgress() float64 {
	n := p.processed.Load().Frames()
	if !p.playing.Load() || n == 0 {
		return 0
	}
	return max(0, min(1, float64(p.position.Load())/float64(n)))
}

// SetHostTransport records the host tempo and position for the next blocks
func (p *Processor) SetHostTransport(t tremolo.Transport) {
	p.host.Store(&t)
}

// EffectiveBPM is the host tempo in a hosted session when it is valid,
// otherwise the manual BPM
func (p *Processor) EffectiveBPM() float64 {
	manual := p.settings.Load().ManualBPM
	if !p.config.Hosted {
		return manual
	}
	if h := p.host.Load(); h.HasBPM && h.BPM > 0 {
		return h.BPM
	}
	return manual
}

// TailDurationSeconds is the reverb tail length for the current division
// and tempo
func (p *Processor) TailDurationSeconds() float64 {
	return transform.TailSeconds(p.EffectiveBPM(), p.settings.Load().TailDivision)
}

// DisplayBuffer returns a copy of the processed sample for drawing, with the
// tremolo gain curve applied when tremolo is on
func (p *Processor) DisplayBuffer() *audio.Buffer {
	buf := p.processed.Load()
	if buf == nil {
		return nil
	}
	out := buf.Clone()
	trem := p.settings.Load().Tremolo
	if trem.Enabled && out.Frames() > 0 {
		curve := tremolo.RenderGainCurve(trem, out.Frames(), float64(p.config.SampleRate))
		tremolo.ApplyGainCurve(out.Samples, curve)
	}
	return out
}
