// ABOUTME: Audio output interface definition
// ABOUTME: Pull-model playback driven by a real-time block callback
package output

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// BlockSource renders one block of planar audio. It runs on the device
// callback and must not block or allocate.
type BlockSource interface {
	ProcessBlock(out [][]float32)
}

// Output represents an audio output device
type Output interface {
	// Open starts pulling blocks from src at the given format
	Open(sampleRate, channels int, src BlockSource) error

	// Close releases output resources
	Close() error
}

type sourceRef struct {
	src BlockSource
}

// blockReader adapts a BlockSource to the io.Reader a device pulls from,
// interleaving planar blocks into float32 little-endian bytes
type blockReader struct {
	source   atomic.Pointer[sourceRef]
	channels int
	planar   [][]float32
	volume   atomic.Int32
	muted    atomic.Bool
}

func newBlockReader(channels int) *blockReader {
	r := &blockReader{channels: channels}
	r.volume.Store(100)
	r.ensure(1024)
	return r
}

func (r *blockReader) setSource(src BlockSource) {
	if src == nil {
		r.source.Store(nil)
		return
	}
	r.source.Store(&sourceRef{src: src})
}

// ensure grows the planar scratch buffers; only reallocates when the device
// asks for a larger block than it has before
func (r *blockReader) ensure(frames int) {
	if len(r.planar) == r.channels && (r.channels == 0 || cap(r.planar[0]) >= frames) {
		return
	}
	r.planar = make([][]float32, r.channels)
	for ch := range r.planar {
		r.planar[ch] = make([]float32, frames)
	}
}

// render fills planar buffers for the given frame count and returns them
func (r *blockReader) render(frames int) [][]float32 {
	r.ensure(frames)
	block := r.planar
	for ch := range block {
		block[ch] = block[ch][:cap(block[ch])][:frames]
	}

	ref := r.source.Load()
	if ref == nil {
		for ch := range block {
			clear(block[ch])
		}
		return block
	}
	ref.src.ProcessBlock(block)

	gain := float32(r.Volume()) / 100
	if r.muted.Load() {
		gain = 0
	}
	if gain != 1 {
		for ch := range block {
			for i := range block[ch] {
				block[ch][i] *= gain
			}
		}
	}
	return block
}

// Read is called by the device for more audio
func (r *blockReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	frames := len(p) / frameBytes
	block := r.render(frames)

	for i := 0; i < frames; i++ {
		for ch := 0; ch < r.channels; ch++ {
			off := (i*r.channels + ch) * 4
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(block[ch][i]))
		}
	}
	clear(p[frames*frameBytes:])
	return len(p), nil
}

// Volume returns the output volume (0-100)
func (r *blockReader) Volume() int {
	return int(r.volume.Load())
}

func (r *blockReader) setVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	r.volume.Store(int32(volume))
}
