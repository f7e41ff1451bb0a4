// ABOUTME: Reader interface and file opener for audio decoding
// ABOUTME: Picks a WAV, MP3 or FLAC reader by file extension
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/reversereverb-go/pkg/audio"
)

// ErrUnsupported is returned for file extensions with no reader
var ErrUnsupported = errors.New("unsupported audio format")

// Reader decodes a file into planar float samples in [-1, 1]
type Reader interface {
	// SampleRate returns the file sample rate in Hz
	SampleRate() int

	// Channels returns the file channel count
	Channels() int

	// Length returns the total frame count, or 0 if unknown
	Length() int64

	// Read fills dst (one slice per channel, equal lengths) and returns the
	// number of frames written. Returns io.EOF once the file is exhausted.
	Read(dst [][]float64) (int, error)

	// Close releases the underlying file
	Close() error
}

// Open creates a Reader for the file at path
func Open(path string) (Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		return OpenWAV(path)
	case ".mp3":
		return OpenMP3(path)
	case ".flac":
		return OpenFLAC(path)
	default:
		return nil, fmt.Errorf("%w: %s (supported: .wav, .mp3, .flac)", ErrUnsupported, ext)
	}
}

// readChunkFrames is the block size ReadAll pulls from a Reader
const readChunkFrames = 4096

// ReadAll drains r into a buffer keeping at most maxChannels channels
func ReadAll(r Reader, maxChannels int) (*audio.Buffer, error) {
	channels := r.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}
	keep := channels
	if maxChannels > 0 && keep > maxChannels {
		keep = maxChannels
	}

	capacity := int(r.Length())
	out := &audio.Buffer{
		Samples:    make([][]float64, keep),
		SampleRate: r.SampleRate(),
	}
	for ch := range out.Samples {
		out.Samples[ch] = make([]float64, 0, capacity)
	}

	chunk := make([][]float64, channels)
	for ch := range chunk {
		chunk[ch] = make([]float64, readChunkFrames)
	}

	for {
		n, err := r.Read(chunk)
		for ch := 0; ch < keep; ch++ {
			out.Samples[ch] = append(out.Samples[ch], chunk[ch][:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return out, nil
}
