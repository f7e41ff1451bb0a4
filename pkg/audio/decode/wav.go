// ABOUTME: WAV file reader
// ABOUTME: Decodes PCM WAV files to planar float samples via go-audio/wav
package decode

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/harperreed/reversereverb-go/pkg/audio"
)

// WAVReader reads a PCM WAV file
type WAVReader struct {
	file       *os.File
	decoder    *wav.Decoder
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64
	scratch    *goaudio.IntBuffer
}

// OpenWAV opens a WAV file for reading
func OpenWAV(path string) (*WAVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	r, err := NewWAV(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewWAV creates a WAV reader over an already opened stream
func NewWAV(rs io.ReadSeeker) (*WAVReader, error) {
	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to locate WAV data: %w", err)
	}

	channels := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if channels <= 0 {
		return nil, fmt.Errorf("invalid WAV channel count: %d", channels)
	}
	if bitDepth <= 0 {
		return nil, fmt.Errorf("unknown bit depth for WAV file")
	}

	bytesPerSample := (bitDepth-1)/8 + 1
	frames := decoder.PCMLen() / int64(bytesPerSample*channels)

	return &WAVReader{
		decoder:    decoder,
		sampleRate: int(decoder.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
		frames:     frames,
	}, nil
}

func (r *WAVReader) SampleRate() int { return r.sampleRate }
func (r *WAVReader) Channels() int   { return r.channels }
func (r *WAVReader) Length() int64   { return r.frames }

// Read decodes up to len(dst[0]) frames
func (r *WAVReader) Read(dst [][]float64) (int, error) {
	if len(dst) < r.channels {
		return 0, fmt.Errorf("destination has %d channels, need %d", len(dst), r.channels)
	}
	want := len(dst[0]) * r.channels
	if r.scratch == nil || len(r.scratch.Data) != want {
		r.scratch = &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: r.channels,
				SampleRate:  r.sampleRate,
			},
			Data:           make([]int, want),
			SourceBitDepth: r.bitDepth,
		}
	}

	n, err := r.decoder.PCMBuffer(r.scratch)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav decode error: %w", err)
	}

	frames := n / r.channels
	for i := 0; i < frames; i++ {
		for ch := 0; ch < r.channels; ch++ {
			dst[ch][i] = audio.IntToFloat(r.scratch.Data[i*r.channels+ch], r.bitDepth)
		}
	}

	if frames == 0 {
		return 0, io.EOF
	}
	return frames, nil
}

// Close closes the file if this reader opened it
func (r *WAVReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
