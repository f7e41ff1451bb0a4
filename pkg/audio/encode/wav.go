// ABOUTME: WAV audio encoder
// ABOUTME: Quantizes float samples to 16-bit or 24-bit PCM via go-audio/wav
package encode

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/harperreed/reversereverb-go/pkg/audio"
)

// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag
const wavFormatPCM = 1

// WAVEncoder writes PCM WAV data
type WAVEncoder struct {
	enc     *wav.Encoder
	format  audio.Format
	scratch *goaudio.IntBuffer
	closed  bool
}

// NewWAV creates a WAV encoder writing to w
func NewWAV(w io.WriteSeeker, format audio.Format) (*WAVEncoder, error) {
	if format.Codec != "" && format.Codec != "wav" {
		return nil, fmt.Errorf("invalid codec for WAV encoder: %s", format.Codec)
	}
	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}
	if format.Channels <= 0 || format.Channels > audio.MaxChannels {
		return nil, fmt.Errorf("unsupported channel count: %d", format.Channels)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	return &WAVEncoder{
		enc:    wav.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels, wavFormatPCM),
		format: format,
	}, nil
}

// Encode interleaves and quantizes the buffer
func (e *WAVEncoder) Encode(buf *audio.Buffer) error {
	if e.closed {
		return fmt.Errorf("encoder closed")
	}
	if buf.Channels() != e.format.Channels {
		return fmt.Errorf("buffer has %d channels, encoder expects %d", buf.Channels(), e.format.Channels)
	}

	frames := buf.Frames()
	n := frames * e.format.Channels
	if e.scratch == nil || cap(e.scratch.Data) < n {
		e.scratch = &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: e.format.Channels,
				SampleRate:  e.format.SampleRate,
			},
			Data:           make([]int, n),
			SourceBitDepth: e.format.BitDepth,
		}
	}
	e.scratch.Data = e.scratch.Data[:n]

	for i := 0; i < frames; i++ {
		for ch := 0; ch < e.format.Channels; ch++ {
			e.scratch.Data[i*e.format.Channels+ch] = audio.FloatToInt(buf.Samples[ch][i], e.format.BitDepth)
		}
	}

	if err := e.enc.Write(e.scratch); err != nil {
		return fmt.Errorf("wav write failed: %w", err)
	}
	return nil
}

// Close writes the final chunk sizes
func (e *WAVEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("wav finalize failed: %w", err)
	}
	return nil
}

// WriteFile writes buf to a new WAV file at path, removing the file again if
// encoding fails part way
func WriteFile(path string, buf *audio.Buffer, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	enc, err := NewWAV(f, audio.Format{
		Codec:      "wav",
		SampleRate: buf.SampleRate,
		Channels:   buf.Channels(),
		BitDepth:   bitDepth,
	})
	if err != nil {
		return err
	}
	if err := enc.Encode(buf); err != nil {
		return err
	}
	return enc.Close()
}
