// ABOUTME: FLAC file reader
// ABOUTME: Decodes FLAC frames to planar float samples via mewkiz/flac
package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/harperreed/reversereverb-go/pkg/audio"
)

// FLACReader reads a FLAC file frame by frame
type FLACReader struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int
	frames     int64

	// decoded frame not yet fully handed out
	pending *frame.Frame
	offset  int
}

// OpenFLAC opens a FLAC file for reading
func OpenFLAC(path string) (*FLACReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	return &FLACReader{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
		frames:     int64(info.NSamples),
	}, nil
}

func (r *FLACReader) SampleRate() int { return r.sampleRate }
func (r *FLACReader) Channels() int   { return r.channels }
func (r *FLACReader) Length() int64   { return r.frames }

// Read decodes up to len(dst[0]) frames, carrying partial FLAC frames over
// to the next call
func (r *FLACReader) Read(dst [][]float64) (int, error) {
	if len(dst) < r.channels {
		return 0, fmt.Errorf("destination has %d channels, need %d", len(dst), r.channels)
	}
	want := len(dst[0])
	written := 0

	for written < want {
		if r.pending == nil {
			fr, err := r.stream.ParseNext()
			if err == io.EOF {
				break
			}
			if err != nil {
				return written, fmt.Errorf("flac decode error: %w", err)
			}
			r.pending = fr
			r.offset = 0
		}

		block := int(r.pending.BlockSize)
		for r.offset < block && written < want {
			for ch := 0; ch < r.channels; ch++ {
				s := int(r.pending.Subframes[ch].Samples[r.offset])
				dst[ch][written] = audio.IntToFloat(s, r.bitDepth)
			}
			r.offset++
			written++
		}
		if r.offset >= block {
			r.pending = nil
		}
	}

	if written == 0 {
		return 0, io.EOF
	}
	return written, nil
}

func (r *FLACReader) Close() error {
	r.stream.Close()
	return r.file.Close()
}
