// ABOUTME: MP3 file reader
// ABOUTME: Decodes MP3 to planar float samples via go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// mp3 decoder output is always 16-bit stereo
const (
	mp3Channels      = 2
	mp3BytesPerFrame = 4
)

// MP3Reader reads an MP3 file
type MP3Reader struct {
	file    *os.File
	decoder *mp3.Decoder
	buf     []byte
}

// OpenMP3 opens an MP3 file for reading
func OpenMP3(path string) (*MP3Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	return &MP3Reader{file: f, decoder: decoder}, nil
}

func (r *MP3Reader) SampleRate() int { return r.decoder.SampleRate() }
func (r *MP3Reader) Channels() int   { return mp3Channels }

// Length converts the decoder's byte length to frames
func (r *MP3Reader) Length() int64 {
	n := r.decoder.Length()
	if n <= 0 {
		return 0
	}
	return n / mp3BytesPerFrame
}

// Read decodes up to len(dst[0]) frames
func (r *MP3Reader) Read(dst [][]float64) (int, error) {
	if len(dst) < mp3Channels {
		return 0, fmt.Errorf("destination has %d channels, need %d", len(dst), mp3Channels)
	}
	need := len(dst[0]) * mp3BytesPerFrame
	if cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	buf := r.buf[:need]

	n, err := io.ReadFull(r.decoder, buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
	}

	frames := n / mp3BytesPerFrame
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(buf[i*4:]))
		rr := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
		dst[0][i] = float64(l) / 32768
		dst[1][i] = float64(rr) / 32768
	}

	if frames == 0 {
		return 0, io.EOF
	}
	return frames, nil
}

func (r *MP3Reader) Close() error {
	return r.file.Close()
}
