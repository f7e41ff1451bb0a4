// ABOUTME: Tests for audio file readers
// ABOUTME: Round-trips WAV files through the encoder and checks extension dispatch
package decode

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/reversereverb-go/pkg/audio"
	"github.com/harperreed/reversereverb-go/pkg/audio/encode"
)

func writeTestWAV(t *testing.T, channels, frames, rate, bitDepth int) (string, *audio.Buffer) {
	t.Helper()
	buf := audio.NewBuffer(channels, frames, rate)
	for ch := 0; ch < channels; ch++ {
		for i := 0; i < frames; i++ {
			buf.Samples[ch][i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)+float64(ch))
		}
	}
	path := filepath.Join(t.TempDir(), "test.wav")
	if err := encode.WriteFile(path, buf, bitDepth); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, buf
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpen_InvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not a riff file at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for invalid WAV data")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		bitDepth int
		tol      float64
	}{
		{"mono 16-bit", 1, 16, 1.0 / 16000},
		{"stereo 24-bit", 2, 24, 1.0 / 4000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, want := writeTestWAV(t, tt.channels, 5000, 44100, tt.bitDepth)

			r, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer r.Close()

			if r.SampleRate() != 44100 {
				t.Errorf("expected sample rate 44100, got %d", r.SampleRate())
			}
			if r.Channels() != tt.channels {
				t.Errorf("expected %d channels, got %d", tt.channels, r.Channels())
			}
			if r.Length() != 5000 {
				t.Errorf("expected length 5000, got %d", r.Length())
			}

			got, err := ReadAll(r, audio.MaxChannels)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if got.Frames() != 5000 {
				t.Fatalf("expected 5000 frames, got %d", got.Frames())
			}
			for ch := 0; ch < tt.channels; ch++ {
				for i := 0; i < 5000; i++ {
					if d := math.Abs(got.Samples[ch][i] - want.Samples[ch][i]); d > tt.tol {
						t.Fatalf("ch %d frame %d: expected %f, got %f", ch, i, want.Samples[ch][i], got.Samples[ch][i])
					}
				}
			}
		})
	}
}

type fakeReader struct {
	channels int
	frames   int
	pos      int
}

func (f *fakeReader) SampleRate() int { return 8000 }
func (f *fakeReader) Channels() int   { return f.channels }
func (f *fakeReader) Length() int64   { return 0 }
func (f *fakeReader) Close() error    { return nil }

func (f *fakeReader) Read(dst [][]float64) (int, error) {
	n := 0
	for n < len(dst[0]) && f.pos < f.frames {
		for ch := 0; ch < f.channels; ch++ {
			dst[ch][n] = float64(ch + 1)
		}
		n++
		f.pos++
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func TestReadAll_TrimsChannels(t *testing.T) {
	r := &fakeReader{channels: 4, frames: 10000}

	buf, err := ReadAll(r, 2)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if buf.Channels() != 2 {
		t.Fatalf("expected 2 channels, got %d", buf.Channels())
	}
	if buf.Frames() != 10000 {
		t.Errorf("expected 10000 frames, got %d", buf.Frames())
	}
	if buf.Samples[1][9999] != 2 {
		t.Errorf("expected second channel value 2, got %f", buf.Samples[1][9999])
	}
}

func TestReadAll_RejectsZeroChannels(t *testing.T) {
	if _, err := ReadAll(&fakeReader{}, 2); err == nil {
		t.Error("expected error for zero channel reader")
	}
}
