// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, planar float buffers and sample conversions
package audio

import "time"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// MaxChannels is the widest layout the engine keeps from a loaded file
	MaxChannels = 2
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds planar float audio, one slice per channel.
// All channel slices have the same length.
type Buffer struct {
	Samples    [][]float64
	SampleRate int
}

// NewBuffer allocates a silent buffer
func NewBuffer(channels, frames, sampleRate int) *Buffer {
	samples := make([][]float64, channels)
	for ch := range samples {
		samples[ch] = make([]float64, frames)
	}
	return &Buffer{Samples: samples, SampleRate: sampleRate}
}

// Channels returns the channel count
func (b *Buffer) Channels() int {
	if b == nil {
		return 0
	}
	return len(b.Samples)
}

// Frames returns the per-channel sample count
func (b *Buffer) Frames() int {
	if b == nil || len(b.Samples) == 0 {
		return 0
	}
	return len(b.Samples[0])
}

// Duration returns the buffer length in time
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// Seconds returns the buffer length in seconds
func (b *Buffer) Seconds() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	out := NewBuffer(b.Channels(), b.Frames(), b.SampleRate)
	for ch := range b.Samples {
		copy(out.Samples[ch], b.Samples[ch])
	}
	return out
}

// Peak returns the largest absolute sample value across all channels
func (b *Buffer) Peak() float64 {
	peak := 0.0
	for _, ch := range b.Samples {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	return peak
}

// ApplyGain scales every sample by g
func (b *Buffer) ApplyGain(g float64) {
	for _, ch := range b.Samples {
		for i := range ch {
			ch[i] *= g
		}
	}
}

// Extend appends frames of silence to every channel
func (b *Buffer) Extend(frames int) {
	if frames <= 0 {
		return
	}
	for ch := range b.Samples {
		b.Samples[ch] = append(b.Samples[ch], make([]float64, frames)...)
	}
}

// Reverse time-reverses every channel in place
func (b *Buffer) Reverse() {
	for _, ch := range b.Samples {
		for i, j := 0, len(ch)-1; i < j; i, j = i+1, j-1 {
			ch[i], ch[j] = ch[j], ch[i]
		}
	}
}

// TrimChannels drops channels beyond max
func (b *Buffer) TrimChannels(max int) {
	if max >= 0 && len(b.Samples) > max {
		b.Samples = b.Samples[:max]
	}
}

// SampleToInt16 converts a 24-bit int32 sample to int16
func SampleToInt16(sample int32) int16 {
	return int16(sample >> 8)
}

// SampleFromInt16 converts an int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// IntToFloat scales a signed integer sample of the given bit depth to [-1, 1)
func IntToFloat(sample int, bitDepth int) float64 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float64(sample) / float64(int64(1)<<(bitDepth-1))
}

// FloatToInt quantizes a float sample to a signed integer of the given bit
// depth. Input is clamped to [-1, 1].
func FloatToInt(sample float64, bitDepth int) int {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	if sample > 1 {
		sample = 1
	} else if sample < -1 {
		sample = -1
	}
	max := float64(int64(1)<<(bitDepth-1)) - 1
	v := sample * max
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
