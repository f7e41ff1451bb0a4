// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversions and planar buffer helpers
package audio

import "testing"

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906}, // 1000000 >> 8 = 3906
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleTo24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleTo24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	// Test that 16-bit samples survive round-trip conversion
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	for _, original := range samples {
		sample32 := SampleFromInt16(original)
		result := SampleToInt16(sample32)
		if result != original {
			t.Errorf("round-trip failed: %d -> %d -> %d", original, sample32, result)
		}
	}
}

func TestRoundTrip24Bit(t *testing.T) {
	// Test that 24-bit samples survive round-trip conversion
	samples := []int32{0, 100000, -100000, Max24Bit, Min24Bit}

	for _, original := range samples {
		bytes := SampleTo24Bit(original)
		result := SampleFrom24Bit(bytes)
		// Mask to 24-bit for comparison
		expected := original & 0xFFFFFF
		if expected&0x800000 != 0 {
			expected |= ^0xFFFFFF
		}
		if result != expected {
			t.Errorf("round-trip failed: %d -> %v -> %d (expected %d)", original, bytes, result, expected)
		}
	}
}

func TestBufferDimensions(t *testing.T) {
	buf := NewBuffer(2, 44100, 44100)
	if buf.Channels() != 2 {
		t.Errorf("expected 2 channels, got %d", buf.Channels())
	}
	if buf.Frames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", buf.Frames())
	}
	if buf.Seconds() != 1.0 {
		t.Errorf("expected 1 second, got %f", buf.Seconds())
	}

	var nilBuf *Buffer
	if nilBuf.Frames() != 0 || nilBuf.Channels() != 0 {
		t.Error("expected nil buffer to report zero size")
	}
}

func TestBufferPeakAndGain(t *testing.T) {
	buf := NewBuffer(2, 4, 48000)
	buf.Samples[0] = []float64{0.1, -0.8, 0.2, 0}
	buf.Samples[1] = []float64{0.3, 0.4, -0.2, 0.5}

	if peak := buf.Peak(); peak != 0.8 {
		t.Fatalf("expected peak 0.8, got %f", peak)
	}

	buf.ApplyGain(0.5)
	if peak := buf.Peak(); peak != 0.4 {
		t.Errorf("expected peak 0.4 after gain, got %f", peak)
	}
}

func TestBufferExtendAndReverse(t *testing.T) {
	buf := NewBuffer(1, 3, 44100)
	buf.Samples[0] = []float64{1, 2, 3}

	buf.Extend(2)
	if buf.Frames() != 5 {
		t.Fatalf("expected 5 frames after extend, got %d", buf.Frames())
	}

	buf.Reverse()
	want := []float64{0, 0, 3, 2, 1}
	for i, v := range want {
		if buf.Samples[0][i] != v {
			t.Errorf("index %d: expected %f, got %f", i, v, buf.Samples[0][i])
		}
	}
}

func TestBufferClone(t *testing.T) {
	buf := NewBuffer(1, 2, 44100)
	buf.Samples[0][0] = 0.25

	c := buf.Clone()
	c.Samples[0][0] = 0.75
	if buf.Samples[0][0] != 0.25 {
		t.Error("clone shares storage with original")
	}
	if c.SampleRate != 44100 {
		t.Errorf("expected sample rate to be copied, got %d", c.SampleRate)
	}
}

func TestFloatIntConversion(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		bitDepth int
		expected int
	}{
		{"zero", 0, 16, 0},
		{"full scale 16", 1.0, 16, 32767},
		{"negative full scale 16", -1.0, 16, -32767},
		{"clamped high", 2.0, 24, Max24Bit},
		{"clamped low", -2.0, 24, -Max24Bit},
		{"half 24", 0.5, 24, 4194304},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloatToInt(tt.input, tt.bitDepth); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}

	if got := IntToFloat(-32768, 16); got != -1.0 {
		t.Errorf("expected -1.0, got %f", got)
	}
	if got := IntToFloat(1, 0); got != 0 {
		t.Errorf("expected 0 for invalid depth, got %f", got)
	}
}
