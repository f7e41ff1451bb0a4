// ABOUTME: Audio encoder package for writing float buffers to files
// ABOUTME: Provides the Encoder interface and a WAV implementation
// Package encode writes planar float buffers to audio containers.
//
// Supports: WAV at 16-bit and 24-bit PCM (go-audio/wav).
//
// Samples are clamped to [-1, 1] before quantization.
//
// Example:
//
//	enc, err := encode.NewWAV(f, audio.Format{Codec: "wav", SampleRate: 44100, Channels: 2, BitDepth: 24})
//	err = enc.Encode(buf)
//	err = enc.Close()
package encode
