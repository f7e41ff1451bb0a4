// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, planar float Buffer and sample conversion functions
// Package audio provides the fundamental audio types shared by the engine.
//
// This package defines:
//   - Format: Describes an audio stream format (codec, sample rate, channels, bit depth)
//   - Buffer: Planar float64 audio, one slice per channel
//
// It also provides utilities for converting between sample formats:
//   - 16-bit ↔ 24-bit conversions
//   - int32 ↔ packed byte conversions
//   - float ↔ integer PCM at any bit depth
//
// Example:
//
//	buf := audio.NewBuffer(2, 44100, 44100)
//	buf.Extend(88200)   // two seconds of silence
//	buf.Reverse()
//	peak := buf.Peak()
package audio
