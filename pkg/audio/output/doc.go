// ABOUTME: Audio output package for real-time playback
// ABOUTME: Provides the pull-model Output interface with oto and null backends
// Package output drives a BlockSource from an audio device.
//
// The device pulls audio; each pull asks the source for one planar float32
// block and interleaves it for the backend. Two backends are provided:
//   - Oto: system audio via ebitengine/oto
//   - Null: no device, blocks are pulled by the caller (tests, offline)
//
// Example:
//
//	out := output.NewOto(nil)
//	err := out.Open(44100, 2, processor)
//	defer out.Close()
package output
