// ABOUTME: Audio file decoding package
// ABOUTME: Provides the Reader interface with WAV, MP3 and FLAC implementations
// Package decode reads audio files into planar float buffers.
//
// Supports: WAV (go-audio/wav), MP3 (go-mp3), FLAC (mewkiz/flac)
//
// Every Reader reports its sample rate, channel count and length up front
// so callers can reject a file before decoding it.
//
// Example:
//
//	r, err := decode.Open("clap.wav")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	buf, err := decode.ReadAll(r, 2)
package decode
