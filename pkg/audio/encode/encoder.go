// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for audio file writers
package encode

import "github.com/harperreed/reversereverb-go/pkg/audio"

// Encoder writes float buffers to an audio container
type Encoder interface {
	// Encode appends the buffer's frames to the output
	Encode(buf *audio.Buffer) error

	// Close finalizes the container headers
	Close() error
}
