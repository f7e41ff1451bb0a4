// ABOUTME: Device-less output for tests and offline rendering
// ABOUTME: The caller pulls blocks instead of an audio device
package output

import (
	"fmt"
	"sync"
)

// Null is an Output with no device behind it
type Null struct {
	mu     sync.Mutex
	reader *blockReader
}

// NewNull creates a Null output
func NewNull() *Null {
	return &Null{}
}

// Open records the source; nothing is pulled until Pull is called
func (n *Null) Open(sampleRate, channels int, src BlockSource) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid output format: %dHz %dch", sampleRate, channels)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reader = newBlockReader(channels)
	n.reader.setSource(src)
	return nil
}

// Pull renders one block of the given size. The returned slices are reused
// by the next call.
func (n *Null) Pull(frames int) [][]float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reader == nil {
		return nil
	}
	return n.reader.render(frames)
}

// Read pulls interleaved float32 bytes, like a device would
func (n *Null) Read(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reader == nil {
		return 0, fmt.Errorf("output not opened")
	}
	return n.reader.Read(p)
}

// SetVolume sets the volume (0-100)
func (n *Null) SetVolume(volume int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reader != nil {
		n.reader.setVolume(volume)
	}
}

// Close detaches the source
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reader != nil {
		n.reader.setSource(nil)
	}
	return nil
}
