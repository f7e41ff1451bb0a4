// ABOUTME: Comb and all-pass delay lines used by the reverb
// ABOUTME: Damped feedback comb and fixed-feedback Schroeder all-pass
package reverb

// denormalFloor flushes filter state that has decayed below audibility
const denormalFloor = 1e-15

type combFilter struct {
	buffer []float64
	index  int
	last   float64
}

func newCombFilter(size int) *combFilter {
	if size < 1 {
		size = 1
	}
	return &combFilter{buffer: make([]float64, size)}
}

// process runs one sample through a lowpass-in-the-loop comb
func (c *combFilter) process(input, damp, feedback float64) float64 {
	output := c.buffer[c.index]
	c.last = output*(1-damp) + c.last*damp
	if c.last < denormalFloor && c.last > -denormalFloor {
		c.last = 0
	}

	c.buffer[c.index] = input + c.last*feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

func (c *combFilter) reset() {
	clear(c.buffer)
	c.index = 0
	c.last = 0
}

type allPassFilter struct {
	buffer []float64
	index  int
}

const allPassFeedback = 0.5

func newAllPassFilter(size int) *allPassFilter {
	if size < 1 {
		size = 1
	}
	return &allPassFilter{buffer: make([]float64, size)}
}

func (a *allPassFilter) process(input float64) float64 {
	buffered := a.buffer[a.index]
	a.buffer[a.index] = input + buffered*allPassFeedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return buffered - input
}

func (a *allPassFilter) reset() {
	clear(a.buffer)
	a.index = 0
}
