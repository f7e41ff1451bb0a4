// ABOUTME: Stereo width post-processing for reverb output
// ABOUTME: Narrows toward mono below 0.5 and widens with a Haas delay above it
package stereo

// Neutral is the width that leaves a signal untouched
const Neutral = 0.5

const (
	// maxHaasMillis is the right-channel delay at full width
	maxHaasMillis = 40.0
	// maxHaasSamples bounds the delay regardless of sample rate
	maxHaasSamples = 2000
	crossFeed      = 0.15
)

// HaasDelay returns the right-channel delay in samples for width, or 0 when
// no delay applies
func HaasDelay(width float64, sampleRate int) int {
	if width <= Neutral || sampleRate <= 0 {
		return 0
	}
	delay := int((width - Neutral) * maxHaasMillis * float64(sampleRate) / 1000)
	if delay <= 0 || delay >= maxHaasSamples {
		return 0
	}
	return delay
}

// ApplyWidth reshapes the stereo image of left/right in place.
// width is 0 (mono) to 1 (wide); 0.5 is a no-op.
func ApplyWidth(left, right []float64, width float64, sampleRate int) {
	n := min(len(left), len(right))
	if n == 0 || width == Neutral {
		return
	}

	if width < Neutral {
		amount := 1 - 2*width
		for i := 0; i < n; i++ {
			mono := (left[i] + right[i]) * 0.5
			left[i] = left[i]*(1-amount) + mono*amount
			right[i] = right[i]*(1-amount) + mono*amount
		}
		return
	}

	delay := HaasDelay(width, sampleRate)
	if delay == 0 {
		return
	}
	delayRight(right[:n], delay)

	for i := 0; i < n; i++ {
		l, r := left[i], right[i]
		left[i] = l - r*crossFeed
		right[i] = r - l*crossFeed
	}
}

// delayRight shifts samples later by delay. The first delay samples keep
// their original values.
func delayRight(samples []float64, delay int) {
	if delay >= len(samples) {
		return
	}
	copy(samples[delay:], samples[:len(samples)-delay])
}
