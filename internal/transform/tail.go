// ABOUTME: Musical tail lengths for the reverb
// ABOUTME: Converts a tempo and bar division into seconds
package transform

// DivisionBeats is the length in beats of each tail division
var DivisionBeats = [...]float64{32, 16, 8, 4, 2, 1, 0.5, 0.25, 0.125}

// DivisionNames labels each tail division
var DivisionNames = [...]string{"8 Bar", "4 Bar", "2 Bar", "1 Bar", "1/2", "1/4", "1/8", "1/16", "1/32"}

// MaxDivision is the largest valid tail division index
const MaxDivision = len(DivisionBeats) - 1

// DefaultBPM applies when no usable tempo is given
const DefaultBPM = 120.0

// ClampDivision forces a division index into range
func ClampDivision(d int) int {
	if d < 0 {
		return 0
	}
	if d > MaxDivision {
		return MaxDivision
	}
	return d
}

// TailSeconds returns the tail length for a division at bpm
func TailSeconds(bpm float64, division int) float64 {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return (60 / bpm) * DivisionBeats[ClampDivision(division)]
}
