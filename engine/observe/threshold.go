package observe

import "math"

// SynthesizeThresholds returns steps+1 evenly spaced intersection ratios
// from 0 to 1, rounded to 2 decimals. Physical intersection observers are
// configured with these, so that any coarser list of thresholds requested
// by a query can be honored by filtering.
func SynthesizeThresholds(steps int) []float64 {
	if steps < 1 {
		steps = 1
	}
	t := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		t[i] = math.Round(float64(i)/float64(steps)*100) / 100
	}
	return t
}

// bandOf returns the number of thresholds a ratio has reached.
// thresholds must be sorted.
func bandOf(thresholds []float64, ratio float64, intersecting bool) int {
	if !intersecting {
		return 0
	}
	n := 0
	for _, t := range thresholds {
		if ratio < t {
			break
		}
		n++
	}
	return n
}
