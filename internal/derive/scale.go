// Package derive computes the statistics that are not fetched but calculated:
// the Chemistry Index, rest and fatigue profiles, clutch efficiency metrics,
// and player availability reports.
package derive

// MinMaxScale maps values onto [0, 100] by their observed range. When every
// value is identical the range is degenerate and all values map to 50.
func MinMaxScale(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	scaled := make([]float64, len(values))
	if max == min {
		for i := range scaled {
			scaled[i] = 50
		}
		return scaled
	}

	for i, v := range values {
		scaled[i] = (v - min) / (max - min) * 100
	}
	return scaled
}

// MovingAverage returns the trailing mean over at most window values ending
// at each position. window <= 0 is treated as 1.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 0 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for _, v := range values[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}
