package binning

import "math"

// NumericBins returns fixed-width boundaries spanning [min, max]. A
// non-positive width is derived from the order of magnitude of the range,
// width = 10^(floor(log10(max-min)) - 1), clamped to a minimum of 1 so
// sub-decade ranges still get unit-width integer bins. Boundaries run from
// min rounded down to max rounded up, both to multiples of the width.
func NumericBins(min, max, width float64) []float64 {
	if min == max {
		return []float64{min}
	}
	if max < min {
		min, max = max, min
	}
	if width <= 0 {
		magnitude := math.Floor(math.Log10(max - min))
		width = math.Pow(10, magnitude-1)
		if width < 1 {
			width = 1
		}
	}

	lo := math.Floor(min/width) * width
	hi := math.Ceil(max/width) * width
	n := int(math.Round((hi-lo)/width)) + 1
	boundaries := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		boundaries = append(boundaries, lo+float64(i)*width)
	}
	return boundaries
}

// AssignNumeric places v into the right-open interval [b[i], b[i+1]).
// A value sitting exactly on the last boundary folds into the final bin;
// anything else outside the span is BinOther, a nil attribute is BinNull.
func AssignNumeric(boundaries []float64, v float64) int {
	if len(boundaries) == 1 {
		if v == boundaries[0] {
			return 0
		}
		return BinOther
	}
	for i := 0; i+1 < len(boundaries); i++ {
		if v >= boundaries[i] && v < boundaries[i+1] {
			return i
		}
	}
	if v == boundaries[len(boundaries)-1] {
		return len(boundaries) - 2
	}
	return BinOther
}
