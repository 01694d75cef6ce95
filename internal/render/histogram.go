package render

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins counts values into n equal-width bins spanning their range. It
// returns the bin centers, the counts and the outer edges. A single distinct
// value gets a unit-wide range around it.
func Bins(values []float64, n int) (centers, counts []float64, lo, hi float64) {
	if len(values) == 0 || n < 1 {
		return nil, nil, 0, 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi = sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// the upper edge is exclusive in stat.Histogram
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)

	centers = make([]float64, n)
	for i := range centers {
		centers[i] = (dividers[i] + dividers[i+1]) / 2
	}
	return centers, counts, lo, hi
}
