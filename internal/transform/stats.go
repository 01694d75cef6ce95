package transform

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats describes one transformed column
type ColumnStats struct {
	Name    string
	Mean    float64
	StdDev  float64
	Count   int // numeric cells used
	Dropped int // cells that were not numeric
}

// Describe returns the population mean and standard deviation of values.
// Both are zero for an empty slice.
func Describe(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// Normalize scales values to [0,1] by min-max. A constant column maps to zeros.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		return out
	}

	copy(out, values)
	floats.AddConst(-lo, out)
	floats.Scale(1/(hi-lo), out)
	return out
}
