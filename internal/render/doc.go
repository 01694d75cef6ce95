// Package render draws the chart images of the visualize stage with go-chart.
//
// For each plot target it writes:
//
//	<base>_all_columns.png  one line per column, x = sampled row index
//	<base>_histograms.png   one histogram per column, in a fixed-width grid
//
// Requested columns are intersected with the table actually read; missing
// columns are reported and dropped. Targets left with nothing to draw are
// skipped, never failed.
package render
