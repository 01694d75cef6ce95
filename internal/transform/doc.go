// Package transform computes per-column statistics for the tables listed in
// a parameters artifact and writes their min-max normalised variants.
//
// For every entry it writes two tables next to the source:
//
//	<base>_summary<ext>      column_name,mean,stddev (population statistics)
//	<base>_transformed<ext>  the listed numeric columns scaled to [0,1]
//
// Statistics are computed on the raw values. A constant column normalises to
// all zeros. Non-numeric cells are dropped before either step, and the
// transformed table is truncated to its shortest column.
package transform
