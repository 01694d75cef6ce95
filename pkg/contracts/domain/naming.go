package domain

import (
	"path/filepath"
	"strings"
)

const (
	// TransformedMarker marks derived (normalised) variants of a source table.
	TransformedMarker = "_transformed"

	// SummarySuffix marks pre-aggregated statistics tables.
	SummarySuffix = "_summary"
)

// SplitName splits a file name into its stem and extension (extension keeps the dot).
func SplitName(fileName string) (stem, ext string) {
	base := filepath.Base(fileName)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// TransformedName returns the name of the transformed variant of fileName,
// e.g. sample.csv -> sample_transformed.csv.
func TransformedName(fileName string) string {
	stem, ext := SplitName(fileName)
	return stem + TransformedMarker + ext
}

// SummaryName returns the name of the statistics table written for fileName.
func SummaryName(fileName string) string {
	stem, ext := SplitName(fileName)
	return stem + SummarySuffix + ext
}

// IsTransformed reports whether the name carries the transformed marker anywhere.
func IsTransformed(fileName string) bool {
	return strings.Contains(filepath.Base(fileName), TransformedMarker)
}

// IsSummary reports whether the file stem ends with the summary suffix.
func IsSummary(fileName string) bool {
	stem, _ := SplitName(fileName)
	return strings.HasSuffix(stem, SummarySuffix)
}
