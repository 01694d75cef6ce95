// Package files provides file discovery for the tabviz stages.
//
// FindTabularFiles lists the tabular source files of a data directory (skipping
// derived "_transformed" outputs); FindTransformedFiles lists the derived
// files only.
//
// Example usage:
//
//	sources, err := files.FindTabularFiles("data", []string{".csv"})
//	derived, err := files.FindTransformedFiles("data", []string{".csv"})
package files
