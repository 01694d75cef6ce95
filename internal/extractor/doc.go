// Package extractor scans a data directory and records, for every source
// table, its row count, column labels and processing hints.
//
// Files carrying the "_transformed" marker are derived outputs and are never
// scanned. Tables that cannot be read are skipped; each skip is reported as a
// domain.Skip so callers and tests can inspect the reason.
//
// Per-file exclusion lists come from a lookup table keyed by file name.
// DefaultExclusions holds the built-in entries; configuration may add or
// replace entries.
package extractor
