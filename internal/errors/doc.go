// Package errors defines the typed errors used for fatal, run-ending failures
// (bad configuration, unreadable parameters documents, unwritable outputs).
//
// Recoverable per-file problems are not errors in this sense; they are
// reported as domain.Skip outcomes and the run continues.
package errors
