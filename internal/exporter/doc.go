// Package exporter writes tables produced by the transform stage.
//
// TableWriter picks the encoding from the target file extension: CSV for
// .csv (optionally with a UTF-8 BOM for spreadsheet tools) and a single-sheet
// workbook for .xlsx.
//
// Example usage:
//
//	writer := exporter.NewTableWriter(logger)
//	err := writer.WriteTable("data/sample_summary.csv", exporter.WriteOptions{
//		Headers: []string{"column_name", "mean", "stddev"},
//		Records: records,
//	})
package exporter
