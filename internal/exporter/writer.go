package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TableWriter provides table export functionality
type TableWriter struct {
	logger *slog.Logger
}

// NewTableWriter creates a new table writer instance
func NewTableWriter(logger *slog.Logger) *TableWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableWriter{logger: logger}
}

// WriteOptions configures table writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteTable writes headers and records to filePath, replacing any existing file
func (w *TableWriter) WriteTable(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing table",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return w.writeXLSX(filePath, options)
	default:
		return w.writeCSV(filePath, options)
	}
}

func (w *TableWriter) writeCSV(filePath string, options WriteOptions) (err error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *TableWriter) writeXLSX(filePath string, options WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	row := 1

	writeRow := func(values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		row++
		return f.SetSheetRow(sheet, cell, &cells)
	}

	if len(options.Headers) > 0 {
		if err := writeRow(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writeRow(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
