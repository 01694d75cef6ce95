// Package tabular reads CSV and XLSX files into in-memory tables.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// UnnamedPrefix is the header label dataframe tools write for unnamed columns.
const UnnamedPrefix = "Unnamed:"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a fully loaded table. Every row has len(Columns) cells.
type Table struct {
	Name    string
	Columns []string // header with unnamed placeholders replaced by ""
	Rows    [][]string
}

// ReadFile loads path, choosing the decoder from the extension.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f, filepath.Base(path))
	}
}

// ReadCSV parses a comma-separated table. The first record is the header and
// every record must have the same number of fields.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse %s: no header row", name)
	}

	return newTable(name, records[0], records[1:]), nil
}

// ReadXLSX loads the first sheet of a workbook. Short rows are padded;
// rows wider than the header are rejected.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	header := rows[0]
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("sheet %q row %d: %d cells, header has %d", sheets[0], i+2, len(row), len(header))
		}
	}

	return newTable(filepath.Base(path), header, rows[1:]), nil
}

func newTable(name string, header []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: make([]string, len(header)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for i, h := range header {
		t.Columns[i] = ColumnLabel(h)
	}
	for _, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ColumnLabel maps an unnamed placeholder (or blank header) to "".
func ColumnLabel(header string) string {
	h := strings.TrimSpace(header)
	if h == "" || strings.HasPrefix(h, UnnamedPrefix) {
		return ""
	}
	return header
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the first column called name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Float returns the column parsed as numbers, one per row. Cells that are
// empty or not numeric are NaN. The second result is false when the column
// does not exist.
func (t *Table) Float(name string) ([]float64, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = ParseFloat(row[idx])
	}
	return out, true
}

// NumericColumns returns the columns that hold at least one number, in order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if c == "" {
			continue
		}
		values, _ := t.Float(c)
		if CountFinite(values) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// ParseFloat parses a cell, returning NaN when it is not a finite number.
func ParseFloat(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// Finite returns the non-NaN values, in order.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CountFinite returns the number of non-NaN values.
func CountFinite(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
