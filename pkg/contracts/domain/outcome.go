package domain

import "fmt"

// SkipCode classifies why an item was skipped.
type SkipCode string

const (
	SkipUnreadable          SkipCode = "unreadable"            // file could not be read or parsed
	SkipSummaryFile         SkipCode = "summary_file"          // pre-aggregated table
	SkipMissingColumns      SkipCode = "missing_columns"       // no columns field in the entry
	SkipEmptySelection      SkipCode = "empty_selection"       // every column filtered out
	SkipMissingFile         SkipCode = "missing_file"          // resolved path not on disk
	SkipMissingTableColumns SkipCode = "missing_table_columns" // none of the requested columns exist
	SkipNoNumericData       SkipCode = "no_numeric_data"       // nothing plottable
	SkipRenderFailed        SkipCode = "render_failed"         // chart or file write failed
)

// Skip records an item that was abandoned and why.
type Skip struct {
	Item   string   `json:"item"`
	Code   SkipCode `json:"code"`
	Reason string   `json:"reason"`
}

func (s Skip) String() string {
	return fmt.Sprintf("%s skipped (%s): %s", s.Item, s.Code, s.Reason)
}

// Outcome is either a value or a skip.
type Outcome[T any] struct {
	Value T
	Skip  *Skip
}

// Ok wraps a successful value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Skipped builds a skipped outcome.
func Skipped[T any](item string, code SkipCode, format string, args ...any) Outcome[T] {
	return Outcome[T]{Skip: &Skip{Item: item, Code: code, Reason: fmt.Sprintf(format, args...)}}
}

// OK reports whether the outcome carries a value.
func (o Outcome[T]) OK() bool {
	return o.Skip == nil
}

// Values returns the values of the successful outcomes, in order.
func Values[T any](outcomes []Outcome[T]) []T {
	var out []T
	for _, o := range outcomes {
		if o.OK() {
			out = append(out, o.Value)
		}
	}
	return out
}

// Skips returns the skips, in order.
func Skips[T any](outcomes []Outcome[T]) []Skip {
	var out []Skip
	for _, o := range outcomes {
		if o.Skip != nil {
			out = append(out, *o.Skip)
		}
	}
	return out
}
