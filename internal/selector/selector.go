// Package selector turns a parameters artifact into the ordered list of
// files and columns to plot.
package selector

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"tabviz/internal/config"
	"tabviz/pkg/contracts/domain"
)

// FilterColumns drops every column that contains one of the non-empty
// exclusion terms as a case-sensitive substring. Order is preserved and the
// result never aliases columns.
func FilterColumns(columns, doNotInclude []string) []string {
	terms := make([]string, 0, len(doNotInclude))
	for _, term := range doNotInclude {
		if term != "" {
			terms = append(terms, term)
		}
	}

	out := make([]string, 0, len(columns))
	for _, column := range columns {
		if !containsAny(column, terms) {
			out = append(out, column)
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// ResolveName returns the physical file name to read for an entry: the
// transformed variant when normalize is set, the original otherwise.
func ResolveName(params domain.FileParameters) string {
	if params.OtherParameters.Normalize {
		return domain.TransformedName(params.FileName)
	}
	return params.FileName
}

// Selector resolves artifact entries against a data directory
type Selector struct {
	dataDir string
	logger  *slog.Logger
}

// NewSelector creates a selector reading from dataDir
func NewSelector(dataDir string, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		dataDir: dataDir,
		logger:  logger.With("component", "selector"),
	}
}

// Select returns one outcome per artifact entry, in artifact order.
func (s *Selector) Select(ctx context.Context, artifact *domain.ParametersArtifact) []domain.Outcome[domain.PlotTarget] {
	outcomes := make([]domain.Outcome[domain.PlotTarget], 0, artifact.Len())
	for _, entry := range artifact.Entries() {
		outcome := s.SelectEntry(entry.Name, entry.Params)
		if !outcome.OK() {
			s.logger.WarnContext(ctx, "Skipping entry",
				slog.String("entry", entry.Name),
				slog.String("code", string(outcome.Skip.Code)),
				slog.String("reason", outcome.Skip.Reason))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// SelectEntry applies the selection rules to a single entry.
func (s *Selector) SelectEntry(name string, params domain.FileParameters) domain.Outcome[domain.PlotTarget] {
	if params.FileName == "" {
		params.FileName = name
	}

	if domain.IsSummary(params.FileName) {
		return domain.Skipped[domain.PlotTarget](name, domain.SkipSummaryFile, "%s is a summary table", params.FileName)
	}
	if !params.HasColumns() {
		return domain.Skipped[domain.PlotTarget](name, domain.SkipMissingColumns, "entry has no columns field")
	}

	columns := FilterColumns(params.Columns, params.OtherParameters.DoNotInclude)
	if len(columns) == 0 {
		return domain.Skipped[domain.PlotTarget](name, domain.SkipEmptySelection,
			"every column matched an exclusion term %q", params.OtherParameters.DoNotInclude)
	}

	path := filepath.Join(s.dataDir, ResolveName(params))
	if !config.FileExists(path) {
		return domain.Skipped[domain.PlotTarget](name, domain.SkipMissingFile, "file %s not found", path)
	}

	return domain.Ok(domain.PlotTarget{
		Name:    name,
		Path:    path,
		Columns: columns,
	})
}
