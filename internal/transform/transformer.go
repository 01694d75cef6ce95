package transform

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"

	"tabviz/internal/config"
	"tabviz/internal/exporter"
	"tabviz/internal/infrastructure"
	"tabviz/internal/tabular"
	"tabviz/pkg/contracts/domain"
)

// SummaryHeader is the header row of a summary table.
var SummaryHeader = []string{"column_name", "mean", "stddev"}

// Result describes the outputs written for one artifact entry
type Result struct {
	Name            string
	SummaryPath     string
	TransformedPath string
	Columns         []ColumnStats
	Rows            int
}

// Transformer writes summary and normalised tables for artifact entries
type Transformer struct {
	dataDir string
	writer  *exporter.TableWriter
	logger  *slog.Logger
}

// NewTransformer creates a transformer that reads and writes in dataDir
func NewTransformer(dataDir string, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "transform")
	return &Transformer{
		dataDir: dataDir,
		writer:  exporter.NewTableWriter(logger),
		logger:  logger,
	}
}

// Run transforms every entry of the artifact in order.
func (t *Transformer) Run(ctx context.Context, artifact *domain.ParametersArtifact) []domain.Outcome[Result] {
	outcomes := make([]domain.Outcome[Result], 0, artifact.Len())
	for _, entry := range artifact.Entries() {
		entryCtx, span := infrastructure.StartItemSpan(ctx, "transform.entry", entry.Name)
		outcome := t.TransformEntry(entryCtx, entry.Name, entry.Params)
		infrastructure.EndItemSpan(span, outcome.Skip)
		if !outcome.OK() {
			t.logger.WarnContext(ctx, "Skipping entry",
				slog.String("entry", entry.Name),
				slog.String("code", string(outcome.Skip.Code)),
				slog.String("reason", outcome.Skip.Reason))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// TransformEntry processes a single artifact entry.
func (t *Transformer) TransformEntry(ctx context.Context, name string, params domain.FileParameters) domain.Outcome[Result] {
	fileName := params.FileName
	if fileName == "" {
		fileName = name
	}

	if domain.IsSummary(fileName) {
		return domain.Skipped[Result](name, domain.SkipSummaryFile, "%s is a summary table", fileName)
	}
	if !params.HasColumns() {
		return domain.Skipped[Result](name, domain.SkipMissingColumns, "entry has no columns field")
	}

	path := filepath.Join(t.dataDir, fileName)
	if !config.FileExists(path) {
		return domain.Skipped[Result](name, domain.SkipMissingFile, "file %s not found", path)
	}

	table, err := tabular.ReadFile(path)
	if err != nil {
		return domain.Skipped[Result](name, domain.SkipUnreadable, "%v", err)
	}

	columns, series := t.collect(ctx, table, params.Columns)
	if len(columns) == 0 {
		return domain.Skipped[Result](name, domain.SkipNoNumericData, "none of the listed columns hold numeric data")
	}

	result := Result{
		Name:            name,
		SummaryPath:     filepath.Join(t.dataDir, domain.SummaryName(fileName)),
		TransformedPath: filepath.Join(t.dataDir, domain.TransformedName(fileName)),
		Columns:         columns,
	}

	summary := make([][]string, 0, len(columns))
	for _, c := range columns {
		summary = append(summary, []string{c.Name, formatFloat(c.Mean), formatFloat(c.StdDev)})
	}
	if err := t.writer.WriteTable(result.SummaryPath, exporter.WriteOptions{
		Headers: SummaryHeader,
		Records: summary,
	}); err != nil {
		return domain.Skipped[Result](name, domain.SkipRenderFailed, "failed to write summary: %v", err)
	}

	headers, records := normalizedRecords(columns, series)
	result.Rows = len(records)
	if err := t.writer.WriteTable(result.TransformedPath, exporter.WriteOptions{
		Headers: headers,
		Records: records,
	}); err != nil {
		return domain.Skipped[Result](name, domain.SkipRenderFailed, "failed to write transformed table: %v", err)
	}

	t.logger.InfoContext(ctx, "Entry transformed",
		slog.String("entry", name),
		slog.Int("columns", len(columns)),
		slog.Int("rows", result.Rows),
		slog.String("summary", result.SummaryPath),
		slog.String("transformed", result.TransformedPath))

	return domain.Ok(result)
}

// collect gathers the numeric values of every requested column found in the
// table. Unnamed columns are row indices and are left out.
func (t *Transformer) collect(ctx context.Context, table *tabular.Table, requested []string) ([]ColumnStats, [][]float64) {
	var (
		columns []ColumnStats
		series  [][]float64
		seen    = make(map[string]bool, len(requested))
	)

	for _, name := range requested {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		raw, ok := table.Float(name)
		if !ok {
			t.logger.WarnContext(ctx, "Column not found in table",
				slog.String("file", table.Name),
				slog.String("column", name))
			continue
		}

		values := tabular.Finite(raw)
		dropped := len(raw) - len(values)
		if dropped > 0 {
			t.logger.DebugContext(ctx, "Dropped non-numeric cells",
				slog.String("file", table.Name),
				slog.String("column", name),
				slog.Int("dropped", dropped))
		}
		if len(values) == 0 {
			continue
		}

		mean, stddev := Describe(values)
		columns = append(columns, ColumnStats{
			Name:    name,
			Mean:    mean,
			StdDev:  stddev,
			Count:   len(values),
			Dropped: dropped,
		})
		series = append(series, values)
	}

	return columns, series
}

// normalizedRecords lays out the normalised series row by row, truncated to
// the shortest series.
func normalizedRecords(columns []ColumnStats, series [][]float64) ([]string, [][]string) {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Name
	}

	rows := -1
	scaled := make([][]float64, len(series))
	for i, s := range series {
		scaled[i] = Normalize(s)
		if rows < 0 || len(s) < rows {
			rows = len(s)
		}
	}

	records := make([][]string, rows)
	for r := 0; r < rows; r++ {
		record := make([]string, len(scaled))
		for c := range scaled {
			record[c] = formatFloat(scaled[c][r])
		}
		records[r] = record
	}
	return headers, records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
