package extractor

import (
	"context"
	"log/slog"
	"slices"

	apperrors "tabviz/internal/errors"
	"tabviz/internal/files"
	"tabviz/internal/infrastructure"
	"tabviz/internal/tabular"
	"tabviz/pkg/contracts/domain"
)

// DefaultExclusions maps file names to the column-name substrings that must
// never be plotted for them.
var DefaultExclusions = map[string][]string{
	"fetal.csv": {"histogram", "mean", "percent"},
}

// MergeExclusions returns DefaultExclusions extended with overrides.
// Override terms are appended after the built-in ones for the same file
// name; built-in terms are always kept and duplicates dropped.
func MergeExclusions(overrides map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(DefaultExclusions)+len(overrides))
	for name, terms := range DefaultExclusions {
		merged[name] = appendUnique(nil, terms)
	}
	for name, terms := range overrides {
		merged[name] = appendUnique(merged[name], terms)
	}
	return merged
}

func appendUnique(dst, terms []string) []string {
	for _, term := range terms {
		if !slices.Contains(dst, term) {
			dst = append(dst, term)
		}
	}
	return dst
}

// Extractor builds ParametersArtifacts from a directory of tables
type Extractor struct {
	extensions []string
	exclusions map[string][]string
	logger     *slog.Logger
}

// NewExtractor creates an extractor for files with the given extensions.
// exclusions is typically the result of MergeExclusions.
func NewExtractor(extensions []string, exclusions map[string][]string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if exclusions == nil {
		exclusions = MergeExclusions(nil)
	}
	return &Extractor{
		extensions: extensions,
		exclusions: exclusions,
		logger:     logger.With("component", "extractor"),
	}
}

// Scan inspects every source table in dir. The artifact holds one entry per
// readable file, in file-name order; the outcomes list every candidate,
// including skipped ones. An unreadable directory is an error.
func (e *Extractor) Scan(ctx context.Context, dir string, normalize bool) (*domain.ParametersArtifact, []domain.Outcome[domain.FileParameters], error) {
	candidates, err := files.FindTabularFiles(dir, e.extensions)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to list data directory", err).
			WithContext("dir", dir)
	}

	e.logger.InfoContext(ctx, "Scanning data directory",
		slog.String("dir", dir),
		slog.Int("candidates", len(candidates)),
		slog.Bool("normalize", normalize))

	artifact := domain.NewParametersArtifact()
	outcomes := make([]domain.Outcome[domain.FileParameters], 0, len(candidates))

	for _, file := range candidates {
		fileCtx, span := infrastructure.StartItemSpan(ctx, "extract.file", file.Name)
		outcome := e.inspect(fileCtx, file, normalize)
		infrastructure.EndItemSpan(span, outcome.Skip)
		outcomes = append(outcomes, outcome)
		if outcome.OK() {
			artifact.Set(file.Name, outcome.Value)
		}
	}

	e.logger.InfoContext(ctx, "Scan complete",
		slog.Int("entries", artifact.Len()),
		slog.Int("skipped", len(domain.Skips(outcomes))))

	return artifact, outcomes, nil
}

func (e *Extractor) inspect(ctx context.Context, file files.FileInfo, normalize bool) domain.Outcome[domain.FileParameters] {
	table, err := tabular.ReadFile(file.Path)
	if err != nil {
		e.logger.WarnContext(ctx, "Could not process file",
			slog.String("file", file.Name),
			slog.String("error", err.Error()))
		return domain.Skipped[domain.FileParameters](file.Name, domain.SkipUnreadable, "%v", err)
	}

	params := domain.FileParameters{
		LinesToRead: table.NumRows(),
		Columns:     table.Columns,
		FileName:    file.Name,
		OtherParameters: domain.OtherParameters{
			Normalize: normalize,
		},
	}
	if terms, ok := e.exclusions[file.Name]; ok {
		params.OtherParameters.DoNotInclude = append([]string{}, terms...)
	}

	e.logger.DebugContext(ctx, "File inspected",
		slog.String("file", file.Name),
		slog.Int("rows", params.LinesToRead),
		slog.Int("columns", len(params.Columns)))

	return domain.Ok(params)
}
