package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"tabviz/internal/config"
	"tabviz/internal/infrastructure"
	"tabviz/internal/tabular"
	"tabviz/pkg/contracts/domain"
)

// Output name suffixes
const (
	AllColumnsSuffix = "_all_columns"
	HistogramsSuffix = "_histograms"
)

// Images lists the files written for one target. Failures holds charts
// that could not be written while others for the same target were.
type Images struct {
	Target   string
	Paths    []string
	Failures []domain.Skip
}

// Renderer writes chart images for plot targets
type Renderer struct {
	imagesDir string
	opts      Options
	logger    *slog.Logger
}

// OptionsFromConfig maps plot configuration to chart options
func OptionsFromConfig(cfg config.PlotConfig) Options {
	return Options{
		Interval:    cfg.Interval,
		Bins:        cfg.Bins,
		GridColumns: cfg.GridColumns,
		Width:       cfg.Width,
		Height:      cfg.Height,
		CellWidth:   cfg.CellWidth,
		CellHeight:  cfg.CellHeight,
	}
}

// NewRenderer creates a renderer writing into imagesDir
func NewRenderer(imagesDir string, opts Options, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		imagesDir: imagesDir,
		opts:      opts,
		logger:    logger.With("component", "render"),
	}
}

// ImagePath returns the output path for a source file and suffix
func (r *Renderer) ImagePath(source, suffix string) string {
	stem, _ := domain.SplitName(source)
	return filepath.Join(r.imagesDir, stem+suffix+"."+config.ImageExtension)
}

// RenderAll renders every target in order.
func (r *Renderer) RenderAll(ctx context.Context, targets []domain.PlotTarget, histograms bool) []domain.Outcome[Images] {
	outcomes := make([]domain.Outcome[Images], 0, len(targets))
	for _, target := range targets {
		targetCtx, span := infrastructure.StartItemSpan(ctx, "render.target", target.Name)
		outcome := r.RenderTarget(targetCtx, target, histograms)
		infrastructure.EndItemSpan(span, outcome.Skip)
		if !outcome.OK() {
			r.logger.WarnContext(ctx, "Skipping target",
				slog.String("target", target.Name),
				slog.String("code", string(outcome.Skip.Code)),
				slog.String("reason", outcome.Skip.Reason))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// RenderTarget reads the target's file and writes its line chart and,
// when requested, its histogram grid.
func (r *Renderer) RenderTarget(ctx context.Context, target domain.PlotTarget, histograms bool) domain.Outcome[Images] {
	table, err := tabular.ReadFile(target.Path)
	if err != nil {
		return domain.Skipped[Images](target.Name, domain.SkipUnreadable, "%v", err)
	}

	columns, missing := Intersect(target.Columns, table.Columns)
	if len(missing) > 0 {
		r.logger.WarnContext(ctx, "Columns not found in table",
			slog.String("file", table.Name),
			slog.Any("missing", missing))
	}
	if len(columns) == 0 {
		return domain.Skipped[Images](target.Name, domain.SkipMissingTableColumns,
			"none of the requested columns exist in %s", table.Name)
	}

	images := Images{Target: target.Name}

	line, dropped, err := LineChart(table, columns, r.opts)
	r.warnDropped(ctx, table.Name, dropped)
	if err != nil {
		return domain.Skipped[Images](target.Name, domain.SkipNoNumericData, "%v", err)
	}
	linePath := r.ImagePath(target.Path, AllColumnsSuffix)
	if err := WriteChart(linePath, line); err != nil {
		return domain.Skipped[Images](target.Name, domain.SkipRenderFailed, "%v", err)
	}
	images.Paths = append(images.Paths, linePath)
	r.logger.InfoContext(ctx, "Saved plot for all columns", slog.String("path", linePath))

	if histograms {
		if err := r.renderHistograms(ctx, table, columns, &images, target.Path); err != nil {
			r.logger.WarnContext(ctx, "Histogram grid not written",
				slog.String("file", table.Name),
				slog.String("error", err.Error()))
			images.Failures = append(images.Failures, domain.Skip{
				Item:   target.Name,
				Code:   domain.SkipRenderFailed,
				Reason: fmt.Sprintf("histograms: %v", err),
			})
		}
	}

	return domain.Ok(images)
}

func (r *Renderer) renderHistograms(ctx context.Context, table *tabular.Table, columns []string, images *Images, source string) error {
	grid, _, err := HistogramGrid(table, columns, r.opts)
	if err != nil {
		return err
	}
	gridPath := r.ImagePath(source, HistogramsSuffix)
	if err := writeImage(gridPath, grid); err != nil {
		return err
	}
	images.Paths = append(images.Paths, gridPath)
	r.logger.InfoContext(ctx, "Saved histogram grid", slog.String("path", gridPath))
	return nil
}

func (r *Renderer) warnDropped(ctx context.Context, file string, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	r.logger.WarnContext(ctx, "Columns without numeric data",
		slog.String("file", file),
		slog.Any("columns", dropped))
}

// writeImage encodes img as PNG into path
func writeImage(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error {
		return png.Encode(f, img)
	})
}

// WriteChart renders ch as PNG into path, creating the directory on demand.
func WriteChart(path string, ch *chart.Chart) error {
	return writeFile(path, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

func writeFile(path string, encode func(*os.File) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := encode(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
