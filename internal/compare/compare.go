// Package compare draws one randomly chosen column from each of two randomly
// chosen transformed tables on a shared [0,1] axis.
package compare

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"tabviz/internal/config"
	apperrors "tabviz/internal/errors"
	"tabviz/internal/files"
	"tabviz/internal/render"
	"tabviz/internal/tabular"
	"tabviz/pkg/contracts/domain"
)

// Order controls how each series is arranged before plotting
type Order int

const (
	OrderOriginal Order = iota
	OrderAscending
	OrderDescending
)

// Options configures a comparison run
type Options struct {
	DataDir    string
	ImagesDir  string
	Extensions []string
	Order      Order
	Width      int
	Height     int
}

// Pick is one chosen series
type Pick struct {
	File   string
	Column string
	Values []float64
}

// Result describes a written comparison chart
type Result struct {
	Path string
	A, B Pick
}

// Comparer produces comparison charts
type Comparer struct {
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger
}

// NewRand returns a generator seeded with seed, or randomly when seed is 0
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// NewComparer creates a comparer drawing from rng
func NewComparer(opts Options, rng *rand.Rand, logger *slog.Logger) *Comparer {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Comparer{
		opts:   opts,
		rng:    rng,
		logger: logger.With("component", "compare"),
	}
}

// Compare picks two distinct transformed files, one numeric column from
// each, and writes the comparison chart. Candidates without plottable data
// are reported as skips and replaced by the next random candidate. No image
// is written when fewer than two files qualify.
func (c *Comparer) Compare(ctx context.Context) (Result, []domain.Skip, error) {
	candidates, err := files.FindTransformedFiles(c.opts.DataDir, c.opts.Extensions)
	if err != nil {
		return Result{}, nil, apperrors.NewStorageError("failed to list data directory", err).
			WithContext("dir", c.opts.DataDir)
	}
	if len(candidates) < 2 {
		return Result{}, nil, apperrors.NewValidationError(fmt.Sprintf(
			"need at least two %s files in %s, found %d", domain.TransformedMarker, c.opts.DataDir, len(candidates)))
	}

	var (
		picks []Pick
		skips []domain.Skip
	)
	for _, i := range c.rng.Perm(len(candidates)) {
		pick, skip := c.pick(candidates[i])
		if skip != nil {
			c.logger.WarnContext(ctx, "Skipping candidate",
				slog.String("file", skip.Item),
				slog.String("code", string(skip.Code)),
				slog.String("reason", skip.Reason))
			skips = append(skips, *skip)
			continue
		}
		picks = append(picks, pick)
		if len(picks) == 2 {
			break
		}
	}
	if len(picks) < 2 {
		return Result{}, skips, apperrors.NewValidationError(fmt.Sprintf(
			"fewer than two files in %s have plottable data", c.opts.DataDir))
	}

	for i := range picks {
		Arrange(picks[i].Values, c.opts.Order)
	}

	result := Result{
		Path: OutputPath(c.opts.ImagesDir, picks[0].File, picks[1].File),
		A:    picks[0],
		B:    picks[1],
	}

	ch := Chart(result.A, result.B, c.opts)
	if err := render.WriteChart(result.Path, ch); err != nil {
		return Result{}, skips, apperrors.NewRenderError("failed to write comparison chart", err).
			WithContext("path", result.Path)
	}

	c.logger.InfoContext(ctx, "Comparison chart saved",
		slog.String("path", result.Path),
		slog.String("file_a", result.A.File),
		slog.String("column_a", result.A.Column),
		slog.String("file_b", result.B.File),
		slog.String("column_b", result.B.Column))

	return result, skips, nil
}

// pick chooses a random numeric column from file
func (c *Comparer) pick(file files.FileInfo) (Pick, *domain.Skip) {
	table, err := tabular.ReadFile(file.Path)
	if err != nil {
		return Pick{}, &domain.Skip{Item: file.Name, Code: domain.SkipUnreadable, Reason: err.Error()}
	}

	columns := table.NumericColumns()
	if len(columns) == 0 {
		return Pick{}, &domain.Skip{Item: file.Name, Code: domain.SkipNoNumericData, Reason: "no numeric columns"}
	}

	column := columns[c.rng.IntN(len(columns))]
	values, _ := table.Float(column)
	return Pick{
		File:   file.Name,
		Column: column,
		Values: tabular.Finite(values),
	}, nil
}

// Arrange sorts values in place according to order
func Arrange(values []float64, order Order) {
	switch order {
	case OrderAscending:
		slices.Sort(values)
	case OrderDescending:
		slices.Sort(values)
		slices.Reverse(values)
	}
}

// OutputPath names the chart after both source files, without the
// transformed marker.
func OutputPath(imagesDir, fileA, fileB string) string {
	return filepath.Join(imagesDir,
		fmt.Sprintf("%s_vs_%s_comparison.%s", baseName(fileA), baseName(fileB), config.ImageExtension))
}

func baseName(file string) string {
	stem, _ := domain.SplitName(file)
	return strings.Replace(stem, domain.TransformedMarker, "", 1)
}

// YTicks returns ticks over [0,1] at the comparison spacing
func YTicks() []chart.Tick {
	steps := int(math.Round(1 / config.ComparisonTickSpacing))
	ticks := make([]chart.Tick, 0, steps+1)
	for i := 0; i <= steps; i++ {
		v := float64(i) / float64(steps)
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.1f", v)})
	}
	return ticks
}

// Chart builds the comparison chart for two picks
func Chart(a, b Pick, opts Options) *chart.Chart {
	nameA, nameB := Humanize(a.Column), Humanize(b.Column)

	longest := max(len(a.Values), len(b.Values))
	xMax := float64(longest - 1)
	if xMax < 1 {
		xMax = 1
	}

	series := make([]chart.Series, 0, 2)
	for i, p := range []Pick{a, b} {
		xs := make([]float64, len(p.Values))
		for j := range xs {
			xs[j] = float64(j)
		}
		series = append(series, chart.ContinuousSeries{
			Name: fmt.Sprintf("%s (%s)", Humanize(p.Column), p.File),
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 1.5,
			},
			XValues: xs,
			YValues: p.Values,
		})
	}

	ch := &chart.Chart{
		Title:  fmt.Sprintf("Comparison of %s and %s", nameA, nameB),
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Index",
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  "Normalized Value",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
			Ticks: YTicks(),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch
}
