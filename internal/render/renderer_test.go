package render

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"tabviz/internal/tabular"
	"tabviz/pkg/contracts/domain"
)

func testOptions() Options {
	return Options{
		Interval:    1,
		Bins:        50,
		GridColumns: 3,
		Width:       600,
		Height:      400,
		CellWidth:   200,
		CellHeight:  150,
	}
}

func writeTable(t *testing.T, dir, name string, columns []string, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(columns, ",") + "\n")
	for r := 0; r < rows; r++ {
		cells := make([]string, len(columns))
		for c := range columns {
			cells[c] = strconv.FormatFloat(float64((r*(c+1))%7)/7, 'f', 4, 64)
		}
		b.WriteString(strings.Join(cells, ",") + "\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func newTestRenderer(imagesDir string) *Renderer {
	return NewRenderer(imagesDir, testOptions(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestRenderTarget(t *testing.T) {
	dataDir := t.TempDir()
	imagesDir := filepath.Join(t.TempDir(), "images")

	columns := []string{"a", "b", "c", "d", "e", "f", "g"}
	path := writeTable(t, dataDir, "sample_transformed.csv", columns, 40)

	r := newTestRenderer(imagesDir)
	outcome := r.RenderTarget(context.Background(), domain.PlotTarget{
		Name:    "sample.csv",
		Path:    path,
		Columns: append([]string{"not_there"}, columns...),
	}, true)
	require.True(t, outcome.OK(), "%v", outcome.Skip)

	linePath := filepath.Join(imagesDir, "sample_transformed_all_columns.png")
	gridPath := filepath.Join(imagesDir, "sample_transformed_histograms.png")
	assert.Equal(t, []string{linePath, gridPath}, outcome.Value.Paths)

	w, h := decodeSize(t, linePath)
	assert.Equal(t, 600, w)
	assert.Equal(t, 400, h)

	// 7 columns in a 3-wide grid -> 3 rows
	w, h = decodeSize(t, gridPath)
	assert.Equal(t, 3*200, w)
	assert.Equal(t, 3*150, h)
}

func TestRenderTarget_LineOnly(t *testing.T) {
	dataDir := t.TempDir()
	imagesDir := filepath.Join(t.TempDir(), "images")
	path := writeTable(t, dataDir, "plain.csv", []string{"x"}, 3)

	outcome := newTestRenderer(imagesDir).RenderTarget(context.Background(),
		domain.PlotTarget{Name: "plain.csv", Path: path, Columns: []string{"x"}}, false)
	require.True(t, outcome.OK(), "%v", outcome.Skip)
	assert.Len(t, outcome.Value.Paths, 1)
	assert.NoFileExists(t, filepath.Join(imagesDir, "plain_histograms.png"))
}

func TestRenderTarget_HistogramFailureKeepsLineChart(t *testing.T) {
	dataDir := t.TempDir()
	imagesDir := filepath.Join(t.TempDir(), "images")
	path := writeTable(t, dataDir, "sample.csv", []string{"a", "b"}, 10)

	// a directory in the way makes the grid write fail
	require.NoError(t, os.MkdirAll(filepath.Join(imagesDir, "sample_histograms.png"), 0755))

	outcome := newTestRenderer(imagesDir).RenderTarget(context.Background(),
		domain.PlotTarget{Name: "sample.csv", Path: path, Columns: []string{"a", "b"}}, true)
	require.True(t, outcome.OK(), "%v", outcome.Skip)

	linePath := filepath.Join(imagesDir, "sample_all_columns.png")
	assert.Equal(t, []string{linePath}, outcome.Value.Paths)
	assert.FileExists(t, linePath)
	require.Len(t, outcome.Value.Failures, 1)
	assert.Equal(t, domain.SkipRenderFailed, outcome.Value.Failures[0].Code)
	assert.Equal(t, "sample.csv", outcome.Value.Failures[0].Item)
}

func TestRenderTarget_Skips(t *testing.T) {
	dataDir := t.TempDir()
	numeric := writeTable(t, dataDir, "n.csv", []string{"a"}, 5)
	text := filepath.Join(dataDir, "t.csv")
	require.NoError(t, os.WriteFile(text, []byte("label\nfoo\nbar\n"), 0644))

	tests := []struct {
		name   string
		target domain.PlotTarget
		code   domain.SkipCode
	}{
		{"unreadable", domain.PlotTarget{Name: "x", Path: filepath.Join(dataDir, "none.csv"), Columns: []string{"a"}}, domain.SkipUnreadable},
		{"no requested column exists", domain.PlotTarget{Name: "n", Path: numeric, Columns: []string{"zzz"}}, domain.SkipMissingTableColumns},
		{"nothing numeric", domain.PlotTarget{Name: "t", Path: text, Columns: []string{"label"}}, domain.SkipNoNumericData},
	}

	r := newTestRenderer(t.TempDir())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := r.RenderTarget(context.Background(), tt.target, true)
			require.False(t, outcome.OK())
			assert.Equal(t, tt.code, outcome.Skip.Code)
		})
	}
}

func TestLineChart_Sampling(t *testing.T) {
	table, err := tabular.ReadCSV(strings.NewReader("v,w\n0,x\n1,1\n2,1\n3,x\n4,1\n5,1\n6,x\n"), "s.csv")
	require.NoError(t, err)

	opts := testOptions()
	opts.Interval = 3
	ch, dropped, err := LineChart(table, []string{"v", "w"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"w"}, dropped)
	require.Len(t, ch.Series, 1)
	series, ok := ch.Series[0].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 3, 6}, series.XValues)
	assert.Equal(t, []float64{0, 3, 6}, series.YValues)

	opts.Interval = 1
	ch, dropped, err = LineChart(table, []string{"v", "w"}, opts)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Len(t, ch.Series, 2)
}

func TestLineChart_SingleRow(t *testing.T) {
	table, err := tabular.ReadCSV(strings.NewReader("v\n0.5\n"), "one.csv")
	require.NoError(t, err)

	ch, _, err := LineChart(table, []string{"v"}, testOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "one.png")
	require.NoError(t, WriteChart(path, ch))
	assert.FileExists(t, path)
}
