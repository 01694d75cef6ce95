package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"unicode/utf8"

	"github.com/wcharczuk/go-chart/v2"

	"tabviz/internal/tabular"
)

// Options controls chart geometry
type Options struct {
	Interval    int
	Bins        int
	GridColumns int
	Width       int
	Height      int
	CellWidth   int
	CellHeight  int
}

var gridStyle = chart.Style{
	StrokeColor: chart.ColorLightGray,
	StrokeWidth: 1,
}

// DisplayName labels a column in legends and titles.
func DisplayName(column string, position int) string {
	if column == "" {
		return fmt.Sprintf("column %d", position)
	}
	return column
}

// LineChart builds the all-columns chart for table. Rows are sampled at
// opts.Interval and non-numeric cells are left out of each line. Columns
// with nothing to draw are returned in dropped.
func LineChart(table *tabular.Table, columns []string, opts Options) (*chart.Chart, []string, error) {
	indices := SampleIndices(table.NumRows(), opts.Interval)

	var (
		lines   []chart.ContinuousSeries
		dropped []string
		bounds  = newBounds()
		longest int
	)

	for _, column := range columns {
		values, ok := table.Float(column)
		if !ok {
			dropped = append(dropped, column)
			continue
		}

		xs := make([]float64, 0, len(indices))
		ys := make([]float64, 0, len(indices))
		for _, row := range indices {
			if v := values[row]; !math.IsNaN(v) {
				xs = append(xs, float64(row))
				ys = append(ys, v)
				bounds.add(float64(row), v)
			}
		}
		if len(xs) == 0 {
			dropped = append(dropped, column)
			continue
		}

		name := DisplayName(column, table.ColumnIndex(column))
		if n := utf8.RuneCountInString(name); n > longest {
			longest = n
		}
		lines = append(lines, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
		})
	}

	if len(lines) == 0 {
		return nil, dropped, fmt.Errorf("no numeric data in %s", table.Name)
	}

	series := make([]chart.Series, len(lines))
	for i, line := range lines {
		line.Style = chart.Style{
			StrokeColor: seriesColor(i, len(lines)),
			StrokeWidth: 1.5,
		}
		series[i] = line
	}
	legend := newLegendLayout(len(series), longest, opts.Width, opts.Height)

	ch := &chart.Chart{
		Title:  fmt.Sprintf("All Columns from %s", table.Name),
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			// the legend is drawn in this gutter, outside the plot area
			Padding: chart.Box{Top: legendTop, Left: legend.Gutter(), Right: 20, Bottom: legendBottom},
		},
		XAxis: chart.XAxis{
			Name:           "Index",
			Range:          bounds.xRange(),
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           "Normalized Value",
			Range:          bounds.yRange(),
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{columnLegend(ch, legend)}

	return ch, dropped, nil
}

// HistogramChart builds one histogram cell.
func HistogramChart(title string, values []float64, opts Options) (*chart.Chart, error) {
	finite := tabular.Finite(values)
	if len(finite) == 0 {
		return nil, fmt.Errorf("no numeric data for %s", title)
	}

	centers, counts, lo, hi := Bins(finite, opts.Bins)

	return &chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 10},
		Width:      opts.CellWidth,
		Height:     opts.CellHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:           "Frequency",
			GridMajorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.HistogramSeries{
				Name: title,
				Style: chart.Style{
					FillColor:   chart.ColorBlue,
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 1,
				},
				InnerSeries: chart.ContinuousSeries{
					XValues: centers,
					YValues: counts,
				},
			},
		},
	}, nil
}

// HistogramGrid renders one histogram per column and lays the cells out in
// a grid of opts.GridColumns columns. Columns without numeric data are
// returned in dropped.
func HistogramGrid(table *tabular.Table, columns []string, opts Options) (image.Image, []string, error) {
	var (
		cells   []image.Image
		dropped []string
	)

	for _, column := range columns {
		values, ok := table.Float(column)
		if !ok {
			dropped = append(dropped, column)
			continue
		}
		ch, err := HistogramChart(DisplayName(column, table.ColumnIndex(column)), values, opts)
		if err != nil {
			dropped = append(dropped, column)
			continue
		}
		img, err := renderImage(ch)
		if err != nil {
			return nil, dropped, fmt.Errorf("histogram %q: %w", column, err)
		}
		cells = append(cells, img)
	}

	if len(cells) == 0 {
		return nil, dropped, fmt.Errorf("no numeric data in %s", table.Name)
	}

	rows, cols := GridLayout(len(cells), opts.GridColumns)
	canvas := image.NewRGBA(image.Rect(0, 0, cols*opts.CellWidth, rows*opts.CellHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, cell := range cells {
		r, c := i/cols, i%cols
		origin := image.Pt(c*opts.CellWidth, r*opts.CellHeight)
		rect := image.Rectangle{Min: origin, Max: origin.Add(cell.Bounds().Size())}
		draw.Draw(canvas, rect, cell, cell.Bounds().Min, draw.Src)
	}

	return canvas, dropped, nil
}

// renderImage rasterizes ch
func renderImage(ch *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// bounds tracks the data extent so degenerate axes get a usable range
type bounds struct {
	minX, maxX, minY, maxY float64
}

func newBounds() *bounds {
	return &bounds{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
	}
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// xRange returns nil (auto) unless every point shares one x
func (b *bounds) xRange() chart.Range {
	if b.maxX > b.minX {
		return nil
	}
	return &chart.ContinuousRange{Min: b.minX, Max: b.minX + 1}
}

// yRange returns nil (auto) unless every point shares one y
func (b *bounds) yRange() chart.Range {
	if b.maxY > b.minY {
		return nil
	}
	return &chart.ContinuousRange{Min: b.minY - 0.5, Max: b.maxY + 0.5}
}
