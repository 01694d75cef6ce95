package render

import (
	"math"
	"unicode/utf8"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Legend geometry in pixels. Entries start below the chart title.
const (
	legendTop       = 50
	legendBottom    = 20
	legendRowHeight = 14
	legendPadding   = 5
	legendSwatch    = 20
	legendGap       = 5
	legendCharWidth = 6
	legendMinRunes  = 5
	legendFontSize  = 8.0
)

// legendLayout places legend entries in a grid of columns filling the
// left gutter top to bottom, then left to right.
type legendLayout struct {
	Rows        int
	Columns     int
	ColumnWidth int
	MaxRunes    int
}

func newLegendLayout(entries, longestName, width, height int) legendLayout {
	rows := (height - legendTop - legendBottom - 2*legendPadding) / legendRowHeight
	if rows < 1 {
		rows = 1
	}
	cols := (entries + rows - 1) / rows
	if cols < 1 {
		cols = 1
	}

	runes := longestName
	if limit := (width/2)/cols - legendSwatch - legendGap - 2*legendPadding; runes*legendCharWidth > limit {
		runes = max(limit/legendCharWidth, legendMinRunes)
	}

	return legendLayout{
		Rows:        rows,
		Columns:     cols,
		ColumnWidth: runes*legendCharWidth + legendSwatch + legendGap + 2*legendPadding,
		MaxRunes:    runes,
	}
}

// Gutter is the left chart padding that holds the legend.
func (l legendLayout) Gutter() int {
	return max(l.Columns*l.ColumnWidth+2*legendPadding, 120)
}

// Position returns the swatch origin and text baseline of entry i.
func (l legendLayout) Position(i int) (x, y int) {
	col, row := i/l.Rows, i%l.Rows
	x = legendPadding + col*l.ColumnWidth
	y = legendTop + legendPadding + (row+1)*legendRowHeight
	return x, y
}

// columnLegend draws one entry per series of c using layout.
func columnLegend(c *chart.Chart, layout legendLayout) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		style := defaults.InheritFrom(chart.Style{
			FontColor: chart.DefaultTextColor,
			FontSize:  legendFontSize,
		})

		for i, s := range c.Series {
			x, y := layout.Position(i)
			line := s.GetStyle()

			r.SetStrokeColor(line.GetStrokeColor())
			r.SetStrokeWidth(line.GetStrokeWidth())
			r.SetStrokeDashArray(line.GetStrokeDashArray())
			r.MoveTo(x, y-legendFontSize/2)
			r.LineTo(x+legendSwatch, y-legendFontSize/2)
			r.Stroke()

			style.GetTextOptions().WriteToRenderer(r)
			r.Text(shorten(s.GetName(), layout.MaxRunes), x+legendSwatch+legendGap, y)
		}
	}
}

// shorten keeps the head and tail of name so numbered columns stay
// distinguishable.
func shorten(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit || limit < 3 {
		return name
	}
	runes := []rune(name)
	tail := (limit - 1) / 2
	head := limit - 1 - tail
	return string(runes[:head]) + "…" + string(runes[len(runes)-tail:])
}

// seriesColor spreads n colours evenly around the hue circle, alternating
// brightness so neighbours stay apart.
func seriesColor(i, n int) drawing.Color {
	if n < 1 {
		n = 1
	}
	hue := 360 * float64(i%n) / float64(n)
	value := 0.85
	if i%2 == 1 {
		value = 0.6
	}
	return hsv(hue, 0.8, value)
}

func hsv(h, s, v float64) drawing.Color {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	channel := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }
	return drawing.Color{R: channel(r), G: channel(g), B: channel(b), A: 255}
}
