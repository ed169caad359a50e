package plotting

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

// Default figure size (pixels).
const (
	DefaultWidth  = 1100
	DefaultHeight = 340
)

// Figure is the running render handle threaded through per-bundle plotter
// invocations. It accumulates one series per bundle and renders them as one
// chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int

	Series []chart.Series

	// ShowLegend is set by the handler when more than one bundle was
	// drawn. LegendLoc records the configured location tag.
	ShowLegend bool
	LegendLoc  string

	// Caption, when non-empty, is stamped onto the rendered raster image.
	Caption string
}

// NewFigure starts a figure seeded from the plot configuration.
func NewFigure(cfg metricdata.PlotConfig) *Figure {
	f := &Figure{Width: DefaultWidth, Height: DefaultHeight}
	if v, ok := cfg.String("title"); ok {
		f.Title = v
	}
	if v, ok := cfg.String("xlabel"); ok {
		f.XLabel = v
	}
	if v, ok := cfg.String("ylabel"); ok {
		f.YLabel = v
	}
	if v, ok := cfg.String("caption"); ok {
		f.Caption = v
	}
	f.Width = cfg.Int("width", f.Width)
	f.Height = cfg.Int("height", f.Height)
	return f
}

// chart assembles the go-chart representation of the accumulated series.
func (f *Figure) chart() chart.Chart {
	var yAxisRange *chart.ContinuousRange
	var yTicks []chart.Tick
	minY, maxY := f.yExtent()
	if !math.IsNaN(minY) && !math.IsNaN(maxY) {
		nMin, nMax := niceAxisBounds(minY, maxY)
		yAxisRange = &chart.ContinuousRange{Min: nMin, Max: nMax}
		yTicks = niceTicks(nMin, nMax, 6)
	}
	ch := chart.Chart{
		Title:      f.Title,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: f.XLabel},
		YAxis:      chart.YAxis{Name: f.YLabel, Ticks: yTicks},
		Series:     f.Series,
		Width:      f.Width,
		Height:     f.Height,
	}
	if yAxisRange != nil {
		ch.YAxis.Range = yAxisRange
	}
	if f.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

// yExtent scans the accumulated series for the finite y range; NaN,NaN when
// nothing is drawable.
func (f *Figure) yExtent() (float64, float64) {
	minY, maxY := math.NaN(), math.NaN()
	for _, s := range f.Series {
		cs, ok := s.(chart.ContinuousSeries)
		if !ok {
			continue
		}
		for _, y := range cs.YValues {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			if math.IsNaN(minY) || y < minY {
				minY = y
			}
			if math.IsNaN(maxY) || y > maxY {
				maxY = y
			}
		}
	}
	return minY, maxY
}

// Render writes the figure in the given format ("png" or "svg").
func (f *Figure) Render(format string, w io.Writer) error {
	ch := f.chart()
	switch format {
	case "png":
		if f.Caption == "" {
			return ch.Render(chart.PNG, w)
		}
		img, err := f.Image()
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	case "svg":
		return ch.Render(chart.SVG, w)
	default:
		return fmt.Errorf("unsupported figure format %q", format)
	}
}

// Image rasterizes the figure, with the caption stamped when set.
func (f *Figure) Image() (image.Image, error) {
	ch := f.chart()
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render figure: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered figure: %w", err)
	}
	if f.Caption != "" {
		img = drawCaption(img, f.Caption)
	}
	return img, nil
}
