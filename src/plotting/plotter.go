// Package plotting orchestrates combined plots: it drives the combiner to a
// presentation configuration, invokes a plotter once per bundle onto one
// shared figure, and hands the finished figure to file output and the
// results catalog.
package plotting

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

// Plotter is the render-function contract. A plotter draws one bundle's
// values onto a figure and returns the figure handle, which the handler
// threads into the next invocation so all bundles share one figure.
type Plotter interface {
	// PlotType is the tag used in output filenames and catalog records,
	// e.g. "BinnedData".
	PlotType() string
	// DefaultPlotConfig declares the plotter's default configuration.
	// Nil values carry no opinion.
	DefaultPlotConfig() metricdata.PlotConfig
	// ObjectPlotter reports whether the plotter accepts object-typed
	// values (values that are not plain numbers).
	ObjectPlotter() bool
	// Plot draws values onto fig (nil means start a new figure) and
	// returns the figure handle.
	Plot(values []float64, slicer metricdata.Slicer, cfg metricdata.PlotConfig, fig *Figure) (*Figure, error)
}

// letterColors maps the single-letter color codes carried in plot
// configuration to drawing colors.
var letterColors = map[string]drawing.Color{
	"b": chart.ColorBlue,
	"g": chart.ColorGreen,
	"y": chart.ColorYellow,
	"r": chart.ColorRed,
	"m": {R: 238, G: 0, B: 238, A: 255},
	"k": chart.ColorBlack,
	"c": chart.ColorCyan,
	"w": chart.ColorWhite,
}

// colorFor resolves a configured color code, defaulting to blue.
func colorFor(code string) drawing.Color {
	if c, ok := letterColors[code]; ok {
		return c
	}
	return chart.ColorBlue
}

// configColor reads the active per-bundle color from cfg.
func configColor(cfg metricdata.PlotConfig) drawing.Color {
	code, _ := cfg.String("color")
	return colorFor(code)
}
