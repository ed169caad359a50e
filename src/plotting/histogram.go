package plotting

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

const defaultHistogramBins = 50

// HistogramPlot draws the distribution of each bundle's metric values.
type HistogramPlot struct{}

func (HistogramPlot) PlotType() string { return "Histogram" }

func (HistogramPlot) DefaultPlotConfig() metricdata.PlotConfig {
	return metricdata.PlotConfig{"bins": defaultHistogramBins, "ylabel": "Count of points"}
}

func (HistogramPlot) ObjectPlotter() bool { return false }

// Plot appends one series of per-bin counts over the value range of this
// bundle. The bin count comes from the "bins" configuration key.
func (HistogramPlot) Plot(values []float64, slicer metricdata.Slicer, cfg metricdata.PlotConfig, fig *Figure) (*Figure, error) {
	if fig == nil {
		fig = NewFigure(cfg)
	}
	var clean []float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("histogram: no unmasked values")
	}
	min, max := clean[0], clean[0]
	for _, v := range clean {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max <= min {
		max = min + 1
	}
	nbins := cfg.Int("bins", defaultHistogramBins)
	if nbins < 2 {
		nbins = 2
	}
	width := (max - min) / float64(nbins)
	counts := make([]float64, nbins)
	for _, v := range clean {
		i := int((v - min) / width)
		if i >= nbins {
			i = nbins - 1
		}
		counts[i]++
	}
	xs := make([]float64, nbins)
	for i := range xs {
		xs[i] = min + width*(float64(i)+0.5)
	}
	name, _ := cfg.String("label")
	fig.Series = append(fig.Series, chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: counts,
		Style:   chart.Style{StrokeWidth: 2, StrokeColor: configColor(cfg)},
	})
	return fig, nil
}
