package plotting

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

// BinnedDataPlot draws one line per bundle across the slicer's bin points.
type BinnedDataPlot struct{}

func (BinnedDataPlot) PlotType() string { return "BinnedData" }

func (BinnedDataPlot) DefaultPlotConfig() metricdata.PlotConfig {
	// No opinions beyond the derived labels.
	return metricdata.PlotConfig{"ylabel": nil}
}

func (BinnedDataPlot) ObjectPlotter() bool { return false }

// Plot appends one continuous series of the bundle's values over the
// slicer's bin centers; masked (NaN) slices are dropped.
func (BinnedDataPlot) Plot(values []float64, slicer metricdata.Slicer, cfg metricdata.PlotConfig, fig *Figure) (*Figure, error) {
	if fig == nil {
		fig = NewFigure(cfg)
	}
	pts := slicer.Points()
	if len(pts) != len(values) {
		return nil, fmt.Errorf("binned data: %d values for %d slice points", len(values), len(pts))
	}
	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, pts[i])
		ys = append(ys, v)
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("binned data: need at least 2 unmasked values, have %d", len(xs))
	}
	name, _ := cfg.String("label")
	fig.Series = append(fig.Series, chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeWidth: 2, StrokeColor: configColor(cfg)},
	})
	return fig, nil
}
