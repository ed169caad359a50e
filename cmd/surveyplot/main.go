// surveyplot renders combined plots from precomputed metric result bundles.
//
// Each argument names a bundle JSON file (full-line // comments allowed)
// carrying a run name, metadata, metric description, sql constraint, slicer
// description, the computed values and an optional display record. All
// bundles given to one invocation are combined onto a single figure: the
// tool derives the joint title, per-bundle legend labels and colors, axis
// labels and the output file stem from what is shared and what differs
// across the bundles.
//
// Design notes:
//   - Bundles must share one slicer type; mixing types is a fatal error.
//   - With --results-db the metric/display/plot records are upserted into a
//     sqlite catalog after a successful save; catalog failures only warn.
//   - Output lands in --out as <stem>_<plotType>.<format> plus an optional
//     thumb.<stem>_<plotType>.png thumbnail.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/skysurvey/surveyplot/src/metricdata"
	"github.com/skysurvey/surveyplot/src/plotting"
	"github.com/skysurvey/surveyplot/src/resultsdb"
)

func main() {
	outDir := flag.String("out", ".", "Output directory for figures")
	format := flag.String("format", "png", "Figure format (png|svg)")
	dpi := flag.Int("dpi", 600, "Figure resolution; thumbnails scale by 72/dpi")
	save := flag.Bool("save", true, "Save figures to disk")
	thumbnail := flag.Bool("thumbnail", true, "Also save a PNG thumbnail per figure")
	plotType := flag.String("plot", "BinnedData", "Plotter to use (BinnedData|Histogram)")
	suffix := flag.String("suffix", "", "Optional suffix appended to the output file stem")
	resultsPath := flag.String("results-db", "", "Optional sqlite results catalog to record plots into")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	metricdata.SetLogLevel(*logLevel)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: surveyplot [flags] bundle.json [bundle.json ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var plotter plotting.Plotter
	switch *plotType {
	case "BinnedData":
		plotter = plotting.BinnedDataPlot{}
	case "Histogram":
		plotter = plotting.HistogramPlot{}
	default:
		metricdata.Errorf("unknown plotter %q", *plotType)
		os.Exit(2)
	}

	cfg := plotting.Config{
		OutDir:    *outDir,
		SaveFig:   *save,
		Format:    *format,
		DPI:       *dpi,
		Thumbnail: *thumbnail,
	}
	if *resultsPath != "" {
		db, err := resultsdb.Open(*resultsPath)
		if err != nil {
			metricdata.Errorf("open results catalog: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		cfg.Results = db
	}

	bundles := make([]*metricdata.ResultBundle, 0, flag.NArg())
	for _, path := range flag.Args() {
		b, err := loadBundle(path)
		if err != nil {
			metricdata.Errorf("%v", err)
			os.Exit(1)
		}
		bundles = append(bundles, b)
	}

	handler := plotting.NewPlotHandler(cfg)
	if err := handler.SetBundles(bundles); err != nil {
		metricdata.Errorf("combine bundles: %v", err)
		os.Exit(1)
	}
	c := handler.Combiner()
	metricdata.Infof("combined %d bundle(s): %s", len(bundles), c.JointMetricName())
	metricdata.Debugf("joint run=%q metadata=%q sql=%q",
		c.JointRunName(), c.JointMetadata(), c.JointSQLConstraint())

	fig, err := handler.Plot(plotter, nil, *suffix)
	if err != nil {
		metricdata.Errorf("plot: %v", err)
		os.Exit(1)
	}
	if fig == nil {
		// The plotter declined the bundles (already warned).
		os.Exit(1)
	}
	metricdata.Infof("done")
}
