package plotting

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/skysurvey/surveyplot/src/combine"
	"github.com/skysurvey/surveyplot/src/metricdata"
)

// ResultsDB is the results catalog collaborator. Writes are fire-and-forget:
// a failed catalog write is logged and does not roll back a saved figure.
type ResultsDB interface {
	// UpdateMetric upserts a metric record and returns its id.
	UpdateMetric(metricName, slicerName, runName, sqlConstraint, metadata, fileRoot string) (int64, error)
	// UpdateDisplay upserts display grouping for a metric; without
	// overwrite only absent fields are filled in.
	UpdateDisplay(metricID int64, display *metricdata.DisplayDict, overwrite bool) error
	// UpdatePlot records a plot file for a metric.
	UpdatePlot(metricID int64, plotType, plotFile string) error
}

// Config configures a PlotHandler. Empty OutDir/Format and non-positive DPI
// fall back to their defaults; the boolean fields are taken as given, so
// start from DefaultConfig when the defaults are wanted.
type Config struct {
	// OutDir is where figures are written. Default ".".
	OutDir string
	// Results is the optional catalog; nil disables catalog records.
	Results ResultsDB
	// SaveFig controls whether figures are written at all. Default true.
	SaveFig bool
	// Format is the figure format, "png" or "svg". Default "png".
	Format string
	// DPI expresses the output resolution; the thumbnail is scaled by
	// 72/DPI relative to the figure. Default 600.
	DPI int
	// Thumbnail controls whether a PNG thumbnail is saved alongside the
	// figure. Default true.
	Thumbnail bool
}

// DefaultConfig returns the handler defaults.
func DefaultConfig() Config {
	return Config{OutDir: ".", SaveFig: true, Format: "png", DPI: 600, Thumbnail: true}
}

// PlotHandler owns one bundle set at a time and turns it into saved,
// cataloged figures. Reuse across plot calls is safe: every call re-derives
// the presentation state from the installed bundles plus that call's
// overrides.
type PlotHandler struct {
	cfg      Config
	combiner combine.Combiner
}

// NewPlotHandler builds a handler, filling unset config fields from the
// defaults.
func NewPlotHandler(cfg Config) *PlotHandler {
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 600
	}
	return &PlotHandler{cfg: cfg}
}

// SetBundles installs the bundle set to combine and plot.
func (h *PlotHandler) SetBundles(bundles []*metricdata.ResultBundle) error {
	return h.combiner.SetBundles(bundles)
}

// SetBundleMap installs a name-keyed bundle set.
func (h *PlotHandler) SetBundleMap(bundles map[string]*metricdata.ResultBundle) error {
	return h.combiner.SetBundleMap(bundles)
}

// Combiner exposes the combined view over the installed bundles.
func (h *PlotHandler) Combiner() *combine.Combiner { return &h.combiner }

// Plot renders the installed bundles through plotter onto one shared figure,
// saves it and records it into the catalog when configured. A nil figure
// with nil error means the plotter cannot accept the bundles' value type;
// that case is reported as a warning, not an error.
func (h *PlotHandler) Plot(plotter Plotter, userConfig metricdata.PlotConfig, outfileSuffix string) (*Figure, error) {
	bundles := h.combiner.Bundles()
	if len(bundles) == 0 {
		return nil, combine.ErrNoBundles
	}
	if !plotter.ObjectPlotter() {
		for _, b := range bundles {
			if b.Metric.Dtype == "object" && !b.PlotOverrides.Bool("metricIsColor") {
				metricdata.Warnf("cannot plot object metric values with plotter %s", plotter.PlotType())
				return nil, nil
			}
		}
	}

	cfg, err := h.combiner.PlotConfig(plotter.PlotType(), plotter.DefaultPlotConfig(), userConfig)
	if err != nil {
		return nil, err
	}
	outfile := h.buildFileRoot(outfileSuffix)
	plotType := plotter.PlotType()

	labels := cfg.StringSlice("labels")
	colors := cfg.StringSlice("colors")
	var fig *Figure
	for i, b := range bundles {
		if i < len(labels) && labels[i] != "" {
			cfg["label"] = labels[i]
		} else {
			delete(cfg, "label")
		}
		if i < len(colors) {
			cfg["color"] = colors[i]
		}
		fig, err = plotter.Plot(b.Values, b.Slicer, cfg, fig)
		if err != nil {
			return nil, fmt.Errorf("plot bundle %d (%s): %w", i, b.FileRoot, err)
		}
	}
	if len(bundles) > 1 {
		plotType = "Combo" + plotType
		fig.ShowLegend = true
		if loc, ok := cfg.String("legendloc"); ok {
			fig.LegendLoc = loc
		}
	}
	if h.cfg.SaveFig {
		if err := h.save(fig, outfile, plotType); err != nil {
			return nil, err
		}
	}
	return fig, nil
}

// buildFileRoot builds the output file stem. A single bundle keeps its own
// file root; a combination joins the joint run/metric/metadata names plus a
// four-character slicer tag.
func (h *PlotHandler) buildFileRoot(outfileSuffix string) string {
	c := &h.combiner
	var outfile string
	if len(c.Bundles()) == 1 {
		outfile = c.Bundles()[0].FileRoot
	} else {
		outfile = strings.Join([]string{c.JointRunName(), c.JointMetricName(), c.JointMetadata()}, "_")
		outfile += "_" + slicerTag(c.Slicer().Name())
	}
	if outfileSuffix != "" {
		outfile += "_" + outfileSuffix
	}
	return metricdata.NameSanitize(outfile)
}

// slicerTag is the first four characters of the slicer name, uppercased.
func slicerTag(name string) string {
	if len(name) > 4 {
		name = name[:4]
	}
	return strings.ToUpper(name)
}

// buildDisplayDict passes a single bundle's display record through and
// synthesizes a comparison record for combinations.
func (h *PlotHandler) buildDisplayDict() *metricdata.DisplayDict {
	c := &h.combiner
	bundles := c.Bundles()
	if len(bundles) == 1 {
		return bundles[0].Display
	}
	groups := map[string]struct{}{}
	subgroups := map[string]struct{}{}
	group, subgroup := "", ""
	maxOrder := 0
	for _, b := range bundles {
		if b.Display == nil {
			continue
		}
		groups[b.Display.Group] = struct{}{}
		group = b.Display.Group
		subgroups[b.Display.Subgroup] = struct{}{}
		subgroup = b.Display.Subgroup
		if b.Display.Order > maxOrder {
			maxOrder = b.Display.Order
		}
	}
	if len(groups) > 1 {
		group = "Comparisons"
	}
	if len(subgroups) > 1 {
		subgroup = "Comparisons"
	}
	return &metricdata.DisplayDict{
		Group:    group,
		Subgroup: subgroup,
		Order:    maxOrder + 1,
		Caption: fmt.Sprintf("%s metric(s) calculated on a %s grid, for opsim runs %s, for metadata values of %s.",
			c.JointMetricName(), c.Slicer().Name(), c.JointRunName(), c.JointMetadata()),
	}
}

// save writes the figure (and thumbnail) and records it into the catalog.
func (h *PlotHandler) save(fig *Figure, outfile, plotType string) error {
	plotFile := outfile + "_" + plotType + "." + h.cfg.Format
	f, err := os.Create(filepath.Join(h.cfg.OutDir, plotFile))
	if err != nil {
		return fmt.Errorf("create figure file: %w", err)
	}
	if err := fig.Render(h.cfg.Format, f); err != nil {
		f.Close()
		return fmt.Errorf("save figure: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close figure file: %w", err)
	}
	if h.cfg.Thumbnail {
		if err := h.saveThumbnail(fig, outfile, plotType); err != nil {
			return err
		}
	}
	if h.cfg.Results != nil {
		h.record(plotType, plotFile)
	}
	return nil
}

func (h *PlotHandler) saveThumbnail(fig *Figure, outfile, plotType string) error {
	img, err := fig.Image()
	if err != nil {
		return fmt.Errorf("thumbnail render: %w", err)
	}
	img = thumbnailOf(img, 72.0/float64(h.cfg.DPI))
	thumbFile := "thumb." + outfile + "_" + plotType + ".png"
	f, err := os.Create(filepath.Join(h.cfg.OutDir, thumbFile))
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// record performs the three catalog upserts. Failures are warned about and
// otherwise ignored; the saved figure stands regardless.
func (h *PlotHandler) record(plotType, plotFile string) {
	c := &h.combiner
	metricID, err := h.cfg.Results.UpdateMetric(c.JointMetricName(), c.Slicer().Name(),
		c.JointRunName(), c.JointSQLConstraint(), c.JointMetadata(), "")
	if err != nil {
		metricdata.Warnf("catalog metric record failed: %v", err)
		return
	}
	if dd := h.buildDisplayDict(); dd != nil {
		if err := h.cfg.Results.UpdateDisplay(metricID, dd, false); err != nil {
			metricdata.Warnf("catalog display record failed: %v", err)
		}
	}
	if err := h.cfg.Results.UpdatePlot(metricID, plotType, plotFile); err != nil {
		metricdata.Warnf("catalog plot record failed: %v", err)
	}
}
