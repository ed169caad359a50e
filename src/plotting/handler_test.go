package plotting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

func testSlicer() *metricdata.OneDSlicer {
	return &metricdata.OneDSlicer{ColName: "night", ColUnits: "days", BinMin: 0, BinMax: 100, NBins: 10}
}

// healpixish renames a OneDSlicer so stem-derivation tests can exercise the
// four-character slicer tag.
type healpixish struct{ *metricdata.OneDSlicer }

func (healpixish) Name() string { return "HealpixSlicer" }

func testBundle(run, meta, fileRoot string) *metricdata.ResultBundle {
	return &metricdata.ResultBundle{
		RunName:  run,
		Metadata: meta,
		Metric:   metricdata.Metric{Name: "Count", Units: "count", Dtype: "int"},
		Slicer:   testSlicer(),
		Values:   []float64{3, 5, 4, 6, 8, 7, 5, 4, 6, 5},
		FileRoot: fileRoot,
	}
}

func TestBuildFileRootSingle(t *testing.T) {
	h := NewPlotHandler(Config{SaveFig: false})
	if err := h.SetBundles([]*metricdata.ResultBundle{testBundle("run1", "all", "run1_Count_all_ONED")}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	if got := h.buildFileRoot(""); got != "run1_Count_all_ONED" {
		t.Fatalf("file root = %q", got)
	}
	if got := h.buildFileRoot("v2"); got != "run1_Count_all_ONED_v2" {
		t.Fatalf("file root with suffix = %q", got)
	}
}

func TestBuildFileRootCombo(t *testing.T) {
	a := testBundle("opsim1", "all", "opsim1_Count_all_HEAL")
	b := testBundle("opsim2", "all", "opsim2_Count_all_HEAL")
	a.Slicer = healpixish{testSlicer()}
	b.Slicer = healpixish{testSlicer()}

	h := NewPlotHandler(Config{SaveFig: false})
	if err := h.SetBundles([]*metricdata.ResultBundle{a, b}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	got := h.buildFileRoot("")
	if !strings.HasPrefix(got, "opsim1opsim2_Count_all_HEAL") {
		t.Fatalf("combo file stem = %q, want opsim1opsim2_Count_all_HEAL prefix", got)
	}
}

func TestPlotSingleBundleSavesFigureAndThumbnail(t *testing.T) {
	outDir := t.TempDir()
	h := NewPlotHandler(Config{OutDir: outDir, SaveFig: true, Format: "png", DPI: 600, Thumbnail: true})
	if err := h.SetBundles([]*metricdata.ResultBundle{testBundle("run1", "all", "run1_Count_all_ONED")}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	fig, err := h.Plot(BinnedDataPlot{}, nil, "")
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if fig == nil {
		t.Fatalf("expected a figure")
	}
	if len(fig.Series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(fig.Series))
	}
	if fig.ShowLegend {
		t.Fatalf("single bundle must not draw a legend")
	}
	for _, name := range []string{
		"run1_Count_all_ONED_BinnedData.png",
		"thumb.run1_Count_all_ONED_BinnedData.png",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestPlotComboOverlaysAndLegend(t *testing.T) {
	outDir := t.TempDir()
	g := testBundle("run1", "g band", "run1_Count_g_ONED")
	g.SQLConstraint = `filter = "g"`
	r := testBundle("run1", "r band", "run1_Count_r_ONED")
	r.SQLConstraint = `filter = "r"`

	h := NewPlotHandler(Config{OutDir: outDir, SaveFig: true, Format: "png", DPI: 600, Thumbnail: false})
	if err := h.SetBundles([]*metricdata.ResultBundle{g, r}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	fig, err := h.Plot(BinnedDataPlot{}, nil, "")
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if len(fig.Series) != 2 {
		t.Fatalf("expected 2 overlaid series, got %d", len(fig.Series))
	}
	if !fig.ShowLegend || fig.LegendLoc != "upper right" {
		t.Fatalf("expected legend at upper right; got show=%v loc=%q", fig.ShowLegend, fig.LegendLoc)
	}
	// Combined plots carry the Combo-prefixed plot type in filenames.
	matches, err := filepath.Glob(filepath.Join(outDir, "*_ComboBinnedData.png"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one ComboBinnedData output, got %v (%v)", matches, err)
	}
}

func TestPlotObjectValuesGate(t *testing.T) {
	b := testBundle("run1", "all", "run1_Count_all_ONED")
	b.Metric.Dtype = "object"

	h := NewPlotHandler(Config{SaveFig: false})
	if err := h.SetBundles([]*metricdata.ResultBundle{b}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	fig, err := h.Plot(BinnedDataPlot{}, nil, "")
	if err != nil {
		t.Fatalf("gate must not error: %v", err)
	}
	if fig != nil {
		t.Fatalf("gate must return without plotting")
	}

	// Flagged as color-valued, the same bundle plots.
	b.PlotOverrides = metricdata.PlotConfig{"metricIsColor": true}
	if err := h.SetBundles([]*metricdata.ResultBundle{b}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	fig, err = h.Plot(BinnedDataPlot{}, nil, "")
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if fig == nil {
		t.Fatalf("expected a figure once metricIsColor is set")
	}
}

type fakeCatalog struct {
	metricName, slicerName, runName, sql, metadata string
	display                                        *metricdata.DisplayDict
	plotType, plotFile                             string
	metricCalls                                    int
}

func (f *fakeCatalog) UpdateMetric(metricName, slicerName, runName, sqlConstraint, metadata, fileRoot string) (int64, error) {
	f.metricCalls++
	f.metricName, f.slicerName, f.runName, f.sql, f.metadata = metricName, slicerName, runName, sqlConstraint, metadata
	return 7, nil
}

func (f *fakeCatalog) UpdateDisplay(metricID int64, display *metricdata.DisplayDict, overwrite bool) error {
	f.display = display
	return nil
}

func (f *fakeCatalog) UpdatePlot(metricID int64, plotType, plotFile string) error {
	f.plotType, f.plotFile = plotType, plotFile
	return nil
}

func TestPlotRecordsCatalog(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeCatalog{}
	g := testBundle("run1", "g band", "run1_Count_g_ONED")
	g.SQLConstraint = `filter = "g"`
	g.Display = &metricdata.DisplayDict{Group: "SRD", Subgroup: "Counts", Order: 2}
	r := testBundle("run1", "r band", "run1_Count_r_ONED")
	r.SQLConstraint = `filter = "r"`
	r.Display = &metricdata.DisplayDict{Group: "Seeing", Subgroup: "Counts", Order: 5}

	h := NewPlotHandler(Config{OutDir: outDir, Results: cat, SaveFig: true, Thumbnail: false})
	if err := h.SetBundles([]*metricdata.ResultBundle{g, r}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	if _, err := h.Plot(BinnedDataPlot{}, nil, ""); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if cat.metricCalls != 1 {
		t.Fatalf("expected one metric upsert, got %d", cat.metricCalls)
	}
	if cat.metricName != "Count" || cat.runName != "run1" || cat.slicerName != "OneDSlicer" {
		t.Fatalf("metric record = %q/%q/%q", cat.metricName, cat.runName, cat.slicerName)
	}
	if cat.sql != `filter = "g"; filter = "r"` {
		t.Fatalf("joint sql = %q", cat.sql)
	}
	if cat.plotType != "ComboBinnedData" || !strings.HasSuffix(cat.plotFile, "_ComboBinnedData.png") {
		t.Fatalf("plot record = %q %q", cat.plotType, cat.plotFile)
	}
	if cat.display == nil {
		t.Fatalf("expected a display record")
	}
	if cat.display.Group != "Comparisons" {
		t.Fatalf("display group = %q, want Comparisons", cat.display.Group)
	}
	if cat.display.Subgroup != "Counts" {
		t.Fatalf("display subgroup = %q, want Counts", cat.display.Subgroup)
	}
	if cat.display.Order != 6 {
		t.Fatalf("display order = %d, want 6", cat.display.Order)
	}
	if !strings.Contains(cat.display.Caption, "Count metric(s) calculated on a OneDSlicer grid") {
		t.Fatalf("caption = %q", cat.display.Caption)
	}
}

func TestBuildDisplayDictSinglePassthrough(t *testing.T) {
	b := testBundle("run1", "all", "run1_Count_all_ONED")
	b.Display = &metricdata.DisplayDict{Group: "SRD", Order: 3, Caption: "as computed"}
	h := NewPlotHandler(Config{SaveFig: false})
	if err := h.SetBundles([]*metricdata.ResultBundle{b}); err != nil {
		t.Fatalf("SetBundles: %v", err)
	}
	if dd := h.buildDisplayDict(); dd != b.Display {
		t.Fatalf("single bundle display must pass through unchanged")
	}
}
