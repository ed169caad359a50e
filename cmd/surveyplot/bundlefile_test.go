package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleBundle = `// sample result bundle
{
	"run_name": "opsim1",
	"metadata": "r band",
	"metric": {"name": "Count", "units": "count", "dtype": "int"},
	"sql_constraint": "filter = \"r\"",
	"slicer": {"name": "OneDSlicer", "col_name": "night", "col_units": "days", "bin_min": 0, "bin_max": 10, "n_bins": 5},
	"values": [1, 2, 3, 4, 5],
	"file_root": "opsim1_Count_r_ONED",
	"display": {"group": "SRD", "subgroup": "Counts", "order": 1},
	"plot_overrides": {"color": "r"}
}`

func TestLoadBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, []byte(sampleBundle), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := loadBundle(path)
	if err != nil {
		t.Fatalf("loadBundle: %v", err)
	}
	if b.RunName != "opsim1" || b.Metric.Name != "Count" || b.Metric.Dtype != "int" {
		t.Fatalf("unexpected bundle: %+v", b)
	}
	if b.Slicer.Name() != "OneDSlicer" || b.Slicer.NSlice() != 5 {
		t.Fatalf("unexpected slicer: %s/%d", b.Slicer.Name(), b.Slicer.NSlice())
	}
	if len(b.Values) != 5 {
		t.Fatalf("values = %v", b.Values)
	}
	if b.Display == nil || b.Display.Group != "SRD" {
		t.Fatalf("display = %+v", b.Display)
	}
	if v, ok := b.PlotOverrides.String("color"); !ok || v != "r" {
		t.Fatalf("color override = %q, %v", v, ok)
	}
}

func TestLoadBundleDefaultsFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	content := `{"run_name": "run one", "metadata": "all", "metric": {"name": "Mean airmass"}, "values": [1, 2]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := loadBundle(path)
	if err != nil {
		t.Fatalf("loadBundle: %v", err)
	}
	if b.FileRoot != "runone_Meanairmass_all" {
		t.Fatalf("file root = %q", b.FileRoot)
	}
	if b.Slicer.Name() != "UniSlicer" {
		t.Fatalf("default slicer = %q", b.Slicer.Name())
	}
}

func TestLoadBundleUnknownSlicer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	content := `{"run_name": "r", "slicer": {"name": "HexSlicer"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadBundle(path); err == nil {
		t.Fatalf("expected unknown slicer error")
	}
}
