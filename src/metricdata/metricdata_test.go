package metricdata

import (
	"math"
	"testing"
)

func TestNameSanitize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"opsim1 opsim2_Count_all_HEAL", "opsim1opsim2_Count_all_HEAL"},
		{"Count night < 365", "Countnightlt365"},
		{"airmass, r band", "airmassrband"},
		{`filter="r"`, "filtereqr"},
		{"Mean seeing (arcsec)", "Meanseeingarcsec"},
		{"a.b/c\\d", "a_b_c_d"},
		{"a. b", "a_b"},
	}
	for _, c := range cases {
		if got := NameSanitize(c.in); got != c.want {
			t.Errorf("NameSanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOneDSlicerPoints(t *testing.T) {
	s := &OneDSlicer{ColName: "night", ColUnits: "days", BinMin: 0, BinMax: 100, NBins: 10}
	pts := s.Points()
	if len(pts) != 10 {
		t.Fatalf("expected 10 points, got %d", len(pts))
	}
	if math.Abs(pts[0]-5) > 1e-12 || math.Abs(pts[9]-95) > 1e-12 {
		t.Fatalf("unexpected bin centers: first=%v last=%v", pts[0], pts[9])
	}
	if s.NSlice() != 10 {
		t.Fatalf("NSlice = %d", s.NSlice())
	}
}

func TestUniSlicer(t *testing.T) {
	var s UniSlicer
	if s.Name() != "UniSlicer" || s.NSlice() != 1 || len(s.Points()) != 1 {
		t.Fatalf("unexpected UniSlicer surface: %q %d %v", s.Name(), s.NSlice(), s.Points())
	}
}

func TestPlotConfigAccessors(t *testing.T) {
	cfg := PlotConfig{"label": "r band", "metricIsColor": true, "bins": 20}
	if v, ok := cfg.String("label"); !ok || v != "r band" {
		t.Fatalf("String(label) = %q, %v", v, ok)
	}
	if _, ok := cfg.String("missing"); ok {
		t.Fatalf("String(missing) reported ok")
	}
	if !cfg.Bool("metricIsColor") {
		t.Fatalf("Bool(metricIsColor) = false")
	}
	if cfg.Int("bins", 50) != 20 || cfg.Int("absent", 50) != 50 {
		t.Fatalf("Int lookups wrong")
	}
	cl := cfg.Clone()
	cl["label"] = "g band"
	if v, _ := cfg.String("label"); v != "r band" {
		t.Fatalf("Clone mutated source: %q", v)
	}
	var nilCfg PlotConfig
	if nilCfg.Bool("anything") || nilCfg.StringSlice("x") != nil {
		t.Fatalf("nil PlotConfig accessors must be safe no-ops")
	}
}
