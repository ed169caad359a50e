// Package metricdata holds the data model shared by the combiner and the
// plot orchestrator: result bundles, the slicer contract, open plot
// configuration maps, display/catalog records, filename sanitization and the
// package-global leveled logger.
package metricdata

// Metric describes the computed quantity a ResultBundle carries.
type Metric struct {
	Name  string
	Units string
	// Dtype is the value dtype tag: "int", "float" or "object".
	Dtype string
}

// DisplayDict carries catalog display grouping for one bundle.
type DisplayDict struct {
	Group    string `json:"group,omitempty"`
	Subgroup string `json:"subgroup,omitempty"`
	Order    int    `json:"order,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// ResultBundle is one precomputed metric result plus its provenance.
// Bundles are owned by the caller; the combiner and plot handler only read
// them and never mutate their fields.
type ResultBundle struct {
	// RunName identifies the source dataset run.
	RunName string
	// Metadata is a free-text selection/context description,
	// e.g. "r band, dithered".
	Metadata string
	Metric   Metric
	// SQLConstraint is the row-selection predicate used to produce this
	// bundle. It may embed a double-quoted single-character filter band.
	SQLConstraint string
	Slicer        Slicer
	// Values holds one entry per slice element; NaN marks a masked slice.
	Values []float64
	// FileRoot is the default output filename stem for this bundle alone.
	FileRoot string
	// Display is optional catalog grouping metadata.
	Display *DisplayDict
	// PlotOverrides may preset "label", "color", "ylabel" or flag the
	// values as already being colors ("metricIsColor").
	PlotOverrides PlotConfig
}
