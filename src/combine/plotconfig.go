package combine

import (
	"fmt"
	"strings"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

// DefaultColor is the color code used when no override or filter band
// applies.
const DefaultColor = "b"

// DefaultLegendLoc is the fixed default legend placement.
const DefaultLegendLoc = "upper right"

// IntCbarFormat is the color-bar number format used when every combined
// bundle carries integer-typed values.
const IntCbarFormat = "%d"

// PlotConfig derives a fresh plot configuration for the installed bundle
// set. Three layers are applied in order, later winning: defaults derived
// from the combined view, the plotter's declared defaults (absent/nil values
// carry no opinion), and finally the caller's explicit overrides. The x/y
// labels are only derived when plotType is non-empty.
func (c *Combiner) PlotConfig(plotType string, plotterDefaults, userConfig metricdata.PlotConfig) (metricdata.PlotConfig, error) {
	cfg := metricdata.PlotConfig{}
	cfg["title"] = c.buildTitle()
	cfg["labels"] = c.buildLabels()
	colors, err := c.buildColors()
	if err != nil {
		return nil, err
	}
	cfg["colors"] = colors
	cfg["legendloc"] = DefaultLegendLoc
	if f := c.buildCbarFormat(); f != "" {
		cfg["cbarFormat"] = f
	}
	if plotType != "" {
		xlabel, ylabel, haveYLabel := c.buildXYLabels(plotType)
		cfg["xlabel"] = xlabel
		if haveYLabel {
			cfg["ylabel"] = ylabel
		}
		for k, v := range plotterDefaults {
			if v != nil {
				cfg[k] = v
			}
		}
	}
	for k, v := range userConfig {
		cfg[k] = v
	}
	return cfg, nil
}

// buildTitle builds a plot title from the unique parts of the combined
// metric names, run names and metadata. The title starts empty and only the
// single-valued properties contribute; the joint fallback applies only when
// all three properties differ across bundles.
func (c *Combiner) buildTitle() string {
	title := ""
	if len(c.runNames) == 1 {
		title = c.runNames[0]
	}
	if len(c.metadata) == 1 && c.metadata[0] != "" {
		title += " " + c.metadata[0]
	}
	if len(c.metricNames) == 1 {
		if title != "" {
			title += ": " + c.metricNames[0]
		} else {
			title = c.metricNames[0]
		}
	}
	if title == "" {
		title = c.jointMetadata + " " + c.jointMetricName
	}
	return strings.TrimLeft(title, " ")
}

// buildLabels builds per-bundle legend labels from the parts of the
// runName/metadata/metricName that change across bundles. A single bundle
// gets one empty label, meaning no legend entry.
func (c *Combiner) buildLabels() []string {
	if len(c.bundles) == 1 {
		return []string{""}
	}
	labels := make([]string, 0, len(c.bundles))
	for _, b := range c.bundles {
		if v, ok := b.PlotOverrides.String("label"); ok {
			labels = append(labels, v)
			continue
		}
		label := ""
		if len(c.runNames) > 1 {
			label += b.RunName
		}
		if len(c.metadata) > 1 {
			label += " " + b.Metadata
		}
		if len(c.metricNames) > 1 {
			label += " " + b.Metric.Name
		}
		labels = append(labels, label)
	}
	return labels
}

// buildColors picks per-bundle colors: an explicit override wins, else a
// filter-band constraint picks the band color, else the default. An
// unrecognized single-character filter token is a real error and propagates.
func (c *Combiner) buildColors() ([]string, error) {
	if len(c.bundles) == 1 {
		if v, ok := c.bundles[0].PlotOverrides.String("color"); ok {
			return []string{v}, nil
		}
		return []string{DefaultColor}, nil
	}
	colors := make([]string, 0, len(c.bundles))
	for _, b := range c.bundles {
		if v, ok := b.PlotOverrides.String("color"); ok {
			colors = append(colors, v)
			continue
		}
		color := DefaultColor
		if strings.Contains(b.SQLConstraint, "filter") {
			for _, tok := range strings.Split(b.SQLConstraint, `"`) {
				if len(tok) != 1 {
					continue
				}
				col, ok := bandColors[tok]
				if !ok {
					return nil, fmt.Errorf("%w: %q in constraint %q",
						ErrUnknownFilter, tok, b.SQLConstraint)
				}
				color = col
				break
			}
		}
		colors = append(colors, color)
	}
	return colors, nil
}

// buildCbarFormat returns the integer color-bar format when every combined
// bundle is integer-typed, else the empty string (no opinion).
func (c *Combiner) buildCbarFormat() string {
	dtypes := newOrderedSet()
	for _, b := range c.bundles {
		dtypes.add(b.Metric.Dtype)
	}
	if d := dtypes.list(); len(d) == 1 && d[0] == "int" {
		return IntCbarFormat
	}
	return ""
}

// buildXYLabels derives the axis labels for the given plot type. The second
// return is the y label; haveYLabel=false means no opinion.
func (c *Combiner) buildXYLabels(plotType string) (xlabel, ylabel string, haveYLabel bool) {
	if plotType == "BinnedData" {
		if len(c.bundles) == 1 {
			b := c.bundles[0]
			xlabel = b.Slicer.SliceColName() + " (" + b.Slicer.SliceColUnits() + ")"
			ylabel = b.Metric.Name + " (" + b.Metric.Units + ")"
			return xlabel, ylabel, true
		}
		cols := newOrderedSet()
		for _, b := range c.bundles {
			cols.add(b.Slicer.SliceColName())
		}
		return strings.Join(cols.list(), ", "), c.jointMetricName, true
	}
	if len(c.bundles) == 1 {
		b := c.bundles[0]
		xlabel = b.Metric.Name
		if b.Metric.Units != "" {
			xlabel += " (" + b.Metric.Units + ")"
		}
		return xlabel, "", false
	}
	ylabels := newOrderedSet()
	for _, b := range c.bundles {
		if v, ok := b.PlotOverrides.String("ylabel"); ok {
			ylabels.add(v)
		}
	}
	if l := ylabels.list(); len(l) == 1 {
		return c.jointMetricName, l[0], true
	}
	return c.jointMetricName, "", false
}
