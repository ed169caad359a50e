package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

// bundleFile is the on-disk JSON form of one result bundle.
type bundleFile struct {
	RunName       string                  `json:"run_name"`
	Metadata      string                  `json:"metadata"`
	Metric        bundleMetric            `json:"metric"`
	SQLConstraint string                  `json:"sql_constraint"`
	Slicer        bundleSlicer            `json:"slicer"`
	Values        []float64               `json:"values"`
	FileRoot      string                  `json:"file_root"`
	Display       *metricdata.DisplayDict `json:"display,omitempty"`
	PlotOverrides map[string]any          `json:"plot_overrides,omitempty"`
}

type bundleMetric struct {
	Name  string `json:"name"`
	Units string `json:"units"`
	Dtype string `json:"dtype"`
}

type bundleSlicer struct {
	Name     string  `json:"name"`
	ColName  string  `json:"col_name"`
	ColUnits string  `json:"col_units"`
	BinMin   float64 `json:"bin_min"`
	BinMax   float64 `json:"bin_max"`
	NBins    int     `json:"n_bins"`
}

// stripJSONC loads a JSONC file (full-line // comments) and returns raw JSON
// bytes suitable for unmarshalling.
func stripJSONC(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, scanner.Err()
}

// loadBundle reads one bundle file into a ResultBundle.
func loadBundle(path string) (*metricdata.ResultBundle, error) {
	raw, err := stripJSONC(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	var bf bundleFile
	if err := json.Unmarshal(raw, &bf); err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	slicer, err := bf.Slicer.build()
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}
	b := &metricdata.ResultBundle{
		RunName:       bf.RunName,
		Metadata:      bf.Metadata,
		Metric:        metricdata.Metric{Name: bf.Metric.Name, Units: bf.Metric.Units, Dtype: bf.Metric.Dtype},
		SQLConstraint: bf.SQLConstraint,
		Slicer:        slicer,
		Values:        bf.Values,
		FileRoot:      bf.FileRoot,
		Display:       bf.Display,
		PlotOverrides: metricdata.PlotConfig(bf.PlotOverrides),
	}
	if b.FileRoot == "" {
		b.FileRoot = metricdata.NameSanitize(strings.Join([]string{bf.RunName, bf.Metric.Name, bf.Metadata}, "_"))
	}
	return b, nil
}

func (s bundleSlicer) build() (metricdata.Slicer, error) {
	switch s.Name {
	case "", "UniSlicer":
		return metricdata.UniSlicer{}, nil
	case "OneDSlicer":
		return &metricdata.OneDSlicer{
			ColName: s.ColName, ColUnits: s.ColUnits,
			BinMin: s.BinMin, BinMax: s.BinMax, NBins: s.NBins,
		}, nil
	default:
		return nil, fmt.Errorf("unknown slicer %q", s.Name)
	}
}
