// Package combine reconciles a heterogeneous collection of metric result
// bundles into a single coherent presentation: a stable filter-band ordering,
// joint metric/run/metadata/constraint names, and the derived plot
// configuration (title, legend labels, colors, color-bar format, axis
// labels) used by the plot orchestrator.
package combine

// Survey filter bands in display precedence. These tables are process-wide
// and must never be mutated.
var bandOrder = [...]string{"u", "g", "r", "i", "z", "y"}

var bandRank = map[string]int{
	"u": 0, "g": 1, "r": 2, "i": 3, "z": 4, "y": 5,
}

// bandColors maps a filter band to its single-letter display color code.
var bandColors = map[string]string{
	"u": "b", // blue
	"g": "g", // green
	"r": "y", // yellow
	"i": "r", // red
	"z": "m", // magenta
	"y": "k", // black
}

// BandOrder returns the filter bands in display precedence.
func BandOrder() []string {
	out := make([]string, len(bandOrder))
	copy(out, bandOrder[:])
	return out
}

// BandColor returns the display color code for a filter band.
func BandColor(band string) (string, bool) {
	c, ok := bandColors[band]
	return c, ok
}

// isBand reports whether tok is a recognized single-letter filter band.
func isBand(tok string) bool {
	_, ok := bandRank[tok]
	return ok
}
