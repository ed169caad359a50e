package metricdata

// Slicer is the external spatial/temporal partitioning scheme a bundle was
// computed over. Only the rendering-relevant surface is exposed here; the
// partitioning internals stay with the slicer's owner. All bundles combined
// into one plot must share the same slicer type name.
type Slicer interface {
	// Name is the slicer type name, e.g. "OneDSlicer".
	Name() string
	// SliceColName is the column the slices are laid out over.
	SliceColName() string
	SliceColUnits() string
	NSlice() int
	// Points returns the per-slice x coordinates (bin centers).
	Points() []float64
}

// UniSlicer is the trivial partition: a single slice covering the whole
// dataset.
type UniSlicer struct{}

func (UniSlicer) Name() string          { return "UniSlicer" }
func (UniSlicer) SliceColName() string  { return "" }
func (UniSlicer) SliceColUnits() string { return "" }
func (UniSlicer) NSlice() int           { return 1 }
func (UniSlicer) Points() []float64     { return []float64{0} }

// OneDSlicer partitions the dataset into regular bins over one column.
type OneDSlicer struct {
	ColName  string
	ColUnits string
	BinMin   float64
	BinMax   float64
	NBins    int
}

func (s *OneDSlicer) Name() string          { return "OneDSlicer" }
func (s *OneDSlicer) SliceColName() string  { return s.ColName }
func (s *OneDSlicer) SliceColUnits() string { return s.ColUnits }

func (s *OneDSlicer) NSlice() int {
	if s.NBins < 1 {
		return 1
	}
	return s.NBins
}

// Points returns the bin centers.
func (s *OneDSlicer) Points() []float64 {
	n := s.NSlice()
	width := (s.BinMax - s.BinMin) / float64(n)
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = s.BinMin + width*(float64(i)+0.5)
	}
	return pts
}
