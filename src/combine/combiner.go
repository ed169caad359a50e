package combine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/skysurvey/surveyplot/src/metricdata"
)

var (
	// ErrNoBundles is returned when a bundle set is installed empty.
	ErrNoBundles = errors.New("no result bundles supplied")
	// ErrMismatchedSlicers is returned when bundles combined together carry
	// different slicer type names. This is a fatal configuration error.
	ErrMismatchedSlicers = errors.New("result bundles must share one slicer type")
	// ErrUnknownFilter is returned when color derivation meets a
	// single-character filter token outside the band table.
	ErrUnknownFilter = errors.New("unrecognized filter band")
)

// Combiner owns the combined view over an installed bundle set: the
// band-ordered bundle sequence, the distinct metric/run/metadata/constraint
// values, and the joint strings synthesized from them. The view is rebuilt
// from scratch on every SetBundles call.
type Combiner struct {
	bundles []*metricdata.ResultBundle
	slicer  metricdata.Slicer

	metricNames    []string
	runNames       []string
	metadata       []string
	sqlConstraints []string

	jointMetricName string
	jointRunName    string
	jointMetadata   string
	jointSQL        string
}

// SetBundles replaces the active bundle set and recomputes the combined view.
// Bundles are placed by filter-band precedence: the last single-character
// band token of each bundle's underscore-split file root picks its insertion
// index; bundles with no band token append at the current end.
func (c *Combiner) SetBundles(bundles []*metricdata.ResultBundle) error {
	if len(bundles) == 0 {
		return ErrNoBundles
	}
	c.bundles = nil
	for _, b := range bundles {
		idx := len(c.bundles)
		for _, tok := range strings.Split(b.FileRoot, "_") {
			if len(tok) != 1 {
				continue
			}
			if rank, ok := bandRank[tok]; ok {
				idx = rank
			}
		}
		if idx > len(c.bundles) {
			idx = len(c.bundles)
		}
		c.bundles = append(c.bundles, nil)
		copy(c.bundles[idx+1:], c.bundles[idx:])
		c.bundles[idx] = b
	}
	c.slicer = c.bundles[0].Slicer
	for _, b := range c.bundles {
		if b.Slicer == nil || c.slicer == nil || b.Slicer.Name() != c.slicer.Name() {
			return fmt.Errorf("%w: %q vs %q", ErrMismatchedSlicers,
				slicerName(c.slicer), slicerName(b.Slicer))
		}
	}
	c.combineMetricNames()
	c.combineRunNames()
	c.combineMetadata()
	c.combineSQL()
	return nil
}

// SetBundleMap installs a name-keyed bundle set. Keys are visited in sorted
// order so the arrival order, and with it the placement of unbanded bundles,
// is deterministic.
func (c *Combiner) SetBundleMap(bundles map[string]*metricdata.ResultBundle) error {
	keys := make([]string, 0, len(bundles))
	for k := range bundles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]*metricdata.ResultBundle, 0, len(bundles))
	for _, k := range keys {
		list = append(list, bundles[k])
	}
	return c.SetBundles(list)
}

func slicerName(s metricdata.Slicer) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name()
}

// Bundles returns the band-ordered bundle sequence.
func (c *Combiner) Bundles() []*metricdata.ResultBundle { return c.bundles }

// Slicer returns the shared slicer of the installed bundles.
func (c *Combiner) Slicer() metricdata.Slicer { return c.slicer }

// MetricNames returns the distinct metric names in first-seen order.
func (c *Combiner) MetricNames() []string { return c.metricNames }

// RunNames returns the distinct run names in first-seen order.
func (c *Combiner) RunNames() []string { return c.runNames }

// Metadata returns the distinct metadata strings in first-seen order.
func (c *Combiner) Metadata() []string { return c.metadata }

// SQLConstraints returns the distinct sql constraints in first-seen order.
func (c *Combiner) SQLConstraints() []string { return c.sqlConstraints }

func (c *Combiner) JointMetricName() string { return c.jointMetricName }
func (c *Combiner) JointRunName() string    { return c.jointRunName }
func (c *Combiner) JointMetadata() string   { return c.jointMetadata }
func (c *Combiner) JointSQLConstraint() string { return c.jointSQL }

func (c *Combiner) combineMetricNames() {
	names := newOrderedSet()
	for _, b := range c.bundles {
		names.add(b.Metric.Name)
	}
	c.metricNames = names.list()
	c.jointMetricName = joinMetricNames(c.metricNames)
}

// joinMetricNames finds a pleasing combination of distinct metric names.
// Names with equal word counts merge position by position; a position whose
// distinct words are all filter bands renders as one band-ordered run of
// letters.
func joinMetricNames(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	lists := make([][]string, len(names))
	equalLen := true
	for i, n := range names {
		lists[i] = strings.Fields(n)
		if len(lists[i]) != len(lists[0]) {
			equalLen = false
		}
	}
	if !equalLen {
		return strings.Join(names, " ")
	}
	parts := make([]string, 0, len(lists[0]))
	for pos := range lists[0] {
		toks := newOrderedSet()
		for _, l := range lists {
			toks.add(l[pos])
		}
		allBands := true
		for _, tok := range toks.list() {
			if !isBand(tok) {
				allBands = false
				break
			}
		}
		if allBands {
			var run strings.Builder
			for _, f := range bandOrder {
				if contains(toks.list(), f) {
					run.WriteString(f)
				}
			}
			parts = append(parts, run.String())
		} else {
			parts = append(parts, strings.Join(toks.list(), ""))
		}
	}
	return strings.Join(parts, " ")
}

func (c *Combiner) combineRunNames() {
	runs := newOrderedSet()
	for _, b := range c.bundles {
		runs.add(b.RunName)
	}
	c.runNames = runs.list()
	c.jointRunName = strings.Join(c.runNames, " ")
}

func (c *Combiner) combineMetadata() {
	metas := newOrderedSet()
	for _, b := range c.bundles {
		metas.add(b.Metadata)
	}
	c.metadata = metas.list()
	c.jointMetadata = mergeMetadata(c.metadata)
}

func (c *Combiner) combineSQL() {
	sqls := newOrderedSet()
	for _, b := range c.bundles {
		sqls.add(b.SQLConstraint)
	}
	c.sqlConstraints = sqls.list()
	c.jointSQL = strings.Join(c.sqlConstraints, "; ")
}
