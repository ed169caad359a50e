package combine

import (
	"sort"
	"strings"
)

// mergeMetadata synthesizes a single human-readable string from distinct
// metadata values. Each value is split into clauses (" and " first, then
// ", ", else the whole string); clauses common to every value are separated
// out, then the first differing clause of each value is split into words to
// pull out a second layer of shared words. The remaining per-value
// differences come first (band letters in band order), then the shared
// words, then the shared clauses. When any value's difference vanishes at
// the word level the word split is abandoned and the representative clauses
// are used whole, shortest first (so "g" sorts before "g dithered").
//
// The three groups are joined with single spaces even when empty, so a
// missing middle group leaves a double space in the result.
func mergeMetadata(metas []string) string {
	if len(metas) == 1 {
		return metas[0]
	}
	split := make([][]string, len(metas))
	for i, m := range metas {
		var clauses []string
		switch {
		case strings.Contains(m, " and "):
			clauses = strings.Split(m, " and ")
		case strings.Contains(m, ", "):
			clauses = strings.Split(m, ", ")
		default:
			clauses = []string{m}
		}
		s := newOrderedSet()
		for _, cl := range clauses {
			s.add(strings.TrimSpace(cl))
		}
		split[i] = s.list()
	}
	common := intersect(split...)
	diff := make([][]string, len(split))
	for i, s := range split {
		diff[i] = subtract(s, common)
	}
	// Second layer: words of each value's first differing clause.
	diffSplit := make([][]string, len(diff))
	for i, d := range diff {
		if len(d) == 0 {
			continue
		}
		s := newOrderedSet()
		for _, w := range strings.Fields(d[0]) {
			s.add(w)
		}
		diffSplit[i] = s.list()
	}
	diffCommon := intersect(diffSplit...)
	diffDiff := make([][]string, len(diffSplit))
	minLen := -1
	for i, s := range diffSplit {
		diffDiff[i] = subtract(s, diffCommon)
		if minLen < 0 || len(diffDiff[i]) < minLen {
			minLen = len(diffDiff[i])
		}
	}
	var diffParts []string
	if minLen == 0 {
		// Word split went degenerate; fall back to whole representative
		// clauses ordered by length.
		for _, d := range diff {
			if len(d) > 0 {
				diffParts = append(diffParts, d[0])
			}
		}
		sort.SliceStable(diffParts, func(a, b int) bool {
			return len(diffParts[a]) < len(diffParts[b])
		})
		diffCommon = nil
	} else {
		ordered := make([][]string, 0, len(diffDiff))
		for _, f := range bandOrder {
			for _, d := range diffDiff {
				if len(d) == 1 && d[0] == f {
					ordered = append(ordered, d)
				}
			}
		}
		for _, d := range diffDiff {
			if !containsSet(ordered, d) {
				ordered = append(ordered, d)
			}
		}
		for _, d := range ordered {
			diffParts = append(diffParts, strings.Join(d, ""))
		}
	}
	return strings.Join(diffParts, ", ") + " " +
		strings.Join(diffCommon, " ") + " " +
		strings.Join(common, " ")
}

func containsSet(sets [][]string, s []string) bool {
	for _, x := range sets {
		if len(x) != len(s) {
			continue
		}
		same := true
		for i := range x {
			if x[i] != s[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
