package combine

// orderedSet collects distinct strings preserving first-seen order, so every
// "unique values" collection in this package is deterministic.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) list() []string { return s.items }

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// intersect returns the elements common to every list, ordered as in the
// first list. With zero or one empty input the intersection is empty.
func intersect(lists ...[]string) []string {
	if len(lists) == 0 {
		return nil
	}
	var out []string
	for _, v := range lists[0] {
		common := true
		for _, other := range lists[1:] {
			if !contains(other, v) {
				common = false
				break
			}
		}
		if common {
			out = append(out, v)
		}
	}
	return out
}

// subtract returns the elements of list not present in remove, in order.
func subtract(list, remove []string) []string {
	var out []string
	for _, v := range list {
		if !contains(remove, v) {
			out = append(out, v)
		}
	}
	return out
}
