package protocol

import "sort"

// KeyRange is one `[Min..Max]` span over the 64-bit key value space
// (spec §4.5.5). Accept ranges are positive; Reject ranges are
// negative, per the spec's terminology.
type KeyRange struct {
	Min, Max uint64
	Reject   bool
}

// RangeSet is a client's accept/reject key-range registration. Ranges
// are stored as two independent, sorted, non-overlapping lists; adding
// an overlapping or adjacent range of the same polarity merges it in
// rather than growing the list (spec §9 Open Questions: this module's
// resolution of "range sets are unordered, and adjacent/overlapping
// ranges are merged on insert").
type RangeSet struct {
	accept []KeyRange
	reject []KeyRange
}

// NewRangeSet returns an empty RangeSet.
func NewRangeSet() *RangeSet { return &RangeSet{} }

// Add registers a range; reject selects which list it merges into.
func (s *RangeSet) Add(min, max uint64, reject bool) {
	if reject {
		s.reject = mergeRange(s.reject, KeyRange{Min: min, Max: max, Reject: true})
	} else {
		s.accept = mergeRange(s.accept, KeyRange{Min: min, Max: max})
	}
}

// Remove deletes exactly the given range, if present verbatim. Conn does
// not call it: ignoreKeys adds a reject range instead.
func (s *RangeSet) Remove(min, max uint64, reject bool) {
	list := &s.accept
	if reject {
		list = &s.reject
	}
	out := (*list)[:0]
	for _, r := range *list {
		if r.Min == min && r.Max == max {
			continue
		}
		out = append(out, r)
	}
	*list = out
}

// Allows reports whether key is in the accept set and not in the reject
// set (spec §4.5.5: "whose accept-set contains it and whose reject-set
// does not").
func (s *RangeSet) Allows(key uint64) bool {
	return containsRange(s.accept, key) && !containsRange(s.reject, key)
}

func containsRange(ranges []KeyRange, key uint64) bool {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].Max >= key })
	return i < len(ranges) && ranges[i].Min <= key
}

// mergeRange inserts r into ranges (kept sorted by Min, non-overlapping,
// non-adjacent), coalescing with any range it touches or overlaps.
func mergeRange(ranges []KeyRange, r KeyRange) []KeyRange {
	ranges = append(ranges, r)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Min < ranges[j].Min })
	merged := ranges[:0]
	for _, cur := range ranges {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if cur.Min <= last.Max+1 {
				if cur.Max > last.Max {
					last.Max = cur.Max
				}
				continue
			}
		}
		merged = append(merged, cur)
	}
	return merged
}
