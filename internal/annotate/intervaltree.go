package annotate

import (
	"sort"

	"github.com/crispri-tools/sgrna-design/internal/genome"
)

// IntervalTree provides O(log n + k) range-overlap queries using a
// sorted-slice approach. Features are loaded once and never modified after
// build.
type IntervalTree struct {
	intervals []interval
	maxEnd    []int // maxEnd[i] = max(End) for intervals[:i+1]
}

type interval struct {
	start   int
	end     int
	feature *genome.GeneFeature
}

// BuildIntervalTree creates an interval tree from a slice of gene features.
func BuildIntervalTree(features []genome.GeneFeature) *IntervalTree {
	if len(features) == 0 {
		return &IntervalTree{}
	}

	intervals := make([]interval, len(features))
	for i := range features {
		f := &features[i]
		intervals[i] = interval{start: f.Start, end: f.End, feature: f}
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].start != intervals[j].start {
			return intervals[i].start < intervals[j].start
		}
		return intervals[i].feature.Locus < intervals[j].feature.Locus
	})

	// Prefix-max array: maxEnd[i] = max(end) for intervals[:i+1]
	maxEnd := make([]int, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &IntervalTree{intervals: intervals, maxEnd: maxEnd}
}

// FindOverlaps returns all features intersecting the half-open range
// [start, end).
func (t *IntervalTree) FindOverlaps(start, end int) []*genome.GeneFeature {
	if len(t.intervals) == 0 || start >= end {
		return nil
	}

	var result []*genome.GeneFeature

	// Binary search: find the first interval with start >= end; everything
	// from there on begins past the query range.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start >= end
	})

	for i := hi - 1; i >= 0; i-- {
		// Prune: if no interval in [0, i] reaches past the query start,
		// nothing earlier can overlap either.
		if t.maxEnd[i] <= start {
			break
		}
		if t.intervals[i].end > start {
			result = append(result, t.intervals[i].feature)
		}
	}

	return result
}
