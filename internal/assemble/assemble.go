// Package assemble merges, orders and filters scored guide candidates into
// the final record set.
package assemble

import (
	"sort"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/genome"
	"github.com/crispri-tools/sgrna-design/internal/score"
)

// Options are configuration-level output toggles, not separate algorithms.
// Zero values disable each filter.
type Options struct {
	MinSpecificity int               // drop candidates scoring below this
	Strand         genome.Strand     // keep only this strand (StrandUnknown = both)
	Orientation    annotate.TransDir // keep only this orientation class ("" = all)
}

// Assemble filters the scored candidates and establishes the canonical
// coordinate order: ascending start, then end, then forward before reverse,
// then locus tag. Stable and deterministic for identical inputs.
func Assemble(in []*score.Scored, opts Options) []*score.Scored {
	out := make([]*score.Scored, 0, len(in))
	for _, s := range in {
		if opts.MinSpecificity > 0 && s.Specificity < opts.MinSpecificity {
			continue
		}
		if opts.Strand != genome.StrandUnknown && s.Strand != opts.Strand {
			continue
		}
		if opts.Orientation != "" && s.TransDir != opts.Orientation {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		if a.Strand != b.Strand {
			return a.Strand > b.Strand // forward (+1) before reverse (-1)
		}
		return a.LocusTag() < b.LocusTag()
	})

	return out
}
