// Package annotate attaches gene context to raw guide candidates.
package annotate

import (
	"github.com/crispri-tools/sgrna-design/internal/candidate"
	"github.com/crispri-tools/sgrna-design/internal/genome"
)

// TransDir classifies a candidate's strand against its overlapping gene.
type TransDir string

const (
	Sense      TransDir = "sense"
	Antisense  TransDir = "antisense"
	Unassigned TransDir = "unassigned"
)

// ReplDir classifies a candidate's strand against the replichore arm it
// sits on.
type ReplDir string

const (
	ReplForward ReplDir = "forward"
	ReplReverse ReplDir = "reverse"
)

// Annotated is a candidate enriched with gene context. Gene is nil for
// intergenic candidates; Offset is only meaningful when Gene is set.
type Annotated struct {
	candidate.Candidate
	Gene     *genome.GeneFeature
	Offset   int // signed distance from the gene start, in the gene's reading direction
	TransDir TransDir
	ReplDir  ReplDir
}

// LocusTag returns the owning gene's locus tag, or an empty string for
// intergenic candidates.
func (a *Annotated) LocusTag() string {
	if a.Gene == nil {
		return ""
	}
	return a.Gene.Locus
}

// Annotator maps candidates onto overlapping gene features and the
// chromosome's replichore arms.
type Annotator struct {
	tree            *IntervalTree
	genomeLen       int
	origin          int
	terminus        int
	fullOverlapOnly bool
}

// NewAnnotator builds an annotator over the given feature set. origin and
// terminus are the replichore split coordinates of the circular chromosome;
// fullOverlapOnly restricts gene assignment to candidates fully contained
// in the feature.
func NewAnnotator(features []genome.GeneFeature, genomeLen, origin, terminus int, fullOverlapOnly bool) *Annotator {
	return &Annotator{
		tree:            BuildIntervalTree(features),
		genomeLen:       genomeLen,
		origin:          origin,
		terminus:        terminus,
		fullOverlapOnly: fullOverlapOnly,
	}
}

// Annotate derives gene context for a candidate. A candidate with no
// overlapping feature is returned with a nil gene and unassigned
// transcription direction; this is not an error.
func (an *Annotator) Annotate(c *candidate.Candidate) *Annotated {
	a := &Annotated{
		Candidate: *c,
		TransDir:  Unassigned,
		ReplDir:   an.replDir(c),
	}

	gene := an.owningGene(c)
	if gene == nil {
		return a
	}

	a.Gene = gene
	a.Offset = an.offsetFrom(gene, c)
	switch {
	case gene.Strand == genome.StrandUnknown:
		a.TransDir = Unassigned
	case gene.Strand == c.Strand:
		a.TransDir = Sense
	default:
		a.TransDir = Antisense
	}
	return a
}

// owningGene finds the overlapping feature, resolving multi-overlap ties
// deterministically: the gene whose start is circularly closest to the
// candidate start wins, then the lexicographically smallest locus tag.
func (an *Annotator) owningGene(c *candidate.Candidate) *genome.GeneFeature {
	start, end := c.Span()

	var overlaps []*genome.GeneFeature
	if end <= an.genomeLen {
		overlaps = an.tree.FindOverlaps(start, end)
	} else {
		// Origin-spanning candidate: test both arcs against the
		// non-wrapping feature set.
		overlaps = an.tree.FindOverlaps(start, an.genomeLen)
		overlaps = append(overlaps, an.tree.FindOverlaps(0, end-an.genomeLen)...)
	}
	if an.fullOverlapOnly {
		overlaps = an.contained(overlaps, start, end)
	}
	if len(overlaps) == 0 {
		return nil
	}

	best := overlaps[0]
	bestDist := an.circularDist(best.Start, c.Start)
	for _, f := range overlaps[1:] {
		d := an.circularDist(f.Start, c.Start)
		if d < bestDist || (d == bestDist && f.Locus < best.Locus) {
			best = f
			bestDist = d
		}
	}
	return best
}

// contained keeps the features holding the whole candidate window. A window
// spanning the origin must be contained arc by arc, so only a feature
// covering both the tail and the head of the chromosome qualifies.
func (an *Annotator) contained(features []*genome.GeneFeature, start, end int) []*genome.GeneFeature {
	var out []*genome.GeneFeature
	for _, f := range features {
		if end <= an.genomeLen {
			if f.Contains(start, end) {
				out = append(out, f)
			}
			continue
		}
		if f.Contains(start, an.genomeLen) && f.Contains(0, end-an.genomeLen) {
			out = append(out, f)
		}
	}
	return out
}

func (an *Annotator) circularDist(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if wrap := an.genomeLen - d; wrap < d {
		d = wrap
	}
	return d
}

// offsetFrom measures the candidate's distance from the gene start in the
// gene's reading direction: candidateStart - geneStart for forward genes,
// geneEnd - candidateEnd for reverse genes. Negative means upstream of the
// gene start. The raw difference is wrapped into (-n/2, n/2] so that a
// candidate spanning the origin next to a gene at the head of the
// chromosome measures the short way around the circle.
func (an *Annotator) offsetFrom(gene *genome.GeneFeature, c *candidate.Candidate) int {
	start, end := c.Span()
	off := start - gene.Start
	if gene.Strand == genome.StrandReverse {
		off = gene.End - end
	}

	n := an.genomeLen
	off = ((off % n) + n) % n
	if off > n/2 {
		off -= n
	}
	return off
}

// replDir classifies the candidate strand against the replication fork
// direction of its arm. On the origin->terminus arm the fork travels with
// the forward strand; on the other arm it travels with the reverse strand.
func (an *Annotator) replDir(c *candidate.Candidate) ReplDir {
	withFork := an.onOriginArm(c.Start) == (c.Strand == genome.StrandForward)
	if withFork {
		return ReplForward
	}
	return ReplReverse
}

// onOriginArm reports whether pos lies on the arc from origin (inclusive)
// to terminus (exclusive), walking in increasing coordinates around the
// circle.
func (an *Annotator) onOriginArm(pos int) bool {
	o, t := an.origin, an.terminus
	if o <= t {
		return pos >= o && pos < t
	}
	return pos >= o || pos < t
}
