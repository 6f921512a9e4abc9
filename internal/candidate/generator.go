package candidate

import (
	"github.com/crispri-tools/sgrna-design/internal/genome"
)

// Generator streams every PAM-adjacent window from both strands of a
// circular genome: first all forward-strand candidates in position order,
// then all reverse-strand candidates. Windows containing ambiguous bases
// are discarded. Overlapping candidates are expected and retained.
//
// The generator is lazy and restartable (Reset), but not safe for
// concurrent use.
type Generator struct {
	g         *genome.Genome
	spacerLen int
	pam       []byte // PAM motif, IUPAC wildcards allowed, e.g. NGG
	revPAM    []byte // reverse complement of the motif, scanned on the forward text

	strand genome.Strand
	pos    int
}

// NewGenerator creates a generator for the given genome, spacer length and
// PAM motif.
func NewGenerator(g *genome.Genome, spacerLen int, pam string) *Generator {
	return &Generator{
		g:         g,
		spacerLen: spacerLen,
		pam:       []byte(pam),
		revPAM:    genome.RevComp([]byte(pam)),
		strand:    genome.StrandForward,
	}
}

// Reset rewinds the generator to the first candidate.
func (it *Generator) Reset() {
	it.strand = genome.StrandForward
	it.pos = 0
}

// Next returns the next candidate, or nil when the genome is exhausted.
func (it *Generator) Next() *Candidate {
	n := it.g.Len()
	if n == 0 {
		return nil
	}

	for it.strand == genome.StrandForward {
		p := it.pos
		if p >= n {
			it.strand = genome.StrandReverse
			it.pos = 0
			break
		}
		it.pos++
		if c := it.forwardAt(p); c != nil {
			return c
		}
	}

	for {
		p := it.pos
		if p >= n {
			return nil
		}
		it.pos++
		if c := it.reverseAt(p); c != nil {
			return c
		}
	}
}

// forwardAt tests for a forward-strand candidate whose spacer starts at p,
// immediately followed by the PAM.
func (it *Generator) forwardAt(p int) *Candidate {
	spacer := it.g.Window(p, it.spacerLen)
	if !unambiguous(spacer) {
		return nil
	}
	pamSeq := it.g.Window(p+it.spacerLen, len(it.pam))
	if !motifMatch(pamSeq, it.pam) {
		return nil
	}
	return &Candidate{
		Chrom:  it.g.ID,
		Start:  p,
		End:    it.g.Norm(p + it.spacerLen),
		Strand: genome.StrandForward,
		Spacer: string(spacer),
		PAM:    string(pamSeq),
	}
}

// reverseAt tests for a reverse-strand candidate: on the forward text this
// reads as the reverse-complemented PAM at p followed by the spacer window.
// The reported spacer and PAM are as read on the reverse strand.
func (it *Generator) reverseAt(p int) *Candidate {
	pamSeq := it.g.Window(p, len(it.pam))
	if !motifMatch(pamSeq, it.revPAM) {
		return nil
	}
	block := it.g.Window(p+len(it.pam), it.spacerLen)
	if !unambiguous(block) {
		return nil
	}
	return &Candidate{
		Chrom:  it.g.ID,
		Start:  it.g.Norm(p + len(it.pam)),
		End:    it.g.Norm(p + len(it.pam) + it.spacerLen),
		Strand: genome.StrandReverse,
		Spacer: string(genome.RevComp(block)),
		PAM:    string(genome.RevComp(pamSeq)),
	}
}

func unambiguous(seq []byte) bool {
	for _, b := range seq {
		if !genome.IsACGT(b) {
			return false
		}
	}
	return true
}

func motifMatch(seq, motif []byte) bool {
	for i := range motif {
		if !genome.PatternMatch(seq[i], motif[i]) {
			return false
		}
	}
	return true
}
