// Package genome holds the circular reference sequence and its gene features.
package genome

// Strand identifies which strand of the chromosome a feature or candidate
// lies on. Gene features parsed from annotation tables may additionally have
// StrandUnknown, in which case they claim candidates on both strands.
type Strand int8

const (
	StrandUnknown Strand = 0
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// String returns the conventional strand symbol.
func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	default:
		return "."
	}
}

// Genome is a circular chromosome sequence. Coordinates are zero-based and
// wrap modulo Len(); windows spanning the origin are first-class.
// Immutable after construction and safe for concurrent reads.
type Genome struct {
	ID  string
	seq []byte
}

// New wraps an uppercased copy of seq as a circular genome. It does not
// validate the sequence; call Validate before using the genome in a pipeline.
func New(id string, seq []byte) *Genome {
	up := make([]byte, len(seq))
	for i, b := range seq {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		up[i] = b
	}
	return &Genome{ID: id, seq: up}
}

// Len returns the chromosome length in bases.
func (g *Genome) Len() int {
	return len(g.seq)
}

// Norm wraps a coordinate into [0, Len()).
func (g *Genome) Norm(i int) int {
	n := len(g.seq)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the base at the given coordinate, wrapping modulo Len().
func (g *Genome) At(i int) byte {
	return g.seq[g.Norm(i)]
}

// Window copies n bases starting at the given coordinate, wrapping across
// the origin when the window runs past the end of the sequence.
func (g *Genome) Window(start, n int) []byte {
	out := make([]byte, n)
	start = g.Norm(start)
	for i := 0; i < n; i++ {
		out[i] = g.seq[start]
		start++
		if start == len(g.seq) {
			start = 0
		}
	}
	return out
}

// Seq exposes the raw forward-strand sequence. Callers must not modify it.
func (g *Genome) Seq() []byte {
	return g.seq
}
