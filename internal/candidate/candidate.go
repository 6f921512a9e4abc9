// Package candidate enumerates PAM-adjacent guide windows on a circular
// genome.
package candidate

import (
	"fmt"

	"github.com/crispri-tools/sgrna-design/internal/genome"
)

// Candidate is a single PAM-adjacent guide window. Coordinates are
// zero-based half-open forward-strand positions of the spacer; End wraps
// modulo the genome length, so End < Start for windows spanning the origin.
// Immutable after creation.
type Candidate struct {
	Chrom  string
	Start  int
	End    int
	Strand genome.Strand
	Spacer string // spacer sequence as read on the strand of discovery
	PAM    string // detected PAM, as read on the strand of discovery
}

// ID returns a stable identifier for the candidate site.
func (c *Candidate) ID() string {
	return fmt.Sprintf("%s:%d-%d:%s", c.Chrom, c.Start, c.End, c.Strand)
}

// Span returns the spacer interval without modulo wrapping, i.e.
// [Start, Start+len(Spacer)). Useful for offset arithmetic against
// non-wrapping gene features.
func (c *Candidate) Span() (start, end int) {
	return c.Start, c.Start + len(c.Spacer)
}
