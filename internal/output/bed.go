package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/crispri-tools/sgrna-design/internal/score"
)

// BEDWriter writes scored guides as BED6 intervals. The name column joins
// the locus tag (or "-" when intergenic) with the spacer sequence, and the
// score column carries the specificity.
type BEDWriter struct {
	w *bufio.Writer
}

// NewBEDWriter creates a new BED writer.
func NewBEDWriter(w io.Writer) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op; BED files carry no header.
func (bw *BEDWriter) WriteHeader() error {
	return nil
}

// Write writes a single scored guide.
func (bw *BEDWriter) Write(s *score.Scored) error {
	locus := "-"
	if s.Gene != nil {
		locus = s.Gene.Locus
	}
	_, err := fmt.Fprintf(bw.w, "%s\t%d\t%d\t%s|%s\t%d\t%s\n",
		s.Chrom, s.Start, s.End, locus, s.Spacer, s.Specificity, s.Strand)
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}
