// Package output provides guide table formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/crispri-tools/sgrna-design/internal/score"
)

// GuideWriter is the interface result sinks implement.
type GuideWriter interface {
	WriteHeader() error
	Write(s *score.Scored) error
	Flush() error
}

// TSVWriter writes scored guides in tab-delimited format.
type TSVWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTSVWriter creates a new tab-delimited writer.
func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#chrom",
			"start",
			"end",
			"locus_tag",
			"gene",
			"strand",
			"transdir",
			"repldir",
			"offset",
			"pam",
			"spacer",
			"specificity",
			"offtargets",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TSVWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single scored guide.
func (tw *TSVWriter) Write(s *score.Scored) error {
	locus := "-"
	gene := "-"
	offset := "-"
	if s.Gene != nil {
		locus = s.Gene.Locus
		if s.Gene.Symbol != "" {
			gene = s.Gene.Symbol
		}
		offset = fmt.Sprintf("%d", s.Offset)
	}

	values := []string{
		s.Chrom,
		fmt.Sprintf("%d", s.Start),
		fmt.Sprintf("%d", s.End),
		locus,
		gene,
		s.Strand.String(),
		string(s.TransDir),
		string(s.ReplDir),
		offset,
		s.PAM,
		s.Spacer,
		fmt.Sprintf("%d", s.Specificity),
		fmt.Sprintf("%d", s.OffTargets),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TSVWriter) Flush() error {
	return tw.w.Flush()
}
