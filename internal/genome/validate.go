package genome

import "fmt"

// ValidationError reports a structural problem with the genome sequence or
// its feature list. It carries enough context (coordinate, feature id) to
// diagnose the offending input.
type ValidationError struct {
	Pos     int    // offending coordinate, -1 if not positional
	Feature string // offending locus tag, empty if not feature-related
	Msg     string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Feature != "":
		return fmt.Sprintf("invalid feature %s: %s", e.Feature, e.Msg)
	case e.Pos >= 0:
		return fmt.Sprintf("invalid genome at position %d: %s", e.Pos, e.Msg)
	default:
		return "invalid genome: " + e.Msg
	}
}

// Validate checks the genome for structural problems: a zero-length sequence
// or bytes outside the nucleotide alphabet (ACGT plus N for unknown bases).
func (g *Genome) Validate() error {
	if len(g.seq) == 0 {
		return &ValidationError{Pos: -1, Msg: "zero-length sequence"}
	}
	for i, b := range g.seq {
		if !IsACGT(b) && b != 'N' {
			return &ValidationError{Pos: i, Msg: fmt.Sprintf("non-nucleotide character %q", b)}
		}
	}
	return nil
}

// ValidateFeatures checks every feature against the genome bounds. Features
// must be non-empty, half-open and fully inside [0, Len()); annotation
// tables for circular chromosomes list origin-spanning genes split in two,
// so wrapped features are rejected here.
func (g *Genome) ValidateFeatures(features []GeneFeature) error {
	n := len(g.seq)
	for i := range features {
		f := &features[i]
		if f.Locus == "" {
			return &ValidationError{Pos: f.Start, Msg: "feature without locus tag"}
		}
		if f.Start < 0 || f.End > n {
			return &ValidationError{Feature: f.Locus, Pos: f.Start,
				Msg: fmt.Sprintf("coordinates [%d, %d) outside genome of length %d", f.Start, f.End, n)}
		}
		if f.Start >= f.End {
			return &ValidationError{Feature: f.Locus, Pos: f.Start,
				Msg: fmt.Sprintf("empty or inverted range [%d, %d)", f.Start, f.End)}
		}
	}
	return nil
}
