package genome

// GeneFeature is an annotated gene region on the chromosome.
// Coordinates are zero-based, half-open, relative to the circular origin.
// Loaded once from the annotation table and never modified.
type GeneFeature struct {
	Locus  string // locus tag, e.g. b0001
	Symbol string // optional gene symbol, e.g. thrL
	Start  int
	End    int
	Strand Strand
}

// Length returns the feature length in bases.
func (f *GeneFeature) Length() int {
	return f.End - f.Start
}

// Overlaps reports whether the half-open range [start, end) intersects the
// feature.
func (f *GeneFeature) Overlaps(start, end int) bool {
	return start < f.End && end > f.Start
}

// Contains reports whether the half-open range [start, end) lies fully
// inside the feature.
func (f *GeneFeature) Contains(start, end int) bool {
	return start >= f.Start && end <= f.End
}
