// Package seqindex answers approximate-match queries over both strands of a
// circular genome.
//
// The index stores, for every position on each strand, the 2-bit-encoded
// k-mer starting there (wrapping across the origin). k is chosen as
// spacerLen/(maxMismatch+1): by the pigeonhole principle, any window that
// matches a spacer within the mismatch budget contains at least one exact
// chunk of that length, so seed lookup followed by full verification finds
// every hit without rescanning the genome.
package seqindex

import (
	"fmt"

	"github.com/crispri-tools/sgrna-design/internal/genome"
)

// Site is a genomic window location: the strand it was found on and the
// forward-strand coordinate of its leftmost base.
type Site struct {
	Strand genome.Strand
	Pos    int
}

// Result summarizes one approximate-match query.
type Result struct {
	Sites       int  // distinct off-target sites within the budget
	MinMismatch int  // smallest mismatch count among those sites; valid when Sites > 0
	Perfect     bool // true when any site is a zero-mismatch duplicate
}

// ConstructionError reports that the index could not be built from the
// given genome and parameters.
type ConstructionError struct {
	Msg string
}

func (e *ConstructionError) Error() string {
	return "index construction: " + e.Msg
}

// Index is a read-only k-mer position index over both strands of a circular
// genome. Built once; safe for concurrent queries.
type Index struct {
	n         int
	k         int
	spacerLen int
	maxMM     int

	fwd []byte // forward strand
	rev []byte // reverse complement; rev[i] pairs with fwd[n-1-i]

	fwdSeeds map[uint64][]int32
	revSeeds map[uint64][]int32
}

// Build constructs the index for windows of spacerLen bases queried at
// mismatch budgets up to maxMismatch.
func Build(g *genome.Genome, spacerLen, maxMismatch int) (*Index, error) {
	n := g.Len()
	if n == 0 {
		return nil, &ConstructionError{Msg: "zero-length genome"}
	}
	if spacerLen <= 0 {
		return nil, &ConstructionError{Msg: fmt.Sprintf("spacer length %d must be positive", spacerLen)}
	}
	if maxMismatch < 0 {
		return nil, &ConstructionError{Msg: fmt.Sprintf("mismatch ceiling %d must be non-negative", maxMismatch)}
	}
	k := spacerLen / (maxMismatch + 1)
	if k < 1 {
		return nil, &ConstructionError{
			Msg: fmt.Sprintf("mismatch ceiling %d too large for spacer length %d", maxMismatch, spacerLen)}
	}

	fwd := g.Seq()
	rev := genome.RevComp(fwd)

	idx := &Index{
		n:         n,
		k:         k,
		spacerLen: spacerLen,
		maxMM:     maxMismatch,
		fwd:       fwd,
		rev:       rev,
		fwdSeeds:  seedTable(fwd, k),
		revSeeds:  seedTable(rev, k),
	}
	return idx, nil
}

// seedTable maps each 2-bit-encoded k-mer to the positions where it starts,
// wrapping terminal k-mers across the origin. Positions whose k-mer contains
// an ambiguous base are not indexed.
func seedTable(seq []byte, k int) map[uint64][]int32 {
	n := len(seq)
	table := make(map[uint64][]int32)
	for p := 0; p < n; p++ {
		key, ok := encodeAt(seq, p, k)
		if !ok {
			continue
		}
		table[key] = append(table[key], int32(p))
	}
	return table
}

func baseCode(b byte) (uint64, bool) {
	switch b {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	default:
		return 0, false
	}
}

// encodeAt 2-bit-encodes the k bases starting at p, wrapping modulo len(seq).
func encodeAt(seq []byte, p, k int) (uint64, bool) {
	n := len(seq)
	var key uint64
	for j := 0; j < k; j++ {
		c, ok := baseCode(seq[(p+j)%n])
		if !ok {
			return 0, false
		}
		key = key<<2 | c
	}
	return key, true
}

func encode(s []byte) (uint64, bool) {
	return encodeAt(s, 0, len(s))
}

// Len returns the genome length the index was built over.
func (idx *Index) Len() int { return idx.n }

// SeedLen returns the exact-seed length used for lookups.
func (idx *Index) SeedLen() int { return idx.k }

// MaxMismatch returns the largest budget the index supports.
func (idx *Index) MaxMismatch() int { return idx.maxMM }

// Query counts the distinct genomic sites, on either strand and beyond the
// candidate's own site, whose spacerLen-window matches the given spacer
// within maxMM mismatches. Windows wrap across the circular origin.
func (idx *Index) Query(spacer string, maxMM int, self Site) (Result, error) {
	if len(spacer) != idx.spacerLen {
		return Result{}, fmt.Errorf("query length %d does not match index spacer length %d", len(spacer), idx.spacerLen)
	}
	if maxMM < 0 || maxMM > idx.maxMM {
		return Result{}, fmt.Errorf("mismatch budget %d outside [0, %d]", maxMM, idx.maxMM)
	}
	pat := []byte(spacer)

	res := Result{MinMismatch: maxMM + 1}
	visited := make(map[int64]struct{})

	chunks := maxMM + 1
	for i := 0; i < chunks; i++ {
		off := i * idx.spacerLen / chunks
		key, ok := encode(pat[off : off+idx.k])
		if !ok {
			// Ambiguous query chunk cannot seed an exact match; other
			// chunks may still find every within-budget site.
			continue
		}
		idx.scanBucket(idx.fwd, idx.fwdSeeds[key], genome.StrandForward, off, pat, maxMM, self, visited, &res)
		idx.scanBucket(idx.rev, idx.revSeeds[key], genome.StrandReverse, off, pat, maxMM, self, visited, &res)
	}

	if res.Sites == 0 {
		res.MinMismatch = 0
	}
	return res, nil
}

// scanBucket verifies every seeded window start from one strand's bucket.
func (idx *Index) scanBucket(seq []byte, bucket []int32, strand genome.Strand, off int,
	pat []byte, maxMM int, self Site, visited map[int64]struct{}, res *Result) {

	strandBit := int64(0)
	if strand == genome.StrandReverse {
		strandBit = 1
	}

	for _, p := range bucket {
		ws := idx.norm(int(p) - off)
		vkey := strandBit<<32 | int64(ws)
		if _, seen := visited[vkey]; seen {
			continue
		}
		visited[vkey] = struct{}{}

		mm, ok := idx.verify(seq, ws, pat, maxMM)
		if !ok {
			continue
		}
		if idx.project(strand, ws) == self {
			continue
		}
		res.Sites++
		if mm < res.MinMismatch {
			res.MinMismatch = mm
		}
		if mm == 0 {
			res.Perfect = true
		}
	}
}

// verify counts mismatches between pat and the wrapped window at ws,
// aborting once the budget is exceeded. Ambiguous genome bases count as
// mismatches.
func (idx *Index) verify(seq []byte, ws int, pat []byte, maxMM int) (int, bool) {
	n := idx.n
	mm := 0
	pos := ws
	for j := 0; j < len(pat); j++ {
		if seq[pos] != pat[j] {
			mm++
			if mm > maxMM {
				return 0, false
			}
		}
		pos++
		if pos == n {
			pos = 0
		}
	}
	return mm, true
}

// project converts a strand-local window start to a Site keyed by the
// forward-strand coordinate of the window's leftmost base.
func (idx *Index) project(strand genome.Strand, ws int) Site {
	if strand == genome.StrandForward {
		return Site{Strand: strand, Pos: ws}
	}
	return Site{Strand: strand, Pos: idx.norm(idx.n - ws - idx.spacerLen)}
}

func (idx *Index) norm(i int) int {
	i %= idx.n
	if i < 0 {
		i += idx.n
	}
	return i
}
