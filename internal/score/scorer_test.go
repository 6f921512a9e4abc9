package score

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/candidate"
	"github.com/crispri-tools/sgrna-design/internal/genome"
	"github.com/crispri-tools/sgrna-design/internal/seqindex"
)

const testSpacer = "ACGTTGCA"

func annotated(start int) *annotate.Annotated {
	return &annotate.Annotated{
		Candidate: candidate.Candidate{
			Chrom:  "chr",
			Start:  start,
			End:    start + len(testSpacer),
			Strand: genome.StrandForward,
			Spacer: testSpacer,
			PAM:    "TGG",
		},
		TransDir: annotate.Unassigned,
		ReplDir:  annotate.ReplForward,
	}
}

func newScorer(t *testing.T, seq string, ceiling int) *Scorer {
	t.Helper()
	idx, err := seqindex.Build(genome.New("chr", []byte(seq)), len(testSpacer), ceiling)
	require.NoError(t, err)
	s, err := NewScorer(idx, ceiling)
	require.NoError(t, err)
	return s
}

func TestScore_UniqueSpacerGetsMaxScore(t *testing.T) {
	s := newScorer(t, "ACGTTGCAAAAATTTTAAAATTTTGGGGCCCC", 1)

	sc, err := s.Score(annotated(0))
	require.NoError(t, err)
	assert.Equal(t, MaxScore, sc.Specificity)
	assert.Equal(t, 0, sc.OffTargets)
	assert.False(t, sc.Perfect)
}

func TestScore_PerfectDuplicateGetsMinScore(t *testing.T) {
	// Exact second copy of the spacer at position 16.
	s := newScorer(t, "ACGTTGCAAAAATTTTACGTTGCAGGGGCCCC", 1)

	sc, err := s.Score(annotated(0))
	require.NoError(t, err)
	assert.Equal(t, 1, sc.Specificity)
	assert.Equal(t, 1, sc.OffTargets)
	assert.True(t, sc.Perfect)
}

func TestScore_NearDuplicateTier(t *testing.T) {
	// One-mismatch variant at position 16: first duplicate appears at
	// budget 1, so the score is the budget-1 tier.
	s := newScorer(t, "ACGTTGCAAAAATTTTACGTTGCTGGGGCCCC", 1)

	sc, err := s.Score(annotated(0))
	require.NoError(t, err)
	assert.Equal(t, 11, sc.Specificity)
	assert.Equal(t, 1, sc.OffTargets)
	assert.False(t, sc.Perfect)
}

func TestScore_LogsPerfectDuplicate(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := newScorer(t, "ACGTTGCAAAAATTTTACGTTGCAGGGGCCCC", 1)
	s.SetLogger(zap.New(core))

	_, err := s.Score(annotated(0))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("perfect off-target duplicate").Len())

	// Unique spacer stays quiet.
	u := newScorer(t, "ACGTTGCAAAAATTTTAAAATTTTGGGGCCCC", 1)
	u.SetLogger(zap.New(core))
	_, err = u.Score(annotated(0))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}

func TestScore_Monotonic(t *testing.T) {
	unique := newScorer(t, "ACGTTGCAAAAATTTTAAAATTTTGGGGCCCC", 1)
	duped := newScorer(t, "ACGTTGCAAAAATTTTACGTTGCAGGGGCCCC", 1)

	u, err := unique.Score(annotated(0))
	require.NoError(t, err)
	d, err := duped.Score(annotated(0))
	require.NoError(t, err)

	assert.Greater(t, u.Specificity, d.Specificity,
		"a spacer with a perfect duplicate scores strictly lower")
}

func TestNewScorer_CeilingValidation(t *testing.T) {
	idx, err := seqindex.Build(genome.New("chr", []byte("ACGTTGCAAAAATTTT")), 8, 1)
	require.NoError(t, err)

	_, err = NewScorer(idx, 2)
	assert.Error(t, err, "ceiling above index budget")

	_, err = NewScorer(idx, -1)
	assert.Error(t, err)

	_, err = NewScorer(idx, MaxMismatchCeiling+1)
	assert.Error(t, err, "ceiling beyond the score ladder")
}

func TestParallelScore_OrderedCollect(t *testing.T) {
	s := newScorer(t, "ACGTTGCAAAAATTTTACGTTGCAGGGGCCCC", 1)

	const total = 50
	items := make(chan WorkItem, total)
	for i := 0; i < total; i++ {
		items <- WorkItem{Seq: i, Cand: annotated(0)}
	}
	close(items)

	results := s.ParallelScore(items, 4)

	var seqs []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		seqs = append(seqs, r.Seq)
		assert.Equal(t, 1, r.Scored.Specificity)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, seqs, total)
	for i, got := range seqs {
		assert.Equal(t, i, got, "results emitted in sequence order")
	}
}

func TestOrderedCollect_StopsOnCallbackError(t *testing.T) {
	s := newScorer(t, "ACGTTGCAAAAATTTTACGTTGCAGGGGCCCC", 1)

	items := make(chan WorkItem, 8)
	for i := 0; i < 8; i++ {
		items <- WorkItem{Seq: i, Cand: annotated(0)}
	}
	close(items)

	boom := errors.New("boom")
	err := OrderedCollect(s.ParallelScore(items, 2), func(r WorkResult) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
