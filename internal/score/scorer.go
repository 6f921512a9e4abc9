// Package score converts genomic uniqueness into a bounded specificity
// score.
package score

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/seqindex"
)

// MaxScore is the specificity of a spacer with no off-target match at any
// tested mismatch budget.
const MaxScore = 39

// scoreLadder maps the smallest mismatch budget at which an off-target
// match appears to a specificity score: a perfect duplicate scores 1, a
// 1-mismatch neighbor 11, and so on up to MaxScore for a unique spacer.
// Monotone in the budget.
var scoreLadder = [...]int{1, 11, 20, 30}

// MaxMismatchCeiling is the largest supported mismatch ceiling; the score
// ladder defines one tier per budget below it.
const MaxMismatchCeiling = len(scoreLadder) - 1

// Scored is an annotated candidate with its final specificity score.
// Read-only; consumed by the result assembler.
type Scored struct {
	annotate.Annotated
	Specificity int  // in [1, MaxScore]
	OffTargets  int  // distinct near-duplicate sites within the ceiling
	Perfect     bool // an exact off-target duplicate exists
}

// Scorer scores candidates against a shared read-only sequence index.
// Safe for concurrent use.
type Scorer struct {
	idx     *seqindex.Index
	ceiling int
	logger  *zap.Logger
}

// NewScorer creates a scorer querying budgets 0..ceiling.
func NewScorer(idx *seqindex.Index, ceiling int) (*Scorer, error) {
	if ceiling < 0 || ceiling > MaxMismatchCeiling {
		return nil, fmt.Errorf("mismatch ceiling %d outside [0, %d]", ceiling, MaxMismatchCeiling)
	}
	if ceiling > idx.MaxMismatch() {
		return nil, fmt.Errorf("mismatch ceiling %d exceeds index budget %d", ceiling, idx.MaxMismatch())
	}
	return &Scorer{idx: idx, ceiling: ceiling, logger: zap.NewNop()}, nil
}

// SetLogger sets the logger for per-candidate diagnostics.
func (s *Scorer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Score computes the specificity of one candidate. A single query at the
// ceiling budget yields both the off-target count and the smallest budget
// at which a duplicate appears.
func (s *Scorer) Score(a *annotate.Annotated) (*Scored, error) {
	self := seqindex.Site{Strand: a.Strand, Pos: a.Start}
	res, err := s.idx.Query(a.Spacer, s.ceiling, self)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", a.ID(), err)
	}

	sc := &Scored{
		Annotated:   *a,
		Specificity: MaxScore,
		OffTargets:  res.Sites,
		Perfect:     res.Perfect,
	}
	if res.Sites > 0 {
		sc.Specificity = scoreLadder[res.MinMismatch]
	}
	if res.Perfect {
		s.logger.Debug("perfect off-target duplicate",
			zap.String("candidate", a.ID()),
			zap.Int("off_targets", res.Sites))
	}
	return sc, nil
}
