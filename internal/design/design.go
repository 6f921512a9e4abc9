// Package design runs the guide-design pipeline: candidate generation,
// gene annotation, specificity scoring and result assembly.
package design

import (
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/assemble"
	"github.com/crispri-tools/sgrna-design/internal/candidate"
	"github.com/crispri-tools/sgrna-design/internal/genome"
	"github.com/crispri-tools/sgrna-design/internal/score"
	"github.com/crispri-tools/sgrna-design/internal/seqindex"
)

const iupacAlphabet = "ACGTRYSWKMBDHVN"

// Config is the single immutable configuration value threaded through all
// pipeline stages.
type Config struct {
	SpacerLen       int
	PAM             string // IUPAC motif 3' of the spacer, e.g. NGG
	MaxMismatch     int    // specificity search ceiling
	MinSpecificity  int    // 0 disables the filter
	Origin          int    // replichore split: replication origin coordinate
	Terminus        int    // replichore split: terminus coordinate
	FullOverlapOnly bool
	Strand          genome.Strand     // restrict output to one strand (StrandUnknown = both)
	Orientation     annotate.TransDir // restrict output to one orientation class ("" = all)
	Workers         int               // 0 = runtime.NumCPU()
}

// DefaultConfig returns the standard CRISPRi design parameters for a
// genome of the given length.
func DefaultConfig(genomeLen int) Config {
	return Config{
		SpacerLen:   20,
		PAM:         "NGG",
		MaxMismatch: 3,
		Origin:      0,
		Terminus:    genomeLen / 2,
	}
}

// Validate checks the configuration against a genome of the given length.
func (c Config) Validate(genomeLen int) error {
	if c.SpacerLen <= 0 {
		return fmt.Errorf("spacer length %d must be positive", c.SpacerLen)
	}
	if c.PAM == "" {
		return fmt.Errorf("PAM pattern must not be empty")
	}
	for _, r := range strings.ToUpper(c.PAM) {
		if !strings.ContainsRune(iupacAlphabet, r) {
			return fmt.Errorf("PAM pattern %q contains non-IUPAC character %q", c.PAM, r)
		}
	}
	if c.MaxMismatch < 0 || c.MaxMismatch > score.MaxMismatchCeiling {
		return fmt.Errorf("mismatch ceiling %d outside [0, %d]", c.MaxMismatch, score.MaxMismatchCeiling)
	}
	if c.Origin < 0 || c.Origin >= genomeLen {
		return fmt.Errorf("origin %d outside genome of length %d", c.Origin, genomeLen)
	}
	if c.Terminus < 0 || c.Terminus >= genomeLen {
		return fmt.Errorf("terminus %d outside genome of length %d", c.Terminus, genomeLen)
	}
	return nil
}

// Run executes the pipeline on one genome and returns the final ordered
// guide set. The sequence index is built once and shared read-only across
// all scoring workers; output order is canonical and independent of
// scheduling.
func Run(g *genome.Genome, features []genome.GeneFeature, cfg Config, logger *zap.Logger) ([]*score.Scored, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := g.ValidateFeatures(features); err != nil {
		return nil, err
	}
	if err := cfg.Validate(g.Len()); err != nil {
		return nil, err
	}

	pam := strings.ToUpper(cfg.PAM)

	logger.Info("building sequence index",
		zap.Int("genome_length", g.Len()),
		zap.Int("spacer_length", cfg.SpacerLen),
		zap.Int("mismatch_ceiling", cfg.MaxMismatch))
	idx, err := seqindex.Build(g, cfg.SpacerLen, cfg.MaxMismatch)
	if err != nil {
		return nil, err
	}

	scorer, err := score.NewScorer(idx, cfg.MaxMismatch)
	if err != nil {
		return nil, err
	}
	scorer.SetLogger(logger)

	annotator := annotate.NewAnnotator(features, g.Len(), cfg.Origin, cfg.Terminus, cfg.FullOverlapOnly)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan score.WorkItem, 2*workers)
	total := 0
	go func() {
		defer close(items)
		gen := candidate.NewGenerator(g, cfg.SpacerLen, pam)
		seq := 0
		for c := gen.Next(); c != nil; c = gen.Next() {
			items <- score.WorkItem{Seq: seq, Cand: annotator.Annotate(c)}
			seq++
		}
		total = seq
	}()

	var scored []*score.Scored
	err = score.OrderedCollect(scorer.ParallelScore(items, workers), func(r score.WorkResult) error {
		if r.Err != nil {
			return r.Err
		}
		scored = append(scored, r.Scored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		logger.Warn("no PAM-adjacent candidates found",
			zap.String("pam", pam),
			zap.String("chrom", g.ID))
	} else {
		logger.Info("scored candidates", zap.Int("count", total))
	}

	return assemble.Assemble(scored, assemble.Options{
		MinSpecificity: cfg.MinSpecificity,
		Strand:         cfg.Strand,
		Orientation:    cfg.Orientation,
	}), nil
}
