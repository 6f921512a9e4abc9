package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/design"
	"github.com/crispri-tools/sgrna-design/internal/duckdb"
	"github.com/crispri-tools/sgrna-design/internal/genome"
	"github.com/crispri-tools/sgrna-design/internal/output"
	"github.com/crispri-tools/sgrna-design/internal/score"
)

type designFlags struct {
	genomePath      string
	regionsPath     string
	chrom           string
	outputPath      string
	format          string
	duckdbPath      string
	spacerLen       int
	pam             string
	maxMismatch     int
	minSpecificity  int
	origin          int
	terminus        int
	fullOverlapOnly bool
	strand          string
	orientation     string
	workers         int
	verbose         bool
}

func newDesignCmd() *cobra.Command {
	var f designFlags

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design guides for a genome",
		Example: `  sgrna-design design --genome genome.fasta --regions genes.tsv
  sgrna-design design --genome genome.fasta.gz --pam NGG -o guides.tsv
  sgrna-design design --genome genome.fasta --format bed --min-specificity 20
  sgrna-design design --genome genome.fasta --duckdb guides.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesign(&f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.genomePath, "genome", "", "Genome FASTA file (plain or gzipped)")
	fl.StringVar(&f.regionsPath, "regions", "", "Gene region table: locus, chrom, start, end, strand[, symbol]")
	fl.StringVar(&f.chrom, "chrom", "", "FASTA record to design against (default: first record)")
	fl.StringVarP(&f.outputPath, "output", "o", "", "Output file (default: stdout)")
	fl.StringVarP(&f.format, "format", "f", "tab", "Output format: tab, bed")
	fl.StringVar(&f.duckdbPath, "duckdb", "", "Also write guides to a DuckDB database at this path")
	fl.IntVar(&f.spacerLen, "spacer-len", 20, "Spacer length in bases")
	fl.StringVar(&f.pam, "pam", "NGG", "PAM motif 3' of the spacer (IUPAC codes allowed)")
	fl.IntVar(&f.maxMismatch, "max-mismatch", 3, "Mismatch ceiling for the specificity search")
	fl.IntVar(&f.minSpecificity, "min-specificity", 0, "Drop guides scoring below this (0 = keep all)")
	fl.IntVar(&f.origin, "origin", 0, "Replication origin coordinate")
	fl.IntVar(&f.terminus, "terminus", -1, "Replication terminus coordinate (default: half the genome)")
	fl.BoolVar(&f.fullOverlapOnly, "full-overlap-only", false, "Only assign guides fully contained in a gene")
	fl.StringVar(&f.strand, "strand", "", "Restrict output to one strand: + or -")
	fl.StringVar(&f.orientation, "orientation", "", "Restrict output to one class: sense or antisense")
	fl.IntVar(&f.workers, "workers", 0, "Scoring workers (0 = all CPUs)")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose progress logging")

	cobra.CheckErr(cmd.MarkFlagRequired("genome"))

	// Config-file defaults for the stable design parameters.
	for _, key := range []string{"pam", "spacer-len", "max-mismatch", "min-specificity", "origin", "terminus"} {
		cobra.CheckErr(viper.BindPFlag(key, fl.Lookup(key)))
	}

	return cmd
}

func runDesign(f *designFlags) error {
	logger := newLogger(f.verbose)
	defer logger.Sync() //nolint:errcheck

	g, err := loadGenome(f.genomePath, f.chrom, logger)
	if err != nil {
		return err
	}

	var features []genome.GeneFeature
	if f.regionsPath != "" {
		features, err = genome.ReadRegions(f.regionsPath, logger)
		if err != nil {
			return err
		}
	}

	cfg, err := buildConfig(f, g.Len())
	if err != nil {
		return err
	}

	results, err := design.Run(g, features, cfg, logger)
	if err != nil {
		return err
	}

	if f.duckdbPath != "" {
		if err := writeDuckDB(f.duckdbPath, results, logger); err != nil {
			return err
		}
	}

	var out io.Writer = os.Stdout
	if f.outputPath != "" {
		file, err := os.Create(f.outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	var writer output.GuideWriter
	switch f.format {
	case "tab":
		writer = output.NewTSVWriter(out)
	case "bed":
		writer = output.NewBEDWriter(out)
	default:
		return fmt.Errorf("unknown output format %q", f.format)
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range results {
		if err := writer.Write(s); err != nil {
			return fmt.Errorf("write guide: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("wrote guide table", zap.Int("guides", len(results)))
	return nil
}

func loadGenome(path, chrom string, logger *zap.Logger) (*genome.Genome, error) {
	records, err := genome.ReadFASTA(path)
	if err != nil {
		return nil, err
	}

	if chrom == "" {
		if len(records) > 1 {
			logger.Warn("multiple FASTA records, using the first",
				zap.String("chrom", records[0].ID))
		}
		return records[0], nil
	}
	for _, r := range records {
		if r.ID == chrom {
			return r, nil
		}
	}
	return nil, fmt.Errorf("FASTA record %q not found in %s", chrom, path)
}

func buildConfig(f *designFlags, genomeLen int) (design.Config, error) {
	cfg := design.Config{
		SpacerLen:       viper.GetInt("spacer-len"),
		PAM:             viper.GetString("pam"),
		MaxMismatch:     viper.GetInt("max-mismatch"),
		MinSpecificity:  viper.GetInt("min-specificity"),
		Origin:          viper.GetInt("origin"),
		Terminus:        viper.GetInt("terminus"),
		FullOverlapOnly: f.fullOverlapOnly,
		Workers:         f.workers,
	}

	if cfg.Terminus < 0 {
		cfg.Terminus = genomeLen / 2
	}

	switch f.strand {
	case "":
		cfg.Strand = genome.StrandUnknown
	case "+":
		cfg.Strand = genome.StrandForward
	case "-":
		cfg.Strand = genome.StrandReverse
	default:
		return cfg, fmt.Errorf("unrecognized strand %q (use + or -)", f.strand)
	}

	switch f.orientation {
	case "":
	case "sense":
		cfg.Orientation = annotate.Sense
	case "antisense":
		cfg.Orientation = annotate.Antisense
	default:
		return cfg, fmt.Errorf("unrecognized orientation %q (use sense or antisense)", f.orientation)
	}

	return cfg, nil
}

func writeDuckDB(path string, results []*score.Scored, logger *zap.Logger) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, s := range results {
		if err := store.InsertGuide(s); err != nil {
			return err
		}
	}

	count, err := store.GuideCount()
	if err != nil {
		return err
	}
	logger.Info("wrote DuckDB guide table",
		zap.String("path", path),
		zap.Int("guides", count))
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
