package genome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ReadRegions loads gene features from a tab-separated region table with
// columns: locus, chrom, start, end, strand. Lines beginning with '#' are
// comments. A row with the wrong column count is fatal; a row whose
// coordinates fail to parse is logged and skipped.
//
// An optional sixth column carries the gene symbol.
func ReadRegions(path string, logger *zap.Logger) ([]GeneFeature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}
	defer f.Close()

	return ParseRegions(f, logger)
}

// ParseRegions parses region-table content from a reader.
func ParseRegions(reader io.Reader, logger *zap.Logger) ([]GeneFeature, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var features []GeneFeature
	scanner := bufio.NewScanner(reader)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != 5 && len(parts) != 6 {
			return nil, fmt.Errorf("region file line %d: expected 5 or 6 tab-separated fields, got %d", lineNo, len(parts))
		}

		start, err1 := strconv.Atoi(parts[2])
		end, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil {
			logger.Warn("could not fully parse region line, skipping",
				zap.Int("line", lineNo),
				zap.String("locus", parts[0]))
			continue
		}

		strand, err := parseStrand(parts[4])
		if err != nil {
			return nil, fmt.Errorf("region file line %d: %w", lineNo, err)
		}

		feat := GeneFeature{
			Locus:  parts[0],
			Start:  start,
			End:    end,
			Strand: strand,
		}
		if len(parts) == 6 {
			feat.Symbol = parts[5]
		}
		features = append(features, feat)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan region file: %w", err)
	}

	logger.Info("loaded gene features", zap.Int("count", len(features)))
	return features, nil
}

func parseStrand(s string) (Strand, error) {
	switch s {
	case "+", "1":
		return StrandForward, nil
	case "-", "-1":
		return StrandReverse, nil
	case ".", "":
		// Unknown strand: the feature claims candidates on both strands.
		return StrandUnknown, nil
	default:
		return StrandUnknown, fmt.Errorf("unrecognized strand %q", s)
	}
}
