package genome

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFASTA loads all records from a FASTA file, gzipped or plain.
// Record IDs are the header token before the first space.
func ReadFASTA(path string) ([]*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseFASTA(reader)
}

// ParseFASTA parses FASTA content from a reader.
func ParseFASTA(reader io.Reader) ([]*Genome, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var records []*Genome
	var currentID string
	var currentSeq strings.Builder
	seen := false

	flush := func() {
		if seen {
			records = append(records, New(currentID, []byte(currentSeq.String())))
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			currentID = parseHeader(line)
			currentSeq.Reset()
			seen = true
		} else if seen {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no FASTA records found")
	}

	return records, nil
}

// parseHeader extracts the record ID from a FASTA header line.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		header = header[:idx]
	}
	return header
}
