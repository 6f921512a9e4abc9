// Package duckdb stores scored guides in a queryable DuckDB database.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/crispri-tools/sgrna-design/internal/score"
)

// Store manages a DuckDB connection holding the guide table.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the guide table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS guides (
		chrom VARCHAR,
		start BIGINT,
		"end" BIGINT,
		strand VARCHAR,
		locus_tag VARCHAR,
		gene VARCHAR,
		transdir VARCHAR,
		repldir VARCHAR,
		"offset" BIGINT,
		pam VARCHAR,
		spacer VARCHAR,
		specificity INTEGER,
		offtargets INTEGER,
		PRIMARY KEY (chrom, start, strand)
	)`)
	return err
}

// InsertGuide appends one scored guide to the table.
func (s *Store) InsertGuide(g *score.Scored) error {
	var locus, gene sql.NullString
	var offset sql.NullInt64
	if g.Gene != nil {
		locus = sql.NullString{String: g.Gene.Locus, Valid: true}
		if g.Gene.Symbol != "" {
			gene = sql.NullString{String: g.Gene.Symbol, Valid: true}
		}
		offset = sql.NullInt64{Int64: int64(g.Offset), Valid: true}
	}

	_, err := s.db.Exec(`INSERT INTO guides
		(chrom, start, "end", strand, locus_tag, gene, transdir, repldir, "offset", pam, spacer, specificity, offtargets)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Chrom, g.Start, g.End, g.Strand.String(),
		locus, gene, string(g.TransDir), string(g.ReplDir), offset,
		g.PAM, g.Spacer, g.Specificity, g.OffTargets)
	if err != nil {
		return fmt.Errorf("insert guide %s: %w", g.ID(), err)
	}
	return nil
}

// GuideCount returns the number of stored guides.
func (s *Store) GuideCount() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM guides`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count guides: %w", err)
	}
	return count, nil
}
