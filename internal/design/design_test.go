package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/genome"
	"github.com/crispri-tools/sgrna-design/internal/score"
)

// testConfig designs 4-nt spacers so a 12-base genome is tractable by hand.
func testConfig() Config {
	return Config{
		SpacerLen:   4,
		PAM:         "NGG",
		MaxMismatch: 1,
		Origin:      0,
		Terminus:    6,
		Workers:     2,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	// Two candidates: forward spacer CGAT at [2,6) and reverse spacer CGAT
	// at [0,4). Each one's spacer recurs: exactly on the opposite strand
	// and with one mismatch at two further sites, so both score the
	// bottom tier.
	g := genome.New("chr", []byte("ATCGATAGGCCT"))
	features := []genome.GeneFeature{
		{Locus: "b0001", Symbol: "thrL", Start: 0, End: 6, Strand: genome.StrandForward},
	}

	results, err := Run(g, features, testConfig(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	rev := results[0]
	assert.Equal(t, 0, rev.Start)
	assert.Equal(t, genome.StrandReverse, rev.Strand)
	assert.Equal(t, "CGAT", rev.Spacer)
	assert.Equal(t, "b0001", rev.LocusTag())
	assert.Equal(t, annotate.Antisense, rev.TransDir)
	assert.Equal(t, 0, rev.Offset)
	assert.Equal(t, annotate.ReplReverse, rev.ReplDir)

	fwd := results[1]
	assert.Equal(t, 2, fwd.Start)
	assert.Equal(t, genome.StrandForward, fwd.Strand)
	assert.Equal(t, annotate.Sense, fwd.TransDir)
	assert.Equal(t, 2, fwd.Offset)
	assert.Equal(t, annotate.ReplForward, fwd.ReplDir)

	for _, r := range results {
		assert.Equal(t, 1, r.Specificity, "perfect cross-strand duplicate forces the bottom tier")
		assert.True(t, r.Perfect)
		assert.Equal(t, 3, r.OffTargets)
	}
}

func TestRun_Idempotent(t *testing.T) {
	g := genome.New("chr", []byte("ATCGATAGGCCTAGGTTCCA"))
	cfg := testConfig()
	cfg.Terminus = 10

	first, err := Run(g, nil, cfg, nil)
	require.NoError(t, err)
	second, err := Run(g, nil, cfg, nil)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i], "parallel execution must not leak into output order or content")
	}
}

func TestRun_NoCandidatesIsNotAnError(t *testing.T) {
	g := genome.New("chr", []byte("ACGTACGTAC"))
	cfg := testConfig()
	cfg.Terminus = 5

	results, err := Run(g, nil, cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_MinSpecificityFilter(t *testing.T) {
	g := genome.New("chr", []byte("ATCGATAGGCCT"))
	cfg := testConfig()
	cfg.MinSpecificity = 11

	results, err := Run(g, nil, cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, results, "both guides score 1, below the threshold")
}

func TestRun_MalformedInputsAreFatal(t *testing.T) {
	cfg := testConfig()

	_, err := Run(genome.New("chr", []byte("ACGXACGTACGT")), nil, cfg, nil)
	assert.Error(t, err, "non-nucleotide character")

	g := genome.New("chr", []byte("ATCGATAGGCCT"))
	bad := []genome.GeneFeature{{Locus: "b0001", Start: 5, End: 99}}
	_, err = Run(g, bad, cfg, nil)
	assert.Error(t, err, "feature outside genome bounds")

	_, err = Run(genome.New("chr", nil), nil, cfg, nil)
	assert.Error(t, err, "zero-length genome")
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero spacer", func(c *Config) { c.SpacerLen = 0 }, false},
		{"empty pam", func(c *Config) { c.PAM = "" }, false},
		{"bad pam char", func(c *Config) { c.PAM = "NGQ" }, false},
		{"iupac pam", func(c *Config) { c.PAM = "NRG" }, true},
		{"ceiling too high", func(c *Config) { c.MaxMismatch = score.MaxMismatchCeiling + 1 }, false},
		{"negative ceiling", func(c *Config) { c.MaxMismatch = -1 }, false},
		{"origin out of range", func(c *Config) { c.Origin = 100 }, false},
		{"terminus out of range", func(c *Config) { c.Terminus = -1 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate(12)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
