package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
	"github.com/crispri-tools/sgrna-design/internal/candidate"
	"github.com/crispri-tools/sgrna-design/internal/genome"
	"github.com/crispri-tools/sgrna-design/internal/score"
)

func sample(gene *genome.GeneFeature) *score.Scored {
	s := &score.Scored{
		Annotated: annotate.Annotated{
			Candidate: candidate.Candidate{
				Chrom:  "NC_000913.3",
				Start:  189,
				End:    209,
				Strand: genome.StrandForward,
				Spacer: "ACGTACGTACGTACGTACGT",
				PAM:    "TGG",
			},
			Gene:     gene,
			TransDir: annotate.Unassigned,
			ReplDir:  annotate.ReplForward,
		},
		Specificity: 39,
	}
	if gene != nil {
		s.Offset = 12
		s.TransDir = annotate.Sense
	}
	return s
}

func TestTSVWriter(t *testing.T) {
	var sb strings.Builder
	tw := NewTSVWriter(&sb)

	gene := &genome.GeneFeature{Locus: "b0001", Symbol: "thrL", Start: 100, End: 400, Strand: genome.StrandForward}
	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.Write(sample(gene)))
	require.NoError(t, tw.Write(sample(nil)))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "#chrom\tstart\tend\tlocus_tag"))

	fields := strings.Split(lines[1], "\t")
	require.Len(t, fields, 13)
	assert.Equal(t, "NC_000913.3", fields[0])
	assert.Equal(t, "189", fields[1])
	assert.Equal(t, "209", fields[2])
	assert.Equal(t, "b0001", fields[3])
	assert.Equal(t, "thrL", fields[4])
	assert.Equal(t, "+", fields[5])
	assert.Equal(t, "sense", fields[6])
	assert.Equal(t, "forward", fields[7])
	assert.Equal(t, "12", fields[8])
	assert.Equal(t, "TGG", fields[9])
	assert.Equal(t, "39", fields[11])

	intergenic := strings.Split(lines[2], "\t")
	assert.Equal(t, "-", intergenic[3], "absence marker for intergenic guides")
	assert.Equal(t, "-", intergenic[4])
	assert.Equal(t, "unassigned", intergenic[6])
	assert.Equal(t, "-", intergenic[8], "offset undefined without a gene")
}

func TestBEDWriter(t *testing.T) {
	var sb strings.Builder
	bw := NewBEDWriter(&sb)

	gene := &genome.GeneFeature{Locus: "b0001", Start: 100, End: 400, Strand: genome.StrandForward}
	require.NoError(t, bw.WriteHeader())
	require.NoError(t, bw.Write(sample(gene)))
	require.NoError(t, bw.Flush())

	assert.Equal(t,
		"NC_000913.3\t189\t209\tb0001|ACGTACGTACGTACGTACGT\t39\t+\n",
		sb.String())
}
