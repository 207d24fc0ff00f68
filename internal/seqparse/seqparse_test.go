package seqparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFastaMultipleRecords(t *testing.T) {
	t.Parallel()

	chunk := []byte(">seq1 description here\nACGT\nACGT\n>seq2\nTTTT\n")
	records := ParseFasta(chunk)

	require.Len(t, records, 2)
	assert.Equal(t, "seq1", records[0].ID)
	assert.Equal(t, "ACGTACGT", string(records[0].Sequence))
	assert.Equal(t, "seq2", records[1].ID)
	assert.Equal(t, "TTTT", string(records[1].Sequence))
}

func TestParseFastaEmptyChunk(t *testing.T) {
	t.Parallel()
	assert.Empty(t, ParseFasta(nil))
}

func TestParseFastaNoTrailingNewline(t *testing.T) {
	t.Parallel()

	chunk := []byte(">seq1\nACGT")
	records := ParseFasta(chunk)
	require.Len(t, records, 1)
	assert.Equal(t, "ACGT", string(records[0].Sequence))
}

func TestParseFastqWellFormed(t *testing.T) {
	t.Parallel()

	chunk := []byte("@r1 extra\nACGT\n+\n!!!!\n@r2\nTTTT\n+\n####\n")
	records, skipped := ParseFastq(chunk)

	require.Len(t, records, 2)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, "ACGT", string(records[0].Sequence))
	assert.Equal(t, "!!!!", string(records[0].Quality))
	assert.Equal(t, "r2", records[1].ID)
}

func TestParseFastqSkipsLengthMismatch(t *testing.T) {
	t.Parallel()

	chunk := []byte("@r1\nACGT\n+\n!!\n@r2\nTTTT\n+\n####\n")
	records, skipped := ParseFastq(chunk)

	require.Len(t, records, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "r2", records[0].ID)
}

func TestParseFastqSkipsMissingPlusLine(t *testing.T) {
	t.Parallel()

	chunk := []byte("@r1\nACGT\nnotplus\n!!!!\n@r2\nTTTT\n+\n####\n")
	records, skipped := ParseFastq(chunk)

	require.Len(t, records, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "r2", records[0].ID)
}

func TestParseFastqIncompleteTrailingGroupIgnored(t *testing.T) {
	t.Parallel()

	chunk := []byte("@r1\nACGT\n+\n!!!!\n@r2\nTTTT\n")
	records, skipped := ParseFastq(chunk)

	require.Len(t, records, 1)
	assert.Equal(t, 0, skipped)
}
