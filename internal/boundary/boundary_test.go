package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFindFastaFromStart(t *testing.T) {
	t.Parallel()

	content := ">seq1\nACGT\n>seq2\nTTTT\n"
	f := writeTemp(t, content)

	off, err := FindFasta(f, 0, int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(0), off)
}

func TestFindFastaMidFile(t *testing.T) {
	t.Parallel()

	content := ">seq1\nACGTACGTACGT\n>seq2\nTTTTTTTTTTTT\n"
	f := writeTemp(t, content)
	secondRecordOffset := int64(len(">seq1\nACGTACGTACGT\n"))

	off, err := FindFasta(f, secondRecordOffset-5, int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, secondRecordOffset, off)
}

func TestFindFastaNoMoreRecordsReturnsFileSize(t *testing.T) {
	t.Parallel()

	content := ">seq1\nACGT\n"
	f := writeTemp(t, content)

	off, err := FindFasta(f, int64(len(content))-2, int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), off)
}

func TestFindFastqSkipsAtInQualityLine(t *testing.T) {
	t.Parallel()

	// The first record's quality line starts with '@', which must not
	// be mistaken for the next record's header.
	rec1 := "@r1\nACGT\n+\n@!!!\n"
	rec2 := "@r2\nTTTT\n+\n####\n"
	content := rec1 + rec2
	f := writeTemp(t, content)

	off, err := FindFastq(f, int64(len("@r1\nACGT\n+\n")), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(rec1)), off)
}

func TestFindFastqFromStart(t *testing.T) {
	t.Parallel()

	content := "@r1\nACGT\n+\n!!!!\n"
	f := writeTemp(t, content)

	off, err := FindFastq(f, 0, int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(0), off)
}

func TestFindFastqPosAtOrPastEOF(t *testing.T) {
	t.Parallel()

	content := "@r1\nACGT\n+\n!!!!\n"
	f := writeTemp(t, content)

	off, err := FindFastq(f, int64(len(content)), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), off)
}
