package lineio

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPlainFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">r1\nACGT\n>r2\nTTTT\n"), 0o600))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var lines []string
	for {
		line, ok := r.NextLine()
		if !ok {
			break
		}
		lines = append(lines, string(line))
	}
	assert.Equal(t, []string{">r1", "ACGT", ">r2", "TTTT"}, lines)
}

func TestOpenStripsCarriageReturn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">r1\r\nACGT\r\n"), 0o600))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	line, ok := r.NextLine()
	require.True(t, ok)
	assert.Equal(t, ">r1", string(line))
}

func TestOpenGzipFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.fasta.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(">r1\nACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	var lines []string
	for {
		line, ok := r.NextLine()
		if !ok {
			break
		}
		lines = append(lines, string(line))
	}
	assert.Equal(t, []string{">r1", "ACGT"}, lines)
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.fasta"))
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">r1\n"), 0o600))

	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.NoError(t, r.Close())
	assert.False(t, r.IsOpen())
}
