package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woosflex/traceon/internal/codec"
)

func TestSetGet(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("k", "GATTACA")

	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "GATTACA", string(got))
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestInsertFastqAndGetFastq(t *testing.T) {
	t.Parallel()

	s := New()
	s.Insert("r1", Record{
		Kind:     KindFastq,
		SeqData:  codec.Encode([]byte("ACGT"), codec.Generic),
		QualData: codec.Encode([]byte("!!!!"), codec.QualityScore),
	})

	rec, ok := s.GetFastq("r1")
	require.True(t, ok)
	assert.Equal(t, "ACGT", string(rec.Sequence))
	assert.Equal(t, "!!!!", string(rec.Quality))

	_, ok = s.Get("r1")
	assert.True(t, ok, "Get should also work for FASTQ records")
}

func TestGetFastqOnFastaRecordFails(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("k", "ACGT")

	_, ok := s.GetFastq("k")
	assert.False(t, ok)
}

func TestSizeAndStoredSize(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Equal(t, 0, s.Size())

	s.Set("k", "GATTACA")
	assert.Equal(t, 1, s.Size())
	assert.Greater(t, s.StoredSize("k"), 0)
	assert.Equal(t, 0, s.StoredSize("missing"))
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("k", "GATTACA")
	s.Clear()
	assert.Equal(t, 0, s.Size())
	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestConcurrentSetAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Set(fmt.Sprintf("k%d", i), "ACGT")
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, s.Size())
}
