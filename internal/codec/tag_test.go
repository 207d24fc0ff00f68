package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeDispatch(t *testing.T) {
	t.Parallel()

	t.Run("nucleotide sequence tags 0x01", func(t *testing.T) {
		t.Parallel()
		encoded := Encode([]byte("ACGTACGTACGT"), Generic)
		assert.Equal(t, tagNucleotide, encoded[0])
		assert.Equal(t, "ACGTACGTACGT", string(Decode(encoded)))
	})

	t.Run("quality hint always tags 0x12", func(t *testing.T) {
		t.Parallel()
		encoded := Encode([]byte("!!!IIIIII"), QualityScore)
		assert.Equal(t, tagQuality, encoded[0])
		assert.Equal(t, "!!!IIIIII", string(Decode(encoded)))
	})

	t.Run("non-nucleotide text tags 0x21", func(t *testing.T) {
		t.Parallel()
		encoded := Encode([]byte("MKVLATRANSMEMBRANE"), Generic)
		assert.Equal(t, tagPlain, encoded[0])
		assert.Equal(t, "MKVLATRANSMEMBRANE", string(Decode(encoded)))
	})

	t.Run("unknown tag decodes nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Decode([]byte{0xFF, 1, 2, 3}))
	})

	t.Run("empty payload decodes nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Decode(nil))
	})
}
