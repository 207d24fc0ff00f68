package codec

import "github.com/woosflex/traceon/internal/classify"

// Hint tells Encode which codec family a payload belongs to. Quality
// scores always go through RLE; everything else is routed by content
// (nucleotide vs. plain text).
type Hint uint8

const (
	Generic Hint = iota
	QualityScore
)

const (
	tagNucleotide byte = 0x01
	tagQuality    byte = 0x12
	tagPlain      byte = 0x21
)

// Encode is the single type-tagged entry point every payload the store
// and the snapshot writer handle goes through: the first output byte
// always identifies which codec produced the rest, a closed three-way
// switch rather than an interface hierarchy.
func Encode(data []byte, hint Hint) []byte {
	if hint == QualityScore {
		return append([]byte{tagQuality}, EncodeRLE(data)...)
	}
	if classify.IsNucleotide(data) {
		return append([]byte{tagNucleotide}, EncodeNucleotide(data)...)
	}
	return append([]byte{tagPlain}, data...)
}

// Decode strips the type tag and dispatches to the matching codec. An
// empty or unrecognized-tag payload decodes to nil.
func Decode(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	payload := data[1:]
	switch data[0] {
	case tagNucleotide:
		return DecodeNucleotide(payload)
	case tagQuality:
		return DecodeRLE(payload)
	case tagPlain:
		return append([]byte(nil), payload...)
	default:
		return nil
	}
}
