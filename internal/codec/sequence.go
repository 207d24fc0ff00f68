// Package codec implements TracEon's three record codecs and the
// type-tagged dispatch that picks among them, grounded on the original
// cache's 2-bit nucleotide packer, RLE quality packer, and plain-text
// fallback.
package codec

import "encoding/binary"

// baseBits maps a nucleotide letter to its 2-bit code: A=00, C=01, G=10,
// T/U=11. Anything else, including N, packs as 00 and is restored from
// the N-position side table on decode.
var baseBits [256]byte

func init() {
	baseBits['A'], baseBits['a'] = 0b00, 0b00
	baseBits['C'], baseBits['c'] = 0b01, 0b01
	baseBits['G'], baseBits['g'] = 0b10, 0b10
	baseBits['T'], baseBits['t'] = 0b11, 0b11
	baseBits['U'], baseBits['u'] = 0b11, 0b11
}

var bitsToBase = [4]byte{'A', 'C', 'G', 'T'}

// EncodeNucleotide packs seq as: a 4-byte big-endian length, a 4-byte
// big-endian N count, the 2-bit packed bases (4 per byte, MSB first),
// then the N positions as little-endian uint32s. U decodes back as T —
// this codec does not preserve RNA-ness, and since the classifier counts
// U as a nucleotide, Encode sends RNA sequences through it too.
func EncodeNucleotide(seq []byte) []byte {
	l := len(seq)
	packedLen := (l + 3) / 4

	var nPos []uint32
	for i, b := range seq {
		if b == 'N' || b == 'n' {
			nPos = append(nPos, uint32(i))
		}
	}

	out := make([]byte, 8+packedLen+4*len(nPos))
	binary.BigEndian.PutUint32(out[0:4], uint32(l))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(nPos)))

	packed := out[8 : 8+packedLen]
	for i, b := range seq {
		packed[i/4] |= baseBits[b] << ((3 - uint(i%4)) * 2)
	}

	posTable := out[8+packedLen:]
	for i, pos := range nPos {
		binary.LittleEndian.PutUint32(posTable[i*4:i*4+4], pos)
	}
	return out
}

// DecodeNucleotide reverses EncodeNucleotide. All output bases are
// uppercase; original case is not preserved. A payload shorter than the
// 8-byte header decodes to nil.
func DecodeNucleotide(data []byte) []byte {
	if len(data) < 8 {
		return nil
	}
	l := binary.BigEndian.Uint32(data[0:4])
	nCount := binary.BigEndian.Uint32(data[4:8])
	packedLen := (int(l) + 3) / 4
	if 8+packedLen > len(data) {
		return nil
	}

	out := make([]byte, l)
	packed := data[8 : 8+packedLen]
	for i := range out {
		bits := (packed[i/4] >> ((3 - uint(i%4)) * 2)) & 0b11
		out[i] = bitsToBase[bits]
	}

	posTable := data[8+packedLen:]
	for i := uint32(0); i < nCount && int(i*4+4) <= len(posTable); i++ {
		pos := binary.LittleEndian.Uint32(posTable[i*4 : i*4+4])
		if int(pos) < len(out) {
			out[pos] = 'N'
		}
	}
	return out
}
