// Package snapshot implements TracEon's two binary snapshot formats: v1
// "TRAC" (store-driven, keeps each record's already type-tagged encoded
// payload verbatim) and v2 "SMRT" (ingest-driven, plain uncompressed
// sequence/quality bytes). The first 4 bytes of a snapshot file are its
// magic and dispatch which reader applies.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/woosflex/traceon/internal/codec"
	"github.com/woosflex/traceon/internal/fmtid"
	"github.com/woosflex/traceon/internal/store"
)

var (
	ErrCorrupt = errors.New("snapshot: truncated or malformed")
	ErrVersion = errors.New("snapshot: unsupported version")
	ErrMagic   = errors.New("snapshot: unrecognized magic")
)

var (
	magicTRAC = [4]byte{'T', 'R', 'A', 'C'}
	magicSMRT = [4]byte{'S', 'M', 'R', 'T'}
)

// v1Version is the single version byte WriteV1 emits and ReadV1 accepts.
const v1Version = 2

const (
	recTypeFasta byte = 0
	recTypeFastq byte = 1
)

// WriteV1 serializes every record in s as a "TRAC" snapshot: a
// store-driven format where each record's already type-tagged encoded
// payload is written verbatim, with a 4-byte little-endian length
// prefix ahead of every byte string.
func WriteV1(w io.Writer, s *store.Store) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := bw.Write(magicTRAC[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(v1Version); err != nil {
		return err
	}
	if err := writeUint64(bw, uint64(s.Size())); err != nil {
		return err
	}

	var writeErr error
	s.Range(func(key string, rec store.Record) {
		if writeErr != nil {
			return
		}
		writeErr = writeV1Record(bw, key, rec)
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}

func writeV1Record(w *bufio.Writer, key string, rec store.Record) error {
	if err := writeLenPrefixed(w, []byte(key)); err != nil {
		return err
	}
	switch rec.Kind {
	case store.KindFasta:
		if err := w.WriteByte(recTypeFasta); err != nil {
			return err
		}
		return writeLenPrefixed(w, rec.Fasta)
	default:
		if err := w.WriteByte(recTypeFastq); err != nil {
			return err
		}
		if err := writeLenPrefixed(w, rec.SeqData); err != nil {
			return err
		}
		return writeLenPrefixed(w, rec.QualData)
	}
}

// ReadV1 reads a "TRAC" snapshot body (magic already consumed) into a
// fresh Store.
func ReadV1(r io.Reader) (*store.Store, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading version: %v", ErrCorrupt, err)
	}
	if version != v1Version {
		return nil, fmt.Errorf("%w: got version %d", ErrVersion, version)
	}
	count, err := readUint64(br)
	if err != nil {
		return nil, fmt.Errorf("%w: reading record count: %v", ErrCorrupt, err)
	}

	s := store.New()
	for i := uint64(0); i < count; i++ {
		key, err := readLenPrefixedString(br)
		if err != nil {
			return nil, fmt.Errorf("%w: reading key %d: %v", ErrCorrupt, i, err)
		}
		recType, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: reading record type for %q: %v", ErrCorrupt, key, err)
		}
		switch recType {
		case recTypeFasta:
			data, err := readLenPrefixed(br)
			if err != nil {
				return nil, fmt.Errorf("%w: reading FASTA payload for %q: %v", ErrCorrupt, key, err)
			}
			s.Insert(key, store.Record{Kind: store.KindFasta, Fasta: data})
		case recTypeFastq:
			seq, err := readLenPrefixed(br)
			if err != nil {
				return nil, fmt.Errorf("%w: reading FASTQ sequence for %q: %v", ErrCorrupt, key, err)
			}
			qual, err := readLenPrefixed(br)
			if err != nil {
				return nil, fmt.Errorf("%w: reading FASTQ quality for %q: %v", ErrCorrupt, key, err)
			}
			s.Insert(key, store.Record{Kind: store.KindFastq, SeqData: seq, QualData: qual})
		default:
			return nil, fmt.Errorf("%w: unknown record type %d for %q", ErrCorrupt, recType, key)
		}
	}
	return s, nil
}

// WriteV2 serializes s as a "SMRT" snapshot: plain, uncompressed
// sequence/quality bytes, paired with the cache's detected format byte.
// This format trades space for ingest-side simplicity; it's the one
// File-backed Ingest produces.
func WriteV2(w io.Writer, s *store.Store, format fmtid.DetectedFormat) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := bw.Write(magicSMRT[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(format)); err != nil {
		return err
	}
	if err := writeUint64(bw, uint64(s.Size())); err != nil {
		return err
	}

	var writeErr error
	s.Range(func(key string, rec store.Record) {
		if writeErr != nil {
			return
		}
		writeErr = writeV2Record(bw, key, rec)
	})
	if writeErr != nil {
		return writeErr
	}
	return bw.Flush()
}

func writeV2Record(w *bufio.Writer, key string, rec store.Record) error {
	if err := writeLenPrefixed(w, []byte(key)); err != nil {
		return err
	}
	seq, qual := decodedPayloads(rec)
	if err := writeLenPrefixed(w, seq); err != nil {
		return err
	}
	return writeLenPrefixed(w, qual)
}

func decodedPayloads(rec store.Record) (seq, qual []byte) {
	if rec.Kind == store.KindFasta {
		return codec.Decode(rec.Fasta), nil
	}
	return codec.Decode(rec.SeqData), codec.Decode(rec.QualData)
}

// ReadV2 reads a "SMRT" snapshot body (magic already consumed) into a
// fresh Store, re-encoding each plain payload through the type-tagged
// codec on the way in.
func ReadV2(r io.Reader) (*store.Store, fmtid.DetectedFormat, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	fb, err := br.ReadByte()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading format byte: %v", ErrCorrupt, err)
	}
	if fb > byte(fmtid.Max) {
		return nil, 0, fmt.Errorf("%w: format byte %d out of range", ErrCorrupt, fb)
	}
	format := fmtid.DetectedFormat(fb)

	count, err := readUint64(br)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading record count: %v", ErrCorrupt, err)
	}

	isFastq := format.IsFastq()
	s := store.New()
	for i := uint64(0); i < count; i++ {
		key, err := readLenPrefixedString(br)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: reading key %d: %v", ErrCorrupt, i, err)
		}
		seq, err := readLenPrefixed(br)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: reading sequence for %q: %v", ErrCorrupt, key, err)
		}
		qual, err := readLenPrefixed(br)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: reading quality for %q: %v", ErrCorrupt, key, err)
		}
		if isFastq {
			s.Insert(key, store.Record{
				Kind:     store.KindFastq,
				SeqData:  codec.Encode(seq, codec.Generic),
				QualData: codec.Encode(qual, codec.QualityScore),
			})
		} else {
			s.Insert(key, store.Record{Kind: store.KindFasta, Fasta: codec.Encode(seq, codec.Generic)})
		}
	}
	return s, format, nil
}

// Restore reads a snapshot's 4-byte magic and dispatches to ReadV1 or
// ReadV2. hasFormat reports whether the snapshot carried a
// DetectedFormat (true for v2, false for v1, which has none).
func Restore(r io.Reader) (s *store.Store, format fmtid.DetectedFormat, hasFormat bool, err error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, 0, false, fmt.Errorf("%w: reading magic: %v", ErrCorrupt, err)
	}
	switch magic {
	case magicTRAC:
		s, err := ReadV1(r)
		return s, 0, false, err
	case magicSMRT:
		s, format, err := ReadV2(r)
		return s, format, true, err
	default:
		return nil, 0, false, fmt.Errorf("%w: got %q", ErrMagic, magic[:])
	}
}

func writeLenPrefixed(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readLenPrefixedString(r io.Reader) (string, error) {
	b, err := readLenPrefixed(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
