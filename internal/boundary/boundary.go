// Package boundary finds record-aligned split points in a FASTA or
// FASTQ file so the parallel ingest path can hand each worker a
// [start,end) byte range that starts exactly on a record boundary.
//
// The naive FASTQ test — "a newline followed by '@'" — is ambiguous:
// Phred quality strings can themselves start with '@'. FindFastq
// disambiguates with a 3-line lookahead, grounded on (and correcting)
// the original cache's find_next_record_start search.
package boundary

import (
	"bytes"
	"io"
	"os"
)

const initialWindow = 1 << 16 // 64 KiB

// FindFasta returns the offset of the next FASTA record start
// ('>' immediately following a newline, or position 0) at or after
// pos, or fileSize if none is found before the end of the file. A
// record starting exactly at pos > 0 is not detected, because the
// newline before it lies outside the scanned window; the following
// record start is returned instead.
func FindFasta(f *os.File, pos, fileSize int64) (int64, error) {
	return scan(f, pos, fileSize, initialWindow, findFastaIn)
}

// FindFastq returns the offset of the next FASTQ record start at or
// after pos, validated by a 3-line lookahead, or fileSize if none is
// found before the end of the file. As with FindFasta, a record
// starting exactly at pos > 0 is not detected.
func FindFastq(f *os.File, pos, fileSize int64) (int64, error) {
	return scan(f, pos, fileSize, initialWindow, findFastqIn)
}

// scan reads successively larger windows starting at pos until find
// locates a candidate or the window reaches fileSize. Doubling the
// window on a miss is rare in practice: real inputs have a record start
// within a few hundred bytes of any approximate cut point.
func scan(f *os.File, pos, fileSize, window int64, find func([]byte, bool) (int, bool)) (int64, error) {
	if pos >= fileSize {
		return fileSize, nil
	}
	atStart := pos == 0
	for {
		n := window
		if pos+n > fileSize {
			n = fileSize - pos
		}
		buf := make([]byte, n)
		if _, err := f.ReadAt(buf, pos); err != nil && err != io.EOF {
			return 0, err
		}
		if off, ok := find(buf, atStart); ok {
			return pos + int64(off), nil
		}
		if pos+n >= fileSize {
			return fileSize, nil
		}
		window *= 2
	}
}

func findFastaIn(buf []byte, atStart bool) (int, bool) {
	if atStart && len(buf) > 0 && buf[0] == '>' {
		return 0, true
	}
	for i := 1; i < len(buf); i++ {
		if buf[i] == '>' && buf[i-1] == '\n' {
			return i, true
		}
	}
	return 0, false
}

func findFastqIn(buf []byte, atStart bool) (int, bool) {
	for _, c := range atLineStarts(buf, atStart) {
		if validFastqAt(buf, c) {
			return c, true
		}
	}
	return 0, false
}

// atLineStarts returns offsets within buf where a line begins with '@':
// buf[0] (only when the window starts at the very beginning of the
// file) or any index right after a '\n'.
func atLineStarts(buf []byte, atStart bool) []int {
	var out []int
	if atStart && len(buf) > 0 && buf[0] == '@' {
		out = append(out, 0)
	}
	for i := 1; i < len(buf); i++ {
		if buf[i] == '@' && buf[i-1] == '\n' {
			out = append(out, i)
		}
	}
	return out
}

// validFastqAt reports whether the four lines starting at offset i in
// buf look like a FASTQ record: a '+'-prefixed third line and a fourth
// line whose length matches the second line's.
func validFastqAt(buf []byte, i int) bool {
	lines := linesFrom(buf, i, 4)
	if len(lines) < 4 {
		return false
	}
	header, seq, plus, qual := lines[0], lines[1], lines[2], lines[3]
	return len(header) > 0 && header[0] == '@' &&
		len(plus) > 0 && plus[0] == '+' &&
		len(seq) == len(qual)
}

// linesFrom returns up to n lines starting at offset start in buf,
// stripping a trailing '\r'. Fewer than n lines are returned if buf
// runs out before the nth line's terminating '\n' is found.
func linesFrom(buf []byte, start, n int) [][]byte {
	var lines [][]byte
	pos := start
	for len(lines) < n && pos <= len(buf) {
		nl := bytes.IndexByte(buf[pos:], '\n')
		if nl < 0 {
			break
		}
		lines = append(lines, trimCR(buf[pos:pos+nl]))
		pos += nl + 1
	}
	return lines
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
