// Package seqparse parses FASTA and FASTQ byte chunks into records. Each
// parser assumes its input begins exactly at a record boundary; finding
// that boundary inside a larger file is internal/boundary's job.
package seqparse

import (
	"bytes"

	"github.com/woosflex/traceon/internal/record"
)

// ParseFasta parses chunk, which must start at a '>' header (or be
// empty), into zero or more records. Sequence lines are concatenated
// verbatim across wraps; inner whitespace on a sequence line is not
// stripped, matching the original cache's behavior.
func ParseFasta(chunk []byte) []record.Record {
	var records []record.Record
	var id string
	var seq []byte
	haveID := false

	flush := func() {
		if haveID {
			records = append(records, record.Record{ID: id, Sequence: seq})
		}
	}

	for _, line := range splitLines(chunk) {
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			id = headerID(line[1:])
			seq = nil
			haveID = true
			continue
		}
		seq = append(seq, line...)
	}
	flush()
	return records
}

// ParseFastq parses chunk, which must start at an '@' header (or be
// empty), into strict groups of four lines. A group whose header line
// doesn't start with '@', whose third line doesn't start with '+', or
// whose sequence/quality lengths disagree is skipped and counted;
// scanning resumes at the next group of four lines so one malformed
// record never aborts the rest of the chunk.
func ParseFastq(chunk []byte) (records []record.Record, skipped int) {
	lines := splitLines(chunk)
	for i := 0; i+3 < len(lines); i += 4 {
		header, seq, plus, qual := lines[i], lines[i+1], lines[i+2], lines[i+3]
		if len(header) == 0 || header[0] != '@' ||
			len(plus) == 0 || plus[0] != '+' ||
			len(seq) != len(qual) {
			skipped++
			continue
		}
		records = append(records, record.Record{
			ID:       headerID(header[1:]),
			Sequence: append([]byte(nil), seq...),
			Quality:  append([]byte(nil), qual...),
		})
	}
	return records, skipped
}

// headerID extracts a record id: bytes up to the first space or tab, or
// the whole remainder if there is none.
func headerID(rest []byte) string {
	if i := bytes.IndexAny(rest, " \t"); i >= 0 {
		rest = rest[:i]
	}
	return string(rest)
}

// splitLines splits chunk on '\n', stripping a trailing '\r' from each
// line.
func splitLines(chunk []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range chunk {
		if b == '\n' {
			lines = append(lines, trimCR(chunk[start:i]))
			start = i + 1
		}
	}
	if start < len(chunk) {
		lines = append(lines, trimCR(chunk[start:]))
	}
	return lines
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
