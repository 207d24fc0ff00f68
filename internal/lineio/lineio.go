// Package lineio provides the line-oriented input abstraction the
// single-threaded ingest path reads through: a single-use, forward-only
// line source that transparently decompresses gzip-suffixed paths.
package lineio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// Reader is the minimal line source the single-threaded ingest path and
// the format-sniffing first line read through. It is single-use and not
// seekable — gzip input genuinely can't be randomly accessed, and the
// chunk-oriented parallel path never uses Reader at all, it opens its
// own positional *os.File.
type Reader interface {
	NextLine() ([]byte, bool)
	IsOpen() bool
	Close() error
}

type fileReader struct {
	f       *os.File
	gz      io.ReadCloser
	scanner *bufio.Scanner
	open    bool
}

// Open opens path for line-oriented reading. A ".gz" suffix requests
// gzip decompression via pgzip, which parallelizes only the DEFLATE
// decode internally — lines still arrive to the caller one at a time,
// in file order, so the single-threaded ingest path this feeds is
// unaffected by pgzip's internal concurrency.
func Open(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lineio: opening %s: %w", path, err)
	}

	r := &fileReader{f: f, open: true}
	var src io.Reader = f

	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("lineio: opening gzip stream %s: %w", path, err)
		}
		r.gz = gz
		src = gz
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 1<<16), 1<<24)
	r.scanner = scanner
	return r, nil
}

// NextLine returns the next line, with any trailing "\r" stripped, and
// false once the source is exhausted or closed.
func (r *fileReader) NextLine() ([]byte, bool) {
	if !r.open || !r.scanner.Scan() {
		return nil, false
	}
	return r.scanner.Bytes(), true
}

func (r *fileReader) IsOpen() bool { return r.open }

func (r *fileReader) Close() error {
	if !r.open {
		return nil
	}
	r.open = false
	if r.gz != nil {
		_ = r.gz.Close()
	}
	return r.f.Close()
}
