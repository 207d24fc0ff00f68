// Package ingest implements the parser orchestrator: detect FASTA vs.
// FASTQ from the first line, pick single-threaded or parallel ingest
// based on size and compression, and return every decoded record found.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/woosflex/traceon/internal/boundary"
	"github.com/woosflex/traceon/internal/lineio"
	"github.com/woosflex/traceon/internal/record"
	"github.com/woosflex/traceon/internal/seqparse"
)

// Sentinel errors this package can return; the root traceon package
// wraps these under its own exported names.
var (
	ErrOpenFailed    = errors.New("ingest: cannot open input")
	ErrEmptyInput    = errors.New("ingest: empty or unreadable first line")
	ErrUnknownFormat = errors.New("ingest: first line is neither FASTA nor FASTQ")
)

// parallelThreshold is the decision floor: uncompressed files at or
// above this size ingest in parallel; smaller files, and all gzip
// input, ingest single-threaded.
const parallelThreshold = 1 << 20 // 1 MiB

// Options configures a File call. A nil Options uses all documented
// defaults: worker count = runtime.NumCPU(), no logging, no forced mode.
type Options struct {
	Workers          int             // 0 => runtime.NumCPU()
	ForceSingle      bool            // force single-threaded ingest regardless of size
	Logger           *log.Logger     // nil => silent
	StrictDuplicates bool            // surface intra-ingest duplicate ids instead of silently overwriting
	Progress         func(done, total int) // called after each chunk completes in parallel mode
}

// Result is everything File reports back: the decoded records plus
// bookkeeping the caller can log or act on.
type Result struct {
	Records      []record.Record
	IsFastq      bool
	Skipped      int      // malformed records a chunk parser dropped
	DuplicateIDs []string // only populated when StrictDuplicates is set
}

// File ingests path: detects FASTA vs. FASTQ from the first line (an
// empty first line is ErrEmptyInput), picks single-threaded or parallel mode, and returns every
// decoded record found. On error no partial Result is returned.
func File(path string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	lr, err := lineio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	firstLine, ok := lr.NextLine()
	if !ok || len(firstLine) == 0 {
		_ = lr.Close()
		return nil, ErrEmptyInput
	}

	var isFastq bool
	switch firstLine[0] {
	case '@':
		isFastq = true
	case '>':
		isFastq = false
	default:
		_ = lr.Close()
		return nil, ErrUnknownFormat
	}

	isGzip := strings.HasSuffix(strings.ToLower(path), ".gz")
	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	}

	single := opts.ForceSingle || isGzip || size < parallelThreshold

	var records []record.Record
	var skipped int

	if single {
		records, skipped, err = ingestSingleThreaded(lr, firstLine, isFastq)
		_ = lr.Close()
	} else {
		_ = lr.Close()
		records, skipped, err = ingestParallel(path, size, isFastq, workers, opts.Progress)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Records: records, IsFastq: isFastq, Skipped: skipped}
	dedupe(result, opts.StrictDuplicates)

	if opts.Logger != nil {
		opts.Logger.Printf("ingest: %s, %d records, %d skipped, %d duplicate ids, path=%s",
			formatLabel(isFastq), len(result.Records), result.Skipped, len(result.DuplicateIDs), path)
	}
	return result, nil
}

func formatLabel(isFastq bool) string {
	if isFastq {
		return "FASTQ"
	}
	return "FASTA"
}

// ingestSingleThreaded treats the whole input as one chunk: the size
// threshold that would otherwise trigger parallel ingest doesn't apply
// to gzip input, since compressed streams can't be split into
// independently seekable byte ranges.
func ingestSingleThreaded(lr lineio.Reader, firstLine []byte, isFastq bool) ([]record.Record, int, error) {
	var buf bytes.Buffer
	buf.Write(firstLine)
	buf.WriteByte('\n')
	for {
		line, ok := lr.NextLine()
		if !ok {
			break
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if isFastq {
		recs, skipped := seqparse.ParseFastq(buf.Bytes())
		return recs, skipped, nil
	}
	return seqparse.ParseFasta(buf.Bytes()), 0, nil
}

// ingestParallel splits the file into `workers` record-aligned chunks
// and parses each on its own goroutine.
func ingestParallel(path string, size int64, isFastq bool, workers int, progress func(done, total int)) ([]record.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	defer f.Close()

	bounds, err := computeBoundaries(f, size, workers, isFastq)
	if err != nil {
		return nil, 0, err
	}

	type chunkResult struct {
		records []record.Record
		skipped int
	}
	results := make([]chunkResult, len(bounds)-1)
	total := len(bounds) - 1
	var done int32

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < total; i++ {
		i := i
		start, end := bounds[i], bounds[i+1]
		if start >= end {
			continue
		}
		g.Go(func() error {
			wf, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrOpenFailed, err)
			}
			defer wf.Close()

			buf := make([]byte, end-start)
			if _, err := wf.ReadAt(buf, start); err != nil && err != io.EOF {
				return fmt.Errorf("ingest: reading chunk [%d,%d): %w", start, end, err)
			}

			if isFastq {
				recs, skipped := seqparse.ParseFastq(buf)
				results[i] = chunkResult{records: recs, skipped: skipped}
			} else {
				results[i] = chunkResult{records: seqparse.ParseFasta(buf)}
			}
			if progress != nil {
				progress(int(atomic.AddInt32(&done, 1)), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var all []record.Record
	var skipped int
	for _, r := range results {
		all = append(all, r.records...)
		skipped += r.skipped
	}
	return all, skipped, nil
}

// computeBoundaries picks workers+1 offsets delimiting `workers`
// record-aligned ranges spanning [0,size).
func computeBoundaries(f *os.File, size int64, workers int, isFastq bool) ([]int64, error) {
	chunkSize := size / int64(workers)
	bounds := make([]int64, workers+1)
	bounds[0] = 0
	bounds[workers] = size
	for i := 1; i < workers; i++ {
		approx := int64(i) * chunkSize
		var off int64
		var err error
		if isFastq {
			off, err = boundary.FindFastq(f, approx, size)
		} else {
			off, err = boundary.FindFasta(f, approx, size)
		}
		if err != nil {
			return nil, err
		}
		bounds[i] = off
	}
	// Boundaries must be non-decreasing; a short file or more workers
	// than distinguishable record starts can otherwise produce
	// inversions, which collapse here into empty ranges.
	for i := 1; i <= workers; i++ {
		if bounds[i] < bounds[i-1] {
			bounds[i] = bounds[i-1]
		}
	}
	return bounds, nil
}

// dedupe keeps only the last occurrence of each record id, in file
// order, mirroring the store's own last-writer-wins semantics for Set.
// When strict is true, every id that appeared more than once is also
// reported in res.DuplicateIDs.
func dedupe(res *Result, strict bool) {
	order := make([]string, 0, len(res.Records))
	last := make(map[string]record.Record, len(res.Records))
	var duplicates []string
	for _, r := range res.Records {
		if _, seen := last[r.ID]; seen {
			duplicates = append(duplicates, r.ID)
		} else {
			order = append(order, r.ID)
		}
		last[r.ID] = r
	}
	deduped := make([]record.Record, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, last[id])
	}
	res.Records = deduped
	if strict {
		res.DuplicateIDs = duplicates
	}
}
