// Package traceon is an in-memory cache for FASTA/FASTQ sequence data:
// parallel ingest from disk, random-access lookup by record id, and a
// self-describing binary snapshot with two on-disk versions.
package traceon

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/woosflex/traceon/internal/classify"
	"github.com/woosflex/traceon/internal/codec"
	"github.com/woosflex/traceon/internal/fmtid"
	"github.com/woosflex/traceon/internal/ingest"
	"github.com/woosflex/traceon/internal/record"
	"github.com/woosflex/traceon/internal/snapshot"
	"github.com/woosflex/traceon/internal/store"
)

// Record is one decoded FASTA or FASTQ record.
type Record = record.Record

// FastqRecord is a decoded sequence/quality pair, as returned by
// GetFastq.
type FastqRecord = store.FastqRecord

// DetectedFormat summarizes the classifier's verdict on the first
// record stored in the cache.
type DetectedFormat = fmtid.DetectedFormat

// The six DetectedFormat values.
const (
	DNAFasta     = fmtid.DNAFasta
	RNAFasta     = fmtid.RNAFasta
	ProteinFasta = fmtid.ProteinFasta
	DNAFastq     = fmtid.DNAFastq
	RNAFastq     = fmtid.RNAFastq
	ProteinFastq = fmtid.ProteinFastq
)

// origin tracks how the cache was populated, which decides the
// snapshot version Save writes.
type origin uint8

const (
	originEmpty origin = iota
	originSet
	originIngest
)

// Cache is an in-memory store of FASTA/FASTQ records, populated once by
// Ingest (or incrementally by Set) and read many times through Get and
// GetFastq. It is safe for concurrent use; see internal/store for the
// locking discipline.
type Cache struct {
	store     *store.Store
	format    fmtid.DetectedFormat
	formatSet bool
	origin    origin

	lastSkipped      int
	lastDuplicateIDs []string
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{store: store.New()}
}

// IngestOptions configures Ingest. A nil IngestOptions uses all
// documented defaults.
type IngestOptions struct {
	// Workers overrides the chunk-worker count for parallel ingest; 0
	// uses runtime.NumCPU().
	Workers int
	// ForceSingleThreaded ingests as a single chunk regardless of file
	// size; gzip input and small files always do this anyway.
	ForceSingleThreaded bool
	// Logger receives a one-line ingest summary; nil stays silent.
	Logger *log.Logger
	// StrictDuplicates surfaces same-ingest duplicate ids via
	// DuplicateIDs instead of silently keeping only the last one.
	StrictDuplicates bool
	// Progress, if set, is called after each parallel chunk completes.
	// Never called in single-threaded mode.
	Progress func(done, total int)
}

// Ingest parses path (FASTA or FASTQ, optionally gzip-compressed) and
// replaces the cache's contents with what it finds. On error the cache
// is left empty.
func (c *Cache) Ingest(path string, opts *IngestOptions) error {
	if opts == nil {
		opts = &IngestOptions{}
	}

	res, err := ingest.File(path, &ingest.Options{
		Workers:          opts.Workers,
		ForceSingle:      opts.ForceSingleThreaded,
		Logger:           opts.Logger,
		StrictDuplicates: opts.StrictDuplicates,
		Progress:         opts.Progress,
	})
	if err != nil {
		c.store.Clear()
		c.formatSet = false
		c.origin = originEmpty
		return translateIngestErr(err)
	}

	fresh := store.New()
	var first *record.Record
	for i := range res.Records {
		r := &res.Records[i]
		if first == nil {
			first = r
		}
		if res.IsFastq {
			fresh.Insert(r.ID, store.Record{
				Kind:     store.KindFastq,
				SeqData:  codec.Encode(r.Sequence, codec.Generic),
				QualData: codec.Encode(r.Quality, codec.QualityScore),
			})
		} else {
			fresh.Insert(r.ID, store.Record{
				Kind:  store.KindFasta,
				Fasta: codec.Encode(r.Sequence, codec.Generic),
			})
		}
	}

	c.store = fresh
	c.origin = originIngest
	c.lastSkipped = res.Skipped
	c.lastDuplicateIDs = res.DuplicateIDs

	c.formatSet = false
	if first != nil {
		isRNA := classify.HasRNA(first.Sequence)
		isNuc := classify.IsNucleotide(first.Sequence)
		c.format = fmtid.Classify(isRNA, isNuc, res.IsFastq)
		c.formatSet = true
	}
	return nil
}

// Set stores value under key directly, bypassing Ingest. Any Set marks
// the cache as Set-driven for Save's version choice, including a Set
// after Ingest; the next Ingest or Restore replaces that marking.
func (c *Cache) Set(key, value string) {
	c.store.Set(key, value)
	c.origin = originSet
}

// Get returns the decoded sequence for key and whether it was found.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.store.Get(key)
}

// GetString is a convenience wrapper around Get returning a string;
// it returns "" when key is absent. Prefer Get when "found" needs to be
// distinguished from "empty sequence".
func (c *Cache) GetString(key string) string {
	v, _ := c.Get(key)
	return string(v)
}

// GetFastq returns the decoded sequence/quality pair for key. ok is
// false if key is absent or holds a FASTA record.
func (c *Cache) GetFastq(key string) (FastqRecord, bool) {
	return c.store.GetFastq(key)
}

// Size returns the number of records currently stored.
func (c *Cache) Size() int { return c.store.Size() }

// StoredSize returns the number of encoded bytes key occupies, 0 if
// key is absent.
func (c *Cache) StoredSize(key string) int { return c.store.StoredSize(key) }

// Format reports the DetectedFormat set by the most recent Ingest or v2
// Restore, and whether one has been determined yet. It is never set by
// Set.
func (c *Cache) Format() (DetectedFormat, bool) { return c.format, c.formatSet }

// SkippedRecords returns how many malformed records the most recent
// Ingest dropped.
func (c *Cache) SkippedRecords() int { return c.lastSkipped }

// DuplicateIDs returns the ids that appeared more than once in the most
// recent Ingest, if IngestOptions.StrictDuplicates was set; nil
// otherwise.
func (c *Cache) DuplicateIDs() []string { return c.lastDuplicateIDs }

// Save writes a snapshot of the cache to path: the v1 "TRAC" format if
// any record reached the cache through Set, v2 "SMRT" if the cache was
// populated purely by Ingest.
func (c *Cache) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrOpenFailed, path, err)
	}
	defer f.Close()

	if c.origin == originSet {
		return snapshot.WriteV1(f, c.store)
	}
	return snapshot.WriteV2(f, c.store, c.format)
}

// Restore replaces the cache's contents with the snapshot read from
// path, auto-detecting v1 vs. v2 from the first 4 bytes. On error the
// cache is left empty.
func (c *Cache) Restore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		c.store = store.New()
		c.formatSet = false
		c.origin = originEmpty
		return fmt.Errorf("%w: opening %s: %v", ErrOpenFailed, path, err)
	}
	defer f.Close()

	s, format, hasFormat, err := snapshot.Restore(f)
	if err != nil {
		c.store = store.New()
		c.formatSet = false
		c.origin = originEmpty
		return translateSnapshotErr(err)
	}

	c.store = s
	if hasFormat {
		c.format = format
		c.formatSet = true
		c.origin = originIngest
	} else {
		c.formatSet = false
		c.origin = originSet
	}
	return nil
}

func translateIngestErr(err error) error {
	switch {
	case errors.Is(err, ingest.ErrOpenFailed):
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	case errors.Is(err, ingest.ErrEmptyInput):
		return fmt.Errorf("%w: %v", ErrEmptyInput, err)
	case errors.Is(err, ingest.ErrUnknownFormat):
		return fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	default:
		return err
	}
}

func translateSnapshotErr(err error) error {
	switch {
	case errors.Is(err, snapshot.ErrCorrupt):
		return fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	case errors.Is(err, snapshot.ErrVersion):
		return fmt.Errorf("%w: %v", ErrSnapshotVersion, err)
	case errors.Is(err, snapshot.ErrMagic):
		return fmt.Errorf("%w: %v", ErrSnapshotMagic, err)
	default:
		return err
	}
}
