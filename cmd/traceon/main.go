// traceon is a small example program built on the TracEon cache: ingest
// a FASTA/FASTQ file once, then either print one record or save a
// binary snapshot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/woosflex/traceon"
)

const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return exitError
	}

	sub := args[0]
	fs := flag.NewFlagSet(sub, flag.ContinueOnError)
	workers := fs.Int("w", 0, "ingest worker count (default: hardware parallelism)")
	quiet := fs.Bool("quiet", false, "suppress the progress bar")
	fs.Usage = usage

	if err := fs.Parse(args[1:]); err != nil {
		return exitError
	}
	rest := fs.Args()

	switch sub {
	case "get":
		return runGet(rest, *workers, *quiet)
	case "snapshot":
		return runSnapshot(rest, *workers, *quiet)
	default:
		usage()
		return exitError
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `traceon - sequence cache example

Usage:
  traceon get <file> <id>          ingest file, print the record for id
  traceon snapshot <file> <out>    ingest file, write a binary snapshot to out

Options:
  -w int      ingest worker count (default: hardware parallelism)
  -quiet      suppress the progress bar
`)
}

func runGet(args []string, workers int, quiet bool) int {
	if len(args) != 2 {
		usage()
		return exitError
	}
	path, id := args[0], args[1]

	cache := traceon.New()
	if err := ingestWithProgress(cache, path, workers, quiet); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	if rec, ok := cache.GetFastq(id); ok {
		fmt.Printf("%s\nsequence: %s\nquality:  %s\n", id, rec.Sequence, rec.Quality)
		return exitSuccess
	}
	if seq, ok := cache.Get(id); ok {
		fmt.Printf("%s\nsequence: %s\n", id, seq)
		return exitSuccess
	}
	fmt.Fprintf(os.Stderr, "not found: %s\n", id)
	return exitError
}

func runSnapshot(args []string, workers int, quiet bool) int {
	if len(args) != 2 {
		usage()
		return exitError
	}
	path, out := args[0], args[1]

	cache := traceon.New()
	if err := ingestWithProgress(cache, path, workers, quiet); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	if err := cache.Save(out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	fmt.Printf("saved %d records to %s\n", cache.Size(), out)
	return exitSuccess
}

func ingestWithProgress(cache *traceon.Cache, path string, workers int, quiet bool) error {
	opts := &traceon.IngestOptions{
		Workers: workers,
		Logger:  log.New(os.Stderr, "", 0),
	}

	if !quiet {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("ingesting "+path),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(done, total int) {
			_ = bar.Add(1)
		}
		defer bar.Finish()
	}

	return cache.Ingest(path, opts)
}
