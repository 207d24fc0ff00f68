package traceon

import "errors"

// Sentinel errors returned by Cache methods. Errors from lower layers
// are wrapped behind these with fmt.Errorf's %w, so callers match them
// with errors.Is; the underlying failure is kept only as message text
// and cannot itself be matched with errors.Is.
var (
	ErrOpenFailed      = errors.New("traceon: cannot open input")
	ErrEmptyInput      = errors.New("traceon: empty or unreadable first line")
	ErrUnknownFormat   = errors.New("traceon: first line is neither FASTA nor FASTQ")
	ErrSnapshotCorrupt = errors.New("traceon: snapshot truncated or malformed")
	ErrSnapshotVersion = errors.New("traceon: unsupported snapshot version")
	ErrSnapshotMagic   = errors.New("traceon: unrecognized snapshot magic")
)
