package option

import (
	"io"

	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
)

// CopyProgressCallback reports the progress of a copy.
// Parameters:
// - track: The track being copied.
// - blocksWritten: The number of blocks written so far.
// - totalBlocks: The number of blocks the copy will write.
// - percent: blocksWritten as a share of totalBlocks.
type CopyProgressCallback func(
	track int,
	blocksWritten uint64,
	totalBlocks uint64,
	percent int,
)

// CellCallback is called before each cell of a copy is written, corrupt
// cells included.
type CellCallback func(track, chapter int, cell nav.Cell)

type OpenOptions struct {
	BlockLimit           int
	OutputPattern        string
	Stdout               io.Writer
	CopyProgressCallback CopyProgressCallback
	CellCallback         CellCallback
	Logger               *logging.Logger
}

type OpenOption func(*OpenOptions)

// WithCopyProgress sets a callback that is called whenever the completed
// percentage of a copy changes.
func WithCopyProgress(callback CopyProgressCallback) OpenOption {
	return func(o *OpenOptions) {
		o.CopyProgressCallback = callback
	}
}

func WithCellCallback(callback CellCallback) OpenOption {
	return func(o *OpenOptions) {
		o.CellCallback = callback
	}
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}

// WithBlockLimit sets the number of blocks moved per transfer when copying
// to a file. Streams always move one block at a time.
func WithBlockLimit(blocks int) OpenOption {
	return func(o *OpenOptions) {
		o.BlockLimit = blocks
	}
}

// WithOutputPattern sets the printf pattern used to name output files when
// no name is given. It receives the track number.
func WithOutputPattern(pattern string) OpenOption {
	return func(o *OpenOptions) {
		o.OutputPattern = pattern
	}
}

// WithStdout sets the writer used for streamed output.
func WithStdout(w io.Writer) OpenOption {
	return func(o *OpenOptions) {
		o.Stdout = w
	}
}
