// Package sink selects where extracted track data goes: a regular file,
// written in large transfers, or the process's standard output, written one
// block at a time.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

// StreamOutput is the output name that selects streaming to stdout.
const StreamOutput = "-"

// Mode is the output mode of a copy job.
type Mode int

const (
	ModeFile Mode = iota
	ModeStream
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeStream:
		return "stream"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Sink receives the raw sectors of a track.
type Sink interface {
	io.Writer
	io.Closer
	Mode() Mode
	// BlockLimit is the largest number of blocks moved per transfer.
	BlockLimit() int
	Name() string
}

// Options control Select.
type Options struct {
	// Output is a filename, "-" for stdout, or "" for the default name.
	Output string
	Track  int
	// Pattern formats the default filename from the track number.
	Pattern string
	// FileBlockLimit overrides the file mode transfer size when positive.
	FileBlockLimit int
	// Stdout receives stream mode output; os.Stdout when nil.
	Stdout io.Writer
}

// DefaultFilename is the output name used when none is given.
func DefaultFilename(pattern string, track int) string {
	if pattern == "" {
		pattern = consts.DVD_DEFAULT_OUTPUT_PATTERN
	}
	return fmt.Sprintf(pattern, track)
}

// Select decides the output mode once, up front, and opens the sink.
func Select(opts Options) (Sink, error) {
	if opts.Output == StreamOutput {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		return NewStream(w), nil
	}

	name := opts.Output
	if name == "" {
		name = DefaultFilename(opts.Pattern, opts.Track)
	}
	return OpenFile(name, opts.FileBlockLimit)
}

// FileSink writes to a regular file, truncating any previous contents.
type FileSink struct {
	file  *os.File
	name  string
	limit int
}

// OpenFile creates or truncates name. blockLimit <= 0 selects the default
// of 512 blocks per transfer.
func OpenFile(name string, blockLimit int) (*FileSink, error) {
	if blockLimit <= 0 {
		blockLimit = consts.DVD_COPY_BLOCK_LIMIT
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("couldn't create file %s: %w", name, err)
	}
	return &FileSink{file: f, name: name, limit: blockLimit}, nil
}

func (f *FileSink) Write(p []byte) (int, error) { return f.file.Write(p) }
func (f *FileSink) Mode() Mode                  { return ModeFile }
func (f *FileSink) BlockLimit() int             { return f.limit }
func (f *FileSink) Name() string                { return f.name }

func (f *FileSink) Close() error {
	if err := f.file.Sync(); err != nil {
		f.file.Close()
		return fmt.Errorf("failed to flush %s: %w", f.name, err)
	}
	return f.file.Close()
}

// StreamSink writes unbuffered to a stream such as stdout. Closing it does
// not close the stream.
type StreamSink struct {
	w io.Writer
}

func NewStream(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *StreamSink) Mode() Mode                  { return ModeStream }
func (s *StreamSink) BlockLimit() int             { return consts.DVD_CAT_BLOCK_LIMIT }
func (s *StreamSink) Name() string                { return "stdout" }
func (s *StreamSink) Close() error                { return nil }
