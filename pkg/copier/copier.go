// Package copier moves the sectors of a planned chapter range from a disc
// to a sink, one cell at a time, in transfers no larger than the sink
// allows.
package copier

import (
	"context"
	"fmt"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/bgrewell/dvd-kit/pkg/planner"
	"github.com/bgrewell/dvd-kit/pkg/sink"
)

// BlockReader reads whole 2048 byte blocks from a title set's VOBs.
// source.VOBReader satisfies it.
type BlockReader interface {
	ReadBlocks(sector uint32, count int, buf []byte) (int, error)
}

// Job is a single copy of a chapter range of one track.
type Job struct {
	Track         int           `json:"track"`
	Chapters      planner.Range `json:"chapters"`
	Plan          planner.Plan  `json:"plan"`
	Filename      string        `json:"filename"`
	Mode          sink.Mode     `json:"mode"`
	BlocksWritten uint64        `json:"blocks_written"`
}

// Percent is the share of the planned blocks written so far. An empty plan
// is complete from the start.
func (j *Job) Percent() int {
	if j.Plan.Blocks == 0 {
		return 100
	}
	return int(j.BlocksWritten * 100 / j.Plan.Blocks)
}

// ProgressFunc is called whenever the completed percentage of a job changes.
type ProgressFunc func(job *Job, percent int)

// CellFunc is called before the blocks of a cell are copied.
type CellFunc func(job *Job, chapter int, cell nav.Cell)

// Config holds the optional hooks of a Copier.
type Config struct {
	Logger   *logging.Logger
	Progress ProgressFunc
	OnCell   CellFunc
}

type Copier struct {
	logger   *logging.Logger
	progress ProgressFunc
	onCell   CellFunc
}

func New(cfg Config) *Copier {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Copier{
		logger:   logger.WithName("copier"),
		progress: cfg.Progress,
		onCell:   cfg.OnCell,
	}
}

// Copy writes the cells of job's chapter range from disc to out and returns
// the number of bytes written. Corrupt cells are skipped. The first short
// read or short write ends the copy. The sink is left open.
func (c *Copier) Copy(ctx context.Context, job *Job, disc BlockReader, r nav.Resolver, out sink.Sink) (int64, error) {
	limit := out.BlockLimit()
	if limit < 1 {
		limit = 1
	}
	buf := make([]byte, limit*consts.DVD_VIDEO_LB_LEN)
	job.Mode = out.Mode()
	job.BlocksWritten = 0

	c.logger.Debug("Starting copy", "track", job.Track, "chapters", job.Chapters.String(),
		"mode", job.Mode.String(), "block_limit", limit, "blocks", job.Plan.Blocks)

	var written int64
	lastPercent := -1
	report := func() {
		if p := job.Percent(); p != lastPercent {
			lastPercent = p
			if c.progress != nil {
				c.progress(job, p)
			}
		}
	}

	for chapter := job.Chapters.First; chapter <= job.Chapters.Last; chapter++ {
		first := r.ChapterFirstCell(job.Track, chapter)
		last := r.ChapterLastCell(job.Track, chapter)

		for cell := first; cell >= 1 && cell <= last; cell++ {
			info := nav.CellInfo(r, job.Track, cell)
			if c.onCell != nil {
				c.onCell(job, chapter, info)
			}
			if info.Corrupt() {
				c.logger.Info("The last sector is listed before the first; skipping cell",
					"track", job.Track, "cell", cell)
				continue
			}

			n, err := c.copyCell(ctx, job, disc, out, buf, limit, info, report)
			written += n
			if err != nil {
				return written, err
			}
		}
	}

	report()
	c.logger.Debug("Finished copy", "track", job.Track, "blocks", job.BlocksWritten, "bytes", written)
	return written, nil
}

func (c *Copier) copyCell(ctx context.Context, job *Job, disc BlockReader, out sink.Sink, buf []byte,
	limit int, cell nav.Cell, report func()) (int64, error) {

	var written int64
	cursor := cell.FirstSector
	remaining := cell.Blocks

	c.logger.Trace("Copying cell", "cell", cell.Number, "first", cell.FirstSector, "last", cell.LastSector)

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		chunk := int(min(uint64(limit), remaining))
		got, err := disc.ReadBlocks(cursor, chunk, buf)
		if err != nil || got != chunk {
			return written, &ShortReadError{Cell: cell.Number, Requested: chunk, Got: got, Err: err}
		}
		cursor += uint32(got)

		size := got * consts.DVD_VIDEO_LB_LEN
		n, err := out.Write(buf[:size])
		written += int64(n)
		if err != nil || n != size {
			return written, &ShortWriteError{Cell: cell.Number, Tried: size, Written: n, Err: err}
		}

		remaining -= uint64(got)
		job.BlocksWritten += uint64(got)
		report()
	}
	return written, nil
}
