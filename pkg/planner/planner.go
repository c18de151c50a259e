// Package planner turns a track and chapter range into the flat run of
// cells to copy and the exact number of blocks and bytes that will produce.
package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
)

var ErrChapterRange = fmt.Errorf("chapter range must be between 1 and %d", consts.DVD_MAX_CHAPTERS)

// Range is an inclusive chapter range.
type Range struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// Plan is the copy plan for a chapter range of one track.
type Plan struct {
	Track     int    `json:"track"`
	Chapters  Range  `json:"chapters"`
	FirstCell int    `json:"first_cell"`
	LastCell  int    `json:"last_cell"`
	Blocks    uint64 `json:"blocks"`
	Filesize  uint64 `json:"filesize"`
}

// ParseRange reads a chapter selection of the form "a" or "a-b". Each
// number has at most two digits. A bare "a" selects a through the end of
// the track. Chapter 0 is read as 1 and an end before the start is raised
// to the start.
func ParseRange(s string) (Range, error) {
	r := Range{First: 1, Last: consts.DVD_MAX_CHAPTERS}

	first, last, hasLast := strings.Cut(strings.TrimSpace(s), "-")
	n, err := parseChapter(first)
	if err != nil {
		return Range{}, err
	}
	r.First = n

	if hasLast {
		if n, err = parseChapter(last); err != nil {
			return Range{}, err
		}
		r.Last = n
	}

	if r.First == 0 {
		r.First = 1
	}
	if r.Last < r.First {
		r.Last = r.First
	}
	return r, nil
}

func parseChapter(s string) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, ErrChapterRange
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.Join(ErrChapterRange, err)
	}
	return n, nil
}

// Clamp fits a requested range to a track with the given number of
// chapters. Values past the end are lowered to the last chapter with a
// diagnostic rather than rejected.
func Clamp(requested Range, chapters int, logger *logging.Logger) Range {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	r := requested
	if r.First < 1 {
		r.First = 1
	}
	if r.First > chapters {
		r.First = chapters
		logger.Info(fmt.Sprintf("Resetting first chapter to %d", r.First))
	}
	if r.Last > chapters {
		r.Last = chapters
		logger.Info(fmt.Sprintf("Resetting last chapter to %d", r.Last))
	}
	if r.Last < r.First {
		r.Last = r.First
	}
	return r
}

// Full is the range covering every chapter of a track.
func Full(chapters int) Range {
	return Range{First: 1, Last: chapters}
}

// New builds the plan for chapters of track. The range must already be
// clamped. The cells copied are the flat run from the first cell of the
// first chapter to the last cell of the last chapter; corrupt cells
// contribute nothing.
func New(r nav.Resolver, track int, chapters Range, logger *logging.Logger) Plan {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	p := Plan{
		Track:     track,
		Chapters:  chapters,
		FirstCell: r.ChapterFirstCell(track, chapters.First),
		LastCell:  r.ChapterLastCell(track, chapters.Last),
	}

	for cell := p.FirstCell; cell > 0 && cell <= p.LastCell; cell++ {
		p.Blocks += r.CellBlocks(track, cell)
	}
	p.Filesize = p.Blocks * consts.DVD_VIDEO_LB_LEN

	if !Monotonic(r, track, chapters) {
		logger.Info("Chapter cells are not in ascending order; planned size may differ from the copy",
			"track", track, "chapters", chapters.String())
	}

	logger.Debug("Planned copy", "track", track, "chapters", chapters.String(),
		"first_cell", p.FirstCell, "last_cell", p.LastCell, "blocks", p.Blocks, "filesize", p.Filesize)
	return p
}

// Monotonic reports whether the chapters of the range cover ascending,
// contiguous, non-overlapping cell runs. Copies walk chapter by chapter
// while plans count the flat cell run; the two agree only when this holds.
func Monotonic(r nav.Resolver, track int, chapters Range) bool {
	prevLast := 0
	for ch := chapters.First; ch <= chapters.Last; ch++ {
		first := r.ChapterFirstCell(track, ch)
		last := r.ChapterLastCell(track, ch)
		if first < 1 || last < first {
			return false
		}
		if prevLast != 0 && first != prevLast+1 {
			return false
		}
		prevLast = last
	}
	return true
}
