// Package nav answers navigation queries about a disc: which tracks exist,
// how their chapters map onto cells and where those cells sit in the title
// VOBs. Track, chapter and cell numbers are 1-based throughout.
package nav

import (
	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/dvdtime"
)

// Resolver is the navigation view the planner and copier work from. Queries
// for tracks, chapters or cells that don't exist return zero.
type Resolver interface {
	Tracks() int
	TrackValid(track int) bool
	TitleSet(track int) int
	TrackChapters(track int) int
	TrackCells(track int) int
	TrackBlocks(track int) uint64
	TrackFilesize(track int) uint64
	TrackMsecs(track int) int

	ChapterFirstCell(track, chapter int) int
	ChapterLastCell(track, chapter int) int
	ChapterMsecs(track, chapter int) int

	CellBlocks(track, cell int) uint64
	CellFilesize(track, cell int) uint64
	CellFirstSector(track, cell int) uint32
	CellLastSector(track, cell int) uint32
	CellMsecs(track, cell int) int
}

// Chapter describes one chapter of a track.
type Chapter struct {
	Number    int    `json:"number"`
	FirstCell int    `json:"first_cell"`
	LastCell  int    `json:"last_cell"`
	Msecs     int    `json:"msecs"`
	Length    string `json:"length"`
}

// Cell describes one cell of a track.
type Cell struct {
	Number      int    `json:"number"`
	FirstSector uint32 `json:"first_sector"`
	LastSector  uint32 `json:"last_sector"`
	Blocks      uint64 `json:"blocks"`
	Filesize    uint64 `json:"filesize"`
	Msecs       int    `json:"msecs"`
	Length      string `json:"length"`
}

// Corrupt reports whether the cell's sector range is inverted. Corrupt
// cells hold no blocks and are never copied.
func (c Cell) Corrupt() bool {
	return c.LastSector < c.FirstSector
}

// ChapterLength formats the duration of a chapter.
func ChapterLength(r Resolver, track, chapter int) string {
	return dvdtime.Format(r.ChapterMsecs(track, chapter))
}

// CellLength formats the duration of a cell.
func CellLength(r Resolver, track, cell int) string {
	return dvdtime.Format(r.CellMsecs(track, cell))
}

func ChapterInfo(r Resolver, track, chapter int) Chapter {
	return Chapter{
		Number:    chapter,
		FirstCell: r.ChapterFirstCell(track, chapter),
		LastCell:  r.ChapterLastCell(track, chapter),
		Msecs:     r.ChapterMsecs(track, chapter),
		Length:    ChapterLength(r, track, chapter),
	}
}

func CellInfo(r Resolver, track, cell int) Cell {
	return Cell{
		Number:      cell,
		FirstSector: r.CellFirstSector(track, cell),
		LastSector:  r.CellLastSector(track, cell),
		Blocks:      r.CellBlocks(track, cell),
		Filesize:    r.CellFilesize(track, cell),
		Msecs:       r.CellMsecs(track, cell),
		Length:      CellLength(r, track, cell),
	}
}

// LongestTrack returns the valid track with the greatest duration. The
// first one wins a tie. Returns 0 when no track is valid.
func LongestTrack(r Resolver) int {
	longest, msecs := 0, -1
	for track := 1; track <= r.Tracks(); track++ {
		if !r.TrackValid(track) {
			continue
		}
		if m := r.TrackMsecs(track); m > msecs {
			longest, msecs = track, m
		}
	}
	return longest
}

// cellBlocks counts the blocks of an inclusive sector range, 0 if inverted.
func cellBlocks(first, last uint32) uint64 {
	if last < first {
		return 0
	}
	return uint64(last-first) + 1
}

func blocksToBytes(blocks uint64) uint64 {
	return blocks * consts.DVD_VIDEO_LB_LEN
}
