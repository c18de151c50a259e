package nav

import (
	"github.com/bgrewell/dvd-kit/pkg/dvdtime"
	"github.com/bgrewell/dvd-kit/pkg/ifo"
	"github.com/bgrewell/dvd-kit/pkg/logging"
)

// Track is the summary of one track, computed once when the resolver is
// built.
type Track struct {
	Number          int                 `json:"number"`
	Valid           bool                `json:"valid"`
	TitleSet        int                 `json:"title_set"`
	TitleNumber     int                 `json:"title_number"`
	Chapters        int                 `json:"chapters"`
	Cells           int                 `json:"cells"`
	Angles          int                 `json:"angles"`
	AudioStreams    int                 `json:"audio_streams"`
	Subtitles       int                 `json:"subtitles"`
	ActiveAudio     int                 `json:"active_audio"`
	ActiveSubtitles int                 `json:"active_subtitles"`
	Blocks          uint64              `json:"blocks"`
	Filesize        uint64              `json:"filesize"`
	Msecs           int                 `json:"msecs"`
	Length          string              `json:"length"`
	Video           ifo.VideoAttributes `json:"video"`
}

type track struct {
	Track
	pgc *ifo.PGC
}

// IFOResolver answers navigation queries from parsed IFO files.
type IFOResolver struct {
	tracks []track
}

// NewIFOResolver builds the track table from the video manager and the
// title sets that could be opened, keyed by title set number. A track whose
// title set is missing or inconsistent is kept but marked invalid.
func NewIFOResolver(vmg *ifo.VMG, titleSets map[int]*ifo.VTS, logger *logging.Logger) *IFOResolver {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	r := &IFOResolver{tracks: make([]track, len(vmg.Titles))}
	for i, title := range vmg.Titles {
		t := &r.tracks[i]
		t.Number = i + 1
		t.TitleSet = int(title.TitleSet)
		t.TitleNumber = int(title.TitleSetTitle)
		t.Chapters = int(title.Chapters)
		t.Angles = int(title.Angles)

		vts, ok := titleSets[t.TitleSet]
		if !ok || vts == nil {
			logger.Debug("Track title set not available", "track", t.Number, "vts", t.TitleSet)
			continue
		}
		pgc, err := vts.TitlePGC(t.TitleNumber)
		if err != nil {
			logger.Debug("Track has no program chain", "track", t.Number, "vts", t.TitleSet, "error", err.Error())
			continue
		}

		t.pgc = pgc
		t.Valid = true
		t.Cells = int(pgc.Cells)
		t.AudioStreams = int(vts.AudioStreams)
		t.Subtitles = int(vts.Subpictures)
		t.ActiveAudio = pgc.ActiveAudioStreams()
		t.ActiveSubtitles = pgc.ActiveSubpictures()
		t.Msecs = pgc.PlaybackTime.Milliseconds()
		t.Video = vts.Video
		for cell := 1; cell <= t.Cells; cell++ {
			t.Blocks += r.CellBlocks(t.Number, cell)
		}
		t.Filesize = blocksToBytes(t.Blocks)
	}

	for i := range r.tracks {
		r.tracks[i].Length = dvdtime.Format(r.tracks[i].Msecs)
		logger.Trace("Resolved track", "track", r.tracks[i].Number, "valid", r.tracks[i].Valid,
			"chapters", r.tracks[i].Chapters, "cells", r.tracks[i].Cells, "blocks", r.tracks[i].Blocks)
	}
	return r
}

func (r *IFOResolver) get(n int) *track {
	if n < 1 || n > len(r.tracks) {
		return nil
	}
	return &r.tracks[n-1]
}

func (r *IFOResolver) cell(n, c int) (ifo.CellPlayback, bool) {
	t := r.get(n)
	if t == nil || t.pgc == nil {
		return ifo.CellPlayback{}, false
	}
	return t.pgc.Cell(c)
}

// Track returns the summary of track n, or a zero Track when it doesn't exist.
func (r *IFOResolver) Track(n int) Track {
	if t := r.get(n); t != nil {
		return t.Track
	}
	return Track{}
}

func (r *IFOResolver) Tracks() int {
	return len(r.tracks)
}

func (r *IFOResolver) TrackValid(n int) bool {
	t := r.get(n)
	return t != nil && t.Valid
}

func (r *IFOResolver) TitleSet(n int) int {
	return r.Track(n).TitleSet
}

func (r *IFOResolver) TrackChapters(n int) int {
	return r.Track(n).Chapters
}

func (r *IFOResolver) TrackCells(n int) int {
	return r.Track(n).Cells
}

func (r *IFOResolver) TrackBlocks(n int) uint64 {
	return r.Track(n).Blocks
}

func (r *IFOResolver) TrackFilesize(n int) uint64 {
	return r.Track(n).Filesize
}

func (r *IFOResolver) TrackMsecs(n int) int {
	return r.Track(n).Msecs
}

func (r *IFOResolver) ChapterFirstCell(n, chapter int) int {
	t := r.get(n)
	if t == nil || t.pgc == nil {
		return 0
	}
	first, _, _ := t.pgc.ChapterCells(chapter)
	return first
}

func (r *IFOResolver) ChapterLastCell(n, chapter int) int {
	t := r.get(n)
	if t == nil || t.pgc == nil {
		return 0
	}
	_, last, _ := t.pgc.ChapterCells(chapter)
	return last
}

// ChapterMsecs sums the durations of the chapter's cells.
func (r *IFOResolver) ChapterMsecs(n, chapter int) int {
	msecs := 0
	for c := r.ChapterFirstCell(n, chapter); c > 0 && c <= r.ChapterLastCell(n, chapter); c++ {
		msecs += r.CellMsecs(n, c)
	}
	return msecs
}

func (r *IFOResolver) CellBlocks(n, c int) uint64 {
	cell, ok := r.cell(n, c)
	if !ok {
		return 0
	}
	return cellBlocks(cell.FirstSector, cell.LastSector)
}

func (r *IFOResolver) CellFilesize(n, c int) uint64 {
	return blocksToBytes(r.CellBlocks(n, c))
}

func (r *IFOResolver) CellFirstSector(n, c int) uint32 {
	cell, _ := r.cell(n, c)
	return cell.FirstSector
}

func (r *IFOResolver) CellLastSector(n, c int) uint32 {
	cell, _ := r.cell(n, c)
	return cell.LastSector
}

func (r *IFOResolver) CellMsecs(n, c int) int {
	cell, ok := r.cell(n, c)
	if !ok {
		return 0
	}
	return cell.PlaybackTime.Milliseconds()
}
