package ifo

import (
	"errors"
	"testing"

	dvdtest "github.com/bgrewell/dvd-kit/internal/testing"
	"github.com/bgrewell/dvd-kit/pkg/dvdtime"
	"github.com/stretchr/testify/require"
)

func TestParseVMG(t *testing.T) {
	disc := dvdtest.SampleDisc()

	vmg, err := ParseVMG(disc.VMG())
	require.NoError(t, err)
	require.Equal(t, "DVDVIDEO-VMG", vmg.Identifier)
	require.Equal(t, uint16(2), vmg.TitleSets)
	require.Equal(t, "DVDKIT", vmg.ProviderID)
	require.Len(t, vmg.Titles, 3)

	require.Equal(t, TitleInfo{PlaybackType: 0x3c, Angles: 1, Chapters: 3, TitleSet: 1, TitleSetTitle: 1}, vmg.Titles[0])
	require.Equal(t, uint8(2), vmg.Titles[1].TitleSetTitle)
	require.Equal(t, uint8(2), vmg.Titles[2].TitleSet)
	require.Equal(t, uint16(5), vmg.Titles[2].Chapters)
}

func TestParseVMGErrors(t *testing.T) {
	t.Run("wrong identifier", func(t *testing.T) {
		data := dvdtest.SampleDisc().VTS(1)
		_, err := ParseVMG(data)
		require.ErrorIs(t, err, ErrNotVMG)
	})

	t.Run("short file", func(t *testing.T) {
		_, err := ParseVMG([]byte("DVDVIDEO"))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("title table past end", func(t *testing.T) {
		data := dvdtest.SampleDisc().VMG()
		_, err := ParseVMG(data[:2048+16])
		require.ErrorIs(t, err, ErrTruncated)
	})
}

func TestParseVTS(t *testing.T) {
	disc := dvdtest.SampleDisc()

	vts, err := ParseVTS("VTS_01_0.IFO", disc.VTS(1))
	require.NoError(t, err)
	require.Equal(t, uint16(2), vts.AudioStreams)
	require.Equal(t, uint16(3), vts.Subpictures)
	require.Len(t, vts.PartsOfTitle, 2)
	require.Len(t, vts.PartsOfTitle[0], 3)
	require.Len(t, vts.PartsOfTitle[1], 2)
	require.Equal(t, PartOfTitle{PGC: 2, Program: 2}, vts.PartsOfTitle[1][1])
	require.Len(t, vts.PGCs, 2)

	pgc, err := vts.TitlePGC(1)
	require.NoError(t, err)
	require.Equal(t, uint8(0x81), pgc.EntryID)
	require.Equal(t, uint8(3), pgc.Programs)
	require.Equal(t, uint8(4), pgc.Cells)
	require.Equal(t, []uint8{1, 2, 4}, pgc.ProgramMap)
	require.Equal(t, dvdtime.Time{Minute: 0x10, FrameU: 0xc0}, pgc.PlaybackTime)
	require.Equal(t, 2, pgc.ActiveAudioStreams())
	require.Equal(t, 1, pgc.ActiveSubpictures())

	cell, ok := pgc.Cell(2)
	require.True(t, ok)
	require.Equal(t, uint32(10), cell.FirstSector)
	require.Equal(t, uint32(29), cell.LastSector)
	_, ok = pgc.Cell(5)
	require.False(t, ok)
}

func TestChapterCells(t *testing.T) {
	vts, err := ParseVTS("VTS_02_0.IFO", dvdtest.SampleDisc().VTS(2))
	require.NoError(t, err)
	pgc, err := vts.TitlePGC(1)
	require.NoError(t, err)

	tests := []struct {
		chapter     int
		first, last int
		ok          bool
	}{
		{1, 1, 1, true},
		{3, 3, 4, true},
		{4, 5, 5, true},
		{5, 6, 6, true},
		{0, 0, 0, false},
		{6, 0, 0, false},
	}
	for _, tt := range tests {
		first, last, ok := pgc.ChapterCells(tt.chapter)
		require.Equal(t, tt.ok, ok, "chapter %d", tt.chapter)
		require.Equal(t, tt.first, first, "chapter %d", tt.chapter)
		require.Equal(t, tt.last, last, "chapter %d", tt.chapter)
	}

	corrupt, _ := pgc.Cell(4)
	require.Less(t, corrupt.LastSector, corrupt.FirstSector)
}

func TestParseVTSErrors(t *testing.T) {
	_, err := ParseVTS("VIDEO_TS.IFO", dvdtest.SampleDisc().VMG())
	require.True(t, errors.Is(err, ErrNotVTS))

	data := dvdtest.SampleDisc().VTS(1)
	_, err = ParseVTS("VTS_01_0.IFO", data[:0x210])
	require.ErrorIs(t, err, ErrTruncated)

	vts, err := ParseVTS("VTS_01_0.IFO", data)
	require.NoError(t, err)
	_, err = vts.TitlePGC(3)
	require.Error(t, err)
}

func TestVideoAttributes(t *testing.T) {
	vts, err := ParseVTS("VTS_01_0.IFO", dvdtest.SampleDisc().VTS(1))
	require.NoError(t, err)

	v := vts.Video
	require.Equal(t, "MPEG2", v.Codec())
	require.Equal(t, "NTSC", v.Format())
	require.Equal(t, "16:9", v.AspectRatio())
	require.True(t, v.Letterboxed)
	require.Equal(t, 720, v.Width())
	require.Equal(t, 480, v.Height())

	pal := parseVideoAttributes(0x10, 0x0c)
	require.Equal(t, "MPEG1", pal.Codec())
	require.True(t, pal.PAL())
	require.Equal(t, "4:3", pal.AspectRatio())
	require.Equal(t, 288, pal.Height())
	require.Equal(t, 352, pal.Width())
}
