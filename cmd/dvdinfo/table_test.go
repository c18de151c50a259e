package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bgrewell/dvd-kit"
	dvdtest "github.com/bgrewell/dvd-kit/internal/testing"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/stretchr/testify/require"
)

func openSample(t *testing.T) *dvd.Disc {
	t.Helper()
	iso := filepath.Join(t.TempDir(), "sample.iso")
	require.NoError(t, dvdtest.SampleDisc().WriteISO(iso))
	d, err := dvd.Open(iso)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestRenderTable(t *testing.T) {
	require.Empty(t, renderTable(nil, nil, nil))

	out := renderTable([]string{"A", "B"}, [][]string{{"1"}, {"2", "two"}}, []columnAlignment{alignRight})
	require.Contains(t, out, "two")
	require.Equal(t, 6, strings.Count(out, "\n")+1)
}

func TestBuildReport(t *testing.T) {
	d := openSample(t)

	all := buildReport(d, 0)
	require.Equal(t, "SAMPLE_DISC", all.Title)
	require.Equal(t, 2, all.TitleSets)
	require.Equal(t, 2, all.LongestTrack)
	require.Len(t, all.Tracks, 3)
	require.Empty(t, all.Tracks[0].ChapterList)

	one := buildReport(d, 3)
	require.Len(t, one.Tracks, 1)
	require.Len(t, one.Tracks[0].ChapterList, 5)
	require.Len(t, one.Tracks[0].CellList, 6)
}

func TestTables(t *testing.T) {
	d := openSample(t)

	tracks := trackTable([]nav.Track{d.Track(1), d.Track(2)}, 2)
	require.Contains(t, tracks, "02 *")
	require.Contains(t, tracks, "00:10:00.000")
	require.Contains(t, tracks, "MPEG2")

	cells := cellTable(d.Cells(3))
	require.Contains(t, cells, "corrupt")
	require.Contains(t, cells, "5000")

	chapters := chapterTable(d.Chapters(1))
	require.Equal(t, 3, strings.Count(chapters, "\n")-3)
}
