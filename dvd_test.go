package dvd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	dvdtest "github.com/bgrewell/dvd-kit/internal/testing"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/bgrewell/dvd-kit/pkg/option"
	"github.com/bgrewell/dvd-kit/pkg/planner"
	"github.com/bgrewell/dvd-kit/pkg/sink"
	"github.com/stretchr/testify/require"
)

func openDirectory(t *testing.T, disc *dvdtest.Disc, opts ...option.OpenOption) *Disc {
	t.Helper()
	root := filepath.Join(t.TempDir(), "SAMPLE")
	_, err := disc.WriteVideoTS(root)
	require.NoError(t, err)

	d, err := Open(root, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func openImage(t *testing.T, disc *dvdtest.Disc, opts ...option.OpenOption) *Disc {
	t.Helper()
	iso := filepath.Join(t.TempDir(), "disc.iso")
	require.NoError(t, disc.WriteISO(iso))

	d, err := Open(iso, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpen(t *testing.T) {
	fixture := dvdtest.SampleDisc()

	for name, d := range map[string]*Disc{
		"directory": openDirectory(t, fixture),
		"image":     openImage(t, fixture),
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, 3, d.Tracks())
			require.Equal(t, 2, d.LongestTrack())
			require.NotNil(t, d.TitleSet(1))
			require.NotNil(t, d.TitleSet(2))

			track := d.Track(3)
			require.True(t, track.Valid)
			require.Equal(t, 5, track.Chapters)
			require.Equal(t, 6, track.Cells)
			require.EqualValues(t, 450, track.Blocks)

			require.Len(t, d.Chapters(1), 3)
			cells := d.Cells(3)
			require.Len(t, cells, 6)
			require.True(t, cells[3].Corrupt())
		})
	}

	require.Equal(t, "SAMPLE", openDirectory(t, fixture).Title())
	require.Equal(t, "SAMPLE_DISC", openImage(t, fixture).Title())
}

func TestOpenMissingTitleSet(t *testing.T) {
	fixture := dvdtest.SampleDisc()
	fixture.MissingTitleSets = []int{2}
	d := openDirectory(t, fixture)

	require.Nil(t, d.TitleSet(2))
	require.False(t, d.Track(3).Valid)

	_, err := d.Plan(CopyRequest{Track: 3})
	require.ErrorIs(t, err, ErrInvalidTrack)
}

func TestOpenNoTitleSets(t *testing.T) {
	fixture := dvdtest.SampleDisc()
	fixture.MissingTitleSets = []int{1, 2}
	root := t.TempDir()
	_, err := fixture.WriteVideoTS(root)
	require.NoError(t, err)

	_, err = Open(root)
	require.ErrorIs(t, err, ErrNoTitleSets)
}

func TestPlan(t *testing.T) {
	d := openDirectory(t, dvdtest.SampleDisc())

	job, err := d.Plan(CopyRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, job.Track)
	require.Equal(t, planner.Range{First: 1, Last: 2}, job.Chapters)
	require.Equal(t, "dvd_track_02.vob", job.Filename)
	require.Equal(t, sink.ModeFile, job.Mode)
	require.EqualValues(t, 70, job.Plan.Blocks)

	job, err = d.Plan(CopyRequest{Track: 1, Chapters: "2-7", Output: "-"})
	require.NoError(t, err)
	require.Equal(t, planner.Range{First: 2, Last: 3}, job.Chapters)
	require.Equal(t, sink.ModeStream, job.Mode)
	require.EqualValues(t, 40, job.Plan.Blocks)

	_, err = d.Plan(CopyRequest{Track: 1, Chapters: "x"})
	require.ErrorIs(t, err, planner.ErrChapterRange)
}

func TestCopyInvalidTrackCreatesNothing(t *testing.T) {
	d := openDirectory(t, dvdtest.SampleDisc())
	out := filepath.Join(t.TempDir(), "out.vob")

	for _, track := range []int{4, -1} {
		_, err := d.Copy(context.Background(), CopyRequest{Track: track, Output: out})
		require.ErrorIs(t, err, ErrInvalidTrack)
		require.ErrorContains(t, err, "valid track numbers: 1 to 3")
		require.NoFileExists(t, out)
	}
}

func TestCopyToFile(t *testing.T) {
	fixture := dvdtest.SampleDisc()
	fixture.VOBSplit = 1000

	var percents []int
	var cells []int
	d := openImage(t, fixture,
		option.WithCopyProgress(func(_ int, _, _ uint64, percent int) { percents = append(percents, percent) }),
		option.WithCellCallback(func(_, _ int, cell nav.Cell) { cells = append(cells, cell.Number) }),
		option.WithBlockLimit(64),
	)

	out := filepath.Join(t.TempDir(), "track3.vob")
	job, err := d.Copy(context.Background(), CopyRequest{Track: 3, Output: out})
	require.NoError(t, err)
	require.Equal(t, job.Plan.Blocks, job.BlocksWritten)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, fixture.Expected(3, 1, 5), got)
	require.EqualValues(t, job.Plan.Filesize, len(got))
	require.Equal(t, 100, percents[len(percents)-1])
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, cells)
}

func TestCopyChapterRange(t *testing.T) {
	fixture := dvdtest.SampleDisc()
	d := openDirectory(t, fixture)

	out := filepath.Join(t.TempDir(), "chapters.vob")
	_, err := d.Copy(context.Background(), CopyRequest{Track: 1, Chapters: "2-3", Output: out})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, fixture.Expected(1, 2, 3), got)
}

func TestCopyToStream(t *testing.T) {
	fixture := dvdtest.SampleDisc()
	stdout := &bytes.Buffer{}
	d := openDirectory(t, fixture, option.WithStdout(stdout))

	job, err := d.Copy(context.Background(), CopyRequest{Track: 3, Chapters: "4", Output: "-"})
	require.NoError(t, err)
	require.Equal(t, sink.ModeStream, job.Mode)
	require.Equal(t, fixture.Expected(3, 4, 5), stdout.Bytes())
}

func TestCopyDefaultName(t *testing.T) {
	dir := t.TempDir()
	d := openDirectory(t, dvdtest.SampleDisc(),
		option.WithOutputPattern(filepath.Join(dir, "track_%02d.vob")))

	job, err := d.Copy(context.Background(), CopyRequest{})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "track_02.vob"), job.Filename)
	require.FileExists(t, job.Filename)
}
