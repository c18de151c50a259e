package copier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	dvdtest "github.com/bgrewell/dvd-kit/internal/testing"
	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/bgrewell/dvd-kit/pkg/planner"
	"github.com/bgrewell/dvd-kit/pkg/sink"
	"github.com/stretchr/testify/require"
)

// stampedDisc serves dvdtest stamped sectors and records every read.
type stampedDisc struct {
	vts    int
	blocks uint32
	reads  []int
	// failAt makes the read covering this sector come back short.
	failAt uint32
}

func (d *stampedDisc) ReadBlocks(sector uint32, count int, buf []byte) (int, error) {
	d.reads = append(d.reads, count)
	for i := 0; i < count; i++ {
		s := sector + uint32(i)
		if s >= d.blocks || (d.failAt != 0 && s == d.failAt) {
			return i, io.ErrUnexpectedEOF
		}
		copy(buf[i*consts.DVD_VIDEO_LB_LEN:], dvdtest.Sector(d.vts, s))
	}
	return count, nil
}

// memSink collects output in memory with a chosen mode.
type memSink struct {
	bytes.Buffer
	mode sink.Mode
	// short makes every write accept one byte less than given.
	short bool
}

func (m *memSink) Write(p []byte) (int, error) {
	if m.short {
		n, _ := m.Buffer.Write(p[:len(p)-1])
		return n, nil
	}
	return m.Buffer.Write(p)
}

func (m *memSink) Close() error    { return nil }
func (m *memSink) Mode() sink.Mode { return m.mode }
func (m *memSink) Name() string    { return "memory" }

func (m *memSink) BlockLimit() int {
	if m.mode == sink.ModeStream {
		return consts.DVD_CAT_BLOCK_LIMIT
	}
	return consts.DVD_COPY_BLOCK_LIMIT
}

// sampleTrack3 mirrors track 3 of dvdtest.SampleDisc: five chapters over
// title set 2, one corrupt cell in chapter 3 and a 100 block cell 5 in
// chapter 4.
func sampleTrack3() *nav.StaticResolver {
	return &nav.StaticResolver{Titles: []nav.StaticTrack{{
		TitleSet:   2,
		Msecs:      900000,
		ProgramMap: []int{1, 2, 3, 5, 6},
		Cells: []nav.StaticCell{
			{First: 0, Last: 99},
			{First: 100, Last: 199},
			{First: 200, Last: 299},
			{First: 320, Last: 310},
			{First: 5000, Last: 5099},
			{First: 5100, Last: 5149},
		},
	}}}
}

func newJob(r nav.Resolver, chapters planner.Range) *Job {
	return &Job{
		Track:    1,
		Chapters: chapters,
		Plan:     planner.New(r, 1, chapters, nil),
	}
}

func expected(vts int, ranges ...[2]uint32) []byte {
	var out []byte
	for _, rg := range ranges {
		for s := rg[0]; s <= rg[1]; s++ {
			out = append(out, dvdtest.Sector(vts, s)...)
		}
	}
	return out
}

func TestCopyCellTransfers(t *testing.T) {
	r := sampleTrack3()
	chapter4 := planner.Range{First: 4, Last: 4}

	t.Run("file mode reads the cell in one transfer", func(t *testing.T) {
		disc := &stampedDisc{vts: 2, blocks: 6000}
		out := &memSink{mode: sink.ModeFile}
		job := newJob(r, chapter4)

		n, err := New(Config{}).Copy(context.Background(), job, disc, r, out)
		require.NoError(t, err)
		require.Equal(t, []int{100}, disc.reads)
		require.EqualValues(t, 100*consts.DVD_VIDEO_LB_LEN, n)
		require.EqualValues(t, 100, job.BlocksWritten)
		require.Equal(t, expected(2, [2]uint32{5000, 5099}), out.Bytes())
	})

	t.Run("stream mode reads one block at a time", func(t *testing.T) {
		disc := &stampedDisc{vts: 2, blocks: 6000}
		out := &memSink{mode: sink.ModeStream}
		job := newJob(r, chapter4)

		n, err := New(Config{}).Copy(context.Background(), job, disc, r, out)
		require.NoError(t, err)
		require.Len(t, disc.reads, 100)
		for _, c := range disc.reads {
			require.Equal(t, 1, c)
		}
		require.EqualValues(t, 100*consts.DVD_VIDEO_LB_LEN, n)
		require.Equal(t, sink.ModeStream, job.Mode)
		require.Equal(t, expected(2, [2]uint32{5000, 5099}), out.Bytes())
	})
}

func TestCopyWholeTrack(t *testing.T) {
	r := sampleTrack3()
	disc := &stampedDisc{vts: 2, blocks: 6000}
	out := &memSink{mode: sink.ModeFile}
	job := newJob(r, planner.Full(r.TrackChapters(1)))

	var cells []int
	var percents []int
	c := New(Config{
		OnCell:   func(_ *Job, _ int, cell nav.Cell) { cells = append(cells, cell.Number) },
		Progress: func(_ *Job, p int) { percents = append(percents, p) },
	})

	n, err := c.Copy(context.Background(), job, disc, r, out)
	require.NoError(t, err)

	require.EqualValues(t, 450, job.Plan.Blocks)
	require.Equal(t, job.Plan.Blocks, job.BlocksWritten)
	require.EqualValues(t, job.Plan.Filesize, n)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, cells)
	require.Equal(t, 100, percents[len(percents)-1])
	require.IsIncreasing(t, percents)

	// one transfer per cell; corrupt cell 4 is never read
	require.Equal(t, []int{100, 100, 100, 100, 50}, disc.reads)
	require.Equal(t, expected(2,
		[2]uint32{0, 99}, [2]uint32{100, 199}, [2]uint32{200, 299},
		[2]uint32{5000, 5099}, [2]uint32{5100, 5149}), out.Bytes())
}

func TestCopyChunksLargeCells(t *testing.T) {
	r := &nav.StaticResolver{Titles: []nav.StaticTrack{{
		TitleSet:   1,
		ProgramMap: []int{1},
		Cells:      []nav.StaticCell{{First: 10, Last: 1209}},
	}}}
	disc := &stampedDisc{vts: 1, blocks: 2000}
	out := &memSink{mode: sink.ModeFile}
	job := newJob(r, planner.Full(1))

	_, err := New(Config{}).Copy(context.Background(), job, disc, r, out)
	require.NoError(t, err)
	require.Equal(t, []int{512, 512, 176}, disc.reads)
	require.Equal(t, expected(1, [2]uint32{10, 1209}), out.Bytes())
}

func TestCopyIsRepeatable(t *testing.T) {
	r := sampleTrack3()
	run := func() []byte {
		out := &memSink{mode: sink.ModeFile}
		_, err := New(Config{}).Copy(context.Background(), newJob(r, planner.Range{First: 2, Last: 5}),
			&stampedDisc{vts: 2, blocks: 6000}, r, out)
		require.NoError(t, err)
		return out.Bytes()
	}
	require.Equal(t, run(), run())
}

func TestCopyEmptyPlan(t *testing.T) {
	r := &nav.StaticResolver{Titles: []nav.StaticTrack{{
		TitleSet:   1,
		ProgramMap: []int{1},
		Cells:      []nav.StaticCell{{First: 9, Last: 3}},
	}}}
	var percents []int
	job := newJob(r, planner.Full(1))
	n, err := New(Config{Progress: func(_ *Job, p int) { percents = append(percents, p) }}).
		Copy(context.Background(), job, &stampedDisc{vts: 1, blocks: 10}, r, &memSink{})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, []int{100}, percents)
}

func TestCopyShortRead(t *testing.T) {
	r := sampleTrack3()
	disc := &stampedDisc{vts: 2, blocks: 6000, failAt: 150}
	out := &memSink{mode: sink.ModeFile}

	n, err := New(Config{}).Copy(context.Background(), newJob(r, planner.Full(5)), disc, r, out)
	var short *ShortReadError
	require.ErrorAs(t, err, &short)
	require.Equal(t, 2, short.Cell)
	require.Equal(t, 100, short.Requested)
	require.Equal(t, 50, short.Got)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.EqualValues(t, 100*consts.DVD_VIDEO_LB_LEN, n)
	require.Equal(t, expected(2, [2]uint32{0, 99}), out.Bytes())
}

func TestCopyShortWrite(t *testing.T) {
	r := sampleTrack3()
	out := &memSink{mode: sink.ModeStream, short: true}

	_, err := New(Config{}).Copy(context.Background(), newJob(r, planner.Full(5)),
		&stampedDisc{vts: 2, blocks: 6000}, r, out)
	var short *ShortWriteError
	require.ErrorAs(t, err, &short)
	require.Equal(t, 1, short.Cell)
	require.Equal(t, consts.DVD_VIDEO_LB_LEN, short.Tried)
	require.Equal(t, consts.DVD_VIDEO_LB_LEN-1, short.Written)
	require.Contains(t, err.Error(), "could not write data from cell 1")
}

func TestCopyCanceled(t *testing.T) {
	r := sampleTrack3()
	ctx, cancel := context.WithCancel(context.Background())
	out := &memSink{mode: sink.ModeStream}

	c := New(Config{Progress: func(job *Job, _ int) {
		if job.BlocksWritten >= 10 {
			cancel()
		}
	}})
	_, err := c.Copy(ctx, newJob(r, planner.Full(5)), &stampedDisc{vts: 2, blocks: 6000}, r, out)
	require.True(t, errors.Is(err, ErrCanceled))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, out.Len()%consts.DVD_VIDEO_LB_LEN)
	require.Equal(t, expected(2, [2]uint32{0, uint32(out.Len()/consts.DVD_VIDEO_LB_LEN) - 1}), out.Bytes())
}
