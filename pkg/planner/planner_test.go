package planner

import (
	"bytes"
	"fmt"
	"testing"

	dvdtest "github.com/bgrewell/dvd-kit/internal/testing"
	"github.com/bgrewell/dvd-kit/pkg/ifo"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/stretchr/testify/require"
)

func sampleResolver(t *testing.T) *nav.IFOResolver {
	t.Helper()
	disc := dvdtest.SampleDisc()
	vmg, err := ifo.ParseVMG(disc.VMG())
	require.NoError(t, err)
	sets := map[int]*ifo.VTS{}
	for _, n := range disc.TitleSets() {
		vts, err := ifo.ParseVTS(fmt.Sprintf("VTS_%02d_0.IFO", n), disc.VTS(n))
		require.NoError(t, err)
		sets[n] = vts
	}
	return nav.NewIFOResolver(vmg, sets, nil)
}

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.NewLogger(logging.NewSimpleLogger(buf, logging.LEVEL_INFO, false))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "3", want: Range{First: 3, Last: 99}},
		{in: "2-5", want: Range{First: 2, Last: 5}},
		{in: "0-4", want: Range{First: 1, Last: 4}},
		{in: "7-3", want: Range{First: 7, Last: 7}},
		{in: "0", want: Range{First: 1, Last: 99}},
		{in: "99-99", want: Range{First: 99, Last: 99}},
		{in: "100", wantErr: true},
		{in: "1-100", wantErr: true},
		{in: "a-2", wantErr: true},
		{in: "", wantErr: true},
		{in: "3-", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrChapterRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClamp(t *testing.T) {
	t.Run("within range", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.Equal(t, Range{First: 2, Last: 3}, Clamp(Range{First: 2, Last: 3}, 5, bufferLogger(buf)))
		require.Zero(t, buf.Len())
	})

	t.Run("last lowered", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.Equal(t, Range{First: 2, Last: 5}, Clamp(Range{First: 2, Last: 8}, 5, bufferLogger(buf)))
		require.Contains(t, buf.String(), "Resetting last chapter to 5")
		require.NotContains(t, buf.String(), "first chapter")
	})

	t.Run("both lowered", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.Equal(t, Range{First: 5, Last: 5}, Clamp(Range{First: 7, Last: 9}, 5, bufferLogger(buf)))
		require.Contains(t, buf.String(), "Resetting first chapter to 5")
		require.Contains(t, buf.String(), "Resetting last chapter to 5")
	})

	t.Run("zero first", func(t *testing.T) {
		require.Equal(t, Range{First: 1, Last: 2}, Clamp(Range{First: 0, Last: 2}, 5, nil))
	})

	require.Equal(t, Range{First: 1, Last: 4}, Full(4))
}

func TestNew(t *testing.T) {
	r := sampleResolver(t)

	t.Run("whole track equals track totals", func(t *testing.T) {
		for track := 1; track <= r.Tracks(); track++ {
			p := New(r, track, Full(r.TrackChapters(track)), nil)
			require.Equal(t, r.TrackBlocks(track), p.Blocks, "track %d", track)
			require.Equal(t, r.TrackFilesize(track), p.Filesize, "track %d", track)
			require.Equal(t, 1, p.FirstCell)
			require.Equal(t, r.TrackCells(track), p.LastCell)
		}
	})

	t.Run("chapter subset", func(t *testing.T) {
		p := New(r, 1, Range{First: 2, Last: 3}, nil)
		require.Equal(t, Plan{Track: 1, Chapters: Range{First: 2, Last: 3}, FirstCell: 2, LastCell: 4, Blocks: 40, Filesize: 40 * 2048}, p)
	})

	t.Run("corrupt cell contributes nothing", func(t *testing.T) {
		p := New(r, 3, Range{First: 3, Last: 3}, nil)
		require.Equal(t, 3, p.FirstCell)
		require.Equal(t, 4, p.LastCell)
		require.Equal(t, uint64(100), p.Blocks)
	})

	t.Run("single chapter", func(t *testing.T) {
		p := New(r, 3, Range{First: 4, Last: 4}, nil)
		require.Equal(t, uint64(100), p.Blocks)
		require.Equal(t, uint64(204800), p.Filesize)
	})
}

func TestNonMonotonicWarning(t *testing.T) {
	r := &nav.StaticResolver{Titles: []nav.StaticTrack{{
		ProgramMap: []int{1, 3, 2},
		Cells:      []nav.StaticCell{{First: 0, Last: 9}, {First: 10, Last: 19}, {First: 20, Last: 29}},
	}}}

	require.False(t, Monotonic(r, 1, Full(3)))
	require.True(t, Monotonic(r, 1, Range{First: 1, Last: 1}))

	buf := &bytes.Buffer{}
	New(r, 1, Full(3), bufferLogger(buf))
	require.Contains(t, buf.String(), "not in ascending order")
}
