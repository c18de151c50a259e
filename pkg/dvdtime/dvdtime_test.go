package dvdtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramerate(t *testing.T) {
	tests := []struct {
		name   string
		frameU uint8
		want   int
	}{
		{"undefined selector 0", 0x00, 0},
		{"pal", 0x40, 2500},
		{"undefined selector 2", 0x80, 0},
		{"ntsc", 0xc0, 2997},
		{"ntsc with frames", 0xd5, 2997},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Time{FrameU: tt.frameU}.Framerate())
		})
	}
}

func TestMilliseconds(t *testing.T) {
	tests := []struct {
		name string
		in   Time
		want int
	}{
		{"zero", Time{}, 0},
		{"ntsc frames", Time{Hour: 0x01, Minute: 0x23, Second: 0x45, FrameU: 0xc0 | 0x15}, 5025500},
		{"pal frames", Time{Hour: 0x00, Minute: 0x00, Second: 0x10, FrameU: 0x40 | 0x12}, 10480},
		{"two digit frame count", Time{FrameU: 0xc0 | 0x29}, 967},
		{"undefined rate ignores frames", Time{Hour: 0x02, FrameU: 0x80 | 0x25}, 7200000},
		{"selector zero ignores frames", Time{Minute: 0x59, FrameU: 0x12}, 3540000},
		{"malformed digits pass through", Time{Second: 0x0f}, 15000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.in.Milliseconds())
		})
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "00:00:00.000", Format(0))
	require.Equal(t, "01:23:45.500", Format(5025500))
	require.Equal(t, "00:01:01.001", Format(61001))
	require.Equal(t, "25:00:00.000", Format(90000000))
	require.Equal(t, "00:00:00.000", Format(-5))
}

func TestStringAndBytes(t *testing.T) {
	raw := [4]byte{0x01, 0x23, 0x45, 0xd5}
	tm := FromBytes(raw)
	require.Equal(t, Time{Hour: 0x01, Minute: 0x23, Second: 0x45, FrameU: 0xd5}, tm)
	require.Equal(t, raw, tm.Bytes())
	require.Equal(t, "01:23:45.500", tm.String())
}
