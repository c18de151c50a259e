package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultFilename(t *testing.T) {
	require.Equal(t, "dvd_track_03.vob", DefaultFilename("", 3))
	require.Equal(t, "dvd_track_12.vob", DefaultFilename("", 12))
	require.Equal(t, "movie-7.mpg", DefaultFilename("movie-%d.mpg", 7))
}

func TestSelectStream(t *testing.T) {
	out := &bytes.Buffer{}
	s, err := Select(Options{Output: "-", Track: 1, Stdout: out})
	require.NoError(t, err)
	require.Equal(t, ModeStream, s.Mode())
	require.Equal(t, 1, s.BlockLimit())
	require.Equal(t, "stdout", s.Name())

	_, err = s.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.Equal(t, "abc", out.String())
}

func TestSelectDefaultFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Select(Options{Track: 4, Pattern: filepath.Join(dir, "dvd_track_%02d.vob")})
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, ModeFile, s.Mode())
	require.Equal(t, 512, s.BlockLimit())
	require.Equal(t, filepath.Join(dir, "dvd_track_04.vob"), s.Name())
	require.FileExists(t, s.Name())
}

func TestFileSinkTruncates(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.vob")
	require.NoError(t, os.WriteFile(name, []byte("previous contents that are long"), 0o600))

	s, err := Select(Options{Output: name, FileBlockLimit: 16})
	require.NoError(t, err)
	require.Equal(t, 16, s.BlockLimit())
	_, err = s.Write([]byte("new"))
	require.NoError(t, err)
	_, err = s.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	got, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Equal(t, "newdata", string(got))
}

func TestFileSinkCreateError(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "out.vob"), 0)
	require.ErrorContains(t, err, "couldn't create file")
}

func TestModeString(t *testing.T) {
	require.Equal(t, "file", ModeFile.String())
	require.Equal(t, "stream", ModeStream.String())
	require.Equal(t, "Mode(9)", Mode(9).String())
}
