package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, found, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, Default(), *cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
device = "/dev/sr1"
block_limit = 64
output_pattern = "title_%d.vob"

[logging]
level = "debug"
color = false
`)
	cfg, found, err := Load(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "/dev/sr1", cfg.Device)
	require.Equal(t, 64, cfg.BlockLimit)
	require.Equal(t, "title_%d.vob", cfg.OutputPattern)
	require.Equal(t, logging.LEVEL_DEBUG, cfg.LogLevel())
	require.False(t, cfg.Logging.Color)
}

func TestLoadPartialFile(t *testing.T) {
	cfg, _, err := Load(writeConfig(t, "block_limit = 16\n"))
	require.NoError(t, err)
	require.Equal(t, 16, cfg.BlockLimit)
	require.Equal(t, Default().Device, cfg.Device)
	require.Equal(t, Default().OutputPattern, cfg.OutputPattern)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, _, err := Load(writeConfig(t, `device = "~/rips/disc.iso"`))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "rips", "disc.iso"), cfg.Device)

	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "dvd-kit", "config.toml"), path)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":      `devise = "/dev/sr0"`,
		"bad syntax":       `device = `,
		"zero block limit": `block_limit = 0`,
		"huge block limit": `block_limit = 100000`,
		"pattern no verb":  `output_pattern = "track.vob"`,
		"pattern two verb": `output_pattern = "%d_%d.vob"`,
		"pattern string":   `output_pattern = "%s.vob"`,
		"bad level":        "[logging]\nlevel = \"loud\"",
		"empty device":     `device = ""`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.BlockLimit = 128
	data, err := cfg.Encode()
	require.NoError(t, err)

	loaded, found, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, cfg, *loaded)
}
