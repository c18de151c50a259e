// Package config loads the optional dvd-kit configuration file. Values in
// the file provide defaults; command line flags override them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

// MaxBlockLimit bounds block_limit to a 16 MiB transfer buffer.
const MaxBlockLimit = 8192

type Config struct {
	Device        string  `toml:"device"`
	BlockLimit    int     `toml:"block_limit"`
	OutputPattern string  `toml:"output_pattern"`
	Logging       Logging `toml:"logging"`
}

type Logging struct {
	Level string `toml:"level"`
	Color bool   `toml:"color"`
}

func Default() Config {
	return Config{
		Device:        consts.DVD_DEFAULT_DEVICE,
		BlockLimit:    consts.DVD_COPY_BLOCK_LIMIT,
		OutputPattern: consts.DVD_DEFAULT_OUTPUT_PATTERN,
		Logging: Logging{
			Level: "info",
			Color: true,
		},
	}
}

// DefaultPath returns the absolute path of the default configuration file.
func DefaultPath() (string, error) {
	return expandPath("~/.config/dvd-kit/config.toml")
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty. A missing file is not an error: the defaults are returned and
// found is false.
func Load(path string) (cfg *Config, found bool, err error) {
	c := Default()

	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, false, err
		}
	} else if path, err = expandPath(path); err != nil {
		return nil, false, err
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&c); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", path, err)
		}
		found = true
	}

	if c.Device, err = expandPath(c.Device); err != nil {
		return nil, false, err
	}
	if err := c.Validate(); err != nil {
		return nil, false, err
	}
	return &c, found, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Device) == "" {
		return errors.New("device must not be empty")
	}
	if c.BlockLimit < 1 || c.BlockLimit > MaxBlockLimit {
		return fmt.Errorf("block_limit must be between 1 and %d, got %d", MaxBlockLimit, c.BlockLimit)
	}
	if strings.Count(c.OutputPattern, "%") != 1 || strings.Contains(fmt.Sprintf(c.OutputPattern, 1), "%!") {
		return fmt.Errorf("output_pattern %q must contain a single integer verb such as %%02d", c.OutputPattern)
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level %q must be one of info, debug, trace", c.Logging.Level)
	}
	return nil
}

// LogLevel is the verbosity named by logging.level.
func (c *Config) LogLevel() int {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func expandPath(value string) (string, error) {
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	return value, nil
}
