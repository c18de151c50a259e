// Package source gives uniform access to the files of a DVD-Video volume,
// whether it is a VIDEO_TS directory on disk, an ISO image or an optical
// device.
package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/bgrewell/dvd-kit/pkg/logging"
)

var (
	ErrNoVideoTS = errors.New("no VIDEO_TS directory found")
	ErrNoVOBs    = errors.New("title set has no video object files")
)

// Source is an opened DVD-Video volume.
type Source interface {
	// Title is the volume label, or the directory name for unpacked discs.
	Title() string
	// ReadFile returns a VIDEO_TS file by name, matched case-insensitively.
	ReadFile(name string) ([]byte, error)
	// TitleVOBs opens the VTS_nn_1..9.VOB files of title set vts as one
	// block address space.
	TitleVOBs(vts int) (*VOBReader, error)
	Close() error
}

// Open detects the kind of volume at location and opens it. Directories are
// read as unpacked discs; anything else is read as an ISO9660 filesystem.
func Open(location string, logger *logging.Logger) (Source, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open DVD source: %w", err)
	}

	if info.IsDir() {
		logger.Debug("Opening DVD directory", "path", location)
		return openDirectory(location, logger)
	}

	logger.Debug("Opening DVD image", "path", location, "mode", info.Mode().String())
	return openImage(location, logger)
}

// VOBName is the file name of part (1-based) of the title VOBs of vts.
func VOBName(vts, part int) string {
	return fmt.Sprintf("VTS_%02d_%d.VOB", vts, part)
}

// IFOName is the file name of the information file of vts; 0 names the
// video manager.
func IFOName(vts int) string {
	if vts == 0 {
		return "VIDEO_TS.IFO"
	}
	return fmt.Sprintf("VTS_%02d_0.IFO", vts)
}
