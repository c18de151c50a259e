package source

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/iso9660"
	"github.com/bgrewell/dvd-kit/pkg/logging"
)

// imageSource reads a disc through its ISO9660 bridge filesystem. Works for
// image files and block devices alike since both support ReadAt.
type imageSource struct {
	file   *os.File
	fs     *iso9660.ISO9660
	logger *logging.Logger
}

func openImage(location string, logger *logging.Logger) (*imageSource, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open DVD image: %w", err)
	}

	fs, err := iso9660.Open(f, logger)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read ISO9660 filesystem on %s: %w", location, err)
	}

	return &imageSource{file: f, fs: fs, logger: logger}, nil
}

func (s *imageSource) Title() string {
	return s.fs.VolumeIdentifier()
}

func (s *imageSource) ReadFile(name string) ([]byte, error) {
	file, err := s.fs.File(path.Join(consts.DVD_VIDEO_TS, name))
	if err != nil {
		if errors.Is(err, iso9660.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
		}
		return nil, err
	}
	return file.ReadAll()
}

func (s *imageSource) TitleVOBs(vts int) (*VOBReader, error) {
	var parts []Part
	for part := 1; part <= consts.DVD_MAX_VOB_PARTS; part++ {
		name := VOBName(vts, part)
		file, err := s.fs.File(path.Join(consts.DVD_VIDEO_TS, name))
		if errors.Is(err, iso9660.ErrNotExist) {
			break
		}
		if err != nil {
			return nil, err
		}
		s.logger.Trace("Added title VOB", "file", name, "sector", file.LocationOfFile, "size", file.SizeOfFile)
		parts = append(parts, Part{Name: name, Reader: file.Section(), Size: file.Size()})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("VTS %d: %w", vts, ErrNoVOBs)
	}
	return NewVOBReader(parts...), nil
}

func (s *imageSource) Close() error {
	return s.file.Close()
}
