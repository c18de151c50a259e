package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/logging"
)

// dirSource reads an unpacked disc from the filesystem.
type dirSource struct {
	videoTS string
	title   string
	// names maps upper case file names to their names on disk.
	names  map[string]string
	logger *logging.Logger
}

func openDirectory(location string, logger *logging.Logger) (*dirSource, error) {
	videoTS, err := findVideoTS(location)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(videoTS)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", videoTS, err)
	}
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[strings.ToUpper(e.Name())] = e.Name()
		}
	}

	title := filepath.Base(filepath.Dir(videoTS))
	if title == "." || title == string(filepath.Separator) {
		title = ""
	}

	logger.Debug("Found VIDEO_TS directory", "path", videoTS, "files", len(names))
	return &dirSource{videoTS: videoTS, title: title, names: names, logger: logger}, nil
}

// findVideoTS accepts either the VIDEO_TS directory itself or its parent.
func findVideoTS(location string) (string, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", location, err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), consts.DVD_VIDEO_TS) {
			return filepath.Join(location, e.Name()), nil
		}
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), IFOName(0)) {
			return filepath.Clean(location), nil
		}
	}
	return "", fmt.Errorf("%s: %w", location, ErrNoVideoTS)
}

func (d *dirSource) Title() string {
	return d.title
}

func (d *dirSource) path(name string) (string, bool) {
	actual, ok := d.names[strings.ToUpper(name)]
	if !ok {
		return "", false
	}
	return filepath.Join(d.videoTS, actual), true
}

func (d *dirSource) ReadFile(name string) ([]byte, error) {
	p, ok := d.path(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return os.ReadFile(p)
}

func (d *dirSource) TitleVOBs(vts int) (*VOBReader, error) {
	var parts []Part
	var files []*os.File
	for part := 1; part <= consts.DVD_MAX_VOB_PARTS; part++ {
		p, ok := d.path(VOBName(vts, part))
		if !ok {
			break
		}
		f, err := os.Open(p)
		if err != nil {
			closeAll(files)
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			closeAll(files)
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		files = append(files, f)
		parts = append(parts, Part{Name: filepath.Base(p), Reader: f, Size: info.Size()})
		d.logger.Trace("Added title VOB", "file", p, "size", info.Size())
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("VTS %d: %w", vts, ErrNoVOBs)
	}

	v := NewVOBReader(parts...)
	for _, f := range files {
		v.closers = append(v.closers, f)
	}
	return v, nil
}

func (d *dirSource) Close() error {
	return nil
}

func closeAll(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}
