// Package iso9660 is a read-only ISO9660 filesystem reader, sufficient to
// find the VIDEO_TS files on a disc image or optical device.
package iso9660

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/iso9660/descriptor"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/directory"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/extent"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/parser"
	"github.com/bgrewell/dvd-kit/pkg/logging"
)

var ErrNotExist = errors.New("file does not exist in image")

// Open reads the volume descriptors of the filesystem behind isoReader.
func Open(isoReader io.ReaderAt, logger *logging.Logger) (*ISO9660, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	p := parser.NewParser(isoReader, logger)
	pvd, err := p.GetPrimaryVolumeDescriptor()
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened ISO9660 volume", "volume", pvd.VolumeIdentifier, "sectors", pvd.VolumeSpaceSize)

	return &ISO9660{
		isoReader: isoReader,
		parser:    p,
		pvd:       pvd,
		logger:    logger,
	}, nil
}

// ISO9660 represents an ISO9660 filesystem.
type ISO9660 struct {
	isoReader io.ReaderAt
	parser    *parser.Parser
	pvd       *descriptor.PrimaryVolumeDescriptor
	logger    *logging.Logger
}

func (iso *ISO9660) VolumeIdentifier() string {
	return iso.pvd.VolumeIdentifier
}

func (iso *ISO9660) PrimaryVolumeDescriptor() *descriptor.PrimaryVolumeDescriptor {
	return iso.pvd
}

// ReadDir lists the entries of the directory at dirPath, without "." and "..".
// Path components are matched case-insensitively.
func (iso *ISO9660) ReadDir(dirPath string) ([]*directory.DirectoryRecord, error) {
	dir, err := iso.lookup(dirPath)
	if err != nil {
		return nil, err
	}
	if !dir.IsDirectory() {
		return nil, fmt.Errorf("%s is not a directory", dirPath)
	}

	records, err := iso.parser.ReadDirectoryRecords(dir.LocationOfExtent, dir.DataLength)
	if err != nil {
		return nil, err
	}
	entries := records[:0]
	for _, record := range records {
		if !record.IsSpecial() {
			entries = append(entries, record)
		}
	}
	return entries, nil
}

// File locates the regular file at filePath.
func (iso *ISO9660) File(filePath string) (*extent.FileExtent, error) {
	record, err := iso.lookup(filePath)
	if err != nil {
		return nil, err
	}
	if record.IsDirectory() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}
	if record.FileFlags.MultiExtent {
		return nil, fmt.Errorf("%s: multi-extent files are not supported", filePath)
	}

	return &extent.FileExtent{
		FileIdentifier: record.Name(),
		LocationOfFile: record.LocationOfExtent,
		SizeOfFile:     record.DataLength,
		Reader:         iso.isoReader,
	}, nil
}

func (iso *ISO9660) lookup(p string) (*directory.DirectoryRecord, error) {
	current := iso.pvd.RootDirectoryRecord
	for _, component := range strings.Split(strings.Trim(p, "/"), "/") {
		if component == "" {
			continue
		}
		if !current.IsDirectory() {
			return nil, fmt.Errorf("%s: %s is not a directory", p, current.Name())
		}
		records, err := iso.parser.ReadDirectoryRecords(current.LocationOfExtent, current.DataLength)
		if err != nil {
			return nil, err
		}

		var found *directory.DirectoryRecord
		for _, record := range records {
			if !record.IsSpecial() && strings.EqualFold(record.Name(), component) {
				found = record
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("%s: %w", p, ErrNotExist)
		}
		current = found
	}
	return current, nil
}
