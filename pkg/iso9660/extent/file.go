package extent

import (
	"fmt"
	"io"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

// FileExtent is the contiguous run of sectors holding one file on the image.
type FileExtent struct {
	FileIdentifier string `json:"file_identifier"`
	LocationOfFile uint32 `json:"location_of_file"`
	SizeOfFile     uint32 `json:"size_of_file"`
	Reader         io.ReaderAt
}

func (f FileExtent) Name() string {
	return f.FileIdentifier
}

// Offset is the byte position of the extent on the image.
func (f FileExtent) Offset() int64 {
	return int64(f.LocationOfFile) * consts.ISO9660_SECTOR_SIZE
}

func (f FileExtent) Size() int64 {
	return int64(f.SizeOfFile)
}

// Section returns a reader bounded to the file's bytes.
func (f FileExtent) Section() *io.SectionReader {
	return io.NewSectionReader(f.Reader, f.Offset(), f.Size())
}

// ReadAll reads the whole file into memory. Used for the small IFO files.
func (f FileExtent) ReadAll() ([]byte, error) {
	buf := make([]byte, f.SizeOfFile)

	n, err := f.Reader.ReadAt(buf, f.Offset())
	if n != len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read file extent %s: got %d of %d bytes: %w", f.FileIdentifier, n, f.SizeOfFile, err)
	}

	return buf, nil
}
