package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/descriptor"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/directory"
	"github.com/bgrewell/dvd-kit/pkg/logging"
)

// Upper bound on the volume descriptor set walk so a damaged image without a
// terminator can't keep the parser reading forever.
const maxVolumeDescriptors = 64

var ErrNoPrimaryDescriptor = errors.New("no primary volume descriptor found")

func NewParser(reader io.ReaderAt, logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Parser{
		reader: reader,
		logger: logger,
	}
}

type Parser struct {
	reader io.ReaderAt
	logger *logging.Logger
}

// GetPrimaryVolumeDescriptor walks the volume descriptor set starting at
// sector 16 and returns the first primary descriptor.
func (p *Parser) GetPrimaryVolumeDescriptor() (*descriptor.PrimaryVolumeDescriptor, error) {
	var buf [consts.ISO9660_SECTOR_SIZE]byte

	for i := 0; i < maxVolumeDescriptors; i++ {
		sector := int64(consts.ISO9660_SYSTEM_AREA_SECTORS + i)
		n, err := p.reader.ReadAt(buf[:], sector*consts.ISO9660_SECTOR_SIZE)
		if n != len(buf) {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("failed to read volume descriptor at sector %d: %w", sector, err)
		}

		header := descriptor.VolumeDescriptorHeader{}
		if err = header.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(buf[:7])); err != nil {
			return nil, fmt.Errorf("invalid ISO9660 signature at sector %d: %w", sector, err)
		}
		p.logger.Trace("Read volume descriptor", "sector", sector, "type", header.VolumeDescriptorType)

		switch header.VolumeDescriptorType {
		case descriptor.TYPE_TERMINATOR_DESCRIPTOR:
			return nil, ErrNoPrimaryDescriptor
		case descriptor.TYPE_PRIMARY_DESCRIPTOR:
			pvd := &descriptor.PrimaryVolumeDescriptor{}
			if err = pvd.Unmarshal(buf); err != nil {
				return nil, err
			}
			return pvd, nil
		}
	}

	return nil, ErrNoPrimaryDescriptor
}

// ReadDirectoryRecords reads the directory extent at lba and returns its
// records, including the "." and ".." entries. Records never cross a sector
// boundary; a zero length byte pads out the rest of a sector.
func (p *Parser) ReadDirectoryRecords(lba uint32, dataLength uint32) ([]*directory.DirectoryRecord, error) {
	const sectorSize = consts.ISO9660_SECTOR_SIZE
	totalBytes := int(dataLength)

	buf := make([]byte, totalBytes)
	if n, err := p.reader.ReadAt(buf, int64(lba)*sectorSize); n != totalBytes {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read directory sector at LBA %d: %w", lba, err)
	}

	var records []*directory.DirectoryRecord
	index := 0
	for index < totalBytes {
		length := int(buf[index])

		if length == 0 {
			index = (index/sectorSize + 1) * sectorSize
			continue
		}

		sectorEnd := (index/sectorSize + 1) * sectorSize
		if index+length > sectorEnd || index+length > totalBytes {
			return nil, fmt.Errorf("directory record at LBA %d offset %d overruns its sector", lba, index)
		}

		dr := &directory.DirectoryRecord{}
		if err := dr.Unmarshal(buf[index : index+length]); err != nil {
			return nil, fmt.Errorf("failed to parse directory record: %w", err)
		}
		records = append(records, dr)
		index += length
	}

	p.logger.Trace("Read directory records", "lba", lba, "count", len(records))
	return records, nil
}
