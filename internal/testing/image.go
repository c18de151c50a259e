package testing

import (
	"os"
	"strings"
	"time"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/descriptor"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/directory"
)

var recorded = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

// ISO renders the disc as an ISO9660 image: the descriptor set at sector
// 16, the root directory, a VIDEO_TS directory and the files in order.
func (d *Disc) ISO() ([]byte, error) {
	files := d.Files()

	const (
		pvdSector  = consts.ISO9660_SYSTEM_AREA_SECTORS
		rootSector = pvdSector + 2
	)

	// File records first so the VIDEO_TS directory size is known.
	var fileRecords []*directory.DirectoryRecord
	for _, f := range files {
		fileRecords = append(fileRecords, &directory.DirectoryRecord{
			DataLength:           uint32(len(f.Data)),
			RecordingDateAndTime: recorded,
			VolumeSequenceNumber: 1,
			FileIdentifier:       strings.ToUpper(f.Name) + ";1",
		})
	}
	videoTSSectors, err := directorySectors(fileRecords)
	if err != nil {
		return nil, err
	}

	videoTSSector := uint32(rootSector + 1)
	next := videoTSSector + uint32(videoTSSectors)
	for i, f := range files {
		fileRecords[i].LocationOfExtent = next
		next += uint32(roundUp(len(f.Data)) / sectorSize)
	}
	total := next

	root := dirRecord("\x00", rootSector, 1)
	videoTS := dirRecord(consts.DVD_VIDEO_TS, videoTSSector, videoTSSectors)

	image := make([]byte, int(total)*sectorSize)

	pvd := &descriptor.PrimaryVolumeDescriptor{
		VolumeDescriptorHeader: descriptor.VolumeDescriptorHeader{
			VolumeDescriptorType:    descriptor.TYPE_PRIMARY_DESCRIPTOR,
			StandardIdentifier:      consts.ISO9660_STD_IDENTIFIER,
			VolumeDescriptorVersion: consts.ISO9660_VOLUME_DESC_VERSION,
		},
		VolumeIdentifier:     d.VolumeID,
		VolumeSpaceSize:      total,
		VolumeSetSize:        1,
		VolumeSequenceNumber: 1,
		LogicalBlockSize:     sectorSize,
		RootDirectoryRecord:  root,
		FileStructureVersion: 1,
	}
	pvdBytes, err := pvd.Marshal()
	if err != nil {
		return nil, err
	}
	copy(image[pvdSector*sectorSize:], pvdBytes[:])

	terminator := descriptor.VolumeDescriptorHeader{
		VolumeDescriptorType:    descriptor.TYPE_TERMINATOR_DESCRIPTOR,
		StandardIdentifier:      consts.ISO9660_STD_IDENTIFIER,
		VolumeDescriptorVersion: consts.ISO9660_VOLUME_DESC_VERSION,
	}
	termBytes := terminator.Marshal()
	copy(image[(pvdSector+1)*sectorSize:], termBytes[:])

	rootEntries := []*directory.DirectoryRecord{
		dirRecord("\x00", rootSector, 1),
		dirRecord("\x01", rootSector, 1),
		videoTS,
	}
	if err = writeDirectory(image, rootSector, rootEntries); err != nil {
		return nil, err
	}

	videoTSEntries := append([]*directory.DirectoryRecord{
		dirRecord("\x00", videoTSSector, videoTSSectors),
		dirRecord("\x01", rootSector, 1),
	}, fileRecords...)
	if err = writeDirectory(image, videoTSSector, videoTSEntries); err != nil {
		return nil, err
	}

	for i, f := range files {
		copy(image[int(fileRecords[i].LocationOfExtent)*sectorSize:], f.Data)
	}
	return image, nil
}

// WriteISO writes the image to path.
func (d *Disc) WriteISO(path string) error {
	image, err := d.ISO()
	if err != nil {
		return err
	}
	return os.WriteFile(path, image, 0o644)
}

func dirRecord(id string, sector uint32, sectors int) *directory.DirectoryRecord {
	return &directory.DirectoryRecord{
		LocationOfExtent:     sector,
		DataLength:           uint32(sectors * sectorSize),
		RecordingDateAndTime: recorded,
		FileFlags:            directory.FileFlags{Directory: true},
		VolumeSequenceNumber: 1,
		FileIdentifier:       id,
	}
}

// directorySectors is the number of sectors the records need, counting the
// "." and ".." entries and never splitting a record across sectors.
func directorySectors(records []*directory.DirectoryRecord) (int, error) {
	sectors, used := 1, 2*directory.MinRecordLength
	for _, r := range records {
		b, err := r.Marshal()
		if err != nil {
			return 0, err
		}
		if used+len(b) > sectorSize {
			sectors++
			used = 0
		}
		used += len(b)
	}
	return sectors, nil
}

func writeDirectory(image []byte, sector uint32, records []*directory.DirectoryRecord) error {
	off := int(sector) * sectorSize
	used := 0
	for _, r := range records {
		b, err := r.Marshal()
		if err != nil {
			return err
		}
		if used+len(b) > sectorSize {
			off += sectorSize - used
			used = 0
		}
		copy(image[off:], b)
		off += len(b)
		used += len(b)
	}
	return nil
}
