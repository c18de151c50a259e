package descriptor

import (
	"fmt"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/directory"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/encoding"
)

// Byte positions inside the 2048 byte Primary Volume Descriptor.
const (
	pvdSystemIdentifier       = 8
	pvdVolumeIdentifier       = 40
	pvdVolumeSpaceSize        = 80
	pvdVolumeSetSize          = 120
	pvdVolumeSequenceNumber   = 124
	pvdLogicalBlockSize       = 128
	pvdRootDirectoryRecord    = 156
	pvdVolumeSetIdentifier    = 190
	pvdPublisherIdentifier    = 318
	pvdDataPreparerIdentifier = 446
	pvdApplicationIdentifier  = 574
	pvdFileStructureVersion   = 881
)

// PrimaryVolumeDescriptor holds the parts of the PVD needed to walk a DVD
// filesystem: the volume label, its geometry and the root directory.
// Path tables, dates and the application use area are not interpreted.
type PrimaryVolumeDescriptor struct {
	VolumeDescriptorHeader
	SystemIdentifier       string                     `json:"system_identifier"`
	VolumeIdentifier       string                     `json:"volume_identifier"`
	VolumeSpaceSize        uint32                     `json:"volume_space_size"`
	VolumeSetSize          uint16                     `json:"volume_set_size"`
	VolumeSequenceNumber   uint16                     `json:"volume_sequence_number"`
	LogicalBlockSize       uint16                     `json:"logical_block_size"`
	RootDirectoryRecord    *directory.DirectoryRecord `json:"root_directory_record"`
	VolumeSetIdentifier    string                     `json:"volume_set_identifier"`
	PublisherIdentifier    string                     `json:"publisher_identifier"`
	DataPreparerIdentifier string                     `json:"data_preparer_identifier"`
	ApplicationIdentifier  string                     `json:"application_identifier"`
	FileStructureVersion   uint8                      `json:"file_structure_version"`
}

// Marshal writes the descriptor into a full sector. Uninterpreted fields are
// left zero.
func (pvd *PrimaryVolumeDescriptor) Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error) {
	var data [consts.ISO9660_SECTOR_SIZE]byte
	if pvd.RootDirectoryRecord == nil {
		return data, fmt.Errorf("rootDirectoryRecord is nil")
	}

	header := pvd.VolumeDescriptorHeader.Marshal()
	copy(data[:], header[:])

	copy(data[pvdSystemIdentifier:], padString(pvd.SystemIdentifier, 32))
	copy(data[pvdVolumeIdentifier:], padString(pvd.VolumeIdentifier, 32))
	spaceSize := encoding.MarshalBothByteOrders32(pvd.VolumeSpaceSize)
	copy(data[pvdVolumeSpaceSize:], spaceSize[:])
	setSize := encoding.MarshalBothByteOrders16(pvd.VolumeSetSize)
	copy(data[pvdVolumeSetSize:], setSize[:])
	seq := encoding.MarshalBothByteOrders16(pvd.VolumeSequenceNumber)
	copy(data[pvdVolumeSequenceNumber:], seq[:])
	blockSize := encoding.MarshalBothByteOrders16(pvd.LogicalBlockSize)
	copy(data[pvdLogicalBlockSize:], blockSize[:])

	root, err := pvd.RootDirectoryRecord.Marshal()
	if err != nil {
		return data, fmt.Errorf("failed to marshal rootDirectoryRecord: %w", err)
	}
	if len(root) != directory.MinRecordLength {
		return data, fmt.Errorf("root directory record must be %d bytes, got %d", directory.MinRecordLength, len(root))
	}
	copy(data[pvdRootDirectoryRecord:], root)

	copy(data[pvdVolumeSetIdentifier:], padString(pvd.VolumeSetIdentifier, 128))
	copy(data[pvdPublisherIdentifier:], padString(pvd.PublisherIdentifier, 128))
	copy(data[pvdDataPreparerIdentifier:], padString(pvd.DataPreparerIdentifier, 128))
	copy(data[pvdApplicationIdentifier:], padString(pvd.ApplicationIdentifier, 128))
	data[pvdFileStructureVersion] = pvd.FileStructureVersion

	return data, nil
}

// Unmarshal decodes a Primary Volume Descriptor sector.
func (pvd *PrimaryVolumeDescriptor) Unmarshal(data [consts.ISO9660_SECTOR_SIZE]byte) error {
	if err := pvd.VolumeDescriptorHeader.Unmarshal([consts.ISO9660_VOLUME_DESC_HEADER_SIZE]byte(data[:7])); err != nil {
		return err
	}
	if pvd.VolumeDescriptorType != TYPE_PRIMARY_DESCRIPTOR {
		return fmt.Errorf("volume descriptor type %d is not a primary volume descriptor", pvd.VolumeDescriptorType)
	}

	pvd.SystemIdentifier = trimField(data[pvdSystemIdentifier : pvdSystemIdentifier+32])
	pvd.VolumeIdentifier = trimField(data[pvdVolumeIdentifier : pvdVolumeIdentifier+32])

	var err error
	if pvd.VolumeSpaceSize, err = encoding.UnmarshalUint32LSBMSB([8]byte(data[pvdVolumeSpaceSize : pvdVolumeSpaceSize+8])); err != nil {
		return fmt.Errorf("failed to unmarshal volumeSpaceSize: %w", err)
	}
	if pvd.VolumeSetSize, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[pvdVolumeSetSize : pvdVolumeSetSize+4])); err != nil {
		return fmt.Errorf("failed to unmarshal volumeSetSize: %w", err)
	}
	if pvd.VolumeSequenceNumber, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[pvdVolumeSequenceNumber : pvdVolumeSequenceNumber+4])); err != nil {
		return fmt.Errorf("failed to unmarshal volumeSequenceNumber: %w", err)
	}
	if pvd.LogicalBlockSize, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[pvdLogicalBlockSize : pvdLogicalBlockSize+4])); err != nil {
		return fmt.Errorf("failed to unmarshal logicalBlockSize: %w", err)
	}
	if pvd.LogicalBlockSize != consts.ISO9660_SECTOR_SIZE {
		return fmt.Errorf("unsupported logical block size %d", pvd.LogicalBlockSize)
	}

	pvd.RootDirectoryRecord = new(directory.DirectoryRecord)
	if err = pvd.RootDirectoryRecord.Unmarshal(data[pvdRootDirectoryRecord : pvdRootDirectoryRecord+directory.MinRecordLength]); err != nil {
		return fmt.Errorf("failed to unmarshal rootDirectoryRecord: %w", err)
	}

	pvd.VolumeSetIdentifier = trimField(data[pvdVolumeSetIdentifier : pvdVolumeSetIdentifier+128])
	pvd.PublisherIdentifier = trimField(data[pvdPublisherIdentifier : pvdPublisherIdentifier+128])
	pvd.DataPreparerIdentifier = trimField(data[pvdDataPreparerIdentifier : pvdDataPreparerIdentifier+128])
	pvd.ApplicationIdentifier = trimField(data[pvdApplicationIdentifier : pvdApplicationIdentifier+128])
	pvd.FileStructureVersion = data[pvdFileStructureVersion]

	return nil
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
