package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/iso9660/encoding"
)

// Minimum size of a directory record: the fixed 33 byte header plus a one
// byte identifier.
const MinRecordLength = 34

// FileFlags is the File Flags byte of a directory record. Bits 5 and 6 are
// reserved and must be zero.
type FileFlags struct {
	Hidden         bool `json:"hidden"`
	Directory      bool `json:"directory"`
	AssociatedFile bool `json:"associated_file"`
	RecordFormat   bool `json:"record_format"`
	Protection     bool `json:"protection"`
	MultiExtent    bool `json:"multi_extent"`
}

// Marshal packs the flags into their on-disc byte.
func (ff FileFlags) Marshal() byte {
	var b byte
	bits := [...]struct {
		set  bool
		mask byte
	}{
		{ff.Hidden, 0x01},
		{ff.Directory, 0x02},
		{ff.AssociatedFile, 0x04},
		{ff.RecordFormat, 0x08},
		{ff.Protection, 0x10},
		{ff.MultiExtent, 0x80},
	}
	for _, bit := range bits {
		if bit.set {
			b |= bit.mask
		}
	}
	return b
}

// UnmarshalFileFlags unpacks a File Flags byte.
func UnmarshalFileFlags(b byte) (FileFlags, error) {
	if b&0x60 != 0 {
		return FileFlags{}, fmt.Errorf("reserved file flag bits set: 0x%02X", b)
	}
	return FileFlags{
		Hidden:         b&0x01 != 0,
		Directory:      b&0x02 != 0,
		AssociatedFile: b&0x04 != 0,
		RecordFormat:   b&0x08 != 0,
		Protection:     b&0x10 != 0,
		MultiExtent:    b&0x80 != 0,
	}, nil
}

// DirectoryRecord is one ECMA-119 directory record. Only the fields needed to
// locate the VIDEO_TS files of a disc are interpreted; System Use data is kept
// verbatim.
type DirectoryRecord struct {
	LengthOfDirectoryRecord       uint8     `json:"length_of_directory_record"`
	ExtendedAttributeRecordLength uint8     `json:"extended_attribute_record_length"`
	LocationOfExtent              uint32    `json:"location_of_extent"`
	DataLength                    uint32    `json:"data_length"`
	RecordingDateAndTime          time.Time `json:"recording_date_and_time"`
	FileFlags                     FileFlags `json:"file_flags"`
	FileUnitSize                  uint8     `json:"file_unit_size"`
	InterleaveGapSize             uint8     `json:"interleave_gap_size"`
	VolumeSequenceNumber          uint16    `json:"volume_sequence_number"`
	FileIdentifier                string    `json:"file_identifier"`
	SystemUse                     []byte    `json:"system_use"`
}

// IsDirectory reports whether the record describes a directory.
func (dr *DirectoryRecord) IsDirectory() bool {
	return dr.FileFlags.Directory
}

// IsSpecial checks for "." or ".."
func (dr *DirectoryRecord) IsSpecial() bool {
	return dr.FileIdentifier == "\x00" || dr.FileIdentifier == "\x01"
}

// Name returns the identifier with the version suffix and any trailing
// separator removed, e.g. "VTS_01_1.VOB;1" becomes "VTS_01_1.VOB".
func (dr *DirectoryRecord) Name() string {
	switch dr.FileIdentifier {
	case "\x00":
		return "."
	case "\x01":
		return ".."
	}
	name := dr.FileIdentifier
	if i := strings.Index(name, consts.ISO9660_SEPARATOR_2); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(name, consts.ISO9660_SEPARATOR_1)
}

// Marshal converts the record into its on-disc form and updates
// LengthOfDirectoryRecord.
func (dr *DirectoryRecord) Marshal() ([]byte, error) {
	if len(dr.FileIdentifier) == 0 || len(dr.FileIdentifier) > 222 {
		return nil, fmt.Errorf("invalid file identifier length %d", len(dr.FileIdentifier))
	}

	buf := make([]byte, 0, MinRecordLength+len(dr.FileIdentifier)+len(dr.SystemUse))
	buf = append(buf, 0, dr.ExtendedAttributeRecordLength)

	loc := encoding.MarshalBothByteOrders32(dr.LocationOfExtent)
	buf = append(buf, loc[:]...)
	size := encoding.MarshalBothByteOrders32(dr.DataLength)
	buf = append(buf, size[:]...)

	recorded, err := encoding.MarshalRecordingDateTime(dr.RecordingDateAndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RecordingDateAndTime: %w", err)
	}
	buf = append(buf, recorded[:]...)
	buf = append(buf, dr.FileFlags.Marshal(), dr.FileUnitSize, dr.InterleaveGapSize)

	seq := encoding.MarshalBothByteOrders16(dr.VolumeSequenceNumber)
	buf = append(buf, seq[:]...)

	buf = append(buf, uint8(len(dr.FileIdentifier)))
	buf = append(buf, dr.FileIdentifier...)
	if len(dr.FileIdentifier)%2 == 0 {
		buf = append(buf, 0x00)
	}
	buf = append(buf, dr.SystemUse...)

	if len(buf) > 255 {
		return nil, fmt.Errorf("directory record too long: %d bytes", len(buf))
	}
	dr.LengthOfDirectoryRecord = uint8(len(buf))
	buf[0] = dr.LengthOfDirectoryRecord

	return buf, nil
}

// Unmarshal decodes a record from data, which must hold at least
// LengthOfDirectoryRecord bytes.
func (dr *DirectoryRecord) Unmarshal(data []byte) error {
	if len(data) < MinRecordLength {
		return fmt.Errorf("data too short to contain a DirectoryRecord: %d bytes", len(data))
	}
	length := int(data[0])
	if length < MinRecordLength || len(data) < length {
		return fmt.Errorf("data length %d is less than expected record length %d", len(data), length)
	}
	dr.LengthOfDirectoryRecord = data[0]
	dr.ExtendedAttributeRecordLength = data[1]

	var err error
	if dr.LocationOfExtent, err = encoding.UnmarshalUint32LSBMSB([8]byte(data[2:10])); err != nil {
		return fmt.Errorf("failed to unmarshal Location Of Extent: %w", err)
	}
	if dr.DataLength, err = encoding.UnmarshalUint32LSBMSB([8]byte(data[10:18])); err != nil {
		return fmt.Errorf("failed to unmarshal Data Length: %w", err)
	}
	if dr.RecordingDateAndTime, err = encoding.UnmarshalRecordingDateTime([7]byte(data[18:25])); err != nil {
		return fmt.Errorf("failed to unmarshal Recording Date and Time: %w", err)
	}
	if dr.FileFlags, err = UnmarshalFileFlags(data[25]); err != nil {
		return fmt.Errorf("failed to unmarshal File Flags: %w", err)
	}
	dr.FileUnitSize = data[26]
	dr.InterleaveGapSize = data[27]
	if dr.VolumeSequenceNumber, err = encoding.UnmarshalUint16LSBMSB([4]byte(data[28:32])); err != nil {
		return fmt.Errorf("failed to unmarshal Volume Sequence Number: %w", err)
	}

	idLen := int(data[32])
	offset := 33
	if idLen == 0 || offset+idLen > length {
		return fmt.Errorf("insufficient data for File Identifier of length %d", idLen)
	}
	dr.FileIdentifier = string(data[offset : offset+idLen])
	offset += idLen
	if idLen%2 == 0 {
		offset++
	}

	// Copy rather than alias so a reused read buffer can't change it later.
	dr.SystemUse = nil
	if offset < length {
		dr.SystemUse = append([]byte(nil), data[offset:length]...)
	}

	return nil
}
