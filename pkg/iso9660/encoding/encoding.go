package encoding

import (
	"encoding/binary"
	"fmt"
	"time"
)

// MarshalBothByteOrders32 encodes val little-endian followed by big-endian,
// the ISO9660 "both-byte order" layout for 32-bit fields.
func MarshalBothByteOrders32(val uint32) [8]byte {
	var data [8]byte
	binary.LittleEndian.PutUint32(data[0:4], val)
	binary.BigEndian.PutUint32(data[4:8], val)
	return data
}

// UnmarshalUint32LSBMSB decodes a both-byte order 32-bit field. Both halves
// must agree.
func UnmarshalUint32LSBMSB(data [8]byte) (uint32, error) {
	little := binary.LittleEndian.Uint32(data[0:4])
	big := binary.BigEndian.Uint32(data[4:8])
	if little != big {
		return 0, fmt.Errorf("mismatched both-byte orders: little-endian value %d != big-endian value %d", little, big)
	}
	return little, nil
}

// MarshalBothByteOrders16 encodes val little-endian followed by big-endian.
func MarshalBothByteOrders16(val uint16) [4]byte {
	var data [4]byte
	binary.LittleEndian.PutUint16(data[0:2], val)
	binary.BigEndian.PutUint16(data[2:4], val)
	return data
}

// UnmarshalUint16LSBMSB decodes a both-byte order 16-bit field. Both halves
// must agree.
func UnmarshalUint16LSBMSB(data [4]byte) (uint16, error) {
	little := binary.LittleEndian.Uint16(data[0:2])
	big := binary.BigEndian.Uint16(data[2:4])
	if little != big {
		return 0, fmt.Errorf("mismatched both-byte orders: little-endian value %d != big-endian value %d", little, big)
	}
	return little, nil
}

// MarshalRecordingDateTime encodes t in the 7-byte directory record date
// format: years since 1900, month, day, hour, minute, second and the GMT
// offset in 15 minute intervals.
func MarshalRecordingDateTime(t time.Time) ([7]byte, error) {
	var b [7]byte

	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	if year < 1900 || year > 2155 {
		return b, fmt.Errorf("year %d out of range for Recording Date and Time (must be between 1900 and 2155)", year)
	}
	b[0] = byte(year - 1900)
	b[1] = byte(month)
	b[2] = byte(day)
	b[3] = byte(hour)
	b[4] = byte(minute)
	b[5] = byte(second)

	_, offsetSec := t.Zone()
	offset15 := offsetSec / (15 * 60)
	if offset15 < -48 || offset15 > 52 {
		return b, fmt.Errorf("time zone offset %d (in 15-minute intervals: %d) is out of allowed range", offsetSec, offset15)
	}
	b[6] = byte(int8(offset15))
	return b, nil
}

// UnmarshalRecordingDateTime decodes a 7-byte directory record date. An all
// zero field means the date is not specified and yields the zero time.
func UnmarshalRecordingDateTime(b [7]byte) (time.Time, error) {
	if b == [7]byte{} {
		return time.Time{}, nil
	}
	if b[1] < 1 || b[1] > 12 {
		return time.Time{}, fmt.Errorf("invalid month %d in Recording Date and Time", b[1])
	}

	offsetSec := int(int8(b[6])) * 15 * 60
	loc := time.FixedZone("ISO9660", offsetSec)
	return time.Date(int(b[0])+1900, time.Month(b[1]), int(b[2]), int(b[3]), int(b[4]), int(b[5]), 0, loc), nil
}
