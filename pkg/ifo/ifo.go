// Package ifo parses the DVD-Video navigation files: the Video Manager
// (VIDEO_TS.IFO) and the Video Title Set information files (VTS_nn_0.IFO).
//
// All multi-byte fields are big-endian. Table offsets recorded as sector
// numbers are relative to the start of the IFO file.
package ifo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

var (
	ErrNotVMG    = errors.New("not a video manager IFO")
	ErrNotVTS    = errors.New("not a video title set IFO")
	ErrTruncated = errors.New("ifo data truncated")
)

// reader is a bounds checked big-endian view over an IFO file.
type reader struct {
	data []byte
	name string
	err  error
}

func (r *reader) check(off, n int) bool {
	if r.err != nil {
		return false
	}
	if off < 0 || n < 0 || off+n > len(r.data) {
		r.err = fmt.Errorf("%s: need %d bytes at offset 0x%x of %d: %w", r.name, n, off, len(r.data), ErrTruncated)
		return false
	}
	return true
}

func (r *reader) u8(off int) uint8 {
	if !r.check(off, 1) {
		return 0
	}
	return r.data[off]
}

func (r *reader) u16(off int) uint16 {
	if !r.check(off, 2) {
		return 0
	}
	return binary.BigEndian.Uint16(r.data[off:])
}

func (r *reader) u32(off int) uint32 {
	if !r.check(off, 4) {
		return 0
	}
	return binary.BigEndian.Uint32(r.data[off:])
}

func (r *reader) bytes(off, n int) []byte {
	if !r.check(off, n) {
		return nil
	}
	return r.data[off : off+n]
}

func (r *reader) time(off int) [4]byte {
	var b [4]byte
	copy(b[:], r.bytes(off, 4))
	return b
}

// sectorOffset converts a table pointer stored as a sector number.
func sectorOffset(sector uint32) int {
	return int(sector) * consts.DVD_VIDEO_LB_LEN
}
