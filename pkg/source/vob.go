package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

const blockSize = consts.DVD_VIDEO_LB_LEN

// Part is one VOB file of a title set.
type Part struct {
	Name   string
	Reader io.ReaderAt
	Size   int64
}

type segment struct {
	Part
	first  int64 // first block of the part in the title address space
	blocks int64
}

// VOBReader addresses the parts of a title set's VOBs as one run of 2048
// byte blocks, the address space cell sectors are expressed in.
type VOBReader struct {
	segments []segment
	blocks   int64
	closers  []io.Closer
}

// NewVOBReader joins parts in order. A trailing partial block in a part is
// not addressable.
func NewVOBReader(parts ...Part) *VOBReader {
	v := &VOBReader{}
	for _, p := range parts {
		blocks := p.Size / blockSize
		v.segments = append(v.segments, segment{Part: p, first: v.blocks, blocks: blocks})
		v.blocks += blocks
	}
	return v
}

// Blocks is the number of addressable blocks.
func (v *VOBReader) Blocks() int64 {
	return v.blocks
}

// ReadBlocks reads count blocks starting at sector into buf and returns how
// many whole blocks were read. Fewer than count are returned together with
// an error when the range runs past the end or a part fails to read.
func (v *VOBReader) ReadBlocks(sector uint32, count int, buf []byte) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	if len(buf) < count*blockSize {
		return 0, fmt.Errorf("buffer of %d bytes too small for %d blocks", len(buf), count)
	}

	block := int64(sector)
	read := 0
	for read < count {
		seg := v.find(block)
		if seg == nil {
			return read, io.EOF
		}

		n := min(int64(count-read), seg.first+seg.blocks-block)
		dst := buf[read*blockSize : (read+int(n))*blockSize]
		got, err := seg.Reader.ReadAt(dst, (block-seg.first)*blockSize)
		read += got / blockSize
		block += int64(got / blockSize)
		if got != len(dst) {
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return read, fmt.Errorf("failed to read %s: %w", seg.Name, err)
		}
	}
	return read, nil
}

func (v *VOBReader) find(block int64) *segment {
	for i := range v.segments {
		s := &v.segments[i]
		if block >= s.first && block < s.first+s.blocks {
			return s
		}
	}
	return nil
}

// Close releases the files backing the reader.
func (v *VOBReader) Close() error {
	var errs []error
	for _, c := range v.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	v.closers = nil
	return errors.Join(errs...)
}
