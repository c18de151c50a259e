package ifo

import (
	"fmt"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

// VTSI_MAT byte positions.
const (
	vtsTitleVOBSector = 0xc4
	vtsPTTSrptSector  = 0xc8
	vtsPGCITSector    = 0xcc
	vtsVideoAttr      = 0x200
	vtsNrOfAudio      = 0x202
	vtsNrOfSubpics    = 0x254
	tableHeaderSize   = 8
	pttEntrySize      = 4
	pgciSrpSize       = 8
)

// VTS is one Video Title Set: the stream attributes shared by its titles,
// the chapter table of each title and the program chains.
type VTS struct {
	Identifier     string          `json:"identifier"`
	TitleVOBSector uint32          `json:"title_vob_sector"`
	Video          VideoAttributes `json:"video"`
	AudioStreams   uint16          `json:"audio_streams"`
	Subpictures    uint16          `json:"subpictures"`
	// PartsOfTitle is indexed by VTS title number minus one.
	PartsOfTitle [][]PartOfTitle `json:"parts_of_title"`
	PGCs         []*PGC          `json:"pgcs"`
}

// PartOfTitle maps a chapter to the program chain and program that start it.
type PartOfTitle struct {
	PGC     uint16 `json:"pgc"`
	Program uint16 `json:"program"`
}

// ParseVTS decodes the contents of a VTS_nn_0.IFO file.
func ParseVTS(name string, data []byte) (*VTS, error) {
	r := &reader{data: data, name: name}

	id := string(r.bytes(0, len(consts.DVD_VTS_IDENTIFIER)))
	if r.err != nil {
		return nil, r.err
	}
	if id != consts.DVD_VTS_IDENTIFIER {
		return nil, fmt.Errorf("%s: identifier %q: %w", name, id, ErrNotVTS)
	}

	vts := &VTS{
		Identifier:     id,
		TitleVOBSector: r.u32(vtsTitleVOBSector),
		Video:          parseVideoAttributes(r.u8(vtsVideoAttr), r.u8(vtsVideoAttr+1)),
		AudioStreams:   r.u16(vtsNrOfAudio),
		Subpictures:    r.u16(vtsNrOfSubpics),
	}
	if r.err != nil {
		return nil, r.err
	}

	vts.PartsOfTitle = parsePTTSrpt(r, sectorOffset(r.u32(vtsPTTSrptSector)))
	if r.err != nil {
		return nil, fmt.Errorf("failed to parse chapter table: %w", r.err)
	}

	vts.PGCs = parsePGCIT(r, sectorOffset(r.u32(vtsPGCITSector)))
	if r.err != nil {
		return nil, fmt.Errorf("failed to parse program chain table: %w", r.err)
	}

	return vts, nil
}

// TitlePGC returns the program chain played by VTS title ttn: the PGC named
// by the title's first chapter entry.
func (v *VTS) TitlePGC(ttn int) (*PGC, error) {
	if ttn < 1 || ttn > len(v.PartsOfTitle) {
		return nil, fmt.Errorf("title %d not in chapter table of %d titles", ttn, len(v.PartsOfTitle))
	}
	ptts := v.PartsOfTitle[ttn-1]
	if len(ptts) == 0 {
		return nil, fmt.Errorf("title %d has no chapters", ttn)
	}
	pgcn := int(ptts[0].PGC)
	if pgcn < 1 || pgcn > len(v.PGCs) {
		return nil, fmt.Errorf("title %d refers to program chain %d of %d", ttn, pgcn, len(v.PGCs))
	}
	return v.PGCs[pgcn-1], nil
}

// parsePTTSrpt reads VTS_PTT_SRPT. The entry count of each title is the
// distance to the next title's offset, or to the table end for the last.
func parsePTTSrpt(r *reader, base int) [][]PartOfTitle {
	titles := int(r.u16(base))
	end := int(r.u32(base+4)) + 1

	offsets := make([]int, titles)
	for i := range offsets {
		offsets[i] = int(r.u32(base + tableHeaderSize + i*4))
	}

	parts := make([][]PartOfTitle, titles)
	for i := range parts {
		next := end
		if i+1 < titles {
			next = offsets[i+1]
		}
		count := (next - offsets[i]) / pttEntrySize
		for j := 0; j < count; j++ {
			off := base + offsets[i] + j*pttEntrySize
			parts[i] = append(parts[i], PartOfTitle{PGC: r.u16(off), Program: r.u16(off + 2)})
		}
	}
	return parts
}

// parsePGCIT reads VTS_PGCIT and every program chain it points at.
func parsePGCIT(r *reader, base int) []*PGC {
	count := int(r.u16(base))
	pgcs := make([]*PGC, 0, count)
	for i := 0; i < count && r.err == nil; i++ {
		srp := base + tableHeaderSize + i*pgciSrpSize
		pgc := parsePGC(r, base+int(r.u32(srp+4)))
		pgc.EntryID = r.u8(srp)
		pgcs = append(pgcs, pgc)
	}
	return pgcs
}
