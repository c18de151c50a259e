package ifo

import (
	"fmt"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/consts"
)

// VMGI_MAT and TT_SRPT byte positions.
const (
	vmgNrOfTitleSets  = 0x3e
	vmgProviderID     = 0x40
	vmgTTSrptSector   = 0xc4
	ttSrptEntriesFrom = 8
	ttSrptEntrySize   = 12
)

// VMG is the Video Manager information: the disc wide title table.
type VMG struct {
	Identifier string      `json:"identifier"`
	TitleSets  uint16      `json:"title_sets"`
	ProviderID string      `json:"provider_id"`
	Titles     []TitleInfo `json:"titles"`
}

// TitleInfo is one TT_SRPT entry. Titles are the tracks of the disc.
type TitleInfo struct {
	PlaybackType   uint8  `json:"playback_type"`
	Angles         uint8  `json:"angles"`
	Chapters       uint16 `json:"chapters"`
	ParentalID     uint16 `json:"parental_id"`
	TitleSet       uint8  `json:"title_set"`
	TitleSetTitle  uint8  `json:"title_set_title"`
	TitleSetSector uint32 `json:"title_set_sector"`
}

// ParseVMG decodes the contents of VIDEO_TS.IFO.
func ParseVMG(data []byte) (*VMG, error) {
	r := &reader{data: data, name: "VIDEO_TS.IFO"}

	id := string(r.bytes(0, len(consts.DVD_VMG_IDENTIFIER)))
	if r.err != nil {
		return nil, r.err
	}
	if id != consts.DVD_VMG_IDENTIFIER {
		return nil, fmt.Errorf("identifier %q: %w", id, ErrNotVMG)
	}

	vmg := &VMG{
		Identifier: id,
		TitleSets:  r.u16(vmgNrOfTitleSets),
		ProviderID: strings.TrimRight(string(r.bytes(vmgProviderID, 32)), " \x00"),
	}

	base := sectorOffset(r.u32(vmgTTSrptSector))
	count := int(r.u16(base))
	for i := 0; i < count; i++ {
		off := base + ttSrptEntriesFrom + i*ttSrptEntrySize
		vmg.Titles = append(vmg.Titles, TitleInfo{
			PlaybackType:   r.u8(off),
			Angles:         r.u8(off + 1),
			Chapters:       r.u16(off + 2),
			ParentalID:     r.u16(off + 4),
			TitleSet:       r.u8(off + 6),
			TitleSetTitle:  r.u8(off + 7),
			TitleSetSector: r.u32(off + 8),
		})
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to parse title table: %w", r.err)
	}

	return vmg, nil
}
