package ifo

import "github.com/bgrewell/dvd-kit/pkg/dvdtime"

// PGC byte positions, relative to the start of the program chain.
const (
	pgcNrOfPrograms       = 0x02
	pgcNrOfCells          = 0x03
	pgcPlaybackTime       = 0x04
	pgcAudioControl       = 0x0c
	pgcSubpControl        = 0x1c
	pgcProgramMapOffset   = 0xe6
	pgcCellPlaybackOffset = 0xe8
	cellPlaybackSize      = 24

	audioPresent = 0x8000
	subpPresent  = 0x80000000
)

// PGC is a program chain: the ordered list of cells that make up a title,
// grouped into programs (chapters).
type PGC struct {
	EntryID           uint8        `json:"entry_id"`
	Programs          uint8        `json:"programs"`
	Cells             uint8        `json:"cells"`
	PlaybackTime      dvdtime.Time `json:"playback_time"`
	AudioControl      [8]uint16    `json:"audio_control"`
	SubpictureControl [32]uint32   `json:"subpicture_control"`
	// ProgramMap holds the 1-based entry cell of each program.
	ProgramMap   []uint8        `json:"program_map"`
	CellPlayback []CellPlayback `json:"cell_playback"`
}

// CellPlayback locates one cell inside the title VOBs.
type CellPlayback struct {
	BlockMode           uint8        `json:"block_mode"`
	BlockType           uint8        `json:"block_type"`
	PlaybackTime        dvdtime.Time `json:"playback_time"`
	FirstSector         uint32       `json:"first_sector"`
	FirstILVUEndSector  uint32       `json:"first_ilvu_end_sector"`
	LastVOBUStartSector uint32       `json:"last_vobu_start_sector"`
	LastSector          uint32       `json:"last_sector"`
}

func parsePGC(r *reader, base int) *PGC {
	pgc := &PGC{
		Programs:     r.u8(base + pgcNrOfPrograms),
		Cells:        r.u8(base + pgcNrOfCells),
		PlaybackTime: dvdtime.FromBytes(r.time(base + pgcPlaybackTime)),
	}
	for i := range pgc.AudioControl {
		pgc.AudioControl[i] = r.u16(base + pgcAudioControl + i*2)
	}
	for i := range pgc.SubpictureControl {
		pgc.SubpictureControl[i] = r.u32(base + pgcSubpControl + i*4)
	}

	if pgc.Programs > 0 {
		pgc.ProgramMap = append([]uint8(nil), r.bytes(base+int(r.u16(base+pgcProgramMapOffset)), int(pgc.Programs))...)
	}

	cells := base + int(r.u16(base+pgcCellPlaybackOffset))
	for i := 0; i < int(pgc.Cells) && r.err == nil; i++ {
		off := cells + i*cellPlaybackSize
		flags := r.u8(off)
		pgc.CellPlayback = append(pgc.CellPlayback, CellPlayback{
			BlockMode:           flags >> 6,
			BlockType:           (flags >> 4) & 0x03,
			PlaybackTime:        dvdtime.FromBytes(r.time(off + 4)),
			FirstSector:         r.u32(off + 8),
			FirstILVUEndSector:  r.u32(off + 12),
			LastVOBUStartSector: r.u32(off + 16),
			LastSector:          r.u32(off + 20),
		})
	}
	return pgc
}

// ActiveAudioStreams counts the audio streams the chain enables.
func (p *PGC) ActiveAudioStreams() int {
	n := 0
	for _, ctl := range p.AudioControl {
		if ctl&audioPresent != 0 {
			n++
		}
	}
	return n
}

// ActiveSubpictures counts the subpicture streams the chain enables.
func (p *PGC) ActiveSubpictures() int {
	n := 0
	for _, ctl := range p.SubpictureControl {
		if ctl&subpPresent != 0 {
			n++
		}
	}
	return n
}

// ChapterCells returns the first and last cell (1-based, inclusive) of
// chapter ch. A chapter ends where the next program begins; the last
// chapter runs to the final cell. ok is false for chapters the chain does
// not have.
func (p *PGC) ChapterCells(ch int) (first, last int, ok bool) {
	if ch < 1 || ch > len(p.ProgramMap) {
		return 0, 0, false
	}
	first = int(p.ProgramMap[ch-1])
	if ch < len(p.ProgramMap) {
		last = int(p.ProgramMap[ch]) - 1
	} else {
		last = int(p.Cells)
	}
	return first, last, true
}

// Cell returns the 1-based cell n.
func (p *PGC) Cell(n int) (CellPlayback, bool) {
	if n < 1 || n > len(p.CellPlayback) {
		return CellPlayback{}, false
	}
	return p.CellPlayback[n-1], true
}
