// Package testing builds synthetic DVD-Video structures for tests: IFO files
// with real on-disc layouts, VOB files whose sectors are stamped with their
// own address, and ISO9660 images wrapping them.
package testing

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/dvdtime"
)

const sectorSize = consts.DVD_VIDEO_LB_LEN

// Cell is one cell of a chapter. Last < First describes a corrupt cell.
type Cell struct {
	First uint32
	Last  uint32
	Time  dvdtime.Time
}

// Title is one track. Chapters lists the cells of each chapter in order.
type Title struct {
	TitleSet    int
	Chapters    [][]Cell
	Time        dvdtime.Time
	Angles      uint8
	Audio       int
	Subpictures int
}

// Disc describes a whole DVD-Video volume.
type Disc struct {
	VolumeID string
	Titles   []Title
	// Video attribute bytes shared by every title set.
	Video [2]byte
	// Stream counts recorded in every title set.
	AudioStreams uint16
	Subpictures  uint16
	// VOBSplit is the number of sectors per VOB part; 0 keeps one part.
	VOBSplit int
	// MissingTitleSets are referenced by the title table but have no IFO.
	MissingTitleSets []int
	// LowerCase writes file names in lower case.
	LowerCase bool
}

// File is one file of the VIDEO_TS directory.
type File struct {
	Name string
	Data []byte
}

// TitleSets returns the title set numbers referenced by the disc, ascending.
func (d *Disc) TitleSets() []int {
	seen := map[int]bool{}
	var sets []int
	for _, t := range d.Titles {
		if !seen[t.TitleSet] {
			seen[t.TitleSet] = true
			sets = append(sets, t.TitleSet)
		}
	}
	sort.Ints(sets)
	return sets
}

func (d *Disc) missing(vts int) bool {
	for _, m := range d.MissingTitleSets {
		if m == vts {
			return true
		}
	}
	return false
}

// Files renders every file of the VIDEO_TS directory.
func (d *Disc) Files() []File {
	files := []File{{Name: "VIDEO_TS.IFO", Data: d.VMG()}}
	for _, vts := range d.TitleSets() {
		if d.missing(vts) {
			continue
		}
		files = append(files, File{Name: fmt.Sprintf("VTS_%02d_0.IFO", vts), Data: d.VTS(vts)})
		for part, data := range d.VOBParts(vts) {
			files = append(files, File{Name: fmt.Sprintf("VTS_%02d_%d.VOB", vts, part+1), Data: data})
		}
	}
	if d.LowerCase {
		for i := range files {
			files[i].Name = strings.ToLower(files[i].Name)
		}
	}
	return files
}

// WriteVideoTS writes the disc as root/VIDEO_TS and returns that directory.
func (d *Disc) WriteVideoTS(root string) (string, error) {
	dir := filepath.Join(root, consts.DVD_VIDEO_TS)
	if d.LowerCase {
		dir = filepath.Join(root, strings.ToLower(consts.DVD_VIDEO_TS))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for _, f := range d.Files() {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// VMG renders VIDEO_TS.IFO: the VMGI_MAT sector followed by TT_SRPT.
func (d *Disc) VMG() []byte {
	ttSrpt := 8 + 12*len(d.Titles)
	buf := make([]byte, sectorSize+roundUp(ttSrpt))
	copy(buf, consts.DVD_VMG_IDENTIFIER)

	sets := d.TitleSets()
	if len(sets) > 0 {
		binary.BigEndian.PutUint16(buf[0x3e:], uint16(sets[len(sets)-1]))
	}
	copy(buf[0x40:], "DVDKIT")
	binary.BigEndian.PutUint32(buf[0xc4:], 1)

	tt := buf[sectorSize:]
	binary.BigEndian.PutUint16(tt[0:], uint16(len(d.Titles)))
	binary.BigEndian.PutUint32(tt[4:], uint32(ttSrpt-1))
	ttn := map[int]int{}
	for i, t := range d.Titles {
		ttn[t.TitleSet]++
		angles := t.Angles
		if angles == 0 {
			angles = 1
		}
		e := tt[8+i*12:]
		e[0] = 0x3c
		e[1] = angles
		binary.BigEndian.PutUint16(e[2:], uint16(len(t.Chapters)))
		e[6] = uint8(t.TitleSet)
		e[7] = uint8(ttn[t.TitleSet])
	}
	return buf
}

// titlesIn returns the titles of title set vts in VTS title order.
func (d *Disc) titlesIn(vts int) []Title {
	var titles []Title
	for _, t := range d.Titles {
		if t.TitleSet == vts {
			titles = append(titles, t)
		}
	}
	return titles
}

// VTS renders VTS_nn_0.IFO: VTSI_MAT, VTS_PTT_SRPT and VTS_PGCIT.
func (d *Disc) VTS(vts int) []byte {
	titles := d.titlesIn(vts)

	// VTS_PTT_SRPT
	ptt := make([]byte, 8+4*len(titles))
	binary.BigEndian.PutUint16(ptt[0:], uint16(len(titles)))
	for i, t := range titles {
		binary.BigEndian.PutUint32(ptt[8+4*i:], uint32(len(ptt)))
		for ch := range t.Chapters {
			entry := make([]byte, 4)
			binary.BigEndian.PutUint16(entry[0:], uint16(i+1))
			binary.BigEndian.PutUint16(entry[2:], uint16(ch+1))
			ptt = append(ptt, entry...)
		}
	}
	binary.BigEndian.PutUint32(ptt[4:], uint32(len(ptt)-1))

	// VTS_PGCIT, one chain per title
	pgcit := make([]byte, 8+8*len(titles))
	binary.BigEndian.PutUint16(pgcit[0:], uint16(len(titles)))
	for i, t := range titles {
		srp := pgcit[8+8*i:]
		srp[0] = 0x80 | uint8(i+1)
		binary.BigEndian.PutUint32(srp[4:], uint32(len(pgcit)))
		pgcit = append(pgcit, pgc(t)...)
	}
	binary.BigEndian.PutUint32(pgcit[4:], uint32(len(pgcit)-1))

	pgcitSector := 1 + roundUp(len(ptt))/sectorSize
	buf := make([]byte, sectorSize*pgcitSector+roundUp(len(pgcit)))
	copy(buf, consts.DVD_VTS_IDENTIFIER)
	binary.BigEndian.PutUint32(buf[0xc8:], 1)
	binary.BigEndian.PutUint32(buf[0xcc:], uint32(pgcitSector))
	buf[0x200] = d.Video[0]
	buf[0x201] = d.Video[1]
	binary.BigEndian.PutUint16(buf[0x202:], d.AudioStreams)
	binary.BigEndian.PutUint16(buf[0x254:], d.Subpictures)
	copy(buf[sectorSize:], ptt)
	copy(buf[sectorSize*pgcitSector:], pgcit)
	return buf
}

// pgc renders one program chain: header, program map, cell playback and
// cell position tables.
func pgc(t Title) []byte {
	var cells []Cell
	programMap := make([]byte, len(t.Chapters))
	for i, ch := range t.Chapters {
		programMap[i] = uint8(len(cells) + 1)
		cells = append(cells, ch...)
	}

	const header = 0xec
	mapOff := header
	cellOff := mapOff + len(programMap)
	if cellOff%2 != 0 {
		cellOff++
	}
	posOff := cellOff + 24*len(cells)
	buf := make([]byte, posOff+4*len(cells))

	buf[0x02] = uint8(len(t.Chapters))
	buf[0x03] = uint8(len(cells))
	tm := t.Time.Bytes()
	copy(buf[0x04:], tm[:])
	for i := 0; i < t.Audio && i < 8; i++ {
		binary.BigEndian.PutUint16(buf[0x0c+2*i:], 0x8000|uint16(i))
	}
	for i := 0; i < t.Subpictures && i < 32; i++ {
		binary.BigEndian.PutUint32(buf[0x1c+4*i:], 0x80000000|uint32(i))
	}
	binary.BigEndian.PutUint16(buf[0xe4:], uint16(header))
	binary.BigEndian.PutUint16(buf[0xe6:], uint16(mapOff))
	binary.BigEndian.PutUint16(buf[0xe8:], uint16(cellOff))
	binary.BigEndian.PutUint16(buf[0xea:], uint16(posOff))
	copy(buf[mapOff:], programMap)

	for i, c := range cells {
		e := buf[cellOff+24*i:]
		ct := c.Time.Bytes()
		copy(e[4:], ct[:])
		binary.BigEndian.PutUint32(e[8:], c.First)
		binary.BigEndian.PutUint32(e[12:], c.First)
		binary.BigEndian.PutUint32(e[16:], c.Last)
		binary.BigEndian.PutUint32(e[20:], c.Last)

		p := buf[posOff+4*i:]
		binary.BigEndian.PutUint16(p[0:], 1)
		p[3] = uint8(i + 1)
	}
	return buf
}

// Blocks returns the size of the title VOBs of vts in sectors: enough to
// hold every sector any cell refers to.
func (d *Disc) Blocks(vts int) uint32 {
	var blocks uint32
	for _, t := range d.titlesIn(vts) {
		for _, ch := range t.Chapters {
			for _, c := range ch {
				blocks = max(blocks, c.First+1, c.Last+1)
			}
		}
	}
	return blocks
}

// VOBParts renders the title VOBs of vts, split every VOBSplit sectors.
func (d *Disc) VOBParts(vts int) [][]byte {
	blocks := d.Blocks(vts)
	split := uint32(d.VOBSplit)
	if split == 0 {
		split = max(blocks, 1)
	}

	var parts [][]byte
	for start := uint32(0); start < blocks; start += split {
		end := min(start+split, blocks)
		part := make([]byte, 0, int(end-start)*sectorSize)
		for s := start; s < end; s++ {
			part = append(part, Sector(vts, s)...)
		}
		parts = append(parts, part)
	}
	return parts
}

// Sector returns the stamped payload of sector s of title set vts.
func Sector(vts int, s uint32) []byte {
	buf := make([]byte, sectorSize)
	fill := byte(s*7) ^ byte(vts)
	for i := range buf {
		buf[i] = fill
	}
	binary.BigEndian.PutUint32(buf[0:], s)
	buf[4] = byte(vts)
	return buf
}

// Expected returns the bytes a copy of chapters first..last of track should
// produce: the stamped sectors of every non-corrupt cell, in order.
func (d *Disc) Expected(track, first, last int) []byte {
	t := d.Titles[track-1]
	var cells []Cell
	for _, ch := range t.Chapters {
		cells = append(cells, ch...)
	}
	firstCell := 1
	for _, ch := range t.Chapters[:first-1] {
		firstCell += len(ch)
	}
	lastCell := firstCell - 1
	for _, ch := range t.Chapters[first-1 : last] {
		lastCell += len(ch)
	}

	var out []byte
	for _, c := range cells[firstCell-1 : lastCell] {
		if c.Last < c.First {
			continue
		}
		for s := c.First; s <= c.Last; s++ {
			out = append(out, Sector(t.TitleSet, s)...)
		}
	}
	return out
}

func roundUp(n int) int {
	if n%sectorSize == 0 {
		return n
	}
	return (n/sectorSize + 1) * sectorSize
}
