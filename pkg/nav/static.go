package nav

// StaticResolver serves navigation data held in memory. It applies the same
// chapter to cell rules as IFOResolver and is mainly used to describe
// unusual layouts directly.
type StaticResolver struct {
	Titles []StaticTrack
}

// StaticTrack is one track of a StaticResolver.
type StaticTrack struct {
	TitleSet int
	Msecs    int
	Invalid  bool
	// ProgramMap holds the 1-based first cell of each chapter.
	ProgramMap []int
	Cells      []StaticCell
}

// StaticCell is one cell of a StaticTrack.
type StaticCell struct {
	First uint32
	Last  uint32
	Msecs int
}

func (s *StaticResolver) track(n int) *StaticTrack {
	if n < 1 || n > len(s.Titles) {
		return nil
	}
	return &s.Titles[n-1]
}

func (s *StaticResolver) cell(n, c int) (StaticCell, bool) {
	t := s.track(n)
	if t == nil || c < 1 || c > len(t.Cells) {
		return StaticCell{}, false
	}
	return t.Cells[c-1], true
}

func (s *StaticResolver) Tracks() int { return len(s.Titles) }

func (s *StaticResolver) TrackValid(n int) bool {
	t := s.track(n)
	return t != nil && !t.Invalid
}

func (s *StaticResolver) TitleSet(n int) int {
	if t := s.track(n); t != nil {
		return t.TitleSet
	}
	return 0
}

func (s *StaticResolver) TrackChapters(n int) int {
	if t := s.track(n); t != nil {
		return len(t.ProgramMap)
	}
	return 0
}

func (s *StaticResolver) TrackCells(n int) int {
	if t := s.track(n); t != nil {
		return len(t.Cells)
	}
	return 0
}

func (s *StaticResolver) TrackBlocks(n int) uint64 {
	var blocks uint64
	for c := 1; c <= s.TrackCells(n); c++ {
		blocks += s.CellBlocks(n, c)
	}
	return blocks
}

func (s *StaticResolver) TrackFilesize(n int) uint64 {
	return blocksToBytes(s.TrackBlocks(n))
}

func (s *StaticResolver) TrackMsecs(n int) int {
	if t := s.track(n); t != nil {
		return t.Msecs
	}
	return 0
}

func (s *StaticResolver) ChapterFirstCell(n, chapter int) int {
	t := s.track(n)
	if t == nil || chapter < 1 || chapter > len(t.ProgramMap) {
		return 0
	}
	return t.ProgramMap[chapter-1]
}

func (s *StaticResolver) ChapterLastCell(n, chapter int) int {
	t := s.track(n)
	if t == nil || chapter < 1 || chapter > len(t.ProgramMap) {
		return 0
	}
	if chapter < len(t.ProgramMap) {
		return t.ProgramMap[chapter] - 1
	}
	return len(t.Cells)
}

func (s *StaticResolver) ChapterMsecs(n, chapter int) int {
	msecs := 0
	for c := s.ChapterFirstCell(n, chapter); c > 0 && c <= s.ChapterLastCell(n, chapter); c++ {
		msecs += s.CellMsecs(n, c)
	}
	return msecs
}

func (s *StaticResolver) CellBlocks(n, c int) uint64 {
	cell, ok := s.cell(n, c)
	if !ok {
		return 0
	}
	return cellBlocks(cell.First, cell.Last)
}

func (s *StaticResolver) CellFilesize(n, c int) uint64 {
	return blocksToBytes(s.CellBlocks(n, c))
}

func (s *StaticResolver) CellFirstSector(n, c int) uint32 {
	cell, _ := s.cell(n, c)
	return cell.First
}

func (s *StaticResolver) CellLastSector(n, c int) uint32 {
	cell, _ := s.cell(n, c)
	return cell.Last
}

func (s *StaticResolver) CellMsecs(n, c int) int {
	cell, _ := s.cell(n, c)
	return cell.Msecs
}
