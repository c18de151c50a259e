package dvd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bgrewell/dvd-kit/pkg/copier"
	"github.com/bgrewell/dvd-kit/pkg/ifo"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/bgrewell/dvd-kit/pkg/option"
	"github.com/bgrewell/dvd-kit/pkg/planner"
	"github.com/bgrewell/dvd-kit/pkg/sink"
	"github.com/bgrewell/dvd-kit/pkg/source"
)

var (
	ErrInvalidTrack = errors.New("invalid track number")
	ErrNoTitleSets  = errors.New("no title sets could be opened")
)

// Disc is an opened DVD-Video volume with its navigation data loaded.
type Disc struct {
	src       source.Source
	vmg       *ifo.VMG
	titleSets map[int]*ifo.VTS
	resolver  *nav.IFOResolver
	options   option.OpenOptions
	logger    *logging.Logger
}

// CopyRequest selects what to copy and where.
type CopyRequest struct {
	// Track is 1-based; 0 selects the longest track.
	Track int
	// Chapters is "a" or "a-b"; empty selects every chapter.
	Chapters string
	// Output is a filename, "-" for stdout, or empty for the default name.
	Output string
}

// Open opens the DVD at location, a device, an ISO image or a directory
// holding VIDEO_TS, and reads its IFO files. Title sets whose IFO can't be
// read are skipped; their tracks are reported invalid.
func Open(location string, opts ...option.OpenOption) (*Disc, error) {
	options := option.OpenOptions{
		Logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = logging.DefaultLogger()
	}

	src, err := source.Open(location, options.Logger)
	if err != nil {
		return nil, err
	}

	d := &Disc{
		src:       src,
		titleSets: map[int]*ifo.VTS{},
		options:   options,
		logger:    options.Logger,
	}
	if err := d.load(); err != nil {
		src.Close()
		return nil, err
	}
	return d, nil
}

func (d *Disc) load() error {
	data, err := d.src.ReadFile(source.IFOName(0))
	if err != nil {
		return fmt.Errorf("failed to open VMG info: %w", err)
	}
	if d.vmg, err = ifo.ParseVMG(data); err != nil {
		return fmt.Errorf("failed to open VMG info: %w", err)
	}
	d.logger.Debug("Read video manager", "title_sets", d.vmg.TitleSets, "titles", len(d.vmg.Titles))

	for n := 1; n <= int(d.vmg.TitleSets); n++ {
		name := source.IFOName(n)
		data, err := d.src.ReadFile(name)
		if err != nil {
			d.logger.Debug("Skipping title set", "vts", n, "error", err.Error())
			continue
		}
		vts, err := ifo.ParseVTS(name, data)
		if err != nil {
			d.logger.Debug("Skipping title set", "vts", n, "error", err.Error())
			continue
		}
		d.titleSets[n] = vts
	}
	if len(d.titleSets) == 0 {
		return ErrNoTitleSets
	}

	d.resolver = nav.NewIFOResolver(d.vmg, d.titleSets, d.logger.WithName("nav"))
	return nil
}

// Title is the disc title: the volume identifier of an image or the name of
// the directory holding VIDEO_TS.
func (d *Disc) Title() string {
	return d.src.Title()
}

func (d *Disc) VMG() *ifo.VMG {
	return d.vmg
}

// TitleSet returns the parsed IFO of title set n, or nil when it couldn't
// be read.
func (d *Disc) TitleSet(n int) *ifo.VTS {
	return d.titleSets[n]
}

func (d *Disc) Resolver() nav.Resolver {
	return d.resolver
}

func (d *Disc) Tracks() int {
	return d.resolver.Tracks()
}

// Track returns the summary of track n, 1-based.
func (d *Disc) Track(n int) nav.Track {
	return d.resolver.Track(n)
}

// LongestTrack returns the valid track with the greatest duration, or 0.
func (d *Disc) LongestTrack() int {
	return nav.LongestTrack(d.resolver)
}

// Chapters lists the chapters of a track.
func (d *Disc) Chapters(track int) []nav.Chapter {
	chapters := make([]nav.Chapter, 0, d.resolver.TrackChapters(track))
	for ch := 1; ch <= d.resolver.TrackChapters(track); ch++ {
		chapters = append(chapters, nav.ChapterInfo(d.resolver, track, ch))
	}
	return chapters
}

// Cells lists the cells of a track.
func (d *Disc) Cells(track int) []nav.Cell {
	cells := make([]nav.Cell, 0, d.resolver.TrackCells(track))
	for c := 1; c <= d.resolver.TrackCells(track); c++ {
		cells = append(cells, nav.CellInfo(d.resolver, track, c))
	}
	return cells
}

// TitleVOBs opens the title VOBs of title set vts for reading.
func (d *Disc) TitleVOBs(vts int) (*source.VOBReader, error) {
	return d.src.TitleVOBs(vts)
}

// Plan validates a copy request and returns the job it describes without
// touching the output.
func (d *Disc) Plan(req CopyRequest) (*copier.Job, error) {
	track := req.Track
	if track == 0 {
		track = d.LongestTrack()
	}
	if track < 1 || track > d.Tracks() {
		return nil, fmt.Errorf("%w %d: valid track numbers: 1 to %d", ErrInvalidTrack, track, d.Tracks())
	}
	if !d.resolver.TrackValid(track) {
		return nil, fmt.Errorf("%w %d: title set %d could not be read", ErrInvalidTrack, track, d.resolver.TitleSet(track))
	}

	chapters := d.resolver.TrackChapters(track)
	requested := planner.Full(chapters)
	if req.Chapters != "" {
		var err error
		if requested, err = planner.ParseRange(req.Chapters); err != nil {
			return nil, err
		}
	}
	r := planner.Clamp(requested, chapters, d.logger)

	job := &copier.Job{
		Track:    track,
		Chapters: r,
		Plan:     planner.New(d.resolver, track, r, d.logger.WithName("planner")),
		Filename: req.Output,
		Mode:     sink.ModeFile,
	}
	switch req.Output {
	case sink.StreamOutput:
		job.Mode = sink.ModeStream
	case "":
		job.Filename = sink.DefaultFilename(d.options.OutputPattern, track)
	}
	return job, nil
}

// Run executes a planned job. The output is created only after the title
// VOBs have been opened.
func (d *Disc) Run(ctx context.Context, job *copier.Job) (n int64, err error) {
	vobs, err := d.TitleVOBs(d.resolver.TitleSet(job.Track))
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, vobs.Close())
	}()

	out, err := sink.Select(sink.Options{
		Output:         job.Filename,
		Track:          job.Track,
		Pattern:        d.options.OutputPattern,
		FileBlockLimit: d.options.BlockLimit,
		Stdout:         d.options.Stdout,
	})
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	c := copier.New(copier.Config{
		Logger:   d.logger,
		Progress: d.progress(),
		OnCell:   d.onCell(),
	})
	return c.Copy(ctx, job, vobs, d.resolver, out)
}

// Copy plans and runs req.
func (d *Disc) Copy(ctx context.Context, req CopyRequest) (*copier.Job, error) {
	job, err := d.Plan(req)
	if err != nil {
		return nil, err
	}
	_, err = d.Run(ctx, job)
	return job, err
}

func (d *Disc) progress() copier.ProgressFunc {
	cb := d.options.CopyProgressCallback
	if cb == nil {
		return nil
	}
	return func(job *copier.Job, percent int) {
		cb(job.Track, job.BlocksWritten, job.Plan.Blocks, percent)
	}
}

func (d *Disc) onCell() copier.CellFunc {
	cb := d.options.CellCallback
	if cb == nil {
		return nil
	}
	return func(job *copier.Job, chapter int, cell nav.Cell) {
		cb(job.Track, chapter, cell)
	}
}

func (d *Disc) Close() error {
	return d.src.Close()
}
