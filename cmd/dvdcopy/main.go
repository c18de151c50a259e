package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/bgrewell/dvd-kit"
	"github.com/bgrewell/dvd-kit/pkg/config"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/bgrewell/dvd-kit/pkg/option"
	"github.com/bgrewell/dvd-kit/pkg/planner"
	"github.com/bgrewell/dvd-kit/pkg/sink"
	"github.com/bgrewell/usage"
)

const program = "dvd_copy"

var (
	version = "dev"
)

const description = `Copy a track from a DVD to a file or to stdout.

Examples:
  dvd_copy                       # copy the longest track from the default device
  dvd_copy /dev/sr0              # copy from a device
  dvd_copy movie.iso             # copy from an ISO image
  dvd_copy ~/Videos/MOVIE        # copy from a directory holding VIDEO_TS
  dvd_copy -t 2 -c 3-5 -o video.vob
  dvd_copy -o - | mplayer -      # stream the longest track`

func main() {
	os.Exit(run())
}

func run() int {
	u := usage.NewUsage(
		usage.WithApplicationName(program),
		usage.WithApplicationDescription(description),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	showVersion := u.AddBooleanOption("V", "version", false, "Display the version and exit", "", nil)
	debug := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging", "", nil)
	trace := u.AddBooleanOption("vv", "trace", false, "Enable trace logging", "", nil)
	trackArg := u.AddStringOption("t", "track", "", "Copy track number (default: longest track)", "", nil)
	chapterArg := u.AddStringOption("c", "chapter", "", "Copy chapter number or range, e.g. 3 or 2-4 (default: all)", "", nil)
	outputArg := u.AddStringOption("o", "output", "", "Save to filename, or - for stdout (default: dvd_track_##.vob)", "", nil)
	configPath := u.AddStringOption("C", "config", "", "Path to the configuration file", "", nil)
	device := u.AddArgument(1, "dvd-path", "DVD device, ISO image or VIDEO_TS directory (default: /dev/dvd)", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		return 1
	}
	if *help {
		u.PrintUsage()
		return 0
	}
	if *showVersion {
		fmt.Printf("%s %s\n", program, version)
		return 0
	}

	cfg, _, err := config.Load(*configPath)
	if err != nil {
		u.PrintError(err)
		return 1
	}

	level := cfg.LogLevel()
	if *debug {
		level = max(level, logging.LEVEL_DEBUG)
	}
	if *trace {
		level = logging.LEVEL_TRACE
	}
	logger := logging.NewConsoleLogger(os.Stderr, level, cfg.Logging.Color)

	location := cfg.Device
	if device != nil && *device != "" {
		location = *device
	}
	if _, err := os.Stat(location); err != nil {
		fmt.Fprintf(os.Stderr, "cannot access %s\n", location)
		return 1
	}

	stream := *outputArg == sink.StreamOutput
	info := os.Stdout
	if stream {
		// stdout carries the track data
		info = os.Stderr
		fmt.Fprintf(os.Stderr, "[%s] outputting stream to stdout\n", program)
	}

	track := 0
	if *trackArg != "" {
		if track, err = strconv.Atoi(*trackArg); err != nil || track < 1 {
			fmt.Fprintf(os.Stderr, "%s: Invalid track number %s\n", program, *trackArg)
			return 1
		}
	}

	if *chapterArg != "" {
		if _, err := planner.ParseRange(*chapterArg); err != nil {
			fmt.Fprintln(os.Stderr, "Chapter range must be between 1 and 99")
			return 1
		}
	}

	var rep *reporter
	var d *dvd.Disc
	d, err = dvd.Open(location,
		option.WithLogger(logger),
		option.WithBlockLimit(cfg.BlockLimit),
		option.WithOutputPattern(cfg.OutputPattern),
		option.WithCopyProgress(func(_ int, written, total uint64, percent int) {
			if rep != nil {
				rep.progress(written, total, percent)
			}
		}),
		option.WithCellCallback(func(track, chapter int, cell nav.Cell) {
			if rep != nil {
				rep.cell(d.Resolver().TitleSet(track), chapter, cell)
			}
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: error opening %s: %v\n", program, location, err)
		return 1
	}
	defer d.Close()

	if !stream {
		fmt.Fprintf(info, "Disc title: %s\n", d.Title())
	}

	job, err := d.Plan(dvd.CopyRequest{Track: track, Chapters: *chapterArg, Output: *outputArg})
	if errors.Is(err, dvd.ErrInvalidTrack) && track > d.Tracks() {
		fmt.Fprintf(os.Stderr, "%s: Invalid track number %d\n", program, track)
		fmt.Fprintf(os.Stderr, "%s: Valid track numbers: 1 to %d\n", program, d.Tracks())
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
		return 1
	}

	t := d.Track(job.Track)
	if !stream {
		fmt.Fprintf(info, "Track: %02d, Length: %s, Chapters: %02d, Cells: %02d, Audio streams: %02d, Subpictures: %02d, Filesize: %d, Blocks: %d\n",
			t.Number, t.Length, t.Chapters, t.Cells, t.AudioStreams, t.Subtitles, t.Filesize, t.Blocks)
		rep = newReporter(info, job.Filename)
	}
	logger.Debug("Copying track", "track", job.Track, "chapters", job.Chapters.String(),
		"output", job.Filename, "mode", job.Mode.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = d.Run(ctx, job)
	if rep != nil {
		rep.finish(err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
		return 1
	}
	return 0
}
