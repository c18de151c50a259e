package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/bgrewell/dvd-kit"
	"github.com/bgrewell/dvd-kit/pkg/config"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/bgrewell/dvd-kit/pkg/option"
	"github.com/bgrewell/usage"
)

var (
	version = "dev"
)

type trackReport struct {
	nav.Track
	ChapterList []nav.Chapter `json:"chapter_list,omitempty"`
	CellList    []nav.Cell    `json:"cell_list,omitempty"`
}

type discReport struct {
	Title        string        `json:"title"`
	Provider     string        `json:"provider_id"`
	TitleSets    int           `json:"title_sets"`
	LongestTrack int           `json:"longest_track"`
	Tracks       []trackReport `json:"tracks"`
}

func main() {
	os.Exit(run())
}

func run() int {
	u := usage.NewUsage(
		usage.WithApplicationName("dvdinfo"),
		usage.WithApplicationDescription("dvdinfo lists the tracks, chapters and cells of a DVD device, ISO image or VIDEO_TS directory."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	showVersion := u.AddBooleanOption("V", "version", false, "Display the version and exit", "", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging", "", nil)
	trackArg := u.AddStringOption("t", "track", "", "Show the chapters and cells of one track", "", nil)
	asJSON := u.AddBooleanOption("j", "json", false, "Print the report as JSON", "", nil)
	configPath := u.AddStringOption("C", "config", "", "Path to the configuration file", "", nil)
	path := u.AddArgument(1, "dvd-path", "DVD device, ISO image or VIDEO_TS directory", "")
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
		fmt.Printf("dvdinfo %s\n", version)
		return 0
	}

	cfg, _, err := config.Load(*configPath)
	if err != nil {
		u.PrintError(err)
		return 1
	}
	level := cfg.LogLevel()
	if *verbose {
		level = max(level, logging.LEVEL_DEBUG)
	}
	logger := logging.NewConsoleLogger(os.Stderr, level, cfg.Logging.Color)

	location := cfg.Device
	if path != nil && *path != "" {
		location = *path
	}

	d, err := dvd.Open(location, option.WithLogger(logger))
	if err != nil {
		u.PrintError(err)
		return 1
	}
	defer d.Close()

	track := 0
	if *trackArg != "" {
		track, err = strconv.Atoi(*trackArg)
		if err != nil || track < 1 || track > d.Tracks() {
			u.PrintError(fmt.Errorf("invalid track number %s: valid track numbers: 1 to %d", *trackArg, d.Tracks()))
			return 1
		}
	}

	report := buildReport(d, track)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			u.PrintError(err)
			return 1
		}
		return 0
	}

	fmt.Printf("Disc title: %s\n", report.Title)
	if report.Provider != "" {
		fmt.Printf("Provider ID: %s\n", report.Provider)
	}
	fmt.Printf("Title sets: %d, Tracks: %d, Longest track: %02d\n\n", report.TitleSets, d.Tracks(), report.LongestTrack)
	if track == 0 {
		tracks := make([]nav.Track, 0, len(report.Tracks))
		for _, t := range report.Tracks {
			tracks = append(tracks, t.Track)
		}
		fmt.Println(trackTable(tracks, report.LongestTrack))
		return 0
	}

	t := report.Tracks[0]
	fmt.Println(trackTable([]nav.Track{t.Track}, report.LongestTrack))
	fmt.Println(chapterTable(t.ChapterList))
	fmt.Println(cellTable(t.CellList))
	return 0
}

// buildReport collects every track, or only track with its chapters and
// cells when track is non-zero.
func buildReport(d *dvd.Disc, track int) discReport {
	r := discReport{
		Title:        d.Title(),
		Provider:     d.VMG().ProviderID,
		TitleSets:    int(d.VMG().TitleSets),
		LongestTrack: d.LongestTrack(),
	}
	if track != 0 {
		r.Tracks = []trackReport{{
			Track:       d.Track(track),
			ChapterList: d.Chapters(track),
			CellList:    d.Cells(track),
		}}
		return r
	}
	for n := 1; n <= d.Tracks(); n++ {
		r.Tracks = append(r.Tracks, trackReport{Track: d.Track(n)})
	}
	return r
}
