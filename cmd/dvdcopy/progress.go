package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bgrewell/dvd-kit/pkg/consts"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/dustin/go-humanize"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

// truncateString shortens input to maxLength, keeping its tail and marking
// the cut with "...".
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

// reporter prints per-cell lines and copy progress for file mode copies.
// On a terminal progress is shown with a spinner, elsewhere as
// carriage-return terminated lines.
type reporter struct {
	out      io.Writer
	filename string
	spinner  *yacspin.Spinner
}

func newReporter(out *os.File, filename string) *reporter {
	r := &reporter{out: out, filename: filename}
	if !logging.IsTerminal(out) {
		return r
	}
	spinner, err := initializeSpinner(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
		fmt.Fprintf(os.Stderr, "Progress updates will be plain text.\n")
		return r
	}
	r.spinner = spinner
	return r
}

// initializeSpinner sets up and starts the yacspin spinner.
func initializeSpinner(out io.Writer) (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		Writer:            out,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	return spinner, nil
}

func (r *reporter) cell(vts, chapter int, cell nav.Cell) {
	line := fmt.Sprintf("        Chapter: %02d, Cell: %02d, VTS: %d, Filesize: %d, Blocks: %d, Sectors: %d to %d",
		chapter, cell.Number, vts, cell.Filesize, cell.Blocks, cell.FirstSector, cell.LastSector)

	if r.spinner == nil {
		fmt.Fprintln(r.out, line)
		return
	}
	_ = r.spinner.Pause()
	fmt.Fprintf(r.out, "\r%s\n", line)
	_ = r.spinner.Unpause()
}

func (r *reporter) progress(written, total uint64, percent int) {
	if r.spinner == nil {
		fmt.Fprintf(r.out, "Progress %d%%\r", percent)
		return
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 80
	}
	suffix := fmt.Sprintf(" - %s of %s - %d%%",
		humanize.IBytes(written*consts.DVD_VIDEO_LB_LEN), humanize.IBytes(total*consts.DVD_VIDEO_LB_LEN), percent)
	available := max(width-len(suffix)-6, 10)
	r.spinner.Message(" " + truncateString(r.filename, available) + suffix)
}

func (r *reporter) finish(err error) {
	if r.spinner == nil {
		fmt.Fprintln(r.out)
		return
	}
	if err != nil {
		r.spinner.StopFailMessage(fmt.Sprintf(" Failed to copy to %s", r.filename))
		_ = r.spinner.StopFail()
		return
	}
	r.spinner.StopMessage(fmt.Sprintf(" Track copied to %s", r.filename))
	_ = r.spinner.Stop()
}
