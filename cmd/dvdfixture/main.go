package main

import (
	"fmt"
	"os"

	dvdtest "github.com/bgrewell/dvd-kit/internal/testing"
	"github.com/bgrewell/usage"
)

// dvdfixture writes the synthetic sample disc used by the test suites so the
// command line tools can be tried without a real DVD.
func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("dvdfixture"),
		usage.WithApplicationDescription("dvdfixture writes a small synthetic DVD-Video disc as an ISO image or a VIDEO_TS directory."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	dir := u.AddBooleanOption("d", "directory", false, "Write a VIDEO_TS directory instead of an ISO image", "", nil)
	split := u.AddStringOption("s", "split", "", "Split title VOBs every N sectors", "", nil)
	output := u.AddArgument(1, "output", "The ISO file or directory to write", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if output == nil || *output == "" {
		u.PrintError(fmt.Errorf("location of the output <output> must be provided"))
		os.Exit(1)
	}

	disc := dvdtest.SampleDisc()
	if *split != "" {
		if _, err := fmt.Sscanf(*split, "%d", &disc.VOBSplit); err != nil || disc.VOBSplit < 1 {
			u.PrintError(fmt.Errorf("invalid split size %s", *split))
			os.Exit(1)
		}
	}

	if *dir {
		path, err := disc.WriteVideoTS(*output)
		if err != nil {
			fmt.Printf("Failed to write VIDEO_TS: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	if err := disc.WriteISO(*output); err != nil {
		fmt.Printf("Failed to write ISO: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *output)
}
