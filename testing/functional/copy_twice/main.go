package main

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bgrewell/dvd-kit"
	"github.com/bgrewell/dvd-kit/pkg/logging"
	"github.com/bgrewell/dvd-kit/pkg/option"
	"github.com/bgrewell/usage"
)

func generateFileMD5(filePath string) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	hash := md5.New()
	n, err := io.Copy(hash, file)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), n, nil
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("copy_twice"),
		usage.WithApplicationDescription("copy_twice is a functional testing application that is part of dvd-kit and is designed to verify that copying a track twice produces identical output whose size matches the planned size."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	rm := u.AddBooleanOption("rm", "remove-test-file", true, "Remove the test files after running the tests", "", nil)
	trackArg := u.AddStringOption("t", "track", "", "Track to copy (default: longest track)", "", nil)
	chapters := u.AddStringOption("c", "chapter", "", "Chapter range to copy (default: all)", "", nil)
	input := u.AddArgument(1, "input", "The DVD device, ISO image or VIDEO_TS directory to run the tests against", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the input disc <input> must be provided"))
		os.Exit(1)
	}

	track := 0
	if *trackArg != "" {
		var err error
		if track, err = strconv.Atoi(*trackArg); err != nil {
			u.PrintError(fmt.Errorf("invalid track number %s", *trackArg))
			os.Exit(1)
		}
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, true))
	d, err := dvd.Open(*input, option.WithLogger(logger))
	if err != nil {
		fmt.Printf("Failed to open disc: %s\n", err)
		os.Exit(1)
	}
	defer d.Close()

	var hashes [2]string
	for i := range hashes {
		o, err := os.CreateTemp("", "copy_twice_test_*.vob")
		if err != nil {
			fmt.Printf("Failed to create temporary file: %s\n", err)
			os.Exit(1)
		}
		o.Close()

		if *rm {
			defer os.Remove(o.Name())
		} else {
			fmt.Printf("Temporary file: %s\n", o.Name())
		}

		job, err := d.Copy(context.Background(), dvd.CopyRequest{Track: track, Chapters: *chapters, Output: o.Name()})
		if err != nil {
			fmt.Printf("Failed to copy track: %s\n", err)
			os.Exit(1)
		}

		hash, size, err := generateFileMD5(o.Name())
		if err != nil {
			fmt.Printf("Failed to generate MD5 hash for output file: %s\n", err)
			os.Exit(1)
		}
		if uint64(size) != job.Plan.Filesize {
			fmt.Printf("Copy %d of track %d is %d bytes, planned %d\n", i+1, job.Track, size, job.Plan.Filesize)
			os.Exit(1)
		}
		hashes[i] = hash
	}

	if hashes[0] != hashes[1] {
		fmt.Printf("MD5 hash of the first copy does not match MD5 hash of the second copy:\n  First:  %s\n  Second: %s\n", hashes[0], hashes[1])
		os.Exit(1)
	}

}
