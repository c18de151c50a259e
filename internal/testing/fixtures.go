package testing

import "github.com/bgrewell/dvd-kit/pkg/dvdtime"

// NTSC frame rate selector bits for dvdtime.Time.FrameU.
const ntsc = 0xc0

// SampleDisc is a two title set disc used across the test suites.
//
//	track 1, VTS 1: 10:00, chapters 1..3, cells 1..4, sectors 0..49
//	track 2, VTS 1: 20:00, chapters 1..2, cells 1..2, sectors 50..119
//	track 3, VTS 2: 15:00, chapters 1..5, cells 1..6; cell 4 is corrupt and
//	                cell 5 holds 100 blocks starting at sector 5000
func SampleDisc() *Disc {
	return &Disc{
		VolumeID:     "SAMPLE_DISC",
		Video:        [2]byte{0x4c, 0x02},
		AudioStreams: 2,
		Subpictures:  3,
		Titles: []Title{
			{
				TitleSet:    1,
				Time:        dvdtime.Time{Minute: 0x10, FrameU: ntsc},
				Audio:       2,
				Subpictures: 1,
				Chapters: [][]Cell{
					{{First: 0, Last: 9, Time: dvdtime.Time{Minute: 0x02, FrameU: ntsc}}},
					{{First: 10, Last: 29, Time: dvdtime.Time{Minute: 0x03, FrameU: ntsc}}, {First: 30, Last: 39, Time: dvdtime.Time{Minute: 0x01, FrameU: ntsc}}},
					{{First: 40, Last: 49, Time: dvdtime.Time{Minute: 0x04, FrameU: ntsc}}},
				},
			},
			{
				TitleSet: 1,
				Time:     dvdtime.Time{Minute: 0x20, FrameU: ntsc},
				Audio:    1,
				Chapters: [][]Cell{
					{{First: 50, Last: 59, Time: dvdtime.Time{Minute: 0x05, FrameU: ntsc}}},
					{{First: 60, Last: 119, Time: dvdtime.Time{Minute: 0x15, FrameU: ntsc}}},
				},
			},
			{
				TitleSet:    2,
				Time:        dvdtime.Time{Minute: 0x15, FrameU: ntsc},
				Audio:       1,
				Subpictures: 2,
				Chapters: [][]Cell{
					{{First: 0, Last: 99}},
					{{First: 100, Last: 199}},
					{{First: 200, Last: 299}, {First: 320, Last: 310}},
					{{First: 5000, Last: 5099, Time: dvdtime.Time{Minute: 0x03, Second: 0x20, FrameU: ntsc | 0x15}}},
					{{First: 5100, Last: 5149}},
				},
			},
		},
	}
}
