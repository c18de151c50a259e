package main

import (
	"fmt"
	"strconv"

	"github.com/bgrewell/dvd-kit/pkg/nav"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func trackTable(tracks []nav.Track, longest int) string {
	headers := []string{"Track", "Length", "VTS", "Chapters", "Cells", "Audio", "Subs", "Video", "Size", "Blocks"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		number := fmt.Sprintf("%02d", t.Number)
		if t.Number == longest {
			number += " *"
		}
		if !t.Valid {
			rows = append(rows, []string{number, "-", strconv.Itoa(t.TitleSet), strconv.Itoa(t.Chapters), "-", "-", "-", "unreadable", "-", "-"})
			continue
		}
		video := fmt.Sprintf("%s %s %dx%d %s", t.Video.Codec(), t.Video.Format(), t.Video.Width(), t.Video.Height(), t.Video.AspectRatio())
		rows = append(rows, []string{
			number,
			t.Length,
			strconv.Itoa(t.TitleSet),
			strconv.Itoa(t.Chapters),
			strconv.Itoa(t.Cells),
			fmt.Sprintf("%d/%d", t.ActiveAudio, t.AudioStreams),
			fmt.Sprintf("%d/%d", t.ActiveSubtitles, t.Subtitles),
			video,
			humanize.IBytes(t.Filesize),
			strconv.FormatUint(t.Blocks, 10),
		})
	}
	return renderTable(headers, rows, aligns)
}

func chapterTable(chapters []nav.Chapter) string {
	headers := []string{"Chapter", "Length", "First cell", "Last cell"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(chapters))
	for _, ch := range chapters {
		rows = append(rows, []string{
			fmt.Sprintf("%02d", ch.Number),
			ch.Length,
			strconv.Itoa(ch.FirstCell),
			strconv.Itoa(ch.LastCell),
		})
	}
	return renderTable(headers, rows, aligns)
}

func cellTable(cells []nav.Cell) string {
	headers := []string{"Cell", "Length", "First sector", "Last sector", "Size", "Blocks"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight}

	rows := make([][]string, 0, len(cells))
	for _, c := range cells {
		size := humanize.IBytes(c.Filesize)
		if c.Corrupt() {
			size = "corrupt"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d", c.Number),
			c.Length,
			strconv.FormatUint(uint64(c.FirstSector), 10),
			strconv.FormatUint(uint64(c.LastSector), 10),
			size,
			strconv.FormatUint(c.Blocks, 10),
		})
	}
	return renderTable(headers, rows, aligns)
}
