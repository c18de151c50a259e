package ifo

// VideoAttributes is the two byte video attribute field of a title set.
type VideoAttributes struct {
	MPEGVersion        uint8 `json:"mpeg_version"`
	VideoFormat        uint8 `json:"video_format"`
	DisplayAspectRatio uint8 `json:"display_aspect_ratio"`
	PermittedDisplay   uint8 `json:"permitted_display"`
	PictureSize        uint8 `json:"picture_size"`
	Letterboxed        bool  `json:"letterboxed"`
	FilmMode           bool  `json:"film_mode"`
}

func parseVideoAttributes(b0, b1 uint8) VideoAttributes {
	return VideoAttributes{
		MPEGVersion:        b0 >> 6,
		VideoFormat:        (b0 >> 4) & 0x03,
		DisplayAspectRatio: (b0 >> 2) & 0x03,
		PermittedDisplay:   b0 & 0x03,
		PictureSize:        (b1 >> 2) & 0x03,
		Letterboxed:        b1&0x02 != 0,
		FilmMode:           b1&0x01 != 0,
	}
}

// Codec returns MPEG1 or MPEG2, or "" for a reserved version.
func (v VideoAttributes) Codec() string {
	switch v.MPEGVersion {
	case 0:
		return "MPEG1"
	case 1:
		return "MPEG2"
	}
	return ""
}

func (v VideoAttributes) NTSC() bool { return v.VideoFormat == 0 }
func (v VideoAttributes) PAL() bool  { return v.VideoFormat == 1 }

// Format returns NTSC or PAL, or "" for a reserved format.
func (v VideoAttributes) Format() string {
	switch {
	case v.NTSC():
		return "NTSC"
	case v.PAL():
		return "PAL"
	}
	return ""
}

// Height is the coded picture height in lines.
func (v VideoAttributes) Height() int {
	var h int
	switch {
	case v.NTSC():
		h = 480
	case v.PAL():
		h = 576
	default:
		return 0
	}
	if v.PictureSize == 3 {
		h /= 2
	}
	return h
}

// Width is the coded picture width in pixels.
func (v VideoAttributes) Width() int {
	switch v.PictureSize {
	case 0:
		return 720
	case 1:
		return 704
	default:
		return 352
	}
}

// AspectRatio returns 4:3 or 16:9, or "" for a reserved value.
func (v VideoAttributes) AspectRatio() string {
	switch v.DisplayAspectRatio {
	case 0:
		return "4:3"
	case 3:
		return "16:9"
	}
	return ""
}
