// Package dvdtime decodes the packed-decimal playback times stored in DVD
// program chains and cells.
package dvdtime

import "fmt"

// framerates are in hundredths of a frame per second, indexed by the two
// high bits of the frame byte. 0 means the rate is undefined.
var framerates = [4]int{0, 2500, 0, 2997}

// Time is the four-byte dvd_time_t as recorded in a PGC or cell playback
// entry: three packed-decimal fields and a frame byte whose top two bits
// select the frame rate.
type Time struct {
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
	Second uint8 `json:"second"`
	FrameU uint8 `json:"frame_u"`
}

// FromBytes reads a Time from its on-disc layout.
func FromBytes(b [4]byte) Time {
	return Time{Hour: b[0], Minute: b[1], Second: b[2], FrameU: b[3]}
}

// Bytes returns the on-disc layout of t.
func (t Time) Bytes() [4]byte {
	return [4]byte{t.Hour, t.Minute, t.Second, t.FrameU}
}

// Framerate returns the frame rate in hundredths of frames per second, or 0
// when the selector bits name an undefined rate.
func (t Time) Framerate() int {
	return framerates[(t.FrameU&0xc0)>>6]
}

// Milliseconds converts t to whole milliseconds. The frame count is only
// included when the frame rate is defined. Invalid BCD digits are not
// rejected; they decode arithmetically like valid ones.
func (t Time) Milliseconds() int {
	ms := bcd(t.Hour) * 3600000
	ms += bcd(t.Minute) * 60000
	ms += bcd(t.Second) * 1000

	if rate := t.Framerate(); rate > 0 {
		frames := int((t.FrameU&0x30)>>3)*5 + int(t.FrameU&0x0f)
		ms += frames * 100000 / rate
	}

	return ms
}

// String formats t as HH:MM:SS.mmm.
func (t Time) String() string {
	return Format(t.Milliseconds())
}

// Format renders a millisecond count as a zero padded HH:MM:SS.mmm string.
// Hours are not wrapped at 24.
func Format(msecs int) string {
	if msecs < 0 {
		msecs = 0
	}
	hours := msecs / 3600000
	minutes := (msecs / 60000) % 60
	seconds := (msecs / 1000) % 60
	millis := msecs % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// bcd decodes one packed-decimal byte.
func bcd(b uint8) int {
	return int((b&0xf0)>>3)*5 + int(b&0x0f)
}
