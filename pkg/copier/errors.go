package copier

import (
	"errors"
	"fmt"
)

var ErrCanceled = errors.New("copy canceled")

// ShortReadError reports a transfer that returned fewer blocks than asked
// for. It always ends the copy.
type ShortReadError struct {
	Cell      int
	Requested int
	Got       int
	Err       error
}

func (e *ShortReadError) Error() string {
	msg := fmt.Sprintf("could not read data from cell %d: asked for %d blocks and only got %d", e.Cell, e.Requested, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShortReadError) Unwrap() error { return e.Err }

// ShortWriteError reports a sink that accepted fewer bytes than it was
// given. It always ends the copy.
type ShortWriteError struct {
	Cell    int
	Tried   int
	Written int
	Err     error
}

func (e *ShortWriteError) Error() string {
	msg := fmt.Sprintf("could not write data from cell %d: tried to write %d bytes and only wrote %d", e.Cell, e.Tried, e.Written)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShortWriteError) Unwrap() error { return e.Err }
