package bmff

import "errors"

var (
	// ErrUnexpectedEOF is returned when a read, seek or skip would cross
	// the current window's bound.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrShortRead is returned when the backing store produced fewer
	// bytes than the window asked for.
	ErrShortRead = errors.New("short read")

	// ErrBoxNotFound is returned when a scan exhausts its window without
	// matching the requested box type or UUID.
	ErrBoxNotFound = errors.New("box not found")

	// ErrMalformedBox is returned when a box header declares a size that
	// cannot be valid: smaller than the header itself, or larger than the
	// enclosing window.
	ErrMalformedBox = errors.New("malformed box")
)
