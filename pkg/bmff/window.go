// Package bmff locates metadata boxes in ISO Base Media File Format
// containers (QuickTime/MP4) by walking the nested box hierarchy on
// demand, without building a box tree or decoding payloads it skips.
//
// A Window is a bounded, offset-relative view over a Store. FindBox and
// friends scan a window's sibling boxes header-by-header and hand back a
// new window scoped to a match's payload, which callers scan again to
// descend a path such as moov -> mvhd.
package bmff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ByteOrder selects the integer interpretation for Window reads.
// ISO-BMFF headers are big-endian throughout; the window itself is
// format-agnostic.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// Window is a cursor-based view over the byte range
// [offset, offset+limit) of a Store. The cursor stays within
// [0, limit]; any operation that would cross limit fails instead of
// truncating. Windows are read-only and own no store state beyond their
// own cursor, so sections derived from one store never interfere.
type Window struct {
	store  Store
	offset int64
	limit  int64
	cursor int64
}

// NewWindow returns a root window spanning the entire store, cursor at
// position 0.
func NewWindow(store Store) (*Window, error) {
	size := store.Size()
	if size < 0 {
		return nil, fmt.Errorf("store size unknown: %d", size)
	}
	return &Window{store: store, limit: size}, nil
}

// Limit reports the window's length in bytes.
func (w *Window) Limit() int64 { return w.limit }

// Cursor reports the current read position, relative to the window.
func (w *Window) Cursor() int64 { return w.cursor }

// Offset reports the window's absolute start position in the store.
func (w *Window) Offset() int64 { return w.offset }

// Remaining reports how many bytes are left before the window's bound.
func (w *Window) Remaining() int64 { return w.limit - w.cursor }

func (w *Window) readN(n int64) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	if n > w.limit-w.cursor {
		return nil, fmt.Errorf("%w: reading %d bytes at %d, window length %d",
			ErrUnexpectedEOF, n, w.cursor, w.limit)
	}
	buf := make([]byte, n)
	rn, err := w.store.ReadAt(buf, w.offset+w.cursor)
	if int64(rn) < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = ErrShortRead
		}
		return nil, fmt.Errorf("reading %d bytes at store offset %d: %w",
			n, w.offset+w.cursor, err)
	}
	w.cursor += n
	return buf, nil
}

// ReadUint32 reads 4 bytes at the cursor as an unsigned 32-bit integer
// in the given byte order and advances the cursor past them.
func (w *Window) ReadUint32(order ByteOrder) (uint32, error) {
	b, err := w.readN(4)
	if err != nil {
		return 0, err
	}
	if order == LittleEndian {
		return binary.LittleEndian.Uint32(b), nil
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint64 reads 8 bytes at the cursor as an unsigned 64-bit integer
// in the given byte order and advances the cursor past them.
func (w *Window) ReadUint64(order ByteOrder) (uint64, error) {
	b, err := w.readN(8)
	if err != nil {
		return 0, err
	}
	if order == LittleEndian {
		return binary.LittleEndian.Uint64(b), nil
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadString reads exactly n bytes at the cursor and returns them as a
// string. The bytes are not validated as UTF-8; box type tags are plain
// ASCII and payload text is the caller's concern.
func (w *Window) ReadString(n int64) (string, error) {
	b, err := w.readN(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBytes reads exactly n bytes at the cursor.
func (w *Window) ReadBytes(n int64) ([]byte, error) {
	return w.readN(n)
}

// Seek sets the cursor to an absolute position within [0, limit).
// Seeking to limit or beyond fails with ErrUnexpectedEOF: there is
// nothing readable there.
func (w *Window) Seek(pos int64) error {
	if pos < 0 || pos >= w.limit {
		return fmt.Errorf("%w: seeking to %d, window length %d",
			ErrUnexpectedEOF, pos, w.limit)
	}
	w.cursor = pos
	return nil
}

// FastForward advances the cursor past n bytes without reading them.
// Unlike Seek, the cursor may land exactly on limit: skipping a final
// payload legitimately exhausts the window.
func (w *Window) FastForward(n int64) error {
	if n < 0 || n > w.limit-w.cursor {
		return fmt.Errorf("%w: skipping %d bytes at %d, window length %d",
			ErrUnexpectedEOF, n, w.cursor, w.limit)
	}
	w.cursor += n
	return nil
}

// Section derives a window of length n anchored at the current cursor,
// sharing this window's store, with its own cursor at 0. The parent's
// cursor is left where it is; callers that intend to keep scanning the
// parent must FastForward past the section themselves.
func (w *Window) Section(n int64) (*Window, error) {
	if n < 0 || n > w.limit-w.cursor {
		return nil, fmt.Errorf("%w: section of %d bytes at %d, window length %d",
			ErrUnexpectedEOF, n, w.cursor, w.limit)
	}
	return &Window{store: w.store, offset: w.offset + w.cursor, limit: n}, nil
}
