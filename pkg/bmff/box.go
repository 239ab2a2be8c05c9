package bmff

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BoxType is a 4-byte box type identifier.
type BoxType [4]byte

func (t BoxType) String() string {
	return string(t[:])
}

// ParseBoxType converts a 4-character tag such as "moov" into a BoxType.
func ParseBoxType(s string) (BoxType, error) {
	if len(s) != 4 {
		return BoxType{}, fmt.Errorf("box type must be exactly 4 characters: %q", s)
	}
	var t BoxType
	copy(t[:], s)
	return t, nil
}

// ParseBoxPath converts a slash-separated path such as "moov/trak/tkhd"
// into the box types to descend through. Empty segments are ignored.
func ParseBoxPath(s string) ([]BoxType, error) {
	var path []BoxType
	for _, part := range strings.Split(s, "/") {
		if part == "" {
			continue
		}
		typ, err := ParseBoxType(part)
		if err != nil {
			return nil, err
		}
		path = append(path, typ)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("empty box path %q", s)
	}
	return path, nil
}

// Box types this tool commonly looks for.
var (
	TypeFtyp = BoxType{'f', 't', 'y', 'p'}
	TypeMoov = BoxType{'m', 'o', 'o', 'v'}
	TypeMvhd = BoxType{'m', 'v', 'h', 'd'}
	TypeTrak = BoxType{'t', 'r', 'a', 'k'}
	TypeTkhd = BoxType{'t', 'k', 'h', 'd'}
	TypeMdia = BoxType{'m', 'd', 'i', 'a'}
	TypeMdhd = BoxType{'m', 'd', 'h', 'd'}
	TypeHdlr = BoxType{'h', 'd', 'l', 'r'}
	TypeUdta = BoxType{'u', 'd', 't', 'a'}
	TypeMeta = BoxType{'m', 'e', 't', 'a'}
	TypeMdat = BoxType{'m', 'd', 'a', 't'}
	TypeFree = BoxType{'f', 'r', 'e', 'e'}
	TypeSkip = BoxType{'s', 'k', 'i', 'p'}
	TypeUUID = BoxType{'u', 'u', 'i', 'd'}
)

const (
	compactHeaderLen = 8  // u32 size + 4-byte type
	largeHeaderLen   = 16 // compact header + u64 large size
	extendedTypeLen  = 16 // two u64 halves of the 128-bit extended type

	largeSizeSentinel = 1
)

// Header is a decoded box header. PayloadLen excludes every header byte,
// including the large-size field when present.
type Header struct {
	Type       BoxType
	PayloadLen int64
	Large      bool
}

// HeaderLen reports the wire length of the header itself.
func (h Header) HeaderLen() int64 {
	if h.Large {
		return largeHeaderLen
	}
	return compactHeaderLen
}

// AppendHeader appends the wire encoding of h to dst. Headers with
// Large set always use the 64-bit form, even for small payloads.
func AppendHeader(dst []byte, h Header) []byte {
	if h.Large {
		dst = binary.BigEndian.AppendUint32(dst, largeSizeSentinel)
		dst = append(dst, h.Type[:]...)
		return binary.BigEndian.AppendUint64(dst, uint64(h.PayloadLen)+largeHeaderLen)
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(h.PayloadLen+compactHeaderLen))
	return append(dst, h.Type[:]...)
}

// readHeader consumes one box header at the window's cursor. Declared
// sizes are corruption-controlled: anything below the header's own
// length, or larger than the window's remaining bytes, is rejected
// before the caller can act on it.
func readHeader(w *Window) (Header, error) {
	size32, err := w.ReadUint32(BigEndian)
	if err != nil {
		return Header{}, err
	}
	tag, err := w.ReadString(4)
	if err != nil {
		return Header{}, err
	}
	var typ BoxType
	copy(typ[:], tag)

	if size32 == largeSizeSentinel {
		size64, err := w.ReadUint64(BigEndian)
		if err != nil {
			return Header{}, err
		}
		if size64 < largeHeaderLen {
			return Header{}, fmt.Errorf("%w: %q declares large size %d, below its %d header bytes",
				ErrMalformedBox, typ, size64, largeHeaderLen)
		}
		payload := size64 - largeHeaderLen
		if payload > uint64(w.Remaining()) {
			return Header{}, fmt.Errorf("%w: %q payload of %d bytes exceeds %d remaining",
				ErrMalformedBox, typ, payload, w.Remaining())
		}
		return Header{Type: typ, PayloadLen: int64(payload), Large: true}, nil
	}

	if size32 < compactHeaderLen {
		return Header{}, fmt.Errorf("%w: %q declares size %d, below its %d header bytes",
			ErrMalformedBox, typ, size32, compactHeaderLen)
	}
	payload := int64(size32) - compactHeaderLen
	if payload > w.Remaining() {
		return Header{}, fmt.Errorf("%w: %q payload of %d bytes exceeds %d remaining",
			ErrMalformedBox, typ, payload, w.Remaining())
	}
	return Header{Type: typ, PayloadLen: payload}, nil
}

func uuidFromHalves(msb, lsb uint64) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[0:8], msb)
	binary.BigEndian.PutUint64(u[8:16], lsb)
	return u
}

// scanForBox linearly searches w's sibling boxes, reading only the
// headers of boxes it skips. On a match it returns a section over the
// payload; the window is exhausted -> ErrBoxNotFound, wrapping
// ErrUnexpectedEOF when trailing bytes end mid-header so callers can
// tell a truncated file from a merely absent box.
func scanForBox(w *Window, want BoxType, wantUUID *uuid.UUID) (*Window, error) {
	for {
		rem := w.Remaining()
		if rem < compactHeaderLen {
			if rem != 0 {
				return nil, fmt.Errorf("%w: %q (%w: %d trailing bytes mid-header)",
					ErrBoxNotFound, want, ErrUnexpectedEOF, rem)
			}
			return nil, fmt.Errorf("%w: %q", ErrBoxNotFound, want)
		}

		hdr, err := readHeader(w)
		if err != nil {
			return nil, err
		}
		payload := hdr.PayloadLen

		if hdr.Type == want {
			if wantUUID == nil {
				return w.Section(payload)
			}
			if payload < extendedTypeLen {
				return nil, fmt.Errorf("%w: uuid box payload is %d bytes, need at least %d",
					ErrMalformedBox, payload, extendedTypeLen)
			}
			msb, err := w.ReadUint64(BigEndian)
			if err != nil {
				return nil, err
			}
			lsb, err := w.ReadUint64(BigEndian)
			if err != nil {
				return nil, err
			}
			// The 16 extended-type bytes are consumed either way.
			payload -= extendedTypeLen
			if uuidFromHalves(msb, lsb) == *wantUUID {
				return w.Section(payload)
			}
		}

		if err := w.FastForward(payload); err != nil {
			return nil, err
		}
	}
}

// FindBox scans w's sibling boxes for the first box with the given type
// and returns a window over its payload. The scan never looks inside
// payloads it skips; descend into a match by scanning the returned
// section.
func FindBox(w *Window, typ BoxType) (*Window, error) {
	return scanForBox(w, typ, nil)
}

// FindUUIDBox scans w's sibling boxes for an extended-type ("uuid") box
// whose 128-bit type equals u, returning a window over the payload that
// follows the 16 extended-type bytes.
func FindUUIDBox(w *Window, u uuid.UUID) (*Window, error) {
	return scanForBox(w, TypeUUID, &u)
}

// Find resolves a path of nested box types, scanning each matched
// payload for the next element: Find(w, TypeMoov, TypeMvhd) returns the
// mvhd payload inside the first top-level moov.
func Find(w *Window, path ...BoxType) (*Window, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty box path")
	}
	cur := w
	for _, typ := range path {
		next, err := FindBox(cur, typ)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// BoxInfo describes one box encountered during a Walk.
type BoxInfo struct {
	// Offset of the box's first header byte, relative to the walked
	// window.
	Offset     int64
	Type       BoxType
	PayloadLen int64
	Large      bool
	// UUID is set for extended-type boxes whose payload carries the
	// full 128-bit type.
	UUID *uuid.UUID
}

// Walk calls fn for every sibling box in w, in file order, skipping
// payloads. Extended-type boxes are annotated with their 128-bit type.
// Walking stops at the window's end, on a malformed header, or on the
// first error from fn.
func Walk(w *Window, fn func(BoxInfo) error) error {
	for {
		rem := w.Remaining()
		if rem == 0 {
			return nil
		}
		if rem < compactHeaderLen {
			return fmt.Errorf("%w: %d trailing bytes are too short for a box header",
				ErrMalformedBox, rem)
		}

		off := w.Cursor()
		hdr, err := readHeader(w)
		if err != nil {
			return err
		}
		info := BoxInfo{
			Offset:     off,
			Type:       hdr.Type,
			PayloadLen: hdr.PayloadLen,
			Large:      hdr.Large,
		}
		payload := hdr.PayloadLen

		if hdr.Type == TypeUUID && payload >= extendedTypeLen {
			msb, err := w.ReadUint64(BigEndian)
			if err != nil {
				return err
			}
			lsb, err := w.ReadUint64(BigEndian)
			if err != nil {
				return err
			}
			u := uuidFromHalves(msb, lsb)
			info.UUID = &u
			payload -= extendedTypeLen
		}

		if err := fn(info); err != nil {
			return err
		}
		if err := w.FastForward(payload); err != nil {
			return err
		}
	}
}
