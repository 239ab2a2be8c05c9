package bmff

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadIntegersBothOrders(t *testing.T) {
	t.Parallel()

	data := []byte{0x01, 0x02, 0x03, 0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	w, err := NewWindow(NewMemStore(data))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}

	be, err := w.ReadUint32(BigEndian)
	if err != nil {
		t.Fatalf("read u32 be: %v", err)
	}
	if be != 0x01020304 {
		t.Fatalf("u32 big-endian mismatch: got %#x want %#x", be, 0x01020304)
	}

	le, err := w.ReadUint64(LittleEndian)
	if err != nil {
		t.Fatalf("read u64 le: %v", err)
	}
	if le != 0x8877665544332211 {
		t.Fatalf("u64 little-endian mismatch: got %#x", le)
	}
	if w.Cursor() != 12 {
		t.Fatalf("cursor mismatch: got %d want 12", w.Cursor())
	}
}

func TestReadExactlyRemainingBytes(t *testing.T) {
	t.Parallel()

	// A window of exactly 4 bytes must allow one u32 read; the bound
	// check is cursor+n <= limit, not strict less-than.
	w, err := NewWindow(NewMemStore([]byte{0xde, 0xad, 0xbe, 0xef}))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	v, err := w.ReadUint32(BigEndian)
	if err != nil {
		t.Fatalf("read of exactly-remaining bytes failed: %v", err)
	}
	if v != 0xdeadbeef {
		t.Fatalf("value mismatch: got %#x", v)
	}
	if w.Remaining() != 0 {
		t.Fatalf("remaining mismatch: got %d want 0", w.Remaining())
	}

	if _, err := w.ReadUint32(BigEndian); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("read past bound: got %v want ErrUnexpectedEOF", err)
	}
}

func TestReadStringAndBytes(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(NewMemStore([]byte("moovmvhd")))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	s, err := w.ReadString(4)
	if err != nil {
		t.Fatalf("read string: %v", err)
	}
	if s != "moov" {
		t.Fatalf("string mismatch: got %q want %q", s, "moov")
	}
	b, err := w.ReadBytes(4)
	if err != nil {
		t.Fatalf("read bytes: %v", err)
	}
	if !bytes.Equal(b, []byte("mvhd")) {
		t.Fatalf("bytes mismatch: got %q", b)
	}

	if _, err := w.ReadString(1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("read past bound: got %v want ErrUnexpectedEOF", err)
	}
}

// lyingStore reports more bytes than it can serve, so windows sized from
// it hit the underlying store's EOF mid-read.
type lyingStore struct {
	data []byte
	size int64
}

func (s *lyingStore) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *lyingStore) Size() int64 { return s.size }

func TestShortReadIsNotPadded(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(&lyingStore{data: []byte("abc"), size: 10})
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if _, err := w.ReadString(8); !errors.Is(err, ErrShortRead) {
		t.Fatalf("truncated store read: got %v want ErrShortRead", err)
	}
	if w.Cursor() != 0 {
		t.Fatalf("failed read moved the cursor: got %d", w.Cursor())
	}
}

func TestSeekBoundaries(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	w, err := NewWindow(NewMemStore(data))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}

	if err := w.Seek(w.Limit()); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("seek to limit: got %v want ErrUnexpectedEOF", err)
	}
	if err := w.Seek(w.Limit() - 1); err != nil {
		t.Fatalf("seek to limit-1: %v", err)
	}
	if err := w.Seek(0); err != nil {
		t.Fatalf("seek to 0: %v", err)
	}
	v, err := w.ReadUint32(BigEndian)
	if err != nil {
		t.Fatalf("read after seek: %v", err)
	}
	if v != 0x01020304 {
		t.Fatalf("read after seek mismatch: got %#x", v)
	}
	if err := w.Seek(-1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("negative seek: got %v want ErrUnexpectedEOF", err)
	}
}

func TestFastForward(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(NewMemStore(make([]byte, 16)))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := w.FastForward(10); err != nil {
		t.Fatalf("fast forward: %v", err)
	}
	if w.Cursor() != 10 {
		t.Fatalf("cursor mismatch: got %d want 10", w.Cursor())
	}
	// Landing exactly on the bound is a legal skip.
	if err := w.FastForward(6); err != nil {
		t.Fatalf("fast forward to bound: %v", err)
	}
	if w.Remaining() != 0 {
		t.Fatalf("remaining mismatch: got %d want 0", w.Remaining())
	}
	if err := w.FastForward(1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("fast forward past bound: got %v want ErrUnexpectedEOF", err)
	}
}

func TestSectionMatchesDirectRead(t *testing.T) {
	t.Parallel()

	data := []byte("0123456789abcdef")
	store := NewMemStore(data)

	w, err := NewWindow(store)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := w.FastForward(4); err != nil {
		t.Fatalf("fast forward: %v", err)
	}

	sec, err := w.Section(8)
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if sec.Limit() != 8 || sec.Cursor() != 0 {
		t.Fatalf("section shape mismatch: limit=%d cursor=%d", sec.Limit(), sec.Cursor())
	}
	// Taking a section must not move the parent.
	if w.Cursor() != 4 {
		t.Fatalf("parent cursor moved: got %d want 4", w.Cursor())
	}

	fromSection, err := sec.ReadString(8)
	if err != nil {
		t.Fatalf("section read: %v", err)
	}
	direct, err := w.ReadString(8)
	if err != nil {
		t.Fatalf("direct read: %v", err)
	}
	if fromSection != direct {
		t.Fatalf("section/direct mismatch: %q vs %q", fromSection, direct)
	}

	// A section of a section shares the same store with its own bounds.
	sub, err := sec.Section(0)
	if err != nil {
		t.Fatalf("sub-section: %v", err)
	}
	if _, err := sub.ReadString(1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("read from empty sub-section: got %v want ErrUnexpectedEOF", err)
	}
}

func TestSectionBounds(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(NewMemStore(make([]byte, 8)))
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if _, err := w.Section(9); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("oversized section: got %v want ErrUnexpectedEOF", err)
	}
	if _, err := w.Section(8); err != nil {
		t.Fatalf("full-length section: %v", err)
	}
}
