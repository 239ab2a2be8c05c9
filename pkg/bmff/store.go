package bmff

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Store is the byte-providing capability behind a Window: a fixed-size
// region served by positional reads. ReadAt is safe for concurrent use,
// so any number of windows (root or derived sections) can share one Store
// while keeping independent cursors.
type Store interface {
	io.ReaderAt
	Size() int64
}

// StoreCloser is a Store holding a releasable resource (an open file or
// an mmap region).
type StoreCloser interface {
	Store
	io.Closer
}

type fileStore struct {
	f    *os.File
	size int64
}

func (s *fileStore) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *fileStore) Size() int64                             { return s.size }
func (s *fileStore) Close() error                            { return s.f.Close() }

type mmapStore struct {
	data []byte
}

func (s *mmapStore) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, os.ErrInvalid
	}
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *mmapStore) Size() int64 { return int64(len(s.data)) }

func (s *mmapStore) Close() error {
	data := s.data
	s.data = nil
	return unix.Munmap(data)
}

// memStore serves a byte slice. Used by tests and for payloads already
// held in memory.
type memStore struct {
	data []byte
}

// NewMemStore returns a Store over the given bytes. The slice is not
// copied; the caller must not mutate it while windows are live.
func NewMemStore(data []byte) Store {
	return &memStore{data: data}
}

func (s *memStore) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, os.ErrInvalid
	}
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *memStore) Size() int64 { return int64(len(s.data)) }

// OpenFile opens path as a read-only Store. The file is mapped into
// memory where mmap is available; otherwise reads go through the file
// handle. The returned store must be closed to release the mapping or
// the handle.
func OpenFile(path string) (StoreCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := st.Size()

	// mmap needs a non-empty, int-indexable file.
	if size > 0 && size <= int64(int(^uint(0)>>1)) {
		data, merr := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if merr == nil {
			f.Close()
			return &mmapStore{data: data}, nil
		}
	}

	return &fileStore{f: f, size: size}, nil
}
