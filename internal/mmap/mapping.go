package mmap

import (
	"io"
	"os"
	"sync/atomic"
)

// Mapping is a region of virtual memory obtained from the OS.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	anon   bool
	closed atomic.Bool
	// unmap is the platform-specific function to release the memory.
	unmap func([]byte) error
}

// PageSize returns the OS page size in bytes.
func PageSize() int {
	return osPageSize()
}

// RoundUp rounds n up to a whole number of pages.
func RoundUp(n int) int {
	ps := osPageSize()
	if rem := n % ps; rem != 0 {
		return n + ps - rem
	}
	return n
}

// Reserve maps size bytes of anonymous private memory with no access rights.
// size must be a positive multiple of PageSize.
func Reserve(size int) (*Mapping, error) {
	if size <= 0 || size%osPageSize() != 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osReserve(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		anon:  true,
		unmap: unmapFunc,
	}, nil
}

// Open maps the file at path into memory.
// The file is mapped as read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{data: nil, size: 0}, nil
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  int(size),
		unmap: unmapFunc,
	}, nil
}

// Protect changes the access rights of [offset, offset+size).
// offset must be page aligned; size is rounded up to whole pages by the kernel.
func (m *Mapping) Protect(offset, size int, prot Protection) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.anon {
		return ErrNotAnonymous
	}
	if offset < 0 {
		return ErrInvalidOffset
	}
	if size <= 0 || offset+size > m.size {
		return ErrOutOfBounds
	}
	if offset%osPageSize() != 0 {
		return ErrUnaligned
	}
	return osProtect(m.data[offset:offset+size], prot)
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		err := m.unmap(m.data)
		m.data = nil
		return err
	}
	return nil
}

// Closed reports whether Close has been called.
func (m *Mapping) Closed() bool {
	return m.closed.Load()
}

// Bytes returns the underlying byte slice.
// The slice is valid only until Close() is called. For reservations it spans
// the guard pages too; indexing into them faults.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
