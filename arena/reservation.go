package arena

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/hupe1980/tspcache/internal/mmap"
)

// MemoryAcquirer is an interface for acquiring memory.
// *resource.Controller implements it.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

// Number of pages a reservation spends outside its usable zone.
const overheadPages = 4

const controlMagic = 0x7473_7061_7265_7376 // "tspresv"

// controlBlock lives in the reservation's metadata page.
// It holds no Go pointers; the page is outside the Go heap.
type controlBlock struct {
	magic         uint64
	pageSize      uint64
	requested     uint64
	usableSize    uint64
	cursor        uint64
	liveArenas    uint64
	arenasCreated uint64
}

// Reservation is a guard-protected region of virtual memory from which
// PageArenas are carved.
//
// Layout, in pages from the mapping base:
//
//	0          guard     (no access)
//	1          metadata  (read/write, control block)
//	2          guard     (no access)
//	3 .. 3+n-1 usable    (read/write)
//	3+n        guard     (no access)
type Reservation struct {
	mapping  *mmap.Mapping
	meta     *mmap.Region
	usable   *mmap.Region
	ctl      *controlBlock
	acquirer MemoryAcquirer
	charged  int64

	reclaimOnEmpty bool
	released       bool
}

// ReservationOption configures Reserve.
type ReservationOption func(*Reservation)

// WithMemoryAcquirer charges the full mapping size against acquirer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) ReservationOption {
	return func(r *Reservation) {
		r.acquirer = acquirer
	}
}

// WithReclaimOnEmpty rewinds the bump cursor to the start of the usable zone
// whenever the last live arena is destroyed. By default the cursor is
// monotonic and space is only reclaimed by Release.
func WithReclaimOnEmpty() ReservationOption {
	return func(r *Reservation) {
		r.reclaimOnEmpty = true
	}
}

// Reserve maps a guarded region with at least requestedSize usable bytes.
func Reserve(requestedSize int, opts ...ReservationOption) (*Reservation, error) {
	return ReserveContext(context.Background(), requestedSize, opts...)
}

// ReserveContext is Reserve with a context for the memory acquirer.
func ReserveContext(ctx context.Context, requestedSize int, opts ...ReservationOption) (*Reservation, error) {
	if requestedSize < 1 {
		return nil, &ReservationError{Requested: requestedSize, Err: ErrInvalidSize}
	}

	r := &Reservation{}
	for _, opt := range opts {
		opt(r)
	}

	pageSize := mmap.PageSize()
	usableSize := mmap.RoundUp(requestedSize)
	if usableSize < requestedSize {
		return nil, &ReservationError{Requested: requestedSize, Err: ErrInvalidSize}
	}
	total := overheadPages*pageSize + usableSize

	if r.acquirer != nil {
		if err := r.acquirer.AcquireMemory(ctx, int64(total)); err != nil {
			return nil, &ReservationError{Requested: requestedSize, Err: err}
		}
		r.charged = int64(total)
	}

	if err := r.mapZones(total, pageSize, usableSize); err != nil {
		if r.acquirer != nil {
			r.acquirer.ReleaseMemory(r.charged)
		}
		return nil, &ReservationError{Requested: requestedSize, Err: err}
	}

	*r.ctl = controlBlock{
		magic:      controlMagic,
		pageSize:   uint64(pageSize),
		requested:  uint64(requestedSize),
		usableSize: uint64(usableSize),
	}
	return r, nil
}

func (r *Reservation) mapZones(total, pageSize, usableSize int) error {
	m, err := mmap.Reserve(total)
	if err != nil {
		return err
	}

	meta, err := m.Region(pageSize, pageSize)
	if err != nil {
		_ = m.Close()
		return err
	}
	usable, err := m.Region(3*pageSize, usableSize)
	if err != nil {
		_ = m.Close()
		return err
	}
	if err := meta.Protect(mmap.ProtReadWrite); err != nil {
		_ = m.Close()
		return err
	}
	if err := usable.Protect(mmap.ProtReadWrite); err != nil {
		_ = m.Close()
		return err
	}

	r.mapping = m
	r.meta = meta
	r.usable = usable
	r.ctl = (*controlBlock)(unsafe.Pointer(&meta.Bytes()[0])) //nolint:gosec // control block lives in the metadata page
	return nil
}

// NewArena carves a PageArena of size bytes at the current cursor and
// advances the cursor by size rounded up to a whole page.
func (r *Reservation) NewArena(size int) (*PageArena, error) {
	if r.released {
		return nil, ErrReleased
	}
	if size < 1 {
		return nil, ErrInvalidSize
	}

	cursor := int(r.ctl.cursor)
	usable := int(r.ctl.usableSize)
	if size > usable-cursor {
		return nil, fmt.Errorf("%w: need %d bytes, %d remaining", ErrExhausted, size, usable-cursor)
	}

	window := r.usable.Bytes()[cursor : cursor+size : cursor+size]
	advance := mmap.RoundUp(size)
	r.ctl.cursor = uint64(min(cursor+advance, usable))
	r.ctl.liveArenas++
	r.ctl.arenasCreated++

	return &PageArena{
		bump:   bump{buf: window},
		parent: r,
		start:  cursor,
	}, nil
}

// arenaDestroyed is called by PageArena.Destroy.
func (r *Reservation) arenaDestroyed() {
	if r.released {
		return
	}
	if r.ctl.liveArenas > 0 {
		r.ctl.liveArenas--
	}
	if r.reclaimOnEmpty && r.ctl.liveArenas == 0 {
		r.ctl.cursor = 0
	}
}

// Release unmaps the whole region in one call. Arenas carved from the
// reservation become unusable; their Alloc returns ErrReleased.
// Calling Release twice is a no-op.
func (r *Reservation) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	r.ctl = nil
	r.meta = nil
	r.usable = nil

	err := r.mapping.Close()
	if r.acquirer != nil {
		r.acquirer.ReleaseMemory(r.charged)
		r.charged = 0
	}
	return err
}

// Released reports whether Release has been called.
func (r *Reservation) Released() bool { return r.released }

// PageSize returns the page size the reservation was laid out with.
func (r *Reservation) PageSize() int {
	if r.released {
		return 0
	}
	return int(r.ctl.pageSize)
}

// RequestedSize returns the size passed to Reserve.
func (r *Reservation) RequestedSize() int {
	if r.released {
		return 0
	}
	return int(r.ctl.requested)
}

// UsableSize returns the usable zone size: RequestedSize rounded up to pages.
func (r *Reservation) UsableSize() int {
	if r.released {
		return 0
	}
	return int(r.ctl.usableSize)
}

// MappingSize returns the total mapping size: 4 pages plus the usable zone.
func (r *Reservation) MappingSize() int {
	if r.released {
		return 0
	}
	return r.mapping.Size()
}

// Cursor returns the usable-zone bump cursor.
func (r *Reservation) Cursor() int {
	if r.released {
		return 0
	}
	return int(r.ctl.cursor)
}

// LiveArenas returns the number of arenas created and not yet destroyed.
func (r *Reservation) LiveArenas() int {
	if r.released {
		return 0
	}
	return int(r.ctl.liveArenas)
}

// ArenasCreated returns the number of arenas ever carved from r.
func (r *Reservation) ArenasCreated() int {
	if r.released {
		return 0
	}
	return int(r.ctl.arenasCreated)
}

func (r *Reservation) String() string {
	if r.released {
		return "Reservation{released}"
	}
	return fmt.Sprintf(
		"Reservation{usable: %.2f MB, mapped: %.2f MB, cursor: %d, live: %d, created: %d}",
		float64(r.UsableSize())/(1024*1024),
		float64(r.MappingSize())/(1024*1024),
		r.Cursor(),
		r.LiveArenas(),
		r.ArenasCreated(),
	)
}
