package cache

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/bits"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/tspcache/arena"
	"github.com/hupe1980/tspcache/internal/conv"
	"github.com/hupe1980/tspcache/internal/hash"
)

const (
	// DefaultCapacity is the reference slot count.
	DefaultCapacity = 1 << 20
	// MaxFragmentLen is the longest fragment a slot can hold.
	MaxFragmentLen = 6
	// maxCapacity keeps slot indices inside roaring's 32-bit domain.
	maxCapacity = 1 << 31
)

var (
	// ErrNotFound is returned by Lookup when the fragment is not cached.
	ErrNotFound = errors.New("cache: not found")
	// ErrFull is returned by Insert when the probe limit is reached without
	// finding a free slot.
	ErrFull = errors.New("cache: full")
	// ErrInvalidCapacity is returned by New for a capacity that is not a
	// positive power of two.
	ErrInvalidCapacity = errors.New("cache: capacity must be a power of two")
	// ErrFragmentTooLong is returned for fragments longer than MaxFragmentLen.
	ErrFragmentTooLong = errors.New("cache: fragment too long")
)

type entry struct {
	hash   uint64
	path   [MaxFragmentLen]uint32
	length uint8
	used   bool
	cost   float32
}

func (e *entry) matches(h uint64, path []uint32) bool {
	if e.hash != h || int(e.length) != len(path) {
		return false
	}
	for i, c := range path {
		if e.path[i] != c {
			return false
		}
	}
	return true
}

// Stats holds cache counters.
type Stats struct {
	Capacity     int
	Occupied     int
	Hits         uint64
	Misses       uint64
	Inserts      uint64 // fragments stored
	Duplicates   uint64 // inserts ignored because the fragment was present
	Rejected     uint64 // inserts that failed with ErrFull
	LongestProbe int    // most slots visited by a single operation
}

// LoadFactor returns Occupied / Capacity.
func (s Stats) LoadFactor() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Occupied) / float64(s.Capacity)
}

// HitRate returns Hits / (Hits + Misses).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// FragmentCache is a fixed-capacity open-addressed fragment-to-cost table.
type FragmentCache struct {
	entries    []entry
	mask       uint64
	probeLimit int
	allocator  arena.Allocator

	// occupied indexes the used slots for Len, All and Reset.
	occupied *roaring.Bitmap
	stats    Stats
}

// Option configures New.
type Option func(*FragmentCache)

// WithProbeLimit bounds the number of slots a single Insert or Lookup visits.
// Values < 1 or above the capacity are clamped to the capacity.
func WithProbeLimit(n int) Option {
	return func(c *FragmentCache) {
		c.probeLimit = n
	}
}

// WithAllocator places the slot table in memory from a instead of the Go heap.
// The allocator must outlive the cache.
func WithAllocator(a arena.Allocator) Option {
	return func(c *FragmentCache) {
		c.allocator = a
	}
}

// New creates a cache with capacity slots. Capacity must be a power of two.
func New(capacity int, opts ...Option) (*FragmentCache, error) {
	if capacity < 1 || capacity > maxCapacity || bits.OnesCount(uint(capacity)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	c := &FragmentCache{
		mask:     uint64(capacity - 1),
		occupied: roaring.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.probeLimit < 1 || c.probeLimit > capacity {
		c.probeLimit = capacity
	}

	if c.allocator != nil {
		entries, err := arena.AllocSlice[entry](c.allocator, capacity, arena.Align64)
		if err != nil {
			return nil, fmt.Errorf("cache: allocate %d slots: %w", capacity, err)
		}
		c.entries = entries
	} else {
		c.entries = make([]entry, capacity)
	}
	c.stats.Capacity = capacity
	return c, nil
}

// TableBytes returns the bytes needed for a table of capacity slots,
// for sizing an allocator passed to WithAllocator.
func TableBytes(capacity int) int {
	var e entry
	size := int(unsafe.Sizeof(e))
	if capacity > (math.MaxInt-int(arena.Align64))/size {
		return math.MaxInt
	}
	return capacity*size + int(arena.Align64)
}

// Hash returns the FNV-1a digest of path.
func Hash(path []uint32) uint64 {
	return hash.FNV1aUint32s(path)
}

// probe walks the probe sequence of path. It returns the slot holding path
// (found) or the first free slot; slot is -1 when the limit is hit.
func (c *FragmentCache) probe(h uint64, path []uint32) (slot int, found bool) {
	start := h & c.mask
	for i := 0; i < c.probeLimit; i++ {
		idx := (start + uint64(i)) & c.mask
		e := &c.entries[idx]
		if !e.used || e.matches(h, path) {
			if i+1 > c.stats.LongestProbe {
				c.stats.LongestProbe = i + 1
			}
			return int(idx), e.used
		}
	}
	c.stats.LongestProbe = max(c.stats.LongestProbe, c.probeLimit)
	return -1, false
}

// Insert stores cost for path unless path is already present, in which case
// the stored cost is kept.
func (c *FragmentCache) Insert(path []uint32, cost float32) error {
	if len(path) > MaxFragmentLen {
		return fmt.Errorf("%w: %d > %d", ErrFragmentTooLong, len(path), MaxFragmentLen)
	}

	h := Hash(path)
	slot, found := c.probe(h, path)
	switch {
	case slot < 0:
		c.stats.Rejected++
		return fmt.Errorf("%w: no free slot within %d probes", ErrFull, c.probeLimit)
	case found:
		c.stats.Duplicates++
		return nil
	}

	e := &c.entries[slot]
	e.hash = h
	e.length = uint8(len(path))
	copy(e.path[:], path)
	e.cost = cost
	e.used = true

	idx, err := conv.IntToUint32(slot)
	if err != nil {
		return err
	}
	c.occupied.Add(idx)
	c.stats.Inserts++
	return nil
}

// Lookup returns the cost stored for path.
func (c *FragmentCache) Lookup(path []uint32) (float32, error) {
	if len(path) > MaxFragmentLen {
		c.stats.Misses++
		return 0, ErrNotFound
	}

	slot, found := c.probe(Hash(path), path)
	if !found {
		c.stats.Misses++
		return 0, ErrNotFound
	}
	c.stats.Hits++
	return c.entries[slot].cost, nil
}

// Contains reports whether path is cached without touching hit counters.
func (c *FragmentCache) Contains(path []uint32) bool {
	if len(path) > MaxFragmentLen {
		return false
	}
	_, found := c.probe(Hash(path), path)
	return found
}

// Len returns the number of cached fragments.
func (c *FragmentCache) Len() int {
	return int(c.occupied.GetCardinality())
}

// Capacity returns the slot count.
func (c *FragmentCache) Capacity() int {
	return len(c.entries)
}

// ProbeLimit returns the effective probe limit.
func (c *FragmentCache) ProbeLimit() int {
	return c.probeLimit
}

// All iterates over cached fragments in slot order. The yielded path is only
// valid for the duration of the callback.
func (c *FragmentCache) All() iter.Seq2[[]uint32, float32] {
	return func(yield func([]uint32, float32) bool) {
		it := c.occupied.Iterator()
		for it.HasNext() {
			e := &c.entries[it.Next()]
			if !yield(e.path[:e.length], e.cost) {
				return
			}
		}
	}
}

// Stats returns a snapshot of the counters.
func (c *FragmentCache) Stats() Stats {
	s := c.stats
	s.Occupied = c.Len()
	return s
}

// Reset empties the table and zeroes the counters. Only occupied slots are
// cleared.
func (c *FragmentCache) Reset() {
	it := c.occupied.Iterator()
	for it.HasNext() {
		c.entries[it.Next()] = entry{}
	}
	c.occupied.Clear()
	c.stats = Stats{Capacity: len(c.entries)}
}
