package arena

// PageArena is a bump allocator over a window of a Reservation's usable zone.
// It borrows the memory; the Reservation owns it and must outlive the arena.
type PageArena struct {
	bump
	parent    *Reservation
	start     int // window offset inside the usable zone
	destroyed bool
}

var _ Allocator = (*PageArena)(nil)

func (a *PageArena) live() bool {
	return !a.destroyed && !a.parent.released
}

// Alloc returns size bytes aligned to align. It fails with
// ErrUnsupportedAlignment or ErrOverflow without moving the cursor.
// A zero-byte request returns an empty slice at the aligned cursor.
func (a *PageArena) Alloc(size int, align Alignment) ([]byte, error) {
	if !a.live() {
		return nil, ErrReleased
	}
	return a.alloc(size, align)
}

// Checkpoint records the cursor as the single saved mark.
func (a *PageArena) Checkpoint() {
	if a.live() {
		a.checkpoint()
	}
}

// Restore rewinds the cursor to the saved mark (0 if none was taken).
func (a *PageArena) Restore() {
	if a.live() {
		a.restore()
	}
}

// Reset rewinds the cursor and the saved mark to zero.
func (a *PageArena) Reset() {
	if a.live() {
		a.reset()
	}
}

// Destroy invalidates the arena and decrements the reservation's live count.
// Calling it twice is a no-op.
func (a *PageArena) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.buf = nil
	a.offset = 0
	a.previous = 0
	a.parent.arenaDestroyed()
}

// Destroyed reports whether Destroy has been called.
func (a *PageArena) Destroyed() bool { return a.destroyed }

// Reservation returns the owning reservation.
func (a *PageArena) Reservation() *Reservation { return a.parent }

// Start returns the window's offset inside the reservation's usable zone.
func (a *PageArena) Start() int { return a.start }

// Offset returns the current cursor.
func (a *PageArena) Offset() int { return a.offset }

// Size returns the logical size the arena was created with.
func (a *PageArena) Size() int { return len(a.buf) }

// Remaining returns the bytes left after the cursor.
func (a *PageArena) Remaining() int { return len(a.buf) - a.offset }

// Stats returns usage statistics.
func (a *PageArena) Stats() Stats { return a.snapshot() }
