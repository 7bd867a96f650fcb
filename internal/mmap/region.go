package mmap

// Region is a page-aligned window of a Mapping.
// It does not own the memory; the parent Mapping does.
type Region struct {
	parent *Mapping
	offset int
	size   int
}

// Region creates a new view into the mapping.
func (m *Mapping) Region(offset, size int) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || size < 0 || offset+size > m.size {
		return nil, ErrOutOfBounds
	}
	return &Region{
		parent: m,
		offset: offset,
		size:   size,
	}, nil
}

// Offset returns the region's offset from the start of the mapping.
func (r *Region) Offset() int { return r.offset }

// Size returns the region's length in bytes.
func (r *Region) Size() int { return r.size }

// Bytes returns the byte slice for this region, capped at its end so that
// appends can never spill into a neighbouring zone.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	end := r.offset + r.size
	return r.parent.data[r.offset:end:end]
}

// Protect changes the access rights of the whole region.
func (r *Region) Protect(prot Protection) error {
	return r.parent.Protect(r.offset, r.size, prot)
}

// Advise provides hints to the kernel about how this region will be accessed.
func (r *Region) Advise(pattern AccessPattern) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.parent.data[r.offset:r.offset+r.size], pattern)
}
