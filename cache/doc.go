// Package cache memoizes the cost of path fragments.
//
// FragmentCache is a fixed-capacity open-addressed hash table. A fragment is
// an ordered sequence of at most MaxFragmentLen city indices. Its slot is
// chosen by the 64-bit FNV-1a digest of the indices' little-endian bytes,
// masked to the power-of-two capacity; collisions are resolved by linear
// probing with wrap-around.
//
// The table never evicts, deletes or resizes. The first Insert of a fragment
// wins; later inserts of the same fragment are no-ops. Fragments are
// order-sensitive, so a path and its reverse are distinct keys.
//
// Probe sequences are bounded by a probe limit (the capacity unless set with
// WithProbeLimit). Insert fails with ErrFull when no free slot is found
// within the limit; Lookup reports ErrNotFound.
//
// # Usage
//
//	c, err := cache.New(cache.DefaultCapacity)
//	_ = c.Insert([]uint32{0, 1, 2}, 45)
//	cost, err := c.Lookup([]uint32{0, 1, 2}) // 45, nil
//
// A FragmentCache is not safe for concurrent use.
package cache
