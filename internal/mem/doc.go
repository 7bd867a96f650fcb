// Package mem provides heap allocation utilities.
//
// # Aligned Allocation
//
// AllocAligned returns GC-managed buffers whose first byte sits on a chosen
// power-of-two boundary (up to MaxAlignment). Scratch arenas use it so that
// offsets aligned inside the buffer are aligned in memory too.
package mem
