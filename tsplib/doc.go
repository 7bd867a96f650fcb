// Package tsplib reads city coordinates from TSPLIB-style text sources.
//
// Only the coordinate section is interpreted. A line starting with
// NODE_COORD_SECTION opens it, a line starting with EOF closes it, and every
// line in between is a record
//
//	<index> <x> <y>
//
// with a 1-based integer index. Records that do not parse, or whose index is
// out of range, are skipped; Options.OnMalformed sees each one. Everything
// outside the section is ignored.
//
// Reading is two-pass: CountEntries sizes the coordinate slice, then
// LoadCoordinates fills it from a fresh stream. Load runs both passes over an
// Opener:
//
//	scratch, _ := arena.NewScratch(1 << 20)
//	pts, err := tsplib.Load(ctx, scratch, tsplib.FileOpener("ca4663.tsp.zst"), tsplib.Options{})
//
// Sources ending in .gz, .zst or .lz4 are decompressed transparently. Sources
// can be local files (memory-mapped) or any blobstore.BlobStore.
package tsplib
