// Package blockcache provides a byte-capped LRU cache for fixed-size blocks
// of remote blobs.
//
// Coordinate sources are read twice (once to count records, once to load
// them). Caching the blocks of the first pass makes the second pass over an
// S3 or MinIO object free of network round-trips.
//
// Memory held by the cache can be charged to a resource.Controller; when the
// controller refuses, the block is simply not cached.
package blockcache
