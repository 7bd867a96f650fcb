// Package resource implements a Controller for process-wide memory and IO limits.
//
// Two resource types are governed:
//
//   - Memory: bytes mapped by page reservations and heap scratch arenas
//     (non-blocking, fail-fast)
//   - IO: throughput of coordinate reads from blob stores (token bucket)
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory never blocks; it returns
// ErrMemoryLimitExceeded immediately when the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//	res, err := arena.Reserve(64<<20, arena.WithMemoryAcquirer(rc))
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//	r := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
