// Package arena provides bump allocators for the path-cost evaluator.
//
// There are two tiers:
//
//   - Reservation: a guard-protected region of OS virtual memory. Its layout,
//     low to high address, is
//
//     [guard][metadata][guard][usable ...][guard]
//
//     The metadata page holds the reservation's control block (bump cursor,
//     live arena count). Guard pages are never opened for access, so an
//     overrun or underrun faults at the offending instruction.
//   - PageArena: a stack-discipline bump allocator carved from a
//     Reservation's usable zone. Arenas always start on a page boundary.
//
// ScratchArena is a heap-backed allocator with the same contract, used when a
// page reservation is not worth it (e.g. parse buffers).
//
// # Allocation contract
//
// Alloc aligns the cursor forward to the requested Alignment, checks the
// remaining space, and hands out the next size bytes. A failed Alloc never
// moves the cursor. Checkpoint saves a single mark and Restore rewinds to it;
// marks do not nest.
//
// Memory handed out again after Restore, Reset or reclaim may still hold the
// bytes of earlier allocations. AllocSlice clears what it returns; Alloc does
// not.
//
// # Faults
//
// Touching a guard page is not an error value. With default runtime settings
// the process aborts with "unexpected fault address". That is the point:
// out-of-bounds writes are caught loudly and at the source.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Use one allocator per
// goroutine or guard it externally.
package arena
