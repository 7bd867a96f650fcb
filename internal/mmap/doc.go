// Package mmap wraps the OS paging primitives used by the allocator.
//
// # Overview
//
// Two kinds of mapping are supported:
//
//   - Reserve creates an anonymous, private mapping whose pages start with no
//     access rights. Sub-ranges are opened up with Protect. Pages that are
//     never opened act as guard pages: touching them raises a hardware fault.
//   - Open maps a file read-only for zero-copy parsing of coordinate files.
//
// # Usage
//
//	m, err := mmap.Reserve(4 * mmap.PageSize())
//	if err != nil { ... }
//	defer m.Close()
//
//	// Open the second page for reading and writing.
//	_ = m.Protect(mmap.PageSize(), mmap.PageSize(), mmap.ProtReadWrite)
//
// # Faults
//
// A read or write inside a page that is still ProtNone is not reported as an
// error. With default runtime settings the Go runtime aborts the process with
// "unexpected fault address". Tests that want to observe the fault must call
// runtime/debug.SetPanicOnFault(true) on the faulting goroutine.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2), mprotect(2), madvise(2)
//   - Windows: VirtualAlloc/VirtualProtect for reservations,
//     CreateFileMapping/MapViewOfFile for files (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and guarded by an atomic flag. Callers must make sure
// nothing touches Bytes() after Close returns.
package mmap
