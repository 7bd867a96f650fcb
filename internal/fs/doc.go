// Package fs abstracts the filesystem writes behind blobstore.LocalStore so
// tests can inject failures.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wraps another FileSystem and fails writes, syncs, closes or
//     renames on matching paths
//
// Reads are not abstracted: local blobs are memory-mapped straight from the
// file descriptor.
package fs
