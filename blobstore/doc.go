// Package blobstore provides storage abstraction for coordinate sources.
//
// A coordinate file can live on local disk, in memory, in Amazon S3 or in any
// S3-compatible store. The tsplib package reads all of them through Blob.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap reads and atomic writes
//   - MemoryStore: In-memory store for tests
//   - CachingStore: Block cache in front of another store
//   - s3.Store: Amazon S3 with range reads
//   - minio.Store: MinIO and other S3-compatible stores
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs are read with ranged reads:
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    ReadRange(ctx, off, length) (io.ReadCloser, error)
//	    Size() int64
//	    Close() error
//	}
package blobstore
