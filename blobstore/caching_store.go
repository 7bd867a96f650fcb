package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/hupe1980/tspcache/internal/blockcache"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the cache block size used when none is given.
const DefaultBlockSize = 64 << 10

var storeSeq atomic.Uint64

// CachingStore wraps a BlobStore and caches fixed-size blocks of the blobs it
// reads. Cache keys carry the store's namespace, so several stores can share
// one LRU.
type CachingStore struct {
	inner     BlobStore
	cache     *blockcache.LRU
	blockSize int64
	namespace string
}

// CachingOption configures a CachingStore.
type CachingOption func(*CachingStore)

// WithNamespace sets the identity used in cache keys, e.g. "s3://host/bucket".
// Two stores with the same namespace must address the same blobs.
func WithNamespace(id string) CachingOption {
	return func(s *CachingStore) {
		if id != "" {
			s.namespace = id
		}
	}
}

// NewCachingStore creates a new CachingStore.
// blockSize defaults to DefaultBlockSize if <= 0. Without WithNamespace every
// store gets a process-unique namespace.
func NewCachingStore(inner BlobStore, cache *blockcache.LRU, blockSize int64, opts ...CachingOption) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	s := &CachingStore{
		inner:     inner,
		cache:     cache,
		blockSize: blockSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.namespace == "" {
		s.namespace = fmt.Sprintf("store-%d", storeSeq.Add(1))
	}
	return s
}

// Namespace returns the identity used in cache keys.
func (s *CachingStore) Namespace() string {
	return s.namespace
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	cb := &CachingBlob{
		inner:     b,
		cache:     s.cache,
		store:     s.namespace,
		name:      name,
		blockSize: s.blockSize,
	}
	if v, ok := b.(Versioned); ok {
		cb.version = v.Version()
	}
	return cb, nil
}

// Put invalidates cached blocks of name and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(s.namespace, name)
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates cached blocks of name and deletes through.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(s.namespace, name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the wrapped store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// CachingBlob wraps a Blob and uses the block cache for reads.
type CachingBlob struct {
	inner     Blob
	cache     *blockcache.LRU
	store     string
	name      string
	version   string
	blockSize int64
}

func (b *CachingBlob) Close() error {
	return b.inner.Close()
}

func (b *CachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *CachingBlob) key(blk int64) blockcache.Key {
	return blockcache.Key{Store: b.store, Blob: b.name, Version: b.version, Block: blk}
}

// ReadAt serves p from cached blocks, fetching missing runs of blocks from the
// wrapped blob first.
func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}

	want := min(int64(len(p)), size-off)
	startBlock := off / b.blockSize
	endBlock := (off + want - 1) / b.blockSize

	blocks, err := b.fetch(ctx, startBlock, endBlock)
	if err != nil {
		return 0, err
	}

	total := 0
	for i, data := range blocks {
		blkStart := (startBlock + int64(i)) * b.blockSize
		lo := max(blkStart, off) - blkStart
		hi := min(blkStart+int64(len(data)), off+want) - blkStart
		if hi <= lo {
			continue
		}
		total += copy(p[blkStart+lo-off:], data[lo:hi])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// fetch returns blocks [startBlock, endBlock]. Missing blocks are read from
// the wrapped blob in contiguous runs, in parallel, and cached.
func (b *CachingBlob) fetch(ctx context.Context, startBlock, endBlock int64) ([][]byte, error) {
	blocks := make([][]byte, endBlock-startBlock+1)

	type run struct{ start, count int64 }
	var missing []run
	for blk := startBlock; blk <= endBlock; blk++ {
		if data, ok := b.cache.Get(b.key(blk)); ok {
			blocks[blk-startBlock] = data
			continue
		}
		if n := len(missing); n > 0 && missing[n-1].start+missing[n-1].count == blk {
			missing[n-1].count++
		} else {
			missing = append(missing, run{start: blk, count: 1})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid FD exhaustion or rate limits
	g.SetLimit(16)

	for _, r := range missing {
		g.Go(func() error {
			byteStart := r.start * b.blockSize
			byteSize := min(r.count*b.blockSize, b.Size()-byteStart)

			buf := make([]byte, byteSize)
			n, err := b.inner.ReadAt(gctx, buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]

			for i := int64(0); i < r.count; i++ {
				lo := i * b.blockSize
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(buf)))
				// Copy so a cached block does not pin the whole run.
				block := make([]byte, hi-lo)
				copy(block, buf[lo:hi])

				b.cache.Set(b.key(r.start+i), block)
				// Each goroutine writes a disjoint range of blocks.
				blocks[r.start+i-startBlock] = block
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ReadRange returns a stream over [off, off+length) served from the cache.
func (b *CachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(&contextSectionReader{blob: b, ctx: ctx, off: off, limit: min(off+length, b.Size())}), nil
}

// contextSectionReader wraps CachingBlob to implement io.Reader with context.
type contextSectionReader struct {
	blob  *CachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *contextSectionReader) Read(p []byte) (n int, err error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}
