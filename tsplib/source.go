package tsplib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hupe1980/tspcache/arena"
	"github.com/hupe1980/tspcache/blobstore"
	"github.com/hupe1980/tspcache/resource"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec wrapping a source.
type Compression uint8

const (
	// CompressionNone is plain text.
	CompressionNone Compression = iota
	// CompressionGzip is gzip (.gz).
	CompressionGzip
	// CompressionZstd is Zstandard (.zst, .zstd).
	CompressionZstd
	// CompressionLZ4 is the LZ4 frame format (.lz4).
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// CompressionFor picks the codec from the name's suffix.
func CompressionFor(name string) Compression {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Source is a decompressed text stream over a coordinate file.
type Source struct {
	io.Reader
	name        string
	compression Compression
	closers     []func() error
}

// Name returns the name the source was opened with.
func (s *Source) Name() string { return s.name }

// Compression returns the codec detected for the source.
func (s *Source) Compression() Compression { return s.compression }

// Close releases the decoder and the underlying blob.
func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// NewSource wraps r with the decoder matching name's suffix. close, if not
// nil, is called by Source.Close after the decoder is released.
func NewSource(name string, r io.Reader, close func() error) (*Source, error) {
	s := &Source{name: name, compression: CompressionFor(name)}
	if close != nil {
		s.closers = append(s.closers, close)
	}

	switch s.compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("tsplib: %s: gzip: %w", name, err)
		}
		s.Reader = zr
		s.closers = append(s.closers, zr.Close)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("tsplib: %s: zstd: %w", name, err)
		}
		s.Reader = dec
		s.closers = append(s.closers, func() error { dec.Close(); return nil })
	case CompressionLZ4:
		s.Reader = lz4.NewReader(r)
	default:
		s.Reader = r
	}
	return s, nil
}

// OpenBlob opens name in store and returns its decompressed stream. Reads are
// charged to rc's IO limiter; rc may be nil.
func OpenBlob(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) (*Source, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, name, err)
		}
		return nil, fmt.Errorf("tsplib: open %s: %w", name, err)
	}

	body, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("tsplib: read %s: %w", name, err)
	}

	var r io.Reader = body
	if rc.IOBurst() > 0 {
		r = resource.NewRateLimitedReader(ctx, body, rc)
	}

	return NewSource(name, r, func() error {
		return errors.Join(body.Close(), blob.Close())
	})
}

// Open opens a local file, memory-mapped, and returns its decompressed stream.
func Open(path string) (*Source, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	src, err := OpenBlob(context.Background(), blobstore.NewLocalStore(dir), base, nil)
	if err != nil {
		return nil, err
	}
	src.name = path
	return src, nil
}

// Opener opens a fresh stream over the same coordinate source. Load calls it
// once per pass.
type Opener func(ctx context.Context) (*Source, error)

// FileOpener opens a local file.
func FileOpener(path string) Opener {
	return func(context.Context) (*Source, error) {
		return Open(path)
	}
}

// BlobOpener opens name in store, throttled by rc.
func BlobOpener(store blobstore.BlobStore, name string, rc *resource.Controller) Opener {
	return func(ctx context.Context) (*Source, error) {
		return OpenBlob(ctx, store, name, rc)
	}
}

// Count opens the source and counts its entries.
func Count(ctx context.Context, open Opener, opts Options) (int, error) {
	src, err := open(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	n, err := CountEntries(src, opts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return n, nil
}

// Load counts the entries of the source, then loads them into a.
func Load(ctx context.Context, a arena.Allocator, open Opener, opts Options) ([]Point, error) {
	count, err := Count(ctx, open, opts)
	if err != nil {
		return nil, err
	}

	src, err := open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return LoadCoordinates(a, src, count, opts)
}
