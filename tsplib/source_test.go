package tsplib_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/tspcache/arena"
	"github.com/hupe1980/tspcache/blobstore"
	"github.com/hupe1980/tspcache/resource"
	"github.com/hupe1980/tspcache/testutil"
	"github.com/hupe1980/tspcache/tsplib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		name string
		want tsplib.Compression
	}{
		{"berlin52.tsp", tsplib.CompressionNone},
		{"berlin52", tsplib.CompressionNone},
		{"berlin52.tsp.gz", tsplib.CompressionGzip},
		{"BERLIN52.TSP.GZ", tsplib.CompressionGzip},
		{"berlin52.tsp.zst", tsplib.CompressionZstd},
		{"berlin52.tsp.zstd", tsplib.CompressionZstd},
		{"berlin52.tsp.lz4", tsplib.CompressionLZ4},
		{"dir.gz/berlin52.tsp", tsplib.CompressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tsplib.CompressionFor(tt.name))
		})
	}

	assert.Equal(t, "none", tsplib.CompressionNone.String())
	assert.Equal(t, "gzip", tsplib.CompressionGzip.String())
	assert.Equal(t, "zstd", tsplib.CompressionZstd.String())
	assert.Equal(t, "lz4", tsplib.CompressionLZ4.String())
	assert.Equal(t, "Compression(9)", tsplib.Compression(9).String())
}

func TestLoad_Compressed(t *testing.T) {
	rng := testutil.NewRNG(4711)
	pts := rng.UniformPoints(200, 10000)
	text := testutil.RenderTSPLIB("uniform200", pts)

	codecs := []struct {
		codec string
		ext   string
		want  tsplib.Compression
	}{
		{"none", ".tsp", tsplib.CompressionNone},
		{"gzip", ".tsp.gz", tsplib.CompressionGzip},
		{"zstd", ".tsp.zst", tsplib.CompressionZstd},
		{"lz4", ".tsp.lz4", tsplib.CompressionLZ4},
	}

	dir := t.TempDir()
	for _, c := range codecs {
		t.Run(c.codec, func(t *testing.T) {
			path := filepath.Join(dir, "uniform200"+c.ext)
			require.NoError(t, os.WriteFile(path, testutil.Compress(t, c.codec, text), 0o600))

			src, err := tsplib.Open(path)
			require.NoError(t, err)
			assert.Equal(t, path, src.Name())
			assert.Equal(t, c.want, src.Compression())
			require.NoError(t, src.Close())

			s, err := arena.NewScratch(1 << 16)
			require.NoError(t, err)
			defer s.Destroy()

			got, err := tsplib.Load(context.Background(), s, tsplib.FileOpener(path), tsplib.Options{})
			require.NoError(t, err)
			assert.Equal(t, pts, got)
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := tsplib.Open(filepath.Join(t.TempDir(), "missing.tsp"))
	assert.ErrorIs(t, err, tsplib.ErrSourceNotFound)

	s, err := arena.NewScratch(64)
	require.NoError(t, err)
	defer s.Destroy()

	_, err = tsplib.Load(context.Background(), s, tsplib.FileOpener("does/not/exist.tsp"), tsplib.Options{})
	assert.ErrorIs(t, err, tsplib.ErrSourceNotFound)
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tsp.gz")
	require.NoError(t, os.WriteFile(path, []byte("definitely not gzip"), 0o600))

	_, err := tsplib.Open(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, tsplib.ErrSourceNotFound)
}

func TestBlobOpener_Throttled(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	pts := testutil.NewRNG(1).ClusteredPoints(64, 4, 1000, 25)
	data := testutil.Compress(t, "zstd", testutil.RenderTSPLIB("clustered", pts))
	require.NoError(t, store.Put(ctx, "sets/clustered.tsp.zst", data))

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	count, err := tsplib.Count(ctx, tsplib.BlobOpener(store, "sets/clustered.tsp.zst", rc), tsplib.Options{})
	require.NoError(t, err)
	assert.Equal(t, 64, count)

	s, err := arena.NewScratch(1 << 12)
	require.NoError(t, err)
	defer s.Destroy()

	got, err := tsplib.Load(ctx, s, tsplib.BlobOpener(store, "sets/clustered.tsp.zst", rc), tsplib.Options{})
	require.NoError(t, err)
	assert.Equal(t, pts, got)

	_, err = tsplib.OpenBlob(ctx, store, "sets/other.tsp", rc)
	assert.ErrorIs(t, err, tsplib.ErrSourceNotFound)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestNewSource_ClosesUnderlying(t *testing.T) {
	closed := 0
	src, err := tsplib.NewSource("inline.tsp", nil, func() error {
		closed++
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.Equal(t, 1, closed)
}
