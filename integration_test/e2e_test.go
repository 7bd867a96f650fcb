package integration_test

import (
	"context"
	"testing"

	"github.com/hupe1980/tspcache"
	"github.com/hupe1980/tspcache/blobstore"
	"github.com/hupe1980/tspcache/internal/blockcache"
	"github.com/hupe1980/tspcache/resource"
	"github.com/hupe1980/tspcache/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_CompressedSourcesAgree(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rng := testutil.NewRNG(11)
	pts := rng.ClusteredPoints(120, 5, 5000, 50)
	text := testutil.RenderTSPLIB("c120", pts)

	files := map[string]string{
		"none": writeFile(t, dir, "c120.tsp", text),
		"gzip": writeFile(t, dir, "c120.tsp.gz", testutil.Compress(t, "gzip", text)),
		"zstd": writeFile(t, dir, "c120.tsp.zst", testutil.Compress(t, "zstd", text)),
		"lz4":  writeFile(t, dir, "c120.tsp.lz4", testutil.Compress(t, "lz4", text)),
	}

	reference := newContext(t)
	_, err := reference.LoadFile(ctx, files["none"])
	require.NoError(t, err)
	want := append([]float32(nil), reference.Matrix().Distances()...)

	paths := make([][]uint32, 200)
	for i := range paths {
		paths[i] = rng.Path(5, len(pts))
	}

	for codec, path := range files {
		t.Run(codec, func(t *testing.T) {
			tc := newContext(t)
			info, err := tc.LoadFile(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, 120, info.Cities)
			assert.Zero(t, info.Skipped)
			assert.Equal(t, want, tc.Matrix().Distances())

			for _, p := range paths {
				got, err := tc.Evaluate(p)
				require.NoError(t, err)
				assert.InEpsilon(t, bruteCost(pts, p), got, 1e-4)
			}
		})
	}
}

func TestE2E_EvaluateMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(3)
	pts := rng.UniformPoints(300, 1000)
	path := writeFile(t, t.TempDir(), "u300.tsp", testutil.RenderTSPLIB("u300", pts))

	tc := newContext(t)
	_, err := tc.LoadFile(ctx, path)
	require.NoError(t, err)

	// Every fragment twice: the second pass must come from the cache and
	// agree with the first.
	frags := make([][]uint32, 500)
	for i := range frags {
		frags[i] = rng.Path(2+i%5, len(pts))
	}
	var hits [2]uint64
	for pass := range hits {
		for _, f := range frags {
			got, err := tc.Evaluate(f)
			require.NoError(t, err)
			assert.InEpsilon(t, bruteCost(pts, f), got, 1e-4)
		}
		hits[pass] = tc.Stats().Cache.Hits
	}
	assert.Equal(t, uint64(len(frags)), hits[1]-hits[0], "second pass is served from the cache")

	tour := rng.Path(len(pts), len(pts))
	tour = append(tour, tour[0])
	got, err := tc.EvaluateEuclidean(tour)
	require.NoError(t, err)
	assert.InEpsilon(t, bruteEuclidean(pts, tour), got, 1e-3)
}

func TestE2E_CachingStore(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})

	mem := blobstore.NewMemoryStore()
	text := testutil.RenderTSPLIB("remote", testutil.NewRNG(8).UniformPoints(400, 1000))
	require.NoError(t, mem.Put(ctx, "tsp/remote.tsp.gz", testutil.Compress(t, "gzip", text)))

	blocks := blockcache.New(4<<20, rc)
	store := blobstore.NewCachingStore(mem, blocks, 4<<10)

	tc := newContext(t, tspcache.WithResourceController(rc))
	first, err := tc.LoadBlob(ctx, store, "tsp/remote.tsp.gz")
	require.NoError(t, err)
	_, missesAfterFirst := blocks.Stats()

	second, err := tc.LoadBlob(ctx, store, "tsp/remote.tsp.gz")
	require.NoError(t, err)
	hits, misses := blocks.Stats()

	assert.Equal(t, first.Cities, second.Cities)
	assert.Equal(t, 400, second.Cities)
	assert.Equal(t, missesAfterFirst, misses, "reload is served from the block cache")
	assert.Positive(t, hits)
	assert.Positive(t, blocks.Size())
}

func TestE2E_LocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	text := testutil.RenderTSPLIB("local", testutil.NewRNG(4).UniformPoints(64, 100))
	require.NoError(t, store.Put(ctx, "nested/dir/local.tsp.zst", testutil.Compress(t, "zstd", text)))

	names, err := store.List(ctx, "nested/")
	require.NoError(t, err)
	require.Equal(t, []string{"nested/dir/local.tsp.zst"}, names)

	tc := newContext(t)
	info, err := tc.LoadBlob(ctx, store, names[0])
	require.NoError(t, err)
	assert.Equal(t, 64, info.Cities)
	assert.Equal(t, "nested/dir/local.tsp.zst", tc.Source())
}
