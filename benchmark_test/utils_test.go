package benchmark_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/tspcache"
	"github.com/hupe1980/tspcache/testutil"
	"github.com/hupe1980/tspcache/tsplib"
)

var scales = []int{100, 1000, 3000}

// memoryOpener serves an in-memory TSPLIB file as if it were named name.
func memoryOpener(name string, data []byte) tsplib.Opener {
	return func(context.Context) (*tsplib.Source, error) {
		return tsplib.NewSource(name, bytes.NewReader(data), nil)
	}
}

func writeInstance(b *testing.B, dir, name string, cities int, codec string) string {
	b.Helper()
	text := testutil.RenderTSPLIB(name, testutil.NewRNG(int64(cities)).UniformPoints(cities, 10000))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, testutil.Compress(b, codec, text), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

// loadedContext returns a Context holding a uniform instance of n cities.
func loadedContext(b *testing.B, n int, opts ...tspcache.Option) *tspcache.Context {
	b.Helper()

	opts = append([]tspcache.Option{
		tspcache.WithReservationSize(64 << 20),
		tspcache.WithScratchSize(4 << 20),
		tspcache.WithCacheCapacity(1 << 16),
	}, opts...)
	tc, err := tspcache.New(opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = tc.Close() })

	text := testutil.RenderTSPLIB("bench", testutil.NewRNG(7).UniformPoints(n, 10000))
	if _, err := tc.Load(context.Background(), "bench.tsp", memoryOpener("bench.tsp", text)); err != nil {
		b.Fatal(err)
	}
	return tc
}

// fragments returns count random paths of length k over n cities.
func fragments(n, k, count int) [][]uint32 {
	rng := testutil.NewRNG(42)
	out := make([][]uint32, count)
	for i := range out {
		out[i] = rng.Path(k, n)
	}
	return out
}
