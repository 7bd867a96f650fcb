package integration_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/tspcache"
	"github.com/hupe1980/tspcache/tsplib"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, opts ...tspcache.Option) *tspcache.Context {
	t.Helper()
	opts = append([]tspcache.Option{
		tspcache.WithReservationSize(8 << 20),
		tspcache.WithScratchSize(1 << 20),
		tspcache.WithCacheCapacity(1 << 12),
	}, opts...)
	tc, err := tspcache.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tc.Close() })
	return tc
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// bruteCost sums squared leg lengths straight from the coordinates.
func bruteCost(pts []tsplib.Point, path []uint32) float32 {
	var cost float32
	for k := 1; k < len(path); k++ {
		a, b := pts[path[k-1]], pts[path[k]]
		dx, dy := b.X-a.X, b.Y-a.Y
		cost += dx*dx + dy*dy
	}
	return cost
}

func bruteEuclidean(pts []tsplib.Point, path []uint32) float32 {
	var cost float32
	for k := 1; k < len(path); k++ {
		a, b := pts[path[k-1]], pts[path[k]]
		dx, dy := b.X-a.X, b.Y-a.Y
		cost += float32(math.Sqrt(float64(dx*dx + dy*dy)))
	}
	return cost
}
