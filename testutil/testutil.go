package testutil

import (
	"bytes"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/hupe1980/tspcache/tsplib"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformPoints returns n points with coordinates in [0, extent).
func (r *RNG) UniformPoints(n int, extent float32) []tsplib.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]tsplib.Point, n)
	for i := range pts {
		pts[i] = tsplib.Point{X: r.rand.Float32() * extent, Y: r.rand.Float32() * extent}
	}
	return pts
}

// ClusteredPoints returns n points scattered around clusters centers drawn in
// [0, extent), with normally distributed offsets of the given spread.
func (r *RNG) ClusteredPoints(n, clusters int, extent, spread float32) []tsplib.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([]tsplib.Point, clusters)
	for i := range centers {
		centers[i] = tsplib.Point{X: r.rand.Float32() * extent, Y: r.rand.Float32() * extent}
	}

	pts := make([]tsplib.Point, n)
	for i := range pts {
		c := centers[r.rand.Intn(clusters)]
		pts[i] = tsplib.Point{
			X: c.X + float32(r.rand.NormFloat64())*spread,
			Y: c.Y + float32(r.rand.NormFloat64())*spread,
		}
	}
	return pts
}

// Path returns a random path of length n over cities [0, cities) without
// repeats. n must not exceed cities.
func (r *RNG) Path(n, cities int) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	perm := r.rand.Perm(cities)[:n]
	path := make([]uint32, n)
	for i, c := range perm {
		path[i] = uint32(c)
	}
	return path
}

// RenderTSPLIB renders pts as a EUC_2D TSPLIB file with 1-based indices.
func RenderTSPLIB(name string, pts []tsplib.Point) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "NAME : %s\n", name)
	b.WriteString("TYPE : TSP\n")
	fmt.Fprintf(&b, "DIMENSION : %d\n", len(pts))
	b.WriteString("EDGE_WEIGHT_TYPE : EUC_2D\n")
	b.WriteString(tsplib.SectionStart + "\n")
	for i, p := range pts {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(float64(p.X), 'f', -1, 32))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(float64(p.Y), 'f', -1, 32))
		b.WriteByte('\n')
	}
	b.WriteString(tsplib.SectionEnd + "\n")
	return b.Bytes()
}

// Compress encodes data with codec ("gzip", "zstd", "lz4" or "none").
func Compress(tb testing.TB, codec string, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	switch codec {
	case "none", "":
		return bytes.Clone(data)
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, w.Close())
	case "zstd":
		w, err := zstd.NewWriter(&buf)
		require.NoError(tb, err)
		_, err = w.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, w.Close())
	case "lz4":
		w := lz4.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(tb, err)
		require.NoError(tb, w.Close())
	default:
		tb.Fatalf("unknown codec %q", codec)
	}
	return buf.Bytes()
}
