package distance

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/hupe1980/tspcache/arena"
	"github.com/hupe1980/tspcache/internal/conv"
	"github.com/hupe1980/tspcache/tsplib"
)

var (
	// ErrTooManyCities is returned when the city count does not fit the
	// uint32 row-offset table.
	ErrTooManyCities = errors.New("distance: too many cities")

	// ErrIndexOutOfRange is returned when a path refers to a city outside the matrix.
	ErrIndexOutOfRange = errors.New("distance: index out of range")
)

// Matrix is a flattened upper-triangular table of squared distances.
// It is immutable once built.
type Matrix struct {
	n         int
	distances []float32 // n*(n-1)/2 entries plus a zero sentinel
	rowOffset []uint32
}

// FlatSize returns the number of stored pairs for n cities: n*(n-1)/2.
func FlatSize(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Footprint returns an upper bound on the bytes Build allocates for n cities,
// including alignment padding.
func Footprint(n int) int {
	f32 := int(unsafe.Sizeof(float32(0)))
	u32 := int(unsafe.Sizeof(uint32(0)))
	return (FlatSize(n)+1)*f32 + n*u32 + 2*int(arena.Align64)
}

// Build allocates the distance table and row offsets from a and fills them
// from coords. The table covers len(coords) cities.
func Build(a arena.Allocator, coords []tsplib.Point) (*Matrix, error) {
	n := len(coords)
	if _, err := conv.IntToUint32(n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTooManyCities, err)
	}
	flat := FlatSize(n)
	if flat > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d pairs", ErrTooManyCities, flat)
	}

	distances, err := arena.AllocSlice[float32](a, flat+1, arena.Align64)
	if err != nil {
		return nil, fmt.Errorf("distance: allocate table for %d cities: %w", n, err)
	}
	rowOffset, err := arena.AllocSlice[uint32](a, n, arena.Align64)
	if err != nil {
		return nil, fmt.Errorf("distance: allocate row offsets for %d cities: %w", n, err)
	}

	var index uint32
	for i := 0; i < n; i++ {
		rowOffset[i] = index
		xi, yi := coords[i].X, coords[i].Y
		for j := i + 1; j < n; j++ {
			dx := coords[j].X - xi
			dy := coords[j].Y - yi
			distances[index] = dx*dx + dy*dy
			index++
		}
	}
	distances[flat] = 0

	return &Matrix{
		n:         n,
		distances: distances,
		rowOffset: rowOffset,
	}, nil
}

// Len returns the number of cities.
func (m *Matrix) Len() int { return m.n }

// Index returns the flat slot for the pair (i, j). i must differ from j.
func (m *Matrix) Index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return int(m.rowOffset[i]) + (j - i - 1)
}

// Distance returns the squared distance between cities i and j.
func (m *Matrix) Distance(i, j int) float32 {
	if i == j {
		return 0
	}
	return m.distances[m.Index(i, j)]
}

// DistanceEuclidean returns the Euclidean distance between cities i and j.
func (m *Matrix) DistanceEuclidean(i, j int) float32 {
	return float32(math.Sqrt(float64(m.Distance(i, j))))
}

// Distances returns the flat table, sentinel slot included.
// The slice aliases arena memory and must not be modified.
func (m *Matrix) Distances() []float32 { return m.distances }

// RowOffsets returns the row-offset table.
// The slice aliases arena memory and must not be modified.
func (m *Matrix) RowOffsets() []uint32 { return m.rowOffset }

// PathCost returns the sum of squared leg distances along path.
// Paths with fewer than two cities cost 0.
func (m *Matrix) PathCost(path []uint32) (float32, error) {
	return m.pathCost(path, m.Distance)
}

// PathCostEuclidean returns the sum of Euclidean leg distances along path.
func (m *Matrix) PathCostEuclidean(path []uint32) (float32, error) {
	return m.pathCost(path, m.DistanceEuclidean)
}

// CheckPath reports ErrIndexOutOfRange for the first city of path outside
// the matrix.
func (m *Matrix) CheckPath(path []uint32) error {
	for _, c := range path {
		if uint64(c) >= uint64(m.n) {
			return fmt.Errorf("%w: city %d, matrix has %d", ErrIndexOutOfRange, c, m.n)
		}
	}
	return nil
}

func (m *Matrix) pathCost(path []uint32, leg func(i, j int) float32) (float32, error) {
	if err := m.CheckPath(path); err != nil {
		return 0, err
	}

	var cost float32
	for k := 1; k < len(path); k++ {
		cost += leg(int(path[k-1]), int(path[k]))
	}
	return cost, nil
}
