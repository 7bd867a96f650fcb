// Package distance builds flattened symmetric distance matrices over city
// coordinates.
//
// Only the upper triangle is stored. For n cities the matrix holds
// n*(n-1)/2 squared distances plus one zero sentinel slot, and a row-offset
// table of n entries:
//
//	slot(i, j) = rowOffset[min(i,j)] + (max(i,j) - min(i,j) - 1)
//
// so (i, j) and (j, i) always address the same slot. There is no diagonal;
// Distance(i, i) returns 0 without touching the table.
//
// Distances are left squared. Use PathCostEuclidean or DistanceEuclidean when
// true Euclidean lengths are needed.
//
// # Usage
//
//	scratch, _ := arena.NewScratch(distance.Footprint(len(coords)) + 1024)
//	m, err := distance.Build(scratch, coords)
//	d := m.Distance(0, 2)
//	cost, err := m.PathCost([]uint32{0, 1, 2})
//
// The matrix borrows its storage from the allocator passed to Build and is
// only valid while that allocator's memory is.
package distance
