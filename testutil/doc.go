// Package testutil provides testing utilities for tspcache.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random city layouts, rendering them as
// TSPLIB text and compressing that text the way coordinate files are shipped.
//
// # Random Cities
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(100, 1000)  // x, y in [0, 1000)
//	pts = rng.ClusteredPoints(100, 5, 1000, 10)
//
// # TSPLIB Text
//
//	data := testutil.RenderTSPLIB("rand100", pts)
//	gz := testutil.Compress(t, "gzip", data)
package testutil
