// Package tspcache evaluates tour fragments over TSPLIB coordinate files.
//
// A Context owns every buffer an evaluation needs: a guard-protected memory
// reservation holding the distance matrix, a scratch arena for parsing, and a
// fixed-capacity fragment cache memoizing path costs.
//
// # Quick Start
//
//	ctx := context.Background()
//	tc, err := tspcache.New(tspcache.WithReservationSize(64 << 20))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tc.Close()
//
//	info, err := tc.LoadFile(ctx, "berlin52.tsp.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cost, _ := tc.Evaluate([]uint32{0, 21, 30, 17})
//
// # Remote Sources
//
// Coordinate files can live in any blobstore.BlobStore:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("tsplib/"))
//	info, err := tc.LoadBlob(ctx, store, "pla85900.tsp.zst")
//
// # Costs
//
// Distances are squared Euclidean distances in float32. A fragment of up to
// cache.MaxFragmentLen cities is looked up in the cache first; longer
// fragments are always computed.
//
// A Context is not safe for concurrent use. Use one Context per goroutine.
package tspcache
