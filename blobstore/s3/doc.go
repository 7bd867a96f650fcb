// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("tsplib/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	blob, err := store.Open(ctx, "ca4663.tsp")
//
// # Features
//
//   - Range reads for streaming coordinate files
//   - Automatic pagination for listing
//   - Custom endpoints and path-style addressing for S3-compatible services
package s3
