// Package minio serves coordinate files from MinIO and other S3-compatible
// object stores through the official MinIO client.
//
// Open pins the object's ETag, so the counting pass and the loading pass of a
// coordinate file read the same version. A concurrent overwrite surfaces as
// blobstore.ErrModified instead of a silently mixed read.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "tsp", "tsplib/")
//	blob, err := store.Open(ctx, "it16862.tsp.zst")
package minio
