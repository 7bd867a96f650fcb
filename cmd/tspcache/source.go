package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/tspcache/blobstore"
	"github.com/hupe1980/tspcache/blobstore/minio"
	"github.com/hupe1980/tspcache/blobstore/s3"
	"github.com/hupe1980/tspcache/internal/blockcache"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// location is a parsed source argument.
type location struct {
	scheme string // "", "s3" or "minio"
	host   string // minio endpoint
	bucket string
	key    string
}

// parseLocation accepts a local path, s3://bucket/key or
// minio://host[:port]/bucket/key.
func parseLocation(arg string) (location, error) {
	scheme, rest, ok := strings.Cut(arg, "://")
	if !ok {
		return location{key: arg}, nil
	}

	switch scheme {
	case "s3":
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return location{}, fmt.Errorf("invalid s3 source %q: want s3://bucket/key", arg)
		}
		return location{scheme: scheme, bucket: bucket, key: key}, nil
	case "minio":
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return location{}, fmt.Errorf("invalid minio source %q: want minio://host/bucket/key", arg)
		}
		return location{scheme: scheme, host: parts[0], bucket: parts[1], key: parts[2]}, nil
	default:
		return location{}, fmt.Errorf("unsupported source scheme %q", scheme)
	}
}

// remotes builds one store per bucket and shares a block cache between them.
type remotes struct {
	cfg    config
	blocks *blockcache.LRU
	stores map[string]blobstore.BlobStore
}

func newRemotes(cfg config, blocks *blockcache.LRU) *remotes {
	return &remotes{cfg: cfg, blocks: blocks, stores: make(map[string]blobstore.BlobStore)}
}

// store returns the store serving loc. It is called before workers start, so
// it needs no locking.
func (r *remotes) store(ctx context.Context, loc location) (blobstore.BlobStore, error) {
	id := loc.scheme + "://" + loc.host + "/" + loc.bucket
	if s, ok := r.stores[id]; ok {
		return s, nil
	}

	var inner blobstore.BlobStore
	switch loc.scheme {
	case "s3":
		opts := []s3.Option{}
		if r.cfg.s3Region != "" {
			opts = append(opts, s3.WithRegion(r.cfg.s3Region))
		}
		if r.cfg.s3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(r.cfg.s3Endpoint))
		}
		if r.cfg.s3PathStyle {
			opts = append(opts, s3.WithPathStyle())
		}
		s, err := s3.New(ctx, loc.bucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("s3 store %s: %w", loc.bucket, err)
		}
		inner = s
	case "minio":
		client, err := miniogo.New(loc.host, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: r.cfg.minioSecure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client %s: %w", loc.host, err)
		}
		inner = minio.NewStore(client, loc.bucket, "")
	default:
		return nil, fmt.Errorf("no remote store for scheme %q", loc.scheme)
	}

	s := blobstore.BlobStore(blobstore.NewCachingStore(inner, r.blocks, blobstore.DefaultBlockSize, blobstore.WithNamespace(id)))
	r.stores[id] = s
	return s, nil
}
