package resource

import (
	"context"
	"io"
)

// RateLimitedReader charges every byte it returns to a Controller's IO
// limiter. Reads are capped at the limiter burst so one call never waits for
// more than a single burst.
type RateLimitedReader struct {
	ctx   context.Context
	src   io.Reader
	rc    *Controller
	total int64
}

// NewRateLimitedReader throttles src through rc. A nil rc or one without an
// IO limit passes reads through.
func NewRateLimitedReader(ctx context.Context, src io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, src: src, rc: rc}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if burst := r.rc.IOBurst(); burst > 0 {
		p = p[:min(len(p), burst)]
	}
	n, err := r.src.Read(p)
	if n > 0 {
		r.total += int64(n)
		// Bytes already read are returned even when the wait is cancelled.
		if werr := r.rc.AcquireIO(r.ctx, n); werr != nil && err == nil {
			err = werr
		}
	}
	return n, err
}

// BytesRead returns the number of bytes charged so far.
func (r *RateLimitedReader) BytesRead() int64 { return r.total }
