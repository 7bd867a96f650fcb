package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	ctx := t.Context()
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(ctx, 50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(ctx, 40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(ctx, 20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(t.Context(), 1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Equal(t, 0, c.IOBurst())
	assert.True(t, c.TryAcquireIO(1<<30))
}

func TestController_CanceledContext(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.AcquireMemory(ctx, 10), context.Canceled)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireMemory(t.Context(), 10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.PeakMemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
	assert.NoError(t, c.AcquireIO(t.Context(), 10))
	assert.True(t, c.TryAcquireIO(10))
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1024})
	assert.Equal(t, 1024, c.IOBurst())

	// The bucket starts full.
	assert.True(t, c.TryAcquireIO(1024))
	assert.False(t, c.TryAcquireIO(1024))
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	src := strings.Repeat("x", 4096)

	r := NewRateLimitedReader(t.Context(), strings.NewReader(src), c)
	var out bytes.Buffer
	n, err := io.Copy(&out, r)
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, out.String())
	assert.Equal(t, int64(len(src)), r.BytesRead())
}

func TestRateLimitedReader_Cancelled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 8})
	ctx, cancel := context.WithCancel(t.Context())
	r := NewRateLimitedReader(ctx, strings.NewReader(strings.Repeat("z", 64)), c)

	buf := make([]byte, 8)
	_, err := r.Read(buf) // drains the initial burst
	require.NoError(t, err)

	cancel()
	n, err := r.Read(buf)
	assert.Equal(t, 8, n, "bytes already read are returned")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimitedReader_CapsToBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 16})
	r := NewRateLimitedReader(t.Context(), strings.NewReader(strings.Repeat("y", 64)), c)

	buf := make([]byte, 64)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}
