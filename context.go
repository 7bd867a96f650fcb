package tspcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/tspcache/arena"
	"github.com/hupe1980/tspcache/blobstore"
	"github.com/hupe1980/tspcache/cache"
	"github.com/hupe1980/tspcache/distance"
	"github.com/hupe1980/tspcache/tsplib"
)

// LoadInfo describes a completed load.
type LoadInfo struct {
	Source      string
	Cities      int
	Skipped     int // malformed or out-of-range records
	MatrixBytes int // page arena carved for the matrix
	Duration    time.Duration
}

// Stats is a snapshot of a Context's memory and cache state.
type Stats struct {
	Cities int

	ReservationUsable int
	ReservationMapped int
	ReservationCursor int
	LiveArenas        int

	Matrix  arena.Stats
	Scratch arena.Stats
	Cache   cache.Stats
}

// Context owns the memory and cache of one evaluation session.
//
// The distance matrix lives in a page arena carved from a guarded
// reservation, so an out-of-bounds write faults instead of corrupting
// neighbouring data.
type Context struct {
	opts options

	reservation *arena.Reservation
	scratch     *arena.ScratchArena
	matrixArena *arena.PageArena
	matrix      *distance.Matrix
	cache       *cache.FragmentCache

	source string
	closed bool
}

// New reserves memory and allocates the scratch arena and fragment cache.
func New(optFns ...Option) (*Context, error) {
	return NewContext(context.Background(), optFns...)
}

// NewContext is New with a context for logging and memory accounting.
func NewContext(ctx context.Context, optFns ...Option) (*Context, error) {
	o := applyOptions(optFns)

	fc, err := cache.New(o.cacheCapacity, cache.WithProbeLimit(o.probeLimit))
	if err != nil {
		return nil, translateError(err)
	}

	resOpts := []arena.ReservationOption{}
	scratchOpts := []arena.ScratchOption{}
	if o.resources != nil {
		resOpts = append(resOpts, arena.WithMemoryAcquirer(o.resources))
		scratchOpts = append(scratchOpts, arena.WithScratchAcquirer(o.resources))
	}
	if o.reclaimOnEmpty {
		resOpts = append(resOpts, arena.WithReclaimOnEmpty())
	}

	r, err := arena.ReserveContext(ctx, o.reservationSize, resOpts...)
	if err != nil {
		o.logger.LogReserve(ctx, o.reservationSize, 0, err)
		return nil, translateError(err)
	}
	o.logger.LogReserve(ctx, o.reservationSize, r.MappingSize(), nil)

	scratch, err := arena.NewScratchContext(ctx, o.scratchSize, scratchOpts...)
	if err != nil {
		_ = r.Release()
		return nil, translateError(err)
	}

	return &Context{
		opts:        o,
		reservation: r,
		scratch:     scratch,
		cache:       fc,
	}, nil
}

// LoadFile loads a local coordinate file, replacing any previous set.
func (c *Context) LoadFile(ctx context.Context, path string) (LoadInfo, error) {
	return c.load(ctx, path, tsplib.FileOpener(path))
}

// LoadBlob loads a coordinate file from store, replacing any previous set.
// Reads are throttled by the resource controller, if one was configured.
func (c *Context) LoadBlob(ctx context.Context, store blobstore.BlobStore, name string) (LoadInfo, error) {
	return c.load(ctx, name, tsplib.BlobOpener(store, name, c.opts.resources))
}

// Load loads coordinates from open, replacing any previous set.
func (c *Context) Load(ctx context.Context, name string, open tsplib.Opener) (LoadInfo, error) {
	return c.load(ctx, name, open)
}

func (c *Context) load(ctx context.Context, name string, open tsplib.Opener) (LoadInfo, error) {
	if c.closed {
		return LoadInfo{}, ErrClosed
	}

	start := time.Now()
	info := LoadInfo{Source: name}

	info, err := c.build(ctx, info, open)
	info.Duration = time.Since(start)
	err = translateError(err)

	c.opts.logger.LogLoad(ctx, info, err)
	c.opts.metricsCollector.RecordBuild(info.Cities, info.Duration, err)
	return info, err
}

func (c *Context) build(ctx context.Context, info LoadInfo, open tsplib.Opener) (LoadInfo, error) {
	// Costs of the previous set are meaningless for the new one.
	c.unload()

	opts := tsplib.Options{
		OnMalformed: func(e *tsplib.RecordError) {
			info.Skipped++
			c.opts.logger.LogSkippedRecord(ctx, info.Source, e.Line, e.Reason)
		},
	}

	// Points only live until the matrix is built.
	defer c.scratch.Reset()

	points, err := tsplib.Load(ctx, c.scratch, open, opts)
	if err != nil {
		return info, err
	}
	info.Cities = len(points)

	pa, err := c.reservation.NewArena(distance.Footprint(len(points)))
	if err != nil {
		return info, err
	}

	m, err := distance.Build(pa, points)
	if err != nil {
		pa.Destroy()
		return info, err
	}

	c.matrixArena = pa
	c.matrix = m
	c.source = info.Source
	info.MatrixBytes = pa.Size()
	return info, nil
}

func (c *Context) unload() {
	if c.matrixArena != nil {
		c.matrixArena.Destroy()
		c.matrixArena = nil
	}
	c.matrix = nil
	c.source = ""
	c.cache.Reset()
}

func (c *Context) loaded() (*distance.Matrix, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.matrix == nil {
		return nil, ErrNotLoaded
	}
	return c.matrix, nil
}

// Evaluate returns the squared-distance cost of walking path, memoizing
// fragments of up to cache.MaxFragmentLen cities.
//
// A fragment that cannot be cached because the cache is full is still
// evaluated; the miss is logged and reported to the metrics collector.
func (c *Context) Evaluate(path []uint32) (float32, error) {
	return c.EvaluateContext(context.Background(), path)
}

// EvaluateContext is Evaluate with a context for logging.
// Indices are checked before the cache is consulted, so a fragment cached
// through Store with foreign cities still fails with ErrIndexOutOfRange.
func (c *Context) EvaluateContext(ctx context.Context, path []uint32) (float32, error) {
	m, err := c.loaded()
	if err != nil {
		return 0, err
	}
	if err := m.CheckPath(path); err != nil {
		return 0, translateError(err)
	}

	if len(path) > cache.MaxFragmentLen {
		cost, err := m.PathCost(path)
		return cost, translateError(err)
	}

	start := time.Now()
	cost, err := c.cache.Lookup(path)
	c.opts.metricsCollector.RecordLookup(err == nil, time.Since(start))
	if err == nil {
		return cost, nil
	}

	cost, err = m.PathCost(path)
	if err != nil {
		return 0, translateError(err)
	}

	start = time.Now()
	err = c.cache.Insert(path, cost)
	c.opts.metricsCollector.RecordInsert(time.Since(start), err)
	if err != nil {
		c.opts.logger.LogCacheFull(ctx, len(path), err)
	}
	return cost, nil
}

// EvaluateEuclidean returns the Euclidean length of path. It bypasses the
// cache, which holds squared costs.
func (c *Context) EvaluateEuclidean(path []uint32) (float32, error) {
	m, err := c.loaded()
	if err != nil {
		return 0, err
	}
	cost, err := m.PathCostEuclidean(path)
	return cost, translateError(err)
}

// Lookup returns the cached cost of path, or ErrNotFound.
func (c *Context) Lookup(path []uint32) (float32, error) {
	if c.closed {
		return 0, ErrClosed
	}
	start := time.Now()
	cost, err := c.cache.Lookup(path)
	c.opts.metricsCollector.RecordLookup(err == nil, time.Since(start))
	return cost, translateError(err)
}

// Store caches cost for path. The first stored cost for a fragment wins.
// It fails with ErrCacheFull when no slot is free within the probe limit.
func (c *Context) Store(path []uint32, cost float32) error {
	if c.closed {
		return ErrClosed
	}
	start := time.Now()
	err := c.cache.Insert(path, cost)
	c.opts.metricsCollector.RecordInsert(time.Since(start), err)
	return translateError(err)
}

// Distance returns the squared distance between cities i and j.
func (c *Context) Distance(i, j int) (float32, error) {
	m, err := c.loaded()
	if err != nil {
		return 0, err
	}
	if i < 0 || j < 0 || i >= m.Len() || j >= m.Len() {
		return 0, fmt.Errorf("%w: (%d, %d), %d cities", ErrIndexOutOfRange, i, j, m.Len())
	}
	return m.Distance(i, j), nil
}

// Matrix returns the current distance matrix, or nil before the first load.
// It is invalidated by the next load and by Close.
func (c *Context) Matrix() *distance.Matrix {
	return c.matrix
}

// Source returns the name of the loaded coordinate source.
func (c *Context) Source() string {
	return c.source
}

// Cities returns the number of loaded cities.
func (c *Context) Cities() int {
	if c.matrix == nil {
		return 0
	}
	return c.matrix.Len()
}

// Stats returns a snapshot of memory and cache usage.
func (c *Context) Stats() Stats {
	if c.closed {
		return Stats{}
	}
	s := Stats{
		Cities:            c.Cities(),
		ReservationUsable: c.reservation.UsableSize(),
		ReservationMapped: c.reservation.MappingSize(),
		ReservationCursor: c.reservation.Cursor(),
		LiveArenas:        c.reservation.LiveArenas(),
		Scratch:           c.scratch.Stats(),
		Cache:             c.cache.Stats(),
	}
	if c.matrixArena != nil {
		s.Matrix = c.matrixArena.Stats()
	}
	return s
}

// Close destroys the arenas and releases the reservation. Calling Close
// twice is a no-op.
func (c *Context) Close() error {
	if c == nil || c.closed {
		return nil
	}
	c.closed = true

	if c.matrixArena != nil {
		c.matrixArena.Destroy()
		c.matrixArena = nil
	}
	c.matrix = nil
	c.scratch.Destroy()
	c.cache.Reset()

	err := c.reservation.Release()
	if err != nil {
		err = errors.Join(ErrReservationFailure, err)
	}
	c.opts.logger.LogClose(context.Background(), err)
	return err
}
