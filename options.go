package tspcache

import (
	"log/slog"

	"github.com/hupe1980/tspcache/cache"
	"github.com/hupe1980/tspcache/resource"
)

const (
	// DefaultReservationSize is the usable size of the guarded reservation
	// that holds distance matrices. It fits a matrix of about 11,000 cities.
	DefaultReservationSize = 256 << 20

	// DefaultScratchSize is the size of the scratch arena coordinates are
	// parsed into. It fits 2 million cities.
	DefaultScratchSize = 16 << 20
)

type options struct {
	reservationSize  int
	scratchSize      int
	cacheCapacity    int
	probeLimit       int
	reclaimOnEmpty   bool
	resources        *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Context.
type Option func(*options)

// WithReservationSize sets the usable size of the guarded reservation.
// Each load carves a page arena of distance.Footprint(cities) bytes from it.
func WithReservationSize(size int) Option {
	return func(o *options) {
		o.reservationSize = size
	}
}

// WithScratchSize sets the size of the scratch arena used while parsing.
// Each load needs 8 bytes per city.
func WithScratchSize(size int) Option {
	return func(o *options) {
		o.scratchSize = size
	}
}

// WithCacheCapacity sets the fragment cache slot count. It must be a power of
// two. Defaults to cache.DefaultCapacity.
func WithCacheCapacity(capacity int) Option {
	return func(o *options) {
		o.cacheCapacity = capacity
	}
}

// WithProbeLimit bounds the slots a single cache operation visits. When the
// limit is hit on insert the fragment is evaluated but not cached.
func WithProbeLimit(n int) Option {
	return func(o *options) {
		o.probeLimit = n
	}
}

// WithReclaimOnEmpty lets a reload reuse the reservation space of the
// previous matrix. Without it every load consumes fresh reservation space.
func WithReclaimOnEmpty() Option {
	return func(o *options) {
		o.reclaimOnEmpty = true
	}
}

// WithResourceController charges the reservation and scratch arena against
// rc's memory budget and throttles blob reads with rc's IO limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tspcache.BasicMetricsCollector{}
//	tc, _ := tspcache.New(tspcache.WithMetricsCollector(metrics))
//	// ... use tc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Lookups: %d, hits: %d\n", stats.LookupCount, stats.LookupHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tspcache.NewJSONLogger(slog.LevelInfo)
//	tc, _ := tspcache.New(tspcache.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		reservationSize:  DefaultReservationSize,
		scratchSize:      DefaultScratchSize,
		cacheCapacity:    cache.DefaultCapacity,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
