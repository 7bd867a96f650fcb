// Command tspcache loads TSPLIB coordinate files, builds their distance
// matrices in guarded memory, and evaluates random tour fragments through
// the fragment cache.
//
// Usage:
//
//	tspcache [flags] source...
//
// A source is a local path, s3://bucket/key or minio://host:port/bucket/key.
// Files ending in .gz, .zst or .lz4 are decompressed on the fly. MinIO
// credentials are read from MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/hupe1980/tspcache"
	"github.com/hupe1980/tspcache/cache"
	"github.com/hupe1980/tspcache/internal/blockcache"
	"github.com/hupe1980/tspcache/internal/conv"
	"github.com/hupe1980/tspcache/resource"
	"golang.org/x/sync/errgroup"
)

const mib = 1 << 20

type config struct {
	reserveMiB    uint64
	scratchMiB    uint64
	cacheCapacity int
	probeLimit    int
	reclaim       bool

	memLimitMiB   int64
	ioLimitMiB    int64
	blockCacheMiB int64

	parallel    int
	fragments   int
	fragmentLen int
	seed        uint64

	logLevel string
	jsonLogs bool

	s3Region    string
	s3Endpoint  string
	s3PathStyle bool
	minioSecure bool
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	fs.Uint64Var(&cfg.reserveMiB, "reserve", tspcache.DefaultReservationSize/mib, "usable reservation size per source in MiB")
	fs.Uint64Var(&cfg.scratchMiB, "scratch", tspcache.DefaultScratchSize/mib, "scratch arena size per source in MiB")
	fs.IntVar(&cfg.cacheCapacity, "cache-capacity", 1<<16, "fragment cache slots per source (power of two)")
	fs.IntVar(&cfg.probeLimit, "probe-limit", 0, "max slots probed per cache operation (0 = capacity)")
	fs.BoolVar(&cfg.reclaim, "reclaim", false, "reuse reservation space when a matrix is replaced")
	fs.Int64Var(&cfg.memLimitMiB, "mem-limit", 0, "total memory budget in MiB (0 = unlimited)")
	fs.Int64Var(&cfg.ioLimitMiB, "io-limit", 0, "remote read throughput in MiB/s (0 = unlimited)")
	fs.Int64Var(&cfg.blockCacheMiB, "block-cache", 64, "block cache for remote sources in MiB")
	fs.IntVar(&cfg.parallel, "parallel", 4, "sources processed concurrently")
	fs.IntVar(&cfg.fragments, "fragments", 100000, "fragments evaluated per source")
	fs.IntVar(&cfg.fragmentLen, "fragment-len", 4, "cities per fragment")
	fs.Uint64Var(&cfg.seed, "seed", 1, "random seed for the evaluated tour")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.jsonLogs, "json", false, "log as JSON")
	fs.StringVar(&cfg.s3Region, "s3-region", "", "S3 region override")
	fs.StringVar(&cfg.s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	fs.BoolVar(&cfg.s3PathStyle, "s3-path-style", false, "use path-style S3 addressing")
	fs.BoolVar(&cfg.minioSecure, "minio-secure", true, "use TLS for minio:// sources")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() == 0 {
		return config{}, errors.New("no sources given")
	}
	if cfg.parallel < 1 {
		return config{}, fmt.Errorf("parallel must be positive, got %d", cfg.parallel)
	}
	if cfg.fragmentLen < 2 {
		return config{}, fmt.Errorf("fragment-len must be at least 2, got %d", cfg.fragmentLen)
	}
	return cfg, nil
}

func (c config) logger() (*tspcache.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	if c.jsonLogs {
		return tspcache.NewJSONLogger(level), nil
	}
	return tspcache.NewTextLogger(level), nil
}

func (c config) contextOptions(rc *resource.Controller, logger *tspcache.Logger, mc tspcache.MetricsCollector) ([]tspcache.Option, error) {
	reserve, err := mibToInt(c.reserveMiB)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	scratch, err := mibToInt(c.scratchMiB)
	if err != nil {
		return nil, fmt.Errorf("scratch: %w", err)
	}

	opts := []tspcache.Option{
		tspcache.WithReservationSize(reserve),
		tspcache.WithScratchSize(scratch),
		tspcache.WithCacheCapacity(c.cacheCapacity),
		tspcache.WithProbeLimit(c.probeLimit),
		tspcache.WithResourceController(rc),
		tspcache.WithLogger(logger),
		tspcache.WithMetricsCollector(mc),
	}
	if c.reclaim {
		opts = append(opts, tspcache.WithReclaimOnEmpty())
	}
	return opts, nil
}

func mibToInt(v uint64) (int, error) {
	if v > math.MaxUint64/mib {
		return 0, fmt.Errorf("%w: %d MiB", conv.ErrOverflow, v)
	}
	return conv.Uint64ToInt(v * mib)
}

// result is one output row.
type result struct {
	source   string
	info     tspcache.LoadInfo
	cache    cache.Stats
	tourCost float32
	elapsed  time.Duration
	err      error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "tspcache:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tspcache", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	logger, err := cfg.logger()
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.memLimitMiB * mib,
		IOLimitBytesPerSec: cfg.ioLimitMiB * mib,
	})
	metrics := &tspcache.BasicMetricsCollector{}
	opts, err := cfg.contextOptions(rc, logger, metrics)
	if err != nil {
		return err
	}

	// Resolve every source before starting workers so remote stores are
	// shared and argument errors surface early.
	remote := newRemotes(cfg, blockcache.New(cfg.blockCacheMiB*mib, rc))
	loaders := make([]func(context.Context, *tspcache.Context) (tspcache.LoadInfo, error), fs.NArg())
	for i, arg := range fs.Args() {
		loc, err := parseLocation(arg)
		if err != nil {
			return err
		}
		if loc.scheme == "" {
			path := loc.key
			loaders[i] = func(ctx context.Context, tc *tspcache.Context) (tspcache.LoadInfo, error) {
				return tc.LoadFile(ctx, path)
			}
			continue
		}
		store, err := remote.store(ctx, loc)
		if err != nil {
			return err
		}
		key := loc.key
		loaders[i] = func(ctx context.Context, tc *tspcache.Context) (tspcache.LoadInfo, error) {
			return tc.LoadBlob(ctx, store, key)
		}
	}

	results := make([]result, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallel)
	for i, load := range loaders {
		g.Go(func() error {
			results[i] = evaluate(gctx, cfg, opts, fs.Arg(i), load)
			// One bad source does not stop the others.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := report(stdout, results)
	ms := metrics.GetStats()
	logger.Info("run completed",
		"sources", len(results),
		"failed", failed,
		"lookups", ms.LookupCount,
		"hits", ms.LookupHits,
		"peak_memory", rc.PeakMemoryUsage(),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(results))
	}
	return nil
}

// evaluate loads one source into its own Context and walks fragments of a
// random tour, so repeated windows hit the cache.
func evaluate(ctx context.Context, cfg config, opts []tspcache.Option, source string,
	load func(context.Context, *tspcache.Context) (tspcache.LoadInfo, error),
) result {
	start := time.Now()
	res := result{source: source}

	tc, err := tspcache.NewContext(ctx, opts...)
	if err != nil {
		res.err = err
		return res
	}
	defer tc.Close()

	res.info, res.err = load(ctx, tc)
	if res.err != nil {
		return res
	}

	n := res.info.Cities
	if n >= 2 {
		tour := randomTour(n, cfg.seed)
		res.tourCost, res.err = tc.EvaluateEuclidean(append(tour, tour[0]))
		if res.err != nil {
			return res
		}

		length := min(cfg.fragmentLen, n)
		rng := rand.New(rand.NewPCG(cfg.seed, uint64(n)))
		for i := 0; i < cfg.fragments; i++ {
			if i%4096 == 0 && ctx.Err() != nil {
				res.err = ctx.Err()
				return res
			}
			off := rng.IntN(n - length + 1)
			if _, err := tc.Evaluate(tour[off : off+length]); err != nil {
				res.err = err
				return res
			}
		}
	}

	res.cache = tc.Stats().Cache
	res.elapsed = time.Since(start)
	return res
}

func randomTour(n int, seed uint64) []uint32 {
	rng := rand.New(rand.NewPCG(seed, 0))
	tour := make([]uint32, n)
	for i := range tour {
		tour[i] = uint32(i) //nolint:gosec // n comes from a loaded matrix and fits uint32
	}
	rng.Shuffle(n, func(i, j int) { tour[i], tour[j] = tour[j], tour[i] })
	return tour
}

func report(w io.Writer, results []result) (failed int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tCITIES\tSKIPPED\tMATRIX\tTOUR\tFRAGMENTS\tHIT RATE\tLOAD\tTOTAL")
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%s\terror: %v\n", r.source, r.err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%d\t%.1f%%\t%s\t%s\n",
			r.source,
			r.info.Cities,
			r.info.Skipped,
			r.info.MatrixBytes,
			r.tourCost,
			r.cache.Occupied,
			100*r.cache.HitRate(),
			r.info.Duration.Round(time.Microsecond),
			r.elapsed.Round(time.Microsecond),
		)
	}
	_ = tw.Flush()
	return failed
}
