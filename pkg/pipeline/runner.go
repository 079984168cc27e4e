package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kruskal/pkg/cache"
	"github.com/matzehuels/kruskal/pkg/graph"
	"github.com/matzehuels/kruskal/pkg/kruskal"
	"github.com/matzehuels/kruskal/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner; each run builds its own engine.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run loads the selected graph, runs the engine to completion and returns
// the trace. Traces are cached by graph content, so a hit skips the engine.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	logger := r.logger(opts)

	g, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	res, err := r.RunGraph(ctx, g, opts.Refresh)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	logger.Debug("run complete",
		"graph", g.Name,
		"source", opts.Source(),
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

// RunGraph runs an already loaded graph with caching. When refresh is set
// the cache is bypassed for reading but still updated.
func (r *Runner) RunGraph(ctx context.Context, g graph.Graph, refresh bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, Classify(err)
	}
	res.GraphHash = cache.Hash(data)
	key := r.Keyer.TraceKey(res.GraphHash)

	if !refresh {
		if t, ok := r.cached(ctx, key); ok {
			t.Name = g.Name
			t.Graph = g
			t.GraphHash = res.GraphHash
			res.Trace = t
			res.CacheHit = true
			return res, nil
		}
	}

	observability.Run().OnRunStart(ctx, g.Name, g.VertexCount(), g.EdgeCount())
	start := time.Now()
	e, err := Build(g)
	if err != nil {
		observability.Run().OnRunComplete(ctx, g.Name, kruskal.Stats{}, time.Since(start), err)
		return nil, err
	}
	t := graph.NewTrace(g.Name, g, e)
	t.GraphHash = res.GraphHash
	observability.Run().OnRunComplete(ctx, g.Name, t.Stats, time.Since(start), nil)

	if buf, err := graph.MarshalTrace(t); err == nil {
		if err := r.Cache.Set(ctx, key, buf, TTLTrace); err != nil {
			r.Logger.Warn("cache write failed", "graph", g.Name, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "trace", len(buf))
		}
	}

	res.Trace = t
	return res, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*graph.Trace, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "trace")
		return nil, false
	}
	t, err := graph.UnmarshalTrace(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "trace")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "trace")
	return t, true
}

// BatchResult pairs one batch input with its outcome.
type BatchResult struct {
	Options Options
	Result  *Result
	Err     error
}

// RunBatch runs every graph with at most limit runs in flight. Per-graph
// failures are reported in the corresponding BatchResult and do not stop
// the batch; only cancellation of ctx does. Results keep the input order.
func (r *Runner) RunBatch(ctx context.Context, opts []Options, limit int) ([]BatchResult, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	out := make([]BatchResult, len(opts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, o := range opts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Run(gctx, o)
			out[i] = BatchResult{Options: o, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
