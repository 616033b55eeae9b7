package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rankorder/pkg/cache"
	"github.com/matzehuels/rankorder/pkg/dag"
	"github.com/matzehuels/rankorder/pkg/dag/transform"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/graph"
	"github.com/matzehuels/rankorder/pkg/observability"
	"github.com/matzehuels/rankorder/pkg/ordering"
)

// keyTypeOrder labels ordering results in cache hooks.
const keyTypeOrder = "order"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of cached results. Zero means cache.TTLOrder.
	TTL time.Duration
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

// Result contains the outputs of an ordering run.
type Result struct {
	// RunID identifies this run in logs and hooks.
	RunID string
	// Graph is the prepared graph that Doc.Layering refers to.
	Graph *dag.DAG
	// GraphHash is the content hash of the input document.
	GraphHash string
	// Doc is the serializable result.
	Doc graph.Result
	// CacheHit reports whether Doc came from the cache.
	CacheHit bool
	// Duration is the wall time of the run, including preparation.
	Duration time.Duration
}

// Order prepares doc, consults the cache and runs the barycentric iterator.
// Cache failures are logged and otherwise ignored; ordering failures are
// returned unchanged so that callers can classify them with
// errors.FromError.
func (r *Runner) Order(ctx context.Context, doc graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run_id", res.RunID)

	g, tr, err := PrepareGraph(doc, opts.Normalize)
	if err != nil {
		return nil, err
	}
	if opts.Normalize {
		logger.Debug("normalized graph",
			"reversed", tr.EdgesReversed,
			"subdividers", tr.SubdividersAdded,
			"rows", tr.MaxRow+1)
	}
	res.Graph = g

	canonical, err := doc.Canonical()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "hash graph")
	}
	res.GraphHash = cache.Hash(canonical)
	logger = logger.With("graph", cache.ShortHash(res.GraphHash))
	key := r.Keyer.OrderKey(res.GraphHash, opts.KeyOpts())

	orderer := opts.Orderer()
	initial := doc.InitialLayering()
	if initial == nil {
		init := orderer.Init
		if init == nil {
			init = ordering.RowOrder{}
		}
		initial = init.InitialLayering(g)
	}
	orderer.Constraints, err = r.constraints(doc, g, initial, opts.Normalize, logger)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key, logger); ok {
			cached.RunID = res.RunID
			cached.CacheHit = true
			res.Doc = cached
			res.CacheHit = true
			res.Duration = time.Since(start)
			logger.Info("cache hit", "crossings", cached.Crossings, "stop", cached.Stop)
			return res, nil
		}
	}

	hooks := observability.Ordering()
	hooks.OnOrderStart(ctx, res.RunID, g.NodeCount(), len(initial))
	orderer.Progress = func(sweep int, crossings, best float64) {
		hooks.OnSweep(ctx, res.RunID, sweep, crossings, best)
		logger.Debug("sweep", "sweep", sweep, "crossings", crossings, "best", best)
		if opts.Progress != nil {
			opts.Progress(sweep, crossings, best)
		}
	}

	orderStart := time.Now()
	out, err := orderer.Order(ctx, g, initial)
	if err != nil {
		hooks.OnOrderComplete(ctx, res.RunID, 0, 0, time.Since(orderStart), err)
		return nil, fmt.Errorf("order: %w", err)
	}
	hooks.OnOrderComplete(ctx, res.RunID, out.Crossings, out.Sweeps, time.Since(orderStart), nil)

	res.Doc = graph.NewResult(out)
	if tr != (transform.Result{MaxRow: tr.MaxRow}) {
		res.Doc.Transform = graph.NewTransformStats(tr)
		prepared := graph.FromDAG(g)
		res.Doc.Graph = &prepared
	}
	if out.Stop != ordering.StopTimeout {
		r.store(ctx, key, res.Doc, logger)
	}
	res.Doc.RunID = res.RunID
	res.Duration = time.Since(start)

	logger.Info("ordered graph",
		"nodes", g.NodeCount(),
		"ranks", len(out.Layering),
		"crossings", out.Crossings,
		"initial", out.InitialCrossings,
		"sweeps", out.Sweeps,
		"stop", out.Stop,
		"duration", res.Duration)

	return res, nil
}

// PrepareGraph converts doc to a DAG and makes it properly layered: fully
// normalized when normalize is set, otherwise with its rows kept and long
// edges subdivided. A document with an explicit layering is returned as is.
func PrepareGraph(doc graph.Graph, normalize bool) (*dag.DAG, transform.Result, error) {
	g, err := graph.ToDAG(doc)
	if err != nil {
		return nil, transform.Result{}, err
	}

	switch {
	case len(doc.Layering) > 0 && normalize:
		return nil, transform.Result{}, errs.New(errs.ErrCodeInvalidInput, "an explicit layering cannot be combined with normalize")
	case len(doc.Layering) > 0:
		return g, transform.Result{MaxRow: g.MaxRow()}, nil
	case normalize:
		return g, transform.Normalize(g), nil
	default:
		return g, transform.Prepare(g), nil
	}
}

// constraints builds the constraint provider for doc, keyed by rank index
// in initial. A constraint's Rank names a row, or a layering index when doc
// carries an explicit layering, and both of its nodes must sit in that rank.
// After normalization the document's rank numbers no longer apply, so each
// constraint is placed on the rank its nodes ended up in; constraints whose
// nodes were split across ranks are dropped with a warning.
func (r *Runner) constraints(doc graph.Graph, g *dag.DAG, initial dag.Layering, normalized bool, logger *log.Logger) (ordering.Constrainer, error) {
	var providers ordering.MultiConstrainer

	rankOf := initial.RankOf()
	static := make(ordering.StaticConstraints)
	for _, c := range doc.Constraints {
		rb, okBefore := rankOf[c.Before]
		ra, okAfter := rankOf[c.After]
		if !okBefore || !okAfter {
			// Layering validation reports the missing node.
			continue
		}
		switch {
		case normalized && rb != ra:
			logger.Warn("dropping constraint across rows", "before", c.Before, "after", c.After)
			continue
		case !normalized && !constraintInRank(doc, g, c, rb, ra):
			return nil, errs.New(errs.ErrCodeInvalidGraph,
				"constraint %s<%s: nodes are not both in rank %d", c.Before, c.After, c.Rank)
		}
		static[rb] = append(static[rb], ordering.Constraint{Before: c.Before, After: c.After})
	}
	if len(static) > 0 {
		providers = append(providers, static)
	}
	if doc.HasClusters() {
		providers = append(providers, ordering.ClusterConstraints{Graph: g})
	}

	if len(providers) == 0 {
		return nil, nil
	}
	return providers, nil
}

// constraintInRank reports whether c's nodes sit in the rank c names.
func constraintInRank(doc graph.Graph, g *dag.DAG, c graph.Constraint, rankBefore, rankAfter int) bool {
	if len(doc.Layering) > 0 {
		return rankBefore == c.Rank && rankAfter == c.Rank
	}
	before, _ := g.Node(c.Before)
	after, _ := g.Node(c.After)
	return before.Row == c.Rank && after.Row == c.Rank
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (graph.Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyTypeOrder)
		return graph.Result{}, false
	}
	doc, err := graph.UnmarshalResult(data)
	if err != nil {
		logger.Warn("discarding corrupt cache entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		hooks.OnCacheMiss(ctx, keyTypeOrder)
		return graph.Result{}, false
	}
	hooks.OnCacheHit(ctx, keyTypeOrder)
	return doc, true
}

func (r *Runner) store(ctx context.Context, key string, doc graph.Result, logger *log.Logger) {
	data, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("encode result for cache", "err", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLOrder
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeOrder, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
