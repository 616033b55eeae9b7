// Package pipeline runs the prepare → order → render steps shared by the CLI
// and the HTTP API.
//
// By centralizing this logic, every entry point applies the same defaults,
// the same graph preparation and the same result cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Order(ctx, doc, pipeline.Options{Quality: "thorough"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Doc.Crossings, res.CacheHit)
//
// # Graph Preparation
//
// With Normalize set, cycles are broken, rows are assigned by longest path
// and long edges are subdivided. Otherwise the document's rows are kept and
// only long edges are subdivided. A document that carries its own layering
// is ordered as given and cannot be normalized.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankorder/pkg/cache"
	errs "github.com/matzehuels/rankorder/pkg/errors"
	"github.com/matzehuels/rankorder/pkg/ordering"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultQuality is the preset used when Options.Quality is empty.
	DefaultQuality = "balanced"

	// DefaultFormat is the default render format.
	DefaultFormat = "svg"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures an ordering run. Zero values defer to the quality
// preset.
type Options struct {
	Quality   string
	MaxSweeps int
	MaxStale  int
	Timeout   time.Duration
	Parallel  bool
	Bias      string
	Init      string // "rows", "dfs" or empty for the preset's choice
	Normalize bool

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool

	// Runtime options
	Logger   *log.Logger
	Progress func(sweep int, crossings, best float64)

	quality ordering.Quality
	bias    ordering.Bias
	init    ordering.Initializer
}

// ValidateAndSetDefaults parses the named options and applies defaults.
// It is idempotent, and safe to call again after fields were changed.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Quality == "" {
		o.Quality = DefaultQuality
	}
	q, err := ordering.ParseQuality(o.Quality)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidQuality, err, "quality")
	}
	b, err := ordering.ParseBias(o.Bias)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "bias")
	}
	if o.Init != "" {
		init, err := ordering.ParseInitializer(o.Init)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "init")
		}
		o.init = init
	} else {
		o.init = nil
	}
	if o.MaxSweeps < 0 || o.MaxStale < 0 || o.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_sweeps, max_stale and timeout must not be negative")
	}
	o.Quality = q.String()
	o.Bias = b.String()
	o.quality = q
	o.bias = b
	return nil
}

// Orderer returns the configured iterator, without constraints.
// Call ValidateAndSetDefaults first.
func (o *Options) Orderer() ordering.Barycentric {
	b := ordering.ForQuality(o.quality)
	if o.MaxSweeps > 0 {
		b.MaxSweeps = o.MaxSweeps
	}
	if o.MaxStale > 0 {
		b.MaxStale = o.MaxStale
	}
	if o.Timeout > 0 {
		b.Timeout = o.Timeout
	}
	if o.init != nil {
		b.Init = o.init
	}
	b.Parallel = o.Parallel
	b.Bias = o.bias
	return b
}

// KeyOpts returns the cache key options. Fields that do not change the
// result (Logger, Progress, Refresh) are left out.
func (o *Options) KeyOpts() cache.OrderKeyOpts {
	return cache.OrderKeyOpts{
		Quality:   o.Quality,
		MaxSweeps: o.MaxSweeps,
		MaxStale:  o.MaxStale,
		Timeout:   o.Timeout,
		Parallel:  o.Parallel,
		Bias:      o.Bias,
		Init:      o.Init,
		Normalize: o.Normalize,
	}
}
