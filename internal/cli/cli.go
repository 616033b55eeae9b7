package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankorder/pkg/cache"
	"github.com/matzehuels/rankorder/pkg/config"
	"github.com/matzehuels/rankorder/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "rankorder"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level, config.FormatText),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file and applies its log settings. The
// --verbose flag wins over the configured level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.Logger.SetLevel(level)
	c.Logger.SetFormatter(formatter(cfg.Log.Format))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Std()
	return runner, nil
}

// newCache opens the configured backend. Redis entries are namespaced with
// the configured prefix so that several deployments can share a server.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return rc, cache.NewScopedKeyer(nil, cfg.Prefix), nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "dir", cfg.Dir, "err", err)
			return cache.NewNullCache(), nil, nil
		}
		return fc, nil, nil
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// orderFlags are the ordering flags shared by order, render and serve.
type orderFlags struct {
	quality   string
	maxSweeps int
	maxStale  int
	timeout   string
	parallel  bool
	bias      string
	init      string
	normalize bool
}

// register adds the ordering flags to cmd. Defaults shown in help are the
// built-in ones; unset flags defer to the config file.
func (f *orderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.quality, "quality", "q", pipeline.DefaultQuality, "quality preset: fast, balanced, thorough")
	fl.IntVar(&f.maxSweeps, "max-sweeps", 0, "maximum number of sweeps (0: preset)")
	fl.IntVar(&f.maxStale, "max-stale", 0, "stop after this many sweeps without improvement (0: preset)")
	fl.StringVar(&f.timeout, "timeout", "", "soft time limit, e.g. 2s (default: preset)")
	fl.BoolVar(&f.parallel, "parallel", false, "reorder the ranks of a sweep concurrently")
	fl.StringVar(&f.bias, "bias", "alternate", "tie-breaking bias: alternate, left, right")
	fl.StringVar(&f.init, "init", "", "initial order: rows, dfs (default: preset)")
	fl.BoolVar(&f.normalize, "normalize", false, "break cycles and assign rows before ordering")

	_ = cmd.RegisterFlagCompletionFunc("quality", fixedCompletions("fast", "balanced", "thorough"))
	_ = cmd.RegisterFlagCompletionFunc("bias", fixedCompletions("alternate", "left", "right"))
	_ = cmd.RegisterFlagCompletionFunc("init", fixedCompletions("rows", "dfs"))
}

// fixedCompletions completes a flag value from a closed set of names.
func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// options layers the flags that were set on the command line over the
// configured defaults.
func (f *orderFlags) options(cfg config.OrderingConfig, changed func(string) bool) (pipeline.Options, error) {
	opts := pipeline.Options{
		Quality:   cfg.Quality,
		MaxSweeps: cfg.MaxSweeps,
		MaxStale:  cfg.MaxStale,
		Timeout:   cfg.Timeout.Std(),
		Parallel:  cfg.Parallel,
		Bias:      cfg.Bias,
		Init:      cfg.Init,
		Normalize: cfg.Normalize,
	}
	if changed("quality") {
		opts.Quality = f.quality
	}
	if changed("max-sweeps") {
		opts.MaxSweeps = f.maxSweeps
	}
	if changed("max-stale") {
		opts.MaxStale = f.maxStale
	}
	if changed("timeout") {
		var d config.Duration
		if err := d.UnmarshalText([]byte(f.timeout)); err != nil {
			return opts, fmt.Errorf("invalid --timeout %q: %w", f.timeout, err)
		}
		opts.Timeout = d.Std()
	}
	if changed("parallel") {
		opts.Parallel = f.parallel
	}
	if changed("bias") {
		opts.Bias = f.bias
	}
	if changed("init") {
		opts.Init = f.init
	}
	if changed("normalize") {
		opts.Normalize = f.normalize
	}
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
