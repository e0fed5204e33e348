package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphgraph/internal/config"
	"github.com/matzehuels/glyphgraph/pkg/buildinfo"
	"github.com/matzehuels/glyphgraph/pkg/cache"
	"github.com/matzehuels/glyphgraph/pkg/observability"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Config is loaded before any command runs.
	Config     *config.Config
	configPath string

	// stats counts pipeline, cache and HTTP events for the process.
	stats *observability.Counters
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stats:  observability.NewCounters(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Glyphgraph extracts glyph connectivity graphs from pixel diagrams",
		Long: `Glyphgraph reads a diagram drawn on a square grid, where green cells form
glyphs and red cells form corridors between them, and reports which glyphs
are connected as a named graph.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: search $GLYPHGRAPH_CONFIG, ./glyphgraph.toml, ~/.config/glyphgraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.quantizeCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// setup loads configuration, attaches the logger to the command context and
// registers event hooks: counters always, debug logging when verbose.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.configPath != "" {
		cfg, err := config.LoadFromPath(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
	} else {
		cfg, path, err := config.Load()
		if err != nil {
			return err
		}
		c.Config = cfg
		if path != "" {
			c.Logger.Debug("loaded config", "path", path)
		}
	}

	hooks := []observability.Hooks{c.stats}
	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks = append(hooks, newLogHooks(c.Logger))
	}
	observability.SetHooks(observability.Combine(hooks...))

	cmd.SetContext(log.WithContext(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(c.Config.Cache.MaxEntries), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.Config.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// openStore opens the configured result store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.Config.Store)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/glyphgraph/).
func cacheDir() (string, error) {
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills options the user did not set on the command line from
// the loaded configuration.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Lookup("cell-size") != nil && !flags.Changed("cell-size") {
		opts.CellSize = c.Config.CellSize
	}
	if flags.Lookup("workers") != nil && !flags.Changed("workers") {
		opts.Workers = c.Config.Workers
	}
	if flags.Lookup("label-size") != nil && !flags.Changed("label-size") {
		opts.LabelSize = c.Config.LabelSize
	}
	if flags.Lookup("format") != nil && !flags.Changed("format") {
		opts.Formats = append([]string(nil), c.Config.Formats...)
	}
}
