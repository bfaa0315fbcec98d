package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stargen/internal/config"
	"github.com/matzehuels/stargen/pkg/buildinfo"
	"github.com/matzehuels/stargen/pkg/cache"
	"github.com/matzehuels/stargen/pkg/core/catalog"
	"github.com/matzehuels/stargen/pkg/core/tables"
	"github.com/matzehuels/stargen/pkg/pipeline"
	"github.com/matzehuels/stargen/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stargen"

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

	configPath string
	cfg        *config.Config
	out        io.Writer // galaxy data: JSON, maps, tables
	status     io.Writer // progress and summaries for humans
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
		out:    os.Stdout,
		status: os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stargen generates procedural galaxy maps",
		Long:         `Stargen generates playable galaxy maps: star systems laid out in one of several shapes, planets and moons drawn from distribution tables, homeworlds placed fairly apart, and wormholes linked in pairs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if level, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() > level {
				c.Logger.SetLevel(level)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.galaxiesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.tablesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backend Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	switch {
	case noCache || c.cfg.Cache.Disabled:
		return cache.NewNullCache(), nil
	case c.cfg.Cache.RedisURL != "":
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
	default:
		fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", c.cfg.Cache.Dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// openStore opens MongoDB when configured, otherwise the local SQLite file.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if uri := c.cfg.Store.MongoURI; uri != "" {
		return store.OpenMongo(ctx, uri, c.cfg.Store.MongoDatabase)
	}
	path := c.cfg.Store.SQLitePath
	if path != store.Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return store.OpenSQLite(path)
}

// applyData loads replacement tables and catalogs named in the config.
func (c *CLI) applyData(opts *pipeline.Options) error {
	d := c.cfg.Data
	if d.TablesDir != "" {
		t, err := tables.LoadDir(d.TablesDir)
		if err != nil {
			return err
		}
		opts.Tables = t
	}
	if d.Civilizations != "" || d.Names != "" || d.HomeSystems != "" {
		cat, err := catalog.Load(c.cfg.CatalogPaths(), c.Logger)
		if err != nil {
			return err
		}
		opts.Catalog = cat
	}
	return nil
}

// waitFor retries connect while it fails with a retryable error.
func (c *CLI) waitFor(ctx context.Context, name string, connect func() error) error {
	return cache.RetryWithBackoff(ctx, func() error {
		err := connect()
		if err != nil {
			c.Logger.Warn("waiting for backend", "backend", name, "err", err)
		}
		return err
	})
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
