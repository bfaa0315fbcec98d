// Package config loads stargen's configuration.
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/stargen/config.toml
//  3. A .env file in the working directory
//  4. STARGEN_* environment variables
//
// Example file:
//
//	[generate]
//	size = "medium"
//	shape = "spiral"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	rate_limit = 5.0
//	cors_origins = ["http://localhost:3000"]
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/stargen/pkg/core/catalog"
	"github.com/matzehuels/stargen/pkg/pipeline"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STARGEN_"

// Config is the full configuration.
type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Data     DataConfig     `toml:"data"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// GenerateConfig holds defaults for generation options.
type GenerateConfig struct {
	Size          string `toml:"size"`
	Shape         string `toml:"shape"`
	StarDensity   string `toml:"star_density"`
	PlanetDensity string `toml:"planet_density"`
	MinorRaces    string `toml:"minor_races"`
	Mode          string `toml:"mode"`
	MaxAttempts   int    `toml:"max_attempts"`
}

// DataConfig points at replacement data files. Empty paths use the
// embedded defaults.
type DataConfig struct {
	TablesDir     string `toml:"tables_dir"`
	Civilizations string `toml:"civilizations"`
	Names         string `toml:"names"`
	HomeSystems   string `toml:"home_systems"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`       // file cache directory
	RedisURL string `toml:"redis_url"` // selects the Redis cache when set
}

// StoreConfig selects galaxy persistence.
type StoreConfig struct {
	SQLitePath    string `toml:"sqlite_path"`
	MongoURI      string `toml:"mongo_uri"` // selects MongoDB when set
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	CORSOrigins  []string      `toml:"cors_origins"`

	// RateLimit is the sustained requests per second per client. Zero
	// disables rate limiting.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text, json or logfmt
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{
			Size:          pipeline.DefaultSize,
			Shape:         pipeline.DefaultShape,
			StarDensity:   pipeline.DefaultStarDensity,
			PlanetDensity: pipeline.DefaultPlanetDensity,
			MinorRaces:    pipeline.DefaultMinorRaces,
			Mode:          pipeline.DefaultMode,
			MaxAttempts:   pipeline.DefaultMaxAttempts,
		},
		Cache: CacheConfig{Dir: defaultCacheDir()},
		Store: StoreConfig{
			SQLitePath:    filepath.Join(dataHome(), "stargen", "galaxies.db"),
			MongoDatabase: "stargen",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit:    2,
			Burst:        5,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stargen", "config.toml")
}

// Load reads the configuration. An empty path reads [DefaultPath] if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides values from STARGEN_* variables returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("SIZE", &c.Generate.Size)
	str("SHAPE", &c.Generate.Shape)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("SQLITE_PATH", &c.Store.SQLitePath)
	str("MONGO_URI", &c.Store.MongoURI)
	str("MONGO_DATABASE", &c.Store.MongoDatabase)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("TABLES_DIR", &c.Data.TablesDir)

	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "CACHE_DISABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_DISABLED: %w", EnvPrefix, err)
		}
		c.Cache.Disabled = b
	}
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.Server.RateLimit = f
	}
	if v, ok := lookup(EnvPrefix + "BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBURST: %w", EnvPrefix, err)
		}
		c.Server.Burst = n
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format: %q (must be one of: text, json, logfmt)", c.Log.Format)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit cannot be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1 when rate limiting")
	}
	return nil
}

// Options returns generation options seeded with the configured defaults.
func (c *Config) Options() pipeline.Options {
	g := c.Generate
	return pipeline.Options{
		Size:          g.Size,
		Shape:         g.Shape,
		StarDensity:   g.StarDensity,
		PlanetDensity: g.PlanetDensity,
		MinorRaces:    g.MinorRaces,
		Mode:          g.Mode,
		MaxAttempts:   g.MaxAttempts,
	}
}

// CatalogPaths returns the replacement catalog files.
func (c *Config) CatalogPaths() catalog.Paths {
	return catalog.Paths{
		Civilizations: c.Data.Civilizations,
		Names:         c.Data.Names,
		HomeSystems:   c.Data.HomeSystems,
	}
}

// CustomData reports whether any data file replaces the embedded default.
func (c *Config) CustomData() bool {
	d := c.Data
	return d.TablesDir != "" || d.Civilizations != "" || d.Names != "" || d.HomeSystems != ""
}

// Logger builds a logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) *log.Logger {
	level, _ := log.ParseLevel(c.Log.Level)
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}
	switch c.Log.Format {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, opts)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "stargen")
	}
	return filepath.Join(dir, "stargen")
}

func dataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	return os.TempDir()
}
