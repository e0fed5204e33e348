// Package config loads the optional glyphgraph TOML configuration file.
//
// The first file found wins:
//
//  1. $GLYPHGRAPH_CONFIG
//  2. ./glyphgraph.toml
//  3. $XDG_CONFIG_HOME/glyphgraph/config.toml (~/.config/glyphgraph/config.toml)
//
// Every key is optional. Command-line flags override file values.
//
//	cell_size  = 16
//	formats    = ["json", "png"]
//	workers    = 4
//	label_size = 40.0
//
//	[cache]
//	backend   = "file"              # file, redis, memory or none
//	dir       = "~/.cache/glyphgraph"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend  = "sqlite"             # memory, sqlite or mongo
//	path     = "~/.local/share/glyphgraph/history.db"
//	uri      = "mongodb://localhost:27017"
//	database = "glyphgraph"
//
//	[server]
//	addr          = ":8080"
//	max_upload_mb = 32
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

const (
	// AppName names the XDG directories.
	AppName = "glyphgraph"

	// EnvPath overrides the config file location.
	EnvPath = "GLYPHGRAPH_CONFIG"

	// LocalFile is looked up in the working directory.
	LocalFile = "glyphgraph.toml"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Server defaults.
const (
	DefaultAddr        = ":8080"
	DefaultMaxUploadMB = 32
)

// Config is the decoded configuration file.
type Config struct {
	CellSize  int      `toml:"cell_size"`
	Formats   []string `toml:"formats"`
	Workers   int      `toml:"workers"`
	LabelSize float64  `toml:"label_size"`

	Cache  CacheConfig  `toml:"cache"`
	Store  store.Config `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the pipeline cache.
type CacheConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	RedisURL   string `toml:"redis_url"`
	MaxEntries int    `toml:"max_entries"` // memory backend only
}

// ServerConfig configures `glyphgraph serve`.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxUploadMB int    `toml:"max_upload_mb"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load finds and decodes the configuration file. It returns the path that
// was read, or "" when no file exists and defaults are used.
func Load() (*Config, string, error) {
	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		return cfg, path, err
	}
	return Default(), "", nil
}

// LoadFromPath decodes the file at path. Unknown keys are rejected so typos
// do not pass silently.
func LoadFromPath(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeMalformedInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if c.CellSize < 0 {
		return errors.New(errors.ErrCodeMalformedInput, "cell_size must not be negative, got %d", c.CellSize)
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheMemory, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, redis, memory, none)", c.Cache.Backend)
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New(errors.ErrCodeMalformedInput, "cache max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis cache needs redis_url")
	}
	if !slices.Contains([]string{store.BackendMemory, store.BackendSQLite, store.BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (must be one of: memory, sqlite, mongo)", c.Store.Backend)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.CellSize == 0 {
		c.CellSize = pipeline.DefaultCellSize
	}
	if len(c.Formats) == 0 {
		c.Formats = slices.Clone(pipeline.DefaultFormats)
	}
	if c.LabelSize <= 0 {
		c.LabelSize = pipeline.DefaultLabelSize
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir, _ = CacheDir()
	}
	c.Cache.Dir = expandHome(c.Cache.Dir)
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendSQLite
	}
	if c.Store.Path == "" {
		if dir, err := DataDir(); err == nil {
			c.Store.Path = filepath.Join(dir, "history.db")
		}
	}
	c.Store.Path = expandHome(c.Store.Path)
	if c.Store.Database == "" {
		c.Store.Database = store.DefaultMongoDatabase
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}
}

// =============================================================================
// Paths
// =============================================================================

func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, LocalFile)
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.toml"))
	}
	return paths
}

// ConfigDir returns $XDG_CONFIG_HOME/glyphgraph (~/.config/glyphgraph).
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns $XDG_CACHE_HOME/glyphgraph (~/.cache/glyphgraph).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/glyphgraph (~/.local/share/glyphgraph).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
