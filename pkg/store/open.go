package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/glyphgraph/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string `toml:"backend"`  // memory, sqlite or mongo; empty means sqlite
	Path     string `toml:"path"`     // SQLite database file
	URI      string `toml:"uri"`      // MongoDB connection string
	Database string `toml:"database"` // MongoDB database name
}

// Open returns the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite, "":
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite store needs a path")
		}
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store dir")
			}
		}
		s, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		if cfg.URI == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "mongo store needs a uri")
		}
		m, err := NewMongo(ctx, cfg.URI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (must be one of: memory, sqlite, mongo)", cfg.Backend)
	}
}
