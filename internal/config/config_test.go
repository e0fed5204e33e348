package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg := Default()
	if cfg.CellSize != pipeline.DefaultCellSize {
		t.Errorf("CellSize = %d, want %d", cfg.CellSize, pipeline.DefaultCellSize)
	}
	if !slices.Equal(cfg.Formats, pipeline.DefaultFormats) {
		t.Errorf("Formats = %v, want %v", cfg.Formats, pipeline.DefaultFormats)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheFile)
	}
	if want := filepath.Join("/tmp/xdg-cache", AppName); cfg.Cache.Dir != want {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, want)
	}
	if want := filepath.Join("/tmp/xdg-data", AppName, "history.db"); cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
	if cfg.Store.Backend != store.BackendSQLite {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, store.BackendSQLite)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
cell_size = 8
formats = ["json", "dot"]
workers = 2

[cache]
backend = "none"

[store]
backend = "memory"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.CellSize != 8 || cfg.Workers != 2 {
		t.Errorf("CellSize, Workers = %d, %d, want 8, 2", cfg.CellSize, cfg.Workers)
	}
	if !slices.Equal(cfg.Formats, []string{"json", "dot"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Store.Backend != store.BackendMemory {
		t.Errorf("backends = %q, %q", cfg.Cache.Backend, cfg.Store.Backend)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.LabelSize != pipeline.DefaultLabelSize {
		t.Errorf("LabelSize = %v, want default", cfg.LabelSize)
	}
}

func TestLoadMemoryCache(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "[cache]\nbackend = \"memory\"\nmax_entries = 64"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Cache.Backend != CacheMemory || cfg.Cache.MaxEntries != 64 {
		t.Errorf("Cache = %+v, want memory with 64 entries", cfg.Cache)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "cell_size = ", errors.ErrCodeMalformedInput},
		{"unknown key", "cel_size = 8", errors.ErrCodeMalformedInput},
		{"negative cell size", "cell_size = -1", errors.ErrCodeMalformedInput},
		{"bad format", `formats = ["gif"]`, errors.ErrCodeInvalidFormat},
		{"bad cache", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"redis without url", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidInput},
		{"bad store", "[store]\nbackend = \"postgres\"", errors.ErrCodeInvalidInput},
		{"negative max entries", "[cache]\nbackend = \"memory\"\nmax_entries = -1", errors.ErrCodeMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.body))
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("LoadFromPath() code = %s, want %s (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.IsNotFound(err) {
		t.Errorf("LoadFromPath(missing) = %v, want not found", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	// Nothing on disk: defaults.
	t.Setenv(EnvPath, "")
	cfg, path, err := Load()
	if err != nil || path != "" {
		t.Fatalf("Load() = %q, %v, want defaults", path, err)
	}
	if cfg.CellSize != pipeline.DefaultCellSize {
		t.Errorf("CellSize = %d", cfg.CellSize)
	}

	// Local file beats the user config.
	userDir := filepath.Join(dir, "xdg", AppName)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.toml"), []byte("cell_size = 4"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, LocalFile), []byte("cell_size = 6"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != LocalFile || cfg.CellSize != 6 {
		t.Errorf("Load() = %q cell_size %d, want %q cell_size 6", path, cfg.CellSize, LocalFile)
	}

	// The environment variable beats both.
	env := writeConfig(t, "cell_size = 12")
	t.Setenv(EnvPath, env)
	cfg, path, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != env || cfg.CellSize != 12 {
		t.Errorf("Load() = %q cell_size %d, want %q cell_size 12", path, cfg.CellSize, env)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		in, want string
	}{
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"~", home},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
