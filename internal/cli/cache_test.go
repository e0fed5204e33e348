package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphgraph/internal/config"
	"github.com/matzehuels/glyphgraph/pkg/cache"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glyphgraph.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileCacheDirFromConfig(t *testing.T) {
	c := New(os.Stderr, log.FatalLevel)
	c.Config.Cache.Dir = "/tmp/glyphgraph-test-cache"

	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if dir != "/tmp/glyphgraph-test-cache" {
		t.Errorf("fileCacheDir() = %q, want %q", dir, "/tmp/glyphgraph-test-cache")
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"grid:a", "graph:b", "artifact:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfg := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n\n[store]\nbackend = \"memory\"\n")
	c := New(os.Stderr, log.FatalLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, ok, _ := fc.Get(ctx, "grid:a"); ok {
		t.Error("entry still cached after clear")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir removed: %v", err)
	}
}

func TestCacheClearSkipsOtherBackends(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n\n[store]\nbackend = \"memory\"\n")
	c := New(os.Stderr, log.FatalLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Errorf("cache clear with backend none: %v", err)
	}
}

func TestNewCacheBackends(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		noCache bool
		check   func(cache.Cache) bool
	}{
		{"none", config.CacheNone, false, func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok }},
		{"memory", config.CacheMemory, false, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{"file", config.CacheFile, false, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
		{"no-cache flag", config.CacheFile, true, func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, log.FatalLevel)
			c.Config.Cache.Backend = tt.backend
			c.Config.Cache.Dir = t.TempDir()

			got, err := c.newCache(context.Background(), tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			defer got.Close()
			if !tt.check(got) {
				t.Errorf("newCache() with backend %q = %T", tt.backend, got)
			}
		})
	}
}
