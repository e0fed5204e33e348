package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/glyphgraph/pkg/errors"
)

var errPermanent = errors.New("permanent failure")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if data, hit, err := c.Get(ctx, "key"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want nil, false, nil", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("empty cache should miss")
	}
	value := []byte("v")
	if err := c.Set(ctx, "k", value, time.Hour); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", data, hit, err)
	}
	data[0] = 'y'
	if again, _, _ := c.Get(ctx, "k"); string(again) != "v" {
		t.Errorf("cached value changed through returned slice: %q", again)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10)
	c.now = func() time.Time { return now }

	c.Set(ctx, "short", []byte("1"), time.Minute)
	c.Set(ctx, "forever", []byte("2"), 0)
	now = now.Add(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should not expire")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(3)

	c.Set(ctx, "forever", []byte("a"), 0)
	c.Set(ctx, "soon", []byte("b"), time.Minute)
	c.Set(ctx, "later", []byte("c"), time.Hour)
	c.Set(ctx, "new", []byte("d"), time.Hour)

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "soon"); hit {
		t.Error("entry expiring soonest should be evicted first")
	}
	for _, k := range []string{"forever", "later", "new"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("%s should still be cached", k)
		}
	}

	// Overwriting an existing key never evicts.
	c.Set(ctx, "new", []byte("e"), time.Hour)
	if c.Len() != 3 {
		t.Errorf("Len() after overwrite = %d, want 3", c.Len())
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// GridKey should include the cell size in the hash
	gk1 := k.GridKey("img123", GridKeyOpts{CellSize: 16})
	gk2 := k.GridKey("img123", GridKeyOpts{CellSize: 8})
	if gk1 == gk2 {
		t.Error("Different GridKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(gk1, "grid:") {
		t.Errorf("GridKey should be prefixed with stage: %s", gk1)
	}
	if gk1 != k.GridKey("img123", GridKeyOpts{CellSize: 16}) {
		t.Error("GridKey should be deterministic")
	}

	// GraphKey
	if k.GraphKey("grid1", GraphKeyOpts{}) == k.GraphKey("grid2", GraphKeyOpts{}) {
		t.Error("Different grid hashes should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Pinned: true})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot", Pinned: true})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Stages never collide on the same input
	if k.GridKey("x", GridKeyOpts{}) == k.GraphKey("x", GraphKeyOpts{}) {
		t.Error("Grid and graph keys should differ for the same hash")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")

	// All keys should be prefixed
	opts := GridKeyOpts{CellSize: 16}
	if got, want := scoped.GridKey("img", opts), "api:"+inner.GridKey("img", opts); got != want {
		t.Errorf("ScopedKeyer GridKey = %s, want %s", got, want)
	}

	graphKey := scoped.GraphKey("grid", GraphKeyOpts{})
	if !strings.HasPrefix(graphKey, "api:graph:") {
		t.Errorf("ScopedKeyer GraphKey should be prefixed: %s", graphKey)
	}

	artifactKey := scoped.ArtifactKey("graph", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(artifactKey, "api:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", artifactKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.GraphKey("abc", GraphKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().GraphKey("abc", GraphKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Clear should keep the cache dir: %v", err)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, _ := NewFileCache(t.TempDir())
	c.now = func() time.Time { return now }

	c.Set(ctx, "old", []byte("1"), time.Minute)
	c.Set(ctx, "fresh", []byte("2"), time.Hour)
	c.Set(ctx, "forever", []byte("3"), 0)
	corrupt := c.path("corrupt")
	os.MkdirAll(filepath.Dir(corrupt), 0o755)
	os.WriteFile(corrupt, []byte("{"), 0o644)

	now = now.Add(10 * time.Minute)
	n, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune() = %d, want 2", n)
	}
	for _, k := range []string{"fresh", "forever"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("%s should survive Prune", k)
		}
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("GLYPHGRAPH_REDIS_URL")
	if url == "" {
		t.Skip("GLYPHGRAPH_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v; want value, true, nil", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}
	network := apperrors.New(apperrors.ErrCodeNetwork, "connection refused")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"permanent", 5, errPermanent, 1, true},
		{"storage", 5, apperrors.New(apperrors.ErrCodeStorage, "disk full"), 1, true},
		{"network then success", 2, network, 3, false},
		{"network exhausted", 5, network, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Retry(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultBackoff.Retry(ctx, func() error {
		return apperrors.New(apperrors.ErrCodeNetwork, "timeout")
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestBackendError(t *testing.T) {
	if backendError("op", nil) != nil {
		t.Error("backendError(nil) should be nil")
	}
	netErr := &net.OpError{Op: "dial", Err: errors.New("refused")}
	if !apperrors.Is(backendError("redis ping", netErr), apperrors.ErrCodeNetwork) {
		t.Error("net errors should be NETWORK_ERROR")
	}
	if !apperrors.Is(backendError("redis get", errPermanent), apperrors.ErrCodeStorage) {
		t.Error("other errors should be STORAGE_ERROR")
	}
}
