package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recorder counts the events it receives.
type recorder struct {
	Noop
	hits int
}

func (r *recorder) OnCacheHit(context.Context, string) { r.hits++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Pipeline().(Noop); !ok {
		t.Errorf("Pipeline() = %T, want Noop", Pipeline())
	}
	if _, ok := Cache().(Noop); !ok {
		t.Errorf("Cache() = %T, want Noop", Cache())
	}
	if _, ok := HTTP().(Noop); !ok {
		t.Errorf("HTTP() = %T, want Noop", HTTP())
	}

	Pipeline().OnExtractComplete(ctx, 12, 15, time.Second, nil)
	Cache().OnCacheSet(ctx, "artifact", 1024)
	HTTP().OnError(ctx, "GET", "/v1/graphs/{id}", nil)
}

func TestSetHooksPerCategory(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	r := &recorder{}
	SetCacheHooks(r)
	Cache().OnCacheHit(ctx, "graph")
	if r.hits != 1 {
		t.Errorf("hits = %d, want 1", r.hits)
	}
	if _, ok := Pipeline().(Noop); !ok {
		t.Errorf("SetCacheHooks changed pipeline hooks to %T", Pipeline())
	}

	SetCacheHooks(nil)
	if Cache() != CacheHooks(r) {
		t.Error("SetCacheHooks(nil) replaced the registered hooks")
	}

	Reset()
	if _, ok := Cache().(Noop); !ok {
		t.Errorf("Reset() left cache hooks as %T", Cache())
	}
}

func TestSetHooksNil(t *testing.T) {
	t.Cleanup(Reset)
	r := &recorder{}
	SetHooks(r)
	SetHooks(nil)
	if HTTP() != HTTPHooks(r) {
		t.Errorf("SetHooks(nil) replaced HTTP hooks with %T", HTTP())
	}
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	c.OnExtractComplete(ctx, 3, 1, 2*time.Millisecond, nil)
	c.OnExtractComplete(ctx, 5, 2, 4*time.Millisecond, nil)
	c.OnExtractComplete(ctx, 0, 0, 0, errors.New("boom"))
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "grid")
	c.OnCacheMiss(ctx, "grid")
	c.OnRequest(ctx, "POST", "/v1/extract")
	c.OnResponse(ctx, "POST", "/v1/extract", 201, time.Millisecond)
	c.OnError(ctx, "POST", "/v1/extract", errors.New("bad"))

	s := c.Snapshot()
	if s.Extractions != 2 || s.Failures != 1 {
		t.Errorf("Extractions, Failures = %d, %d; want 2, 1", s.Extractions, s.Failures)
	}
	if s.Glyphs != 8 || s.Connections != 3 {
		t.Errorf("Glyphs, Connections = %d, %d; want 8, 3", s.Glyphs, s.Connections)
	}
	if s.MeanExtract != "3ms" {
		t.Errorf("MeanExtract = %q, want 3ms", s.MeanExtract)
	}
	if s.CacheHits["graph"] != 1 || s.CacheMisses["grid"] != 2 {
		t.Errorf("cache counts = %v / %v", s.CacheHits, s.CacheMisses)
	}
	if s.Requests != 1 || s.RequestErrors != 1 || s.StatusCounts[201] != 1 {
		t.Errorf("request counts = %d, %d, %v", s.Requests, s.RequestErrors, s.StatusCounts)
	}

	// Snapshots are copies.
	s.CacheHits["graph"] = 100
	if c.Snapshot().CacheHits["graph"] != 1 {
		t.Error("modifying a snapshot changed the counters")
	}
}

func TestCombine(t *testing.T) {
	ctx := context.Background()
	a, b := NewCounters(), NewCounters()
	h := Combine(a, nil, b)

	h.OnCacheHit(ctx, "artifact")
	h.OnExtractComplete(ctx, 2, 1, time.Millisecond, nil)

	for i, c := range []*Counters{a, b} {
		s := c.Snapshot()
		if s.CacheHits["artifact"] != 1 || s.Extractions != 1 {
			t.Errorf("hooks[%d] snapshot = %+v, want one hit and one extraction", i, s)
		}
	}

	SetHooks(h)
	defer Reset()
	Cache().OnCacheMiss(ctx, "grid")
	if a.Snapshot().CacheMisses["grid"] != 1 {
		t.Error("SetHooks should route cache events")
	}
}
