package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Counters
// =============================================================================

// Counters tallies events in memory. The API serves a [Snapshot] of them.
type Counters struct {
	mu        sync.Mutex
	started   time.Time
	runs      int64
	failures  int64
	glyphs    int64
	links     int64
	extractNS int64
	hits      map[string]int64
	misses    map[string]int64
	requests  int64
	errors    int64
	statuses  map[int]int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Uptime        string           `json:"uptime"`
	Extractions   int64            `json:"extractions"`
	Failures      int64            `json:"failures"`
	Glyphs        int64            `json:"glyphs"`
	Connections   int64            `json:"connections"`
	MeanExtract   string           `json:"mean_extract"`
	CacheHits     map[string]int64 `json:"cache_hits"`
	CacheMisses   map[string]int64 `json:"cache_misses"`
	Requests      int64            `json:"requests"`
	RequestErrors int64            `json:"request_errors"`
	StatusCounts  map[int]int64    `json:"status_counts"`
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{
		started:  time.Now(),
		hits:     make(map[string]int64),
		misses:   make(map[string]int64),
		statuses: make(map[int]int64),
	}
}

func (c *Counters) OnQuantizeStart(context.Context, string, int) {}

func (c *Counters) OnQuantizeComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	if err != nil {
		c.mu.Lock()
		c.failures++
		c.mu.Unlock()
	}
}

func (c *Counters) OnExtractStart(context.Context, int) {}

func (c *Counters) OnExtractComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failures++
		return
	}
	c.runs++
	c.glyphs += int64(nodes)
	c.links += int64(edges)
	c.extractNS += d.Nanoseconds()
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err != nil {
		c.mu.Lock()
		c.failures++
		c.mu.Unlock()
	}
}

func (c *Counters) OnCacheHit(_ context.Context, keyType string) {
	c.mu.Lock()
	c.hits[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheMiss(_ context.Context, keyType string) {
	c.mu.Lock()
	c.misses[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string) {
	c.mu.Lock()
	c.requests++
	c.mu.Unlock()
}

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.mu.Lock()
	c.statuses[status]++
	c.mu.Unlock()
}

func (c *Counters) OnError(context.Context, string, string, error) {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()
}

// Snapshot copies the current counts.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var mean time.Duration
	if c.runs > 0 {
		mean = time.Duration(c.extractNS / c.runs)
	}
	return Snapshot{
		Uptime:        time.Since(c.started).Round(time.Second).String(),
		Extractions:   c.runs,
		Failures:      c.failures,
		Glyphs:        c.glyphs,
		Connections:   c.links,
		MeanExtract:   mean.Round(time.Microsecond).String(),
		CacheHits:     copyCounts(c.hits),
		CacheMisses:   copyCounts(c.misses),
		Requests:      c.requests,
		RequestErrors: c.errors,
		StatusCounts:  copyCounts(c.statuses),
	}
}

func copyCounts[K comparable](m map[K]int64) map[K]int64 {
	out := make(map[K]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// =============================================================================
// Fan-out
// =============================================================================

// multi forwards every event to each of its hooks in order.
type multi []Hooks

// Combine returns hooks that forward every event to each of hs. Nil entries
// are skipped.
func Combine(hs ...Hooks) Hooks {
	var m multi
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

func (m multi) OnQuantizeStart(ctx context.Context, source string, cellSize int) {
	for _, h := range m {
		h.OnQuantizeStart(ctx, source, cellSize)
	}
}

func (m multi) OnQuantizeComplete(ctx context.Context, source string, cells int, d time.Duration, err error) {
	for _, h := range m {
		h.OnQuantizeComplete(ctx, source, cells, d, err)
	}
}

func (m multi) OnExtractStart(ctx context.Context, cells int) {
	for _, h := range m {
		h.OnExtractStart(ctx, cells)
	}
}

func (m multi) OnExtractComplete(ctx context.Context, nodes, edges int, d time.Duration, err error) {
	for _, h := range m {
		h.OnExtractComplete(ctx, nodes, edges, d, err)
	}
}

func (m multi) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range m {
		h.OnRenderStart(ctx, formats)
	}
}

func (m multi) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

func (m multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (m multi) OnRequest(ctx context.Context, method, route string) {
	for _, h := range m {
		h.OnRequest(ctx, method, route)
	}
}

func (m multi) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, route, status, d)
	}
}

func (m multi) OnError(ctx context.Context, method, route string, err error) {
	for _, h := range m {
		h.OnError(ctx, method, route, err)
	}
}

var (
	_ Hooks = (*Counters)(nil)
	_ Hooks = multi(nil)
)
