// Package observability lets glyphgraph report what it is doing without
// tying the libraries to a metrics backend.
//
// The pipeline, the caches and the HTTP API call hooks through the package
// level accessors [Pipeline], [Cache] and [HTTP]. Until something is
// registered those return [Noop]. Binaries register hooks once at startup:
//
//	stats := observability.NewCounters()
//	observability.SetHooks(observability.Combine(stats, myTracer))
//
// and libraries emit events:
//
//	hooks := observability.Pipeline()
//	hooks.OnExtractStart(ctx, g.Len())
//	...
//	hooks.OnExtractComplete(ctx, nodes, edges, time.Since(start), err)
//
// [Counters] is the built-in implementation served by the API at /v1/stats.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives one start and one completion event per stage.
type PipelineHooks interface {
	OnQuantizeStart(ctx context.Context, source string, cellSize int)
	OnQuantizeComplete(ctx context.Context, source string, cells int, duration time.Duration, err error)

	// nodes and edges count glyphs and directed connections.
	OnExtractStart(ctx context.Context, cells int)
	OnExtractComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is the pipeline
// stage: grid, graph or artifact.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API traffic. route is the chi route pattern when one
// matched.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

// Hooks is implemented by types that receive every event category.
type Hooks interface {
	PipelineHooks
	CacheHooks
	HTTPHooks
}

// Noop discards every event.
type Noop struct{}

func (Noop) OnQuantizeStart(context.Context, string, int)                          {}
func (Noop) OnQuantizeComplete(context.Context, string, int, time.Duration, error) {}
func (Noop) OnExtractStart(context.Context, int)                                   {}
func (Noop) OnExtractComplete(context.Context, int, int, time.Duration, error)     {}
func (Noop) OnRenderStart(context.Context, []string)                               {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)      {}
func (Noop) OnCacheHit(context.Context, string)                                    {}
func (Noop) OnCacheMiss(context.Context, string)                                   {}
func (Noop) OnCacheSet(context.Context, string, int)                               {}
func (Noop) OnRequest(context.Context, string, string)                             {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)        {}
func (Noop) OnError(context.Context, string, string, error)                        {}

// registry holds the current hooks. Each category is swapped independently.
type registry struct {
	pipeline atomic.Pointer[PipelineHooks]
	cache    atomic.Pointer[CacheHooks]
	http     atomic.Pointer[HTTPHooks]
}

var global registry

func init() { Reset() }

// SetPipelineHooks registers h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		global.pipeline.Store(&h)
	}
}

// SetCacheHooks registers h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		global.cache.Store(&h)
	}
}

// SetHTTPHooks registers h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		global.http.Store(&h)
	}
}

// SetHooks registers h for all three categories.
func SetHooks(h Hooks) {
	if h == nil {
		return
	}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return *global.pipeline.Load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return *global.cache.Load() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return *global.http.Load() }

// Reset restores [Noop] for every category. Tests call it in cleanup.
func Reset() {
	var p PipelineHooks = Noop{}
	var c CacheHooks = Noop{}
	var h HTTPHooks = Noop{}
	global.pipeline.Store(&p)
	global.cache.Store(&c)
	global.http.Store(&h)
}

var _ Hooks = Noop{}
