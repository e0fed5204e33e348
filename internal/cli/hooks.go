package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphgraph/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l.WithPrefix("hooks")}
}

func (h *logHooks) OnQuantizeStart(_ context.Context, source string, cellSize int) {
	h.logger.Debug("quantize start", "source", source, "cell_size", cellSize)
}

func (h *logHooks) OnQuantizeComplete(_ context.Context, source string, cells int, d time.Duration, err error) {
	h.complete("quantize", d, err, "source", source, "cells", cells)
}

func (h *logHooks) OnExtractStart(_ context.Context, cells int) {
	h.logger.Debug("extract start", "cells", cells)
}

func (h *logHooks) OnExtractComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.complete("extract", d, err, "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.complete("render", d, err, "formats", formats)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Debug("request error", "method", method, "route", route, "error", err)
}

func (h *logHooks) complete(stage string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(keyvals, "error", err)...)
		return
	}
	h.logger.Debug(stage+" done", keyvals...)
}

var _ observability.Hooks = (*logHooks)(nil)
