package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphgraph/pkg/cache"
	"github.com/matzehuels/glyphgraph/pkg/glyph"
	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
	"github.com/matzehuels/glyphgraph/pkg/imageio"
	gio "github.com/matzehuels/glyphgraph/pkg/io"
	"github.com/matzehuels/glyphgraph/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGrid     = "grid"
	keyTypeGraph    = "graph"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Quantized is the output of the quantize stage.
type Quantized struct {
	Squares  *grid.Squares
	CellSize int

	// Image is the decoded source, or nil when the grid came from cache or
	// was supplied directly.
	Image image.Image
}

// Extraction is the output of the extract stage.
type Extraction struct {
	Grid       *grid.Grid
	Components []glyph.Component // Nil on a cache hit unless an overlay was requested
	Graph      graph.Graph
	Connected  []grid.Cell
}

// RenderInput is everything the render stage may draw from.
type RenderInput struct {
	Graph      graph.Graph
	Components []glyph.Component
	Squares    *grid.Squares
	Image      image.Image // Overlay background; nil paints the grid samples
	CellSize   int
}

// Execute runs the complete quantize → extract → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Quantize
	quantizeStart := time.Now()
	q, quantizeHit, err := r.QuantizeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	result.Squares = q.Squares
	result.CellSize = q.CellSize
	result.Stats.GridWidth = q.Squares.GridWidth
	result.Stats.GridHeight = q.Squares.GridHeight
	result.Stats.QuantizeTime = time.Since(quantizeStart)
	result.CacheInfo.QuantizeHit = quantizeHit

	r.Logger.Info("quantized image",
		"source", opts.Source,
		"grid", fmt.Sprintf("%dx%d", q.Squares.GridWidth, q.Squares.GridHeight),
		"cell_size", q.CellSize,
		"duration", result.Stats.QuantizeTime)

	// Stage 2: Extract
	extractStart := time.Now()
	ex, extractHit, err := r.ExtractWithCacheInfo(ctx, q.Squares, opts)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result.Graph = ex.Graph
	result.Components = ex.Components
	result.Connected = ex.Connected
	result.Stats.NodeCount = ex.Graph.NodeCount()
	result.Stats.EdgeCount = ex.Graph.EdgeCount()
	result.Stats.ExtractTime = time.Since(extractStart)
	result.CacheInfo.ExtractHit = extractHit
	if data, err := graph.Marshal(ex.Graph); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("extracted graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ExtractTime)

	// Stage 3: Render
	in := RenderInput{
		Graph:      ex.Graph,
		Components: ex.Components,
		Squares:    q.Squares,
		Image:      q.Image,
		CellSize:   q.CellSize,
	}
	if opts.Wants(FormatPNG) && in.Image == nil && len(opts.Image) > 0 {
		if in.Image, _, err = imageio.DecodeBytes(opts.Image); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Stage 1: Quantize
// =============================================================================

// QuantizeWithCacheInfo samples the input image into a grid, with caching,
// and reports whether the grid came from cache. A supplied grid is passed
// through untouched.
func (r *Runner) QuantizeWithCacheInfo(ctx context.Context, opts Options) (*Quantized, bool, error) {
	if err := opts.ValidateForQuantize(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnQuantizeStart(ctx, opts.Source, opts.CellSize)
	start := time.Now()

	q, hit, err := r.quantize(ctx, opts)

	cells := 0
	if q != nil {
		cells = q.Squares.GridWidth * q.Squares.GridHeight
	}
	hooks.OnQuantizeComplete(ctx, opts.Source, cells, time.Since(start), err)
	return q, hit, err
}

// Quantize is a convenience wrapper that calls QuantizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Quantize(ctx context.Context, opts Options) (*Quantized, error) {
	q, _, err := r.QuantizeWithCacheInfo(ctx, opts)
	return q, err
}

func (r *Runner) quantize(ctx context.Context, opts Options) (*Quantized, bool, error) {
	if opts.Grid != nil {
		return &Quantized{Squares: opts.Grid, CellSize: overlayCellSize(opts.Grid, opts.CellSize)}, false, nil
	}

	cacheKey := r.Keyer.GridKey(cache.Hash(opts.Image), opts.GridKeyOpts())
	if !opts.Refresh {
		if data, hit := r.load(ctx, cacheKey, keyTypeGrid); hit {
			sq, err := gio.ReadGrid(bytes.NewReader(data), gio.FormatJSON)
			if err == nil {
				return &Quantized{Squares: sq, CellSize: overlayCellSize(sq, opts.CellSize)}, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	img, format, err := imageio.DecodeBytes(opts.Image)
	if err != nil {
		return nil, false, err
	}
	cellSize := opts.CellSize
	if cellSize == AutoCellSize {
		est := grid.EstimateCellSize(img)
		cellSize = est.CellSize()
		r.Logger.Debug("estimated cell size",
			"cell_width", est.CellWidth,
			"cell_height", est.CellHeight,
			"cell_size", cellSize)
	}

	sq, err := grid.Sample(img, cellSize)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("sampled image", "format", format, "width", sq.OriginalWidth, "height", sq.OriginalHeight)

	var buf bytes.Buffer
	if err := gio.WriteGrid(sq, &buf, gio.FormatJSON); err == nil {
		r.save(ctx, cacheKey, keyTypeGrid, buf.Bytes(), cache.TTLGrid)
	}
	return &Quantized{Squares: sq, CellSize: cellSize, Image: img}, false, nil
}

// =============================================================================
// Stage 2: Extract
// =============================================================================

// ExtractWithCacheInfo builds the glyph graph of sq, with caching, and
// reports whether the graph came from cache.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, sq *grid.Squares, opts Options) (*Extraction, bool, error) {
	g, err := sq.Grid()
	if err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnExtractStart(ctx, g.Len())
	start := time.Now()

	ex, hit, err := r.extract(ctx, g, opts)

	nodes, edges := 0, 0
	if ex != nil {
		nodes, edges = ex.Graph.NodeCount(), ex.Graph.EdgeCount()
	}
	hooks.OnExtractComplete(ctx, nodes, edges, time.Since(start), err)
	return ex, hit, err
}

// Extract is a convenience wrapper that calls ExtractWithCacheInfo and discards the cache hit info.
func (r *Runner) Extract(ctx context.Context, sq *grid.Squares, opts Options) (*Extraction, error) {
	ex, _, err := r.ExtractWithCacheInfo(ctx, sq, opts)
	return ex, err
}

func (r *Runner) extract(ctx context.Context, g *grid.Grid, opts Options) (*Extraction, bool, error) {
	ex := &Extraction{Grid: g}
	if opts.Connected {
		ex.Connected = glyph.ConnectedCells(g)
	}

	cacheKey := r.Keyer.GraphKey(GridHash(g), opts.GraphKeyOpts())
	if !opts.Refresh {
		if data, hit := r.load(ctx, cacheKey, keyTypeGraph); hit {
			if cached, err := graph.Unmarshal(data); err == nil {
				ex.Graph = cached
				if opts.Wants(FormatPNG) {
					// Labeling is cheap; only connectivity is worth caching.
					comps, err := glyph.Order(glyph.Label(g))
					if err != nil {
						return nil, false, err
					}
					ex.Components = comps
				}
				return ex, true, nil
			}
		}
	}

	res, err := glyph.Extract(ctx, g, glyph.Options{Workers: opts.Workers})
	if err != nil {
		return nil, false, err
	}
	ex.Components = res.Components
	ex.Graph = graph.Assemble(res.Components, res.Reach)

	if data, err := graph.Marshal(ex.Graph); err == nil {
		r.save(ctx, cacheKey, keyTypeGraph, data, cache.TTLGraph)
	}
	return ex, false, nil
}

// GridHash is the content hash of a classified grid. Grids that differ only
// in colors of the same class hash equally.
func GridHash(g *grid.Grid) string {
	return cache.Hash([]byte(fmt.Sprintf("%dx%d\n%s", g.Width, g.Height, g.String())))
}

// =============================================================================
// Stage 3: Render
// =============================================================================

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Only formats that depend on the graph alone (SVG, PDF) are cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, in RenderInput, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, in, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, in RenderInput, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, in, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, in RenderInput, opts Options) (map[string][]byte, bool, error) {
	graphData, err := graph.Marshal(in.Graph)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	cacheable, hits := 0, 0

	for _, format := range opts.Formats {
		var cacheKey string
		if cacheableFormats[format] {
			cacheable++
			cacheKey = r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			if data, hit := r.load(ctx, cacheKey, keyTypeArtifact); hit && !opts.Refresh {
				artifacts[format] = data
				hits++
				continue
			}
		}

		data, err := RenderFormat(ctx, in, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if cacheKey != "" {
			r.save(ctx, cacheKey, keyTypeArtifact, data, cache.TTLArtifact)
		}
	}

	return artifacts, cacheable > 0 && hits == cacheable, nil
}

// =============================================================================
// Cache Helpers
// =============================================================================

// load reads a cache entry, treating backend errors as misses.
func (r *Runner) load(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// save writes a cache entry. Failures are logged and otherwise ignored.
func (r *Runner) save(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
