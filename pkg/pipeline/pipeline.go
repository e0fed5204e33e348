// Package pipeline provides the extraction pipeline shared by the CLI and
// the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Quantize: Decode the image and sample one color per cell (or accept a
//     pre-quantized grid)
//  2. Extract: Label glyphs, order them, resolve corridor connectivity and
//     assemble the graph
//  3. Render: Generate outputs (graph JSON/YAML, overlay PNG, DOT, SVG, PDF)
//
// Each stage is cached by content hash through [Runner], so re-running on
// the same image skips work that cannot change.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:   "diagram.png",
//	    Image:    data,
//	    CellSize: 16,
//	    Formats:  []string{"json", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("graph.json", result.Artifacts["json"], 0o644)
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphgraph/pkg/cache"
	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/glyph"
	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCellSize is the cell side in pixels used when none is given.
	DefaultCellSize = 16

	// AutoCellSize asks the quantize stage to estimate the cell size.
	AutoCellSize = 0

	// DefaultLabelSize is the overlay label size in points.
	DefaultLabelSize = 40.0

	// MaxOverlayPixels bounds overlays painted from grid samples, which have
	// no source image to size them.
	MaxOverlayPixels = 1 << 22

	// graphSchema versions the cached graph encoding.
	graphSchema = 1
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []string{FormatJSON, FormatPNG}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPDF:  true,
}

// cacheableFormats are rendered from the graph alone and worth caching.
var cacheableFormats = map[string]bool{
	FormatSVG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: exactly one of Image or Grid.
	Source   string        `json:"source,omitempty"` // Display name (file name or upload name)
	Image    []byte        `json:"-"`                // Encoded image (PNG, JPEG, GIF, BMP, TIFF, WebP)
	Grid     *grid.Squares `json:"grid,omitempty"`   // Pre-quantized grid
	CellSize int           `json:"cell_size"`        // Pixel side of one cell; AutoCellSize estimates it
	Refresh  bool          `json:"refresh,omitempty"`

	// Extract options
	Workers   int  `json:"workers,omitempty"`   // Goroutines for connectivity resolution
	Connected bool `json:"connected,omitempty"` // Also report connected glyph cells

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Pinned    bool     `json:"pinned,omitempty"`   // Pin diagram nodes at glyph centers
	Detailed  bool     `json:"detailed,omitempty"` // Add centers to diagram labels
	LabelSize float64  `json:"label_size,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Squares is the sampled grid.
	Squares *grid.Squares

	// CellSize is the cell size actually used (estimated when auto).
	CellSize int

	// Components are the labeled glyphs in reading order. Only populated
	// when the overlay was rendered or the graph was computed.
	Components []glyph.Component

	// Graph is the extracted glyph graph.
	Graph graph.Graph

	// GraphHash is the content hash of the graph JSON.
	GraphHash string

	// Connected lists glyph cells in multi-glyph regions (Options.Connected).
	Connected []grid.Cell

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GridWidth    int
	GridHeight   int
	NodeCount    int
	EdgeCount    int
	QuantizeTime time.Duration
	ExtractTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	QuantizeHit bool // Whether the grid came from cache
	ExtractHit  bool // Whether the graph came from cache
	RenderHit   bool // Whether all cacheable artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates. An empty string yields nil.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForQuantize(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForQuantize checks the input fields.
func (o *Options) ValidateForQuantize() error {
	switch {
	case len(o.Image) == 0 && o.Grid == nil:
		return errors.New(errors.ErrCodeInvalidInput, "image or grid is required")
	case len(o.Image) > 0 && o.Grid != nil:
		return errors.New(errors.ErrCodeInvalidInput, "image and grid are mutually exclusive")
	}
	if o.CellSize < 0 {
		return errors.New(errors.ErrCodeMalformedInput, "cell size must not be negative, got %d", o.CellSize)
	}
	if o.CellSize > 0 {
		if err := errors.ValidateCellSize(o.CellSize); err != nil {
			return err
		}
	}
	if o.Grid != nil {
		if err := o.Grid.Validate(); err != nil {
			return err
		}
	}
	if o.Source == "" {
		if o.Grid != nil {
			o.Source = "grid"
		} else {
			o.Source = "image"
		}
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.LabelSize <= 0 {
		o.LabelSize = DefaultLabelSize
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// GridKeyOpts returns cache key options for quantization.
func (o *Options) GridKeyOpts() cache.GridKeyOpts {
	return cache.GridKeyOpts{CellSize: o.CellSize}
}

// GraphKeyOpts returns cache key options for extraction.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Schema: graphSchema}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Pinned:   o.Pinned,
		Detailed: o.Detailed,
	}
}

// overlayCellSize is the cell size used to draw the overlay.
func overlayCellSize(sq *grid.Squares, cellSize int) int {
	if cellSize > 0 {
		return cellSize
	}
	if sq != nil && sq.SquareSize > 0 {
		return sq.SquareSize
	}
	return DefaultCellSize
}

// gridOverlayCellSize is the cell size for an overlay painted from grid
// samples. SquareSize is only a hint: an unusable value falls back to
// DefaultCellSize, and the result shrinks until the image fits in
// MaxOverlayPixels.
func gridOverlayCellSize(sq *grid.Squares) int {
	size := sq.SquareSize
	if errors.ValidateCellSize(size) != nil {
		size = DefaultCellSize
	}
	cells := sq.GridWidth * sq.GridHeight
	if cells == 0 || cells*size*size <= MaxOverlayPixels {
		return size
	}
	return max(1, int(math.Sqrt(float64(MaxOverlayPixels)/float64(cells))))
}
