// Package cli implements the glyphgraph command-line interface.
//
// The commands wrap the extraction pipeline: quantize an image into a color
// grid, extract the glyph graph, render it as a diagram, browse it in a
// terminal UI, and serve the same pipeline over HTTP. The CLI is built on
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - extract: Run the full pipeline on one or more images
//   - quantize, grid, detect: Inspect the sampled grid and cell size
//   - render: Render a saved graph as DOT, SVG or PDF
//   - inspect: Browse a graph interactively
//   - serve: Run the HTTP API
//   - history: List stored extraction results
//   - cache: Manage the local pipeline cache
//
// # Logging
//
// --verbose (-v) switches to debug level. The command logger travels in the
// command context via log.WithContext.
package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command and its phases. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
	phases []any // key/value pairs of phase durations
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// phase records the time spent since the previous phase under name.
func (p *progress) phase(name string) {
	now := time.Now()
	p.phases = append(p.phases, name, now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg with the total elapsed time and the recorded phases:
//
//	Extracted 3 input(s) (1.234s) extract=1.1s write=134ms
func (p *progress) done(msg string, keyvals ...any) {
	fields := slices.Concat(p.phases, keyvals)
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond)), fields...)
}
