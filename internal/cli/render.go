package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path
	noCache bool
}

// renderCommand creates the render command for drawing a saved graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		ro         renderOpts
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a saved glyph graph as a node-link diagram",
		Long: `Render a saved glyph graph (from 'extract') as a node-link diagram.

Supported formats are dot, svg, pdf, json and yaml. The annotated PNG needs
the source image; produce it with 'extract'. SVG and PDF output is cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = pipeline.ParseFormats(formatsStr)
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Wants(pipeline.FormatPNG) {
				return errors.New(errors.ErrCodeInvalidFormat, "png overlays need the source image; use 'extract -f png'")
			}
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, json, yaml (comma-separated)")
	cmd.Flags().BoolVar(&opts.Pinned, "pinned", false, "pin nodes at glyph centers")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add glyph centers to node labels")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the graph and renders every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	logger := log.FromContext(ctx)

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	logger.Infof("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, pipeline.RenderInput{Graph: g}, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered %s", input)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	for _, format := range opts.Formats {
		path := renderPath(input, ro.output, format, len(opts.Formats) > 1)
		if err := writeFile(path, artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// renderPath is the output path for one format: output itself for a single
// format, otherwise base.format.
func renderPath(input, output, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}
