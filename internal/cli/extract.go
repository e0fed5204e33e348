package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/grid"
	gio "github.com/matzehuels/glyphgraph/pkg/io"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

// extractOpts holds the extract flags that are not pipeline options.
type extractOpts struct {
	outputDir string // where artifacts go; empty writes next to each input
	gridFile  string // pre-quantized grid instead of images
	jobs      int    // images processed concurrently
	noCache   bool
	save      bool // record results in the history store
}

// extractInput is one image (or grid file) to process.
type extractInput struct {
	path string
	grid *grid.Squares
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var formatsStr string
	eo := extractOpts{jobs: runtime.GOMAXPROCS(0)}
	opts := pipeline.Options{
		CellSize:  pipeline.DefaultCellSize,
		LabelSize: pipeline.DefaultLabelSize,
	}

	cmd := &cobra.Command{
		Use:   "extract [image...]",
		Short: "Extract the glyph graph from diagram images",
		Long: `Extract the glyph graph from one or more diagram images.

Each image is cut into square cells and each cell is classified by its
center color: green cells are glyphs, red cells are corridors and everything
else is background. Glyphs are named A, B, ... in reading order and two glyphs
are connected when a corridor path joins them.

By default graph.json and output.png (the annotated image) are written next
to the input. With several inputs, file names are prefixed with the image
name. Results are cached locally for faster subsequent runs.`,
		Example: `  glyphgraph extract diagram.png
  glyphgraph extract --cell-size 0 -f json,dot,svg diagram.png
  glyphgraph extract --grid grid.json -o out/
  glyphgraph extract --jobs 8 -o out/ scans/*.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			if cmd.Flags().Changed("format") {
				opts.Formats = pipeline.ParseFormats(formatsStr)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			switch {
			case eo.gridFile != "" && len(args) > 0:
				return errors.New(errors.ErrCodeInvalidInput, "--grid and image arguments are mutually exclusive")
			case eo.gridFile == "" && len(args) == 0:
				return errors.New(errors.ErrCodeInvalidInput, "at least one image (or --grid) is required")
			}
			return c.runExtract(cmd.Context(), args, opts, eo)
		},
	}

	cmd.Flags().IntVar(&opts.CellSize, "cell-size", opts.CellSize, "cell side in pixels (0 estimates it)")
	cmd.Flags().StringVar(&eo.gridFile, "grid", "", "read a pre-quantized grid file (json or yaml) instead of an image")
	cmd.Flags().StringVarP(&eo.outputDir, "output-dir", "o", "", "output directory (default: next to each input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json, yaml, png, dot, svg, pdf (comma-separated, default json,png)")
	cmd.Flags().BoolVar(&opts.Connected, "connected", false, "also write connected_squares.json")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "goroutines per image for connectivity (0 = all CPUs)")
	cmd.Flags().IntVar(&eo.jobs, "jobs", eo.jobs, "images processed concurrently")
	cmd.Flags().BoolVar(&opts.Pinned, "pinned", false, "pin diagram nodes at glyph centers (dot, svg, pdf)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add glyph centers to diagram labels")
	cmd.Flags().Float64Var(&opts.LabelSize, "label-size", opts.LabelSize, "overlay label size in points")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&eo.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&eo.save, "save", false, "record the result in the history store")

	return cmd
}

// runExtract processes every input, then writes all outputs. Nothing is
// written when any input fails.
func (c *CLI) runExtract(ctx context.Context, paths []string, opts pipeline.Options, eo extractOpts) error {
	logger := log.FromContext(ctx)
	prog := newProgress(logger)

	inputs := make([]extractInput, 0, len(paths))
	if eo.gridFile != "" {
		sq, err := gio.ImportGrid(eo.gridFile)
		if err != nil {
			return err
		}
		inputs = append(inputs, extractInput{path: eo.gridFile, grid: sq})
	}
	for _, p := range paths {
		inputs = append(inputs, extractInput{path: p})
	}

	runner, err := c.newRunner(ctx, eo.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var st store.Store
	if eo.save {
		if st, err = c.openStore(ctx); err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	spinner := newCountingSpinner(ctx, "Extracting...", len(inputs))
	spinner.Start()

	results := make([]*pipeline.Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(eo.jobs, 1))
	for i, in := range inputs {
		g.Go(func() error {
			o := opts
			o.Source = filepath.Base(in.path)
			if in.grid != nil {
				o.Grid = in.grid
			} else {
				data, err := readInput(in.path)
				if err != nil {
					return err
				}
				o.Image = data
			}
			res, err := runner.Execute(gctx, o)
			if err != nil {
				return fmt.Errorf("%s: %w", in.path, err)
			}
			results[i] = res
			spinner.Advance()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError("Extraction failed")
		return err
	}
	spinner.Stop()
	prog.phase("extract")

	for i, in := range inputs {
		if err := c.writeExtract(ctx, in.path, results[i], opts, eo, len(inputs) > 1, st); err != nil {
			return err
		}
	}

	prog.phase("write")
	prog.done(fmt.Sprintf("Extracted %d input(s)", len(inputs)))
	if len(inputs) == 1 && opts.Wants(pipeline.FormatJSON) {
		printNewline()
		printNextStep("Browse the graph", fmt.Sprintf("%s inspect %s", appName, outputPath(inputs[0].path, pipeline.FormatJSON, eo, false)))
	}
	return nil
}

// writeExtract writes one input's artifacts and optional history record.
func (c *CLI) writeExtract(ctx context.Context, input string, res *pipeline.Result, opts pipeline.Options, eo extractOpts, prefixed bool, st store.Store) error {
	printSuccess("%s: %d glyphs on a %dx%d grid (cell size %d)",
		filepath.Base(input), res.Stats.NodeCount, res.Stats.GridWidth, res.Stats.GridHeight, res.CellSize)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.ExtractHit)

	for _, format := range opts.Formats {
		path := outputPath(input, format, eo, prefixed)
		if err := writeFile(path, res.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	if opts.Connected {
		path := outputPath(input, "connected", eo, prefixed)
		if err := gio.ExportCells(res.Connected, path); err != nil {
			return err
		}
		printFile(path)
	}

	if st != nil {
		rec := store.NewRecord(filepath.Base(input), res.CellSize, res.Graph)
		rec.Overlay = res.Artifacts[pipeline.FormatPNG]
		if err := st.Put(ctx, rec); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
		printDetail("Saved as %s", rec.ID)
	}
	return nil
}

// outputPath places an artifact in the output directory (or next to the
// input) and prefixes it with the input name when several inputs share it.
func outputPath(input, format string, eo extractOpts, prefixed bool) string {
	dir := eo.outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := artifactFile(format)
	if format == "connected" {
		name = connectedFile
	}
	if prefixed {
		name = stem(input) + "_" + name
	}
	return filepath.Join(dir, name)
}
