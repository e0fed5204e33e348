package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/grid"
	"github.com/matzehuels/glyphgraph/pkg/imageio"
	gio "github.com/matzehuels/glyphgraph/pkg/io"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/render/ascii"
)

// quantizeCommand creates the quantize command, which exports the sampled grid.
func (c *CLI) quantizeCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
		goOpts  gio.GoSource
	)
	opts := pipeline.Options{CellSize: pipeline.DefaultCellSize}

	cmd := &cobra.Command{
		Use:   "quantize [image]",
		Short: "Sample an image into a serialized grid",
		Long: `Sample an image into a serialized grid, one RGB value per cell.

The grid can be fed back with 'extract --grid', or exported as Go source
(-f go) to embed a fixture in tests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			if format == "" {
				format = gio.FormatJSON
				if output != "" {
					format = gio.FormatFromPath(output)
				}
			}
			if !gio.ValidFormats[format] {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid grid format: %q (must be one of: json, yaml, go)", format)
			}
			return c.runQuantize(cmd.Context(), args[0], opts, format, output, noCache, goOpts)
		},
	}

	cmd.Flags().IntVar(&opts.CellSize, "cell-size", opts.CellSize, "cell side in pixels (0 estimates it)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "grid format: json (default), yaml, go")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&goOpts.Package, "package", "", "package name for -f go (default main)")
	cmd.Flags().StringVar(&goOpts.VarName, "var", "", "variable name for -f go (default GeneratedImage)")

	return cmd
}

func (c *CLI) runQuantize(ctx context.Context, input string, opts pipeline.Options, format, output string, noCache bool, goOpts gio.GoSource) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	opts.Image = data
	opts.Source = filepath.Base(input)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	q, hit, err := runner.QuantizeWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("quantize: %w", err)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == gio.FormatGo {
		err = gio.WriteGoSource(q.Squares, out, goOpts)
	} else {
		err = gio.WriteGrid(q.Squares, out, format)
	}
	if err != nil {
		return err
	}

	if output != "" {
		printSuccess("Quantized %s to a %dx%d grid (cell size %d)", opts.Source, q.Squares.GridWidth, q.Squares.GridHeight, q.CellSize)
		printStats(0, 0, hit)
		printFile(output)
	}
	return nil
}

// gridCommand creates the grid command, which prints a text dump of a grid.
func (c *CLI) gridCommand() *cobra.Command {
	var (
		cellSize int
		color    bool
	)

	cmd := &cobra.Command{
		Use:   "grid [image|grid-file]",
		Short: "Print a grid as text (G glyph, R corridor, B blue, . background)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cell-size") {
				cellSize = c.Config.CellSize
			}
			sq, err := loadSquares(args[0], cellSize)
			if err != nil {
				return err
			}
			return ascii.WriteSquares(stdout, sq, ascii.Options{Color: color})
		},
	}

	cmd.Flags().IntVar(&cellSize, "cell-size", pipeline.DefaultCellSize, "cell side in pixels for images (0 estimates it)")
	cmd.Flags().BoolVar(&color, "color", false, "color the output")

	return cmd
}

// loadSquares reads a grid file, or samples an image.
func loadSquares(path string, cellSize int) (*grid.Squares, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return gio.ImportGrid(path)
	}
	img, _, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	if cellSize == pipeline.AutoCellSize {
		cellSize = grid.EstimateCellSize(img).CellSize()
	}
	return grid.Sample(img, cellSize)
}

// detectCommand creates the detect command, which estimates the cell size.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [image]",
		Short: "Estimate the cell size of a diagram image",
		Long: `Estimate the cell size of a diagram image from runs of similar pixels.

Rows and columns at one quarter, one half and three quarters of the image
are scanned; the most common run longer than five pixels is taken as the
cell side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, format, err := imageio.Load(args[0])
			if err != nil {
				return err
			}
			est := grid.EstimateCellSize(img)

			printKeyValue("Image", fmt.Sprintf("%dx%d %s", est.ImageWidth, est.ImageHeight, format))
			printKeyValue("Cell", fmt.Sprintf("%dx%d", est.CellWidth, est.CellHeight))
			printKeyValue("Grid", fmt.Sprintf("%dx%d", est.GridWidth, est.GridHeight))
			log.FromContext(cmd.Context()).Debug("runs", "rows", est.RowRuns, "cols", est.ColRuns)

			if est.CellSize() <= 1 {
				printWarning("No run longer than 5 pixels; the image may not be a cell diagram")
				return nil
			}
			printNewline()
			printNextStep("Extract with this size", fmt.Sprintf("%s extract --cell-size %d %s", appName, est.CellSize(), args[0]))
			return nil
		},
	}
}
