package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/matzehuels/glyphgraph/pkg/errors"
	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/imageio"
	"github.com/matzehuels/glyphgraph/pkg/render/nodelink"
	"github.com/matzehuels/glyphgraph/pkg/render/overlay"
)

// RenderFormat produces a single artifact without touching the cache.
func RenderFormat(ctx context.Context, in RenderInput, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.Marshal(in.Graph)
	case FormatYAML:
		var buf bytes.Buffer
		if err := graph.WriteYAML(in.Graph, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(in.Graph, diagramOptions(opts))), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(in.Graph, diagramOptions(opts)))
	case FormatPDF:
		return nodelink.RenderPDF(ctx, nodelink.ToDOT(in.Graph, diagramOptions(opts)))
	case FormatPNG:
		img, err := RenderOverlay(in, opts)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := imageio.EncodePNG(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// RenderOverlay draws the labeled glyphs over the source image, or over a
// reconstruction from the grid samples when no image is available. A
// reconstruction ignores in.CellSize and is sized by gridOverlayCellSize.
func RenderOverlay(in RenderInput, opts Options) (*image.NRGBA, error) {
	cellSize := overlayCellSize(in.Squares, in.CellSize)

	var base image.Image = in.Image
	if base == nil {
		if in.Squares == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "overlay needs an image or a grid")
		}
		cellSize = gridOverlayCellSize(in.Squares)
		img, err := overlay.FromSquares(in.Squares, cellSize)
		if err != nil {
			return nil, fmt.Errorf("reconstruct image: %w", err)
		}
		base = img
	}

	return overlay.Render(base, in.Components, overlay.Options{
		CellSize:  cellSize,
		LabelSize: opts.LabelSize,
	})
}

func diagramOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Pinned:   opts.Pinned,
		Detailed: opts.Detailed,
	}
}
