package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/glyphgraph/pkg/errors"
)

// RSVGConvert is the librsvg binary used for PDF output. Tests may point it
// elsewhere.
var RSVGConvert = "rsvg-convert"

// ToPDF converts SVG bytes to PDF with rsvg-convert. The conversion is
// cancelled with ctx.
//
// A missing binary is reported as UNSUPPORTED so callers can fall back to
// SVG.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	bin, err := exec.LookPath(RSVGConvert)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf output needs %s from librsvg (brew install librsvg, apt install librsvg2-bin)", RSVGConvert)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "svg to pdf: %s", msg)
	}
	return stdout.Bytes(), nil
}
