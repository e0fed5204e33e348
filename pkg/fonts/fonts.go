// Package fonts provides the label typeface for raster overlays.
//
// The face is Go Bold from golang.org/x/image/font/gofont, compiled into the
// binary, so rendering needs no system fonts.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// DefaultSize is the label size in points used when none is configured.
const DefaultSize = 40

// FontFamily is the CSS font-family name used in SVG output.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for SVG viewers without Go Bold.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica', 'Arial', sans-serif`

var (
	boldOnce sync.Once
	bold     *opentype.Font
	boldErr  error
)

func parsed() (*opentype.Font, error) {
	boldOnce.Do(func() {
		bold, boldErr = opentype.Parse(gobold.TTF)
	})
	return bold, boldErr
}

// BoldTTF returns the raw TrueType data of the label font.
func BoldTTF() []byte {
	return gobold.TTF
}

// Bold returns a new face of the label font at size points (72 DPI). A size
// of zero or less uses [DefaultSize]. Faces are not safe for concurrent use,
// so every call builds its own; callers must Close it.
func Bold(size float64) (font.Face, error) {
	f, err := parsed()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if size <= 0 {
		size = DefaultSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}
