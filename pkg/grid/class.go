package grid

// Class is the semantic role of a grid cell.
type Class uint8

const (
	Background Class = iota
	Glyph
	Corridor
)

// String returns the lower-case class name.
func (c Class) String() string {
	switch c {
	case Glyph:
		return "glyph"
	case Corridor:
		return "corridor"
	default:
		return "background"
	}
}

// Rune returns the single-letter code used in textual grids: 'G' for
// glyphs, 'R' for corridors and '.' for background.
func (c Class) Rune() rune {
	switch c {
	case Glyph:
		return 'G'
	case Corridor:
		return 'R'
	default:
		return '.'
	}
}

// Classify maps an RGB color to its class. Green-dominant colors are glyphs,
// red-dominant colors are corridors, and everything else (including ties) is
// background.
func Classify(r, g, b uint8) Class {
	switch {
	case g > r && g > b:
		return Glyph
	case r > g && r > b:
		return Corridor
	default:
		return Background
	}
}

// Pixel is an 8-bit RGB sample.
type Pixel struct {
	R uint8 `json:"R" yaml:"R"`
	G uint8 `json:"G" yaml:"G"`
	B uint8 `json:"B" yaml:"B"`
}

// Class classifies the pixel with [Classify].
func (p Pixel) Class() Class {
	return Classify(p.R, p.G, p.B)
}

// IsBlue reports whether blue strictly dominates. Blue has no role in the
// graph but is shown separately in grid dumps.
func (p Pixel) IsBlue() bool {
	return p.B > p.R && p.B > p.G
}
