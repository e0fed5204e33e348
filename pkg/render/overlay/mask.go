package overlay

import (
	"image"
	"image/color"
	"image/draw"
)

// mask marks the highlighted pixels of an image.
type mask struct {
	rect image.Rectangle
	bits []bool
}

func newMask(r image.Rectangle) *mask {
	return &mask{rect: r, bits: make([]bool, r.Dx()*r.Dy())}
}

func (m *mask) fill(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.bits[m.index(x, y)] = true
		}
	}
}

func (m *mask) index(x, y int) int {
	return (y-m.rect.Min.Y)*m.rect.Dx() + (x - m.rect.Min.X)
}

func (m *mask) has(x, y int) bool {
	if !(image.Point{x, y}.In(m.rect)) {
		return false
	}
	return m.bits[m.index(x, y)]
}

// edge reports whether (x, y) is set and has a 4-neighbor that is not.
func (m *mask) edge(x, y int) bool {
	if !m.has(x, y) {
		return false
	}
	return !m.has(x+1, y) || !m.has(x-1, y) || !m.has(x, y+1) || !m.has(x, y-1)
}

func (m *mask) outline(dst draw.Image, c color.Color) {
	for y := m.rect.Min.Y; y < m.rect.Max.Y; y++ {
		for x := m.rect.Min.X; x < m.rect.Max.X; x++ {
			if m.edge(x, y) {
				dst.Set(x, y, c)
			}
		}
	}
}
