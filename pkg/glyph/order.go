package glyph

import (
	"sort"

	"github.com/matzehuels/glyphgraph/pkg/errors"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxComponents is the number of distinct names [Name] can produce.
const MaxComponents = len(letters) + len(letters)*len(letters)

// Name returns the spreadsheet-style name of id: A..Z for 0..25 and AA..ZZ
// for 26..701. It returns "" outside that range.
func Name(id int) string {
	switch {
	case id < 0 || id >= MaxComponents:
		return ""
	case id < len(letters):
		return letters[id : id+1]
	default:
		return string([]byte{letters[id/len(letters)-1], letters[id%len(letters)]})
	}
}

// Order returns the components sorted into reading order with ids and names
// assigned.
//
// Components are stably sorted by Center.Y, then Center.X. The component at
// index i gets ID i and Name(i). The input slice is not modified. More than
// [MaxComponents] components is an error.
func Order(comps []Component) ([]Component, error) {
	if len(comps) > MaxComponents {
		return nil, errors.New(errors.ErrCodeTooManyGlyphs,
			"found %d glyphs, at most %d can be named", len(comps), MaxComponents)
	}

	out := make([]Component, len(comps))
	copy(out, comps)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Center, out[j].Center
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	for i := range out {
		out[i].ID = i
		out[i].Name = Name(i)
	}
	return out, nil
}
