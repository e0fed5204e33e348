package glyph_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/glyphgraph/pkg/glyph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

func ExampleExtract() {
	g := grid.MustParse(
		"GRGRG",
		"....R",
		"GRRRR",
	)

	res, err := glyph.Extract(context.Background(), g, glyph.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, c := range res.Components {
		fmt.Printf("%s at (%d,%d) reaches", c.Name, c.Center.X, c.Center.Y)
		for _, id := range res.Reach[c.ID] {
			fmt.Printf(" %s", res.Components[id].Name)
		}
		fmt.Println()
	}
	// Output:
	// A at (0,0) reaches B
	// B at (2,0) reaches A C
	// C at (4,0) reaches B D
	// D at (0,2) reaches C
}

func ExampleName() {
	for _, id := range []int{0, 25, 26, 701} {
		fmt.Println(id, glyph.Name(id))
	}
	// Output:
	// 0 A
	// 25 Z
	// 26 AA
	// 701 ZZ
}
