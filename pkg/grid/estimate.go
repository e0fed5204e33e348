package grid

import (
	"image"

	"gonum.org/v1/gonum/floats"
)

const (
	// runTolerance is the per-channel difference below which two neighboring
	// pixels belong to the same run.
	runTolerance = 10

	// minSignificantRun discards runs produced by borders and antialiasing.
	minSignificantRun = 5

	// candidateRuns is how many of the most frequent run lengths are
	// considered for the estimate.
	candidateRuns = 5
)

// Estimate is a guessed cell geometry for an image.
type Estimate struct {
	ImageWidth  int
	ImageHeight int
	CellWidth   int // See [EstimateCellSize]
	CellHeight  int // See [EstimateCellSize]
	GridWidth   int
	GridHeight  int
	RowRuns     []int // Every horizontal run longer than one pixel
	ColRuns     []int // Every vertical run longer than one pixel
}

// CellSize returns the smaller of the two estimated cell dimensions, which is
// the value to pass to [Sample] for square cells.
func (e Estimate) CellSize() int {
	return min(e.CellWidth, e.CellHeight)
}

// EstimateCellSize guesses the cell size of img from pixel runs.
//
// It scans the rows at h/4, h/2 and 3h/4 and the columns at w/4, w/2 and 3w/4.
// A run continues while every channel differs from the previous pixel by
// less than 10. Per axis, the five most frequent run lengths are ranked by
// count, ties in order of first appearance, and the estimate is the first of
// them longer than 5 pixels. Without any such run the estimate is 1.
func EstimateCellSize(img image.Image) Estimate {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	e := Estimate{ImageWidth: w, ImageHeight: h, CellWidth: 1, CellHeight: 1}
	if w == 0 || h == 0 {
		return e
	}

	for _, y := range []int{h / 4, h / 2, 3 * h / 4} {
		e.RowRuns = appendRuns(e.RowRuns, w, func(i int) Pixel {
			return pixelAt(img, b.Min.X+i, b.Min.Y+y)
		})
	}
	for _, x := range []int{w / 4, w / 2, 3 * w / 4} {
		e.ColRuns = appendRuns(e.ColRuns, h, func(i int) Pixel {
			return pixelAt(img, b.Min.X+x, b.Min.Y+i)
		})
	}

	e.CellWidth = dominantRun(e.RowRuns)
	e.CellHeight = dominantRun(e.ColRuns)
	e.GridWidth = w / e.CellWidth
	e.GridHeight = h / e.CellHeight
	return e
}

// appendRuns walks n pixels of one scan line and appends every run longer
// than one pixel.
func appendRuns(runs []int, n int, at func(int) Pixel) []int {
	run := 1
	prev := at(0)
	for i := 1; i < n; i++ {
		cur := at(i)
		if similar(prev, cur) {
			run++
		} else {
			if run > 1 {
				runs = append(runs, run)
			}
			run = 1
		}
		prev = cur
	}
	if run > 1 {
		runs = append(runs, run)
	}
	return runs
}

func similar(a, b Pixel) bool {
	return absDiff(a.R, b.R) < runTolerance &&
		absDiff(a.G, b.G) < runTolerance &&
		absDiff(a.B, b.B) < runTolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// dominantRun picks the cell length from the run lengths of one axis. The
// histogram is indexed by first appearance, so MaxIdx breaks count ties
// toward the earlier run.
func dominantRun(runs []int) int {
	var lengths []int
	var counts []float64
	index := make(map[int]int)
	for _, r := range runs {
		i, ok := index[r]
		if !ok {
			i = len(lengths)
			index[r] = i
			lengths = append(lengths, r)
			counts = append(counts, 0)
		}
		counts[i]++
	}

	for range min(candidateRuns, len(counts)) {
		i := floats.MaxIdx(counts)
		if lengths[i] > minSignificantRun {
			return lengths[i]
		}
		counts[i] = -1
	}
	return 1
}
