package features

import (
	"cxr-features/pkg/grid"
)

// TASBins is the size of the threshold adjacency statistics block:
// 3 intensity ranges, each evaluated on the selection and its complement
// within the image support, 9 neighbor-count bins apiece.
const TASBins = 54

// tasMargin is the half-width of the mean-centered intensity band.
const tasMargin = 30

// TAS computes threshold adjacency statistics. The image mean over
// nonzero pixels anchors three intensity ranges; for each range, every
// selected pixel is binned by how many of its 8 neighbors are also
// selected, yielding a normalized 9-bin histogram. The complement of
// each selection within the image support is binned the same way.
func TAS(g grid.Grid) []float64 {
	var sum, count float64
	for _, v := range g.Pix {
		if v > 0 {
			sum += float64(v)
			count++
		}
	}
	mu := 0.0
	if count > 0 {
		mu = sum / count
	}

	ranges := [3][2]float64{
		{mu - tasMargin, mu + tasMargin},
		{mu - tasMargin, 255},
		{mu, 255},
	}

	out := make([]float64, 0, TASBins)
	for _, r := range ranges {
		selected := selectRange(g, r[0], r[1])
		out = append(out, adjacencyHistogram(g, selected, false)...)
		out = append(out, adjacencyHistogram(g, selected, true)...)
	}
	return out
}

// selectRange marks pixels whose intensity lies in [lo, hi].
func selectRange(g grid.Grid, lo, hi float64) []bool {
	sel := make([]bool, len(g.Pix))
	for i, v := range g.Pix {
		f := float64(v)
		sel[i] = f >= lo && f <= hi
	}
	return sel
}

// adjacencyHistogram bins each selected pixel by its count of selected
// 8-neighbors. With invert set, the complement of the selection within
// the image support (nonzero pixels) is used instead. The histogram is
// normalized; an empty selection yields all zeros.
func adjacencyHistogram(g grid.Grid, selected []bool, invert bool) []float64 {
	in := func(x, y int) bool {
		if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
			return false
		}
		i := y*g.Width + x
		if invert {
			return g.Pix[i] > 0 && !selected[i]
		}
		return selected[i]
	}

	hist := make([]float64, 9)
	total := 0.0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !in(x, y) {
				continue
			}
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if in(x+dx, y+dy) {
						neighbors++
					}
				}
			}
			hist[neighbors]++
			total++
		}
	}

	if total > 0 {
		for i := range hist {
			hist[i] /= total
		}
	}
	return hist
}
