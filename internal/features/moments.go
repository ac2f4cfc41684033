package features

import (
	"fmt"
	"math"

	"cxr-features/pkg/grid"
)

// MomentBins is the number of Hu invariant moments.
const MomentBins = 7

// HuMoments computes the seven rotation- and scale-invariant moments of
// the image intensity distribution. Fails when the image carries no mass
// (every pixel zero), which happens with a fully degenerate mask.
func HuMoments(g grid.Grid) ([]float64, error) {
	var m00, m10, m01 float64
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for x, v := range row {
			f := float64(v)
			m00 += f
			m10 += float64(x) * f
			m01 += float64(y) * f
		}
	}
	if m00 == 0 {
		return nil, fmt.Errorf("image has no intensity mass")
	}

	cx, cy := m10/m00, m01/m00

	// Central moments up to order 3.
	var mu20, mu02, mu11, mu30, mu03, mu21, mu12 float64
	for y := 0; y < g.Height; y++ {
		dy := float64(y) - cy
		row := g.Row(y)
		for x, v := range row {
			if v == 0 {
				continue
			}
			f := float64(v)
			dx := float64(x) - cx
			mu20 += dx * dx * f
			mu02 += dy * dy * f
			mu11 += dx * dy * f
			mu30 += dx * dx * dx * f
			mu03 += dy * dy * dy * f
			mu21 += dx * dx * dy * f
			mu12 += dx * dy * dy * f
		}
	}

	// Scale-normalized central moments.
	norm := func(mu float64, order int) float64 {
		return mu / math.Pow(m00, 1+float64(order)/2)
	}
	n20 := norm(mu20, 2)
	n02 := norm(mu02, 2)
	n11 := norm(mu11, 2)
	n30 := norm(mu30, 3)
	n03 := norm(mu03, 3)
	n21 := norm(mu21, 3)
	n12 := norm(mu12, 3)

	hu := make([]float64, MomentBins)
	hu[0] = n20 + n02
	hu[1] = (n20-n02)*(n20-n02) + 4*n11*n11
	hu[2] = (n30-3*n12)*(n30-3*n12) + (3*n21-n03)*(3*n21-n03)
	hu[3] = (n30+n12)*(n30+n12) + (n21+n03)*(n21+n03)
	hu[4] = (n30-3*n12)*(n30+n12)*((n30+n12)*(n30+n12)-3*(n21+n03)*(n21+n03)) +
		(3*n21-n03)*(n21+n03)*(3*(n30+n12)*(n30+n12)-(n21+n03)*(n21+n03))
	hu[5] = (n20-n02)*((n30+n12)*(n30+n12)-(n21+n03)*(n21+n03)) +
		4*n11*(n30+n12)*(n21+n03)
	hu[6] = (3*n21-n03)*(n30+n12)*((n30+n12)*(n30+n12)-3*(n21+n03)*(n21+n03)) -
		(n30-3*n12)*(n21+n03)*(3*(n30+n12)*(n30+n12)-(n21+n03)*(n21+n03))
	return hu, nil
}
