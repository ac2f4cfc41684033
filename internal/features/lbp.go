// Package features computes the fixed-order numeric descriptor vector
// for one masked radiograph.
package features

import (
	"math"

	"cxr-features/pkg/grid"
)

// LBP sampling geometry: 8 neighbors on a circle of radius 8.
const (
	lbpPoints = 8
	lbpRadius = 8
)

// LBPBins is the number of rotation-invariant classes an 8-bit local
// binary pattern can fall into.
const LBPBins = 36

// lbpTable maps every 8-bit pattern to its rotation-invariant bin.
var lbpTable = buildLBPTable()

func buildLBPTable() [256]int {
	// Canonical form of a pattern is its minimal cyclic rotation.
	canonical := func(code int) int {
		best := code
		for r := 1; r < lbpPoints; r++ {
			rotated := ((code >> r) | (code << (lbpPoints - r))) & 0xff
			if rotated < best {
				best = rotated
			}
		}
		return best
	}

	binOf := make(map[int]int)
	var table [256]int
	for code := 0; code < 256; code++ {
		c := canonical(code)
		if _, ok := binOf[c]; !ok {
			binOf[c] = len(binOf)
		}
		table[code] = binOf[c]
	}
	return table
}

// LBP computes a rotation-invariant local binary pattern histogram. Each
// interior pixel compares 8 bilinearly-interpolated circle samples
// against its own intensity; the resulting codes are binned by rotation
// class. The histogram length is fixed regardless of image content.
func LBP(g grid.Grid) []float64 {
	hist := make([]float64, LBPBins)

	// Precompute sample offsets around the circle.
	var dx, dy [lbpPoints]float64
	for p := 0; p < lbpPoints; p++ {
		angle := 2 * math.Pi * float64(p) / lbpPoints
		dx[p] = lbpRadius * math.Cos(angle)
		dy[p] = -lbpRadius * math.Sin(angle)
	}

	for y := lbpRadius; y < g.Height-lbpRadius; y++ {
		for x := lbpRadius; x < g.Width-lbpRadius; x++ {
			center := float64(g.At(x, y))
			code := 0
			for p := 0; p < lbpPoints; p++ {
				if bilinear(g, float64(x)+dx[p], float64(y)+dy[p]) >= center {
					code |= 1 << p
				}
			}
			hist[lbpTable[code]]++
		}
	}
	return hist
}

// bilinear samples the grid at a fractional position.
func bilinear(g grid.Grid, x, y float64) float64 {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	x1, y1 := x0+1, y0+1
	if x1 >= g.Width {
		x1 = x0
	}
	if y1 >= g.Height {
		y1 = y0
	}

	top := float64(g.At(x0, y0))*(1-fx) + float64(g.At(x1, y0))*fx
	bottom := float64(g.At(x0, y1))*(1-fx) + float64(g.At(x1, y1))*fx
	return top*(1-fy) + bottom*fy
}
