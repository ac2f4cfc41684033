// Package grid provides the flat 2D pixel grid type shared by all
// pipeline stages.
package grid

import "fmt"

// Grid is a single-channel image stored row-major as one byte per pixel.
// Intensity values span 0-255; normalized float representations exist
// only at the segmentation-model boundary and never inside a Grid.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed grid of the given dimensions.
func New(width, height int) Grid {
	return Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// FromPix wraps an existing pixel slice. The slice length must equal
// width*height.
func FromPix(width, height int, pix []uint8) (Grid, error) {
	if len(pix) != width*height {
		return Grid{}, fmt.Errorf("pixel slice length %d does not match %dx%d", len(pix), width, height)
	}
	return Grid{Width: width, Height: height, Pix: pix}, nil
}

// At returns the intensity at (x, y). Callers are expected to stay in
// bounds; the pipeline resizes every image to one fixed target size.
func (g Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set writes the intensity at (x, y).
func (g *Grid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// SameSize reports whether two grids share identical dimensions.
func (g Grid) SameSize(other Grid) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// Empty reports whether the grid holds no pixels.
func (g Grid) Empty() bool {
	return g.Width == 0 || g.Height == 0 || len(g.Pix) == 0
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := Grid{Width: g.Width, Height: g.Height, Pix: make([]uint8, len(g.Pix))}
	copy(out.Pix, g.Pix)
	return out
}

// Row returns the pixel slice for row y, aliasing the grid's storage.
func (g Grid) Row(y int) []uint8 {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Histogram counts intensities into 255 bins covering [1, 256), so bin 0
// holds the count of value 1. Pure black (0) is excluded: after masking it
// represents background, not tissue.
func (g Grid) Histogram() []int {
	bins := make([]int, 255)
	for _, v := range g.Pix {
		if v >= 1 {
			bins[v-1]++
		}
	}
	return bins
}
