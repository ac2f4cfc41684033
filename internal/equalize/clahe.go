// Package equalize provides the adaptive contrast enhancement applied to
// a radiograph before masking. Equalization must see the full unmasked
// image so background zeros never skew its local statistics.
package equalize

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"cxr-features/internal/xray"
	"cxr-features/pkg/grid"
)

// Equalizer is an opaque image-to-image contrast transform.
type Equalizer interface {
	Equalize(g grid.Grid) (grid.Grid, error)
}

// CLAHE equalizes with OpenCV's contrast-limited adaptive histogram
// equalization. The zero value is not usable; construct with New or
// NewWithParams.
type CLAHE struct {
	clipLimit float64
	tileSize  int
}

// OpenCV's createCLAHE defaults.
const (
	defaultClipLimit = 40.0
	defaultTileSize  = 8
)

// New returns a CLAHE equalizer with OpenCV default parameters.
func New() *CLAHE {
	return NewWithParams(defaultClipLimit, defaultTileSize)
}

// NewWithParams returns a CLAHE equalizer with an explicit clip limit and
// square tile grid size.
func NewWithParams(clipLimit float64, tileSize int) *CLAHE {
	return &CLAHE{clipLimit: clipLimit, tileSize: tileSize}
}

// Equalize applies CLAHE and returns a new grid. The underlying OpenCV
// handle is created per call so concurrent workers never share one.
func (c *CLAHE) Equalize(g grid.Grid) (grid.Grid, error) {
	src, err := xray.GridToMat(g)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("failed to prepare image for equalization: %w", err)
	}
	defer src.Close()

	clahe := gocv.NewCLAHEWithParams(c.clipLimit, image.Point{X: c.tileSize, Y: c.tileSize})
	defer clahe.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	clahe.Apply(src, &dst)

	out, err := xray.MatToGrid(dst)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("failed to read equalized image: %w", err)
	}
	return out, nil
}
