package xray

import (
	"fmt"

	"gocv.io/x/gocv"

	"cxr-features/pkg/grid"
)

// MatToGrid copies a single-channel 8-bit Mat into a Grid.
func MatToGrid(mat gocv.Mat) (grid.Grid, error) {
	if mat.Empty() {
		return grid.Grid{}, fmt.Errorf("mat is empty")
	}
	if mat.Channels() != 1 || mat.Type() != gocv.MatTypeCV8U {
		return grid.Grid{}, fmt.Errorf("expected single-channel 8-bit mat, got type %d with %d channels", mat.Type(), mat.Channels())
	}

	rows, cols := mat.Rows(), mat.Cols()
	g := grid.New(cols, rows)
	for y := 0; y < rows; y++ {
		row := g.Row(y)
		for x := 0; x < cols; x++ {
			row[x] = mat.GetUCharAt(y, x)
		}
	}
	return g, nil
}

// GridToMat copies a Grid into a new single-channel 8-bit Mat. The caller
// owns the returned Mat and must Close it.
func GridToMat(g grid.Grid) (gocv.Mat, error) {
	if g.Empty() {
		return gocv.Mat{}, fmt.Errorf("grid is empty")
	}
	return gocv.NewMatFromBytes(g.Height, g.Width, gocv.MatTypeCV8U, g.Pix)
}
