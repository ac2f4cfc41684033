// Package segment defines the boundary to the lung-segmentation model
// and generates mask files for whole image directories.
package segment

import (
	"cxr-features/pkg/grid"
)

// Frame is a normalized single-channel image with values in [0, 1], the
// wire format of the segmentation model.
type Frame struct {
	Width  int
	Height int
	Data   []float32
}

// Model is a trained image-to-mask predictor, consumed as a black box.
// Implementations are stateless service objects constructed once per run
// and injected into the Generator; Predict must be deterministic for a
// given input so re-running mask generation reproduces identical files.
type Model interface {
	Predict(frame Frame) (Frame, error)
}

// Normalize converts a 0-255 grid into a [0,1] frame.
func Normalize(g grid.Grid) Frame {
	data := make([]float32, len(g.Pix))
	for i, v := range g.Pix {
		data[i] = float32(v) / 255
	}
	return Frame{Width: g.Width, Height: g.Height, Data: data}
}

// Denormalize converts a [0,1] frame back into a 0-255 grid. Values are
// scaled and truncated, matching how the reference model output was
// written to disk.
func Denormalize(f Frame) grid.Grid {
	g := grid.New(f.Width, f.Height)
	for i, v := range f.Data {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		g.Pix[i] = uint8(v * 255)
	}
	return g
}
