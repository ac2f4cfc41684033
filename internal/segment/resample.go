package segment

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"cxr-features/pkg/grid"
)

// Resample scales a frame to the given dimensions with bilinear
// interpolation. Models are free to predict at their own native
// resolution; the generator brings the result back to the pipeline's
// target size before writing. Frames already at size pass through
// untouched.
func Resample(f Frame, width, height int) Frame {
	if f.Width == width && f.Height == height {
		return f
	}

	g := Denormalize(f)
	src := &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := grid.Grid{Width: width, Height: height, Pix: dst.Pix}
	return Normalize(out)
}
