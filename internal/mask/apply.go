// Package mask applies a lung mask to a radiograph, zeroing everything
// the segmentation marked as background.
package mask

import (
	"fmt"
	"runtime"
	"sync"

	"cxr-features/pkg/grid"
)

// Threshold separates background mask pixels from lung-region pixels on
// the 0-255 scale. Mask intensities at or below it are background.
const Threshold = 20

// DimensionMismatchError reports an image and mask whose grids differ in
// size. The pipeline resizes both to one target size, so hitting this is
// a configuration bug, but it is surfaced per-image instead of crashing
// the batch.
type DimensionMismatchError struct {
	ImageWidth, ImageHeight int
	MaskWidth, MaskHeight   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("image %dx%d and mask %dx%d differ in size",
		e.ImageWidth, e.ImageHeight, e.MaskWidth, e.MaskHeight)
}

// Apply returns a copy of img with every pixel zeroed where the mask
// intensity is at or below Threshold. Inputs are never mutated; each
// output pixel depends only on the co-located input pixels, so the work
// is partitioned into horizontal stripes across the available CPUs.
func Apply(img, mask grid.Grid) (grid.Grid, error) {
	if !img.SameSize(mask) {
		return grid.Grid{}, &DimensionMismatchError{
			ImageWidth: img.Width, ImageHeight: img.Height,
			MaskWidth: mask.Width, MaskHeight: mask.Height,
		}
	}

	out := grid.New(img.Width, img.Height)

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (img.Height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > img.Height {
			endY = img.Height
		}
		if startY >= img.Height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				src := img.Row(y)
				msk := mask.Row(y)
				dst := out.Row(y)
				for x := range src {
					if msk[x] > Threshold {
						dst[x] = src[x]
					}
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return out, nil
}
