package segment

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"cxr-features/internal/xray"
)

// OtsuModel is a deterministic threshold-based segmenter used when no
// trained model is available. It blurs, binarizes with Otsu's method,
// and cleans the result with morphological open/close. Lung fields in a
// chest radiograph are darker than the surrounding tissue, so the
// binarization is inverted.
type OtsuModel struct {
	BlurKernel   int // Gaussian blur kernel size, odd
	CleanupIters int // morphological cleanup strength
}

// NewOtsuModel returns an OtsuModel with defaults tuned for 256x256
// radiographs.
func NewOtsuModel() *OtsuModel {
	return &OtsuModel{BlurKernel: 5, CleanupIters: 2}
}

// Predict binarizes the frame into a lung mask.
func (m *OtsuModel) Predict(frame Frame) (Frame, error) {
	src, err := xray.GridToMat(Denormalize(frame))
	if err != nil {
		return Frame{}, fmt.Errorf("failed to prepare frame: %w", err)
	}
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Point{X: m.BlurKernel, Y: m.BlurKernel}, 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blurred, &binary, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	cleaned := binary.Clone()
	defer cleaned.Close()
	for i := 0; i < m.CleanupIters; i++ {
		gocv.MorphologyEx(cleaned, &cleaned, gocv.MorphOpen, kernel)
	}
	for i := 0; i < m.CleanupIters; i++ {
		gocv.MorphologyEx(cleaned, &cleaned, gocv.MorphClose, kernel)
	}

	g, err := xray.MatToGrid(cleaned)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to read mask: %w", err)
	}
	return Normalize(g), nil
}
