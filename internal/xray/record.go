// Package xray provides loading, normalization, and saving of
// chest-radiograph images and their lung masks.
package xray

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"cxr-features/pkg/grid"
)

// processedTag marks images that already went through equalize+mask.
const processedTag = "_processed"

// maskTag marks segmentation mask files.
const maskTag = "_mask"

// Record is one loaded grayscale image, resized to the pipeline's fixed
// target dimensions. A Record moves through exactly one lifecycle:
// raw, then equalized, then masked. Stages never share a Record.
type Record struct {
	Identity string // filename stem, extension stripped
	Ext      string // extension including the leading dot
	Grid     grid.Grid
	IsMask   bool
}

// Load reads an image as grayscale, resizes it to target dimensions, and
// returns a Record keyed by the filename stem.
func Load(path string, width, height int) (*Record, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to read image %s", path)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)

	g, err := MatToGrid(resized)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	return &Record{
		Identity: stem,
		Ext:      ext,
		Grid:     g,
		IsMask:   strings.HasSuffix(stem, maskTag),
	}, nil
}

// StrippedIdentity returns the identity with any trailing "_processed"
// marker removed, so processed images still resolve to their original
// mask.
func (r *Record) StrippedIdentity() string {
	return strings.TrimSuffix(r.Identity, processedTag)
}

// MaskIdentity returns the identity the record's mask file must carry.
func (r *Record) MaskIdentity() string {
	return r.StrippedIdentity() + maskTag
}

// Filename returns the record's full filename.
func (r *Record) Filename() string {
	return r.Identity + r.Ext
}

// MaskFilename returns the filename of the record's mask under the
// naming contract used by the mask generator.
func (r *Record) MaskFilename() string {
	return r.MaskIdentity() + r.Ext
}

// ProcessedFilename returns the filename used when saving the record
// after equalization and masking.
func (r *Record) ProcessedFilename() string {
	return r.Identity + processedTag + r.Ext
}

// Save writes the record's pixels to path.
func (r *Record) Save(path string) error {
	mat, err := GridToMat(r.Grid)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", r.Identity, err)
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}

// SaveProcessed writes the record into dir under its processed filename.
func (r *Record) SaveProcessed(dir string) error {
	return r.Save(filepath.Join(dir, r.ProcessedFilename()))
}
