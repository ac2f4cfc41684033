// Package pair binds a radiograph to its lung mask and enforces the
// naming contract between the two files.
package pair

import (
	"fmt"
	"path/filepath"

	"cxr-features/internal/xray"
)

// InconsistentPairError reports an image and mask whose file extensions
// differ.
type InconsistentPairError struct {
	ImageFile string
	MaskFile  string
}

func (e *InconsistentPairError) Error() string {
	return fmt.Sprintf("%s and %s have different extensions", e.ImageFile, e.MaskFile)
}

// InvalidMaskError reports a mask whose identity does not match the image
// it was paired with.
type InvalidMaskError struct {
	ImageFile string
	MaskFile  string
}

func (e *InvalidMaskError) Error() string {
	return fmt.Sprintf("mask %s is not valid for %s", e.MaskFile, e.ImageFile)
}

// Pair is a validated image/mask couple. Construction is the only place
// consistency is checked; a Pair is immutable once built and downstream
// stages trust it.
type Pair struct {
	Image *xray.Record
	Mask  *xray.Record
}

// New validates and builds a Pair. The mask identity must equal the
// image identity (with any "_processed" marker stripped) plus "_mask",
// and both files must share the same extension.
func New(image, mask *xray.Record) (*Pair, error) {
	if image.Ext != mask.Ext {
		return nil, &InconsistentPairError{
			ImageFile: image.Filename(),
			MaskFile:  mask.Filename(),
		}
	}
	if image.MaskIdentity() != mask.Identity {
		return nil, &InvalidMaskError{
			ImageFile: image.Filename(),
			MaskFile:  mask.Filename(),
		}
	}
	return &Pair{Image: image, Mask: mask}, nil
}

// FromImage locates and loads the mask for image inside maskDir, resizing
// it to the image's own dimensions, then validates the couple.
func FromImage(image *xray.Record, maskDir string) (*Pair, error) {
	maskPath := filepath.Join(maskDir, image.MaskFilename())
	mask, err := xray.Load(maskPath, image.Grid.Width, image.Grid.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask for %s: %w", image.Identity, err)
	}
	return New(image, mask)
}
