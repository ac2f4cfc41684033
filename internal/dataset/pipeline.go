// Package dataset assembles labeled feature rows from two class-specific
// image sources into one streamed CSV file.
package dataset

import (
	"fmt"

	"cxr-features/internal/equalize"
	"cxr-features/internal/features"
	"cxr-features/internal/mask"
	"cxr-features/internal/pair"
	"cxr-features/internal/xray"
)

// RowFunc computes one unlabeled feature row for the image at path,
// resolving its mask inside maskDir. Implementations must be safe for
// concurrent use; the assembler calls them from its worker pool.
type RowFunc func(path, maskDir string) ([]float64, error)

// NewRowFunc builds the production per-image pipeline: load, validate
// the mask pairing, equalize, apply the mask, extract features.
// Equalization runs on the unmasked image so background exclusion never
// skews its local contrast statistics.
func NewRowFunc(width, height int, eq equalize.Equalizer, ex *features.Extractor) RowFunc {
	return func(path, maskDir string) ([]float64, error) {
		rec, err := xray.Load(path, width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		p, err := pair.FromImage(rec, maskDir)
		if err != nil {
			return nil, err
		}

		equalized, err := eq.Equalize(p.Image.Grid)
		if err != nil {
			return nil, fmt.Errorf("equalization failed for %s: %w", rec.Identity, err)
		}

		masked, err := mask.Apply(equalized, p.Mask.Grid)
		if err != nil {
			return nil, err
		}

		maskedRec := &xray.Record{
			Identity: p.Image.Identity,
			Ext:      p.Image.Ext,
			Grid:     masked,
		}
		return ex.Extract(maskedRec, p.Mask)
	}
}
