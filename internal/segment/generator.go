package segment

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"cxr-features/internal/xray"
)

// Generator streams an image directory through a segmentation Model and
// writes one mask file per input. Masks are named {stem}_mask{ext} using
// the original filename stem; pair validation downstream depends on that
// convention.
type Generator struct {
	Model     Model
	FolderIn  string
	FolderOut string
	Width     int
	Height    int

	// LoadImage and SaveMask default to the image-codec-backed paths.
	// Tests inject pure implementations.
	LoadImage func(path string, width, height int) (*xray.Record, error)
	SaveMask  func(rec *xray.Record, path string) error
}

// Generate predicts and saves a mask for every image in FolderIn. The
// image count is known from the directory listing before any prediction
// starts and drives progress reporting. With a deterministic Model,
// re-running over the same inputs produces identical mask files.
func (g *Generator) Generate() error {
	load := g.LoadImage
	if load == nil {
		load = xray.Load
	}
	save := g.SaveMask
	if save == nil {
		save = func(rec *xray.Record, path string) error { return rec.Save(path) }
	}

	listing, err := xray.List(g.FolderIn)
	if err != nil {
		return fmt.Errorf("failed to list input images: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"dir":   g.FolderIn,
		"count": listing.Count(),
	}).Info("generating lung masks")

	bar := progressbar.Default(int64(listing.Count()), "Generating masks")
	defer bar.Close()

	for _, path := range listing.Paths {
		rec, err := load(path, g.Width, g.Height)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		predicted, err := g.Model.Predict(Normalize(rec.Grid))
		if err != nil {
			return fmt.Errorf("segmentation failed for %s: %w", rec.Identity, err)
		}
		predicted = Resample(predicted, g.Width, g.Height)

		maskRec := &xray.Record{
			Identity: rec.MaskIdentity(),
			Ext:      rec.Ext,
			Grid:     Denormalize(predicted),
			IsMask:   true,
		}
		out := filepath.Join(g.FolderOut, maskRec.Filename())
		if err := save(maskRec, out); err != nil {
			return fmt.Errorf("failed to save mask for %s: %w", rec.Identity, err)
		}

		_ = bar.Add(1)
	}

	return nil
}
