// Package preprocess runs the equalize-then-mask stage over an image
// directory and saves the processed copies.
package preprocess

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"cxr-features/internal/equalize"
	"cxr-features/internal/mask"
	"cxr-features/internal/pair"
	"cxr-features/internal/xray"
)

// Processor applies contrast equalization followed by lung masking to
// every image in a directory. Equalization always runs first, on the
// unmasked image.
type Processor struct {
	Width     int
	Height    int
	Equalizer equalize.Equalizer

	// LoadImage, ResolvePair and SaveImage default to the
	// image-codec-backed paths. Tests inject pure implementations.
	LoadImage   func(path string, width, height int) (*xray.Record, error)
	ResolvePair func(image *xray.Record, maskDir string) (*pair.Pair, error)
	SaveImage   func(rec *xray.Record, outDir string) error
}

// Run processes every image in imageDir against its mask in maskDir and
// writes {stem}_processed{ext} files into outDir. Images whose mask
// pairing or masking fails are skipped and logged; the batch continues.
func (p *Processor) Run(imageDir, maskDir, outDir string) error {
	listing, err := xray.List(imageDir)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"dir":   imageDir,
		"count": listing.Count(),
	}).Info("processing images")

	bar := progressbar.Default(int64(listing.Count()), "Processing images")
	defer bar.Close()

	load := p.LoadImage
	if load == nil {
		load = xray.Load
	}
	resolve := p.ResolvePair
	if resolve == nil {
		resolve = pair.FromImage
	}
	save := p.SaveImage
	if save == nil {
		save = func(rec *xray.Record, outDir string) error { return rec.SaveProcessed(outDir) }
	}

	for _, path := range listing.Paths {
		if err := p.processOne(load, resolve, save, path, maskDir, outDir); err != nil {
			logrus.WithFields(logrus.Fields{
				"image": path,
				"error": err.Error(),
			}).Warn("skipping image")
		}
		_ = bar.Add(1)
	}
	return nil
}

func (p *Processor) processOne(
	load func(string, int, int) (*xray.Record, error),
	resolve func(*xray.Record, string) (*pair.Pair, error),
	save func(*xray.Record, string) error,
	path, maskDir, outDir string,
) error {
	rec, err := load(path, p.Width, p.Height)
	if err != nil {
		return err
	}

	pr, err := resolve(rec, maskDir)
	if err != nil {
		return err
	}

	equalized, err := p.Equalizer.Equalize(pr.Image.Grid)
	if err != nil {
		return fmt.Errorf("equalization failed for %s: %w", rec.Identity, err)
	}

	masked, err := mask.Apply(equalized, pr.Mask.Grid)
	if err != nil {
		return err
	}

	processed := &xray.Record{
		Identity: pr.Image.Identity,
		Ext:      pr.Image.Ext,
		Grid:     masked,
	}
	return save(processed, outDir)
}
