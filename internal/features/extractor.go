package features

import (
	"fmt"

	"cxr-features/internal/xray"
)

// Stage names reported by ExtractionError.
const (
	StageLBP      = "lbp"
	StageHaralick = "haralick"
	StageMoments  = "moments"
	StageTAS      = "tas"
	StageRegion   = "region"
)

// ExtractionError reports which image and which sub-extractor failed.
// A failed stage fails the whole vector; partial vectors are never
// emitted.
type ExtractionError struct {
	Identity string
	Stage    string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("feature extraction failed for %s at stage %s: %v", e.Identity, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor concatenates the sub-extractor outputs into one fixed-order
// vector. Order is a contract: downstream consumers key columns by
// position.
type Extractor struct {
	// RegionDropLeading drops this many leading values from the region
	// descriptor block. The reference feature set carried a diagnostic
	// preamble there that was sliced off; our region block has none, so
	// the default is 0. Kept configurable pending domain review.
	RegionDropLeading int
}

// NewExtractor returns an Extractor with default settings.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// VectorLen returns the length of every vector Extract produces.
func (e *Extractor) VectorLen() int {
	return LBPBins + HaralickBins + MomentBins + TASBins + RegionBins - e.RegionDropLeading
}

// Extract computes the full feature vector for a masked image and its
// originating mask. The label is not appended here; the dataset
// assembler owns labeling.
func (e *Extractor) Extract(img, msk *xray.Record) ([]float64, error) {
	g := img.Grid
	out := make([]float64, 0, e.VectorLen())

	out = append(out, LBP(g)...)
	out = append(out, HaralickMean(g)...)

	hu, err := HuMoments(g)
	if err != nil {
		return nil, &ExtractionError{Identity: img.Identity, Stage: StageMoments, Err: err}
	}
	out = append(out, hu...)

	out = append(out, TAS(g)...)

	region, err := Region(g, msk.Grid)
	if err != nil {
		return nil, &ExtractionError{Identity: img.Identity, Stage: StageRegion, Err: err}
	}
	if e.RegionDropLeading < 0 || e.RegionDropLeading > len(region) {
		return nil, &ExtractionError{
			Identity: img.Identity,
			Stage:    StageRegion,
			Err:      fmt.Errorf("drop offset %d out of range [0,%d]", e.RegionDropLeading, len(region)),
		}
	}
	out = append(out, region[e.RegionDropLeading:]...)

	return out, nil
}
