package features

import (
	"errors"
	"math"
	"testing"

	"cxr-features/internal/xray"
	"cxr-features/pkg/grid"
)

// gradientGrid produces a deterministic non-trivial test image.
func gradientGrid(w, h int) grid.Grid {
	g := grid.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, uint8((x*3+y*5)%256))
		}
	}
	return g
}

func fullMask(w, h int) grid.Grid {
	g := grid.New(w, h)
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

func record(id string, g grid.Grid) *xray.Record {
	return &xray.Record{Identity: id, Ext: ".png", Grid: g}
}

func TestVectorLengthConstant(t *testing.T) {
	ex := NewExtractor()
	msk := fullMask(64, 64)

	a, err := ex.Extract(record("a", gradientGrid(64, 64)), record("a_mask", msk))
	if err != nil {
		t.Fatalf("Extract a: %v", err)
	}

	b := grid.New(64, 64)
	for i := range b.Pix {
		b.Pix[i] = uint8((i*31 + 7) % 256)
	}
	vb, err := ex.Extract(record("b", b), record("b_mask", msk))
	if err != nil {
		t.Fatalf("Extract b: %v", err)
	}

	if len(a) != len(vb) {
		t.Errorf("vector lengths differ: %d vs %d", len(a), len(vb))
	}
	if len(a) != ex.VectorLen() {
		t.Errorf("vector length = %d, want %d", len(a), ex.VectorLen())
	}
}

func TestRegionDropLeadingShortensVector(t *testing.T) {
	ex := NewExtractor()
	ex.RegionDropLeading = 5

	v, err := ex.Extract(record("a", gradientGrid(64, 64)), record("a_mask", fullMask(64, 64)))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := LBPBins + HaralickBins + MomentBins + TASBins + RegionBins - 5
	if len(v) != want {
		t.Errorf("vector length = %d, want %d", len(v), want)
	}
}

func TestExtractFailsOnZeroMassImage(t *testing.T) {
	ex := NewExtractor()
	_, err := ex.Extract(record("blank", grid.New(32, 32)), record("blank_mask", fullMask(32, 32)))
	if err == nil {
		t.Fatal("expected extraction failure for zero-mass image")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error type = %T, want *ExtractionError", err)
	}
	if ee.Stage != StageMoments {
		t.Errorf("failing stage = %q, want %q", ee.Stage, StageMoments)
	}
	if ee.Identity != "blank" {
		t.Errorf("identity = %q, want blank", ee.Identity)
	}
}

func TestExtractFailsOnDegenerateMask(t *testing.T) {
	ex := NewExtractor()
	_, err := ex.Extract(record("img", gradientGrid(32, 32)), record("img_mask", grid.New(32, 32)))
	if err == nil {
		t.Fatal("expected extraction failure for all-background mask")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error type = %T, want *ExtractionError", err)
	}
	if ee.Stage != StageRegion {
		t.Errorf("failing stage = %q, want %q", ee.Stage, StageRegion)
	}
}

func TestLBPHistogram(t *testing.T) {
	g := gradientGrid(64, 64)
	h := LBP(g)
	if len(h) != LBPBins {
		t.Fatalf("histogram length = %d, want %d", len(h), LBPBins)
	}
	total := 0.0
	for _, v := range h {
		total += v
	}
	interior := float64((64 - 2*lbpRadius) * (64 - 2*lbpRadius))
	if total != interior {
		t.Errorf("histogram total = %v, want %v interior pixels", total, interior)
	}
}

func TestHaralickConstantImage(t *testing.T) {
	g := grid.New(32, 32)
	for i := range g.Pix {
		g.Pix[i] = 128
	}
	f := HaralickMean(g)
	if len(f) != HaralickBins {
		t.Fatalf("feature length = %d, want %d", len(f), HaralickBins)
	}
	// A constant image co-occurs with itself only: ASM 1, contrast and
	// entropy 0.
	if math.Abs(f[0]-1) > 1e-9 {
		t.Errorf("ASM = %v, want 1", f[0])
	}
	if math.Abs(f[1]) > 1e-9 {
		t.Errorf("contrast = %v, want 0", f[1])
	}
	if math.Abs(f[8]) > 1e-6 {
		t.Errorf("entropy = %v, want ~0", f[8])
	}
}

func TestHuMomentsTranslationInvariance(t *testing.T) {
	a := grid.New(64, 64)
	b := grid.New(64, 64)
	// Same square shape at two positions.
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			a.Set(5+x, 5+y, 200)
			b.Set(40+x, 30+y, 200)
		}
	}

	ha, err := HuMoments(a)
	if err != nil {
		t.Fatalf("HuMoments a: %v", err)
	}
	hb, err := HuMoments(b)
	if err != nil {
		t.Fatalf("HuMoments b: %v", err)
	}
	for i := range ha {
		if math.Abs(ha[i]-hb[i]) > 1e-9 {
			t.Errorf("moment %d differs under translation: %v vs %v", i, ha[i], hb[i])
		}
	}
}

func TestTASLength(t *testing.T) {
	h := TAS(gradientGrid(32, 32))
	if len(h) != TASBins {
		t.Fatalf("TAS length = %d, want %d", len(h), TASBins)
	}
	for i, v := range h {
		if v < 0 || v > 1 {
			t.Errorf("bin %d = %v, outside [0,1]", i, v)
		}
	}
}

func TestRegionShapeOfRectangle(t *testing.T) {
	img := gradientGrid(64, 64)
	msk := grid.New(64, 64)
	for y := 10; y < 30; y++ {
		for x := 10; x < 50; x++ {
			msk.Set(x, y, 255)
		}
	}

	v, err := Region(img, msk)
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if len(v) != RegionBins {
		t.Fatalf("region length = %d, want %d", len(v), RegionBins)
	}
	area := v[18]
	if area != 40*20 {
		t.Errorf("area = %v, want %v", area, 40*20)
	}
	maxDiameter := v[22]
	wantDiag := math.Hypot(39, 19)
	if math.Abs(maxDiameter-wantDiag) > 0.5 {
		t.Errorf("max diameter = %v, want ~%v", maxDiameter, wantDiag)
	}
}

func TestRegionDimensionMismatch(t *testing.T) {
	if _, err := Region(grid.New(8, 8), grid.New(9, 8)); err == nil {
		t.Error("expected error for mismatched grids")
	}
}
