package grid

import "testing"

func TestAtSet(t *testing.T) {
	g := New(4, 3)
	g.Set(2, 1, 200)
	if got := g.At(2, 1); got != 200 {
		t.Errorf("At(2,1) = %d, want 200", got)
	}
	if got := g.At(1, 2); got != 0 {
		t.Errorf("At(1,2) = %d, want 0", got)
	}
}

func TestFromPixRejectsWrongLength(t *testing.T) {
	if _, err := FromPix(3, 3, make([]uint8, 8)); err == nil {
		t.Error("expected error for mismatched pixel slice length")
	}
	g, err := FromPix(2, 2, []uint8{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("FromPix: %v", err)
	}
	if g.At(1, 1) != 4 {
		t.Errorf("At(1,1) = %d, want 4", g.At(1, 1))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(2, 2)
	g.Set(0, 0, 10)
	c := g.Clone()
	c.Set(0, 0, 99)
	if g.At(0, 0) != 10 {
		t.Errorf("clone mutation leaked into original: got %d", g.At(0, 0))
	}
}

func TestHistogramExcludesZero(t *testing.T) {
	g := New(2, 2)
	g.Pix = []uint8{0, 1, 255, 255}
	h := g.Histogram()
	if len(h) != 255 {
		t.Fatalf("histogram length = %d, want 255", len(h))
	}
	if h[0] != 1 {
		t.Errorf("bin for intensity 1 = %d, want 1", h[0])
	}
	if h[254] != 2 {
		t.Errorf("bin for intensity 255 = %d, want 2", h[254])
	}
	total := 0
	for _, c := range h {
		total += c
	}
	if total != 3 {
		t.Errorf("histogram total = %d, want 3 (zero pixel excluded)", total)
	}
}

func TestSameSize(t *testing.T) {
	if !New(4, 3).SameSize(New(4, 3)) {
		t.Error("identical dimensions reported as different")
	}
	if New(4, 3).SameSize(New(3, 4)) {
		t.Error("transposed dimensions reported as same")
	}
}
