package pair

import (
	"errors"
	"testing"

	"cxr-features/internal/xray"
	"cxr-features/pkg/grid"
)

func record(identity, ext string, isMask bool) *xray.Record {
	return &xray.Record{
		Identity: identity,
		Ext:      ext,
		Grid:     grid.New(8, 8),
		IsMask:   isMask,
	}
}

func TestNewAcceptsMatchingPair(t *testing.T) {
	p, err := New(record("scanA", ".png", false), record("scanA_mask", ".png", true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Image.Identity != "scanA" || p.Mask.Identity != "scanA_mask" {
		t.Errorf("pair holds wrong records: %s / %s", p.Image.Identity, p.Mask.Identity)
	}
}

func TestNewAcceptsProcessedImage(t *testing.T) {
	if _, err := New(record("scanA_processed", ".png", false), record("scanA_mask", ".png", true)); err != nil {
		t.Fatalf("processed image should resolve to its original mask: %v", err)
	}
}

func TestNewRejectsWrongMask(t *testing.T) {
	_, err := New(record("scanA", ".png", false), record("scanB_mask", ".png", true))
	if err == nil {
		t.Fatal("expected invalid mask error")
	}
	var im *InvalidMaskError
	if !errors.As(err, &im) {
		t.Fatalf("error type = %T, want *InvalidMaskError", err)
	}
	if im.ImageFile != "scanA.png" || im.MaskFile != "scanB_mask.png" {
		t.Errorf("error names wrong files: %+v", im)
	}
}

func TestNewRejectsExtensionMismatch(t *testing.T) {
	_, err := New(record("scanA", ".jpg", false), record("scanA_mask", ".png", true))
	if err == nil {
		t.Fatal("expected inconsistent pair error")
	}
	var ip *InconsistentPairError
	if !errors.As(err, &ip) {
		t.Fatalf("error type = %T, want *InconsistentPairError", err)
	}
	if ip.ImageFile != "scanA.jpg" || ip.MaskFile != "scanA_mask.png" {
		t.Errorf("error names wrong files: %+v", ip)
	}
}
