package xray

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte{0}, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListMatchesImageExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.png")
	touch(t, dir, "a.jpg")
	touch(t, dir, "c.jpeg")
	touch(t, dir, "notes.txt")
	touch(t, dir, "data.csv")

	listing, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if listing.Count() != 3 {
		t.Fatalf("count = %d, want 3", listing.Count())
	}
	if !sort.StringsAreSorted(listing.Paths) {
		t.Error("listing paths are not sorted")
	}
	for _, p := range listing.Paths {
		base := filepath.Base(p)
		if base != "a.jpg" && base != "b.png" && base != "c.jpeg" {
			t.Errorf("unexpected file in listing: %s", base)
		}
	}
}

func TestListEmptyDirFails(t *testing.T) {
	if _, err := List(t.TempDir()); err == nil {
		t.Error("expected error for directory without images")
	}
}

func TestListCountKnownBeforeLoading(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "x.png")
	touch(t, dir, "y.png")

	listing, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// The count comes from the listing alone; no image bytes were valid
	// to decode, so loading them is a separate concern.
	if listing.Count() != 2 {
		t.Errorf("count = %d, want 2", listing.Count())
	}
}
