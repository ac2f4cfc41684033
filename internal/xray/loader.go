package xray

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Listing is a directory scan whose image count is known before any
// pixels are loaded. Consumers get the total and the lazily-loaded
// records together instead of a count smuggled through a stream.
type Listing struct {
	Dir   string
	Paths []string
}

// List scans dir for image files. The pattern matches the dataset's file
// layout contract: every supported extension ends in "g" (png, jpg,
// jpeg). Paths are sorted so listing order is stable across runs.
func List(dir string) (*Listing, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*g"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(paths)
	return &Listing{Dir: dir, Paths: paths}, nil
}

// Count returns the number of images in the listing.
func (l *Listing) Count() int {
	return len(l.Paths)
}

// Load reads the i-th image of the listing at the given target size.
func (l *Listing) Load(i, width, height int) (*Record, error) {
	if i < 0 || i >= len(l.Paths) {
		return nil, fmt.Errorf("listing index %d out of range [0,%d)", i, len(l.Paths))
	}
	return Load(l.Paths[i], width, height)
}

// LoadAll eagerly reads every image in the listing. Intended for small
// directories; the dataset assembler loads lazily per worker task.
func (l *Listing) LoadAll(width, height int) ([]*Record, error) {
	records := make([]*Record, 0, len(l.Paths))
	for _, p := range l.Paths {
		rec, err := Load(p, width, height)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
