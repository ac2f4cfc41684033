package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"
)

// writeFakeImages creates empty placeholder files the listing will pick
// up; the stub row functions never read pixel data.
func writeFakeImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte{0}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

// stubRow returns a one-cell row encoding the image's stem, with the
// given per-stem delays to force out-of-order completion.
func stubRow(values map[string]float64, delays map[string]time.Duration) RowFunc {
	return func(path, maskDir string) ([]float64, error) {
		stem := identityOf(path)
		if d, ok := delays[stem]; ok {
			time.Sleep(d)
		}
		v, ok := values[stem]
		if !ok {
			return nil, fmt.Errorf("unexpected image %s", stem)
		}
		return []float64{v}, nil
	}
}

func TestSaveWritesLabeledRowsInOrder(t *testing.T) {
	normalDir, covidDir := t.TempDir(), t.TempDir()
	writeFakeImages(t, normalDir, "n0.png", "n1.png", "n2.png")
	writeFakeImages(t, covidDir, "c0.png", "c1.png")

	values := map[string]float64{"n0": 10, "n1": 11, "n2": 12, "c0": 20, "c1": 21}
	// Early tasks finish last; output order must not care.
	delays := map[string]time.Duration{
		"n0": 60 * time.Millisecond,
		"n1": 40 * time.Millisecond,
		"c0": 20 * time.Millisecond,
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	a := NewAssembler(stubRow(values, delays))
	a.Workers = 4

	err := a.Save(out,
		Source{Dir: normalDir, MaskDir: "unused", Label: 0},
		Source{Dir: covidDir, MaskDir: "unused", Label: 1},
	)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rows := readRows(t, out)
	if len(rows) != 5 {
		t.Fatalf("row count = %d, want 5", len(rows))
	}

	wantValues := []string{"10", "11", "12", "20", "21"}
	wantLabels := []string{"0", "0", "0", "1", "1"}
	for i, row := range rows {
		if len(row) != 2 {
			t.Fatalf("row %d has %d columns, want 2", i, len(row))
		}
		if row[0] != wantValues[i] {
			t.Errorf("row %d value = %s, want %s", i, row[0], wantValues[i])
		}
		if row[1] != wantLabels[i] {
			t.Errorf("row %d label = %s, want %s", i, row[1], wantLabels[i])
		}
	}
}

func TestSaveSkipsFailedImages(t *testing.T) {
	normalDir, covidDir := t.TempDir(), t.TempDir()
	writeFakeImages(t, normalDir, "n0.png", "n1.png", "n2.png")
	writeFakeImages(t, covidDir, "c0.png")

	row := func(path, maskDir string) ([]float64, error) {
		if identityOf(path) == "n1" {
			return nil, fmt.Errorf("injected failure")
		}
		return []float64{1}, nil
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	a := NewAssembler(row)

	err := a.Save(out,
		Source{Dir: normalDir, MaskDir: "unused", Label: 0},
		Source{Dir: covidDir, MaskDir: "unused", Label: 1},
	)
	if err != nil {
		t.Fatalf("per-image failure must not abort the batch: %v", err)
	}

	rows := readRows(t, out)
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (one skipped)", len(rows))
	}
	// Previously written rows stay intact and parseable.
	for i, r := range rows {
		if _, err := strconv.ParseFloat(r[0], 64); err != nil {
			t.Errorf("row %d corrupt: %v", i, err)
		}
	}
	if rows[2][1] != "1" {
		t.Errorf("last row label = %s, want 1", rows[2][1])
	}
}

func TestSaveDispatchesConcurrently(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	writeFakeImages(t, dirA, "a0.png", "a1.png", "a2.png", "a3.png")
	writeFakeImages(t, dirB, "b0.png", "b1.png", "b2.png", "b3.png")

	var mu sync.Mutex
	active, maxActive := 0, 0
	row := func(path, maskDir string) ([]float64, error) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return []float64{1}, nil
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	a := NewAssembler(row)
	a.Workers = 4

	err := a.Save(out,
		Source{Dir: dirA, MaskDir: "unused", Label: 0},
		Source{Dir: dirB, MaskDir: "unused", Label: 1},
	)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if maxActive < 2 {
		t.Errorf("peak concurrent extractions = %d, want at least 2", maxActive)
	}
	if rows := readRows(t, out); len(rows) != 8 {
		t.Errorf("row count = %d, want 8", len(rows))
	}
}

func TestSaveFailsOnEmptySource(t *testing.T) {
	empty := t.TempDir()
	other := t.TempDir()
	writeFakeImages(t, other, "x.png")

	out := filepath.Join(t.TempDir(), "out.csv")
	a := NewAssembler(stubRow(nil, nil))

	err := a.Save(out,
		Source{Dir: empty, MaskDir: "unused", Label: 0},
		Source{Dir: other, MaskDir: "unused", Label: 1},
	)
	if err == nil {
		t.Fatal("expected error for empty source directory")
	}
}
