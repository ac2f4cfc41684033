package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"cxr-features/internal/xray"
)

// Source is one class-specific image directory with its mask directory
// and the label its rows carry.
type Source struct {
	Dir     string
	MaskDir string
	Label   int
}

// task is one planned unit of work: a single image at a fixed output
// position.
type task struct {
	index   int
	path    string
	maskDir string
	label   int
}

// result carries a computed row (or its failure) back to the writer.
type result struct {
	index    int
	identity string
	label    int
	row      []float64
	err      error
}

// Assembler streams labeled feature rows into a CSV file. Feature
// computation is dispatched to a bounded worker pool and may complete
// out of order; rows are written strictly in plan order, grouped by
// class then by directory-listing order. Per-image failures are skipped
// and logged; write failures abort the run.
type Assembler struct {
	Workers int
	Row     RowFunc
}

// NewAssembler returns an Assembler with the given per-image pipeline
// and a pool sized to the available CPUs.
func NewAssembler(row RowFunc) *Assembler {
	return &Assembler{Workers: runtime.NumCPU(), Row: row}
}

// Save extracts features from both sources and writes one labeled row
// per successfully processed image to outPath. The first source is
// processed before the second; within a source, output rows follow
// listing order. Counts are taken from the directory listings before any
// streaming starts.
func (a *Assembler) Save(outPath string, first, second Source) error {
	plan, counts, err := buildPlan(first, second)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"first":  counts[0],
		"second": counts[1],
		"output": outPath,
	}).Info("assembling dataset")

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	writer := csv.NewWriter(f)

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}

	tasks := make(chan task)
	results := make(chan result, workers)
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() { stopOnce.Do(func() { close(stop) }) }

	// Worker pool. Workers only compute; the assembler goroutine owns
	// all writes. The pool is always joined before Save returns, even
	// when writing fails partway through.
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				select {
				case <-stop:
					return
				default:
				}
				row, err := a.Row(t.path, t.maskDir)
				results <- result{
					index:    t.index,
					identity: identityOf(t.path),
					label:    t.label,
					row:      row,
					err:      err,
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, t := range plan {
			select {
			case <-stop:
				return
			case tasks <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()
	defer func() {
		// Drain so no worker blocks on a full results channel.
		halt()
		for range results {
		}
	}()

	bar := progressbar.Default(int64(len(plan)), "Extracting features")
	defer bar.Close()

	// Rows must land in plan order even though workers finish out of
	// order: hold early arrivals until their turn.
	pending := make(map[int]result, workers)
	next := 0
	completed := 0

	for r := range results {
		pending[r.index] = r
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			completed++
			_ = bar.Add(1)

			if cur.err != nil {
				logrus.WithFields(logrus.Fields{
					"image": cur.identity,
					"error": cur.err.Error(),
				}).Warn("skipping image")
				continue
			}

			if err := writeRow(writer, cur.row, cur.label); err != nil {
				halt()
				return fmt.Errorf("failed to write row for %s: %w", cur.identity, err)
			}
		}
		if completed == len(plan) {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// buildPlan lists both sources up front and lays every image out at a
// fixed output position, so ordering never depends on loop timing.
func buildPlan(first, second Source) ([]task, [2]int, error) {
	var plan []task
	var counts [2]int

	for si, src := range [2]Source{first, second} {
		listing, err := xray.List(src.Dir)
		if err != nil {
			return nil, counts, fmt.Errorf("failed to list class %d images: %w", src.Label, err)
		}
		counts[si] = listing.Count()
		for _, p := range listing.Paths {
			plan = append(plan, task{
				index:   len(plan),
				path:    p,
				maskDir: src.MaskDir,
				label:   src.Label,
			})
		}
	}
	return plan, counts, nil
}

// writeRow appends the label and writes one full CSV record. Records are
// flushed individually so a crash never leaves a partial row behind.
func writeRow(w *csv.Writer, row []float64, label int) error {
	fields := make([]string, 0, len(row)+1)
	for _, v := range row {
		fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
	}
	fields = append(fields, strconv.Itoa(label))

	if err := w.Write(fields); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func identityOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
