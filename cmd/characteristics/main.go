// Command characteristics extracts the labeled feature dataset from
// processed covid and normal radiograph directories. It can also report
// directory-level intensity histogram statistics.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"cxr-features/internal/config"
	"cxr-features/internal/dataset"
	"cxr-features/internal/equalize"
	"cxr-features/internal/features"
	"cxr-features/internal/version"
	"cxr-features/internal/xray"
)

func main() {
	covid := flag.String("covid", "", "Directory of covid radiographs")
	covidMasks := flag.String("covid-masks", "", "Directory of covid lung masks")
	normal := flag.String("normal", "", "Directory of normal radiographs")
	normalMasks := flag.String("normal-masks", "", "Directory of normal lung masks")
	out := flag.String("out", "characteristics.csv", "Output CSV path")
	histDir := flag.String("hist-dir", "", "Compute mean/median intensity histograms for a directory and exit")
	histOut := flag.String("hist-out", "histograms.csv", "Output CSV path for -hist-dir")
	width := flag.Int("width", 0, "Target image width (default from config)")
	height := flag.Int("height", 0, "Target image height (default from config)")
	flag.Parse()

	logrus.WithField("version", version.Version).Info("characteristics stage starting")

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if *width == 0 {
		*width = cfg.ImageWidth
	}
	if *height == 0 {
		*height = cfg.ImageHeight
	}

	if *histDir != "" {
		if err := runHistograms(*histDir, *histOut, *width, *height); err != nil {
			logrus.WithError(err).Fatal("histogram statistics failed")
		}
		logrus.WithField("output", *histOut).Info("histogram statistics written")
		return
	}

	if *covid == "" || *covidMasks == "" || *normal == "" || *normalMasks == "" {
		fmt.Println("Usage: characteristics -covid <dir> -covid-masks <dir> -normal <dir> -normal-masks <dir> [-out characteristics.csv]")
		fmt.Println("       characteristics -hist-dir <dir> [-hist-out histograms.csv]")
		os.Exit(1)
	}

	extractor := features.NewExtractor()
	extractor.RegionDropLeading = cfg.RegionDropLeading

	row := dataset.NewRowFunc(*width, *height,
		equalize.NewWithParams(cfg.ClaheClipLimit, cfg.ClaheTileSize), extractor)

	assembler := dataset.NewAssembler(row)
	assembler.Workers = cfg.Workers

	// Normal rows (label 0) are written before covid rows (label 1).
	err = assembler.Save(*out,
		dataset.Source{Dir: *normal, MaskDir: *normalMasks, Label: 0},
		dataset.Source{Dir: *covid, MaskDir: *covidMasks, Label: 1},
	)
	if err != nil {
		logrus.WithError(err).Fatal("dataset assembly failed")
	}
	logrus.WithField("output", *out).Info("dataset written")
}

// runHistograms writes the directory's mean and median histograms as two
// labeled CSV rows.
func runHistograms(dir, outPath string, width, height int) error {
	mean, err := xray.HistogramMean(dir, width, height)
	if err != nil {
		return err
	}
	median, err := xray.HistogramMedian(dir, width, height)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range []struct {
		name   string
		values []float64
	}{
		{"mean", mean},
		{"median", median},
	} {
		fields := make([]string, 0, len(row.values)+1)
		fields = append(fields, row.name)
		for _, v := range row.values {
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("failed to write %s histogram: %w", row.name, err)
		}
	}
	w.Flush()
	return w.Error()
}
