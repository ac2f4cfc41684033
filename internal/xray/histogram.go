package xray

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// histBins matches grid.Histogram: 255 bins covering intensities [1, 256).
const histBins = 255

// HistogramMean computes the per-bin mean histogram across every image in
// a directory.
func HistogramMean(dir string, width, height int) ([]float64, error) {
	histograms, err := collectHistograms(dir, width, height)
	if err != nil {
		return nil, err
	}
	return meanOfHistograms(histograms), nil
}

// HistogramMedian computes the per-bin median histogram across every
// image in a directory.
func HistogramMedian(dir string, width, height int) ([]float64, error) {
	histograms, err := collectHistograms(dir, width, height)
	if err != nil {
		return nil, err
	}
	return medianOfHistograms(histograms), nil
}

func meanOfHistograms(histograms [][]int) []float64 {
	mean := make([]float64, histBins)
	column := make([]float64, len(histograms))
	for bin := 0; bin < histBins; bin++ {
		for i, h := range histograms {
			column[i] = float64(h[bin])
		}
		mean[bin] = stat.Mean(column, nil)
	}
	return mean
}

func medianOfHistograms(histograms [][]int) []float64 {
	median := make([]float64, histBins)
	column := make([]float64, len(histograms))
	for bin := 0; bin < histBins; bin++ {
		for i, h := range histograms {
			column[i] = float64(h[bin])
		}
		sort.Float64s(column)
		median[bin] = stat.Quantile(0.5, stat.Empirical, column, nil)
	}
	return median
}

func collectHistograms(dir string, width, height int) ([][]int, error) {
	listing, err := List(dir)
	if err != nil {
		return nil, err
	}

	records, err := listing.LoadAll(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to load images for histogram: %w", err)
	}

	histograms := make([][]int, 0, len(records))
	for _, rec := range records {
		histograms = append(histograms, rec.Grid.Histogram())
	}
	return histograms, nil
}
