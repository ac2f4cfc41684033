package features

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"cxr-features/internal/mask"
	"cxr-features/pkg/grid"
)

// RegionBins is the size of the region descriptor block: 18 first-order
// intensity statistics followed by 8 shape statistics, all computed over
// the mask foreground only.
const RegionBins = 26

// Region computes intensity and shape descriptors over the pixels the
// mask marks as lung. The same background cutoff as the mask applier
// decides foreground membership. Fails when the mask selects no pixels.
func Region(img, msk grid.Grid) ([]float64, error) {
	if !img.SameSize(msk) {
		return nil, &mask.DimensionMismatchError{
			ImageWidth: img.Width, ImageHeight: img.Height,
			MaskWidth: msk.Width, MaskHeight: msk.Height,
		}
	}

	values := make([]float64, 0, len(img.Pix)/4)
	foreground := make([]bool, len(img.Pix))
	for i, m := range msk.Pix {
		if m > mask.Threshold {
			foreground[i] = true
			values = append(values, float64(img.Pix[i]))
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("mask selects no foreground pixels")
	}

	out := make([]float64, 0, RegionBins)
	out = append(out, firstOrder(values)...)
	out = append(out, shape(msk, foreground)...)
	return out, nil
}

// firstOrder computes 18 intensity statistics over the foreground values.
func firstOrder(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q := func(p float64) float64 {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	mean := stat.Mean(values, nil)
	variance := stat.Variance(values, nil)
	std := math.Sqrt(variance)

	var energy, sumSq, madSum float64
	for _, v := range values {
		energy += v * v
		sumSq += v * v
		madSum += math.Abs(v - mean)
	}
	n := float64(len(values))
	rms := math.Sqrt(sumSq / n)
	mad := madSum / n

	// Robust MAD: mean absolute deviation over the 10th-90th percentile
	// subset.
	p10, p90 := q(0.10), q(0.90)
	var robust []float64
	for _, v := range values {
		if v >= p10 && v <= p90 {
			robust = append(robust, v)
		}
	}
	rmad := 0.0
	if len(robust) > 0 {
		rm := stat.Mean(robust, nil)
		var s float64
		for _, v := range robust {
			s += math.Abs(v - rm)
		}
		rmad = s / float64(len(robust))
	}

	// Intensity histogram over the full 8-bit range for entropy and
	// uniformity.
	hist := make([]float64, 256)
	for _, v := range values {
		hist[int(v)]++
	}
	var entropy, uniformity float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := c / n
		entropy -= p * math.Log2(p)
		uniformity += p * p
	}

	skew := 0.0
	kurt := 0.0
	if std > 0 {
		skew = stat.Skew(values, nil)
		kurt = stat.ExKurtosis(values, nil)
	}

	return []float64{
		energy,
		entropy,
		sorted[0],
		p10,
		p90,
		sorted[len(sorted)-1],
		mean,
		q(0.5),
		q(0.75) - q(0.25),
		sorted[len(sorted)-1] - sorted[0],
		mad,
		rmad,
		rms,
		std,
		skew,
		kurt,
		variance,
		uniformity,
	}
}

// shape computes 8 geometry statistics of the foreground region.
func shape(g grid.Grid, foreground []bool) []float64 {
	in := func(x, y int) bool {
		return x >= 0 && x < g.Width && y >= 0 && y < g.Height && foreground[y*g.Width+x]
	}

	var area, perimeter float64
	var boundary [][2]int
	var xs, ys []float64

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !foreground[y*g.Width+x] {
				continue
			}
			area++
			xs = append(xs, float64(x))
			ys = append(ys, float64(y))

			exposed := 0
			if !in(x+1, y) {
				exposed++
			}
			if !in(x-1, y) {
				exposed++
			}
			if !in(x, y+1) {
				exposed++
			}
			if !in(x, y-1) {
				exposed++
			}
			perimeter += float64(exposed)
			if exposed > 0 {
				boundary = append(boundary, [2]int{x, y})
			}
		}
	}

	circularity := 0.0
	perimToArea := 0.0
	if perimeter > 0 {
		circularity = 4 * math.Pi * area / (perimeter * perimeter)
		perimToArea = perimeter / area
	}

	maxDiameter := maxPairwiseDistance(boundary)

	major, minor := principalAxes(xs, ys)
	elongation := 0.0
	if major > 0 {
		elongation = math.Sqrt(minor / major)
	}

	return []float64{
		area,
		perimeter,
		perimToArea,
		circularity,
		maxDiameter,
		major,
		minor,
		elongation,
	}
}

// maxPairwiseDistance finds the maximum distance between boundary pixels.
// Large boundaries are subsampled to keep the quadratic scan bounded.
func maxPairwiseDistance(boundary [][2]int) float64 {
	const maxPoints = 2048
	step := 1
	if len(boundary) > maxPoints {
		step = len(boundary)/maxPoints + 1
	}

	best := 0.0
	for i := 0; i < len(boundary); i += step {
		for j := i + step; j < len(boundary); j += step {
			dx := float64(boundary[i][0] - boundary[j][0])
			dy := float64(boundary[i][1] - boundary[j][1])
			if d := dx*dx + dy*dy; d > best {
				best = d
			}
		}
	}
	return math.Sqrt(best)
}

// principalAxes returns the major and minor axis lengths of the region,
// four standard deviations along the covariance eigenvectors, matching
// the regionprops convention.
func principalAxes(xs, ys []float64) (major, minor float64) {
	if len(xs) < 3 {
		return 0, 0
	}

	coords := mat.NewDense(len(xs), 2, nil)
	for i := range xs {
		coords.Set(i, 0, xs[i])
		coords.Set(i, 1, ys[i])
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, coords, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, false); !ok {
		return 0, 0
	}
	vals := eig.Values(nil)
	// EigenSym returns ascending order.
	lo, hi := vals[0], vals[1]
	if lo < 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	return 4 * math.Sqrt(hi), 4 * math.Sqrt(lo)
}
