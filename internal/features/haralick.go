package features

import (
	"math"

	"cxr-features/pkg/grid"
)

// HaralickBins is the number of co-occurrence texture statistics.
const HaralickBins = 13

// glcmLevels keeps the full 8-bit dynamic range.
const glcmLevels = 256

// Standard adjacency directions: east, north-east, north, north-west.
var glcmDirections = [4][2]int{{1, 0}, {1, -1}, {0, -1}, {-1, -1}}

// HaralickMean computes the 13 Haralick statistics on a symmetric
// gray-level co-occurrence matrix for each of the four adjacency
// directions and averages them, yielding an orientation-invariant
// texture summary.
func HaralickMean(g grid.Grid) []float64 {
	mean := make([]float64, HaralickBins)
	for _, dir := range glcmDirections {
		glcm := coOccurrence(g, dir[0], dir[1])
		for i, v := range haralickFeatures(glcm) {
			mean[i] += v / float64(len(glcmDirections))
		}
	}
	return mean
}

// coOccurrence builds a normalized symmetric co-occurrence matrix for
// one pixel offset.
func coOccurrence(g grid.Grid, dx, dy int) []float64 {
	glcm := make([]float64, glcmLevels*glcmLevels)
	total := 0.0

	for y := 0; y < g.Height; y++ {
		ny := y + dy
		if ny < 0 || ny >= g.Height {
			continue
		}
		for x := 0; x < g.Width; x++ {
			nx := x + dx
			if nx < 0 || nx >= g.Width {
				continue
			}
			a, b := int(g.At(x, y)), int(g.At(nx, ny))
			glcm[a*glcmLevels+b]++
			glcm[b*glcmLevels+a]++
			total += 2
		}
	}

	if total > 0 {
		for i := range glcm {
			glcm[i] /= total
		}
	}
	return glcm
}

// haralickFeatures computes the classic 13 statistics from a normalized
// co-occurrence matrix.
func haralickFeatures(p []float64) []float64 {
	const n = glcmLevels
	const eps = 1e-12

	px := make([]float64, n)
	py := make([]float64, n)
	pSum := make([]float64, 2*n-1)  // p_{x+y}, index i+j
	pDiff := make([]float64, n)     // p_{x-y}, index |i-j|

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := p[i*n+j]
			if v == 0 {
				continue
			}
			px[i] += v
			py[j] += v
			pSum[i+j] += v
			d := i - j
			if d < 0 {
				d = -d
			}
			pDiff[d] += v
		}
	}

	var muX, muY float64
	for i := 0; i < n; i++ {
		muX += float64(i) * px[i]
		muY += float64(i) * py[i]
	}
	var sigX, sigY float64
	for i := 0; i < n; i++ {
		sigX += (float64(i) - muX) * (float64(i) - muX) * px[i]
		sigY += (float64(i) - muY) * (float64(i) - muY) * py[i]
	}
	sigX = math.Sqrt(sigX)
	sigY = math.Sqrt(sigY)

	f := make([]float64, HaralickBins)

	// f1 angular second moment, f3 correlation numerator, f4 variance,
	// f5 inverse difference moment, f9 entropy.
	var corrNum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := p[i*n+j]
			if v == 0 {
				continue
			}
			f[0] += v * v
			corrNum += float64(i) * float64(j) * v
			f[3] += (float64(i) - muX) * (float64(i) - muX) * v
			d := float64(i - j)
			f[4] += v / (1 + d*d)
			f[8] -= v * math.Log(v+eps)
		}
	}

	// f2 contrast, f10 difference variance, f11 difference entropy.
	var diffMean float64
	for k := 0; k < n; k++ {
		f[1] += float64(k) * float64(k) * pDiff[k]
		diffMean += float64(k) * pDiff[k]
		if pDiff[k] > 0 {
			f[10] -= pDiff[k] * math.Log(pDiff[k]+eps)
		}
	}
	for k := 0; k < n; k++ {
		f[9] += (float64(k) - diffMean) * (float64(k) - diffMean) * pDiff[k]
	}

	// f3 correlation.
	if sigX > 0 && sigY > 0 {
		f[2] = (corrNum - muX*muY) / (sigX * sigY)
	}

	// f6 sum average, f7 sum variance, f8 sum entropy.
	for k := 0; k < 2*n-1; k++ {
		f[5] += float64(k) * pSum[k]
		if pSum[k] > 0 {
			f[7] -= pSum[k] * math.Log(pSum[k]+eps)
		}
	}
	for k := 0; k < 2*n-1; k++ {
		f[6] += (float64(k) - f[5]) * (float64(k) - f[5]) * pSum[k]
	}

	// f12, f13 information measures of correlation.
	var hx, hy, hxy1, hxy2 float64
	for i := 0; i < n; i++ {
		if px[i] > 0 {
			hx -= px[i] * math.Log(px[i]+eps)
		}
		if py[i] > 0 {
			hy -= py[i] * math.Log(py[i]+eps)
		}
	}
	for i := 0; i < n; i++ {
		if px[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if py[j] == 0 {
				continue
			}
			v := p[i*n+j]
			prod := px[i] * py[j]
			hxy1 -= v * math.Log(prod+eps)
			hxy2 -= prod * math.Log(prod+eps)
		}
	}
	hxy := f[8]
	if hm := math.Max(hx, hy); hm > 0 {
		f[11] = (hxy - hxy1) / hm
	}
	if arg := 1 - math.Exp(-2*(hxy2-hxy)); arg > 0 {
		f[12] = math.Sqrt(arg)
	}

	return f
}
