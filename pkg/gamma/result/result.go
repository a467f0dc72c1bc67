// Package result wraps the gamma image produced by a Compute call with the
// pass/fail summary statistics downstream reporting tools need.
package result

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// Result is the per-voxel gamma field plus its derived statistics.
type Result struct {
	image.Image
}

// New wraps img as a Result.
func New(img image.Image) Result {
	return Result{Image: img}
}

// PassingRate is the fraction of non-NaN cells with value <= 1.0, i.e. the
// standard gamma-analysis pass rate. NaN when every cell is NaN.
func (r Result) PassingRate() float32 {
	data := r.Raw()
	n := r.NanSize()
	if n == 0 {
		return math32.NaN()
	}
	var passed int
	for _, v := range data {
		if math32.IsNaN(v) {
			continue
		}
		if v <= 1.0 {
			passed++
		}
	}
	return float32(passed) / float32(n)
}

// MinGamma is the smallest non-NaN gamma value.
func (r Result) MinGamma() float32 { return r.NanMin() }

// MaxGamma is the largest non-NaN gamma value.
func (r Result) MaxGamma() float32 { return r.NanMax() }

// SumGamma is the sum of non-NaN gamma values.
func (r Result) SumGamma() float32 { return r.NanSum() }

// MeanGamma is the mean of non-NaN gamma values.
func (r Result) MeanGamma() float32 { return r.NanMean() }

// VarGamma is the variance of non-NaN gamma values.
func (r Result) VarGamma() float32 { return r.NanVar() }

// Histogram buckets non-NaN gamma values into fixed-width bins starting at
// zero, returning one count per bin up to and including the bin containing
// the maximum value. Returns nil if binWidth is non-positive or there are no
// non-NaN cells.
func (r Result) Histogram(binWidth float32) []int {
	if binWidth <= 0 {
		return nil
	}
	maxV := r.MaxGamma()
	if math32.IsNaN(maxV) {
		return nil
	}
	bins := int(maxV/binWidth) + 1
	hist := make([]int, bins)
	for _, v := range r.Raw() {
		if math32.IsNaN(v) {
			continue
		}
		b := int(v / binWidth)
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		hist[b]++
	}
	return hist
}
