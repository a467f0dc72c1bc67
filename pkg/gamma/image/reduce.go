package image

import "github.com/chewxy/math32"

// Min returns the IEEE-754-propagating minimum: NaN dominates.
func (img Image) Min() float32 { return reduceMinMax(img.data, true) }

// Max returns the IEEE-754-propagating maximum: NaN dominates.
func (img Image) Max() float32 { return reduceMinMax(img.data, false) }

func reduceMinMax(data []float32, wantMin bool) float32 {
	if len(data) == 0 {
		return math32.NaN()
	}
	best := data[0]
	for _, v := range data[1:] {
		if math32.IsNaN(float32(best)) {
			break
		}
		if math32.IsNaN(v) {
			best = v
			break
		}
		if wantMin {
			if v < best {
				best = v
			}
		} else {
			if v > best {
				best = v
			}
		}
	}
	return best
}

// Sum returns the NaN/Inf-propagating sum (+Inf + -Inf = NaN follows naturally
// from float32 addition).
func (img Image) Sum() float32 {
	var sum float32
	for _, v := range img.data {
		sum += v
	}
	return sum
}

// Mean returns Sum()/Len(), NaN for an empty image.
func (img Image) Mean() float32 {
	if len(img.data) == 0 {
		return math32.NaN()
	}
	return img.Sum() / float32(len(img.data))
}

// Var returns the population variance, NaN/Inf-propagating.
func (img Image) Var() float32 {
	n := len(img.data)
	if n == 0 {
		return math32.NaN()
	}
	mean := img.Mean()
	var acc float32
	for _, v := range img.data {
		d := v - mean
		acc += d * d
	}
	return acc / float32(n)
}

// NanSize returns the count of non-NaN cells.
func (img Image) NanSize() int {
	n := 0
	for _, v := range img.data {
		if !math32.IsNaN(v) {
			n++
		}
	}
	return n
}

// NanMin returns the minimum over non-NaN cells (Infs still counted).
func (img Image) NanMin() float32 { return nanReduceMinMax(img.data, true) }

// NanMax returns the maximum over non-NaN cells (Infs still counted).
func (img Image) NanMax() float32 { return nanReduceMinMax(img.data, false) }

func nanReduceMinMax(data []float32, wantMin bool) float32 {
	best := math32.NaN()
	found := false
	for _, v := range data {
		if math32.IsNaN(v) {
			continue
		}
		if !found {
			best = v
			found = true
			continue
		}
		if wantMin {
			if v < best {
				best = v
			}
		} else {
			if v > best {
				best = v
			}
		}
	}
	return best
}

// NanSum returns the sum over non-NaN cells (Infs still counted).
func (img Image) NanSum() float32 {
	var sum float32
	for _, v := range img.data {
		if math32.IsNaN(v) {
			continue
		}
		sum += v
	}
	return sum
}

// NanMean returns NanSum()/NanSize(), NaN if there are no non-NaN cells.
func (img Image) NanMean() float32 {
	n := img.NanSize()
	if n == 0 {
		return math32.NaN()
	}
	return img.NanSum() / float32(n)
}

// NanVar returns the population variance over non-NaN cells.
func (img Image) NanVar() float32 {
	n := img.NanSize()
	if n == 0 {
		return math32.NaN()
	}
	mean := img.NanMean()
	var acc float32
	for _, v := range img.data {
		if math32.IsNaN(v) {
			continue
		}
		d := v - mean
		acc += d * d
	}
	return acc / float32(n)
}

// ContainsNaN reports whether any cell is NaN.
func (img Image) ContainsNaN() bool {
	for _, v := range img.data {
		if math32.IsNaN(v) {
			return true
		}
	}
	return false
}

// ContainsInf reports whether any cell is +/-Inf.
func (img Image) ContainsInf() bool {
	for _, v := range img.data {
		if math32.IsInf(v, 0) {
			return true
		}
	}
	return false
}
