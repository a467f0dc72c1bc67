// Package lane implements the fixed-width SIMD-shaped inner loop the Classic
// gamma kernels drive over a row of evaluated voxels. Go has no portable
// intrinsic SIMD; the loop body below is shaped so a compiler auto-vectorizer
// can unroll it across LaneWidth independent accumulators, the same data
// layout a hand-vectorized C++ kernel would use.
package lane

import "github.com/chewxy/math32"

// LaneWidth is the number of evaluated voxels processed per unrolled
// iteration, chosen to match the common 256-bit float32 SIMD width (AVX: 8
// lanes of float32).
const LaneWidth = 8

// MinSquaredGammaRow scans one row of evaluated voxels (fixed eval frame and
// row, varying column) and returns the minimum squared gamma over the row.
// evalDose and evalX must have equal length; evalZ/evalY are the row's
// constant physical z/y coordinate, broadcast to every lane.
func MinSquaredGammaRow(refDose, refZ, refY, refX, evalZ, evalY float32, evalDose, evalX []float32, ddInvSq, dtaInvSq float32) float32 {
	n := len(evalDose)

	var lanes [LaneWidth]float32
	for l := range lanes {
		lanes[l] = math32.Inf(1)
	}

	i := 0
	for ; i+LaneWidth <= n; i += LaneWidth {
		for l := 0; l < LaneWidth; l++ {
			g2 := squaredGamma(refDose, refZ, refY, refX, evalZ, evalY, evalDose[i+l], evalX[i+l], ddInvSq, dtaInvSq)
			lanes[l] = math32.Min(lanes[l], g2)
		}
	}

	min := lanes[0]
	for l := 1; l < LaneWidth; l++ {
		min = math32.Min(min, lanes[l])
	}

	for ; i < n; i++ {
		g2 := squaredGamma(refDose, refZ, refY, refX, evalZ, evalY, evalDose[i], evalX[i], ddInvSq, dtaInvSq)
		min = math32.Min(min, g2)
	}

	return min
}

// squaredGamma is the scalar per-pair kernel shared by both the unrolled lane
// body and the tail loop.
func squaredGamma(refDose, refZ, refY, refX, evalZ, evalY, evalDose, evalX, ddInvSq, dtaInvSq float32) float32 {
	dd := evalDose - refDose
	dz := evalZ - refZ
	dy := evalY - refY
	dx := evalX - refX
	return dd*dd*ddInvSq + (dz*dz+dy*dy+dx*dx)*dtaInvSq
}
