package lane

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinSquaredGammaRowFindsExactMatch(t *testing.T) {
	evalDose := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	evalX := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8}

	g2 := MinSquaredGammaRow(3, 0, 0, 2, 0, 0, evalDose, evalX, 1, 1)
	require.InDelta(t, 0, g2, 1e-6)
}

func TestMinSquaredGammaRowHandlesShortRow(t *testing.T) {
	evalDose := []float32{1, 2, 3}
	evalX := []float32{0, 1, 2}

	g2 := MinSquaredGammaRow(2, 0, 0, 1, 0, 0, evalDose, evalX, 1, 1)
	require.InDelta(t, 0, g2, 1e-6)
}

func TestMinSquaredGammaRowMatchesScalarReference(t *testing.T) {
	evalDose := []float32{0.9, 1.1, 1.0, 0.95, 1.2, 0.8, 1.05, 0.99, 1.3, 0.7, 1.02}
	evalX := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	g2 := MinSquaredGammaRow(1.0, 0, 0, 4.5, 0.1, 0, evalDose, evalX, 4, 9)

	want := float32(1e30)
	for i := range evalDose {
		v := squaredGamma(1.0, 0, 0, 4.5, 0.1, 0, evalDose[i], evalX[i], 4, 9)
		if v < want {
			want = v
		}
	}
	require.InDelta(t, want, g2, 1e-6)
}
