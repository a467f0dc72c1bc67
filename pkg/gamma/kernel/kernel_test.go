package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
	"github.com/itohio/EasyRobot/pkg/gamma/params"
	"github.com/itohio/EasyRobot/pkg/gamma/search"
)

func computeAll(t *testing.T, k Kernel) []float32 {
	t.Helper()
	out := make([]float32, k.Len())
	for i := range out {
		if !k.MustCompute(i) {
			out[i] = float32(math.NaN())
			continue
		}
		out[i] = k.Voxel(i)
	}
	return out
}

func requireAllClose(t *testing.T, want, got []float32, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if math.IsNaN(float64(want[i])) {
			require.True(t, math.IsNaN(float64(got[i])), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		require.InDelta(t, want[i], got[i], tol, "index %d", i)
	}
}

func s1Images(t *testing.T) (image.Image, image.Image) {
	t.Helper()
	ref, err := image.NewFromNested2D([][]float32{{0.93, 0.95}, {0.97, 1.00}}, image.Offset{Z: 0, Y: 0, X: -1}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)
	eval, err := image.NewFromNested2D([][]float32{{0.95, 0.97}, {1.00, 1.03}}, image.Offset{Z: 0, Y: -1, X: 0}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)
	return ref, eval
}

func TestScenarioS1Classic2DGlobal(t *testing.T) {
	ref, eval := s1Images(t)
	p := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.0, DoseCutoff: 0}

	k, err := NewClassic2D(ref, eval, p)
	require.NoError(t, err)

	got := computeAll(t, k)
	want := []float32{0.816496, 0.333333, 0.942809, 0.333333}
	requireAllClose(t, want, got, 1e-3)
}

func TestScenarioS2Classic2DLocal(t *testing.T) {
	ref, eval := s1Images(t)
	p := params.Parameters{DDThreshold: 2, DTAThreshold: 1, Normalization: params.Local, DoseCutoff: 0}

	k, err := NewClassic2D(ref, eval, p)
	require.NoError(t, err)

	got := computeAll(t, k)
	want := []float32{1.776570, 1.000000, 2.095548, 1.000000}
	requireAllClose(t, want, got, 1e-3)
}

func s3Images(t *testing.T) (image.Image, image.Image) {
	t.Helper()
	ref, err := image.NewFromNested3D([][][]float32{
		{{0.2, 0.64, 0.3}, {0.5, 0.43, 0.6}},
		{{0.4, 0.7, 0.28}, {1.4, 0.8, 0.9}},
	}, image.Offset{Z: -0.2, Y: -5.8, X: 4.4}, image.Spacing{Z: 1.5, Y: 2, X: 2.5})
	require.NoError(t, err)

	eval, err := image.NewFromNested3D([][][]float32{
		{{0.24, 0.68, 0.2}, {0.67, 0.9, 0.6}},
		{{1.0, 0.8, 0.34}, {0.8, 0.99, 0.83}},
	}, image.Offset{Z: -0.3, Y: -6.0, X: 4.5}, image.Spacing{Z: 1.5, Y: 2, X: 2.5})
	require.NoError(t, err)

	return ref, eval
}

func TestScenarioS3Classic3D(t *testing.T) {
	ref, eval := s3Images(t)
	p := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4, DoseCutoff: 0}

	k, err := NewClassic3D(ref, eval, p)
	require.NoError(t, err)

	got := computeAll(t, k)
	want := []float32{
		0.955874, 0.955875, 1.063185, 2.926515, 2.469515, 0.081650,
		2.221795, 0.718858, 1.430903, 9.552117, 0.734847, 0.963789,
	}
	requireAllClose(t, want, got, 5e-3)
}

func TestScenarioS4Wendling3D(t *testing.T) {
	ref, eval := s3Images(t)
	p := params.Parameters{
		DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4, DoseCutoff: 0,
		Method: params.Wendling, MaxSearchDistance: 10, StepSize: 0.3,
	}
	table := search.GenerateBall(p.MaxSearchDistance, p.StepSize)

	k, err := NewWendling3D(ref, eval, p, table)
	require.NoError(t, err)

	got := computeAll(t, k)
	want := []float32{
		2.074477, 0.231435, 0.112103, 0.472046, 0.849464, 0.195100,
		0.554398, 0.342783, 0.572041, 10.501846, 0.485433, 0.520314,
	}
	requireAllClose(t, want, got, 5e-2)
}

func TestScenarioS5Wendling25DDoseCutoff(t *testing.T) {
	ref, eval := s3Images(t)
	p := params.Parameters{
		DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4, DoseCutoff: 0.4,
		Method: params.Wendling, MaxSearchDistance: 10, StepSize: 0.3,
	}
	table := search.GenerateDisc(p.MaxSearchDistance, p.StepSize)

	k, err := NewWendling25D(ref, eval, p, table)
	require.NoError(t, err)

	got := computeAll(t, k)
	nan := float32(math.NaN())
	want := []float32{
		nan, 0.235322, nan, 0.472046, 0.849464, 0.195100,
		nan, nan, nan, nan, nan, nan,
	}
	requireAllClose(t, want, got, 5e-2)
}

// TestNonNegativity checks invariant 1: every non-NaN cell is >= 0.
func TestNonNegativity(t *testing.T) {
	ref, eval := s3Images(t)
	p := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4}
	k, err := NewClassic3D(ref, eval, p)
	require.NoError(t, err)
	for _, v := range computeAll(t, k) {
		if !math.IsNaN(float64(v)) {
			require.GreaterOrEqual(t, v, float32(0))
		}
	}
}

// TestSelfIdentityClassic3D checks invariant 2: the Classic 3D kernel run on
// (I, I) yields zero everywhere.
func TestSelfIdentityClassic3D(t *testing.T) {
	ref, _ := s3Images(t)
	p := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4}
	k, err := NewClassic3D(ref, ref, p)
	require.NoError(t, err)
	for _, v := range computeAll(t, k) {
		require.InDelta(t, 0, v, 2e-6)
	}
}

func TestSelfIdentityWendling3D(t *testing.T) {
	ref, _ := s3Images(t)
	p := params.Parameters{
		DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4,
		Method: params.Wendling, MaxSearchDistance: 10, StepSize: 1.5,
	}
	table := search.GenerateBall(p.MaxSearchDistance, p.StepSize)
	k, err := NewWendling3D(ref, ref, p, table)
	require.NoError(t, err)
	for _, v := range computeAll(t, k) {
		require.InDelta(t, 0, v, 2e-6)
	}
}

// TestClassicEquivalentToWendlingUnderCoincidentSampling checks invariant 3:
// Classic and Wendling must agree when the images share a grid and the
// Wendling step size matches that (isotropic) spacing on every axis.
func TestClassicEquivalentToWendlingUnderCoincidentSampling(t *testing.T) {
	ref, err := image.NewFromNested3D([][][]float32{
		{{0.2, 0.64, 0.3}, {0.5, 0.43, 0.6}},
		{{0.4, 0.7, 0.28}, {1.4, 0.8, 0.9}},
	}, image.Offset{}, image.Spacing{Z: 2, Y: 2, X: 2})
	require.NoError(t, err)
	eval, err := image.NewFromNested3D([][][]float32{
		{{0.24, 0.68, 0.2}, {0.67, 0.9, 0.6}},
		{{1.0, 0.8, 0.34}, {0.8, 0.99, 0.83}},
	}, image.Offset{}, image.Spacing{Z: 2, Y: 2, X: 2})
	require.NoError(t, err)

	base := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4}

	classicKernel, err := NewClassic3D(ref, eval, base)
	require.NoError(t, err)
	classicOut := computeAll(t, classicKernel)

	wp := base
	wp.Method = params.Wendling
	wp.MaxSearchDistance = 100
	wp.StepSize = 2 // matches eval spacing on all axes
	table := search.GenerateBall(wp.MaxSearchDistance, wp.StepSize)
	wendlingKernel, err := NewWendling3D(ref, eval, wp, table)
	require.NoError(t, err)
	wendlingOut := computeAll(t, wendlingKernel)

	requireAllClose(t, classicOut, wendlingOut, 1e-3)
}

// TestShapePreservation checks invariant 4 at the dispatch-caller level: the
// kernel addresses exactly ref.Len() cells, one per reference voxel.
func TestShapePreservation(t *testing.T) {
	ref, eval := s3Images(t)
	p := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4}
	k, err := NewClassic3D(ref, eval, p)
	require.NoError(t, err)
	require.Equal(t, ref.Len(), k.Len())
}

// TestCutoff checks invariant 5.
func TestCutoff(t *testing.T) {
	ref, eval := s3Images(t)
	p := params.Parameters{DDThreshold: 3, DTAThreshold: 3, Normalization: params.Global, GlobalNormDose: 1.4, DoseCutoff: 0.4}
	k, err := NewClassic3D(ref, eval, p)
	require.NoError(t, err)

	for i := 0; i < ref.Len(); i++ {
		below := ref.Raw()[i] < p.DoseCutoff
		require.Equal(t, below, !k.MustCompute(i))
	}
}
