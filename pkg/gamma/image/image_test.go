package image

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func TestNewShapeMismatch(t *testing.T) {
	_, err := New([]float32{1, 2, 3}, Size{1, 2, 2}, Offset{}, Spacing{1, 1, 1})
	require.Error(t, err)
}

func TestNewFromNested2DRagged(t *testing.T) {
	_, err := NewFromNested2D([][]float32{{1, 2}, {3}}, Offset{}, Spacing{1, 1, 1})
	require.Error(t, err)
}

func TestAtOutOfRange(t *testing.T) {
	img, err := NewFromNested2D([][]float32{{1, 2}, {3, 4}}, Offset{}, Spacing{1, 1, 1})
	require.NoError(t, err)

	_, err = img.At(0, 5, 0)
	require.Error(t, err)

	v, err := img.At(0, 1, 1)
	require.NoError(t, err)
	require.Equal(t, float32(4), v)
}

func TestSetSizeRequiresSameProduct(t *testing.T) {
	img, err := New([]float32{1, 2, 3, 4}, Size{1, 2, 2}, Offset{}, Spacing{1, 1, 1})
	require.NoError(t, err)

	require.NoError(t, img.SetSize(Size{1, 4, 1}))
	require.Error(t, img.SetSize(Size{1, 3, 1}))
}

func TestPhysicalCoord(t *testing.T) {
	img, err := New([]float32{0, 0}, Size{1, 1, 2}, Offset{Z: -1, Y: 2, X: 3}, Spacing{Z: 1, Y: 1, X: 2})
	require.NoError(t, err)

	z, y, x := img.PhysicalCoord(0, 0, 1)
	require.Equal(t, float32(-1), z)
	require.Equal(t, float32(2), y)
	require.Equal(t, float32(5), x)
}

func TestEqualTreatsNaNAsEqual(t *testing.T) {
	nan := math32.NaN()
	a, err := New([]float32{nan, 1}, Size{1, 1, 2}, Offset{}, Spacing{1, 1, 1})
	require.NoError(t, err)
	b, err := New([]float32{nan, 1}, Size{1, 1, 2}, Offset{}, Spacing{1, 1, 1})
	require.NoError(t, err)

	require.True(t, a.Equal(b))
}

func TestEqualDetectsMetadataDifference(t *testing.T) {
	a, _ := New([]float32{1, 2}, Size{1, 1, 2}, Offset{}, Spacing{1, 1, 1})
	b, _ := New([]float32{1, 2}, Size{1, 1, 2}, Offset{X: 1}, Spacing{1, 1, 1})

	require.False(t, a.Equal(b))
}

func TestNewIsACopy(t *testing.T) {
	data := []float32{1, 2, 3, 4}
	img, err := New(data, Size{1, 2, 2}, Offset{}, Spacing{1, 1, 1})
	require.NoError(t, err)

	data[0] = 99
	require.Equal(t, float32(1), img.Get(0, 0, 0))
}
