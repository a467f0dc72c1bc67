package tensorx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

func TestFromImageSharesMemory(t *testing.T) {
	img, err := image.New([]float32{1, 2, 3, 4}, image.Size{Frames: 1, Rows: 2, Columns: 2}, image.Offset{}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)

	d, err := FromImage(img)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 2}, d.Shape())

	raw := d.Data().([]float32)
	raw[0] = 42
	require.Equal(t, float32(42), img.Raw()[0])
}

func TestToImageRoundTrips(t *testing.T) {
	img, err := image.New([]float32{1, 2, 3, 4, 5, 6, 7, 8}, image.Size{Frames: 2, Rows: 2, Columns: 2}, image.Offset{Z: 1}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)

	d, err := FromImage(img)
	require.NoError(t, err)
	back, err := ToImage(d, img.Offset(), img.Spacing())
	require.NoError(t, err)
	require.True(t, img.Equal(back))
}

func TestToImageRejectsWrongRank(t *testing.T) {
	img, err := image.New([]float32{1, 2, 3, 4}, image.Size{Frames: 1, Rows: 2, Columns: 2}, image.Offset{}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)
	d, err := FromImage(img)
	require.NoError(t, err)
	require.NoError(t, d.Reshape(4))
	_, err = ToImage(d, img.Offset(), img.Spacing())
	require.Error(t, err)
}
