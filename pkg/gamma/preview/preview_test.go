package preview

import (
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/stretchr/testify/require"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

func TestRenderSliceAndWritePNG(t *testing.T) {
	img, err := image.NewFromNested2D([][]float32{
		{0, 0.5}, {1, 2},
	}, image.Offset{}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)

	mat, err := RenderSlice(img, 0, image.Axial, 2, gocv.ColormapJet)
	require.NoError(t, err)
	defer mat.Close()
	require.False(t, mat.Empty())

	out := filepath.Join(t.TempDir(), "gamma.png")
	require.NoError(t, WritePNG(out, mat))
}

func TestRenderSliceRejectsBadFrame(t *testing.T) {
	img, err := image.NewFromNested2D([][]float32{{0, 0.5}}, image.Offset{}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)
	_, err = RenderSlice(img, 5, image.Axial, 1, gocv.ColormapJet)
	require.Error(t, err)
}

func TestRenderSliceRejectsBadScale(t *testing.T) {
	img, err := image.NewFromNested2D([][]float32{{0, 0.5}}, image.Offset{}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)
	_, err = RenderSlice(img, 0, image.Axial, 0, gocv.ColormapJet)
	require.Error(t, err)
}
