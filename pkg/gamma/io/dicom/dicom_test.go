package dicom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

func TestWriteReadRoundTrip(t *testing.T) {
	img, err := image.NewFromNested3D([][][]float32{
		{{0.1, 0.2}, {0.3, 0.4}},
		{{0.5, 0.6}, {0.7, 0.8}},
	}, image.Offset{Z: -1, Y: -2, X: -3}, image.Spacing{Z: 1.5, Y: 2, X: 2.5})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (Writer{}).Write(&buf, img))

	got, err := (Reader{}).Read(&buf)
	require.NoError(t, err)

	require.Equal(t, img.Size(), got.Size())
	require.InDelta(t, img.Offset().X, got.Offset().X, 1e-3)
	require.InDelta(t, img.Offset().Y, got.Offset().Y, 1e-3)
	require.InDelta(t, img.Offset().Z, got.Offset().Z, 1e-3)
	require.InDelta(t, img.Spacing().X, got.Spacing().X, 1e-3)
	require.InDelta(t, img.Spacing().Y, got.Spacing().Y, 1e-3)
	require.InDelta(t, img.Spacing().Z, got.Spacing().Z, 1e-3)
	for i, v := range img.Raw() {
		require.InDelta(t, v, got.Raw()[i], 1e-3)
	}
}

func TestReadRejectsMissingMagic(t *testing.T) {
	_, err := (Reader{}).Read(bytes.NewReader(make([]byte, 200)))
	require.Error(t, err)
}

func TestReadRejectsWrongSOPClass(t *testing.T) {
	img, err := image.NewFromNested2D([][]float32{{1, 2}, {3, 4}}, image.Offset{}, image.Spacing{Z: 1, Y: 1, X: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (Writer{}).Write(&buf, img))
	data := buf.Bytes()

	// Corrupt the dataset SOP Class UID value bytes (after file meta's copy)
	// by flipping the first digit, forcing a mismatch.
	idx := bytes.LastIndex(data, []byte(sopClassRTDose))
	require.GreaterOrEqual(t, idx, 0)
	corrupted := append([]byte{}, data...)
	corrupted[idx] = '9'

	_, err = (Reader{}).Read(bytes.NewReader(corrupted))
	require.Error(t, err)
}
