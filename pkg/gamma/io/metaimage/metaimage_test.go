package metaimage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

func TestWriteReadRoundTrip(t *testing.T) {
	img, err := image.NewFromNested3D([][][]float32{
		{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		{{0.7, 0.8, 0.9}, {1.0, 1.1, 1.2}},
	}, image.Offset{Z: -1, Y: -2, X: -3}, image.Spacing{Z: 1.5, Y: 2, X: 2.5})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (Writer{}).Write(&buf, img))

	got, err := (Reader{}).Read(&buf)
	require.NoError(t, err)

	require.True(t, img.Equal(got))
}

func TestReadRejectsMissingDimSize(t *testing.T) {
	body := "ObjectType = Image\nElementType = MET_FLOAT\nElementDataFile = LOCAL\n"
	_, err := (Reader{}).Read(bytes.NewBufferString(body))
	require.Error(t, err)
}

func TestReadRejectsUnsupportedElementType(t *testing.T) {
	body := "DimSize = 2 2 1\nElementType = MET_WEIRD\nElementDataFile = LOCAL\n"
	_, err := (Reader{}).Read(bytes.NewBufferString(body))
	require.Error(t, err)
}

func TestReadDefaultsSpacingAndOffset(t *testing.T) {
	body := "DimSize = 2 2 1\nElementType = MET_UCHAR\nElementDataFile = LOCAL\n" +
		string([]byte{1, 2, 3, 4})
	img, err := (Reader{}).Read(bytes.NewBufferString(body))
	require.NoError(t, err)
	require.Equal(t, image.Spacing{Z: 1, Y: 1, X: 1}, img.Spacing())
	require.Equal(t, image.Offset{}, img.Offset())
	require.Equal(t, []float32{1, 2, 3, 4}, img.Raw())
}

func TestReadBigEndianShort(t *testing.T) {
	body := "DimSize = 2 1 1\nElementType = MET_SHORT\nElementByteOrderMSB = True\nElementDataFile = LOCAL\n" +
		string([]byte{0x00, 0x05, 0xFF, 0xFE})
	img, err := (Reader{}).Read(bytes.NewBufferString(body))
	require.NoError(t, err)
	require.Equal(t, float32(5), img.Raw()[0])
	require.Equal(t, float32(-2), img.Raw()[1])
}
