// Package preview renders a single slice of a gamma field as a false-color
// image, for quick visual QA of a Compute result without a full DICOM/
// MetaImage viewer. It is outside the algorithmic core: pkg/gamma never
// imports it.
package preview

import (
	"github.com/chewxy/math32"
	"gocv.io/x/gocv"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// RenderSlice slices img along plane at frame, normalizes it to 8-bit
// grayscale against [0, scaleMax] (NaN cells render black), and applies
// colormap. Caller owns the returned Mat and must Close it.
func RenderSlice(img image.Image, frame int, plane image.Plane, scaleMax float32, colormap gocv.ColormapTypes) (gocv.Mat, error) {
	const op = "preview.RenderSlice"
	if scaleMax <= 0 {
		return gocv.Mat{}, gerr.New(gerr.InvalidParameter, op, "scaleMax must be positive")
	}

	slice, err := img.Slice2D(frame, plane)
	if err != nil {
		return gocv.Mat{}, err
	}

	rows, cols := slice.Rows(), slice.Columns()
	gray := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	defer gray.Close()

	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			v := slice.Get(0, j, i)
			var level uint8
			if !math32.IsNaN(v) {
				scaled := v / scaleMax * 255
				switch {
				case scaled < 0:
					level = 0
				case scaled > 255:
					level = 255
				default:
					level = uint8(scaled)
				}
			}
			gray.SetUCharAt(j, i, level)
		}
	}

	colorized := gocv.NewMat()
	gocv.ApplyColorMap(gray, &colorized, colormap)
	return colorized, nil
}

// WritePNG writes mat to path as a PNG file.
func WritePNG(path string, mat gocv.Mat) error {
	const op = "preview.WritePNG"
	if !gocv.IMWrite(path, mat) {
		return gerr.New(gerr.IOError, op, "gocv.IMWrite failed for "+path)
	}
	return nil
}
