// Package tensorx converts between the gamma image.Image container and
// gorgonia.org/tensor's dense tensors, so gamma fields can be handed to (or
// received from) the rest of the pack's tensor-based tooling without a copy.
package tensorx

import (
	"gorgonia.org/tensor"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// FromImage wraps img's backing slice directly as a *tensor.Dense with shape
// (Frames, Rows, Columns). The tensor shares img's memory; mutating one
// mutates the other.
func FromImage(img image.Image) (*tensor.Dense, error) {
	size := img.Size()
	return tensor.New(
		tensor.WithShape(size.Frames, size.Rows, size.Columns),
		tensor.WithBacking(img.Raw()),
	), nil
}

// ToImage builds an image.Image from a 3-dimensional float32 *tensor.Dense,
// copying its data so the resulting image owns independent storage.
func ToImage(t *tensor.Dense, offset image.Offset, spacing image.Spacing) (image.Image, error) {
	const op = "tensorx.ToImage"
	if t.Dtype() != tensor.Float32 {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "tensor must have dtype float32")
	}
	shape := t.Shape()
	if len(shape) != 3 {
		return image.Image{}, gerr.New(gerr.ShapeMismatch, op, "tensor must be 3-dimensional (frames, rows, columns)")
	}

	src, ok := t.Data().([]float32)
	if !ok {
		return image.Image{}, gerr.New(gerr.UnexpectedFormat, op, "tensor backing data is not []float32")
	}
	data := make([]float32, len(src))
	copy(data, src)

	size := image.Size{Frames: shape[0], Rows: shape[1], Columns: shape[2]}
	return image.New(data, size, offset, spacing)
}
