// Package image implements the dense 3-D scalar field the gamma-index core
// operates on: a flat float32 buffer plus size/offset/spacing metadata.
package image

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
)

// Size is the (frames, rows, columns) voxel count triple.
type Size struct {
	Frames, Rows, Columns int
}

// Product returns Frames*Rows*Columns.
func (s Size) Product() int {
	return s.Frames * s.Rows * s.Columns
}

// Offset is the physical (z0, y0, x0) coordinate of voxel (0,0,0), in millimetres.
type Offset struct {
	Z, Y, X float32
}

// Spacing is the (dz, dy, dx) centre-to-centre voxel spacing, in millimetres.
type Spacing struct {
	Z, Y, X float32
}

// Image is a dense 3-D scalar field laid out as data[k*Rows*Columns + j*Columns + i].
type Image struct {
	data    []float32
	size    Size
	offset  Offset
	spacing Spacing
}

// New builds an Image from a flat buffer and explicit metadata.
// Fails with gerr.ShapeMismatch when size.Product() != len(data).
func New(data []float32, size Size, offset Offset, spacing Spacing) (Image, error) {
	if size.Product() != len(data) {
		return Image{}, gerr.New(gerr.ShapeMismatch, "image.New",
			"declared size does not match data length")
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return Image{data: buf, size: size, offset: offset, spacing: spacing}, nil
}

// NewFromNested2D builds a 2-D (single-frame) Image from a row-major nested slice.
// Fails with gerr.ShapeMismatch on ragged rows.
func NewFromNested2D(rows [][]float32, offset Offset, spacing Spacing) (Image, error) {
	nRows := len(rows)
	if nRows == 0 {
		return New(nil, Size{1, 0, 0}, offset, spacing)
	}
	nCols := len(rows[0])
	data := make([]float32, 0, nRows*nCols)
	for _, row := range rows {
		if len(row) != nCols {
			return Image{}, gerr.New(gerr.ShapeMismatch, "image.NewFromNested2D",
				"ragged rows in nested literal")
		}
		data = append(data, row...)
	}
	return New(data, Size{1, nRows, nCols}, offset, spacing)
}

// NewFromNested3D builds a 3-D Image from a frame-major nested slice.
// Fails with gerr.ShapeMismatch on ragged frames/rows.
func NewFromNested3D(frames [][][]float32, offset Offset, spacing Spacing) (Image, error) {
	nFrames := len(frames)
	if nFrames == 0 {
		return New(nil, Size{0, 0, 0}, offset, spacing)
	}
	nRows := len(frames[0])
	nCols := 0
	if nRows > 0 {
		nCols = len(frames[0][0])
	}
	data := make([]float32, 0, nFrames*nRows*nCols)
	for _, frame := range frames {
		if len(frame) != nRows {
			return Image{}, gerr.New(gerr.ShapeMismatch, "image.NewFromNested3D",
				"ragged frames in nested literal")
		}
		for _, row := range frame {
			if len(row) != nCols {
				return Image{}, gerr.New(gerr.ShapeMismatch, "image.NewFromNested3D",
					"ragged rows in nested literal")
			}
			data = append(data, row...)
		}
	}
	return New(data, Size{nFrames, nRows, nCols}, offset, spacing)
}

// Size returns the (frames, rows, columns) triple.
func (img Image) Size() Size { return img.size }

// Offset returns the (z0, y0, x0) physical origin.
func (img Image) Offset() Offset { return img.offset }

// Spacing returns the (dz, dy, dx) voxel spacing.
func (img Image) Spacing() Spacing { return img.spacing }

// Frames, Rows and Columns are convenience accessors onto Size().
func (img Image) Frames() int  { return img.size.Frames }
func (img Image) Rows() int    { return img.size.Rows }
func (img Image) Columns() int { return img.size.Columns }

// Len returns the number of voxels, i.e. Size().Product().
func (img Image) Len() int { return len(img.data) }

// Is2D reports whether the image has exactly one frame.
func (img Image) Is2D() bool { return img.size.Frames == 1 }

// SetSize replaces the size triple. Fails with gerr.ShapeMismatch unless the new
// triple's product equals the current data length.
func (img *Image) SetSize(size Size) error {
	if size.Product() != len(img.data) {
		return gerr.New(gerr.ShapeMismatch, "image.SetSize",
			"new size's product must equal the existing data length")
	}
	img.size = size
	return nil
}

// SetOffset replaces the offset triple, unchecked.
func (img *Image) SetOffset(offset Offset) { img.offset = offset }

// SetSpacing replaces the spacing triple, unchecked.
func (img *Image) SetSpacing(spacing Spacing) { img.spacing = spacing }

// Index converts (k,j,i) voxel coordinates to a flat buffer index.
func (img Image) Index(k, j, i int) int {
	return k*img.size.Rows*img.size.Columns + j*img.size.Columns + i
}

// At is a bounds-checked element read. Fails with gerr.OutOfRange.
func (img Image) At(k, j, i int) (float32, error) {
	if k < 0 || k >= img.size.Frames || j < 0 || j >= img.size.Rows || i < 0 || i >= img.size.Columns {
		return 0, gerr.New(gerr.OutOfRange, "image.At", "voxel index out of range")
	}
	return img.data[img.Index(k, j, i)], nil
}

// Get is an unchecked element read; in non-release builds it still asserts bounds
// via a panic (see bounds_debug.go / bounds_release.go).
func (img Image) Get(k, j, i int) float32 {
	idx := img.Index(k, j, i)
	debugBoundsCheck(idx, len(img.data))
	return img.data[idx]
}

// GetFlat is an unchecked flat-index read with the same debug-only assertion as Get.
func (img Image) GetFlat(index int) float32 {
	debugBoundsCheck(index, len(img.data))
	return img.data[index]
}

// Set is an unchecked element write, debug-bounds-asserted like Get.
func (img Image) Set(k, j, i int, v float32) {
	idx := img.Index(k, j, i)
	debugBoundsCheck(idx, len(img.data))
	img.data[idx] = v
}

// SetFlat is an unchecked flat-index write, debug-bounds-asserted like GetFlat.
func (img Image) SetFlat(index int, v float32) {
	debugBoundsCheck(index, len(img.data))
	img.data[index] = v
}

// Raw exposes the backing buffer directly, e.g. for the lane driver's SIMD-shaped loads.
func (img Image) Raw() []float32 { return img.data }

// PhysicalCoord returns the physical (z,y,x) coordinate of voxel (k,j,i).
func (img Image) PhysicalCoord(k, j, i int) (z, y, x float32) {
	z = img.offset.Z + float32(k)*img.spacing.Z
	y = img.offset.Y + float32(j)*img.spacing.Y
	x = img.offset.X + float32(i)*img.spacing.X
	return
}

// Equal reports element-wise bitwise equality, so NaN == NaN holds. This
// deliberately breaks IEEE-754 comparison semantics to make tests deterministic.
func (img Image) Equal(other Image) bool {
	if img.size != other.size || img.offset != other.offset || img.spacing != other.spacing {
		return false
	}
	if len(img.data) != len(other.data) {
		return false
	}
	for i := range img.data {
		if math32.Float32bits(img.data[i]) != math32.Float32bits(other.data[i]) {
			return false
		}
	}
	return true
}
