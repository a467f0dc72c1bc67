// Package interp implements linear/bilinear/trilinear resampling and pointwise
// interpolation over pkg/gamma/image.Image values.
package interp

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// Axis names one of the image's three logical axes for per-axis resampling.
// The numbering matches image.Size/Offset/Spacing's Z/Y/X field order, i.e.
// AxisZ is the frames axis, AxisY the rows axis, AxisX the columns axis.
type Axis int

const (
	AxisZ Axis = iota
	AxisY
	AxisX
)

// Plane names the pair of axes a bilinear resample or slice spans.
type Plane = image.Plane

// planeAxes returns the two axes a plane resample interpolates over, in the
// order (first, second) matching the teacher-facing doc comments ("when
// interpolating on plane YX, firstAxisSpacing is applied to Y axis").
func planeAxes(plane Plane) (Axis, Axis) {
	switch plane {
	case image.Coronal:
		return AxisZ, AxisX
	case image.Sagittal:
		return AxisZ, AxisY
	default: // Axial
		return AxisY, AxisX
	}
}

func axisOf(size image.Size, axis Axis) int {
	switch axis {
	case AxisZ:
		return size.Frames
	case AxisY:
		return size.Rows
	default:
		return size.Columns
	}
}

func axisOffsetOf(offset image.Offset, axis Axis) float32 {
	switch axis {
	case AxisZ:
		return offset.Z
	case AxisY:
		return offset.Y
	default:
		return offset.X
	}
}

func axisSpacingOf(spacing image.Spacing, axis Axis) float32 {
	switch axis {
	case AxisZ:
		return spacing.Z
	case AxisY:
		return spacing.Y
	default:
		return spacing.X
	}
}

func withAxisSize(size image.Size, axis Axis, v int) image.Size {
	switch axis {
	case AxisZ:
		size.Frames = v
	case AxisY:
		size.Rows = v
	default:
		size.Columns = v
	}
	return size
}

func withAxisOffset(offset image.Offset, axis Axis, v float32) image.Offset {
	switch axis {
	case AxisZ:
		offset.Z = v
	case AxisY:
		offset.Y = v
	default:
		offset.X = v
	}
	return offset
}

func withAxisSpacing(spacing image.Spacing, axis Axis, v float32) image.Spacing {
	switch axis {
	case AxisZ:
		spacing.Z = v
	case AxisY:
		spacing.Y = v
	default:
		spacing.X = v
	}
	return spacing
}

// lowerIndexAndFrac locates the lower-corner voxel index and fractional offset
// along one axis for a physical coordinate p, clamping the upper index to the
// lower one at the image boundary as specified.
func lowerIndexAndFrac(p, axisOffset, axisSpacing float32, axisSize int) (idx0, idx1 int, frac float32) {
	if axisSize <= 1 {
		return 0, 0, 0
	}
	local := (p - axisOffset) / axisSpacing
	idx0 = int(math32.Floor(local))
	frac = local - float32(idx0)
	if idx0 < 0 {
		idx0 = 0
		frac = 0
	}
	if idx0 > axisSize-1 {
		idx0 = axisSize - 1
		frac = 0
	}
	idx1 = idx0 + 1
	if idx1 > axisSize-1 {
		idx1 = idx0
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return
}

const boundaryTolerance = 1e-6
