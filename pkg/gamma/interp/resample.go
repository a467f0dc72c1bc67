package interp

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// gridBySpacing computes the largest output grid that fits strictly inside
// [offset, offset+(size-1)*spacing] of the input axis, starting at the
// input's own offset.
func gridBySpacing(inputOffset, inputSpacing float32, inputSize int, newSpacing float32) (outOffset float32, outSize int) {
	if inputSize <= 1 {
		return inputOffset, 1
	}
	extent := float32(inputSize-1) * inputSpacing
	outSize = int(math32.Floor(extent/newSpacing)) + 1
	return inputOffset, outSize
}

// gridByOffsetSpacing emits exactly the grid points of an infinite lattice
// (newOffset + m*newSpacing) that lie inside the input axis' bounding range,
// extended by boundaryTolerance. A whole-axis-outside input produces a
// zero-length result anchored at newOffset.
func gridByOffsetSpacing(inputOffset, inputSpacing float32, inputSize int, newOffset, newSpacing float32) (outOffset float32, outSize int) {
	inputStart := inputOffset
	inputEnd := inputOffset
	if inputSize > 1 {
		inputEnd = inputOffset + float32(inputSize-1)*inputSpacing
	}
	if inputStart > inputEnd {
		inputStart, inputEnd = inputEnd, inputStart
	}

	mMin := math32.Ceil((inputStart - boundaryTolerance - newOffset) / newSpacing)
	mMax := math32.Floor((inputEnd + boundaryTolerance - newOffset) / newSpacing)
	if mMax < mMin {
		return newOffset, 0
	}
	outSize = int(mMax-mMin) + 1
	outOffset = newOffset + mMin*newSpacing
	return
}

// ResampleAxisBySpacing resamples img along axis onto a new spacing, using
// the by-spacing grid-fitting rule (form 1).
func ResampleAxisBySpacing(img image.Image, axis Axis, newSpacing float32) (image.Image, error) {
	outOffset, outSize := gridBySpacing(axisOffsetOf(img.Offset(), axis), axisSpacingOf(img.Spacing(), axis), axisOf(img.Size(), axis), newSpacing)
	return buildAxisResample(img, axis, outOffset, newSpacing, outSize)
}

// ResampleAxisByOffsetSpacing resamples img along axis onto an infinite
// virtual grid anchored at newOffset with spacing newSpacing (form 2).
func ResampleAxisByOffsetSpacing(img image.Image, axis Axis, newOffset, newSpacing float32) (image.Image, error) {
	outOffset, outSize := gridByOffsetSpacing(axisOffsetOf(img.Offset(), axis), axisSpacingOf(img.Spacing(), axis), axisOf(img.Size(), axis), newOffset, newSpacing)
	return buildAxisResample(img, axis, outOffset, newSpacing, outSize)
}

// ResampleAxisByReference resamples img along axis onto the reference
// image's offset and spacing on that axis (form 3).
func ResampleAxisByReference(img, ref image.Image, axis Axis) (image.Image, error) {
	return ResampleAxisByOffsetSpacing(img, axis, axisOffsetOf(ref.Offset(), axis), axisSpacingOf(ref.Spacing(), axis))
}

func buildAxisResample(img image.Image, axis Axis, outOffset, outSpacing float32, outSize int) (image.Image, error) {
	size := img.Size()
	newSize := withAxisSize(size, axis, outSize)
	newOffset := withAxisOffset(img.Offset(), axis, outOffset)
	newSpacing := withAxisSpacing(img.Spacing(), axis, outSpacing)

	data := make([]float32, newSize.Product())
	if len(data) == 0 {
		return image.New(data, newSize, newOffset, newSpacing)
	}

	inAxisOffset := axisOffsetOf(img.Offset(), axis)
	inAxisSpacing := axisSpacingOf(img.Spacing(), axis)
	inAxisSize := axisOf(size, axis)

	framesN, rowsN, colsN := size.Frames, size.Rows, size.Columns
	switch axis {
	case AxisZ:
		framesN = outSize
	case AxisY:
		rowsN = outSize
	default:
		colsN = outSize
	}

	flat := 0
	for k := 0; k < framesN; k++ {
		for j := 0; j < rowsN; j++ {
			for i := 0; i < colsN; i++ {
				var axisPos int
				switch axis {
				case AxisZ:
					axisPos = k
				case AxisY:
					axisPos = j
				default:
					axisPos = i
				}
				p := outOffset + float32(axisPos)*outSpacing
				idx0, idx1, frac := lowerIndexAndFrac(p, inAxisOffset, inAxisSpacing, inAxisSize)

				k0, j0, i0 := k, j, i
				k1, j1, i1 := k, j, i
				switch axis {
				case AxisZ:
					k0, k1 = idx0, idx1
				case AxisY:
					j0, j1 = idx0, idx1
				default:
					i0, i1 = idx0, idx1
				}

				v0 := img.Get(k0, j0, i0)
				v1 := img.Get(k1, j1, i1)

				data[flat] = v0*(1-frac) + v1*frac
				flat++
			}
		}
	}
	return image.New(data, newSize, newOffset, newSpacing)
}

// ResampleBySpacing bilinearly resamples img on the two axes of plane
// (form 1) by composing independent per-axis resamples; the third axis is
// left unchanged (ResampleVolumeBySpacing covers all three axes).
// Composition order does not affect the result up to floating-point rounding.
func ResampleBySpacing(img image.Image, plane Plane, firstSpacing, secondSpacing float32) (image.Image, error) {
	a1, a2 := planeAxes(plane)
	step1, err := ResampleAxisBySpacing(img, a1, firstSpacing)
	if err != nil {
		return image.Image{}, err
	}
	return ResampleAxisBySpacing(step1, a2, secondSpacing)
}

// ResampleByOffsetSpacing is the plane/volume form-2 composition counterpart
// of ResampleBySpacing.
func ResampleByOffsetSpacing(img image.Image, plane Plane, firstOffset, secondOffset, firstSpacing, secondSpacing float32) (image.Image, error) {
	a1, a2 := planeAxes(plane)
	step1, err := ResampleAxisByOffsetSpacing(img, a1, firstOffset, firstSpacing)
	if err != nil {
		return image.Image{}, err
	}
	return ResampleAxisByOffsetSpacing(step1, a2, secondOffset, secondSpacing)
}

// ResampleByReference is the plane/volume form-3 composition counterpart of
// ResampleBySpacing.
func ResampleByReference(img, ref image.Image, plane Plane) (image.Image, error) {
	a1, a2 := planeAxes(plane)
	step1, err := ResampleAxisByReference(img, ref, a1)
	if err != nil {
		return image.Image{}, err
	}
	return ResampleAxisByReference(step1, ref, a2)
}

// ResampleVolumeBySpacing trilinearly resamples all three axes (form 1).
func ResampleVolumeBySpacing(img image.Image, spacing image.Spacing) (image.Image, error) {
	step1, err := ResampleAxisBySpacing(img, AxisZ, spacing.Z)
	if err != nil {
		return image.Image{}, err
	}
	step2, err := ResampleAxisBySpacing(step1, AxisY, spacing.Y)
	if err != nil {
		return image.Image{}, err
	}
	return ResampleAxisBySpacing(step2, AxisX, spacing.X)
}

// ResampleVolumeByOffsetSpacing trilinearly resamples all three axes (form 2).
func ResampleVolumeByOffsetSpacing(img image.Image, offset image.Offset, spacing image.Spacing) (image.Image, error) {
	step1, err := ResampleAxisByOffsetSpacing(img, AxisZ, offset.Z, spacing.Z)
	if err != nil {
		return image.Image{}, err
	}
	step2, err := ResampleAxisByOffsetSpacing(step1, AxisY, offset.Y, spacing.Y)
	if err != nil {
		return image.Image{}, err
	}
	return ResampleAxisByOffsetSpacing(step2, AxisX, offset.X, spacing.X)
}

// ResampleVolumeByReference trilinearly resamples all three axes (form 3).
func ResampleVolumeByReference(img, ref image.Image) (image.Image, error) {
	step1, err := ResampleAxisByReference(img, ref, AxisZ)
	if err != nil {
		return image.Image{}, err
	}
	step2, err := ResampleAxisByReference(step1, ref, AxisY)
	if err != nil {
		return image.Image{}, err
	}
	return ResampleAxisByReference(step2, ref, AxisX)
}
