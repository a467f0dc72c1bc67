package interp

import (
	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
)

// axisInBounds reports whether p lies inside the axis' physical range,
// extended by boundaryTolerance.
func axisInBounds(p, axisOffset, axisSpacing float32, axisSize int) bool {
	if axisSize <= 0 {
		return false
	}
	lo := axisOffset
	hi := axisOffset + float32(axisSize-1)*axisSpacing
	if lo > hi {
		lo, hi = hi, lo
	}
	return p >= lo-boundaryTolerance && p <= hi+boundaryTolerance
}

// BilinearAt samples img at physical (y,x) within the given frame using
// bilinear interpolation. Returns (0, false) if the point lies outside the
// image's bounding box (extended by ~1e-6 mm). Fails with gerr.OutOfRange if
// frame itself is out of range.
func BilinearAt(img image.Image, frame int, y, x float32) (float32, bool, error) {
	size := img.Size()
	if frame < 0 || frame >= size.Frames {
		return 0, false, gerr.New(gerr.OutOfRange, "interp.BilinearAt", "frame out of range")
	}
	offset, spacing := img.Offset(), img.Spacing()
	if !axisInBounds(y, offset.Y, spacing.Y, size.Rows) || !axisInBounds(x, offset.X, spacing.X, size.Columns) {
		return 0, false, nil
	}

	j0, j1, yd := lowerIndexAndFrac(y, offset.Y, spacing.Y, size.Rows)
	i0, i1, xd := lowerIndexAndFrac(x, offset.X, spacing.X, size.Columns)

	c00 := img.Get(frame, j0, i0)
	c01 := img.Get(frame, j0, i1)
	c10 := img.Get(frame, j1, i0)
	c11 := img.Get(frame, j1, i1)

	c0 := c00*(1-xd) + c01*xd
	c1 := c10*(1-xd) + c11*xd
	return c0*(1-yd) + c1*yd, true, nil
}

// TrilinearAt samples img at physical (z,y,x) using trilinear interpolation.
// Returns (0, false) if the point lies outside the image's bounding box
// (extended by ~1e-6 mm).
func TrilinearAt(img image.Image, z, y, x float32) (float32, bool) {
	size := img.Size()
	offset, spacing := img.Offset(), img.Spacing()
	if !axisInBounds(z, offset.Z, spacing.Z, size.Frames) ||
		!axisInBounds(y, offset.Y, spacing.Y, size.Rows) ||
		!axisInBounds(x, offset.X, spacing.X, size.Columns) {
		return 0, false
	}

	k0, k1, zd := lowerIndexAndFrac(z, offset.Z, spacing.Z, size.Frames)
	j0, j1, yd := lowerIndexAndFrac(y, offset.Y, spacing.Y, size.Rows)
	i0, i1, xd := lowerIndexAndFrac(x, offset.X, spacing.X, size.Columns)

	c000 := img.Get(k0, j0, i0)
	c001 := img.Get(k0, j0, i1)
	c010 := img.Get(k0, j1, i0)
	c011 := img.Get(k0, j1, i1)
	c100 := img.Get(k1, j0, i0)
	c101 := img.Get(k1, j0, i1)
	c110 := img.Get(k1, j1, i0)
	c111 := img.Get(k1, j1, i1)

	c00 := c000*(1-xd) + c001*xd
	c01 := c010*(1-xd) + c011*xd
	c10 := c100*(1-xd) + c101*xd
	c11 := c110*(1-xd) + c111*xd

	c0 := c00*(1-yd) + c01*yd
	c1 := c10*(1-yd) + c11*yd

	return c0*(1-zd) + c1*zd, true
}
