package image

import "github.com/itohio/EasyRobot/pkg/gamma/gerr"

// Slice2D returns a single-frame Image holding the physical slice through the
// named plane at the given frame index. For Axial, frame indexes Z and the
// returned image's (rows,columns) are (Y,X); for Coronal, frame indexes Y and
// (rows,columns) are (Z,X); for Sagittal, frame indexes X and (rows,columns)
// are (Z,Y). The returned image's own Frames()==1 and its spacing's frame slot
// is 0, matching the source axis it collapsed.
func (img Image) Slice2D(frame int, plane Plane) (Image, error) {
	switch plane {
	case Axial:
		if frame < 0 || frame >= img.size.Frames {
			return Image{}, gerr.New(gerr.OutOfRange, "image.Slice2D", "frame out of range")
		}
		data := make([]float32, img.size.Rows*img.size.Columns)
		copy(data, img.data[frame*img.size.Rows*img.size.Columns:(frame+1)*img.size.Rows*img.size.Columns])
		z, _, _ := img.PhysicalCoord(frame, 0, 0)
		off := Offset{Z: z, Y: img.offset.Y, X: img.offset.X}
		sp := Spacing{Z: 0, Y: img.spacing.Y, X: img.spacing.X}
		return New(data, Size{1, img.size.Rows, img.size.Columns}, off, sp)
	case Coronal:
		if frame < 0 || frame >= img.size.Rows {
			return Image{}, gerr.New(gerr.OutOfRange, "image.Slice2D", "frame out of range")
		}
		data := make([]float32, img.size.Frames*img.size.Columns)
		idx := 0
		for k := 0; k < img.size.Frames; k++ {
			for i := 0; i < img.size.Columns; i++ {
				data[idx] = img.Get(k, frame, i)
				idx++
			}
		}
		_, y, _ := img.PhysicalCoord(0, frame, 0)
		off := Offset{Z: y, Y: img.offset.Z, X: img.offset.X}
		sp := Spacing{Z: 0, Y: img.spacing.Z, X: img.spacing.X}
		return New(data, Size{1, img.size.Frames, img.size.Columns}, off, sp)
	case Sagittal:
		if frame < 0 || frame >= img.size.Columns {
			return Image{}, gerr.New(gerr.OutOfRange, "image.Slice2D", "frame out of range")
		}
		data := make([]float32, img.size.Frames*img.size.Rows)
		idx := 0
		for k := 0; k < img.size.Frames; k++ {
			for j := 0; j < img.size.Rows; j++ {
				data[idx] = img.Get(k, j, frame)
				idx++
			}
		}
		_, _, x := img.PhysicalCoord(0, 0, frame)
		off := Offset{Z: x, Y: img.offset.Z, X: img.offset.Y}
		sp := Spacing{Z: 0, Y: img.spacing.Z, X: img.spacing.Y}
		return New(data, Size{1, img.size.Frames, img.size.Rows}, off, sp)
	default:
		return Image{}, gerr.New(gerr.InvalidParameter, "image.Slice2D", "unknown plane")
	}
}

// Permute3D returns a re-permutation of the whole volume so that the "frames"
// axis of the result represents the named plane's fixed axis: Axial is the
// identity permutation (frames=Z,rows=Y,cols=X); Coronal yields
// (frames=Y,rows=Z,cols=X); Sagittal yields (frames=X,rows=Z,cols=Y).
// Offset and spacing are permuted to match.
func (img Image) Permute3D(plane Plane) (Image, error) {
	switch plane {
	case Axial:
		return New(append([]float32(nil), img.data...), img.size, img.offset, img.spacing)
	case Coronal:
		newSize := Size{Frames: img.size.Rows, Rows: img.size.Frames, Columns: img.size.Columns}
		data := make([]float32, len(img.data))
		out := 0
		for j := 0; j < img.size.Rows; j++ {
			for k := 0; k < img.size.Frames; k++ {
				for i := 0; i < img.size.Columns; i++ {
					data[out] = img.Get(k, j, i)
					out++
				}
			}
		}
		off := Offset{Z: img.offset.Y, Y: img.offset.Z, X: img.offset.X}
		sp := Spacing{Z: img.spacing.Y, Y: img.spacing.Z, X: img.spacing.X}
		return New(data, newSize, off, sp)
	case Sagittal:
		newSize := Size{Frames: img.size.Columns, Rows: img.size.Frames, Columns: img.size.Rows}
		data := make([]float32, len(img.data))
		out := 0
		for i := 0; i < img.size.Columns; i++ {
			for k := 0; k < img.size.Frames; k++ {
				for j := 0; j < img.size.Rows; j++ {
					data[out] = img.Get(k, j, i)
					out++
				}
			}
		}
		off := Offset{Z: img.offset.X, Y: img.offset.Z, X: img.offset.Y}
		sp := Spacing{Z: img.spacing.X, Y: img.spacing.Z, X: img.spacing.Y}
		return New(data, newSize, off, sp)
	default:
		return Image{}, gerr.New(gerr.InvalidParameter, "image.Permute3D", "unknown plane")
	}
}
