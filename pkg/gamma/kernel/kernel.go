// Package kernel implements the per-voxel gamma-index computation: three
// dimensionalities (2D, 2.5D, 3D) crossed with two search strategies
// (Classic, Wendling), six call forms in total.
package kernel

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
	"github.com/itohio/EasyRobot/pkg/gamma/params"
)

// Kernel computes one output cell at a time, addressed by flat index into
// the reference image's buffer. Workers call Voxel only for indices where
// MustCompute reports true; all other cells are NaN by construction.
type Kernel interface {
	// Len is the reference image's total voxel count.
	Len() int
	// MustCompute reports whether the reference voxel at flat passes the
	// dose-cutoff and Local-normalization preconditions.
	MustCompute(flat int) bool
	// Voxel computes the gamma value at flat. Undefined (may be anything,
	// including NaN) when MustCompute(flat) is false.
	Voxel(flat int) float32
}

var qnan = math32.NaN()

func unravel(flat int, size image.Size) (k, j, i int) {
	rc := size.Rows * size.Columns
	k = flat / rc
	rem := flat % rc
	j = rem / size.Columns
	i = rem % size.Columns
	return
}

// mustCompute implements the shared dose-cutoff / Local-div-by-zero
// precondition every kernel variant applies identically.
func mustCompute(refDose float32, p params.Parameters) bool {
	if refDose < p.DoseCutoff {
		return false
	}
	if p.Normalization == params.Local && refDose == 0 {
		return false
	}
	return true
}

// ddInvSqFor returns the DD-normalization inverse-square term for one
// reference voxel, dispatching on Local vs Global.
func ddInvSqFor(refDose float32, p params.Parameters) float32 {
	if p.Normalization == params.Local {
		return p.LocalDDInvSq(refDose)
	}
	return p.DDInvSq()
}

func check2D(img image.Image, op string) error {
	if img.Frames() != 1 {
		return gerr.New(gerr.DimensionMismatch, op, "image must have a single frame for a 2D kernel")
	}
	return nil
}
