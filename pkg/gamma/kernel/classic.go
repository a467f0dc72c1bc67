package kernel

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/gerr"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
	"github.com/itohio/EasyRobot/pkg/gamma/lane"
	"github.com/itohio/EasyRobot/pkg/gamma/params"
)

// classicCoords caches an image's per-axis physical coordinates so the inner
// loops never recompute offset+index*spacing.
type classicCoords struct {
	z, y, x []float32
}

func buildCoords(img image.Image) classicCoords {
	size, offset, spacing := img.Size(), img.Offset(), img.Spacing()
	c := classicCoords{
		z: make([]float32, size.Frames),
		y: make([]float32, size.Rows),
		x: make([]float32, size.Columns),
	}
	for k := range c.z {
		c.z[k] = offset.Z + float32(k)*spacing.Z
	}
	for j := range c.y {
		c.y[j] = offset.Y + float32(j)*spacing.Y
	}
	for i := range c.x {
		c.x[i] = offset.X + float32(i)*spacing.X
	}
	return c
}

type classic2D struct {
	ref, eval image.Image
	p         params.Parameters
	refC      classicCoords
	evalC     classicCoords
}

// NewClassic2D builds the Classic, 2D gamma kernel. Both images must have a
// single frame.
func NewClassic2D(ref, eval image.Image, p params.Parameters) (Kernel, error) {
	const op = "kernel.NewClassic2D"
	if err := check2D(ref, op); err != nil {
		return nil, err
	}
	if err := check2D(eval, op); err != nil {
		return nil, err
	}
	return &classic2D{ref: ref, eval: eval, p: p, refC: buildCoords(ref), evalC: buildCoords(eval)}, nil
}

func (k *classic2D) Len() int { return k.ref.Len() }

func (k *classic2D) MustCompute(flat int) bool {
	return mustCompute(k.ref.Raw()[flat], k.p)
}

func (k *classic2D) Voxel(flat int) float32 {
	_, j, i := unravel(flat, k.ref.Size())
	refDose := k.ref.Get(0, j, i)
	refY, refX := k.refC.y[j], k.refC.x[i]
	ddInvSq := ddInvSqFor(refDose, k.p)
	dtaInvSq := k.p.DTAInvSq()

	cols := k.eval.Columns()
	g2min := float32(math32.Inf(1))
	for j2 := 0; j2 < k.eval.Rows(); j2++ {
		row := k.eval.Raw()[j2*cols : (j2+1)*cols]
		g2 := lane.MinSquaredGammaRow(refDose, 0, refY, refX, 0, k.evalC.y[j2], row, k.evalC.x, ddInvSq, dtaInvSq)
		g2min = math32.Min(g2min, g2)
	}
	return math32.Sqrt(g2min)
}

type classic25D struct {
	ref, eval image.Image
	p         params.Parameters
	refC      classicCoords
	evalC     classicCoords
}

// NewClassic25D builds the Classic, 2.5D gamma kernel: evaluation is
// restricted to the evaluated frame matching the reference voxel's frame
// index. ref and eval must have the same frame count.
func NewClassic25D(ref, eval image.Image, p params.Parameters) (Kernel, error) {
	const op = "kernel.NewClassic25D"
	if ref.Frames() != eval.Frames() {
		return nil, gerr.New(gerr.DimensionMismatch, op, "reference and evaluated frame counts differ")
	}
	return &classic25D{ref: ref, eval: eval, p: p, refC: buildCoords(ref), evalC: buildCoords(eval)}, nil
}

func (k *classic25D) Len() int { return k.ref.Len() }

func (k *classic25D) MustCompute(flat int) bool {
	return mustCompute(k.ref.Raw()[flat], k.p)
}

func (k *classic25D) Voxel(flat int) float32 {
	kk, j, i := unravel(flat, k.ref.Size())
	refDose := k.ref.Get(kk, j, i)
	refZ, refY, refX := k.refC.z[kk], k.refC.y[j], k.refC.x[i]
	evalZ := k.evalC.z[kk]
	ddInvSq := ddInvSqFor(refDose, k.p)
	dtaInvSq := k.p.DTAInvSq()

	rows, cols := k.eval.Rows(), k.eval.Columns()
	base := kk * rows * cols
	g2min := float32(math32.Inf(1))
	for j2 := 0; j2 < rows; j2++ {
		row := k.eval.Raw()[base+j2*cols : base+(j2+1)*cols]
		g2 := lane.MinSquaredGammaRow(refDose, refZ, refY, refX, evalZ, k.evalC.y[j2], row, k.evalC.x, ddInvSq, dtaInvSq)
		g2min = math32.Min(g2min, g2)
	}
	return math32.Sqrt(g2min)
}

type classic3D struct {
	ref, eval image.Image
	p         params.Parameters
	refC      classicCoords
	evalC     classicCoords
}

// NewClassic3D builds the Classic, 3D gamma kernel: every reference voxel is
// compared against every evaluated voxel in the entire volume.
func NewClassic3D(ref, eval image.Image, p params.Parameters) (Kernel, error) {
	return &classic3D{ref: ref, eval: eval, p: p, refC: buildCoords(ref), evalC: buildCoords(eval)}, nil
}

func (k *classic3D) Len() int { return k.ref.Len() }

func (k *classic3D) MustCompute(flat int) bool {
	return mustCompute(k.ref.Raw()[flat], k.p)
}

func (k *classic3D) Voxel(flat int) float32 {
	kk, j, i := unravel(flat, k.ref.Size())
	refDose := k.ref.Get(kk, j, i)
	refZ, refY, refX := k.refC.z[kk], k.refC.y[j], k.refC.x[i]
	ddInvSq := ddInvSqFor(refDose, k.p)
	dtaInvSq := k.p.DTAInvSq()

	rows, cols := k.eval.Rows(), k.eval.Columns()
	g2min := float32(math32.Inf(1))
	for k2 := 0; k2 < k.eval.Frames(); k2++ {
		base := k2 * rows * cols
		evalZ := k.evalC.z[k2]
		for j2 := 0; j2 < rows; j2++ {
			row := k.eval.Raw()[base+j2*cols : base+(j2+1)*cols]
			g2 := lane.MinSquaredGammaRow(refDose, refZ, refY, refX, evalZ, k.evalC.y[j2], row, k.evalC.x, ddInvSq, dtaInvSq)
			g2min = math32.Min(g2min, g2)
		}
	}
	return math32.Sqrt(g2min)
}
