package kernel

import (
	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/image"
	"github.com/itohio/EasyRobot/pkg/gamma/interp"
	"github.com/itohio/EasyRobot/pkg/gamma/params"
	"github.com/itohio/EasyRobot/pkg/gamma/search"
)

const zFrameTolerance = 1e-4

type wendling2D struct {
	ref, eval image.Image
	p         params.Parameters
	table     search.Table
	refC      classicCoords
}

// NewWendling2D builds the Wendling, 2D gamma kernel. Both images must have
// a single frame. table should be a disc (2D) search table.
func NewWendling2D(ref, eval image.Image, p params.Parameters, table search.Table) (Kernel, error) {
	const op = "kernel.NewWendling2D"
	if err := check2D(ref, op); err != nil {
		return nil, err
	}
	if err := check2D(eval, op); err != nil {
		return nil, err
	}
	return &wendling2D{ref: ref, eval: eval, p: p, table: table, refC: buildCoords(ref)}, nil
}

func (k *wendling2D) Len() int { return k.ref.Len() }

func (k *wendling2D) MustCompute(flat int) bool {
	return mustCompute(k.ref.Raw()[flat], k.p)
}

func (k *wendling2D) Voxel(flat int) float32 {
	_, j, i := unravel(flat, k.ref.Size())
	refDose := k.ref.Get(0, j, i)
	refY, refX := k.refC.y[j], k.refC.x[i]
	ddInvSq := ddInvSqFor(refDose, k.p)
	dtaInvSq := k.p.DTAInvSq()

	return searchMinGamma(k.eval, 0, refDose, refY, refX, k.table, k.p.StepSize, ddInvSq, dtaInvSq)
}

type wendling25D struct {
	ref      image.Image
	evalZ    image.Image // eval pre-interpolated onto ref's z-grid
	p        params.Parameters
	table    search.Table
	refC     classicCoords
	frameOK  []bool
	frameIdx []int
}

// NewWendling25D builds the Wendling, 2.5D gamma kernel: the evaluated
// volume is first linearly resampled along Z onto the reference image's
// z-grid, then each reference frame is matched to the interpolated frame at
// the same physical z. table should be a disc (2D, DZ=0) search table.
func NewWendling25D(ref, eval image.Image, p params.Parameters, table search.Table) (Kernel, error) {
	evalZ, err := interp.ResampleAxisByReference(eval, ref, interp.AxisZ)
	if err != nil {
		return nil, err
	}

	refC := buildCoords(ref)
	frames := ref.Frames()
	frameOK := make([]bool, frames)
	frameIdx := make([]int, frames)

	evalOffset, evalSpacing := evalZ.Offset(), evalZ.Spacing()
	for kf := 0; kf < frames; kf++ {
		m, ok := matchZFrame(evalOffset.Z, evalSpacing.Z, evalZ.Frames(), refC.z[kf])
		frameOK[kf] = ok
		frameIdx[kf] = m
	}

	return &wendling25D{ref: ref, evalZ: evalZ, p: p, table: table, refC: refC, frameOK: frameOK, frameIdx: frameIdx}, nil
}

// matchZFrame locates the z-grid frame index in an axis of the given
// offset/spacing/frame-count matching targetZ within zFrameTolerance.
func matchZFrame(offsetZ, spacingZ float32, frames int, targetZ float32) (int, bool) {
	if frames == 0 {
		return 0, false
	}
	if frames == 1 {
		return 0, math32.Abs(offsetZ-targetZ) <= zFrameTolerance
	}
	mf := (targetZ - offsetZ) / spacingZ
	m := int(math32.Round(mf))
	if m < 0 || m >= frames {
		return 0, false
	}
	z := offsetZ + float32(m)*spacingZ
	return m, math32.Abs(z-targetZ) <= zFrameTolerance
}

func (k *wendling25D) Len() int { return k.ref.Len() }

func (k *wendling25D) MustCompute(flat int) bool {
	kk, _, _ := unravel(flat, k.ref.Size())
	if !k.frameOK[kk] {
		return false
	}
	return mustCompute(k.ref.Raw()[flat], k.p)
}

func (k *wendling25D) Voxel(flat int) float32 {
	kk, j, i := unravel(flat, k.ref.Size())
	if !k.frameOK[kk] {
		return qnan
	}
	refDose := k.ref.Get(kk, j, i)
	refY, refX := k.refC.y[j], k.refC.x[i]
	ddInvSq := ddInvSqFor(refDose, k.p)
	dtaInvSq := k.p.DTAInvSq()

	return searchMinGamma(k.evalZ, k.frameIdx[kk], refDose, refY, refX, k.table, k.p.StepSize, ddInvSq, dtaInvSq)
}

type wendling3D struct {
	ref, eval image.Image
	p         params.Parameters
	table     search.Table
	refC      classicCoords
}

// NewWendling3D builds the Wendling, 3D gamma kernel. table should be a ball
// (3D) search table.
func NewWendling3D(ref, eval image.Image, p params.Parameters, table search.Table) (Kernel, error) {
	return &wendling3D{ref: ref, eval: eval, p: p, table: table, refC: buildCoords(ref)}, nil
}

func (k *wendling3D) Len() int { return k.ref.Len() }

func (k *wendling3D) MustCompute(flat int) bool {
	return mustCompute(k.ref.Raw()[flat], k.p)
}

func (k *wendling3D) Voxel(flat int) float32 {
	kk, j, i := unravel(flat, k.ref.Size())
	refDose := k.ref.Get(kk, j, i)
	refZ, refY, refX := k.refC.z[kk], k.refC.y[j], k.refC.x[i]
	ddInvSq := ddInvSqFor(refDose, k.p)
	dtaInvSq := k.p.DTAInvSq()

	gamma2min := float32(math32.Inf(1))
	found := false
	for _, off := range k.table.Offsets {
		distTerm := off.D2 * dtaInvSq
		if distTerm >= gamma2min {
			break
		}
		pz := refZ + float32(off.DZ)*k.p.StepSize
		py := refY + float32(off.DY)*k.p.StepSize
		px := refX + float32(off.DX)*k.p.StepSize
		v, ok := interp.TrilinearAt(k.eval, pz, py, px)
		if !ok {
			continue
		}
		dd := v - refDose
		g2 := dd*dd*ddInvSq + distTerm
		if g2 < gamma2min {
			gamma2min = g2
		}
		found = true
	}
	if !found {
		return qnan
	}
	return math32.Sqrt(gamma2min)
}

// searchMinGamma runs the shared 2D/2.5D Wendling search loop: it walks
// table's distance-sorted offsets, sampling frame of img by bilinear
// interpolation at each candidate point.
func searchMinGamma(img image.Image, frame int, refDose, refY, refX float32, table search.Table, stepSize, ddInvSq, dtaInvSq float32) float32 {
	gamma2min := float32(math32.Inf(1))
	found := false
	for _, off := range table.Offsets {
		distTerm := off.D2 * dtaInvSq
		if distTerm >= gamma2min {
			break
		}
		py := refY + float32(off.DY)*stepSize
		px := refX + float32(off.DX)*stepSize
		v, ok, err := interp.BilinearAt(img, frame, py, px)
		if err != nil || !ok {
			continue
		}
		dd := v - refDose
		g2 := dd*dd*ddInvSq + distTerm
		if g2 < gamma2min {
			gamma2min = g2
		}
		found = true
	}
	if !found {
		return qnan
	}
	return math32.Sqrt(gamma2min)
}
