// Package search builds the distance-sorted lattice offset tables the
// Wendling gamma kernel walks for each reference voxel.
package search

import (
	"math"
	"sort"

	"github.com/chewxy/math32"
)

// Offset is one lattice point of a search table: the displacement (DZ,DY,DX)
// in units of the table's StepSize and its squared physical distance D2 from
// the origin.
type Offset struct {
	DZ, DY, DX int
	D2         float32
}

// Table is an immutable, distance-sorted list of Offset produced by
// GenerateBall or GenerateDisc. The origin always comes first. The list is
// built once per gamma call and shared by read-only reference across every
// worker and every voxel.
type Table struct {
	Offsets  []Offset
	Radius   float32
	StepSize float32
}

const tol = 1e-5

// GenerateBall builds a 3-D search table: every lattice point of pitch
// stepSize within radius (inclusive, within tol) of the origin, sorted
// ascending by squared distance and, for ties, lexicographically by
// (DZ,DY,DX).
func GenerateBall(radius, stepSize float32) Table {
	maxN := int(math32.Floor(radius/stepSize)) + 1
	capacity := ballCapacity(radius, stepSize)
	offsets := make([]Offset, 0, capacity)

	limit := (radius + tol) * (radius + tol)
	for z := 0; z <= maxN; z++ {
		for y := 0; y <= z; y++ {
			for x := 0; x <= y; x++ {
				d2 := stepSize * stepSize * float32(x*x+y*y+z*z)
				if d2 > limit {
					continue
				}
				offsets = appendSignedPermutations(offsets, x, y, z, d2, true)
			}
		}
	}

	sortOffsets(offsets)
	return Table{Offsets: offsets, Radius: radius, StepSize: stepSize}
}

// GenerateDisc builds a 2-D search table (DZ always 0): every lattice point
// of pitch stepSize within radius of the origin in the (DY,DX) plane, sorted
// the same way as GenerateBall.
func GenerateDisc(radius, stepSize float32) Table {
	maxN := int(math32.Floor(radius/stepSize)) + 1
	capacity := discCapacity(radius, stepSize)
	offsets := make([]Offset, 0, capacity)

	limit := (radius + tol) * (radius + tol)
	for y := 0; y <= maxN; y++ {
		for x := 0; x <= y; x++ {
			d2 := stepSize * stepSize * float32(x*x+y*y)
			if d2 > limit {
				continue
			}
			offsets = appendSignedPermutations(offsets, x, y, 0, d2, false)
		}
	}

	sortOffsets(offsets)
	return Table{Offsets: offsets, Radius: radius, StepSize: stepSize}
}

// appendSignedPermutations materializes every permutation of (x,y,z) and
// every sign-flip of its nonzero coordinates, appending distinct entries to
// dst. When include3rd is false, z is held fixed at 0 for every emitted
// point (2-D disc case).
func appendSignedPermutations(dst []Offset, x, y, z int, d2 float32, include3rd bool) []Offset {
	seen := make(map[[3]int]struct{}, 48)
	for _, p := range permutations3(x, y, z) {
		if !include3rd && p[0] != 0 {
			continue
		}
		for _, s := range signFlips(p) {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			dst = append(dst, Offset{DZ: s[0], DY: s[1], DX: s[2], D2: d2})
		}
	}
	return dst
}

// permutations3 returns the distinct permutations of (a,b,c), collapsing
// duplicates produced by equal coordinates.
func permutations3(a, b, c int) [][3]int {
	idx := [][3]int{
		{a, b, c}, {a, c, b}, {b, a, c},
		{b, c, a}, {c, a, b}, {c, b, a},
	}
	seen := make(map[[3]int]struct{}, 6)
	out := make([][3]int, 0, 6)
	for _, p := range idx {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// signFlips returns every combination of +/- signs applied to the nonzero
// entries of p, leaving zero entries as zero.
func signFlips(p [3]int) [][3]int {
	out := [][3]int{{p[0], p[1], p[2]}}
	for axis := 0; axis < 3; axis++ {
		if p[axis] == 0 {
			continue
		}
		next := make([][3]int, 0, len(out)*2)
		for _, q := range out {
			next = append(next, q)
			flipped := q
			flipped[axis] = -flipped[axis]
			next = append(next, flipped)
		}
		out = next
	}
	return out
}

func sortOffsets(offsets []Offset) {
	sort.SliceStable(offsets, func(i, j int) bool {
		if offsets[i].D2 != offsets[j].D2 {
			return offsets[i].D2 < offsets[j].D2
		}
		if offsets[i].DZ != offsets[j].DZ {
			return offsets[i].DZ < offsets[j].DZ
		}
		if offsets[i].DY != offsets[j].DY {
			return offsets[i].DY < offsets[j].DY
		}
		return offsets[i].DX < offsets[j].DX
	})
}

// ballCapacity estimates the lattice point count of a ball of the given
// radius at the given pitch, to pre-reserve the offset slice.
func ballCapacity(radius, stepSize float32) int {
	n := float64(radius / stepSize)
	return int(4.0/3.0*math.Pi*n*n*n) + 8
}

// discCapacity estimates the lattice point count of a disc of the given
// radius at the given pitch, to pre-reserve the offset slice.
func discCapacity(radius, stepSize float32) int {
	n := float64(radius / stepSize)
	return int(math.Pi*n*n) + 8
}
