//go:build !release

package image

import "fmt"

// debugBoundsCheck panics on an out-of-range flat index. Compiled in by default;
// the release build tag (-tags release) strips it to a no-op for the hot path.
func debugBoundsCheck(index, size int) {
	if index < 0 || index >= size {
		panic(fmt.Sprintf("image: index %d out of range [0,%d)", index, size))
	}
}
