// Package dispatch parallelizes a kernel.Kernel across the reference
// image's voxels. Two strategies are offered because the two search
// methods have very different per-voxel cost profiles: Classic kernels
// do a fixed amount of work per must-compute voxel, so RangeDispatcher
// balances by splitting the must-compute set itself into even shares;
// Wendling kernels have highly variable per-voxel cost (the search
// breaks out early at different offsets depending on local dose
// agreement), so QueueDispatcher hands out small chunks on demand to
// avoid one slow region stalling the whole run.
package dispatch

import (
	"runtime"
	"sync"

	"github.com/chewxy/math32"

	"github.com/itohio/EasyRobot/pkg/gamma/gammalog"
)

var qnan = math32.NaN()

// Kernel is the subset of kernel.Kernel dispatch depends on. Declared
// locally so this package does not need to import the kernel package.
type Kernel interface {
	Len() int
	MustCompute(flat int) bool
	Voxel(flat int) float32
}

func resolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0)
	if n <= 0 {
		n = 1
	}
	return n
}

// RangeDispatcher computes every cell of k, parallelized for the Classic
// kernels' roughly-uniform per-voxel cost: it first sweeps the reference
// image once to mark skipped (non-must-compute) cells NaN and collect the
// flat indices that do need work, then splits that index list into T
// evenly sized shares, one per worker. Falls back to inline, sequential
// execution when there is at most one worker or one share of work.
func RangeDispatcher(k Kernel, workers int, log gammalog.Logger) []float32 {
	const op = "dispatch.RangeDispatcher"
	n := k.Len()
	out := make([]float32, n)

	work := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if k.MustCompute(i) {
			work = append(work, i)
		} else {
			out[i] = qnan
		}
	}

	t := resolveWorkers(workers)
	if t > len(work) {
		t = len(work)
	}
	log.DispatchStart(op, n, t)

	if t <= 1 {
		for _, idx := range work {
			out[idx] = k.Voxel(idx)
		}
		log.DispatchDone(op, len(work))
		return out
	}

	share := (len(work) + t - 1) / t
	var wg sync.WaitGroup
	for start := 0; start < len(work); start += share {
		end := start + share
		if end > len(work) {
			end = len(work)
		}
		wg.Add(1)
		go func(indices []int) {
			defer wg.Done()
			for _, idx := range indices {
				out[idx] = k.Voxel(idx)
			}
		}(work[start:end])
	}
	wg.Wait()
	log.DispatchDone(op, len(work))
	return out
}

// queueChunkSize caps how many flat indices a single queue task covers, so
// a worker that draws an expensive (high search-offset-count) run of cells
// doesn't hog a disproportionate share of the total work.
const queueChunkSize = 256

type chunk struct {
	start, end int
}

// QueueDispatcher computes every cell of k, parallelized for the Wendling
// kernels' variable per-voxel cost: the flat index range is cut into small
// chunks fed through a shared channel, and T workers pull chunks until the
// channel is drained, so a worker that lands on expensive cells simply
// pulls fewer chunks overall rather than blocking the others.
func QueueDispatcher(k Kernel, workers int, log gammalog.Logger) []float32 {
	const op = "dispatch.QueueDispatcher"
	n := k.Len()
	out := make([]float32, n)
	if n == 0 {
		return out
	}

	t := resolveWorkers(workers)
	chunkSize := n / t
	if chunkSize <= 0 {
		chunkSize = 1
	}
	if chunkSize > queueChunkSize {
		chunkSize = queueChunkSize
	}
	if t > (n+chunkSize-1)/chunkSize {
		t = (n + chunkSize - 1) / chunkSize
	}
	log.DispatchStart(op, n, t)

	tasks := make(chan chunk, t*2)
	go func() {
		for start := 0; start < n; start += chunkSize {
			end := start + chunkSize
			if end > n {
				end = n
			}
			tasks <- chunk{start: start, end: end}
		}
		close(tasks)
	}()

	runWorker := func() {
		for c := range tasks {
			for i := c.start; i < c.end; i++ {
				if !k.MustCompute(i) {
					out[i] = qnan
					continue
				}
				out[i] = k.Voxel(i)
			}
		}
	}

	if t <= 1 {
		runWorker()
		log.DispatchDone(op, n)
		return out
	}

	var wg sync.WaitGroup
	wg.Add(t)
	for w := 0; w < t; w++ {
		go func() {
			defer wg.Done()
			runWorker()
		}()
	}
	wg.Wait()
	log.DispatchDone(op, n)
	return out
}
