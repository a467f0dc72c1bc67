// Package gamma computes the gamma index between a reference and an
// evaluated dose image: the single entry point is Compute.
package gamma

import (
	"github.com/rs/zerolog"

	"github.com/itohio/EasyRobot/pkg/gamma/dispatch"
	"github.com/itohio/EasyRobot/pkg/gamma/gammalog"
	"github.com/itohio/EasyRobot/pkg/gamma/image"
	"github.com/itohio/EasyRobot/pkg/gamma/kernel"
	"github.com/itohio/EasyRobot/pkg/gamma/params"
	"github.com/itohio/EasyRobot/pkg/gamma/result"
	"github.com/itohio/EasyRobot/pkg/gamma/search"
)

// Parameters is the complete, validated set of inputs a Compute call needs
// beyond the two images themselves.
type Parameters = params.Parameters

// Re-exported so callers never need to import pkg/gamma/params directly.
const (
	Global = params.Global
	Local  = params.Local

	Classic  = params.Classic
	Wendling = params.Wendling
)

type options struct {
	workers int
	logger  *zerolog.Logger
}

// Option configures a Compute call.
type Option func(*options)

// WithWorkers pins the worker-goroutine count, overriding
// Parameters.Workers. Without it, Parameters.Workers is used, and a value
// <= 0 there means runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger attaches a zerolog.Logger for boundary-level Debug events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.logger = &log }
}

// Compute runs the gamma-index comparison of eval against ref under params,
// dispatching to the 2D/2.5D/3D x Classic/Wendling kernel combination
// implied by params.Method and the images' frame counts.
func Compute(ref, eval image.Image, p Parameters, opts ...Option) (result.Result, error) {
	const op = "gamma.Compute"

	o := options{workers: p.Workers}
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.Validate(op); err != nil {
		return result.Result{}, err
	}

	log := gammalog.New(o.logger)

	k, queued, err := buildKernel(ref, eval, p, op)
	if err != nil {
		return result.Result{}, err
	}

	var out []float32
	if queued {
		out = dispatch.QueueDispatcher(k, o.workers, log)
	} else {
		out = dispatch.RangeDispatcher(k, o.workers, log)
	}

	img, err := image.New(out, ref.Size(), ref.Offset(), ref.Spacing())
	if err != nil {
		return result.Result{}, err
	}
	return result.New(img), nil
}

// buildKernel picks one of the six kernel call forms from the images' shape
// and params.Method, reporting whether the Wendling (queue) dispatcher
// should be used.
func buildKernel(ref, eval image.Image, p Parameters, op string) (kernel.Kernel, bool, error) {
	is2D := ref.Is2D() && eval.Is2D()
	sameFrames := ref.Frames() == eval.Frames()

	if p.Method == params.Classic {
		switch {
		case is2D:
			k, err := kernel.NewClassic2D(ref, eval, p)
			return k, false, err
		case sameFrames:
			k, err := kernel.NewClassic25D(ref, eval, p)
			return k, false, err
		default:
			k, err := kernel.NewClassic3D(ref, eval, p)
			return k, false, err
		}
	}

	switch {
	case is2D:
		table := wendlingTable(true, p)
		k, err := kernel.NewWendling2D(ref, eval, p, table)
		return k, true, err
	case sameFrames:
		// 2.5D resolves each frame independently, so its in-plane search
		// stays a DZ=0 disc just like the pure-2D case.
		table := wendlingTable(true, p)
		k, err := kernel.NewWendling25D(ref, eval, p, table)
		return k, true, err
	default:
		table := wendlingTable(false, p)
		k, err := kernel.NewWendling3D(ref, eval, p, table)
		return k, true, err
	}
}

func wendlingTable(disc bool, p Parameters) search.Table {
	if disc {
		return search.GenerateDisc(p.MaxSearchDistance, p.StepSize)
	}
	return search.GenerateBall(p.MaxSearchDistance, p.StepSize)
}
