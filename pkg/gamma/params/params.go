// Package params defines the gamma-index computation's parameter record,
// shared by the kernel, dispatch, and facade packages without pulling the
// facade's import into the lower layers.
package params

import "github.com/itohio/EasyRobot/pkg/gamma/gerr"

// Normalization selects how the dose-difference term is normalized.
type Normalization int

const (
	// Global normalizes every voxel's dose difference against a single fixed
	// dose (GlobalNormDose).
	Global Normalization = iota
	// Local normalizes each voxel's dose difference against its own
	// reference dose.
	Local
)

func (n Normalization) String() string {
	switch n {
	case Local:
		return "local"
	default:
		return "global"
	}
}

// Method selects the search strategy a gamma kernel uses.
type Method int

const (
	// Classic exhaustively compares every reference voxel against every
	// evaluated voxel.
	Classic Method = iota
	// Wendling walks a distance-sorted search-offset table with on-the-fly
	// interpolation and early termination.
	Wendling
)

func (m Method) String() string {
	switch m {
	case Wendling:
		return "wendling"
	default:
		return "classic"
	}
}

// Parameters is the complete, validated set of inputs a gamma call needs
// beyond the two images themselves.
type Parameters struct {
	DDThreshold       float32       `yaml:"dd_threshold" json:"dd_threshold"`
	DTAThreshold      float32       `yaml:"dta_threshold" json:"dta_threshold"`
	Normalization     Normalization `yaml:"normalization" json:"normalization"`
	GlobalNormDose    float32       `yaml:"global_norm_dose" json:"global_norm_dose"`
	DoseCutoff        float32       `yaml:"dose_cutoff" json:"dose_cutoff"`
	Method            Method        `yaml:"method" json:"method"`
	MaxSearchDistance float32 `yaml:"max_search_distance" json:"max_search_distance"`
	StepSize          float32 `yaml:"step_size" json:"step_size"`
	// Workers pins the worker-goroutine count. Values <= 0 mean
	// runtime.GOMAXPROCS(0), resolved by the dispatcher, not here.
	Workers int `yaml:"workers" json:"workers"`
}

// Validate checks every invariant the spec places on Parameters, independent
// of any image shape. gamma.Compute and config.LoadFromReader call this
// before any allocation; the kernel constructors in pkg/gamma/kernel do not
// call it and accept whatever Parameters they are given.
func (p Parameters) Validate(op string) error {
	if p.DDThreshold <= 0 {
		return gerr.New(gerr.InvalidParameter, op, "dd threshold must be positive")
	}
	if p.DTAThreshold <= 0 {
		return gerr.New(gerr.InvalidParameter, op, "dta threshold must be positive")
	}
	if p.DoseCutoff < 0 {
		return gerr.New(gerr.InvalidParameter, op, "dose cutoff must be non-negative")
	}
	switch p.Normalization {
	case Global:
		if p.GlobalNormDose <= 0 {
			return gerr.New(gerr.InvalidParameter, op, "global norm dose must be positive")
		}
	case Local:
	default:
		return gerr.New(gerr.InvalidParameter, op, "unknown normalization variant")
	}
	if p.Method == Wendling {
		if p.MaxSearchDistance <= 0 {
			return gerr.New(gerr.InvalidParameter, op, "max search distance must be positive")
		}
		if p.StepSize <= 0 {
			return gerr.New(gerr.InvalidParameter, op, "step size must be positive")
		}
		if p.StepSize > p.MaxSearchDistance {
			return gerr.New(gerr.InvalidParameter, op, "step size must not exceed max search distance")
		}
	}
	return nil
}

// DDInvSq returns 1/DD^2 for the Global variant, where DD is the absolute
// dose-difference normalization denominator. Not valid for Local, where the
// denominator depends on each voxel's own reference dose.
func (p Parameters) DDInvSq() float32 {
	dd := (p.DDThreshold / 100) * p.GlobalNormDose
	return 1 / (dd * dd)
}

// LocalDDInvSq returns 1/DD^2 for a single voxel's reference dose under the
// Local variant.
func (p Parameters) LocalDDInvSq(refDose float32) float32 {
	dd := (p.DDThreshold / 100) * refDose
	return 1 / (dd * dd)
}

// DTAInvSq returns 1/DTA^2, constant across every voxel and variant.
func (p Parameters) DTAInvSq() float32 {
	return 1 / (p.DTAThreshold * p.DTAThreshold)
}
