package reasoner

import (
	"fmt"
	"runtime"
)

// Config controls one Reasoner's ADMM solve: iteration budget, step size,
// convergence tolerances, and initial-value policy. It is passed
// explicitly to New rather than read from package-level state, so
// multiple Reasoners with different settings can coexist in one process.
type Config struct {
	// MaxIterations upper-bounds the number of ADMM iterations.
	MaxIterations int
	// StepSize is rho, the ADMM augmentation penalty, fixed for a solve.
	StepSize float32
	// EpsilonAbs is the absolute convergence tolerance.
	EpsilonAbs float32
	// EpsilonRel is the relative convergence tolerance.
	EpsilonRel float32
	// ComputePeriod is the number of iterations between trace log lines;
	// when ObjectiveBreak is set, the full objective is also recomputed at
	// each of these checkpoints.
	ComputePeriod int
	// ObjectiveBreak, if true, also stops iteration once the objective
	// stops moving between ComputePeriod checkpoints.
	ObjectiveBreak bool
	// InitialConsensusValue selects how z[] is populated before the loop.
	InitialConsensusValue InitialValue
	// InitialLocalValue selects how each local x is populated before the
	// loop.
	InitialLocalValue InitialValue
	// NumThreads bounds how many term/variable blocks run concurrently.
	// 0 means runtime.GOMAXPROCS(0).
	NumThreads int
	// Seed seeds the Random initial-value policy, so a fixed Config
	// reproduces the same warm start across runs.
	Seed int64
}

// DefaultConfig returns reasonable defaults for a first solve: a generous
// iteration budget, unit step size, tight tolerances, and a zero-valued
// warm start.
func DefaultConfig() Config {
	return Config{
		MaxIterations:         25000,
		StepSize:              1.0,
		EpsilonAbs:            1e-5,
		EpsilonRel:            1e-3,
		ComputePeriod:         50,
		ObjectiveBreak:        false,
		InitialConsensusValue: Zero,
		InitialLocalValue:     Zero,
		NumThreads:            0,
		Seed:                  0,
	}
}

// Validate reports a non-positive step size, a non-positive iteration
// budget, a negative tolerance, a non-positive compute period, or an
// initial-value policy other than Zero, Random or Atom.
func (c Config) Validate() error {
	if c.StepSize <= 0 {
		return fmt.Errorf("%w: step size must be positive, got %v", ErrInvalidConfig, c.StepSize)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.EpsilonAbs < 0 {
		return fmt.Errorf("%w: epsilon abs must be non-negative, got %v", ErrInvalidConfig, c.EpsilonAbs)
	}
	if c.EpsilonRel < 0 {
		return fmt.Errorf("%w: epsilon rel must be non-negative, got %v", ErrInvalidConfig, c.EpsilonRel)
	}
	if c.ComputePeriod <= 0 {
		return fmt.Errorf("%w: compute period must be positive, got %d", ErrInvalidConfig, c.ComputePeriod)
	}
	if c.InitialConsensusValue > Atom {
		return fmt.Errorf("%w: unknown initial consensus value %d", ErrInvalidConfig, c.InitialConsensusValue)
	}
	if c.InitialLocalValue > Atom {
		return fmt.Errorf("%w: unknown initial local value %d", ErrInvalidConfig, c.InitialLocalValue)
	}
	return nil
}

// numThreads resolves NumThreads's 0-means-auto convention.
func (c Config) numThreads() int {
	if c.NumThreads > 0 {
		return c.NumThreads
	}
	return runtime.GOMAXPROCS(0)
}
