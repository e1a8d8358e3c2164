package reasoner

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/linqs/psl-go/internal/parallel"
)

const (
	lowerBound = float32(0.0)
	upperBound = float32(1.0)
)

// A Result reports the outcome of one Optimize call. Running out of
// iterations without converging is not an error; it is reported here via
// Converged instead, since a caller may still want the best-effort values
// written back.
type Result struct {
	Iterations          int
	PrimalResidual      float32
	DualResidual        float32
	Objective           float32
	ViolatedConstraints int
	Converged           bool
}

// Reasoner drives a TermStore to a consensus using ADMM: alternating,
// per iteration, a parallel per-term minimization against the shared
// consensus values and a parallel per-variable averaging of the terms'
// local copies back into consensus.
type Reasoner struct {
	config  Config
	logger  *logrus.Logger
	metrics *Metrics
	pool    *parallel.Pool
}

// New validates cfg and returns a Reasoner. A nil logger gets a
// logrus.New() default (logging to stderr, Info level).
func New(cfg Config, logger *logrus.Logger) (*Reasoner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Reasoner{
		config: cfg,
		logger: logger,
		pool:   parallel.New(cfg.numThreads()),
	}, nil
}

// SetMetrics wires m into every subsequent Optimize call. Pass nil to
// disable metrics again.
func (r *Reasoner) SetMetrics(m *Metrics) {
	r.metrics = m
}

// Optimize iterates ADMM over store until convergence or the configured
// iteration budget is exhausted, then writes the resulting consensus
// values back to store's AtomStore. store must be non-empty.
func (r *Reasoner) Optimize(ctx context.Context, store *TermStore) (Result, error) {
	if store == nil {
		return Result{}, fmt.Errorf("%w: nil term store", ErrInvalidTermStore)
	}
	if store.NumTerms() == 0 {
		return Result{}, fmt.Errorf("%w: term store has no terms", ErrInvalidTermStore)
	}

	cfg := r.config
	rng := rand.New(rand.NewSource(cfg.Seed))

	store.ResetLocals(cfg.InitialLocalValue, rng)

	numTerms := store.NumTerms()
	numGlobals := store.NumGlobals()

	z := make([]float32, numGlobals)
	store.InitConsensus(cfg.InitialConsensusValue, z, rng)

	numWorkers := cfg.numThreads()
	termBlockSize := numTerms/(numWorkers*4) + 1
	variableBlockSize := numGlobals/(numWorkers*4) + 1
	numTermBlocks := ceilDiv(numTerms, termBlockSize)
	numVariableBlocks := ceilDiv(numGlobals, variableBlockSize)

	epsilonAbsTerm := sqrtf32(float32(store.NumLocals())) * cfg.EpsilonAbs

	r.logger.WithFields(logrus.Fields{
		"variables": numGlobals,
		"terms":     numTerms,
	}).Debug("performing ADMM optimization")

	var objective, oldObjective *objectiveResult
	var primalRes, dualRes, epsilonPrimal, epsilonDual float32

	iteration := 1
	for {
		termWorker := &termPhaseWorker{store: store, blockSize: termBlockSize, rho: cfg.StepSize, z: z}
		if _, err := r.pool.Run(ctx, numTermBlocks, termWorker); err != nil {
			return Result{}, err
		}

		varWorker := &variablePhaseWorker{store: store, blockSize: variableBlockSize, rho: cfg.StepSize, z: z}
		results, err := r.pool.Run(ctx, numVariableBlocks, varWorker)
		if err != nil {
			return Result{}, err
		}

		var stats blockStats
		for _, w := range results {
			stats.add(w.(*variablePhaseWorker).stats)
		}

		primalRes = sqrtf32(stats.primalRes)
		dualRes = cfg.StepSize * sqrtf32(stats.dualRes)

		epsilonPrimal = epsilonAbsTerm + cfg.EpsilonRel*maxf32(sqrtf32(stats.axNorm), sqrtf32(stats.bzNorm))
		epsilonDual = epsilonAbsTerm + cfg.EpsilonRel*sqrtf32(stats.ayNorm)

		if iteration%cfg.ComputePeriod == 0 {
			if !cfg.ObjectiveBreak {
				r.logger.WithFields(logrus.Fields{
					"iteration":      iteration,
					"primal":         primalRes,
					"dual":           dualRes,
					"epsilon_primal": epsilonPrimal,
					"epsilon_dual":   epsilonDual,
				}).Trace("ADMM iteration")
			} else {
				oldObjective = objective
				objective = r.computeObjective(store, z, false)
				r.logger.WithFields(logrus.Fields{
					"iteration": iteration,
					"objective": objective.objective,
					"feasible":  objective.violated == 0,
					"primal":    primalRes,
					"dual":      dualRes,
				}).Trace("ADMM iteration")
			}
		}

		r.metrics.observeIteration(iteration, primalRes, dualRes)
		iteration++

		if r.breakOptimization(iteration, cfg, primalRes, dualRes, epsilonPrimal, epsilonDual, objective, oldObjective) {
			// Recompute the objective before actually breaking so a
			// still-violated constraint can veto the break exactly once.
			objective = r.computeObjective(store, z, false)
			if r.breakOptimization(iteration, cfg, primalRes, dualRes, epsilonPrimal, epsilonDual, objective, oldObjective) {
				break
			}
		}
	}

	if objective == nil {
		objective = r.computeObjective(store, z, false)
	}

	r.logger.WithFields(logrus.Fields{
		"iterations": iteration - 1,
		"objective":  objective.objective,
		"feasible":   objective.violated == 0,
		"primal":     primalRes,
		"dual":       dualRes,
	}).Info("ADMM optimization completed")

	r.metrics.observeObjective(objective.violated)

	if objective.violated > 0 {
		r.logger.WithField("violated", objective.violated).Warn("no feasible solution found")
		r.computeObjective(store, z, true)
	}

	store.WriteBack(z)

	return Result{
		Iterations:          iteration - 1,
		PrimalResidual:      primalRes,
		DualResidual:        dualRes,
		Objective:           objective.objective,
		ViolatedConstraints: objective.violated,
		Converged:           objective.violated == 0 && primalRes < epsilonPrimal && dualRes < epsilonDual,
	}, nil
}

// breakOptimization decides whether Optimize's loop should stop: always
// break past maxIter, never break while a computed objective still
// reports violated constraints, break on convergence, and optionally
// break when the objective has stopped moving between checkpoints. A
// violated constraint vetoes the break so a still-infeasible solution
// always gets one more recomputed objective's worth of chance to settle
// before Optimize gives up.
func (r *Reasoner) breakOptimization(iteration int, cfg Config, primalRes, dualRes, epsilonPrimal, epsilonDual float32, objective, oldObjective *objectiveResult) bool {
	if iteration > cfg.MaxIterations {
		return true
	}

	if objective != nil && objective.violated > 0 {
		return false
	}

	if iteration > 1 && primalRes < epsilonPrimal && dualRes < epsilonDual {
		return true
	}

	if cfg.ObjectiveBreak && oldObjective != nil && objective != nil && floatEquals(objective.objective, oldObjective.objective) {
		return true
	}

	return false
}

type objectiveResult struct {
	objective float32
	violated  int
}

func (r *Reasoner) computeObjective(store *TermStore, z []float32, logViolated bool) *objectiveResult {
	var objective float32
	var violated int

	for i, term := range store.terms {
		v := term.Evaluate(z)
		if term.Kind.IsConstraint() {
			if v > 0 {
				violated++
				if logViolated {
					r.logger.WithFields(logrus.Fields{
						"term":       i,
						"kind":       term.Kind.String(),
						"comparator": term.Comparator.String(),
						"violation":  v,
					}).Trace("violated constraint")
				}
			}
		} else {
			objective += v
		}
	}

	return &objectiveResult{objective: objective, violated: violated}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func sqrtf32(v float32) float32 {
	if v < 0 {
		v = 0
	}
	return float32(math.Sqrt(float64(v)))
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
