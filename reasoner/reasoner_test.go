package reasoner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linqs/psl-go/reasoner"
)

func closeEnough(t *testing.T, got, want, tol float32) {
	t.Helper()
	d := got - want
	if d < 0 {
		d = -d
	}
	assert.LessOrEqualf(t, d, tol, "got %v, want %v (tolerance %v)", got, want, tol)
}

// TestOptimizeSingleHingeConverges runs a single unweighted hinge penalty
// over one atom and checks it settles at the trivially feasible point.
func TestOptimizeSingleHingeConverges(t *testing.T) {
	atoms := reasoner.NewMapAtomStore()
	store := reasoner.NewTermStore(1, atoms)
	_, err := store.Add(reasoner.TermSpec{
		Kind:         reasoner.Hinge,
		Weight:       1,
		Coefficients: []float32{1},
		Constant:     0.3,
		Variables:    []int{0},
	})
	require.NoError(t, err)

	r, err := reasoner.New(reasoner.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := r.Optimize(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	closeEnough(t, atoms.AtomValue(0), 0, 1e-3)
}

// TestOptimizeEqualityConstraintConverges pins two atoms to sum to 1.
func TestOptimizeEqualityConstraintConverges(t *testing.T) {
	atoms := reasoner.NewMapAtomStore()
	store := reasoner.NewTermStore(2, atoms)
	_, err := store.Add(reasoner.TermSpec{
		Kind:         reasoner.LinearEquality,
		Coefficients: []float32{1, 1},
		Constant:     1.0,
		Variables:    []int{0, 1},
	})
	require.NoError(t, err)

	r, err := reasoner.New(reasoner.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := r.Optimize(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ViolatedConstraints)
	closeEnough(t, atoms.AtomValue(0)+atoms.AtomValue(1), 1.0, 1e-3)
}

// TestOptimizeInequalityConstraintConverges forces an atom above a floor.
func TestOptimizeInequalityConstraintConverges(t *testing.T) {
	atoms := reasoner.NewMapAtomStore()
	atoms.SetAtomValue(0, 0.1)
	store := reasoner.NewTermStore(1, atoms)
	_, err := store.Add(reasoner.TermSpec{
		Kind:         reasoner.LinearInequality,
		Comparator:   reasoner.GE,
		Coefficients: []float32{1},
		Constant:     0.6,
		Variables:    []int{0},
	})
	require.NoError(t, err)

	cfg := reasoner.DefaultConfig()
	cfg.InitialConsensusValue = reasoner.Atom
	cfg.InitialLocalValue = reasoner.Atom
	r, err := reasoner.New(cfg, nil)
	require.NoError(t, err)

	result, err := r.Optimize(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ViolatedConstraints)
	assert.GreaterOrEqual(t, atoms.AtomValue(0), float32(0.6)-1e-3)
}

// TestOptimizeCoupledSquaredHingesAverageTowardAgreement ties two
// squared-hinge penalties on the same atom toward different targets and
// checks the consensus settles between them rather than at either extreme.
func TestOptimizeCoupledSquaredHingesAverageTowardAgreement(t *testing.T) {
	atoms := reasoner.NewMapAtomStore()
	store := reasoner.NewTermStore(1, atoms)
	_, err := store.Add(reasoner.TermSpec{
		Kind: reasoner.SquaredHinge, Weight: 1, Coefficients: []float32{1}, Constant: 0.2, Variables: []int{0},
	})
	require.NoError(t, err)
	_, err = store.Add(reasoner.TermSpec{
		Kind: reasoner.SquaredHinge, Weight: 1, Coefficients: []float32{-1}, Constant: -0.8, Variables: []int{0},
	})
	require.NoError(t, err)

	r, err := reasoner.New(reasoner.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := r.Optimize(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	v := atoms.AtomValue(0)
	assert.GreaterOrEqual(t, v, float32(0.2)-1e-3)
	assert.LessOrEqual(t, v, float32(0.8)+1e-3)
}

// TestOptimizeInfeasibleConstraintsReportViolation gives the reasoner two
// equality constraints on the same atom that cannot both hold and checks
// the result still reports a residual violation rather than an error.
func TestOptimizeInfeasibleConstraintsReportViolation(t *testing.T) {
	atoms := reasoner.NewMapAtomStore()
	store := reasoner.NewTermStore(1, atoms)
	_, err := store.Add(reasoner.TermSpec{
		Kind: reasoner.LinearEquality, Coefficients: []float32{1}, Constant: 0.0, Variables: []int{0},
	})
	require.NoError(t, err)
	_, err = store.Add(reasoner.TermSpec{
		Kind: reasoner.LinearEquality, Coefficients: []float32{1}, Constant: 1.0, Variables: []int{0},
	})
	require.NoError(t, err)

	cfg := reasoner.DefaultConfig()
	cfg.MaxIterations = 2000
	r, err := reasoner.New(cfg, nil)
	require.NoError(t, err)

	result, err := r.Optimize(context.Background(), store)
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Greater(t, result.ViolatedConstraints, 0)
}

// TestOptimizeIsDeterministicAcrossThreadCounts checks a fixed seed gives
// the same converged values whether the block partition forces
// parallelism or collapses it to a single worker.
func TestOptimizeIsDeterministicAcrossThreadCounts(t *testing.T) {
	build := func() (*reasoner.TermStore, *reasoner.MapAtomStore) {
		atoms := reasoner.NewMapAtomStore()
		store := reasoner.NewTermStore(4, atoms)
		for g := 0; g < 4; g++ {
			_, err := store.Add(reasoner.TermSpec{
				Kind: reasoner.SquaredHinge, Weight: 1, Coefficients: []float32{1}, Constant: 0.25, Variables: []int{g},
			})
			require.NoError(t, err)
		}
		_, err := store.Add(reasoner.TermSpec{
			Kind:         reasoner.LinearEquality,
			Coefficients: []float32{1, 1, 1, 1},
			Constant:     2.0,
			Variables:    []int{0, 1, 2, 3},
		})
		require.NoError(t, err)
		return store, atoms
	}

	run := func(numThreads int) map[int]float32 {
		store, atoms := build()
		cfg := reasoner.DefaultConfig()
		cfg.NumThreads = numThreads
		cfg.Seed = 7
		r, err := reasoner.New(cfg, nil)
		require.NoError(t, err)
		_, err = r.Optimize(context.Background(), store)
		require.NoError(t, err)
		return atoms.Snapshot()
	}

	serial := run(1)
	parallel := run(8)

	require.Equal(t, len(serial), len(parallel))
	for g, v := range serial {
		closeEnough(t, parallel[g], v, 1e-3)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := reasoner.DefaultConfig()
	cfg.StepSize = -1
	_, err := reasoner.New(cfg, nil)
	require.ErrorIs(t, err, reasoner.ErrInvalidConfig)
}

func TestOptimizeRejectsEmptyStore(t *testing.T) {
	r, err := reasoner.New(reasoner.DefaultConfig(), nil)
	require.NoError(t, err)

	store := reasoner.NewTermStore(1, reasoner.NewMapAtomStore())
	_, err = r.Optimize(context.Background(), store)
	require.ErrorIs(t, err, reasoner.ErrInvalidTermStore)
}

func TestOptimizeRejectsNilStore(t *testing.T) {
	r, err := reasoner.New(reasoner.DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = r.Optimize(context.Background(), nil)
	require.ErrorIs(t, err, reasoner.ErrInvalidTermStore)
}
