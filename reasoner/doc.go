/*
Package reasoner implements the numerical core of a Probabilistic Soft
Logic solver: a parallel Alternating Direction Method of Multipliers (ADMM)
optimizer over a sum of per-ground-rule convex terms, and the term store
that owns the consensus variables and per-term local copies those terms
are minimized over.

Building a problem

A problem is built by creating a TermStore sized to the number of global
(consensus) variables, then adding terms to it. Each term is a Hyperplane
(a linear combination of variables plus a constant) paired with a Kind
that says how the hyperplane is penalized or constrained:

    store := reasoner.NewTermStore(numGlobals, atoms)
    _, err := store.Add(reasoner.TermSpec{
        Kind:        reasoner.Hinge,
        Weight:      1,
        Coefficients: []float32{1, 1},
        Constant:    1,
        Variables:   []int{0, 1},
    })

Solving a problem

Once every term has been added, a Reasoner configured with a step size,
convergence tolerances, and an iteration budget drives the store to a
consensus:

    r, err := reasoner.New(reasoner.DefaultConfig(), logger)
    result, err := r.Optimize(ctx, store)

Optimize mutates the store's consensus values in place and, on return,
writes them back to the backing AtomStore. The returned Result reports
whether the tolerances were met, how many iterations ran, and whether any
constraint remained violated; non-convergence is never an error.
*/
package reasoner
