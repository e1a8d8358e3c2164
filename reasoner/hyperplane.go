package reasoner

// A Hyperplane is the immutable argument a^T x - c of every ObjectiveTerm:
// a set of coefficients paired with the LocalVariables they multiply, and
// a constant. NormSquared (||a||^2) is precomputed at construction time
// since every closed-form minimization in term.go needs it at least once
// per iteration.
type Hyperplane struct {
	Coefficients []float32
	Constant     float32
	Variables    []*LocalVariable
	NormSquared  float32
}

// newHyperplane builds a Hyperplane over freshly allocated LocalVariables,
// one per entry in globalIndices, and precomputes NormSquared.
func newHyperplane(coefficients []float32, constant float32, globalIndices []int) Hyperplane {
	vars := make([]*LocalVariable, len(globalIndices))
	for i, g := range globalIndices {
		vars[i] = &LocalVariable{GlobalIndex: g}
	}

	var normSq float32
	for _, a := range coefficients {
		normSq += a * a
	}

	return Hyperplane{
		Coefficients: coefficients,
		Constant:     constant,
		Variables:    vars,
		NormSquared:  normSq,
	}
}

// dot returns a^T x for the hyperplane's current local variable values.
func (h *Hyperplane) dot() float32 {
	var sum float32
	for i, v := range h.Variables {
		sum += h.Coefficients[i] * v.Value
	}
	return sum
}

// dotAt returns a^T x where x is taken from z indexed by each variable's
// GlobalIndex, i.e. the hyperplane evaluated at the consensus values
// rather than the local copies.
func (h *Hyperplane) dotAt(z []float32) float32 {
	var sum float32
	for i, v := range h.Variables {
		sum += h.Coefficients[i] * z[v.GlobalIndex]
	}
	return sum
}

// degenerate reports whether ||a||^2 == 0, the case §7 requires callers
// to treat as "trivially satisfied" rather than dividing by zero.
func (h *Hyperplane) degenerate() bool {
	return h.NormSquared == 0
}
