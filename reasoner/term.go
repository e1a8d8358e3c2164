package reasoner

import "math"

// A Term is one weighted penalty or hard constraint in the ADMM consensus
// problem: Hinge and SquaredHinge carry a non-negative Weight and
// contribute to the objective; LinearEquality and LinearInequality carry
// no weight and contribute to the violated-constraint count instead. Kind
// selects which of the two; Comparator further selects the sense of
// LinearInequality.
type Term struct {
	Kind       Kind
	Comparator Comparator
	Weight     float32
	Hyperplane Hyperplane
}

// UpdateLagrange performs the dual ascent step y_i += rho*(x_i - z[g_i])
// for every local variable in the term. It must be called once per
// iteration, before Minimize.
func (t *Term) UpdateLagrange(rho float32, z []float32) {
	for _, v := range t.Hyperplane.Variables {
		v.Lagrange += rho * (v.Value - z[v.GlobalIndex])
	}
}

// Minimize solves the term's ADMM x-subproblem in place, writing the new
// local values into t.Hyperplane.Variables[i].Value. It never clips to
// [0,1]; the box constraint is enforced later when local values are
// averaged into the consensus value.
func (t *Term) Minimize(rho float32, z []float32) {
	switch t.Kind {
	case Hinge:
		t.minimizeHinge(rho, z)
	case SquaredHinge:
		t.minimizeSquaredHinge(rho, z)
	case LinearEquality:
		t.minimizeProjection(rho, z)
	case LinearInequality:
		t.minimizeInequality(rho, z)
	}
}

// dotU returns a^T u for u_i = z[g_i] - y_i/rho, without materializing u.
func (h *Hyperplane) dotU(z []float32, rho float32) float32 {
	var sum float32
	for i, v := range h.Variables {
		u := z[v.GlobalIndex] - v.Lagrange/rho
		sum += h.Coefficients[i] * u
	}
	return sum
}

// setFromU sets every local value to u_i - t*a_i, where u_i is the
// unconstrained proximal point z[g_i] - y_i/rho.
func (h *Hyperplane) setFromU(z []float32, rho, t float32) {
	for i, v := range h.Variables {
		u := z[v.GlobalIndex] - v.Lagrange/rho
		v.Value = u - t*h.Coefficients[i]
	}
}

// setToU sets every local value to the unconstrained proximal point u_i,
// i.e. t == 0 in setFromU but without the wasted multiply.
func (h *Hyperplane) setToU(z []float32, rho float32) {
	for _, v := range h.Variables {
		v.Value = z[v.GlobalIndex] - v.Lagrange/rho
	}
}

// minimizeSquaredHinge solves the SquaredHinge x-subproblem in closed
// form: the unconstrained point if it's already feasible, otherwise the
// stationary point of the augmented Lagrangian along -a.
func (t *Term) minimizeSquaredHinge(rho float32, z []float32) {
	h := &t.Hyperplane
	if h.degenerate() {
		h.setToU(z, rho)
		return
	}

	d := h.dotU(z, rho) - h.Constant
	if d <= 0 {
		h.setToU(z, rho)
		return
	}

	tCoef := (2 * t.Weight * d) / (rho + 2*t.Weight*h.NormSquared)
	h.setFromU(z, rho, tCoef)
}

// minimizeHinge solves the Hinge x-subproblem in closed form: try the
// active-region candidate first, fall back to the feasible point, and
// finally project onto the crease a^T x = c.
func (t *Term) minimizeHinge(rho float32, z []float32) {
	h := &t.Hyperplane
	if h.degenerate() {
		h.setToU(z, rho)
		return
	}

	tCoef := t.Weight / rho
	h.setFromU(z, rho, tCoef)
	if h.dot()-h.Constant >= 0 {
		return
	}

	d := h.dotU(z, rho) - h.Constant
	if d <= 0 {
		h.setToU(z, rho)
		return
	}

	h.setFromU(z, rho, d/h.NormSquared)
}

// minimizeProjection implements LinearEquality: project u onto a^T x = c.
func (t *Term) minimizeProjection(rho float32, z []float32) {
	h := &t.Hyperplane
	if h.degenerate() {
		h.setToU(z, rho)
		return
	}

	d := h.dotU(z, rho) - h.Constant
	h.setFromU(z, rho, d/h.NormSquared)
}

// minimizeInequality implements LinearInequality: accept u if it already
// satisfies the constraint, otherwise project onto the active face.
func (t *Term) minimizeInequality(rho float32, z []float32) {
	h := &t.Hyperplane
	if h.degenerate() {
		h.setToU(z, rho)
		return
	}

	d := h.dotU(z, rho) - h.Constant
	feasible := d <= 0
	if t.Comparator == GE {
		feasible = d >= 0
	}
	if feasible {
		h.setToU(z, rho)
		return
	}

	h.setFromU(z, rho, d/h.NormSquared)
}

// Evaluate returns, for an objective term, the weighted penalty at z; for
// a constraint term, the amount of constraint violation (0 if feasible).
// Violations within equalsEpsilon of zero are treated as exactly zero.
func (t *Term) Evaluate(z []float32) float32 {
	a := t.Hyperplane.dotAt(z) - t.Hyperplane.Constant
	switch t.Kind {
	case Hinge:
		if a <= 0 {
			return 0
		}
		return t.Weight * a
	case SquaredHinge:
		if a <= 0 {
			return 0
		}
		return t.Weight * a * a
	case LinearEquality:
		v := absf32(a)
		if floatEquals(v, 0) {
			return 0
		}
		return v
	case LinearInequality:
		var v float32
		if t.Comparator == GE {
			v = -a
		} else {
			v = a
		}
		if v <= 0 || floatEquals(v, 0) {
			return 0
		}
		return v
	default:
		return 0
	}
}

func absf32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}
