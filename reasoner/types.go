package reasoner

// Describes the basic enums shared by the term and reasoner types.

// Kind identifies which closed-form minimization a Term uses.
type Kind byte

const (
	// Hinge is the penalty w * max(0, a^T x - c).
	Hinge Kind = iota
	// SquaredHinge is the penalty w * max(0, a^T x - c)^2.
	SquaredHinge
	// LinearEquality is the hard constraint a^T x = c.
	LinearEquality
	// LinearInequality is the hard constraint a^T x <= c or a^T x >= c,
	// depending on Comparator.
	LinearInequality
)

func (k Kind) String() string {
	switch k {
	case Hinge:
		return "Hinge"
	case SquaredHinge:
		return "SquaredHinge"
	case LinearEquality:
		return "LinearEquality"
	case LinearInequality:
		return "LinearInequality"
	default:
		return "Unknown"
	}
}

// IsConstraint is true for the two constraint kinds, which carry no
// weight and contribute to ViolatedConstraints rather than Objective.
func (k Kind) IsConstraint() bool {
	return k == LinearEquality || k == LinearInequality
}

// Comparator distinguishes the two senses of LinearInequality. It is
// unused (and ignored) for every other Kind.
type Comparator byte

const (
	// LE is the sense a^T x <= c.
	LE Comparator = iota
	// GE is the sense a^T x >= c.
	GE
)

func (c Comparator) String() string {
	if c == GE {
		return ">="
	}
	return "<="
}

// InitialValue selects how consensus and local variable values are
// populated before the first iteration.
type InitialValue byte

const (
	// Zero initializes every value to 0.
	Zero InitialValue = iota
	// Random initializes every value to an independent U(0,1) draw.
	Random
	// Atom initializes every value from the backing AtomStore.
	Atom
)

func (v InitialValue) String() string {
	switch v {
	case Zero:
		return "ZERO"
	case Random:
		return "RANDOM"
	case Atom:
		return "ATOM"
	default:
		return "UNKNOWN"
	}
}

// ParseInitialValue parses the config strings ZERO, RANDOM and ATOM used
// by the admm.initial*value options, each spelled either all upper case
// or all lower case; mixed-case spellings are rejected.
func ParseInitialValue(s string) (InitialValue, bool) {
	switch s {
	case "ZERO", "zero":
		return Zero, true
	case "RANDOM", "random":
		return Random, true
	case "ATOM", "atom":
		return Atom, true
	default:
		return 0, false
	}
}

// equalsEpsilon is the tolerance used to treat a floating point violation
// or objective delta as exactly zero, absorbing single-precision rounding
// noise around a boundary that is mathematically exact.
const equalsEpsilon float32 = 1e-5

// floatEquals reports whether a and b are equal up to equalsEpsilon.
func floatEquals(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= equalsEpsilon
}
