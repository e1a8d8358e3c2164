package reasoner

// A LocalVariable is a single term's private copy of a consensus
// (global) variable. Exactly one LocalVariable exists per (term, slot):
// it is created once when the term is added to a TermStore and never
// migrated to another term.
type LocalVariable struct {
	// GlobalIndex is the consensus variable g this copy tracks.
	GlobalIndex int
	// Value is the local copy's current value, x in the spec.
	Value float32
	// Lagrange is the Lagrange multiplier y for the consensus equality
	// Value == z[GlobalIndex].
	Lagrange float32
}

// reset sets Value according to policy and always zeroes Lagrange, per
// TermStore.ResetLocals' contract.
func (v *LocalVariable) reset(policy InitialValue, atomValue float32, draw func() float32) {
	switch policy {
	case Zero:
		v.Value = 0
	case Random:
		v.Value = draw()
	case Atom:
		v.Value = atomValue
	}
	v.Lagrange = 0
}
