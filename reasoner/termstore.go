package reasoner

import (
	"fmt"
	"math/rand"
)

// A TermSpec describes one term to add to a TermStore: a kind, an
// optional weight, the hyperplane's coefficients and constant, the
// global indices of the variables it references, and (for
// LinearInequality) a comparator.
type TermSpec struct {
	Kind         Kind
	Comparator   Comparator
	Weight       float32
	Coefficients []float32
	Constant     float32
	Variables    []int
}

func (spec *TermSpec) validate(numGlobals int) error {
	if len(spec.Coefficients) != len(spec.Variables) {
		return fmt.Errorf("%w: %d coefficients but %d variables", ErrInvalidTermSpec, len(spec.Coefficients), len(spec.Variables))
	}
	if len(spec.Variables) == 0 {
		return fmt.Errorf("%w: term has no variables", ErrInvalidTermSpec)
	}
	if spec.Kind.IsConstraint() && spec.Weight != 0 {
		return fmt.Errorf("%w: constraint term carries a weight", ErrInvalidTermSpec)
	}
	if !spec.Kind.IsConstraint() && spec.Weight < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidTermSpec)
	}
	for _, g := range spec.Variables {
		if g < 0 || g >= numGlobals {
			return fmt.Errorf("%w: global index %d outside [0, %d)", ErrInvalidTermSpec, g, numGlobals)
		}
	}
	return nil
}

// TermStore owns every Term and LocalVariable created for one solve, the
// inverted global-to-local index, and the AtomStore terms are eventually
// written back to. Its indices are contiguous [0, numGlobals); once
// optimization begins, nothing is added or removed.
type TermStore struct {
	terms      []*Term
	locals     [][]*LocalVariable
	numGlobals int
	numLocals  int
	atoms      AtomStore
}

// NewTermStore returns a TermStore with numGlobals consensus slots, backed
// by atoms for the ATOM initial-value policy and write-back.
func NewTermStore(numGlobals int, atoms AtomStore) *TermStore {
	return &TermStore{
		locals:     make([][]*LocalVariable, numGlobals),
		numGlobals: numGlobals,
		atoms:      atoms,
	}
}

// Add appends a term built from spec, registers each of its fresh
// LocalVariables under their global index, and returns those handles so
// the caller (typically a term generator) can retain them.
func (s *TermStore) Add(spec TermSpec) ([]*LocalVariable, error) {
	if err := spec.validate(s.numGlobals); err != nil {
		return nil, err
	}

	h := newHyperplane(spec.Coefficients, spec.Constant, spec.Variables)
	term := &Term{
		Kind:       spec.Kind,
		Comparator: spec.Comparator,
		Weight:     spec.Weight,
		Hyperplane: h,
	}
	s.terms = append(s.terms, term)

	for _, v := range h.Variables {
		s.locals[v.GlobalIndex] = append(s.locals[v.GlobalIndex], v)
	}
	s.numLocals += len(h.Variables)

	return h.Variables, nil
}

// NumTerms returns the number of terms added so far.
func (s *TermStore) NumTerms() int { return len(s.terms) }

// NumGlobals returns the number of consensus (global) variable slots.
func (s *TermStore) NumGlobals() int { return s.numGlobals }

// NumLocals returns the total number of LocalVariables across every term.
func (s *TermStore) NumLocals() int { return s.numLocals }

// Term returns the i-th term, in the stable order terms were Added.
func (s *TermStore) Term(i int) *Term { return s.terms[i] }

// LocalVariables returns every LocalVariable copy that references global
// variable g. Never empty for a g actually referenced by some term.
func (s *TermStore) LocalVariables(g int) []*LocalVariable { return s.locals[g] }

// ResetLocals sets every local variable's Value according to policy and
// its Lagrange multiplier to 0. rng is only consulted for the Random
// policy; it may be nil otherwise.
func (s *TermStore) ResetLocals(policy InitialValue, rng *rand.Rand) {
	draw := func() float32 { return 0 }
	if policy == Random {
		draw = func() float32 { return rng.Float32() }
	}
	for _, term := range s.terms {
		for _, v := range term.Hyperplane.Variables {
			atomValue := float32(0)
			if policy == Atom {
				atomValue = s.atoms.AtomValue(v.GlobalIndex)
			}
			v.reset(policy, atomValue, draw)
		}
	}
}

// InitConsensus populates z, sized NumGlobals(), according to policy.
func (s *TermStore) InitConsensus(policy InitialValue, z []float32, rng *rand.Rand) {
	switch policy {
	case Zero:
		for i := range z {
			z[i] = 0
		}
	case Random:
		for i := range z {
			z[i] = rng.Float32()
		}
	case Atom:
		s.GetAtomValues(z)
	}
}

// GetAtomValues reads the backing AtomStore's current values into z,
// sized NumGlobals().
func (s *TermStore) GetAtomValues(z []float32) {
	for g := range z {
		z[g] = s.atoms.AtomValue(g)
	}
}

// WriteBack pushes every z[g] into the backing AtomStore.
func (s *TermStore) WriteBack(z []float32) {
	for g, v := range z {
		s.atoms.SetAtomValue(g, v)
	}
}
