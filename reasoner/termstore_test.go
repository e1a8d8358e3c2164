package reasoner

import (
	"math/rand"
	"testing"
)

func TestTermStoreAddRejectsCoefficientVariableMismatch(t *testing.T) {
	store := NewTermStore(2, NewMapAtomStore())
	_, err := store.Add(TermSpec{
		Kind:         Hinge,
		Coefficients: []float32{1, 1},
		Variables:    []int{0},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestTermStoreAddRejectsWeightOnConstraint(t *testing.T) {
	store := NewTermStore(1, NewMapAtomStore())
	_, err := store.Add(TermSpec{
		Kind:         LinearEquality,
		Weight:       1,
		Coefficients: []float32{1},
		Variables:    []int{0},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestTermStoreAddRejectsNegativeWeight(t *testing.T) {
	store := NewTermStore(1, NewMapAtomStore())
	_, err := store.Add(TermSpec{
		Kind:         Hinge,
		Weight:       -1,
		Coefficients: []float32{1},
		Variables:    []int{0},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestTermStoreAddRejectsOutOfRangeGlobal(t *testing.T) {
	store := NewTermStore(1, NewMapAtomStore())
	_, err := store.Add(TermSpec{
		Kind:         Hinge,
		Coefficients: []float32{1},
		Variables:    []int{5},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestTermStoreAddRegistersLocalsUnderGlobalIndex(t *testing.T) {
	store := NewTermStore(2, NewMapAtomStore())
	locals, err := store.Add(TermSpec{
		Kind:         Hinge,
		Weight:       1,
		Coefficients: []float32{1, -1},
		Variables:    []int{0, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(locals) != 2 {
		t.Fatalf("expected 2 locals, got %d", len(locals))
	}
	if len(store.LocalVariables(0)) != 1 || len(store.LocalVariables(1)) != 1 {
		t.Fatal("expected each global to own exactly one local")
	}
	if store.NumTerms() != 1 || store.NumLocals() != 2 {
		t.Fatalf("got NumTerms=%d NumLocals=%d", store.NumTerms(), store.NumLocals())
	}
}

func TestTermStoreResetLocalsZero(t *testing.T) {
	store := NewTermStore(1, NewMapAtomStore())
	locals, _ := store.Add(TermSpec{Kind: Hinge, Weight: 1, Coefficients: []float32{1}, Variables: []int{0}})
	locals[0].Value = 0.9
	locals[0].Lagrange = 0.3

	store.ResetLocals(Zero, nil)
	if locals[0].Value != 0 || locals[0].Lagrange != 0 {
		t.Fatalf("expected zeroed local, got %+v", locals[0])
	}
}

func TestTermStoreResetLocalsAtom(t *testing.T) {
	atoms := NewMapAtomStore()
	atoms.SetAtomValue(0, 0.42)
	store := NewTermStore(1, atoms)
	locals, _ := store.Add(TermSpec{Kind: Hinge, Weight: 1, Coefficients: []float32{1}, Variables: []int{0}})

	store.ResetLocals(Atom, nil)
	if locals[0].Value != 0.42 {
		t.Fatalf("expected atom-seeded value 0.42, got %v", locals[0].Value)
	}
}

func TestTermStoreInitConsensusAndWriteBack(t *testing.T) {
	atoms := NewMapAtomStore()
	store := NewTermStore(2, atoms)
	z := make([]float32, 2)

	store.InitConsensus(Zero, z, nil)
	if z[0] != 0 || z[1] != 0 {
		t.Fatalf("expected zero consensus, got %v", z)
	}

	rng := rand.New(rand.NewSource(1))
	store.InitConsensus(Random, z, rng)
	if z[0] == 0 && z[1] == 0 {
		t.Fatal("expected random consensus to differ from zero")
	}

	z[0], z[1] = 0.7, 0.1
	store.WriteBack(z)
	if atoms.AtomValue(0) != 0.7 || atoms.AtomValue(1) != 0.1 {
		t.Fatalf("WriteBack did not persist values: %v", atoms.Snapshot())
	}
}
