package reasoner

import "errors"

// Sentinel errors returned by Config validation, TermStore.Add, and
// Reasoner.Optimize. Callers should use errors.Is against these rather
// than matching on message text.
var (
	// ErrInvalidConfig is returned when a Config fails validation: a
	// non-positive step size, a non-positive iteration budget, or an
	// unrecognized initial-value policy.
	ErrInvalidConfig = errors.New("reasoner: invalid configuration")

	// ErrInvalidTermStore is returned by Optimize when handed a nil or
	// empty TermStore.
	ErrInvalidTermStore = errors.New("reasoner: invalid term store")

	// ErrInvalidTermSpec is returned by TermStore.Add when a TermSpec is
	// malformed: a weight on a constraint kind, a mismatched
	// coefficient/variable count, or a global index outside
	// [0, numGlobals).
	ErrInvalidTermSpec = errors.New("reasoner: invalid term spec")
)
