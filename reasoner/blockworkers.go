package reasoner

import "github.com/linqs/psl-go/internal/parallel"

// termPhaseWorker runs the term phase of one ADMM iteration over a
// contiguous block of terms: each term's Lagrange multiplier is updated,
// then its local block is re-minimized. Neither step touches z; every
// write lands in that term's own LocalVariables.
type termPhaseWorker struct {
	store     *TermStore
	blockSize int
	rho       float32
	z         []float32
}

func (w *termPhaseWorker) Clone() parallel.Worker {
	return &termPhaseWorker{store: w.store, blockSize: w.blockSize, rho: w.rho, z: w.z}
}

func (w *termPhaseWorker) Run(block int) {
	numTerms := w.store.NumTerms()
	start := block * w.blockSize
	end := start + w.blockSize
	if end > numTerms {
		end = numTerms
	}
	for i := start; i < end; i++ {
		term := w.store.Term(i)
		term.UpdateLagrange(w.rho, w.z)
		term.Minimize(w.rho, w.z)
	}
}

// blockStats accumulates the residual and norm telemetry one
// variablePhaseWorker collects over its block; reasoner.go sums the
// per-block totals sequentially, on the calling goroutine, once every
// block has finished, so no locking is needed across blocks.
type blockStats struct {
	primalRes       float32
	dualRes         float32
	axNorm          float32
	ayNorm          float32
	bzNorm          float32
	lagrangePenalty float32
	augLagPenalty   float32
}

func (s *blockStats) add(o blockStats) {
	s.primalRes += o.primalRes
	s.dualRes += o.dualRes
	s.axNorm += o.axNorm
	s.ayNorm += o.ayNorm
	s.bzNorm += o.bzNorm
	s.lagrangePenalty += o.lagrangePenalty
	s.augLagPenalty += o.augLagPenalty
}

// variablePhaseWorker runs the variable phase of one ADMM iteration over
// a contiguous block of global variables: for each g it averages its
// local copies into a new consensus value, clips to [0,1], and
// accumulates the residual telemetry for that block.
type variablePhaseWorker struct {
	store     *TermStore
	blockSize int
	rho       float32
	z         []float32
	stats     blockStats
}

func (w *variablePhaseWorker) Clone() parallel.Worker {
	return &variablePhaseWorker{store: w.store, blockSize: w.blockSize, rho: w.rho, z: w.z}
}

func (w *variablePhaseWorker) Run(block int) {
	numGlobals := w.store.NumGlobals()
	start := block * w.blockSize
	end := start + w.blockSize
	if end > numGlobals {
		end = numGlobals
	}

	for g := start; g < end; g++ {
		locals := w.store.LocalVariables(g)
		n := len(locals)
		if n == 0 {
			continue
		}

		var total float32
		for _, lv := range locals {
			total += lv.Value + lv.Lagrange/w.rho
			w.stats.axNorm += lv.Value * lv.Value
			w.stats.ayNorm += lv.Lagrange * lv.Lagrange
		}

		newZ := total / float32(n)
		if newZ > upperBound {
			newZ = upperBound
		} else if newZ < lowerBound {
			newZ = lowerBound
		}

		diff := w.z[g] - newZ
		w.stats.dualRes += diff * diff * float32(n)
		w.stats.bzNorm += newZ * newZ * float32(n)
		w.z[g] = newZ

		for _, lv := range locals {
			d := lv.Value - newZ
			w.stats.primalRes += d * d
			w.stats.lagrangePenalty += lv.Lagrange * (lv.Value - newZ)
			w.stats.augLagPenalty += 0.5 * w.rho * (lv.Value - newZ) * (lv.Value - newZ)
		}
	}
}
