// Package parallel provides the bulk-synchronous worker-pool abstraction
// the ADMM reasoner uses for its two per-iteration barriers: partition a
// range of block indices, run each block on a bounded pool of goroutines,
// and don't return until every block has finished.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// A Worker processes one block index against scratch state private to
// that call. Clone returns an independent copy so concurrently running
// blocks never share mutable state.
type Worker interface {
	// Clone returns a fresh Worker with its own scratch state, ready to
	// process a single block.
	Clone() Worker
	// Run processes the given block index. It must not touch any other
	// block's data.
	Run(block int)
}

// Pool bounds how many blocks run concurrently.
type Pool struct {
	workers int
}

// New returns a Pool that runs at most workers blocks concurrently. A
// non-positive workers is treated as 1, which still runs correctly, just
// serialized.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run partitions [0, numBlocks) across the pool, running proto.Clone().Run
// for each block, and returns the per-block Worker so the caller can
// reduce whatever scratch state it accumulated — sequentially, on the
// calling goroutine, once every block has finished. Run blocks until
// every block has completed or the context is cancelled.
func (p *Pool) Run(ctx context.Context, numBlocks int, proto Worker) ([]Worker, error) {
	if numBlocks <= 0 {
		return nil, nil
	}

	results := make([]Worker, numBlocks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for block := 0; block < numBlocks; block++ {
		block := block
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w := proto.Clone()
			w.Run(block)
			results[block] = w
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
