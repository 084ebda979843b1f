// Package orchestrate implements the four filespec-shaped iterators
// (entities, deps, changes, contents) that tie the file store, entity
// cache, and resolver manager together. Every iterator
// fans work out across a bounded worker pool, since per-file extraction,
// resolution, and diffing are all embarrassingly parallel.
package orchestrate

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/entity"
	"github.com/cyraxred/neodepends/internal/resolve"
	"github.com/cyraxred/neodepends/internal/store"
)

// defaultConcurrency bounds the worker pool when the caller doesn't specify
// one.
const defaultConcurrency = 8

// Orchestrator ties a Store, an entity Cache, and a resolve.Manager together
// behind the four iterators.
type Orchestrator struct {
	store       *store.Store
	cache       *entity.Cache
	resolvers   *resolve.Manager
	log         core.Logger
	concurrency int
}

// New builds an Orchestrator. concurrency <= 0 selects defaultConcurrency.
func New(st *store.Store, cache *entity.Cache, resolvers *resolve.Manager, log core.Logger, concurrency int) *Orchestrator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Orchestrator{store: st, cache: cache, resolvers: resolvers, log: log, concurrency: concurrency}
}

// forEach runs fn(0), fn(1), ..., fn(n-1) across the orchestrator's worker
// pool, stopping at the first error (subsequent in-flight calls still run to
// completion, per errgroup.Group's contract, but their errors are
// discarded).
func (o *Orchestrator) forEach(ctx context.Context, n int, fn func(i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(o.concurrency))

	for i := 0; i < n; i++ {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			// ctx is cancelled once a call has failed: wait for the calls
			// already started and report that first error, not ctx's.
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			return fn(i)
		})
	}

	return g.Wait()
}
