package orchestrate

import (
	"context"

	"github.com/cyraxred/neodepends/internal/model"
)

// Deps ensures entity sets for filespec, runs the resolver manager over
// each revision's files, and lifts every resulting file-level dep to an
// entity-level dep via the matching EntitySet.FindId. Self-loops (a dep
// whose source and target lift to the same entity) are dropped.
func (o *Orchestrator) Deps(ctx context.Context, filespec model.Filespec) ([]model.EntityDep, error) {
	multi, err := o.store.List(filespec)
	if err != nil {
		return nil, err
	}

	// Priming the cache for every file up front, concurrently, before doing
	// any per-commit resolution work keeps the expensive part (parsing and
	// tagging) parallel; resolution below then runs one commit per worker,
	// with resolve.Manager.Resolve handling that commit's partitions one
	// after another.
	if _, err := o.entitySets(ctx, filespec); err != nil {
		return nil, err
	}

	commits := multi.Commits()
	results := make([][]model.EntityDep, len(commits))

	err = o.forEach(ctx, len(commits), func(i int) error {
		commit := commits[i]
		fs, _ := multi.Get(commit)

		fileDeps := o.resolvers.Resolve(commit, o.store, fs.Keys())

		deps := make([]model.EntityDep, 0, len(fileDeps))
		for _, fd := range fileDeps {
			src, ok, err := o.findEntity(fs, fd.Src)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			tgt, ok, err := o.findEntity(fs, fd.Tgt)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			dep := model.NewDep(src, tgt, fd.Kind, fd.Position, fd.Commit)
			if dep.IsLoop() {
				continue
			}
			deps = append(deps, dep)
		}
		results[i] = deps
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []model.EntityDep
	for _, deps := range results {
		out = append(out, deps...)
	}
	return out, nil
}

// findEntity resolves a FileEndpoint to the EntityId containing it, using
// the already-primed entity cache.
func (o *Orchestrator) findEntity(fs model.FileSet, endpoint model.FileEndpoint) (model.EntityId, bool, error) {
	set, ok, err := o.entitySetFor(fs, endpoint.Filename)
	if err != nil || !ok {
		return model.EntityId{}, false, err
	}
	return set.FindId(endpoint.Position)
}
