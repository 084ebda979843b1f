package orchestrate

import (
	"context"

	"github.com/cyraxred/neodepends/internal/change"
	"github.com/cyraxred/neodepends/internal/model"
)

// Changes enumerates the real commits in filespec, diffs each against its
// parent, and attributes the result to per-entity Changes.
// WORKDIR, having no parent to diff against, contributes nothing.
func (o *Orchestrator) Changes(ctx context.Context, filespec model.Filespec) ([]model.Change, error) {
	var commits []model.PseudoCommit
	for _, c := range filespec.Commits {
		if !c.IsWorkDir() {
			commits = append(commits, c)
		}
	}

	diffsPerCommit := make([][]model.Diff, len(commits))
	err := o.forEach(ctx, len(commits), func(i int) error {
		diffs, err := o.store.Diff(commits[i], filespec.Pathspec)
		if err != nil {
			return err
		}
		diffsPerCommit[i] = diffs
		return nil
	})
	if err != nil {
		return nil, err
	}

	var allDiffs []model.Diff
	for _, diffs := range diffsPerCommit {
		allDiffs = append(allDiffs, diffs...)
	}

	results := make([][]model.Change, len(allDiffs))
	err = o.forEach(ctx, len(allDiffs), func(i int) error {
		changes, err := change.Attribute(o.cache, allDiffs[i])
		if err != nil {
			return err
		}
		results[i] = changes
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []model.Change
	for _, changes := range results {
		out = append(out, changes...)
	}
	return out, nil
}
