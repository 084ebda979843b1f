// Package store provides uniform, thread-safe read access to file contents
// and directory listings at any version, plus per-file diff generation
// between a commit and its parent.
package store

import (
	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/model"
)

// ContentReader reads file bytes given a ContentId. Declared as an interface
// (rather than consumers depending on *Store directly) so the entity cache
// and resolver manager don't need to know where bytes actually come from.
type ContentReader interface {
	Read(id model.ContentId) ([]byte, error)
}

// Store is the central way other packages talk to the filesystem. It opens
// in "repository mode" when a version-control repository is found at or
// above the project root, and in "disk-only mode" otherwise. Disk-only mode
// rejects any operation that names a commit.
type Store struct {
	log  core.Logger
	disk *disk
	repo *repository // nil in disk-only mode
}

// Open opens a project rooted at root. If a git repository is found there or
// above, Store operates in repository mode; otherwise in disk-only mode.
func Open(root string, log core.Logger) (*Store, error) {
	if log == nil {
		log = core.NopLogger{}
	}

	repo, err := openRepository(root)
	diskRoot := root
	if err == nil {
		diskRoot = repo.workTree()
	} else {
		log.Warn("No repository found. Opening in disk-only mode.")
		repo = nil
	}

	d, err := openDisk(diskRoot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open project directory")
	}

	return &Store{log: log, disk: d, repo: repo}, nil
}

// IsRepository reports whether Store is operating in repository mode.
func (s *Store) IsRepository() bool { return s.repo != nil }

// ParseCommit resolves a revspec into a PseudoCommit. Accepts the literal
// WORKDIR sentinel, a short name, or a full hash. Returns ErrNoSuchCommit if
// the revspec cannot be resolved, or ErrDisallowedInDiskOnly if a non-
// sentinel revspec is given in disk-only mode.
func (s *Store) ParseCommit(revspec string) (model.PseudoCommit, error) {
	if revspec == model.WorkDirSentinel {
		return model.WorkDir(), nil
	}
	if s.repo == nil {
		return model.PseudoCommit{}, errors.Wrapf(core.ErrDisallowedInDiskOnly, "parsing commit %q", revspec)
	}
	id, err := s.repo.resolveCommit(revspec)
	if err != nil {
		return model.PseudoCommit{}, errors.Wrapf(core.ErrNoSuchCommit, "revspec %q: %s", revspec, err)
	}
	return model.CommitId(id), nil
}

// List walks each revision named in spec to a FileSet, filtered by its
// Pathspec. Failure on a single revision is returned (this is a fatal
// top-level error); failure on a single directory entry is only logged and
// that entry is skipped.
func (s *Store) List(spec model.Filespec) (model.MultiFileSet, error) {
	sets := make(map[model.PseudoCommit]model.FileSet, len(spec.Commits))

	for _, commit := range spec.Commits {
		var fs model.FileSet
		var err error

		if commit.IsWorkDir() {
			fs, err = s.disk.list(spec.Pathspec, s.log)
		} else if s.repo != nil {
			fs, err = s.repo.list(commit.Id, spec.Pathspec)
		} else {
			err = errors.Wrapf(core.ErrDisallowedInDiskOnly, "listing commit %q", commit.Id)
		}

		if err != nil {
			return model.MultiFileSet{}, errors.Wrapf(err, "listing revision %s", commit)
		}
		sets[commit] = fs
	}

	return model.NewMultiFileSet(sets), nil
}

// Read returns the bytes for a ContentId, trying the repository blob store
// first (if present) and then the OS filesystem. Returns ErrContentNotFound
// if neither succeeds.
func (s *Store) Read(id model.ContentId) ([]byte, error) {
	if s.repo != nil {
		if b, err := s.repo.readBlob(id); err == nil {
			return b, nil
		}
	}
	b, err := s.disk.read(id)
	if err != nil {
		return nil, errors.Wrapf(core.ErrContentNotFound, "content %s: %s", id, err)
	}
	return b, nil
}

// Diff resolves commit's parents and produces one Diff per touched file that
// matches pathspec. A root commit (no parents) produces an all-added diff
// against an empty tree. A merge commit (two or more parents) produces an
// empty list. Renames/moves and diff statuses outside {Added, Deleted,
// Modified} are fatal errors.
func (s *Store) Diff(commit model.PseudoCommit, pathspec model.Pathspec) ([]model.Diff, error) {
	if commit.IsWorkDir() {
		return nil, errors.Wrap(core.ErrDisallowedInDiskOnly, "diffing the working directory")
	}
	if s.repo == nil {
		return nil, errors.Wrap(core.ErrDisallowedInDiskOnly, "diffing while in disk-only mode")
	}
	return s.repo.diff(commit.Id, pathspec)
}
