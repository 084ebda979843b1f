package core

import "github.com/pkg/errors"

// Sentinel errors for the fatal half of the error taxonomy. Non-fatal failures
// (ParseFailed, TagQueryFailed, LanguageUnsupported, ResolverFailed,
// SubprocessNonZeroExit, IoEntryUnreadable) are absorbed at the point they
// occur and logged through a core.Logger instead of being returned, so they
// have no sentinel here.
var (
	// ErrNoSuchCommit is returned when a revspec does not resolve to a commit.
	ErrNoSuchCommit = errors.New("no such commit")

	// ErrDisallowedInDiskOnly is returned when a commit-naming operation is
	// attempted on a project opened in disk-only mode.
	ErrDisallowedInDiskOnly = errors.New("operation requires a repository, but project is disk-only")

	// ErrRenameInDiff is returned when a diff delta's old and new paths differ.
	// Renames and moves are not modeled; this is conservative by design.
	ErrRenameInDiff = errors.New("diff delta renames or moves a file")

	// ErrUnsupportedDiffStatus is returned when a diff delta has a status
	// outside {Added, Deleted, Modified}.
	ErrUnsupportedDiffStatus = errors.New("unsupported diff status")

	// ErrContentNotFound is returned when no blob and no disk file can
	// produce the requested ContentId.
	ErrContentNotFound = errors.New("content not found")
)
