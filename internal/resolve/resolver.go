// Package resolve implements dependency resolution: turning the files of one
// (revision, language) partition into file-level dependency edges. Two
// engines are provided, a name-resolution graph built from per-file syntax
// and an external subprocess analyzer, behind a common Resolver contract so
// the manager can try one after another without caring which produced the
// result.
package resolve

import (
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

// Resolver accumulates the files of one (revision, language) partition and,
// once every file has been added, resolves them into file-level deps.
// AddFile may be called concurrently; Resolve is called exactly once after
// every AddFile call has returned, and must not be called concurrently with
// AddFile.
type Resolver interface {
	AddFile(filename string, content []byte)
	Resolve() ([]model.FileDep, error)
}

// ResolverFactory builds a Resolver for a given (revision, language)
// partition, or declines the partition by returning false.
type ResolverFactory interface {
	// Name identifies the factory in log messages.
	Name() string
	// New returns a fresh Resolver for this partition, or false if this
	// factory doesn't support l.
	New(commit model.PseudoCommit, l lang.Lang) (Resolver, bool)
}
