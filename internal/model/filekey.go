package model

import (
	"sort"

	"github.com/pkg/errors"
)

// PseudoCommitKind distinguishes a real commit from the working-directory
// sentinel.
type PseudoCommitKind int

const (
	PseudoCommitReal PseudoCommitKind = iota
	PseudoCommitWorkDir
)

// WorkDirSentinel is the literal revspec that selects the working directory.
const WorkDirSentinel = "WORKDIR"

// PseudoCommit is either a real version-control commit id or the sentinel
// working-directory pseudo-commit. Working-directory pseudo-commits cannot be
// diffed (there is no parent to diff against).
type PseudoCommit struct {
	Kind PseudoCommitKind
	Id   string // commit hash; empty when Kind == PseudoCommitWorkDir
}

// WorkDir is the working-directory pseudo-commit.
func WorkDir() PseudoCommit { return PseudoCommit{Kind: PseudoCommitWorkDir} }

// CommitId wraps a real commit hash as a PseudoCommit.
func CommitId(id string) PseudoCommit { return PseudoCommit{Kind: PseudoCommitReal, Id: id} }

// IsWorkDir reports whether this is the working-directory sentinel.
func (c PseudoCommit) IsWorkDir() bool { return c.Kind == PseudoCommitWorkDir }

func (c PseudoCommit) String() string {
	if c.IsWorkDir() {
		return WorkDirSentinel
	}
	return c.Id
}

// FileKey uniquely names one version of one file: its project-relative POSIX
// path together with the ContentId of its bytes.
type FileKey struct {
	Filename  string
	ContentId ContentId
}

// NewFileKey builds a FileKey.
func NewFileKey(filename string, id ContentId) FileKey {
	return FileKey{Filename: filename, ContentId: id}
}

// FileSet is an ordered, filename-unique collection of FileKeys belonging to
// one revision.
type FileSet struct {
	keys      []FileKey
	byName    map[string]int
}

// NewFileSet builds a FileSet from a list of keys, rejecting duplicate
// filenames.
func NewFileSet(keys []FileKey) (FileSet, error) {
	byName := make(map[string]int, len(keys))
	for i, k := range keys {
		if _, exists := byName[k.Filename]; exists {
			return FileSet{}, errors.Errorf("duplicate filename in file set: %s", k.Filename)
		}
		byName[k.Filename] = i
	}
	return FileSet{keys: keys, byName: byName}, nil
}

// Len returns the number of files in the set.
func (s FileSet) Len() int { return len(s.keys) }

// Keys returns the FileKeys in this set, in their original order.
func (s FileSet) Keys() []FileKey { return s.keys }

// Get looks up the FileKey for a filename.
func (s FileSet) Get(filename string) (FileKey, bool) {
	i, ok := s.byName[filename]
	if !ok {
		return FileKey{}, false
	}
	return s.keys[i], true
}

// GetFilenamesForContent returns every filename in the set whose ContentId
// matches id. The disk-mode file store does not use it; its read hashes the
// files on disk instead.
func (s FileSet) GetFilenamesForContent(id ContentId) []string {
	var out []string
	for _, k := range s.keys {
		if k.ContentId == id {
			out = append(out, k.Filename)
		}
	}
	return out
}

// Sorted returns a copy of the keys sorted by filename, useful for
// deterministic test output.
func (s FileSet) Sorted() []FileKey {
	out := append([]FileKey(nil), s.keys...)
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

// MultiFileSet maps each requested revision to the FileSet found there.
type MultiFileSet struct {
	sets map[PseudoCommit]FileSet
}

// NewMultiFileSet wraps a map of per-revision FileSets.
func NewMultiFileSet(sets map[PseudoCommit]FileSet) MultiFileSet {
	return MultiFileSet{sets: sets}
}

// Get returns the FileSet for one revision.
func (m MultiFileSet) Get(commit PseudoCommit) (FileSet, bool) {
	s, ok := m.sets[commit]
	return s, ok
}

// Commits returns every revision present in this MultiFileSet.
func (m MultiFileSet) Commits() []PseudoCommit {
	out := make([]PseudoCommit, 0, len(m.sets))
	for c := range m.sets {
		out = append(out, c)
	}
	return out
}

// ForEach iterates over every (commit, FileSet) pair.
func (m MultiFileSet) ForEach(fn func(PseudoCommit, FileSet)) {
	for c, s := range m.sets {
		fn(c, s)
	}
}
