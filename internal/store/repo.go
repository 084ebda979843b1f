package store

import (
	"io"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/model"
)

// repository wraps a *git.Repository behind a mutex. git.Repository's object
// store is not documented as safe for concurrent reads, so every access is
// serialized here rather than trusted to be safe by accident.
type repository struct {
	mu   sync.Mutex
	repo *git.Repository
	wt   string
}

func openRepository(root string) (*repository, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	path := root
	if err == nil {
		path = wt.Filesystem.Root()
	}
	return &repository{repo: repo, wt: path}, nil
}

func (r *repository) workTree() string { return r.wt }

func (r *repository) resolveCommit(revspec string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.repo.ResolveRevision(plumbing.Revision(revspec))
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func (r *repository) commit(id string) (*object.Commit, error) {
	return r.repo.CommitObject(plumbing.NewHash(id))
}

func (r *repository) list(commitId string, pathspec model.Pathspec) (model.FileSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.commit(commitId)
	if err != nil {
		return model.FileSet{}, errors.Wrap(err, "resolving commit")
	}
	tree, err := c.Tree()
	if err != nil {
		return model.FileSet{}, errors.Wrap(err, "reading tree")
	}

	var keys []model.FileKey
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.FileSet{}, errors.Wrap(err, "walking tree")
		}
		if !entry.Mode.IsFile() {
			continue
		}
		if !pathspec.Matches(name) {
			continue
		}
		keys = append(keys, model.NewFileKey(name, model.ContentIdFromHash(sha1FromPlumbing(entry.Hash))))
	}

	return model.NewFileSet(keys)
}

func (r *repository) readBlob(id model.ContentId) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, err := r.repo.BlobObject(plumbing.NewHash(id.String()))
	if err != nil {
		return nil, err
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return io.ReadAll(rd)
}

// diff implements the parent-counting rules: zero parents diffs
// against an empty tree (every file Added), one parent diffs normally, two or
// more parents (a merge) is skipped entirely.
func (r *repository) diff(commitId string, pathspec model.Pathspec) ([]model.Diff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.commit(commitId)
	if err != nil {
		return nil, errors.Wrap(err, "resolving commit")
	}

	newTree, err := c.Tree()
	if err != nil {
		return nil, errors.Wrap(err, "reading tree")
	}

	switch c.NumParents() {
	case 0:
		return r.diffAgainstEmptyTree(model.CommitId(commitId), newTree, pathspec)
	case 1:
		parent, err := c.Parent(0)
		if err != nil {
			return nil, errors.Wrap(err, "resolving parent commit")
		}
		oldTree, err := parent.Tree()
		if err != nil {
			return nil, errors.Wrap(err, "reading parent tree")
		}
		return r.diffTrees(model.CommitId(commitId), oldTree, newTree, pathspec)
	default:
		return nil, nil
	}
}

// diffAgainstEmptyTree handles a root commit (no parent): every file in
// newTree is Added, in full, rather than going through object.DiffTree (which
// requires two real trees).
func (r *repository) diffAgainstEmptyTree(commit model.PseudoCommit, newTree *object.Tree, pathspec model.Pathspec) ([]model.Diff, error) {
	var out []model.Diff

	fileIter := newTree.Files()
	defer fileIter.Close()
	for {
		f, err := fileIter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "walking tree")
		}
		if !pathspec.Matches(f.Name) {
			continue
		}
		content, err := f.Contents()
		if err != nil {
			return nil, errors.Wrapf(err, "reading blob for %s", f.Name)
		}
		newKey := model.NewFileKey(f.Name, model.ContentIdFromHash(sha1FromPlumbing(f.Hash)))
		out = append(out, model.Diff{
			Commit: commit,
			New:    &newKey,
			Hunks:  []model.Hunk{model.NewHunk(0, 0, 0, countLines(content))},
		})
	}

	return out, nil
}

func (r *repository) diffTrees(commit model.PseudoCommit, oldTree, newTree *object.Tree, pathspec model.Pathspec) ([]model.Diff, error) {
	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return nil, errors.Wrap(err, "diffing trees")
	}

	var out []model.Diff
	for _, change := range changes {
		d, skip, err := r.toDiff(commit, change, pathspec)
		if err != nil {
			return nil, err
		}
		if !skip {
			out = append(out, d)
		}
	}
	return out, nil
}

// toDiff converts one merkletrie change into a Diff. The bool return reports
// whether the change should be skipped (filtered out by pathspec), not
// whether an error occurred.
func (r *repository) toDiff(commit model.PseudoCommit, change *object.Change, pathspec model.Pathspec) (model.Diff, bool, error) {
	action, err := change.Action()
	if err != nil {
		return model.Diff{}, false, errors.Wrap(err, "reading change action")
	}

	oldPath, newPath := changePaths(change)
	if oldPath != "" && newPath != "" && oldPath != newPath {
		return model.Diff{}, false, errors.Wrapf(core.ErrRenameInDiff, "%s -> %s", oldPath, newPath)
	}

	var relevantPath string
	switch action {
	case merkletrie.Insert:
		relevantPath = newPath
	case merkletrie.Delete:
		relevantPath = oldPath
	case merkletrie.Modify:
		relevantPath = newPath
	default:
		return model.Diff{}, false, errors.Wrapf(core.ErrUnsupportedDiffStatus, "action %v", action)
	}
	if !pathspec.Matches(relevantPath) {
		return model.Diff{}, true, nil
	}

	patch, err := change.Patch()
	if err != nil {
		return model.Diff{}, false, errors.Wrap(err, "computing patch")
	}
	filePatches := patch.FilePatches()
	if len(filePatches) != 1 {
		return model.Diff{}, false, errors.Errorf("expected exactly one file patch, got %d", len(filePatches))
	}
	hunks := hunksFromChunks(filePatches[0].Chunks())

	switch action {
	case merkletrie.Insert:
		newKey := newKeyOf(change)
		return model.Diff{Commit: commit, New: &newKey, Hunks: hunks}, false, nil
	case merkletrie.Delete:
		oldKey := oldKeyOf(change)
		return model.Diff{Commit: commit, Old: &oldKey, Hunks: hunks}, false, nil
	default: // merkletrie.Modify
		return model.NewModifiedDiff(commit, oldKeyOf(change), newKeyOf(change), hunks), false, nil
	}
}

// changePaths returns the old and new paths of a change, empty when absent.
func changePaths(change *object.Change) (oldPath, newPath string) {
	if change.From.Name != "" {
		oldPath = change.From.Name
	}
	if change.To.Name != "" {
		newPath = change.To.Name
	}
	return
}

func newKeyOf(change *object.Change) model.FileKey {
	return model.NewFileKey(change.To.Name, model.ContentIdFromHash(sha1FromPlumbing(change.To.TreeEntry.Hash)))
}

func oldKeyOf(change *object.Change) model.FileKey {
	return model.NewFileKey(change.From.Name, model.ContentIdFromHash(sha1FromPlumbing(change.From.TreeEntry.Hash)))
}

func sha1FromPlumbing(h plumbing.Hash) model.Sha1Hash {
	hash, _ := model.ParseSha1Hash(h.String())
	return hash
}

// hunksFromChunks converts a sequence of equal/add/delete line chunks (no
// surrounding context, since go-git's line-level diff already emits disjoint
// chunks rather than a unified-diff-style context window) into half-open-row
// Hunks by walking line counters through the chunk sequence.
func hunksFromChunks(chunks []diff.Chunk) []model.Hunk {
	var hunks []model.Hunk
	oldLine, newLine := 0, 0

	i := 0
	for i < len(chunks) {
		c := chunks[i]
		if c.Type() == diff.Equal {
			n := countLines(c.Content())
			oldLine += n
			newLine += n
			i++
			continue
		}

		oldStart, newStart := oldLine, newLine
		for i < len(chunks) && chunks[i].Type() != diff.Equal {
			n := countLines(chunks[i].Content())
			switch chunks[i].Type() {
			case diff.Delete:
				oldLine += n
			case diff.Add:
				newLine += n
			}
			i++
		}
		hunks = append(hunks, model.NewHunk(oldStart, oldLine, newStart, newLine))
	}

	return hunks
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := 0
	for _, r := range content {
		if r == '\n' {
			n++
		}
	}
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
