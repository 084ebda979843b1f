package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/model"
)

var testSignature = &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(0, 0)}

func initTestRepo(t *testing.T) (string, *git.Repository, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return dir, repo, wt
}

func writeAndCommit(t *testing.T, dir string, wt *git.Worktree, files map[string]string, msg string) string {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)
	return hash.String()
}

func TestOpenRepositoryMode(t *testing.T) {
	dir, _, wt := initTestRepo(t)
	writeAndCommit(t, dir, wt, map[string]string{"a.go": "package a\n"}, "initial")

	s, err := Open(dir, core.NopLogger{})
	require.NoError(t, err)
	assert.True(t, s.IsRepository())
}

func TestOpenDiskOnlyMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))

	s, err := Open(dir, core.NopLogger{})
	require.NoError(t, err)
	assert.False(t, s.IsRepository())

	commit, err := s.ParseCommit(model.WorkDirSentinel)
	require.NoError(t, err)
	assert.True(t, commit.IsWorkDir())

	_, err = s.ParseCommit("HEAD")
	assert.ErrorIs(t, err, core.ErrDisallowedInDiskOnly)
}

func TestListFiltersByPathspec(t *testing.T) {
	dir, _, wt := initTestRepo(t)
	writeAndCommit(t, dir, wt, map[string]string{
		"a.go":     "package a\n",
		"b.txt":    "notes\n",
		"sub/c.go": "package sub\n",
	}, "initial")

	s, err := Open(dir, core.NopLogger{})
	require.NoError(t, err)

	head, err := s.ParseCommit("HEAD")
	require.NoError(t, err)

	spec := model.NewFilespec([]model.PseudoCommit{head}, model.NewPathspec("*.go"))
	multi, err := s.List(spec)
	require.NoError(t, err)

	fs, ok := multi.Get(head)
	require.True(t, ok)
	names := make([]string, 0, fs.Len())
	for _, k := range fs.Sorted() {
		names = append(names, k.Filename)
	}
	assert.Equal(t, []string{"a.go", "sub/c.go"}, names)
}

func TestDiffRootCommitIsAllAdded(t *testing.T) {
	dir, _, wt := initTestRepo(t)
	writeAndCommit(t, dir, wt, map[string]string{"a.go": "package a\n\nfunc A() {}\n"}, "initial")

	s, err := Open(dir, core.NopLogger{})
	require.NoError(t, err)
	head, err := s.ParseCommit("HEAD")
	require.NoError(t, err)

	diffs, err := s.Diff(head, model.NewPathspec())
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, model.DiffAdded, diffs[0].Kind())
	assert.Equal(t, "a.go", diffs[0].New.Filename)
}

func TestDiffModifiedCommit(t *testing.T) {
	dir, _, wt := initTestRepo(t)
	writeAndCommit(t, dir, wt, map[string]string{"a.go": "line1\nline2\nline3\n"}, "initial")
	writeAndCommit(t, dir, wt, map[string]string{"a.go": "line1\nchanged\nline3\nline4\n"}, "modify")

	s, err := Open(dir, core.NopLogger{})
	require.NoError(t, err)
	head, err := s.ParseCommit("HEAD")
	require.NoError(t, err)

	diffs, err := s.Diff(head, model.NewPathspec())
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, model.DiffModified, diffs[0].Kind())
	assert.NotEmpty(t, diffs[0].Hunks)
}

func TestDiffMergeCommitIsEmpty(t *testing.T) {
	dir, repo, wt := initTestRepo(t)
	writeAndCommit(t, dir, wt, map[string]string{"a.go": "base\n"}, "base")

	headRef, err := repo.Head()
	require.NoError(t, err)
	base := headRef.Hash()

	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName("feature"), Create: true}))
	featureHash := writeAndCommit(t, dir, wt, map[string]string{"b.go": "feature\n"}, "feature")

	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Branch: headRef.Name()}))
	mergeHash, err := wt.Commit("merge", &git.CommitOptions{
		Author:  testSignature,
		Parents: []plumbing.Hash{base, plumbing.NewHash(featureHash)},
	})
	require.NoError(t, err)

	s, err := Open(dir, core.NopLogger{})
	require.NoError(t, err)
	commit := model.CommitId(mergeHash.String())

	diffs, err := s.Diff(commit, model.NewPathspec())
	require.NoError(t, err)
	assert.Empty(t, diffs)
}
