package change

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyraxred/neodepends/internal/entity"
	"github.com/cyraxred/neodepends/internal/model"
)

type fakeReader map[model.ContentId][]byte

func (r fakeReader) Read(id model.ContentId) ([]byte, error) { return r[id], nil }

func newReaderAndCache(contents ...[]byte) (fakeReader, *entity.Cache) {
	r := fakeReader{}
	for _, c := range contents {
		r[model.ContentIdFromBytes(c)] = c
	}
	return r, entity.NewCache(r, false)
}

func TestAttributeAddedFile(t *testing.T) {
	content := []byte("line one\nline two\nline three\n")
	_, cache := newReaderAndCache(content)

	key := model.NewFileKey("a.txt", model.ContentIdFromBytes(content))
	diff := model.NewAddedDiff(model.CommitId("c1"), key, 3)

	changes, err := Attribute(cache, diff)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, model.ChangeAdded, changes[0].Kind)
	assert.Equal(t, 3, changes[0].Adds)
	assert.Equal(t, 0, changes[0].Dels)
}

func TestAttributeDeletedFile(t *testing.T) {
	content := []byte("line one\nline two\n")
	_, cache := newReaderAndCache(content)

	key := model.NewFileKey("a.txt", model.ContentIdFromBytes(content))
	diff := model.NewDeletedDiff(model.CommitId("c1"), key, 2)

	changes, err := Attribute(cache, diff)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, model.ChangeDeleted, changes[0].Kind)
	assert.Equal(t, 0, changes[0].Adds)
	assert.Equal(t, 2, changes[0].Dels)
}

// TestAttributeModifiedFile mirrors scenario S3: a 10-line file has lines
// 3..5 (rows 2..4) replaced by 4 new lines, producing hunk
// old=Row(2,5)/new=Row(2,6). The enclosing file entity should see dels=3,
// adds=4, matching the half-open width of each side exactly.
func TestAttributeModifiedFile(t *testing.T) {
	oldContent := []byte("l0\nl1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\n")
	newContent := []byte("l0\nl1\nN0\nN1\nN2\nN3\nl5\nl6\nl7\nl8\nl9\n")
	_, cache := newReaderAndCache(oldContent, newContent)

	oldKey := model.NewFileKey("a.txt", model.ContentIdFromBytes(oldContent))
	newKey := model.NewFileKey("a.txt", model.ContentIdFromBytes(newContent))
	hunks := []model.Hunk{model.NewHunk(2, 5, 2, 6)}
	diff := model.NewModifiedDiff(model.CommitId("c1"), oldKey, newKey, hunks)

	changes, err := Attribute(cache, diff)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, model.ChangeModified, changes[0].Kind)
	assert.Equal(t, 4, changes[0].Adds)
	assert.Equal(t, 3, changes[0].Dels)
}
