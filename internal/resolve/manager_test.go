package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

type fakeReader map[model.ContentId][]byte

func (r fakeReader) Read(id model.ContentId) ([]byte, error) { return r[id], nil }

type recordingResolver struct {
	name  string
	files map[string][]byte
}

func (r *recordingResolver) AddFile(filename string, content []byte) {
	r.files[filename] = content
}

func (r *recordingResolver) Resolve() ([]model.FileDep, error) {
	var deps []model.FileDep
	for filename := range r.files {
		deps = append(deps, model.NewDep(
			model.NewFileEndpoint(filename, model.PartialPositionFromRow(0)),
			model.NewFileEndpoint(r.name, model.PartialPositionFromRow(0)),
			model.DepUse, model.PartialPositionFromRow(0), model.PseudoCommit{},
		))
	}
	return deps, nil
}

type fakeFactory struct {
	name    string
	accepts map[lang.Lang]bool
}

func (f *fakeFactory) Name() string { return f.name }

func (f *fakeFactory) New(_ model.PseudoCommit, l lang.Lang) (Resolver, bool) {
	if !f.accepts[l] {
		return nil, false
	}
	return &recordingResolver{name: f.name, files: make(map[string][]byte)}, true
}

func TestManagerPicksFirstAcceptingFactoryInOrder(t *testing.T) {
	first := &fakeFactory{name: "first", accepts: map[lang.Lang]bool{lang.Go: true}}
	second := &fakeFactory{name: "second", accepts: map[lang.Lang]bool{lang.Go: true}}
	m := NewManager(core.NopLogger{}, first, second)

	content := []byte("package main\n")
	id := model.ContentIdFromBytes(content)
	reader := fakeReader{id: content}
	keys := []model.FileKey{model.NewFileKey("main.go", id)}

	deps := m.Resolve(model.CommitId("abc"), reader, keys)
	require.Len(t, deps, 1)
	assert.Equal(t, "first", deps[0].Tgt.Filename)
	assert.Equal(t, model.CommitId("abc"), deps[0].Commit)
}

func TestManagerSkipsPartitionWithNoAcceptingFactory(t *testing.T) {
	factory := &fakeFactory{name: "only-go", accepts: map[lang.Lang]bool{lang.Go: true}}
	m := NewManager(core.NopLogger{}, factory)

	content := []byte("print('hi')\n")
	id := model.ContentIdFromBytes(content)
	reader := fakeReader{id: content}
	keys := []model.FileKey{model.NewFileKey("a.py", id)}

	deps := m.Resolve(model.WorkDir(), reader, keys)
	assert.Empty(t, deps)
}

func TestPartitionByLangGroupsByLanguage(t *testing.T) {
	keys := []model.FileKey{
		model.NewFileKey("a.go", model.ContentId{}),
		model.NewFileKey("b.go", model.ContentId{}),
		model.NewFileKey("c.py", model.ContentId{}),
		model.NewFileKey("d.unknown", model.ContentId{}),
	}
	parts := partitionByLang(keys)
	assert.Len(t, parts[lang.Go], 2)
	assert.Len(t, parts[lang.Python], 1)
	assert.Len(t, parts, 2)
}
