package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyraxred/neodepends/internal/model"
)

func TestToSingletonSetEmptyFile(t *testing.T) {
	set := toSingletonSet("empty.txt", nil)
	require.Equal(t, 1, set.Len())
	entities := set.Entities()
	assert.Equal(t, model.KindFile, entities[0].Kind)
	assert.Equal(t, model.Position{Byte: 0, Row: 0, Column: 0}, entities[0].Span.End)
}

func TestToSingletonSetTrailingNewline(t *testing.T) {
	set := toSingletonSet("a.txt", []byte("line one\nline two\n"))
	entities := set.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, model.Position{Byte: len("line one\nline two\n"), Row: 1, Column: len("line two\n")}, entities[0].Span.End)
}

func TestToSingletonSetNoTrailingNewline(t *testing.T) {
	content := []byte("line one\nline two")
	set := toSingletonSet("a.txt", content)
	entities := set.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, model.Position{Byte: len(content), Row: 1, Column: len("line two")}, entities[0].Span.End)
}

func TestFindIdOnSingletonCoversWholeFile(t *testing.T) {
	set := toSingletonSet("a.txt", []byte("hello\nworld\n"))
	entities := set.Entities()
	id, ok := set.FindId(model.PartialPositionFromRow(0))
	require.True(t, ok)
	assert.Equal(t, entities[0].Id, id)
}
