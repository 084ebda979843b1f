package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfByExtension(t *testing.T) {
	l, ok := Of("src/main/Foo.java")
	assert.True(t, ok)
	assert.Equal(t, Java, l)

	l, ok = Of("path/to/thing.PY")
	assert.True(t, ok)
	assert.Equal(t, Python, l)
}

func TestOfBySpecialFile(t *testing.T) {
	l, ok := Of("tsconfig.json")
	assert.True(t, ok)
	assert.Equal(t, TypeScript, l)
}

func TestOfUnknownExtension(t *testing.T) {
	_, ok := Of("README.md")
	assert.False(t, ok)
}

func TestHasEntities(t *testing.T) {
	assert.True(t, Java.HasEntities())
	assert.True(t, Python.HasEntities())
	assert.False(t, Go.HasEntities())
}

func TestPathspecMatchesOwnExtension(t *testing.T) {
	assert.True(t, Java.Pathspec().Matches("a/b/Main.java"))
	assert.False(t, Java.Pathspec().Matches("a/b/main.go"))
}

func TestPathspecManyEmptyMatchesAll(t *testing.T) {
	spec := PathspecMany(nil)
	assert.True(t, spec.Matches("a.java"))
	assert.True(t, spec.Matches("a.go"))
}

func TestDependsLang(t *testing.T) {
	assert.Equal(t, "java", Java.DependsLang())
	assert.Equal(t, "", JavaScript.DependsLang())
}
