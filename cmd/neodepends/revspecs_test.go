package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRevspecsPassesThroughLiterals(t *testing.T) {
	out, err := expandRevspecs([]string{"HEAD", "WORKDIR"})
	require.NoError(t, err)
	assert.Equal(t, []string{"HEAD", "WORKDIR"}, out)
}

func TestExpandRevspecsReadsAtFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revs.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc123\n\n# a comment\ndef456\n"), 0o644))

	out, err := expandRevspecs([]string{"@" + path, "HEAD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123", "def456", "HEAD"}, out)
}

func TestExpandRevspecsMissingFileErrors(t *testing.T) {
	_, err := expandRevspecs([]string{"@/does/not/exist"})
	assert.Error(t, err)
}
