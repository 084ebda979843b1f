package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Resolvers.Order)
	assert.Empty(t, cfg.Depends.Jar)
}

func TestLoadParsesToml(t *testing.T) {
	dir := t.TempDir()
	contents := `
[resolvers]
order = ["depends", "stackgraphs"]

[depends]
jar = "depends.jar"
java = "/usr/bin/java"
heap = "2g"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"depends", "stackgraphs"}, cfg.Resolvers.Order)
	assert.Equal(t, "depends.jar", cfg.Depends.Jar)
	assert.Equal(t, "/usr/bin/java", cfg.Depends.Java)
	assert.Equal(t, "2g", cfg.Depends.Heap)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("not valid = [toml"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestStringOrPrefersCliValue(t *testing.T) {
	assert.Equal(t, "cli", StringOr("cli", "file"))
	assert.Equal(t, "file", StringOr("", "file"))
}

func TestManifestWriteToProducesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	m := Manifest{
		GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Input:       "/repo",
		Output:      "/out.jsonl",
		Format:      "jsonl",
		Commits:     []string{"HEAD"},
		Structure:   []string{"HEAD"},
		Resolvers:   []string{"stackgraphs"},
	}
	require.NoError(t, m.WriteTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output: /out.jsonl")
	assert.Contains(t, string(data), "- stackgraphs")
}
