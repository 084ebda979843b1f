package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathspecMatchesAllByDefault(t *testing.T) {
	p := NewPathspec()
	assert.True(t, p.Matches("anything/at/all.go"))
}

func TestPathspecNegation(t *testing.T) {
	p := NewPathspec("*.go", "!**/generated/**")
	assert.True(t, p.Matches("main.go"))
	assert.False(t, p.Matches("internal/generated/foo.go"))
}

func TestPathspecAndRequiresBothSides(t *testing.T) {
	langs := NewPathspec("*.java")
	patterns := NewPathspec("src/**")

	combined := langs.And(patterns)

	assert.True(t, combined.Matches("src/main/A.java"))
	assert.False(t, combined.Matches("src/main/A.py"))
	assert.False(t, combined.Matches("test/A.java"))
}
