package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cyraxred/neodepends/internal/config"
	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/resolve"
)

func TestResolverOrderFollowsCommandLineOrder(t *testing.T) {
	order := resolverOrder([]string{"--input", ".", "--depends", "--stackgraphs"})
	assert.Equal(t, []string{"depends", "stackgraphs"}, order)
}

func TestResolverOrderReversed(t *testing.T) {
	order := resolverOrder([]string{"--stackgraphs", "--depends"})
	assert.Equal(t, []string{"stackgraphs", "depends"}, order)
}

func TestResolverOrderIgnoresExplicitFalse(t *testing.T) {
	order := resolverOrder([]string{"--stackgraphs=false", "--depends=true"})
	assert.Equal(t, []string{"depends"}, order)
}

func TestResolverOrderDedupesRepeatedFlags(t *testing.T) {
	order := resolverOrder([]string{"--stackgraphs", "--stackgraphs"})
	assert.Equal(t, []string{"stackgraphs"}, order)
}

func TestBuildResolversMapsNamesToFactories(t *testing.T) {
	factories := buildResolvers([]string{"stackgraphs", "depends"}, config.DependsConfig{Jar: "d.jar"}, core.NopLogger{})
	assert.Len(t, factories, 2)
	assert.Equal(t, "stackgraphs", factories[0].Name())
	assert.Equal(t, "depends", factories[1].Name())

	df, ok := factories[1].(*resolve.DependsFactory)
	assert.True(t, ok)
	assert.Equal(t, "d.jar", df.Jar)
}
