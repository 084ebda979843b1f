package main

import (
	"strings"

	"github.com/cyraxred/neodepends/internal/config"
	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/resolve"
)

// resolverOrder determines resolver priority from the raw command-line
// arguments: "--stackgraphs/--depends boolean flags; order on the command
// line determines priority per partition". pflag's FlagSet
// doesn't expose the order flags were given in, so this scans the raw argv
// directly; the first occurrence of either flag (not explicitly set to
// false) fixes that resolver's position.
func resolverOrder(rawArgs []string) []string {
	var order []string
	seen := make(map[string]bool, 2)
	for _, a := range rawArgs {
		name := flagResolverName(a)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	return order
}

func flagResolverName(arg string) string {
	switch {
	case matchesBoolFlag(arg, "--stackgraphs"):
		return "stackgraphs"
	case matchesBoolFlag(arg, "--depends"):
		return "depends"
	default:
		return ""
	}
}

// matchesBoolFlag reports whether arg sets name to true, either bare
// ("--depends") or explicitly ("--depends=true"); "--depends=false" does not
// match.
func matchesBoolFlag(arg, name string) bool {
	if arg == name {
		return true
	}
	prefix := name + "="
	if !strings.HasPrefix(arg, prefix) {
		return false
	}
	value := arg[len(prefix):]
	return value != "false" && value != "0"
}

// buildResolvers maps a resolver-priority order onto concrete
// ResolverFactorys. "stackgraphs" always resolves to the same GraphFactory
// instance so its per-file cache is shared across the whole run.
func buildResolvers(order []string, dep config.DependsConfig, log core.Logger) []resolve.ResolverFactory {
	graphFactory := resolve.NewGraphFactory()

	factories := make([]resolve.ResolverFactory, 0, len(order))
	for _, name := range order {
		switch name {
		case "stackgraphs":
			factories = append(factories, graphFactory)
		case "depends":
			factories = append(factories, &resolve.DependsFactory{
				Jar:  dep.Jar,
				Java: dep.Java,
				Xmx:  dep.Heap,
				Log:  log,
			})
		}
	}
	return factories
}
