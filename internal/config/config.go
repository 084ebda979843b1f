// Package config loads the optional project-local TOML config file and
// writes the YAML run manifest neodepends stamps next to its output.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// FileName is the project config file neodepends looks for at the root of
// the input tree.
const FileName = ".neodepends.toml"

// Project holds the settings ordinarily supplied by command-line flags but
// that are convenient to pin per-project: resolver priority and the
// subprocess resolver's JVM configuration. Command-line flags always win
// over a value set here.
type Project struct {
	Resolvers ResolversConfig `toml:"resolvers"`
	Depends   DependsConfig   `toml:"depends"`
}

// ResolversConfig controls which resolvers run and in what priority order,
// mirroring the CLI's --stackgraphs/--depends flags.
type ResolversConfig struct {
	Order []string `toml:"order"`
}

// DependsConfig configures the external Depends JVM analyzer.
type DependsConfig struct {
	Jar  string `toml:"jar"`
	Java string `toml:"java"`
	Heap string `toml:"heap"`
}

// Load reads FileName from root. A missing file is not an error; it
// returns a zero-value Project, meaning "nothing pinned, CLI flags decide
// everything".
func Load(root string) (Project, error) {
	path := filepath.Join(root, FileName)

	var cfg Project
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "statting %s", path)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// StringOr returns cliValue if non-empty, else fallback. Used to apply the
// "CLI flags always win over the file" precedence rule for string settings.
func StringOr(cliValue, fallback string) string {
	if cliValue != "" {
		return cliValue
	}
	return fallback
}
