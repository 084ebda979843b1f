package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is a record of one run's resolved parameters, written as YAML
// next to the run's output for reproducibility: every default the CLI
// filled in is spelled out explicitly, so a later run can be compared
// against or replayed from it.
type Manifest struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Input       string    `yaml:"input"`
	Output      string    `yaml:"output"`
	Format      string    `yaml:"format"`
	Force       bool      `yaml:"force"`
	FileLevel   bool      `yaml:"file_level"`
	Commits     []string  `yaml:"commits"`
	Structure   []string  `yaml:"structure"`
	Langs       []string  `yaml:"langs,omitempty"`
	Patterns    []string  `yaml:"patterns,omitempty"`
	Resolvers   []string  `yaml:"resolvers"`
	DependsJar  string    `yaml:"depends_jar,omitempty"`
	Java        string    `yaml:"java,omitempty"`
	JavaHeap    string    `yaml:"java_heap,omitempty"`
}

// WriteTo marshals the manifest as YAML and writes it to path.
func (m Manifest) WriteTo(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshaling run manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing run manifest to %s", path)
	}
	return nil
}
