// Package output serializes the orchestrator's entities/deps/changes/contents
// to one of the five formats named in the external interface: per-resource
// CSVs, JSON-lines, SQLite, or a whole-run design-structure matrix (DSM v1 or
// v2).
package output

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/model"
)

// Resource names one of the four record streams a Writer may be asked to
// accept.
type Resource int

const (
	ResourceEntities Resource = iota
	ResourceDeps
	ResourceChanges
	ResourceContents
)

var resourceNames = [...]string{
	ResourceEntities: "entities",
	ResourceDeps:     "deps",
	ResourceChanges:  "changes",
	ResourceContents: "contents",
}

func (r Resource) String() string {
	if int(r) < 0 || int(r) >= len(resourceNames) {
		return "unknown"
	}
	return resourceNames[r]
}

// Format is one of the formats --format accepts.
type Format int

const (
	FormatCsvs Format = iota
	FormatJsonl
	FormatSqlite
	FormatDsmV1
	FormatDsmV2
)

var formatNames = [...]string{
	FormatCsvs:   "csvs",
	FormatJsonl:  "jsonl",
	FormatSqlite: "sqlite",
	FormatDsmV1:  "dsm-v1",
	FormatDsmV2:  "dsm-v2",
}

func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat parses one of the --format flag values.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == s {
			return Format(f), true
		}
	}
	return 0, false
}

// RequiresFileLevel reports whether this format only makes sense with
// --file-level (DSM-v1 is a file-granularity matrix).
func (f Format) RequiresFileLevel() bool { return f == FormatDsmV1 }

// Open creates a Writer for this format at path, truncating or creating as
// needed. force allows overwriting an existing path/directory.
func (f Format) Open(path string, force bool) (Writer, error) {
	switch f {
	case FormatCsvs:
		return openCsvsWriter(path, force)
	case FormatJsonl:
		return openJsonlWriter(path, force)
	case FormatSqlite:
		return openSqliteWriter(path, force)
	case FormatDsmV1:
		return newDsmWriter(path, dsmV1, force)
	case FormatDsmV2:
		return newDsmWriter(path, dsmV2, force)
	default:
		return nil, errors.Errorf("unknown output format %v", f)
	}
}

func errOutputExists(path string) error {
	return errors.Errorf("output path %q already exists (use --force to overwrite)", path)
}

// Writer accepts one run's worth of records and persists them. Implementations
// must be safe for concurrent calls to the Write* methods; Finalize is called
// exactly once after all writes complete.
type Writer interface {
	Supports(r Resource) bool
	// IsSingleStructure reports whether this format can only hold the
	// results of a single --structure revision (true for the DSM formats).
	IsSingleStructure() bool
	WriteEntity(model.Entity) error
	WriteDep(model.EntityDep) error
	WriteChange(model.Change) error
	WriteContent(model.Content) error
	Finalize() error
}
