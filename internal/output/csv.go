package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cyraxred/neodepends/internal/model"
)

// csvsWriter writes one file per resource into a directory, headers matching
// the field names in the data model. encoding/csv is stdlib: no third-party
// CSV library appears anywhere in the retrieval pack, so there is nothing to
// reach for instead.
type csvsWriter struct {
	entities *csvTable
	deps     *csvTable
	changes  *csvTable
	contents *csvTable
}

type csvTable struct {
	mu sync.Mutex
	w  *csv.Writer
	f  *os.File
}

func newCsvTable(f *os.File, header []string) (*csvTable, error) {
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	return &csvTable{w: w, f: f}, nil
}

func (t *csvTable) write(record []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Write(record)
}

func (t *csvTable) finalize() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		return err
	}
	return t.f.Close()
}

func openCsvsWriter(dir string, force bool) (Writer, error) {
	if err := mkOutputDir(dir, force); err != nil {
		return nil, err
	}

	entitiesFile, err := os.Create(filepath.Join(dir, "entities.csv"))
	if err != nil {
		return nil, err
	}
	entities, err := newCsvTable(entitiesFile, []string{
		"id", "parent_id", "name", "kind",
		"start_byte", "start_row", "start_column",
		"end_byte", "end_row", "end_column",
		"content_id", "simple_id",
	})
	if err != nil {
		return nil, err
	}

	depsFile, err := os.Create(filepath.Join(dir, "deps.csv"))
	if err != nil {
		return nil, err
	}
	deps, err := newCsvTable(depsFile, []string{"src", "tgt", "kind", "row", "commit_id"})
	if err != nil {
		return nil, err
	}

	changesFile, err := os.Create(filepath.Join(dir, "changes.csv"))
	if err != nil {
		return nil, err
	}
	changes, err := newCsvTable(changesFile, []string{"simple_id", "commit_id", "kind", "adds", "dels"})
	if err != nil {
		return nil, err
	}

	contentsFile, err := os.Create(filepath.Join(dir, "contents.csv"))
	if err != nil {
		return nil, err
	}
	contents, err := newCsvTable(contentsFile, []string{"id", "content"})
	if err != nil {
		return nil, err
	}

	return &csvsWriter{entities: entities, deps: deps, changes: changes, contents: contents}, nil
}

func mkOutputDir(dir string, force bool) error {
	if _, err := os.Stat(dir); err == nil && !force {
		return errOutputExists(dir)
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *csvsWriter) Supports(Resource) bool  { return true }
func (w *csvsWriter) IsSingleStructure() bool { return false }

func (w *csvsWriter) WriteEntity(e model.Entity) error {
	var parentId string
	if e.ParentId != nil {
		parentId = e.ParentId.String()
	}
	return w.entities.write([]string{
		e.Id.String(), parentId, e.Name, e.Kind.String(),
		strconv.Itoa(e.Span.Start.Byte), strconv.Itoa(e.Span.Start.Row), strconv.Itoa(e.Span.Start.Column),
		strconv.Itoa(e.Span.End.Byte), strconv.Itoa(e.Span.End.Row), strconv.Itoa(e.Span.End.Column),
		e.ContentId.String(), e.SimpleId.String(),
	})
}

func (w *csvsWriter) WriteDep(d model.EntityDep) error {
	return w.deps.write([]string{
		d.Src.String(), d.Tgt.String(), d.Kind.String(),
		strconv.Itoa(partialPositionRow(d.Position)), d.Commit.String(),
	})
}

func (w *csvsWriter) WriteChange(c model.Change) error {
	return w.changes.write([]string{
		c.SimpleId.String(), c.Commit.String(), c.Kind.String(),
		strconv.Itoa(c.Adds), strconv.Itoa(c.Dels),
	})
}

func (w *csvsWriter) WriteContent(c model.Content) error {
	return w.contents.write([]string{c.Id.String(), c.Text})
}

func (w *csvsWriter) Finalize() error {
	for _, t := range []*csvTable{w.entities, w.deps, w.changes, w.contents} {
		if err := t.finalize(); err != nil {
			return err
		}
	}
	return nil
}
