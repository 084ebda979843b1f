package output

import (
	"database/sql"
	"os"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cyraxred/neodepends/internal/model"
)

// sqliteWriter inserts into five tables via database/sql and the pure-Go
// modernc.org/sqlite driver, the same sql.Open("sqlite", dsn) + WAL-pragma
// pattern odvcencio-gothub's database.OpenSQLite uses.
type sqliteWriter struct {
	db *sql.DB

	insertEntity  *sql.Stmt
	insertDep     *sql.Stmt
	insertChange  *sql.Stmt
	insertContent *sql.Stmt
}

const sqliteSchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS runs (
	id BLOB NOT NULL PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entities (
	id BLOB NOT NULL PRIMARY KEY,
	parent_id BLOB,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	start_byte INTEGER NOT NULL,
	start_row INTEGER NOT NULL,
	start_column INTEGER NOT NULL,
	end_byte INTEGER NOT NULL,
	end_row INTEGER NOT NULL,
	end_column INTEGER NOT NULL,
	content_id BLOB NOT NULL,
	simple_id BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS deps (
	src BLOB NOT NULL,
	tgt BLOB NOT NULL,
	kind TEXT NOT NULL,
	row INTEGER NOT NULL,
	commit_id TEXT
);

CREATE TABLE IF NOT EXISTS changes (
	simple_id BLOB NOT NULL,
	commit_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	adds INTEGER NOT NULL,
	dels INTEGER NOT NULL,
	PRIMARY KEY (simple_id, commit_id)
);

CREATE TABLE IF NOT EXISTS contents (
	id BLOB NOT NULL PRIMARY KEY,
	content TEXT NOT NULL
);
`

func openSqliteWriter(path string, force bool) (Writer, error) {
	if force {
		_ = os.Remove(path)
	} else if _, err := os.Stat(path); err == nil {
		return nil, errOutputExists(path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("INSERT INTO runs (id) VALUES (?)", uuid.New().String()); err != nil {
		db.Close()
		return nil, err
	}

	w := &sqliteWriter{db: db}
	if w.insertEntity, err = db.Prepare("INSERT INTO entities VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"); err != nil {
		db.Close()
		return nil, err
	}
	if w.insertDep, err = db.Prepare("INSERT INTO deps VALUES (?, ?, ?, ?, ?)"); err != nil {
		db.Close()
		return nil, err
	}
	if w.insertChange, err = db.Prepare("INSERT INTO changes VALUES (?, ?, ?, ?, ?)"); err != nil {
		db.Close()
		return nil, err
	}
	if w.insertContent, err = db.Prepare("INSERT INTO contents VALUES (?, ?)"); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

func (w *sqliteWriter) Supports(Resource) bool  { return true }
func (w *sqliteWriter) IsSingleStructure() bool { return false }

func (w *sqliteWriter) WriteEntity(e model.Entity) error {
	var parentId any
	if e.ParentId != nil {
		parentId = e.ParentId.Hash().Bytes()
	}
	_, err := w.insertEntity.Exec(
		e.Id.Hash().Bytes(), parentId, e.Name, e.Kind.String(),
		e.Span.Start.Byte, e.Span.Start.Row, e.Span.Start.Column,
		e.Span.End.Byte, e.Span.End.Row, e.Span.End.Column,
		e.ContentId.Hash().Bytes(), e.SimpleId.Hash().Bytes(),
	)
	return err
}

func (w *sqliteWriter) WriteDep(d model.EntityDep) error {
	_, err := w.insertDep.Exec(d.Src.Hash().Bytes(), d.Tgt.Hash().Bytes(), d.Kind.String(), partialPositionRow(d.Position), d.Commit.String())
	return err
}

func (w *sqliteWriter) WriteChange(c model.Change) error {
	_, err := w.insertChange.Exec(c.SimpleId.Hash().Bytes(), c.Commit.String(), c.Kind.String(), c.Adds, c.Dels)
	return err
}

func (w *sqliteWriter) WriteContent(c model.Content) error {
	_, err := w.insertContent.Exec(c.Id.Hash().Bytes(), c.Text)
	return err
}

func (w *sqliteWriter) Finalize() error {
	for _, stmt := range []*sql.Stmt{w.insertEntity, w.insertDep, w.insertChange, w.insertContent} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	if _, err := w.db.Exec("VACUUM"); err != nil {
		return err
	}
	return w.db.Close()
}
