package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/model"
)

// disk answers reads from the OS filesystem directly, used for the
// WORKDIR pseudo-commit and for the whole project in disk-only mode.
// filepath.Walk is not safe to call concurrently with itself on overlapping
// roots on some platforms, so list walks are serialized under mu; read,
// which also walks the tree to find content by id, does not take mu.
type disk struct {
	root string
	mu   sync.Mutex
}

func openDisk(root string) (*disk, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}
	return &disk{root: root}, nil
}

// list walks the project tree, skipping (and logging) entries it can't read
// rather than failing the whole walk. It does not consult .gitignore; that's
// repository-mode's job, not disk-only mode's.
func (d *disk) list(pathspec model.Pathspec, log core.Logger) (model.FileSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var keys []model.FileKey
	err := filepath.Walk(d.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			log.Warnf("skipping %s: %s", path, err)
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			log.Warnf("skipping %s: %s", path, err)
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !pathspec.Matches(rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("skipping %s: %s", path, err)
			return nil
		}
		keys = append(keys, model.NewFileKey(rel, model.ContentIdFromBytes(data)))
		return nil
	})
	if err != nil {
		return model.FileSet{}, errors.Wrap(err, "walking project directory")
	}

	return model.NewFileSet(keys)
}

// read finds content by hashing every candidate file under root until one
// matches. This is the disk-only fallback used when the repository blob
// store doesn't have the requested content (or there is no repository).
func (d *disk) read(id model.ContentId) ([]byte, error) {
	var found []byte
	err := filepath.Walk(d.root, func(path string, info fs.FileInfo, err error) error {
		if found != nil {
			return nil
		}
		if err != nil || info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if model.ContentIdFromBytes(data) == id {
			found = data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errors.Errorf("no file on disk with content %s", id)
	}
	return found, nil
}
