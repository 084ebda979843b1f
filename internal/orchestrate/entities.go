package orchestrate

import (
	"context"

	"github.com/cyraxred/neodepends/internal/entity"
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

// Entities ensures the entity cache holds a Set for every distinct FileKey
// named anywhere in filespec, then returns the concatenation of their
// entities. A FileKey shared by several revisions is processed once.
func (o *Orchestrator) Entities(ctx context.Context, filespec model.Filespec) ([]model.Entity, error) {
	sets, err := o.entitySets(ctx, filespec)
	if err != nil {
		return nil, err
	}

	var out []model.Entity
	for _, s := range sets {
		out = append(out, s.Entities()...)
	}
	return out, nil
}

// entitySets builds the cache for every distinct FileKey in filespec and
// returns the resulting Sets.
func (o *Orchestrator) entitySets(ctx context.Context, filespec model.Filespec) ([]entity.Set, error) {
	keys, err := o.uniqueFileKeys(filespec)
	if err != nil {
		return nil, err
	}

	sets := make([]entity.Set, len(keys))
	err = o.forEach(ctx, len(keys), func(i int) error {
		key := keys[i]
		l, _ := lang.Of(key.Filename)
		s, err := o.cache.Get(key, l)
		if err != nil {
			return err
		}
		sets[i] = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// uniqueFileKeys lists filespec and returns every distinct FileKey across
// all its revisions.
func (o *Orchestrator) uniqueFileKeys(filespec model.Filespec) ([]model.FileKey, error) {
	multi, err := o.store.List(filespec)
	if err != nil {
		return nil, err
	}

	seen := make(map[model.FileKey]struct{})
	var out []model.FileKey
	multi.ForEach(func(_ model.PseudoCommit, fs model.FileSet) {
		for _, key := range fs.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	})
	return out, nil
}

// entitySetFor returns the (already-cached) Set for a FileKey in fs, if it
// names a file.
func (o *Orchestrator) entitySetFor(fs model.FileSet, filename string) (entity.Set, bool, error) {
	key, ok := fs.Get(filename)
	if !ok {
		return entity.Set{}, false, nil
	}
	l, _ := lang.Of(filename)
	s, err := o.cache.Get(key, l)
	if err != nil {
		return entity.Set{}, false, err
	}
	return s, true, nil
}
