// Package change turns a diff into per-entity, per-commit Change records by
// counting how many lines of each entity were touched on either side of the
// diff.
package change

import (
	"sort"

	"github.com/cyraxred/neodepends/internal/entity"
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

// Attribute converts one Diff into the Changes it implies, consulting cache
// for the old and new EntitySets (absent on the added/deleted side). The
// returned slice is sorted by SimpleId for deterministic output; the
// algorithm itself has no inherent order, since it works from set
// membership in two maps.
func Attribute(cache *entity.Cache, diff model.Diff) ([]model.Change, error) {
	l, _ := lang.Of(diffFilename(diff))

	var oldCounts, newCounts map[model.SimpleId]int

	if diff.Old != nil {
		oldSet, err := cache.Get(*diff.Old, l)
		if err != nil {
			return nil, err
		}
		oldCounts = oldSet.CountSimpleIds(sidesOf(diff.Hunks, oldSide))
	}
	if diff.New != nil {
		newSet, err := cache.Get(*diff.New, l)
		if err != nil {
			return nil, err
		}
		newCounts = newSet.CountSimpleIds(sidesOf(diff.Hunks, newSide))
	}

	seen := make(map[model.SimpleId]struct{}, len(oldCounts)+len(newCounts))
	for id := range oldCounts {
		seen[id] = struct{}{}
	}
	for id := range newCounts {
		seen[id] = struct{}{}
	}

	changes := make([]model.Change, 0, len(seen))
	for id := range seen {
		_, presentOld := oldCounts[id]
		_, presentNew := newCounts[id]
		changes = append(changes, model.NewChange(id, diff.Commit, presentOld, presentNew, newCounts[id], oldCounts[id]))
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].SimpleId.String() < changes[j].SimpleId.String() })
	return changes, nil
}

type side int

const (
	oldSide side = iota
	newSide
)

func sidesOf(hunks []model.Hunk, s side) []model.PartialSpan {
	out := make([]model.PartialSpan, len(hunks))
	for i, h := range hunks {
		if s == oldSide {
			out[i] = h.Old
		} else {
			out[i] = h.New
		}
	}
	return out
}

func diffFilename(diff model.Diff) string {
	if diff.New != nil {
		return diff.New.Filename
	}
	return diff.Old.Filename
}
