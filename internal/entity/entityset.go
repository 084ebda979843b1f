// Package entity turns one file's bytes into an ordered set of named,
// nested entities (a File, its classes, their methods, and so on), and
// answers position/span lookups against that set.
package entity

import (
	"math"
	"sort"

	"github.com/cyraxred/neodepends/internal/interval"
	"github.com/cyraxred/neodepends/internal/model"
)

// maxPoint bounds the root entity's widened interval. Byte offsets and row
// numbers are never negative, so 0 serves as the effective minimum; this
// stands in for the effective maximum without risking the end+1 overflow a
// literal math.MaxInt would cause inside interval.Index.Insert.
const maxPoint = math.MaxInt32

// Set is the ordered collection of entities found in one file, plus the
// indices needed to answer "what entity is at this position/span" queries.
type Set struct {
	order    []model.EntityId
	entities map[model.EntityId]model.Entity
	bytes    *interval.Index[model.EntityId]
	rows     *interval.Index[model.EntityId]
}

// fromTopo builds a Set from a topologically ordered list of entities: every
// entity must appear later in the list than its parent, since later inserts
// win on overlap (see interval.Index.Insert) and that's what makes
// "innermost entity wins" the correct reading of an Insert sequence.
func fromTopo(entities []model.Entity) Set {
	s := Set{
		order:    make([]model.EntityId, 0, len(entities)),
		entities: make(map[model.EntityId]model.Entity, len(entities)),
		bytes:    interval.NewWithCapacity[model.EntityId](len(entities)),
		rows:     interval.NewWithCapacity[model.EntityId](len(entities)),
	}

	for _, e := range entities {
		s.order = append(s.order, e.Id)
		s.entities[e.Id] = e

		if e.ParentId == nil {
			s.bytes.Insert(0, maxPoint, e.Id)
			s.rows.Insert(0, maxPoint, e.Id)
		} else {
			s.bytes.Insert(e.Span.Start.Byte, e.Span.End.Byte, e.Id)
			s.rows.Insert(e.Span.Start.Row, e.Span.End.Row, e.Id)
		}
	}

	return s
}

// Entities returns every entity in this set, in topological order (parents
// before children).
func (s Set) Entities() []model.Entity {
	out := make([]model.Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}

// Get looks up one entity by id.
func (s Set) Get(id model.EntityId) (model.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Len reports the number of entities in the set.
func (s Set) Len() int { return len(s.order) }

// FindId returns the innermost entity containing position.
func (s Set) FindId(position model.PartialPosition) (model.EntityId, bool) {
	switch position.Kind {
	case model.PartialPositionRow:
		return s.rows.Get(position.Row)
	default:
		return s.bytes.Get(position.Whole.Byte)
	}
}

// CountSimpleIds returns, for every entity overlapping any of spans, the
// total overlap weight keyed by that entity's revision-stable SimpleId
// (weights for entities that share a SimpleId - from overload collisions -
// are summed together).
func (s Set) CountSimpleIds(spans []model.PartialSpan) map[model.SimpleId]int {
	out := make(map[model.SimpleId]int)
	for _, span := range spans {
		var overlaps map[model.EntityId]int
		switch span.Kind {
		case model.PartialSpanRow:
			// span.EndRow is exclusive (PartialSpanFromRows), but
			// GetOverlaps treats both bounds as inclusive, so the last row
			// has to be excluded explicitly.
			overlaps = s.rows.GetOverlaps(span.StartRow, span.EndRow-1)
		default:
			overlaps = s.bytes.GetOverlaps(span.WholeSpan.Start.Byte, span.WholeSpan.End.Byte)
		}
		for id, count := range overlaps {
			out[s.entities[id].SimpleId] += count
		}
	}
	return out
}

// sortedIds returns entity ids sorted for deterministic iteration, mostly
// useful in tests.
func (s Set) sortedIds() []model.EntityId {
	out := append([]model.EntityId(nil), s.order...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
