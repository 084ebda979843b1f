package output

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/model"
)

type dsmVersion int

const (
	dsmV1 dsmVersion = iota
	dsmV2
)

// dsmWriter buffers one run's entities/deps/changes in memory and renders a
// single design-structure matrix JSON document on Finalize, matching
// matrix.rs's dsm_v1/dsm_v2: a single in-process accumulation, no incremental
// write path, since a DSM's cells depend on the whole entity/dep/change set.
type dsmWriter struct {
	path    string
	version dsmVersion

	mu       sync.Mutex
	entities []model.Entity
	deps     []model.EntityDep
	changes  []model.Change
}

func newDsmWriter(path string, version dsmVersion, force bool) (*dsmWriter, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, errOutputExists(path)
		}
	}
	return &dsmWriter{path: path, version: version}, nil
}

func (w *dsmWriter) Supports(r Resource) bool {
	return r == ResourceEntities || r == ResourceDeps || r == ResourceChanges
}

func (w *dsmWriter) IsSingleStructure() bool { return true }

func (w *dsmWriter) WriteEntity(e model.Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities = append(w.entities, e)
	return nil
}

func (w *dsmWriter) WriteDep(d model.EntityDep) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deps = append(w.deps, d)
	return nil
}

func (w *dsmWriter) WriteChange(c model.Change) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.changes = append(w.changes, c)
	return nil
}

func (w *dsmWriter) WriteContent(model.Content) error { return nil }

func (w *dsmWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		text []byte
		err  error
	)
	switch w.version {
	case dsmV1:
		text, err = dsmV1Matrix(w.entities, w.deps, w.changes)
	case dsmV2:
		text, err = dsmV2Matrix(w.entities, w.deps, w.changes)
	default:
		return errors.Errorf("unknown dsm version %v", w.version)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, text, 0o644)
}

// dsmMatrix is the JSON envelope shared by both schema versions.
type dsmMatrix struct {
	Schema    string `json:"schema"`
	Variables any    `json:"variables"`
	Cells     any    `json:"cells"`
}

type dsmFileVar struct {
	Name string `json:"name"`
}

type dsmCellV1 struct {
	Src    int            `json:"src"`
	Dest   int            `json:"dest"`
	Values map[string]int `json:"values"`
}

func dsmV1Matrix(entities []model.Entity, deps []model.EntityDep, changes []model.Change) ([]byte, error) {
	for _, e := range entities {
		if !e.IsFile() {
			return nil, errors.New("dsm-v1 requires --file-level: got a non-file entity")
		}
	}

	seenNames := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if _, ok := seenNames[e.Name]; ok {
			return nil, errors.Errorf("dsm-v1 requires unique filenames, duplicate %q", e.Name)
		}
		seenNames[e.Name] = struct{}{}
	}

	indices := make(map[model.EntityId]int, len(entities))
	variables := make([]dsmFileVar, len(entities))
	for i, e := range entities {
		indices[e.Id] = i
		variables[i] = dsmFileVar{Name: e.Name}
	}

	type pair struct{ src, tgt int }
	kindsByPair := make(map[pair][]string)
	for _, d := range deps {
		p := pair{indices[d.Src], indices[d.Tgt]}
		kindsByPair[p] = append(kindsByPair[p], d.Kind.String())
	}
	for _, cc := range calcCochanges(entities, changes) {
		p := pair{indices[cc.a], indices[cc.b]}
		kindsByPair[p] = append(kindsByPair[p], model.DepCochange.String())
	}

	var cells []dsmCellV1
	for p, kinds := range kindsByPair {
		cells = append(cells, dsmCellV1{Src: p.src, Dest: p.tgt, Values: countKinds(kinds)})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Src != cells[j].Src {
			return cells[i].Src < cells[j].Src
		}
		return cells[i].Dest < cells[j].Dest
	})

	return json.MarshalIndent(dsmMatrix{Schema: "1.0", Variables: variables, Cells: cells}, "", "  ")
}

type dsmEntityVar struct {
	Id       string  `json:"id"`
	ParentId *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
}

type dsmCellV2 struct {
	Src    string         `json:"src"`
	Dest   string         `json:"dest"`
	Values map[string]int `json:"values"`
}

func dsmV2Matrix(entities []model.Entity, deps []model.EntityDep, changes []model.Change) ([]byte, error) {
	seenIds := make(map[model.EntityId]struct{}, len(entities))
	for _, e := range entities {
		if _, ok := seenIds[e.Id]; ok {
			return nil, errors.Errorf("dsm-v2 requires unique entity ids, duplicate %s", e.Id)
		}
		seenIds[e.Id] = struct{}{}
	}

	order := make(map[model.EntityId]int, len(entities))
	variables := make([]dsmEntityVar, len(entities))
	for i, e := range entities {
		order[e.Id] = i
		var parentId *string
		if e.ParentId != nil {
			s := e.ParentId.String()
			parentId = &s
		}
		variables[i] = dsmEntityVar{Id: e.Id.String(), ParentId: parentId, Name: e.Name, Kind: e.Kind.String()}
	}

	type pair struct{ src, tgt model.EntityId }
	kindsByPair := make(map[pair][]string)
	var pairOrder []pair
	addPair := func(p pair) {
		if _, ok := kindsByPair[p]; !ok {
			pairOrder = append(pairOrder, p)
		}
	}
	for _, d := range deps {
		p := pair{d.Src, d.Tgt}
		addPair(p)
		kindsByPair[p] = append(kindsByPair[p], d.Kind.String())
	}
	for _, cc := range calcCochanges(entities, changes) {
		p := pair{cc.a, cc.b}
		addPair(p)
		kindsByPair[p] = append(kindsByPair[p], model.DepCochange.String())
	}

	sort.Slice(pairOrder, func(i, j int) bool {
		si, sj := order[pairOrder[i].src], order[pairOrder[j].src]
		if si != sj {
			return si < sj
		}
		return order[pairOrder[i].tgt] < order[pairOrder[j].tgt]
	})

	cells := make([]dsmCellV2, 0, len(pairOrder))
	for _, p := range pairOrder {
		cells = append(cells, dsmCellV2{Src: p.src.String(), Dest: p.tgt.String(), Values: countKinds(kindsByPair[p])})
	}

	return json.MarshalIndent(dsmMatrix{Schema: "2.0", Variables: variables, Cells: cells}, "", "  ")
}

func countKinds(kinds []string) map[string]int {
	out := make(map[string]int, len(kinds))
	for _, k := range kinds {
		out[k]++
	}
	return out
}

// calcCochanges mirrors matrix.rs's calc_cochanges: two entities co-changed
// if their SimpleIds (the revision-stable identity changes are attributed
// to) both appear in the same commit's change set, with one symmetric pair
// emitted per shared commit.
type cochangePair struct{ a, b model.EntityId }

func calcCochanges(entities []model.Entity, changes []model.Change) []cochangePair {
	idsBySimple := make(map[model.SimpleId][]model.EntityId)
	for _, e := range entities {
		idsBySimple[e.SimpleId] = append(idsBySimple[e.SimpleId], e.Id)
	}

	commitsByEntity := make(map[model.EntityId]map[string]struct{})
	for _, c := range changes {
		ids, ok := idsBySimple[c.SimpleId]
		if !ok {
			continue
		}
		for _, id := range ids {
			set, ok := commitsByEntity[id]
			if !ok {
				set = make(map[string]struct{})
				commitsByEntity[id] = set
			}
			set[c.Commit.String()] = struct{}{}
		}
	}

	entityIds := make([]model.EntityId, 0, len(commitsByEntity))
	for id := range commitsByEntity {
		entityIds = append(entityIds, id)
	}
	sort.Slice(entityIds, func(i, j int) bool { return entityIds[i].String() < entityIds[j].String() })

	var pairs []cochangePair
	for i := 0; i < len(entityIds); i++ {
		for j := i + 1; j < len(entityIds); j++ {
			shared := 0
			for commit := range commitsByEntity[entityIds[i]] {
				if _, ok := commitsByEntity[entityIds[j]][commit]; ok {
					shared++
				}
			}
			for k := 0; k < shared; k++ {
				pairs = append(pairs, cochangePair{entityIds[i], entityIds[j]})
				pairs = append(pairs, cochangePair{entityIds[j], entityIds[i]})
			}
		}
	}
	return pairs
}
