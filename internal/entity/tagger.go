package entity

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

// Tagger extracts a Set from one file's bytes.
type Tagger interface {
	Tag(filename string, content []byte) Set
}

// TaggerFor returns the Tagger for l. fileLevel forces every language down
// to the single-file-entity behavior, used by the orchestrator's
// --file-level flag.
func TaggerFor(l lang.Lang, fileLevel bool) Tagger {
	if fileLevel || !l.HasEntities() {
		return fileLevelTagger{}
	}
	return newEntityTagger(l)
}

// fileLevelTagger always produces the singleton-File entity set.
type fileLevelTagger struct{}

func (fileLevelTagger) Tag(filename string, content []byte) Set {
	return toSingletonSet(filename, content)
}

// entityTagger runs a tree-sitter tag query over a parsed file and builds a
// nested Set from the matches, falling back to the file-level singleton set
// if parsing or the query fails.
type entityTagger struct {
	grammar *sitter.Language
	query   *sitter.Query
	ixName  uint32
	hasName bool
	kinds   map[uint32]model.EntityKind
}

func newEntityTagger(l lang.Lang) *entityTagger {
	grammar := l.Grammar()
	query, err := sitter.NewQuery([]byte(l.TagQuery()), grammar)
	if err != nil {
		// A broken embedded query is a programming error, not a runtime
		// condition; degrade to file-level rather than panic at tag time.
		return &entityTagger{grammar: grammar}
	}

	t := &entityTagger{grammar: grammar, query: query, kinds: make(map[uint32]model.EntityKind)}
	for i := uint32(0); i < uint32(query.CaptureCount()); i++ {
		name := query.CaptureNameForId(i)
		if name == "name" {
			t.ixName = i
			t.hasName = true
			continue
		}
		kindName, ok := strings.CutPrefix(name, "definition.")
		if !ok {
			continue
		}
		if kind, ok := model.ParseEntityKind(kindName); ok {
			t.kinds[i] = kind
		}
	}
	return t
}

// capture is one candidate entity discovered either from the tag query or
// synthesized for the file root, keyed by its tree-sitter node so duplicate
// matches on the same definition collapse together.
type capture struct {
	node  sitter.Node
	name  string
	kind  model.EntityKind
	span  model.Span
	depth int
}

func (t *entityTagger) Tag(filename string, content []byte) Set {
	if t.query == nil || !t.hasName {
		return toSingletonSet(filename, content)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(t.grammar)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return toSingletonSet(filename, content)
	}
	root := tree.RootNode()

	byNode := map[sitter.Node]*capture{
		*root: {node: *root, name: filename, kind: model.KindFile, span: spanOf(*root), depth: 0},
	}

	cursor := sitter.NewQueryCursor()
	cursor.Exec(t.query, root)
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}

		var name string
		var hasName bool
		for _, c := range m.Captures {
			if c.Index == t.ixName {
				name = c.Node.Content(content)
				hasName = true
			}
		}
		if !hasName {
			continue
		}

		for _, c := range m.Captures {
			kind, ok := t.kinds[c.Index]
			if !ok {
				continue
			}
			node := *c.Node
			if _, seen := byNode[node]; seen {
				continue
			}
			byNode[node] = &capture{
				node:  node,
				name:  name,
				kind:  kind,
				span:  spanOf(node),
				depth: ancestorChainLength(node),
			}
		}
	}

	captures := make([]*capture, 0, len(byNode))
	for _, c := range byNode {
		captures = append(captures, c)
	}
	sortCaptures(captures)

	return buildFromCaptures(captures, model.ContentIdFromBytes(content))
}

// buildFromCaptures assigns parent links and computes SimpleId/EntityId in
// topological order, then builds the final Set.
func buildFromCaptures(captures []*capture, contentId model.ContentId) Set {
	index := make(map[sitter.Node]int, len(captures))
	for i, c := range captures {
		index[c.node] = i
	}

	simpleIds := make([]model.SimpleId, len(captures))
	entityIds := make([]model.EntityId, len(captures))
	entities := make([]model.Entity, 0, len(captures))

	for i, c := range captures {
		parentIdx, hasParent := findParentIndex(c.node, index)

		var parentSimple *model.SimpleId
		var parentEntity *model.EntityId
		if hasParent {
			parentSimple = &simpleIds[parentIdx]
			parentEntity = &entityIds[parentIdx]
		}

		simpleIds[i] = model.NewSimpleId(parentSimple, c.name, c.kind)
		entityIds[i] = model.NewEntityId(parentEntity, c.name, c.kind, c.span, contentId, simpleIds[i])

		var parentId *model.EntityId
		if hasParent {
			id := entityIds[parentIdx]
			parentId = &id
		}

		entities = append(entities, model.Entity{
			Id:        entityIds[i],
			ParentId:  parentId,
			Name:      c.name,
			Kind:      c.kind,
			Span:      c.span,
			ContentId: contentId,
			SimpleId:  simpleIds[i],
		})
	}

	return fromTopo(entities)
}

// findParentIndex walks up from node looking for the nearest ancestor that
// was itself captured, returning its index in the topo-sorted slice.
func findParentIndex(node sitter.Node, index map[sitter.Node]int) (int, bool) {
	curr := node.Parent()
	for curr != nil {
		if i, ok := index[*curr]; ok {
			return i, true
		}
		curr = curr.Parent()
	}
	return 0, false
}

func ancestorChainLength(node sitter.Node) int {
	n := 0
	curr := node.Parent()
	for curr != nil {
		n++
		curr = curr.Parent()
	}
	return n
}

func spanOf(node sitter.Node) model.Span {
	start := node.StartPoint()
	end := node.EndPoint()
	return model.Span{
		Start: model.Position{Byte: int(node.StartByte()), Row: int(start.Row), Column: int(start.Column)},
		End:   model.Position{Byte: int(node.EndByte()), Row: int(end.Row), Column: int(end.Column)},
	}
}

// sortCaptures orders captures the way tagging.rs's topo_key does: by
// ancestor-chain length first (so a parent always sorts before any of its
// descendants, which is required for Set.fromTopo's contract), then by span,
// name and kind for determinism among siblings.
func sortCaptures(cs []*capture) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		if a.span != b.span {
			return a.span.Less(b.span)
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.kind < b.kind
	})
}
