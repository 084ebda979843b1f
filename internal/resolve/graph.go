package resolve

import (
	"context"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

// GraphFactory builds Resolvers approximating a name-resolution graph: each
// file contributes definitions (from its language's tag query, the same
// name/kind captures internal/entity tags with) and references (every other
// identifier node in the file), and resolve() stitches a reference to a
// definition by exact name match, preferring the narrowest-span same-file
// definition (whether or not it encloses the reference) and otherwise requiring the name to be unambiguous
// partition-wide.
//
// This is a deliberate simplification of a real scope-graph resolver: it has
// no notion of import bindings, shadowing, or cross-file scoping, only name
// identity. Extending it to a new language is purely a matter of adding that
// language's tags.scm; GraphFactory itself is language-agnostic.
//
// Per-file graphs are cached across every partition GraphFactory ever builds
// a resolver for, keyed by (filename, ContentId): the same path/content pair
// recurs constantly across a revision range, and the tree-sitter parse plus
// query walk is the expensive part.
type GraphFactory struct {
	mu    sync.Mutex
	cache map[fileVersion]*fileGraph
}

// NewGraphFactory builds an empty GraphFactory.
func NewGraphFactory() *GraphFactory {
	return &GraphFactory{cache: make(map[fileVersion]*fileGraph)}
}

func (f *GraphFactory) Name() string { return "stackgraphs" }

// New returns a graphResolver if l has a tag query (and therefore a notion
// of named definitions); only Java and Python ship one, and the other
// languages have nothing for this resolver to bind.
func (f *GraphFactory) New(_ model.PseudoCommit, l lang.Lang) (Resolver, bool) {
	if !l.HasEntities() {
		return nil, false
	}
	return &graphResolver{factory: f, lang: l, pending: make(map[fileVersion][]byte)}, true
}

type fileVersion struct {
	filename string
	content  model.ContentId
}

type definition struct {
	name string
	pos  model.PartialPosition
	span model.Span
}

type reference struct {
	name string
	pos  model.PartialPosition
}

type fileGraph struct {
	defs []definition
	refs []reference
}

type graphResolver struct {
	factory *GraphFactory
	lang    lang.Lang

	mu      sync.Mutex
	pending map[fileVersion][]byte
}

func (r *graphResolver) AddFile(filename string, content []byte) {
	key := fileVersion{filename: filename, content: model.ContentIdFromBytes(content)}
	r.mu.Lock()
	r.pending[key] = content
	r.mu.Unlock()
}

func (r *graphResolver) Resolve() ([]model.FileDep, error) {
	r.mu.Lock()
	pending := r.pending
	r.mu.Unlock()

	type loadedFile struct {
		key   fileVersion
		graph *fileGraph
	}
	files := make([]loadedFile, 0, len(pending))
	for key, content := range pending {
		files = append(files, loadedFile{key: key, graph: r.factory.getOrBuild(key, r.lang, content)})
	}

	type candidate struct {
		filename string
		def      definition
	}
	byName := make(map[string][]candidate)
	for _, f := range files {
		for _, d := range f.graph.defs {
			byName[d.name] = append(byName[d.name], candidate{f.key.filename, d})
		}
	}

	var deps []model.FileDep
	for _, f := range files {
		for _, ref := range f.graph.refs {
			candidates := byName[ref.name]
			if len(candidates) == 0 {
				continue
			}

			var best *candidate
			var sameFile []candidate
			for i := range candidates {
				if candidates[i].filename == f.key.filename {
					sameFile = append(sameFile, candidates[i])
				}
			}
			switch {
			case len(sameFile) > 0:
				best = &sameFile[0]
				for i := range sameFile[1:] {
					c := &sameFile[i+1]
					if isTighter(c.def.span, best.def.span) {
						best = c
					}
				}
			case len(candidates) == 1:
				best = &candidates[0]
			default:
				continue // ambiguous across files; not modeled
			}

			src := model.NewFileEndpoint(f.key.filename, ref.pos)
			tgt := model.NewFileEndpoint(best.filename, best.def.pos)
			if src == tgt {
				continue
			}
			deps = append(deps, model.NewDep(src, tgt, model.DepUse, ref.pos, model.PseudoCommit{}))
		}
	}

	return deps, nil
}

func (f *GraphFactory) getOrBuild(key fileVersion, l lang.Lang, content []byte) *fileGraph {
	f.mu.Lock()
	if g, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return g
	}
	f.mu.Unlock()

	g := buildFileGraph(l, content)

	f.mu.Lock()
	f.cache[key] = g
	f.mu.Unlock()
	return g
}

func buildFileGraph(l lang.Lang, content []byte) *fileGraph {
	empty := &fileGraph{}

	grammar := l.Grammar()
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return empty
	}
	root := tree.RootNode()

	defNameNodes := map[sitter.Node]bool{}
	var defs []definition

	if query, err := sitter.NewQuery([]byte(l.TagQuery()), grammar); err == nil {
		var ixName uint32
		hasName := false
		for i := uint32(0); i < uint32(query.CaptureCount()); i++ {
			if query.CaptureNameForId(i) == "name" {
				ixName = i
				hasName = true
				break
			}
		}

		if hasName {
			cursor := sitter.NewQueryCursor()
			cursor.Exec(query, root)
			for {
				m, ok := cursor.NextMatch()
				if !ok {
					break
				}
				for _, c := range m.Captures {
					if c.Index != ixName {
						continue
					}
					node := *c.Node
					if defNameNodes[node] {
						continue
					}
					defNameNodes[node] = true
					defs = append(defs, definition{
						name: node.Content(content),
						pos:  model.PartialPositionFromRow(int(node.StartPoint().Row)),
						span: spanOfNode(node),
					})
				}
			}
		}
	}

	var refs []reference
	var walk func(n sitter.Node)
	walk = func(n sitter.Node) {
		if isReferenceNodeType(n.Type()) && !defNameNodes[n] {
			refs = append(refs, reference{
				name: n.Content(content),
				pos:  model.PartialPositionFromRow(int(n.StartPoint().Row)),
			})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(*n.Child(i))
		}
	}
	walk(*root)

	return &fileGraph{defs: defs, refs: refs}
}

func spanOfNode(n sitter.Node) model.Span {
	start, end := n.StartPoint(), n.EndPoint()
	return model.Span{
		Start: model.Position{Byte: int(n.StartByte()), Row: int(start.Row), Column: int(start.Column)},
		End:   model.Position{Byte: int(n.EndByte()), Row: int(end.Row), Column: int(end.Column)},
	}
}

// isReferenceNodeType reports whether a tree-sitter node type names a use of
// an identifier rather than some other kind of token. Most of the supported
// grammars call this "identifier"; several (Java, Kotlin, TypeScript) split
// out a separate "type_identifier" for type position uses.
func isReferenceNodeType(t string) bool {
	return t == "identifier" || t == "type_identifier"
}

// isTighter reports whether a's byte range is strictly narrower than b's,
// used to prefer the narrowest same-file definition when several share a
// name.
func isTighter(a, b model.Span) bool {
	return (a.End.Byte - a.Start.Byte) < (b.End.Byte - b.Start.Byte)
}
