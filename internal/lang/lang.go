// Package lang is neodepends's language registry: it maps a filename to a
// supported language, and a language to its tree-sitter grammar, its tag
// query (when it has entities below file level), and the name Depends
// expects for that language on its command line.
package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/cyraxred/neodepends/internal/model"
)

// Lang is one of the programming languages neodepends can parse.
type Lang int

const (
	C Lang = iota
	Cpp
	Go
	Java
	JavaScript
	Kotlin
	Python
	Ruby
	TypeScript
)

var langNames = [...]string{"c", "cpp", "go", "java", "javascript", "kotlin", "python", "ruby", "typescript"}

func (l Lang) String() string {
	if int(l) < 0 || int(l) >= len(langNames) {
		return "unknown"
	}
	return langNames[l]
}

// ParseLang parses a lowercase language name as printed by String.
func ParseLang(s string) (Lang, bool) {
	for i, n := range langNames {
		if n == s {
			return Lang(i), true
		}
	}
	return 0, false
}

// config holds everything specific to one language: its tree-sitter grammar,
// its file-matching Pathspec, its tag query source (empty for languages that
// only ever produce a single file-level entity), and the name Depends uses
// for it on the command line (empty if Depends doesn't support it).
type config struct {
	grammar     *sitter.Language
	pathspec    model.Pathspec
	tagQuery    string
	dependsLang string
}

var configs map[Lang]*config
var table lookupTable

// lookupTable dispatches a filename to a Lang by special-casing exact
// filenames first, then falling back to extension.
type lookupTable struct {
	specialFiles map[string]Lang
	extensions   map[string]Lang
	patterns     map[Lang][]string
}

func init() {
	table = lookupTable{
		specialFiles: map[string]Lang{},
		extensions:   map[string]Lang{},
		patterns:     map[Lang][]string{},
	}
	table.insertExtension(C, "c")
	table.insertExtension(Cpp, "c++")
	table.insertExtension(Cpp, "cc")
	table.insertExtension(Cpp, "cpp")
	table.insertExtension(Cpp, "cxx")
	table.insertExtension(Cpp, "h++")
	table.insertExtension(Cpp, "hh")
	table.insertExtension(Cpp, "hpp")
	table.insertExtension(Cpp, "hxx")
	table.insertExtension(Go, "go")
	table.insertExtension(Java, "java")
	table.insertExtension(JavaScript, "js")
	table.insertExtension(Kotlin, "kt")
	table.insertExtension(Python, "py")
	table.insertExtension(Ruby, "rb")
	table.insertExtension(TypeScript, "ts")
	table.insertSpecialFile(TypeScript, "tsconfig.json")

	configs = map[Lang]*config{
		C:          {grammar: cpp.GetLanguage(), pathspec: table.pathspec(C), dependsLang: "cpp"},
		Cpp:        {grammar: cpp.GetLanguage(), pathspec: table.pathspec(Cpp), dependsLang: "cpp"},
		Go:         {grammar: golang.GetLanguage(), pathspec: table.pathspec(Go), dependsLang: "go"},
		Java:       {grammar: java.GetLanguage(), pathspec: table.pathspec(Java), tagQuery: javaTagsQuery, dependsLang: "java"},
		JavaScript: {grammar: javascript.GetLanguage(), pathspec: table.pathspec(JavaScript)},
		Kotlin:     {grammar: kotlin.GetLanguage(), pathspec: table.pathspec(Kotlin), dependsLang: "kotlin"},
		Python:     {grammar: python.GetLanguage(), pathspec: table.pathspec(Python), tagQuery: pythonTagsQuery, dependsLang: "python"},
		Ruby:       {grammar: ruby.GetLanguage(), pathspec: table.pathspec(Ruby), dependsLang: "ruby"},
		TypeScript: {grammar: typescript.GetLanguage(), pathspec: table.pathspec(TypeScript)},
	}
}

func (t *lookupTable) insertSpecialFile(l Lang, name string) {
	key := strings.ToLower(name)
	t.specialFiles[key] = l
	t.patterns[l] = append(t.patterns[l], name)
}

func (t *lookupTable) insertExtension(l Lang, ext string) {
	key := strings.ToLower(ext)
	t.extensions[key] = l
	t.patterns[l] = append(t.patterns[l], "*."+ext)
}

func (t *lookupTable) pathspec(l Lang) model.Pathspec {
	return model.NewPathspec(t.patterns[l]...)
}

func (t *lookupTable) allPatterns(langs []Lang) []string {
	if len(langs) == 0 {
		var all []string
		for _, p := range t.patterns {
			all = append(all, p...)
		}
		return all
	}
	var out []string
	for _, l := range langs {
		out = append(out, t.patterns[l]...)
	}
	return out
}

// Of returns the Lang associated with a filename, checking special filenames
// (case-insensitively) before falling back to the lowercased extension.
func Of(filename string) (Lang, bool) {
	base := filename
	if i := strings.LastIndexAny(filename, "/\\"); i >= 0 {
		base = filename[i+1:]
	}
	if l, ok := table.specialFiles[strings.ToLower(base)]; ok {
		return l, true
	}
	ext := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		ext = base[i+1:]
	} else {
		return 0, false
	}
	l, ok := table.extensions[strings.ToLower(ext)]
	return l, ok
}

// Pathspec returns the Pathspec matching files in this language.
func (l Lang) Pathspec() model.Pathspec { return configs[l].pathspec }

// PathspecMany builds a Pathspec matching any of langs. An empty langs
// matches every known language.
func PathspecMany(langs []Lang) model.Pathspec {
	return model.NewPathspec(table.allPatterns(langs)...)
}

// Grammar returns the tree-sitter grammar for this language.
func (l Lang) Grammar() *sitter.Language { return configs[l].grammar }

// TagQuery returns the tree-sitter tag query source for this language, or ""
// if this language only ever produces a single file-level entity.
func (l Lang) TagQuery() string { return configs[l].tagQuery }

// HasEntities reports whether this language has a tag query (i.e. produces
// entities below file level).
func (l Lang) HasEntities() bool { return configs[l].tagQuery != "" }

// DependsLang returns the language name the external Depends tool expects on
// its command line for this language, or "" if Depends doesn't support it.
func (l Lang) DependsLang() string { return configs[l].dependsLang }

// All returns every supported language.
func All() []Lang {
	return []Lang{C, Cpp, Go, Java, JavaScript, Kotlin, Python, Ruby, TypeScript}
}
