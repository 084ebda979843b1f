package model

import (
	"path"
	"strings"
)

// Pathspec is a set of glob-style include/exclude patterns matched against a
// project-relative POSIX path, in the spirit of the gitglossary pathspec
// grammar: a leading "!" negates a pattern, and patterns are tried in order
// with the last match winning. An empty Pathspec matches everything.
//
// No suitable pathspec-grammar library turned up anywhere in the retrieval
// pack (the closest neighbor, go-git's gitignore package, implements a
// different grammar aimed at exclusion files, not inclusion selectors), so
// this is hand-rolled glob matching over the standard library's path.Match.
type Pathspec struct {
	patterns []pathspecPattern
	and      *Pathspec
}

type pathspecPattern struct {
	pattern string
	negate  bool
}

// NewPathspec builds a Pathspec from a list of patterns such as ["*.java",
// "!**/test/**"].
func NewPathspec(patterns ...string) Pathspec {
	out := make([]pathspecPattern, 0, len(patterns))
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			out = append(out, pathspecPattern{pattern: p[1:], negate: true})
		} else {
			out = append(out, pathspecPattern{pattern: p})
		}
	}
	return Pathspec{patterns: out}
}

// Matches reports whether filename is selected by this Pathspec.
func (p Pathspec) Matches(filename string) bool {
	if p.and != nil && !p.and.Matches(filename) {
		return false
	}
	if len(p.patterns) == 0 {
		return true
	}
	matched := false
	for _, pat := range p.patterns {
		if matchPathspecPattern(pat.pattern, filename) {
			matched = !pat.negate
		}
	}
	return matched
}

// And returns a Pathspec that only matches a filename matched by both p and
// other, used by the CLI to combine --langs with trailing pathspec patterns:
// two independent allow-lists rather than one merged pattern list, since
// patterns from different languages can't be combined glob-for-glob.
func (p Pathspec) And(other Pathspec) Pathspec {
	return Pathspec{patterns: p.patterns, and: &other}
}

func matchPathspecPattern(pattern, filename string) bool {
	if pattern == "" {
		return false
	}
	// "**" segments match across directory separators; expand them into a
	// small set of candidate glob segments and try each against the full path
	// and every path suffix, which is enough to cover the common cases
	// ("src/**/*.java", "**/*.go", "vendor/**").
	if strings.Contains(pattern, "**") {
		return matchDoubleStar(pattern, filename)
	}
	if ok, _ := path.Match(pattern, filename); ok {
		return true
	}
	// Also allow a bare basename pattern ("*.java") to match regardless of
	// directory depth.
	if ok, _ := path.Match(pattern, path.Base(filename)); ok {
		return true
	}
	return false
}

func matchDoubleStar(pattern, filename string) bool {
	segments := strings.Split(pattern, "/")
	return matchSegments(segments, strings.Split(filename, "/"))
}

func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == "**" {
		if matchSegments(pattern[1:], name) {
			return true
		}
		if len(name) == 0 {
			return false
		}
		return matchSegments(pattern, name[1:])
	}
	if len(name) == 0 {
		return false
	}
	if ok, _ := path.Match(pattern[0], name[0]); !ok {
		return false
	}
	return matchSegments(pattern[1:], name[1:])
}

// Filespec selects the data neodepends should work over: one or more
// revisions filtered through a Pathspec.
type Filespec struct {
	Commits  []PseudoCommit
	Pathspec Pathspec
}

// NewFilespec builds a Filespec.
func NewFilespec(commits []PseudoCommit, spec Pathspec) Filespec {
	return Filespec{Commits: commits, Pathspec: spec}
}
