package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/model"
	"github.com/cyraxred/neodepends/internal/store"
)

// expandRevspecs turns the positional COMMIT arguments into a flat list of
// revspecs. An argument of the form "@path" names a file of newline-
// delimited revspecs ("a path to a newline-delimited file of
// revspecs") rather than a literal revspec; every other argument is taken
// literally, including the WORKDIR sentinel.
func expandRevspecs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			out = append(out, arg)
			continue
		}
		lines, err := readRevspecFile(arg[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

func readRevspecFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading revspec file %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading revspec file %s", path)
	}
	return lines, nil
}

// parseCommits resolves every revspec to a PseudoCommit, in order,
// preserving duplicates (a revspec appearing in both the COMMIT list and
// --structure is legitimate).
func parseCommits(st *store.Store, revspecs []string) ([]model.PseudoCommit, error) {
	commits := make([]model.PseudoCommit, len(revspecs))
	for i, r := range revspecs {
		c, err := st.ParseCommit(r)
		if err != nil {
			return nil, err
		}
		commits[i] = c
	}
	return commits, nil
}
