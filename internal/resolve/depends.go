package resolve

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/model"
)

// DependsFactory builds Resolvers backed by the external Depends JVM
// analyzer: each file is written into a fresh temp directory, then Depends
// is invoked once over the whole partition and its JSON report is read back.
type DependsFactory struct {
	// Jar is the path to depends.jar. Defaults to "depends.jar" next to the
	// running executable if empty.
	Jar string
	// Java is the java binary to invoke. Defaults to "java" on PATH if empty.
	Java string
	// Xmx, if non-empty, is passed as -Xmx<Xmx> to the JVM.
	Xmx string
	// Log receives the warning when Depends exits non-zero. Defaults to
	// discarding the message if nil.
	Log core.Logger
}

func (f *DependsFactory) log() core.Logger {
	if f.Log == nil {
		return core.NopLogger{}
	}
	return f.Log
}

func (f *DependsFactory) Name() string { return "depends" }

// New returns a Resolver for any language Depends has a name for.
func (f *DependsFactory) New(_ model.PseudoCommit, l lang.Lang) (Resolver, bool) {
	depLang := l.DependsLang()
	if depLang == "" {
		return nil, false
	}
	return &dependsResolver{factory: f, depLang: depLang, files: make(map[string][]byte)}, true
}

type dependsResolver struct {
	factory *DependsFactory
	depLang string

	mu    sync.Mutex
	files map[string][]byte
}

func (r *dependsResolver) AddFile(filename string, content []byte) {
	r.mu.Lock()
	r.files[filename] = content
	r.mu.Unlock()
}

func (r *dependsResolver) Resolve() ([]model.FileDep, error) {
	dir, err := os.MkdirTemp("", "neodepends-depends-")
	if err != nil {
		return nil, errors.Wrap(err, "creating Depends work directory")
	}
	defer os.RemoveAll(dir)

	if err := r.writeFiles(dir); err != nil {
		return nil, err
	}

	if err := r.run(dir); err != nil {
		return nil, err
	}

	return r.readOutput(dir)
}

func (r *dependsResolver) writeFiles(dir string) error {
	for filename, content := range r.files {
		path := filepath.Join(dir, filepath.FromSlash(filename))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "creating parent directory for %s", filename)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", filename)
		}
	}
	return nil
}

func (r *dependsResolver) run(dir string) error {
	jar, err := r.jarPath()
	if err != nil {
		return err
	}

	javaBin := r.factory.Java
	if javaBin == "" {
		javaBin = "java"
	}

	args := []string{}
	if r.factory.Xmx != "" {
		args = append(args, "-Xmx"+r.factory.Xmx)
	}
	args = append(args,
		"-jar", jar,
		r.depLang,
		".",
		"deps",
		"--detail",
		"--output-self-deps",
		"--granularity=structure",
		"--namepattern=unix",
		"--strip-leading-path",
	)

	cmd := exec.Command(javaBin, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			r.factory.log().Warnf("Depends terminated with a non-zero exit code: %v", err)
			return nil
		}
		return errors.Wrap(err, "running Depends")
	}
	return nil
}

func (r *dependsResolver) jarPath() (string, error) {
	if r.factory.Jar != "" {
		return filepath.Abs(r.factory.Jar)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "locating depends.jar")
	}
	return filepath.Join(filepath.Dir(exe), "depends.jar"), nil
}

func (r *dependsResolver) readOutput(dir string) ([]model.FileDep, error) {
	path := filepath.Join(dir, "deps-structure.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading Depends output")
	}

	var out dependsOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "parsing Depends output")
	}

	var deps []model.FileDep
	for _, cell := range out.Cells {
		for _, d := range cell.Details {
			kind, ok := model.ParseDepKind(d.Kind)
			if !ok {
				continue
			}
			src := d.Src.toFileEndpoint()
			tgt := d.Dest.toFileEndpoint()
			deps = append(deps, model.NewDep(src, tgt, kind, src.Position, model.PseudoCommit{}))
		}
	}
	return deps, nil
}

type dependsOutput struct {
	Cells []dependsCell `json:"cells"`
}

type dependsCell struct {
	Details []dependsDetail `json:"details"`
}

type dependsDetail struct {
	Src  dependsEndpoint `json:"src"`
	Dest dependsEndpoint `json:"dest"`
	Kind string          `json:"type"`
}

type dependsEndpoint struct {
	Filename string `json:"file"`
	Line     int    `json:"lineNumber"`
}

// toFileEndpoint converts Depends's 1-based line number to this module's
// 0-based row.
func (e dependsEndpoint) toFileEndpoint() model.FileEndpoint {
	return model.NewFileEndpoint(e.Filename, model.PartialPositionFromRow(e.Line-1))
}
