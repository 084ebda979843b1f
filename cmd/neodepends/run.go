package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cyraxred/neodepends/internal/config"
	"github.com/cyraxred/neodepends/internal/core"
	"github.com/cyraxred/neodepends/internal/entity"
	"github.com/cyraxred/neodepends/internal/lang"
	"github.com/cyraxred/neodepends/internal/metrics"
	"github.com/cyraxred/neodepends/internal/model"
	"github.com/cyraxred/neodepends/internal/orchestrate"
	"github.com/cyraxred/neodepends/internal/output"
	"github.com/cyraxred/neodepends/internal/resolve"
	"github.com/cyraxred/neodepends/internal/store"
)

func runRoot(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	quiet, _ := flags.GetBool("quiet")
	log := logger(quiet)

	inputArg, _ := flags.GetString("input")
	input, err := filepath.Abs(inputArg)
	if err != nil {
		return errors.Wrapf(err, "resolving input path %q", inputArg)
	}

	outputPath, _ := flags.GetString("output")
	force, _ := flags.GetBool("force")
	fileLevel, _ := flags.GetBool("file-level")
	formatName, _ := flags.GetString("format")
	structureArgs, _ := flags.GetStringArray("structure")
	langsArg, _ := flags.GetString("langs")
	concurrency, _ := flags.GetInt("concurrency")
	metricsAddr, _ := flags.GetString("metrics-addr")
	jarFlag, _ := flags.GetString("depends-jar")
	javaFlag, _ := flags.GetString("java")
	heapFlag, _ := flags.GetString("java-heap")

	format, ok := output.ParseFormat(formatName)
	if !ok {
		return errors.Errorf("unknown output format %q", formatName)
	}
	if format.RequiresFileLevel() && !fileLevel {
		return errors.Errorf("--format=%s requires --file-level", format)
	}

	commitArgs, patterns := splitPatterns(cmd, args)

	st, err := store.Open(input, log)
	if err != nil {
		return err
	}

	projectCfg, err := config.Load(input)
	if err != nil {
		return err
	}

	commitRevspecs, err := expandRevspecs(commitArgs)
	if err != nil {
		return err
	}
	if len(commitRevspecs) == 0 {
		return errors.New("at least one COMMIT selector is required")
	}
	if len(structureArgs) == 0 {
		structureArgs = commitRevspecs[:1]
	}
	structureRevspecs, err := expandRevspecs(structureArgs)
	if err != nil {
		return err
	}

	commits, err := parseCommits(st, commitRevspecs)
	if err != nil {
		return err
	}
	structureCommits, err := parseCommits(st, structureRevspecs)
	if err != nil {
		return err
	}

	pathspec, langNames, err := buildPathspec(langsArg, patterns)
	if err != nil {
		return err
	}

	writer, err := format.Open(outputPath, force)
	if err != nil {
		return err
	}
	if writer.IsSingleStructure() && len(structureCommits) != 1 {
		return errors.Errorf("--format=%s requires exactly one --structure revision, got %d", format, len(structureCommits))
	}

	order := resolverOrder(os.Args[1:])
	if len(order) == 0 {
		order = projectCfg.Resolvers.Order
	}
	dependsCfg := config.DependsConfig{
		Jar:  config.StringOr(jarFlag, projectCfg.Depends.Jar),
		Java: config.StringOr(javaFlag, projectCfg.Depends.Java),
		Heap: config.StringOr(heapFlag, projectCfg.Depends.Heap),
	}
	factories := buildResolvers(order, dependsCfg, log)

	cache := entity.NewCache(st, fileLevel)
	manager := resolve.NewManager(log, factories...)

	if metricsAddr != "" {
		m := metrics.New()
		cache.SetRecorder(m)
		manager.SetRecorder(m)
		go func() {
			if err := m.Serve(metricsAddr); err != nil {
				log.Warnf("metrics server stopped: %v", err)
			}
		}()
	}

	orch := orchestrate.New(st, cache, manager, log, concurrency)

	fullFilespec := model.NewFilespec(commits, pathspec)
	structureFilespec := model.NewFilespec(structureCommits, pathspec)

	ctx := context.Background()
	if err := runWriters(ctx, orch, writer, fullFilespec, structureFilespec); err != nil {
		return err
	}
	if err := writer.Finalize(); err != nil {
		return errors.Wrap(err, "finalizing output")
	}

	return writeManifest(outputPath, manifestArgs{
		input: input, output: outputPath, format: format.String(), force: force,
		fileLevel: fileLevel, commits: commitRevspecs, structure: structureRevspecs,
		langs: langNames, patterns: patterns, resolvers: order, depends: dependsCfg,
	})
}

func runWriters(ctx context.Context, orch *orchestrate.Orchestrator, w output.Writer, full, structure model.Filespec) error {
	if w.Supports(output.ResourceEntities) {
		entities, err := orch.Entities(ctx, structure)
		if err != nil {
			return err
		}
		for _, e := range entities {
			if err := w.WriteEntity(e); err != nil {
				return err
			}
		}
	}
	if w.Supports(output.ResourceDeps) {
		deps, err := orch.Deps(ctx, structure)
		if err != nil {
			return err
		}
		for _, d := range deps {
			if err := w.WriteDep(d); err != nil {
				return err
			}
		}
	}
	if w.Supports(output.ResourceChanges) {
		changes, err := orch.Changes(ctx, full)
		if err != nil {
			return err
		}
		for _, c := range changes {
			if err := w.WriteChange(c); err != nil {
				return err
			}
		}
	}
	if w.Supports(output.ResourceContents) {
		contents, err := orch.Contents(ctx, structure)
		if err != nil {
			return err
		}
		for _, c := range contents {
			if err := w.WriteContent(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitPatterns divides the parsed positional args into COMMIT selectors and
// trailing "-- PATTERNS", using cobra's record of where "--" appeared.
func splitPatterns(cmd *cobra.Command, args []string) (commits []string, patterns []string) {
	idx := cmd.ArgsLenAtDash()
	if idx < 0 {
		return args, nil
	}
	return args[:idx], args[idx:]
}

func buildPathspec(langsArg string, patterns []string) (model.Pathspec, []string, error) {
	userSpec := model.NewPathspec(patterns...)

	if langsArg == "" {
		return userSpec, nil, nil
	}

	var names []string
	for _, n := range strings.Split(langsArg, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}

	langs := make([]lang.Lang, 0, len(names))
	for _, n := range names {
		l, ok := lang.ParseLang(n)
		if !ok {
			return model.Pathspec{}, nil, errors.Errorf("unknown language %q", n)
		}
		langs = append(langs, l)
	}

	langSpec := lang.PathspecMany(langs)
	if len(patterns) == 0 {
		return langSpec, names, nil
	}
	return langSpec.And(userSpec), names, nil
}

func logger(quiet bool) core.Logger {
	if quiet {
		return core.NopLogger{}
	}
	return core.NewLogger()
}

type manifestArgs struct {
	input, output, format      string
	force, fileLevel           bool
	commits, structure         []string
	langs, patterns, resolvers []string
	depends                    config.DependsConfig
}

func writeManifest(outputPath string, a manifestArgs) error {
	m := config.Manifest{
		GeneratedAt: time.Now().UTC(),
		Input:       a.input,
		Output:      a.output,
		Format:      a.format,
		Force:       a.force,
		FileLevel:   a.fileLevel,
		Commits:     a.commits,
		Structure:   a.structure,
		Langs:       a.langs,
		Patterns:    a.patterns,
		Resolvers:   a.resolvers,
		DependsJar:  a.depends.Jar,
		Java:        a.depends.Java,
		JavaHeap:    a.depends.Heap,
	}
	return m.WriteTo(manifestPath(outputPath))
}

func manifestPath(outputPath string) string {
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return filepath.Join(outputPath, "manifest.yaml")
	}
	return outputPath + ".manifest.yaml"
}
