package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/internal/module"
	"github.com/cmmoran/headergen/internal/parser"
	"github.com/cmmoran/headergen/pkg/config"
	"github.com/cmmoran/headergen/pkg/manifest"
)

// Classify loads every dump in inputs and converts its entities into
// statements, in input order.
func Classify(cfg *config.Config, inputs []string, log *slog.Logger) ([]model.Stmt, error) {
	p := parser.New(cfg, parser.WithLogger(log))
	var stmts []model.Stmt
	for _, in := range inputs {
		dump, err := entity.Load(in)
		if err != nil {
			return nil, err
		}
		log.Debug("classifying dump", "file", in, "library", dump.Library, "entities", len(dump.Entities))
		got, err := p.ParseAll(dump.Top())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in, err)
		}
		stmts = append(stmts, got...)
	}
	return stmts, nil
}

// Prepare runs the whole pipeline up to the in-memory plan. Nothing is
// written.
func Prepare(opts *config.Options, log *slog.Logger) (*module.Tree, *module.Plan, error) {
	cfg, err := config.Load(opts.TranslationConfig)
	if err != nil {
		return nil, nil, err
	}
	stmts, err := Classify(cfg, opts.Inputs, log)
	if err != nil {
		return nil, nil, err
	}

	library := cfg.Library.Name
	treeOpts := []module.TreeOption{module.WithLogger(log), module.WithRuntimePath(opts.RuntimePath)}
	base, err := module.BasePath(opts.OutDir)
	switch {
	case err == nil:
		treeOpts = append(treeOpts, module.WithBasePath(base))
	case cfg.Library.ImportPath == "":
		return nil, nil, fmt.Errorf("resolve import path of %s: %w", opts.OutDir, err)
	default:
		log.Debug("output directory is not inside a Go module", "error", err)
	}

	tree := module.NewTree(cfg, library, module.Build(library, stmts, log), treeOpts...)
	plan, err := tree.Plan()
	if err != nil {
		return nil, nil, err
	}
	return tree, plan, nil
}

// Generate writes the library described by opts and records it in the
// manifest.
func Generate(opts *config.Options, log *slog.Logger) (*module.Result, error) {
	tree, plan, err := Prepare(opts, log)
	if err != nil {
		return nil, err
	}
	res, err := module.Write(opts.OutDir, plan, log)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(opts.ManifestFile)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(plan.Files))
	for rel := range plan.Files {
		files = append(files, rel)
	}
	m.Generator = "headergen"
	m.AddLibrary(manifest.Library{
		Name:     tree.Library,
		Dir:      plan.Root,
		Features: module.FeaturesFile(tree.Library),
		Inputs:   relativeTo(opts.OutDir, opts.Inputs),
		Files:    files,
	})
	if err := m.Save(opts.ManifestFile); err != nil {
		return nil, err
	}

	log.Info("generated library", "library", tree.Library, "written", len(res.Written), "unchanged", len(res.Unchanged), "removed", len(res.Removed))
	return res, nil
}

func relativeTo(dir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if rel, err := filepath.Rel(dir, p); err == nil {
			out[i] = filepath.ToSlash(rel)
		} else {
			out[i] = p
		}
	}
	return out
}
