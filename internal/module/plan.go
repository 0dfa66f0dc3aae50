package module

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/internal/render"
)

// Banner opens every generated file.
const Banner = "Code generated by headergen. DO NOT EDIT."

// Plan is the complete output of one library, held in memory.
type Plan struct {
	// Root is the library directory, relative to the output directory.
	Root string
	// Files maps slash separated paths, relative to the output directory, to
	// their contents.
	Files map[string][]byte
	// Dirs maps every emitted directory to the entries it must contain.
	// Anything else found in them is stale.
	Dirs map[string]map[string]bool

	imports importGraph
}

// Plan renders the whole tree. Nothing is written.
func (t *Tree) Plan() (*Plan, error) {
	p := &Plan{
		Root:  dirName(t.Library),
		Files: make(map[string][]byte),
		Dirs:  make(map[string]map[string]bool),

		imports: t.importGraph(),
	}
	if err := t.planDir(p, nil, t.Root, p.Root); err != nil {
		return nil, err
	}
	features, err := t.features()
	if err != nil {
		return nil, err
	}
	p.Files[FeaturesFile(t.Library)] = features
	return p, nil
}

func (t *Tree) packageName(p []string) string {
	if len(p) == 0 {
		return dirName(t.Library)
	}
	return dirName(p[len(p)-1])
}

func (t *Tree) planDir(plan *Plan, p []string, m *Module, dir string) error {
	expected := map[string]bool{"mod.go": true}
	plan.Dirs[dir] = expected
	pkgPath := t.PackagePath(p)
	pkgName := t.packageName(p)

	mod, err := t.file(pkgPath, pkgName, t.BuildConstraint(p), t.packageDoc(p, m), func(g *jen.Group) error {
		return t.stmts(g, pkgPath, m.Stmts)
	})
	if err != nil {
		return err
	}
	plan.Files[path.Join(dir, "mod.go")] = mod

	// names already declared in this package can't be re-exported into it
	declared := make(map[string]bool)
	t.collectExports(m.Stmts, declared)
	for _, name := range m.Names() {
		if sub := m.Submodules[name]; sub.IsLeaf() {
			t.collectExports(sub.Stmts, declared)
		}
	}

	for _, name := range m.Names() {
		sub := m.Submodules[name]
		subPath := append(append([]string(nil), p...), name)
		if sub.IsLeaf() {
			file := leafFile(name)
			expected[file] = true
			content, err := t.file(pkgPath, pkgName, t.BuildConstraint(subPath), nil, func(g *jen.Group) error {
				return t.stmts(g, pkgPath, sub.Stmts)
			})
			if err != nil {
				return err
			}
			plan.Files[path.Join(dir, file)] = content
			continue
		}

		subDir := dirName(name)
		expected[subDir] = true
		if err := t.planDir(plan, subPath, sub, path.Join(dir, subDir)); err != nil {
			return err
		}
		if err := t.planReExports(plan, pkgPath, pkgName, dir, subPath, sub, declared, expected); err != nil {
			return err
		}
	}
	return nil
}

// planReExports aliases the items of the nested package at subPath into the
// package at dir. Every providing file gets its own re-export file, gated like
// the file it re-exports.
func (t *Tree) planReExports(plan *Plan, pkgPath, pkgName, dir string, subPath []string, sub *Module, declared, expected map[string]bool) error {
	from := t.PackagePath(subPath)
	if plan.imports.reaches(from, pkgPath) {
		// aliasing would close an import cycle
		t.log.Warn("not re-exporting package that imports its parent", "from", from, "into", pkgPath)
		return nil
	}
	plan.imports.add(pkgPath, from)
	prefix := fileStem(subPath[len(subPath)-1])

	type unit struct {
		file  string
		path  []string
		stmts []model.Stmt
	}
	units := []unit{{file: prefix + ".mod.go", path: subPath, stmts: sub.Stmts}}
	for _, name := range sub.Names() {
		leaf := sub.Submodules[name]
		if !leaf.IsLeaf() {
			continue
		}
		units = append(units, unit{
			file:  prefix + "." + leafFile(name),
			path:  append(append([]string(nil), subPath...), name),
			stmts: leaf.Stmts,
		})
	}

	for _, u := range units {
		var exports []render.Export
		for _, s := range u.stmts {
			for _, e := range t.renderer.Exports(s) {
				if strings.HasPrefix(e.Name, "_") {
					continue
				}
				if declared[e.Name] {
					t.log.Warn("not re-exporting shadowed name", "name", e.Name, "from", from, "into", pkgPath)
					continue
				}
				declared[e.Name] = true
				exports = append(exports, e)
			}
		}
		if len(exports) == 0 {
			continue
		}
		expected[u.file] = true
		content, err := t.file(pkgPath, pkgName, t.BuildConstraint(u.path), nil, func(g *jen.Group) error {
			for _, e := range exports {
				t.renderer.ReExport(g, from, e)
			}
			return nil
		})
		if err != nil {
			return err
		}
		plan.Files[path.Join(dir, u.file)] = content
	}
	return nil
}

func (t *Tree) collectExports(stmts []model.Stmt, into map[string]bool) {
	for _, s := range stmts {
		for _, e := range t.renderer.Exports(s) {
			into[e.Name] = true
		}
	}
}

func (t *Tree) stmts(g *jen.Group, pkgPath string, stmts []model.Stmt) error {
	for _, s := range stmts {
		if err := t.renderer.Stmt(g, pkgPath, s); err != nil {
			return fmt.Errorf("%s: %w", s.Location(), err)
		}
	}
	return nil
}

// file renders one Go file. constraint is a //go:build expression or "".
func (t *Tree) file(pkgPath, pkgName, constraint string, doc []string, body func(*jen.Group) error) ([]byte, error) {
	f := jen.NewFilePathName(pkgPath, pkgName)
	f.HeaderComment(Banner)
	if constraint != "" {
		f.HeaderComment("//go:build " + constraint)
	}
	for _, line := range doc {
		f.PackageComment(line)
	}
	if err := body(f.Group); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", pkgPath, err)
	}
	return buf.Bytes(), nil
}

var kindNouns = map[model.StmtKind]string{
	model.KindClass:    "class",
	model.KindCategory: "category",
	model.KindProtocol: "protocol",
	model.KindStruct:   "struct",
	model.KindEnum:     "enum",
	model.KindVar:      "variable",
	model.KindFn:       "function",
	model.KindAlias:    "alias",
}

var kindOrder = []model.StmtKind{
	model.KindClass, model.KindCategory, model.KindProtocol, model.KindStruct,
	model.KindEnum, model.KindVar, model.KindFn, model.KindAlias,
}

// counts summarizes the declarations of m and its descendants, e.g.
// "2 classes, 1 enum".
func counts(m *Module) string {
	n := make(map[model.StmtKind]int)
	m.Walk(func(_ []string, mod *Module) {
		for _, s := range mod.Stmts {
			n[s.Kind()]++
		}
	})
	var parts []string
	for _, k := range kindOrder {
		c := n[k]
		if c == 0 {
			continue
		}
		noun := kindNouns[k]
		if c != 1 {
			noun = inflection.Plural(noun)
		}
		parts = append(parts, fmt.Sprintf("%d %s", c, noun))
	}
	if len(parts) == 0 {
		return "no declarations"
	}
	return strings.Join(parts, ", ")
}

func (t *Tree) packageDoc(p []string, m *Module) []string {
	var lines []string
	if len(p) == 0 {
		lines = append(lines, fmt.Sprintf("Package %s binds the %s library.", t.packageName(p), t.Library))
	} else {
		lines = append(lines, fmt.Sprintf("Package %s binds the %s headers of %s.", t.packageName(p), strings.Join(p, "/"), t.Library))
	}
	if m.IsLeaf() {
		return lines
	}
	lines = append(lines, "", "Submodules and their build tags:", "")
	for _, name := range m.Names() {
		subPath := append(append([]string(nil), p...), name)
		lines = append(lines, fmt.Sprintf("  - %s (%s): %s", name, t.Tag(subPath), counts(m.Submodules[name])))
	}
	return lines
}
