// Package module arranges statements into the output tree of one library and
// writes it as Go packages.
package module

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/cmmoran/headergen/internal/model"
)

// Module is a node of the output tree. Submodule keys are clean names.
type Module struct {
	Submodules map[string]*Module
	Stmts      []model.Stmt
}

func New() *Module {
	return &Module{Submodules: make(map[string]*Module)}
}

// CleanName makes a header file name usable as a submodule name. Some SDK
// files have '+' in their name.
func CleanName(name string) string {
	return strings.ReplaceAll(name, "+", "_")
}

// IsLeaf reports whether m is emitted as a single file.
func (m *Module) IsLeaf() bool {
	return len(m.Submodules) == 0
}

func (m *Module) Add(s model.Stmt) {
	m.Stmts = append(m.Stmts, s)
}

// Submodule returns the child called name, creating it if needed.
func (m *Module) Submodule(name string) *Module {
	name = CleanName(name)
	if sub, ok := m.Submodules[name]; ok {
		return sub
	}
	sub := New()
	m.Submodules[name] = sub
	return sub
}

// Lookup follows path from m, returning nil when a segment is missing.
func (m *Module) Lookup(path []string) *Module {
	cur := m
	for _, seg := range path {
		next, ok := cur.Submodules[CleanName(seg)]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Names lists the submodule names in order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Submodules))
	for name := range m.Submodules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk calls fn for m and every descendant, parents first, children in name
// order. path holds the clean names leading to the module.
func (m *Module) Walk(fn func(path []string, m *Module)) {
	m.walk(nil, fn)
}

func (m *Module) walk(path []string, fn func([]string, *Module)) {
	fn(path, m)
	for _, name := range m.Names() {
		child := append(append([]string(nil), path...), name)
		m.Submodules[name].walk(child, fn)
	}
}

// Len is the number of statements in m and its descendants.
func (m *Module) Len() int {
	n := 0
	m.Walk(func(_ []string, mod *Module) { n += len(mod.Stmts) })
	return n
}

// Build places stmts into a tree by the file path of their location.
// Statements from other libraries are dropped.
func Build(library string, stmts []model.Stmt, log *slog.Logger) *Module {
	if log == nil {
		log = slog.Default()
	}
	root := New()
	for _, s := range stmts {
		loc := s.Location()
		if loc.Library != library {
			log.Debug("ignoring statement from another library", "library", loc.Library, "kind", s.Kind())
			continue
		}
		m := root
		for _, seg := range loc.Segments() {
			m = m.Submodule(seg)
		}
		m.Add(s)
	}
	return root
}

// unitPath is the clean path of the module a location maps to.
func unitPath(loc model.Location) []string {
	segs := loc.Segments()
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = CleanName(s)
	}
	return out
}

func pathKey(path []string) string {
	return strings.Join(path, "/")
}
