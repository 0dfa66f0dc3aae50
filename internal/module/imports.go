package module

import (
	"github.com/cmmoran/headergen/internal/model"
)

// importGraph maps a package path to the same-library packages it imports.
type importGraph map[string]map[string]bool

func (g importGraph) add(from, to string) {
	if g[from] == nil {
		g[from] = make(map[string]bool)
	}
	g[from][to] = true
}

func (g importGraph) reaches(from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		for next := range g[cur] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// importGraph collects the same-library imports the statements of every
// package need. Re-exports add edges while planning.
func (t *Tree) importGraph() importGraph {
	g := make(importGraph)
	t.Root.Walk(func(p []string, m *Module) {
		pkg := t.PackagePath(p)
		for _, s := range m.Stmts {
			for _, item := range model.RequiredItemsInner(s) {
				if item.Location.Library != t.Library {
					continue
				}
				if dep := t.ImportPath(item); dep != pkg {
					g.add(pkg, dep)
				}
			}
		}
	})
	return g
}
