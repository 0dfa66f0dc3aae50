package module

import (
	"sort"
	"strings"

	"github.com/cmmoran/headergen/internal/model"
)

// gateSet is a conjunction of build tags.
type gateSet map[string]bool

func (g gateSet) sorted() []string {
	out := make([]string, 0, len(g))
	for tag := range g {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Tag is the build tag enabling the module at p. The root has none.
func (t *Tree) Tag(p []string) string {
	if len(p) == 0 {
		return ""
	}
	return dirName(t.Library + "_" + strings.Join(p, "_"))
}

// LibraryTag is the build tag enabling references to another library.
func LibraryTag(lib string) string {
	return dirName(lib)
}

// computeGates starts every module from the tags of its own path and the
// optional libraries it references, then folds in the gates of every
// same-library module it references until nothing changes.
func (t *Tree) computeGates() map[string]gateSet {
	gates := make(map[string]gateSet)
	deps := make(map[string][]string)
	t.Root.Walk(func(p []string, m *Module) {
		key := pathKey(p)
		g := make(gateSet)
		for i := range p {
			g[t.Tag(p[:i+1])] = true
		}
		seen := make(map[string]bool)
		for _, s := range m.Stmts {
			for _, item := range model.RequiredItemsInner(s) {
				switch lib := item.Location.Library; {
				case lib == "":
				case lib == t.Library:
					up := unitPath(item.Location)
					dep := pathKey(up)
					if dep == key || seen[dep] || t.Root.Lookup(up) == nil {
						continue
					}
					seen[dep] = true
					deps[key] = append(deps[key], dep)
				case t.cfg.IsRequired(lib):
				default:
					g[LibraryTag(lib)] = true
				}
			}
		}
		gates[key] = g
	})

	for changed := true; changed; {
		changed = false
		for key, ds := range deps {
			for _, d := range ds {
				for tag := range gates[d] {
					if !gates[key][tag] {
						gates[key][tag] = true
						changed = true
					}
				}
			}
		}
	}
	return gates
}

// Gates lists the tags a file of the module at p must be built with.
func (t *Tree) Gates(p []string) []string {
	return t.gates[pathKey(p)].sorted()
}

// BuildConstraint is the //go:build expression for the module at p, "" when
// it is always built.
func (t *Tree) BuildConstraint(p []string) string {
	return strings.Join(t.Gates(p), " && ")
}

// RequiredFeatures maps the tag of every submodule to the other tags it needs.
func (t *Tree) RequiredFeatures() map[string][]string {
	out := make(map[string][]string)
	t.Root.Walk(func(p []string, _ *Module) {
		if len(p) == 0 {
			return
		}
		own := t.Tag(p)
		required := make([]string, 0)
		for _, tag := range t.Gates(p) {
			if tag != own {
				required = append(required, tag)
			}
		}
		out[own] = required
	})
	return out
}

// Libraries lists the other libraries referenced anywhere in the tree.
func (t *Tree) Libraries() []string {
	set := make(map[string]bool)
	t.Root.Walk(func(_ []string, m *Module) {
		for _, s := range m.Stmts {
			for _, item := range model.RequiredItemsInner(s) {
				if lib := item.Location.Library; lib != "" && lib != t.Library {
					set[lib] = true
				}
			}
		}
	})
	out := make([]string, 0, len(set))
	for lib := range set {
		out = append(out, lib)
	}
	sort.Strings(out)
	return out
}
