package module

import (
	"log/slog"
	"path"
	"strings"

	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/internal/render"
	"github.com/cmmoran/headergen/pkg/config"
)

// Tree is the module tree of one emission library together with everything
// needed to answer cross-module queries. It is read-only once built.
type Tree struct {
	Library string
	Root    *Module

	cfg      *config.Config
	basePath string
	runtime  string
	log      *slog.Logger
	renderer *render.Renderer

	generics map[model.ItemIdentifier]int
	provided map[model.ItemIdentifier]bool
	gates    map[string]gateSet
}

type TreeOption func(*Tree)

// WithRuntimePath overrides the runtime import path of the config.
func WithRuntimePath(p string) TreeOption {
	return func(t *Tree) { t.runtime = p }
}

func WithLogger(l *slog.Logger) TreeOption {
	return func(t *Tree) { t.log = l }
}

// WithBasePath sets the import path of the output directory. Libraries are
// emitted to packages below it unless the config names their import path.
func WithBasePath(p string) TreeOption {
	return func(t *Tree) { t.basePath = p }
}

// NewTree indexes root for library and locates the declarations its
// constant expressions refer to. The tree must not be modified afterwards.
func NewTree(cfg *config.Config, library string, root *Module, opts ...TreeOption) *Tree {
	t := &Tree{
		Library:  library,
		Root:     root,
		cfg:      cfg,
		log:      slog.Default(),
		generics: make(map[model.ItemIdentifier]int),
		provided: make(map[model.ItemIdentifier]bool),
	}
	for _, fn := range opts {
		fn(t)
	}
	root.Walk(func(_ []string, m *Module) {
		for _, s := range m.Stmts {
			item, ok := s.ProvidedItem()
			if !ok {
				continue
			}
			t.provided[item] = true
			if c, ok := s.(*model.ClassDecl); ok {
				t.generics[item] = len(c.Generics)
			}
		}
	})
	t.resolveRefs()
	t.renderer = render.New(cfg, t, render.WithRuntimePath(t.runtime))
	t.assignNames()
	t.gates = t.computeGates()
	return t
}

// resolveRefs locates the expression references the header parser left
// without a declaration, looking them up by C name among the items and enum
// constants of the library. Names declared nowhere in it stay unresolved.
func (t *Tree) resolveRefs() {
	index := make(map[string]model.ItemIdentifier)
	add := func(item model.ItemIdentifier) {
		if _, ok := index[item.Name]; !ok {
			index[item.Name] = item
		}
	}
	t.Root.Walk(func(_ []string, m *Module) {
		for _, s := range m.Stmts {
			if item, ok := s.ProvidedItem(); ok {
				add(item)
			}
			if e, ok := s.(*model.EnumDecl); ok {
				for _, v := range e.Variants {
					add(model.ItemIdentifier{Name: v.Name, Location: e.Loc})
				}
			}
		}
	})

	resolve := func(e *model.Expr) {
		for i, ref := range e.Refs {
			if !ref.Location.IsZero() {
				continue
			}
			if item, ok := index[ref.Name]; ok {
				e.Refs[i].Location = item.Location
			} else {
				t.log.Debug("unresolved expression reference", "name", ref.Name)
			}
		}
	}
	t.Root.Walk(func(_ []string, m *Module) {
		for _, s := range m.Stmts {
			switch s := s.(type) {
			case *model.EnumDecl:
				for i := range s.Variants {
					resolve(&s.Variants[i].Value)
				}
			case *model.VarDecl:
				if s.Value != nil {
					resolve(s.Value)
				}
			}
		}
	})
}

// assignNames names the members of every class before any category can take
// one of their names. Categories follow in tree order.
func (t *Tree) assignNames() {
	var categories []model.Stmt
	t.Root.Walk(func(_ []string, m *Module) {
		for _, s := range m.Stmts {
			switch s.(type) {
			case *model.ClassDecl:
				t.renderer.Assign(s)
			case *model.CategoryDecl:
				categories = append(categories, s)
			}
		}
	})
	for _, s := range categories {
		t.renderer.Assign(s)
	}
}

// dirName is the on-disk and package name of a module or library.
func dirName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(CleanName(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	// the go tool ignores files starting with '_', and identifiers can't
	// start with a digit
	if out == "" || out[0] == '_' || (out[0] >= '0' && out[0] <= '9') {
		out = "x" + out
	}
	return out
}

// Filename suffixes the go tool reads as build constraints, as of Go 1.24.
var (
	knownOS = map[string]bool{
		"aix": true, "android": true, "darwin": true, "dragonfly": true, "freebsd": true,
		"hurd": true, "illumos": true, "ios": true, "js": true, "linux": true, "nacl": true,
		"netbsd": true, "openbsd": true, "plan9": true, "solaris": true, "wasip1": true,
		"windows": true, "zos": true,
	}
	knownArch = map[string]bool{
		"386": true, "amd64": true, "amd64p32": true, "arm": true, "armbe": true, "arm64": true,
		"arm64be": true, "loong64": true, "mips": true, "mipsle": true, "mips64": true,
		"mips64le": true, "mips64p32": true, "mips64p32le": true, "ppc": true, "ppc64": true,
		"ppc64le": true, "riscv": true, "riscv64": true, "s390": true, "s390x": true,
		"sparc": true, "sparc64": true, "wasm": true,
	}
)

// fileStem is the part of a generated file name taken from a module name. The
// go tool gives meaning to "mod", "_test" and "_<GOOS>" or "_<GOARCH>" endings,
// so those get a trailing '_'.
func fileStem(name string) string {
	n := dirName(name)
	if n == "mod" {
		return n + "_"
	}
	if i := strings.LastIndexByte(n, '_'); i > 0 {
		if last := n[i+1:]; last == "test" || knownOS[last] || knownArch[last] {
			return n + "_"
		}
	}
	return n
}

// leafFile is the file a leaf module is written to.
func leafFile(name string) string {
	return fileStem(name) + ".go"
}

// LibraryPath is the import path of the package generated for lib.
func (t *Tree) LibraryPath(lib string) string {
	if lib == t.Library && t.cfg.Library.ImportPath != "" {
		return t.cfg.Library.ImportPath
	}
	if p, ok := t.cfg.LibraryPath(lib); ok {
		return p
	}
	if t.basePath == "" {
		return dirName(lib)
	}
	return path.Join(t.basePath, dirName(lib))
}

// packageOf returns the path, inside the library, of the directory module
// whose package holds the module at p, plus whether p itself is that
// directory.
func (t *Tree) packageOf(p []string) []string {
	cur := t.Root
	var dir []string
	for i, seg := range p {
		next, ok := cur.Submodules[seg]
		if !ok || next.IsLeaf() {
			return p[:i]
		}
		cur = next
		dir = p[:i+1]
	}
	return dir
}

// PackagePath is the import path of the package holding the module at p.
func (t *Tree) PackagePath(p []string) string {
	parts := []string{t.LibraryPath(t.Library)}
	for _, seg := range t.packageOf(p) {
		parts = append(parts, dirName(seg))
	}
	return path.Join(parts...)
}

// ImportPath implements render.Resolver.
func (t *Tree) ImportPath(item model.ItemIdentifier) string {
	switch lib := item.Location.Library; lib {
	case "":
		return ""
	case t.Library:
		return t.PackagePath(unitPath(item.Location))
	default:
		return t.LibraryPath(lib)
	}
}

// TypeParams implements render.Resolver.
func (t *Tree) TypeParams(item model.ItemIdentifier) int {
	return t.generics[item]
}

// Provides reports whether item is declared somewhere in the tree.
func (t *Tree) Provides(item model.ItemIdentifier) bool {
	return t.provided[item]
}

func (t *Tree) Renderer() *render.Renderer {
	return t.renderer
}
