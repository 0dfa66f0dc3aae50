// Package render projects statements into Go declarations through jennifer.
package render

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

// Resolver answers the cross-statement questions rendering needs.
type Resolver interface {
	// ImportPath of the package declaring item, "" when it isn't known.
	ImportPath(item model.ItemIdentifier) string
	// TypeParams is the number of generic parameters of a class, 0 when it
	// isn't generic or isn't known.
	TypeParams(item model.ItemIdentifier) int
}

// Renderer renders statements for one library. Besides its configuration it
// only remembers the Go names given to class members.
type Renderer struct {
	cfg      *config.Config
	resolver Resolver
	runtime  string
	names    *names
}

type Option func(*Renderer)

// WithRuntimePath overrides the runtime import path from the config.
func WithRuntimePath(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.runtime = path
		}
	}
}

func New(cfg *config.Config, resolver Resolver, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:      cfg,
		resolver: resolver,
		runtime:  cfg.RuntimePath(),
		names:    newNames(),
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// RuntimePath is the import path generated code uses for the runtime.
func (r *Renderer) RuntimePath() string {
	return r.runtime
}

// Stmt appends the declarations of s to g. pkgPath is the import path of the
// package g belongs to.
func (r *Renderer) Stmt(g *jen.Group, pkgPath string, s model.Stmt) error {
	switch s := s.(type) {
	case *model.ClassDecl:
		r.class(g, s)
	case *model.CategoryDecl:
		r.category(g, pkgPath, s)
	case *model.ProtocolDecl:
		r.protocol(g, s)
	case *model.StructDecl:
		r.structDecl(g, s)
	case *model.EnumDecl:
		r.enum(g, s)
	case *model.VarDecl:
		r.varDecl(g, s)
	case *model.FnDecl:
		r.fn(g, s)
	case *model.AliasDecl:
		r.alias(g, s)
	default:
		return fmt.Errorf("render: unsupported statement %T", s)
	}
	return nil
}

// Text renders s on its own as Go source, in the package its location maps to.
func (r *Renderer) Text(s model.Stmt) (string, error) {
	pkgPath := r.resolver.ImportPath(model.ItemIdentifier{Location: s.Location()})
	if pkgPath == "" {
		pkgPath = "generated"
	}
	f := jen.NewFilePath(pkgPath)
	if err := r.Stmt(f.Group, pkgPath, s); err != nil {
		return "", err
	}
	return f.GoString(), nil
}

func (r *Renderer) rt(name string) *jen.Statement {
	return jen.Qual(r.runtime, name)
}

// doc writes lines as a comment block. Empty lines become bare "//".
func doc(g *jen.Group, lines ...string) {
	for _, l := range lines {
		if l == "" {
			g.Comment("")
			continue
		}
		g.Comment(l)
	}
}

func docWithAvailability(g *jen.Group, first string, a model.Availability) {
	lines := []string{first}
	if extra := a.Doc(); len(extra) > 0 {
		lines = append(lines, "")
		lines = append(lines, extra...)
	}
	doc(g, lines...)
}
