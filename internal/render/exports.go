package render

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/headergen/internal/model"
)

type ExportKind int

const (
	ExportType ExportKind = iota
	ExportConst
	ExportVar
	ExportFunc
)

// Export is a top-level Go name a statement declares.
type Export struct {
	Name string
	Kind ExportKind
	// Generics is the number of generic class parameters of a type export.
	Generics int
}

// Exports lists the names s declares that a parent package can re-export.
// Category members and functions of generic classes have no alias form.
func (r *Renderer) Exports(s model.Stmt) []Export {
	switch s := s.(type) {
	case *model.ClassDecl:
		name := model.GoName(r.cfg.ClassGoName(s.Name))
		out := []Export{{Name: name, Kind: ExportType, Generics: len(s.Generics)}}
		if len(s.Generics) > 0 {
			return append(out, Export{Name: name + "Default", Kind: ExportType})
		}
		for _, n := range r.declNames(s).classLevel {
			out = append(out, Export{Name: name + n, Kind: ExportFunc})
		}
		return out
	case *model.ProtocolDecl:
		name := model.GoName(r.cfg.ProtocolGoName(s.Name))
		out := []Export{{Name: name, Kind: ExportType}}
		for _, m := range s.Members {
			if m.ClassLevel() {
				return append(out, Export{Name: name + "Class", Kind: ExportType})
			}
		}
		return out
	case *model.StructDecl:
		return []Export{{Name: model.GoName(s.Name), Kind: ExportType}}
	case *model.EnumDecl:
		var out []Export
		if s.Name != "" {
			out = append(out, Export{Name: model.GoName(s.Name), Kind: ExportType})
		}
		for _, v := range s.Variants {
			out = append(out, Export{Name: model.GoName(v.Name), Kind: ExportConst})
		}
		return out
	case *model.VarDecl:
		if s.Value != nil && isConstType(s.Ty) {
			return []Export{{Name: model.GoName(s.Name), Kind: ExportConst}}
		}
		return []Export{{Name: model.GoName(s.Name), Kind: ExportVar}}
	case *model.FnDecl:
		return []Export{{Name: model.GoName(s.Name), Kind: ExportFunc}}
	case *model.AliasDecl:
		return []Export{{Name: model.GoName(s.Name), Kind: ExportType}}
	}
	return nil
}

// ReExport declares e in g as an alias of the same name in package from.
func (r *Renderer) ReExport(g *jen.Group, from string, e Export) {
	switch e.Kind {
	case ExportType:
		if e.Generics == 0 {
			g.Type().Id(e.Name).Op("=").Qual(from, e.Name)
			return
		}
		params := make([]jen.Code, 0, 2*e.Generics)
		args := make([]jen.Code, 0, 2*e.Generics)
		for i := 0; i < e.Generics; i++ {
			t := fmt.Sprintf("T%d", i)
			params = append(params, jen.Id(t).Add(r.rt("Message")), jen.Id(ownershipParam(t)).Add(r.rt("Ownership")))
			args = append(args, jen.Id(t), jen.Id(ownershipParam(t)))
		}
		g.Type().Id(e.Name).Types(params...).Op("=").Qual(from, e.Name).Types(args...)
	case ExportConst:
		g.Const().Id(e.Name).Op("=").Qual(from, e.Name)
	case ExportVar, ExportFunc:
		g.Var().Id(e.Name).Op("=").Qual(from, e.Name)
	}
}
