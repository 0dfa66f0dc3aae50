package render

import (
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/headergen/internal/model"
)

// scope is the set of class type parameters visible to a declaration.
type scope []model.GenericType

func (s scope) has(name string) bool {
	for _, g := range s {
		if g.Name == name {
			return true
		}
	}
	return false
}

func ownershipParam(name string) string {
	return name + "Ownership"
}

// typeParams declares one message and one ownership parameter per generic.
func (r *Renderer) typeParams(generics []model.GenericType) []jen.Code {
	out := make([]jen.Code, 0, 2*len(generics))
	for _, g := range generics {
		out = append(out,
			jen.Id(g.Name).Add(r.rt("Message")),
			jen.Id(ownershipParam(g.Name)).Add(r.rt("Ownership")),
		)
	}
	return out
}

// typeArgs lists the type parameters of generics as arguments.
func typeArgs(generics []model.GenericType) []jen.Code {
	out := make([]jen.Code, 0, 2*len(generics))
	for _, g := range generics {
		out = append(out, jen.Id(g.Name), jen.Id(ownershipParam(g.Name)))
	}
	return out
}

// baselineArgs instantiates every generic with the documented defaults.
func (r *Renderer) baselineArgs(n int) []jen.Code {
	out := make([]jen.Code, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, r.rt("Object"), r.rt("Shared"))
	}
	return out
}

// named renders a reference to a top-level Go name of item.
func (r *Renderer) named(item model.ItemIdentifier, goName string) *jen.Statement {
	if path := r.resolver.ImportPath(item); path != "" {
		return jen.Qual(path, goName)
	}
	return jen.Id(goName)
}

func (r *Renderer) classRef(item model.ItemIdentifier) *jen.Statement {
	return r.named(item, model.GoName(r.cfg.ClassGoName(item.Name)))
}

func (r *Renderer) protocolRef(item model.ItemIdentifier) *jen.Statement {
	return r.named(item, model.GoName(r.cfg.ProtocolGoName(item.Name)))
}

// instantiate renders a class type with its arguments. Generic classes used
// without arguments, or with the wrong number, fall back to the baseline alias.
func (r *Renderer) instantiate(item model.ItemIdentifier, args []jen.Code, owners []jen.Code) *jen.Statement {
	n := r.resolver.TypeParams(item)
	if n == 0 {
		return r.classRef(item)
	}
	if len(args) != n {
		return r.named(item, model.GoName(r.cfg.ClassGoName(item.Name))+"Default")
	}
	list := make([]jen.Code, 0, 2*n)
	for i := range args {
		list = append(list, args[i], owners[i])
	}
	return r.classRef(item).Types(list...)
}

// typeArg renders t in type-argument position (no pointer) with its ownership.
func (r *Renderer) typeArg(t model.Ty, sc scope) (jen.Code, jen.Code) {
	switch t.Kind {
	case model.TyGenericParam:
		if sc.has(t.Name) {
			return jen.Id(t.Name), jen.Id(ownershipParam(t.Name))
		}
	case model.TyObject:
		if t.Item != nil {
			return r.objectType(t, sc), r.rt("Shared")
		}
	}
	return r.rt("Object"), r.rt("Shared")
}

func (r *Renderer) objectType(t model.Ty, sc scope) *jen.Statement {
	args := make([]jen.Code, 0, len(t.Generics))
	owners := make([]jen.Code, 0, len(t.Generics))
	for _, g := range t.Generics {
		a, o := r.typeArg(g, sc)
		args = append(args, a)
		owners = append(owners, o)
	}
	return r.instantiate(*t.Item, args, owners)
}

// genericType renders a superclass reference and its type arguments.
func (r *Renderer) genericType(g model.GenericType, sc scope) *jen.Statement {
	if sc.has(g.Name) {
		return jen.Id(g.Name)
	}
	item := model.ItemIdentifier{Name: g.Name, Location: g.Location}
	args := make([]jen.Code, 0, len(g.Generics))
	owners := make([]jen.Code, 0, len(g.Generics))
	for _, a := range g.Generics {
		if sc.has(a.Name) {
			args = append(args, jen.Id(a.Name))
			owners = append(owners, jen.Id(ownershipParam(a.Name)))
			continue
		}
		args = append(args, r.genericType(a, sc))
		owners = append(owners, r.rt("Shared"))
	}
	return r.instantiate(item, args, owners)
}

// ty renders a type in value position. Void renders nil.
func (r *Renderer) ty(t model.Ty, sc scope) *jen.Statement {
	switch t.Kind {
	case model.TyVoid:
		return nil
	case model.TyPrimitive:
		return jen.Id(t.Name)
	case model.TyPointer:
		return jen.Op("*").Add(r.ty(*t.Elem, sc))
	case model.TyArray:
		return jen.Index(jen.Lit(t.Len)).Add(r.ty(*t.Elem, sc))
	case model.TyObject:
		if t.Item == nil {
			return r.rt("ID")
		}
		return jen.Op("*").Add(r.objectType(t, sc))
	case model.TyGenericParam:
		if sc.has(t.Name) {
			return jen.Op("*").Id(t.Name)
		}
		return r.rt("ID")
	case model.TyID:
		return r.rt("ID")
	case model.TyClass:
		return r.rt("Class")
	case model.TySel:
		return r.rt("Sel")
	case model.TyNamed:
		return r.named(*t.Item, model.GoName(t.Item.Name))
	case model.TyUnsafePointer:
		return jen.Qual("unsafe", "Pointer")
	default:
		return r.rt("ID")
	}
}

// isConstType reports whether values of t can be Go constants.
func isConstType(t model.Ty) bool {
	return t.Kind == model.TyPrimitive
}
