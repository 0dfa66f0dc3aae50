package render

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/headergen/internal/model"
)

func (r *Renderer) structDecl(g *jen.Group, s *model.StructDecl) {
	name := model.GoName(s.Name)
	docWithAvailability(g, fmt.Sprintf("%s mirrors the C struct %s.", name, s.Name), s.Availability)
	fields := make([]jen.Code, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, jen.Id(model.GoName(f.Name)).Add(r.ty(f.Ty, nil)))
	}
	g.Type().Id(name).Struct(fields...)
	g.Line()
	if s.Boxable {
		g.Func().Id("init").Params().Block(
			r.rt("RegisterBoxable").Types(jen.Id(name)).Call(jen.Lit(s.Name)),
		)
		g.Line()
	}
}

func (r *Renderer) enum(g *jen.Group, s *model.EnumDecl) {
	underlying := r.ty(s.Ty, nil)
	if s.Name == "" {
		if lines := s.Availability.Doc(); len(lines) > 0 {
			doc(g, lines...)
		}
		g.Const().DefsFunc(func(c *jen.Group) {
			for _, v := range s.Variants {
				r.variant(c, v, underlying.Clone())
			}
		})
		g.Line()
		return
	}

	name := model.GoName(s.Name)
	first := fmt.Sprintf("%s is the C enum %s.", name, s.Name)
	if s.Tag == model.EnumOptions {
		first = fmt.Sprintf("%s is the C option set %s.", name, s.Name)
	}
	docWithAvailability(g, first, s.Availability)
	g.Type().Id(name).Add(underlying)
	g.Line()
	if len(s.Variants) > 0 {
		g.Const().DefsFunc(func(c *jen.Group) {
			for _, v := range s.Variants {
				r.variant(c, v, jen.Id(name))
			}
		})
		g.Line()
	}

	switch s.Tag {
	case model.EnumOptions:
		g.Commentf("Has reports whether every bit of flag is set in e.")
		g.Func().Params(jen.Id("e").Id(name)).Id("Has").Params(jen.Id("flag").Id(name)).Bool().Block(
			jen.Return(jen.Id("e").Op("&").Id("flag").Op("==").Id("flag")),
		)
		g.Line()
	case model.EnumError:
		g.Func().Params(jen.Id("e").Id(name)).Id("Error").Params().String().Block(
			jen.Return(jen.Lit(name+"(").Op("+").Qual("strconv", "FormatInt").Call(jen.Int64().Call(jen.Id("e")), jen.Lit(10)).Op("+").Lit(")")),
		)
		g.Line()
	}
}

func (r *Renderer) variant(c *jen.Group, v model.Variant, ty jen.Code) {
	if lines := v.Availability.Doc(); len(lines) > 0 {
		doc(c, lines...)
	}
	c.Id(model.GoName(v.Name)).Add(ty).Op("=").Add(r.value(v.Value))
}

func (r *Renderer) varDecl(g *jen.Group, s *model.VarDecl) {
	name := model.GoName(s.Name)
	docWithAvailability(g, fmt.Sprintf("%s is the C global %s.", name, s.Name), s.Availability)
	switch {
	case s.Value == nil:
		g.Var().Id(name).Op("=").Add(r.rt("Extern").Types(r.ty(s.Ty, nil)).Call(jen.Lit(s.Name)))
	case isConstType(s.Ty):
		g.Const().Id(name).Add(r.ty(s.Ty, nil)).Op("=").Add(r.value(*s.Value))
	default:
		g.Var().Id(name).Add(r.ty(s.Ty, nil)).Op("=").Add(r.value(*s.Value))
	}
	g.Line()
}

func (r *Renderer) fn(g *jen.Group, s *model.FnDecl) {
	name := model.GoName(s.Name)
	docWithAvailability(g, fmt.Sprintf("%s calls the C function %s.", name, s.Name), s.Availability)

	params := make([]jen.Code, 0, len(s.Params))
	args := []jen.Code{jen.Lit(s.Name)}
	for i, p := range s.Params {
		params = append(params, jen.Id(argName(p, i)).Add(r.ty(p.Ty, nil)))
		args = append(args, jen.Id(argName(p, i)))
	}

	var body jen.Code
	switch {
	case s.Inline:
		body = jen.Panic(jen.Lit(fmt.Sprintf("inline function %s is not bridged", s.Name)))
	case s.Result.IsVoid():
		body = r.rt("CallVoid").Call(args...)
	default:
		body = jen.Return(r.rt("Call").Types(r.ty(s.Result, nil)).Call(args...))
	}

	decl := g.Func().Id(name).Params(params...)
	if !s.Result.IsVoid() {
		decl.Add(r.ty(s.Result, nil))
	}
	decl.Block(body)
	g.Line()
}

func (r *Renderer) alias(g *jen.Group, s *model.AliasDecl) {
	name := model.GoName(s.Name)
	docWithAvailability(g, fmt.Sprintf("%s is the C typedef %s.", name, s.Name), s.Availability)
	g.Type().Id(name).Op("=").Add(r.ty(s.Ty, nil))
	g.Line()
}
