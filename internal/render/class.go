package render

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/internal/parser"
)

const receiver = "self"

// callable is the flattened form of a method or property accessor.
type callable struct {
	goName   string
	selector string
	params   []model.Param
	result   model.Ty
	errorOut bool
	docLine  string
	avail    model.Availability
}

func argName(p model.Param, i int) string {
	if p.Name == "_" || p.Name == "" || p.Name == receiver {
		return fmt.Sprintf("arg%d", i)
	}
	return p.Name
}

// callables expands members into the Go calls they render as. Properties
// produce a getter and, when writable, a setter. Names are not yet unique.
func callables(members []model.Member, owner string) []callable {
	var out []callable
	for _, m := range members {
		sign := "-"
		if m.ClassLevel() {
			sign = "+"
		}
		switch m := m.(type) {
		case *model.Method:
			out = append(out, callable{
				goName:   m.GoName,
				selector: m.Sel,
				params:   m.Params,
				result:   m.Result,
				errorOut: m.ErrorParam,
				docLine:  fmt.Sprintf("sends %s[%s %s].", sign, owner, m.Sel),
				avail:    m.Availability,
			})
		case *model.Property:
			out = append(out, callable{
				goName:   parser.SelectorGoName(m.Getter),
				selector: m.Getter,
				result:   m.Ty,
				docLine:  fmt.Sprintf("gets the %s property of %s.", m.Name, owner),
				avail:    m.Availability,
			})
			if m.HasSetter {
				out = append(out, callable{
					goName:   parser.SelectorGoName(m.Setter),
					selector: m.Setter,
					params:   []model.Param{{Name: "value", Ty: m.Ty}},
					result:   model.Void(),
					docLine:  fmt.Sprintf("sets the %s property of %s.", m.Name, owner),
					avail:    m.Availability,
				})
			}
		}
	}
	return out
}

// signature renders the parameter list and results of c.
func (r *Renderer) signature(c callable, sc scope, leading ...jen.Code) (params []jen.Code, results []jen.Code) {
	params = append(params, leading...)
	for i, p := range c.params {
		params = append(params, jen.Id(argName(p, i)).Add(r.ty(p.Ty, sc)))
	}
	if !c.result.IsVoid() {
		results = append(results, r.ty(c.result, sc))
	}
	if c.errorOut {
		results = append(results, jen.Error())
	}
	return params, results
}

// body sends the message of c to target.
func (r *Renderer) body(c callable, sc scope, target jen.Code) []jen.Code {
	args := []jen.Code{target, r.rt("RegisterName").Call(jen.Lit(c.selector))}
	for i, p := range c.params {
		args = append(args, jen.Id(argName(p, i)))
	}
	switch {
	case c.errorOut && c.result.IsVoid():
		return []jen.Code{
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(r.rt("SendError")).Types(jen.Bool()).Call(args...),
			jen.Return(jen.Err()),
		}
	case c.errorOut:
		return []jen.Code{jen.Return(r.rt("SendError").Types(r.ty(c.result, sc)).Call(args...))}
	case c.result.IsVoid():
		return []jen.Code{r.rt("SendVoid").Call(args...)}
	default:
		return []jen.Code{jen.Return(r.rt("Send").Types(r.ty(c.result, sc)).Call(args...))}
	}
}

func resultList(results []jen.Code) *jen.Statement {
	switch len(results) {
	case 0:
		return jen.Null()
	case 1:
		return jen.Add(results[0])
	default:
		return jen.Params(results...)
	}
}

func (r *Renderer) classObject(name string) *jen.Statement {
	return r.rt("GetClass").Call(jen.Lit(name))
}

func (r *Renderer) class(g *jen.Group, s *model.ClassDecl) {
	name := model.GoName(r.cfg.ClassGoName(s.Name))
	sc := scope(s.Generics)

	first := fmt.Sprintf("%s is the Objective-C class %s.", name, s.Name)
	lines := []string{first}
	if len(s.Protocols) > 0 {
		protocols := make([]string, len(s.Protocols))
		for i, p := range s.Protocols {
			protocols[i] = p.Name
		}
		lines = append(lines, "", "Adopts "+strings.Join(protocols, ", ")+".")
	}
	if extra := s.Availability.Doc(); len(extra) > 0 {
		lines = append(lines, "")
		lines = append(lines, extra...)
	}
	doc(g, lines...)

	super := r.rt("Object")
	if !s.Root {
		super = r.genericType(s.Superclass, sc)
	}
	superName := r.superName(s)

	decl := g.Type().Id(name)
	if len(s.Generics) > 0 {
		decl.Types(r.typeParams(s.Generics)...)
	}
	decl.Struct(jen.Add(super))
	g.Line()

	self := jen.Id(name)
	if len(s.Generics) > 0 {
		self = jen.Id(name).Types(typeArgs(s.Generics)...)
		g.Commentf("%sDefault is %s with every type parameter at its default.", name, name)
		g.Type().Id(name+"Default").Op("=").Id(name).Types(r.baselineArgs(len(s.Generics))...)
		g.Line()
	}
	recv := func() *jen.Statement {
		return jen.Id(receiver).Op("*").Add(self.Clone())
	}

	g.Commentf("Class returns the %s class object.", s.Name)
	g.Func().Params(jen.Op("*").Add(self.Clone())).Id("Class").Params().Add(r.rt("Class")).Block(
		jen.Return(r.classObject(s.Name)),
	)
	g.Line()
	g.Commentf("Super returns the embedded %s.", superName)
	g.Func().Params(recv()).Id("Super").Params().Op("*").Add(super.Clone()).Block(
		jen.Return(jen.Op("&").Id(receiver).Dot(superName)),
	)
	g.Line()

	for _, d := range s.Derives {
		switch d {
		case model.DeriveString:
			g.Func().Params(recv()).Id("String").Params().String().Block(
				jen.Return(r.rt("Description").Call(jen.Id(receiver))),
			)
		case model.DeriveEqual:
			g.Func().Params(recv()).Id("Equal").Params(jen.Id("other").Op("*").Add(self.Clone())).Bool().Block(
				jen.Return(r.rt("IsEqual").Call(jen.Id(receiver), jen.Id("other"))),
			)
		case model.DeriveHash:
			g.Func().Params(recv()).Id("Hash").Params().Uint().Block(
				jen.Return(r.rt("Hash").Call(jen.Id(receiver))),
			)
		default:
			g.Commentf("derive %q has no Go rendering", d)
		}
		g.Line()
	}

	dn := r.declNames(s)
	instance, classLevel := splitMembers(s.Members)
	for _, c := range withNames(callables(instance, s.Name), dn.instance) {
		params, results := r.signature(c, sc)
		docWithAvailability(g, c.goName+" "+c.docLine, c.avail)
		g.Func().Params(recv()).Id(c.goName).Params(params...).Add(resultList(results)).Block(
			r.body(c, sc, jen.Id(receiver))...,
		)
		g.Line()
	}
	r.classFuncs(g, name, s.Name, s.Generics, withNames(callables(classLevel, s.Name), dn.classLevel))
}

// superName is the name of the field embedding the superclass.
func (r *Renderer) superName(s *model.ClassDecl) string {
	if s.Root {
		return "Object"
	}
	name := model.GoName(r.cfg.ClassGoName(s.Superclass.Name))
	if n := r.resolver.TypeParams(model.ItemIdentifier{Name: s.Superclass.Name, Location: s.Superclass.Location}); n > 0 && n != len(s.Superclass.Generics) {
		name += "Default"
	}
	return name
}

// classFuncs renders class-level callables as package functions prefixed
// with the class name.
func (r *Renderer) classFuncs(g *jen.Group, goPrefix, className string, generics []model.GenericType, cs []callable) {
	sc := scope(generics)
	for _, c := range cs {
		fname := goPrefix + c.goName
		params, results := r.signature(c, sc)
		docWithAvailability(g, fname+" "+c.docLine, c.avail)
		decl := g.Func().Id(fname)
		if len(generics) > 0 {
			decl.Types(r.typeParams(generics)...)
		}
		decl.Params(params...).Add(resultList(results)).Block(
			r.body(c, sc, r.classObject(className))...,
		)
		g.Line()
	}
}

func (r *Renderer) category(g *jen.Group, pkgPath string, s *model.CategoryDecl) {
	className := model.GoName(r.cfg.ClassGoName(s.Class.Name))
	sc := scope(s.Generics)
	var lines []string
	if s.Name != "" {
		lines = append(lines, "Category: "+s.Name)
	}
	lines = append(lines, s.Availability.Doc()...)
	if len(lines) > 0 {
		doc(g, lines...)
		g.Line()
	}

	self := r.classRef(s.Class)
	if len(s.Generics) > 0 {
		self = self.Types(typeArgs(s.Generics)...)
	}
	local := r.isLocal(s.Class, pkgPath)

	dn := r.declNames(s)
	instance, classLevel := splitMembers(s.Members)
	for _, c := range withNames(callables(instance, s.Class.Name), dn.instance) {
		if local {
			params, results := r.signature(c, sc)
			docWithAvailability(g, c.goName+" "+c.docLine, c.avail)
			g.Func().Params(jen.Id(receiver).Op("*").Add(self.Clone())).Id(c.goName).Params(params...).Add(resultList(results)).Block(
				r.body(c, sc, jen.Id(receiver))...,
			)
		} else {
			// methods can't be declared on types of another package
			fname := className + c.goName
			params, results := r.signature(c, sc, jen.Id(receiver).Op("*").Add(self.Clone()))
			docWithAvailability(g, fname+" "+c.docLine, c.avail)
			decl := g.Func().Id(fname)
			if len(s.Generics) > 0 {
				decl.Types(r.typeParams(s.Generics)...)
			}
			decl.Params(params...).Add(resultList(results)).Block(
				r.body(c, sc, jen.Id(receiver))...,
			)
		}
		g.Line()
	}
	r.classFuncs(g, className, s.Class.Name, s.Generics, withNames(callables(classLevel, s.Class.Name), dn.classLevel))
}

func (r *Renderer) protocol(g *jen.Group, s *model.ProtocolDecl) {
	name := model.GoName(r.cfg.ProtocolGoName(s.Name))
	docWithAvailability(g, fmt.Sprintf("%s is the Objective-C protocol %s.", name, s.Name), s.Availability)

	instance, classLevel := splitMembers(s.Members)

	methods := make([]jen.Code, 0, len(s.Protocols)+len(instance))
	for _, p := range s.Protocols {
		methods = append(methods, r.protocolRef(p))
	}
	cs := callables(instance, s.Name)
	for _, c := range withNames(cs, claimAll(cs, newMemberNames())) {
		params, results := r.signature(c, nil)
		methods = append(methods, jen.Id(c.goName).Params(params...).Add(resultList(results)))
	}
	g.Type().Id(name).Interface(methods...)
	g.Line()

	if len(classLevel) == 0 {
		return
	}
	var classMethods []jen.Code
	cs = callables(classLevel, s.Name)
	for _, c := range withNames(cs, claimAll(cs, newMemberNames())) {
		params, results := r.signature(c, nil)
		classMethods = append(classMethods, jen.Id(c.goName).Params(params...).Add(resultList(results)))
	}
	g.Commentf("%sClass holds the class-level requirements of %s.", name, s.Name)
	g.Type().Id(name + "Class").Interface(classMethods...)
	g.Line()
}
