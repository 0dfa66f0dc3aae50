package parser

import (
	"strings"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

type partialMethod struct {
	entity   entity.Entity
	selector string
	isClass  bool
}

func newPartialMethod(e entity.Entity) (partialMethod, error) {
	sel, err := requireName(e)
	if err != nil {
		return partialMethod{}, err
	}
	return partialMethod{entity: e, selector: sel, isClass: e.Kind() == entity.ClassMethodDecl}, nil
}

// SelectorGoName turns a selector into a Go method name: initWithString:length:
// becomes InitWithStringLength.
func SelectorGoName(sel string) string {
	var b strings.Builder
	for _, part := range strings.Split(sel, ":") {
		b.WriteString(model.GoName(strings.TrimLeft(part, "_")))
	}
	return b.String()
}

func (p *Parser) parseMethod(pm partialMethod, data config.MethodData) (*model.Method, error) {
	e := pm.entity
	if data.Skipped {
		p.skipped(e, "config")
		return nil, nil
	}
	if e.IsVariadic() {
		p.skipped(e, "variadic methods are not supported")
		return nil, nil
	}

	var (
		params  []model.Param
		errOut  bool
		err     error
		subject = entity.Describe(e)
	)
	children := entity.Children(e)
	for i, child := range children {
		switch child.Kind() {
		case entity.ParmDecl:
			name, ok := child.Name()
			if !ok {
				name = "_"
			}
			if lastParam(children, i) && strings.HasSuffix(pm.selector, "error:") && isErrorOut(child.Type()) {
				errOut = true
				continue
			}
			ty, terr := parseType(child.Type(), MethodArgument)
			if terr != nil {
				return nil, wrapType(subject, terr)
			}
			params = append(params, model.Param{Name: model.SafeIdent(name), Ty: *ty})
		case entity.UnexposedAttr, entity.TypeRefKind, entity.ClassRef, entity.ProtocolRef, entity.VisibilityAttr:
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown method child: %s", entity.Describe(child))
		}
		if err != nil {
			return nil, err
		}
	}

	result, err := parseType(e.ResultType(), MethodReturn)
	if err != nil {
		return nil, wrapType(subject, err)
	}

	goName := data.Name
	if goName == "" {
		goName = SelectorGoName(pm.selector)
	}
	return &model.Method{
		Sel:          pm.selector,
		GoName:       goName,
		IsClass:      pm.isClass,
		Params:       params,
		Result:       *result,
		Availability: optionalAvailability(e),
		ErrorParam:   errOut,
	}, nil
}

// lastParam reports whether children[i] is the last ParmDecl.
func lastParam(children []entity.Entity, i int) bool {
	for _, c := range children[i+1:] {
		if c.Kind() == entity.ParmDecl {
			return false
		}
	}
	return true
}

func wrapType(subject string, err error) error {
	if code := model.Code(err); code != "" {
		return model.Wrap(code, subject, err)
	}
	return err
}

type partialProperty struct {
	entity    entity.Entity
	name      string
	isClass   bool
	getter    string
	setter    string
	hasSetter bool
}

func newPartialProperty(e entity.Entity) (partialProperty, error) {
	name, err := requireName(e)
	if err != nil {
		return partialProperty{}, err
	}
	setter, ok := e.Setter()
	return partialProperty{
		entity:    e,
		name:      name,
		isClass:   e.IsClassMember(),
		getter:    e.Getter(),
		setter:    setter,
		hasSetter: ok,
	}, nil
}

func (p *Parser) parseProperty(pp partialProperty, data config.PropertyData) (*model.Property, error) {
	e := pp.entity
	if data.Skipped {
		p.skipped(e, "config")
		return nil, nil
	}
	subject := entity.Describe(e)
	var err error
	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch child.Kind() {
		case entity.UnexposedAttr, entity.TypeRefKind, entity.ClassRef, entity.ProtocolRef, entity.VisibilityAttr:
			return entity.Continue
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown property child: %s", entity.Describe(child))
			return entity.Break
		}
	})
	if err != nil {
		return nil, err
	}
	ty, err := parseType(e.Type(), Property)
	if err != nil {
		return nil, wrapType(subject, err)
	}
	return &model.Property{
		Name:         pp.name,
		IsClass:      pp.isClass,
		Getter:       pp.getter,
		Setter:       pp.setter,
		HasSetter:    pp.hasSetter,
		Ty:           *ty,
		Availability: optionalAvailability(e),
	}, nil
}
