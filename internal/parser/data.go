package parser

import (
	"strings"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

func (p *Parser) parseTypedef(e entity.Entity) (model.Stmt, error) {
	name, err := requireName(e)
	if err != nil {
		return nil, err
	}

	var (
		redirect   entity.Entity
		skipStruct bool
		subject    = entity.Describe(e)
	)
	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch child.Kind() {
		case entity.UnexposedAttr:
			err = rejectEnumMacro(e, child)
		case entity.StructDecl:
			if p.Config.Struct(name).Skipped {
				skipStruct = true
				return entity.Continue
			}
			structName, ok := child.Name()
			if !ok || strings.HasPrefix(structName, "_") {
				// anonymous or private structs take the typedef's name
				redirect = child
			} else {
				// public structs are emitted on their own
				skipStruct = true
			}
		case entity.ClassRef, entity.ProtocolRef, entity.TypeRefKind, entity.ParmDecl:
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown typedef child: %s", entity.Describe(child))
		}
		if err != nil {
			return entity.Break
		}
		return entity.Continue
	})
	if err != nil {
		return nil, err
	}

	if redirect != nil {
		return p.parseStruct(redirect, name, location(e.Location()))
	}
	if skipStruct {
		return nil, nil
	}
	if p.Config.Typedef(name).Skipped {
		p.skipped(e, "config")
		return nil, nil
	}

	ty, err := parseType(e.Type(), Typedef)
	if err != nil {
		return nil, wrapType(subject, err)
	}
	if ty == nil {
		p.skipped(e, "underlying type can't be represented")
		return nil, nil
	}
	if ty.Kind == model.TyNamed && ty.Name == name {
		// typedef enum Foo Foo; the enum already provides the name
		return nil, nil
	}
	return &model.AliasDecl{
		Name:         name,
		Loc:          location(e.Location()),
		Availability: optionalAvailability(e),
		Ty:           *ty,
	}, nil
}

// parseStruct reads the fields of e, which is either a top-level struct or
// the struct nested in a typedef, emitted under name at loc.
func (p *Parser) parseStruct(e entity.Entity, name string, loc model.Location) (model.Stmt, error) {
	s := &model.StructDecl{
		Name:         name,
		Loc:          loc,
		Availability: optionalAvailability(e),
	}
	subject := entity.Describe(e)
	var err error
	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch child.Kind() {
		case entity.UnexposedAttr:
			err = rejectEnumMacro(e, child)
		case entity.FieldDecl:
			fieldName, ok := child.Name()
			if !ok {
				err = model.Errorf(model.ErrMissingMetadata, subject, "struct field without name")
				break
			}
			ty, terr := parseType(child.Type(), StructField)
			if terr != nil {
				err = wrapType(subject, terr)
				break
			}
			if child.IsBitField() {
				p.log.Warn("struct bit-field is not laid out exactly", "name", subject, "field", fieldName)
			}
			s.Fields = append(s.Fields, model.Field{Name: fieldName, Ty: *ty})
		case entity.Boxable:
			s.Boxable = true
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown struct field: %s", entity.Describe(child))
		}
		if err != nil {
			return entity.Break
		}
		return entity.Continue
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseEnum(e entity.Entity) (model.Stmt, error) {
	// enums show up twice in the stream; only the definition is used
	if !e.IsDefinition() {
		return nil, nil
	}
	name, _ := e.Name()
	key := name
	if key == "" {
		key = config.AnonymousEnum
	}
	data := p.Config.Enum(key)
	if data.Skipped {
		p.skipped(e, "config")
		return nil, nil
	}

	subject := entity.Describe(e)
	underlying := e.Type()
	ty, err := parseType(underlying, Enum)
	if err != nil {
		return nil, wrapType(subject, err)
	}
	isSigned := underlying.Signed

	var (
		kind     model.EnumKind
		variants []model.Variant
	)
	setKind := func(k model.EnumKind) error {
		if kind != "" && kind != k {
			return model.Errorf(model.ErrEnumKindMismatch, subject, "got differing enum kinds %s and %s", kind, k)
		}
		kind = k
		return nil
	}
	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch child.Kind() {
		case entity.EnumConstantDecl:
			constName, ok := child.Name()
			if !ok {
				err = model.Errorf(model.ErrMissingMetadata, subject, "enum constant without name")
				break
			}
			if data.Constants[constName].Skipped {
				return entity.Continue
			}
			signed, unsigned := child.EnumValue()
			value := literalExpr(signed, unsigned, isSigned)
			if !data.UseValue {
				if parsed, ok := parseEnumConstant(child); ok {
					value = *parsed
				}
			}
			variants = append(variants, model.Variant{
				Name:         constName,
				Value:        value,
				Availability: optionalAvailability(child),
			})
		case entity.UnexposedAttr:
			if k, ok := enumMacro(child); ok {
				err = setKind(k)
			}
		case entity.FlagEnum:
			err = setKind(model.EnumOptions)
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown enum child: %s", entity.Describe(child))
		}
		if err != nil {
			return entity.Break
		}
		return entity.Continue
	})
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = model.EnumPlain
	}
	return &model.EnumDecl{
		Name:         name,
		Loc:          location(e.Location()),
		Availability: optionalAvailability(e),
		Ty:           *ty,
		Tag:          kind,
		Variants:     variants,
	}, nil
}

func (p *Parser) parseVar(e entity.Entity) (model.Stmt, error) {
	name, err := requireName(e)
	if err != nil {
		return nil, err
	}
	if p.Config.Static(name).Skipped {
		p.skipped(e, "config")
		return nil, nil
	}
	subject := entity.Describe(e)
	ty, err := parseType(e.Type(), Static)
	if err != nil {
		return nil, wrapType(subject, err)
	}

	var (
		value       *model.Expr
		hasValue    bool
		unparseable bool
	)
	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch {
		case child.Kind() == entity.UnexposedAttr:
			err = rejectEnumMacro(e, child)
		case child.Kind() == entity.VisibilityAttr, child.Kind() == entity.ClassRef, child.Kind() == entity.TypeRefKind:
		case child.IsExpression():
			if hasValue {
				err = model.Errorf(model.ErrDuplicateValue, subject, "got variable value twice")
				break
			}
			hasValue = true
			parsed, ok := parseExprEntity(child)
			if !ok {
				unparseable = true
				break
			}
			value = parsed
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown variable child: %s", entity.Describe(child))
		}
		if err != nil {
			return entity.Break
		}
		return entity.Continue
	})
	if err != nil {
		return nil, err
	}
	if unparseable {
		p.skipped(e, "initializer can't be represented")
		return nil, nil
	}
	return &model.VarDecl{
		Name:         name,
		Loc:          location(e.Location()),
		Availability: optionalAvailability(e),
		Ty:           *ty,
		Value:        value,
	}, nil
}

func (p *Parser) parseFunction(e entity.Entity) (model.Stmt, error) {
	name, err := requireName(e)
	if err != nil {
		return nil, err
	}
	if p.Config.Fn(name).Skipped {
		p.skipped(e, "config")
		return nil, nil
	}
	if e.IsVariadic() {
		p.skipped(e, "variadic functions are not supported")
		return nil, nil
	}
	subject := entity.Describe(e)
	if e.IsStatic() {
		return nil, model.Errorf(model.ErrUnknownEntity, subject, "unexpected static method")
	}
	result, err := parseType(e.ResultType(), FunctionReturn)
	if err != nil {
		return nil, wrapType(subject, err)
	}

	var params []model.Param
	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch child.Kind() {
		case entity.UnexposedAttr:
			err = rejectEnumMacro(e, child)
		case entity.ClassRef, entity.TypeRefKind:
		case entity.ParmDecl:
			paramName, ok := child.Name()
			if !ok {
				paramName = "_"
			}
			ty, terr := parseType(child.Type(), FunctionArgument)
			if terr != nil {
				err = wrapType(subject, terr)
				break
			}
			params = append(params, model.Param{Name: model.SafeIdent(paramName), Ty: *ty})
		default:
			err = model.Errorf(model.ErrUnknownEntity, subject, "unknown function child: %s", entity.Describe(child))
		}
		if err != nil {
			return entity.Break
		}
		return entity.Continue
	})
	if err != nil {
		return nil, err
	}
	return &model.FnDecl{
		Name:         name,
		Loc:          location(e.Location()),
		Availability: optionalAvailability(e),
		Params:       params,
		Result:       *result,
		Inline:       e.IsInline(),
	}, nil
}
