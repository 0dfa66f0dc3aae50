package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
	"github.com/cmmoran/headergen/pkg/config"
)

// superclassSlot receives the superclass resolved while walking an interface.
type superclassSlot struct {
	resolved bool
	root     bool
	ty       model.GenericType
}

type accessorKey struct {
	class    bool
	selector string
}

func (k accessorKey) String() string {
	if k.class {
		return "+" + k.selector
	}
	return "-" + k.selector
}

// unmergedAccessors are property accessors the compiler doesn't synthesize a
// matching method for. Leftovers in this set don't fail the walk.
var unmergedAccessors = map[accessorKey]bool{
	{class: false, selector: "setDisplayName:"}: true,
}

// parseObjCDecl walks the children of an interface, category or protocol
// once. A nil superclass or generics slot means the declaration kind has none,
// and children that would fill it are structural errors.
func (p *Parser) parseObjCDecl(
	e entity.Entity,
	superclass *superclassSlot,
	generics *[]model.GenericType,
	data config.ClassData,
) ([]model.ItemIdentifier, []model.Member, error) {
	var (
		protocols []model.ItemIdentifier
		members   []model.Member
		err       error
		// accessors of declared properties; synthesized methods matching
		// them are absorbed into the property
		pending = make(map[accessorKey]bool)
		subject = entity.Describe(e)
	)

	fail := func(code model.ErrorCode, child entity.Entity, format string, args ...any) entity.VisitResult {
		err = model.Errorf(code, subject, "%s: %s", fmt.Sprintf(format, args...), entity.Describe(child))
		return entity.Break
	}

	e.Visit(func(child entity.Entity) entity.VisitResult {
		switch child.Kind() {
		case entity.ExplicitProtocolImpl:
			if generics != nil || superclass != nil {
				return fail(model.ErrUnknownEntity, child, "unexpected child")
			}
		case entity.IvarDecl, entity.ExceptionAttr:
			if superclass == nil {
				return fail(model.ErrUnknownEntity, child, "unexpected child")
			}
		case entity.SuperClassRef:
			if superclass == nil {
				return fail(model.ErrUnknownEntity, child, "unsupported superclass")
			}
			name, ok := child.Name()
			if !ok {
				return fail(model.ErrMissingMetadata, child, "superclass without name")
			}
			// type arguments are filled in by the TypeRef children that follow
			*superclass = superclassSlot{resolved: true, ty: model.GenericType{Name: name, Location: location(child.Location())}}
		case entity.RootClass:
			if superclass == nil {
				return fail(model.ErrUnknownEntity, child, "unsupported root class")
			}
			*superclass = superclassSlot{resolved: true, root: true}
		case entity.ClassRef:
			if generics == nil {
				return fail(model.ErrUnknownEntity, child, "unexpected class reference")
			}
		case entity.TemplateTypeParameter:
			if generics == nil {
				return fail(model.ErrUnknownEntity, child, "unsupported generics")
			}
			name, ok := child.Name()
			if !ok {
				return fail(model.ErrMissingMetadata, child, "type parameter without name")
			}
			*generics = append(*generics, model.GenericType{Name: name})
		case entity.ProtocolRef:
			name, ok := child.Name()
			if !ok {
				return fail(model.ErrMissingMetadata, child, "protocol reference without name")
			}
			protocols = append(protocols, model.ItemIdentifier{Name: name, Location: location(child.Location())})
		case entity.InstanceMethodDecl, entity.ClassMethodDecl:
			pm, perr := newPartialMethod(child)
			if perr != nil {
				err = perr
				return entity.Break
			}
			key := accessorKey{class: pm.isClass, selector: pm.selector}
			if pending[key] {
				delete(pending, key)
				return entity.Continue
			}
			m, perr := p.parseMethod(pm, data.Methods[pm.selector])
			if perr != nil {
				err = perr
				return entity.Break
			}
			if m != nil {
				members = append(members, m)
			}
		case entity.PropertyDecl:
			pp, perr := newPartialProperty(child)
			if perr != nil {
				err = perr
				return entity.Break
			}
			getter := accessorKey{class: pp.isClass, selector: pp.getter}
			if pending[getter] {
				return fail(model.ErrDuplicateProperty, child, "accessor %s already registered", getter)
			}
			pending[getter] = true
			if pp.hasSetter {
				setter := accessorKey{class: pp.isClass, selector: pp.setter}
				if pending[setter] {
					return fail(model.ErrDuplicateProperty, child, "accessor %s already registered", setter)
				}
				pending[setter] = true
			}
			prop, perr := p.parseProperty(pp, data.Properties[pp.name])
			if perr != nil {
				err = perr
				return entity.Break
			}
			if prop != nil {
				members = append(members, prop)
			}
		case entity.VisibilityAttr:
		case entity.TypeRefKind:
			if superclass == nil || !superclass.resolved || superclass.root {
				return fail(model.ErrUnknownEntity, child, "unsupported type reference")
			}
			name, ok := child.Name()
			if !ok {
				return fail(model.ErrMissingMetadata, child, "type reference without name")
			}
			superclass.ty.Generics = append(superclass.ty.Generics, model.GenericType{Name: name, Location: location(child.Location())})
		case entity.UnexposedAttr:
			if k, ok := enumMacro(child); ok {
				p.log.Debug("ignoring attribute", "name", subject, "attribute", child.Attribute(), "kind", k)
			}
		default:
			return fail(model.ErrUnknownEntity, child, "unknown child")
		}
		return entity.Continue
	})
	if err != nil {
		return nil, nil, err
	}

	if len(pending) > 0 {
		leftover := make([]string, 0, len(pending))
		known := true
		for key := range pending {
			leftover = append(leftover, key.String())
			known = known && unmergedAccessors[key]
		}
		sort.Strings(leftover)
		if !known {
			selectors := make([]string, len(members))
			for i, m := range members {
				selectors[i] = m.Selector()
			}
			return nil, nil, model.Errorf(model.ErrUnmatchedAccessor, subject,
				"accessors without a synthesized method: %s (members: %s)",
				strings.Join(leftover, ", "), strings.Join(selectors, ", "))
		}
		p.log.Warn("known unmatched accessor", "name", subject, "accessors", leftover)
	}

	return protocols, members, nil
}
