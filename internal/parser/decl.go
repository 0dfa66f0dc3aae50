package parser

import (
	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
)

func (p *Parser) parseInterface(e entity.Entity) (model.Stmt, error) {
	name, err := requireName(e)
	if err != nil {
		return nil, err
	}
	data := p.Config.Class(name)
	if data.Skipped {
		p.skipped(e, "config")
		return nil, nil
	}
	availability, err := requireAvailability(e)
	if err != nil {
		return nil, err
	}

	var (
		superclass superclassSlot
		generics   []model.GenericType
	)
	protocols, members, err := p.parseObjCDecl(e, &superclass, &generics, data)
	if err != nil {
		return nil, err
	}

	if data.SuperclassName != "" {
		if superclass.resolved && !superclass.root {
			superclass.ty.Name = data.SuperclassName
		} else {
			superclass = superclassSlot{resolved: true, ty: model.GenericType{Name: data.SuperclassName}}
		}
	}
	if !superclass.resolved {
		return nil, model.Errorf(model.ErrNoSuperclass, entity.Describe(e), "no superclass or root class marker found")
	}

	derives := model.DefaultDerives()
	if data.Derives != nil {
		derives = model.Derives(data.Derives)
	}
	return &model.ClassDecl{
		Name:         name,
		Generics:     generics,
		Loc:          location(e.Location()),
		Availability: availability,
		Root:         superclass.root,
		Superclass:   superclass.ty,
		Protocols:    protocols,
		Members:      members,
		Derives:      derives,
	}, nil
}

// categoryClass finds the class a category extends. Categories name exactly one class.
func categoryClass(e entity.Entity) (model.ItemIdentifier, error) {
	var found []model.ItemIdentifier
	e.Visit(func(child entity.Entity) entity.VisitResult {
		if child.Kind() == entity.ClassRef {
			name, _ := child.Name()
			found = append(found, model.ItemIdentifier{Name: name, Location: location(child.Location())})
		}
		return entity.Continue
	})
	switch {
	case len(found) == 0:
		return model.ItemIdentifier{}, model.Errorf(model.ErrCategoryClass, entity.Describe(e), "could not find category class")
	case len(found) > 1:
		return model.ItemIdentifier{}, model.Errorf(model.ErrCategoryClass, entity.Describe(e), "could not find unique category class, found %d", len(found))
	case found[0].Name == "":
		return model.ItemIdentifier{}, model.Errorf(model.ErrMissingMetadata, entity.Describe(e), "category class without name")
	}
	return found[0], nil
}

func (p *Parser) parseCategory(e entity.Entity) (model.Stmt, error) {
	availability, err := requireAvailability(e)
	if err != nil {
		return nil, err
	}
	class, err := categoryClass(e)
	if err != nil {
		return nil, err
	}
	data := p.Config.Class(class.Name)
	if data.Skipped {
		p.skipped(e, "class skipped by config")
		return nil, nil
	}

	var generics []model.GenericType
	protocols, members, err := p.parseObjCDecl(e, nil, &generics, data)
	if err != nil {
		return nil, err
	}
	name, _ := e.Name()
	return &model.CategoryDecl{
		Class:        class,
		Generics:     generics,
		Loc:          location(e.Location()),
		Availability: availability,
		Name:         name,
		Protocols:    protocols,
		Members:      members,
	}, nil
}

func (p *Parser) parseProtocol(e entity.Entity) (model.Stmt, error) {
	name, err := requireName(e)
	if err != nil {
		return nil, err
	}
	data := p.Config.Protocol(name)
	if data.Skipped {
		p.skipped(e, "config")
		return nil, nil
	}
	availability, err := requireAvailability(e)
	if err != nil {
		return nil, err
	}
	protocols, members, err := p.parseObjCDecl(e, nil, nil, data)
	if err != nil {
		return nil, err
	}
	return &model.ProtocolDecl{
		Name:         name,
		Loc:          location(e.Location()),
		Availability: availability,
		Protocols:    protocols,
		Members:      members,
	}, nil
}
