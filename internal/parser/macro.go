package parser

import (
	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
)

var enumMacros = map[string]model.EnumKind{
	"NS_ENUM":        model.EnumEnum,
	"CF_ENUM":        model.EnumEnum,
	"NS_OPTIONS":     model.EnumOptions,
	"CF_OPTIONS":     model.EnumOptions,
	"NS_CLOSED_ENUM": model.EnumClosed,
	"CF_CLOSED_ENUM": model.EnumClosed,
	"NS_ERROR_ENUM":  model.EnumError,
}

// enumMacro recognizes the enum kind carried by an UnexposedAttr. Other
// attribute macros are irrelevant to translation.
func enumMacro(e entity.Entity) (model.EnumKind, bool) {
	k, ok := enumMacros[e.Attribute()]
	return k, ok
}

// rejectEnumMacro fails when an enum kind attribute shows up where no enum is declared.
func rejectEnumMacro(parent, attr entity.Entity) error {
	if k, ok := enumMacro(attr); ok {
		return model.Errorf(model.ErrUnexpectedAttribute, entity.Describe(parent), "unexpected %s attribute (%s)", attr.Attribute(), k)
	}
	return nil
}
