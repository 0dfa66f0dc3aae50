package model

import (
	"fmt"
	"strings"
)

// TyKind classifies a parsed type.
type TyKind int

const (
	TyVoid TyKind = iota
	// TyPrimitive holds a Go builtin in Name.
	TyPrimitive
	TyPointer
	TyArray
	// TyObject is a retained reference to a class instance.
	TyObject
	// TyID is an untyped or unretained object reference.
	TyID
	TyClass
	TySel
	// TyNamed is a struct, enum or typedef used by value.
	TyNamed
	// TyGenericParam is a reference to a class type parameter.
	TyGenericParam
	TyUnsafePointer
)

// Ty is a type after mode-specific normalization.
type Ty struct {
	Kind TyKind
	Name string
	// Item is set for TyObject and TyNamed.
	Item     *ItemIdentifier
	Elem     *Ty
	Len      int
	Generics []Ty
}

func Void() Ty                { return Ty{Kind: TyVoid} }
func Primitive(name string) Ty { return Ty{Kind: TyPrimitive, Name: name} }
func PointerTo(elem Ty) Ty     { return Ty{Kind: TyPointer, Elem: &elem} }

func (t Ty) IsVoid() bool {
	return t.Kind == TyVoid
}

// Items returns the declarations t references, in encounter order.
func (t Ty) Items() []ItemIdentifier {
	var out []ItemIdentifier
	t.collect(&out)
	return out
}

func (t Ty) collect(out *[]ItemIdentifier) {
	if t.Item != nil {
		*out = append(*out, *t.Item)
	}
	if t.Elem != nil {
		t.Elem.collect(out)
	}
	for _, g := range t.Generics {
		g.collect(out)
	}
}

func (t Ty) String() string {
	switch t.Kind {
	case TyVoid:
		return "void"
	case TyPrimitive, TyGenericParam:
		return t.Name
	case TyPointer:
		return "*" + t.Elem.String()
	case TyArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem)
	case TyObject, TyNamed:
		name := t.Name
		if t.Item != nil {
			name = t.Item.Name
		}
		if len(t.Generics) == 0 {
			if t.Kind == TyObject {
				return "*" + name
			}
			return name
		}
		args := make([]string, len(t.Generics))
		for i, g := range t.Generics {
			args[i] = g.String()
		}
		return fmt.Sprintf("*%s[%s]", name, strings.Join(args, ", "))
	case TyID:
		return "id"
	case TyClass:
		return "Class"
	case TySel:
		return "SEL"
	case TyUnsafePointer:
		return "unsafe.Pointer"
	default:
		return fmt.Sprintf("Ty(%d)", int(t.Kind))
	}
}
