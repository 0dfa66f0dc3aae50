package entity

import "fmt"

// TypeKind classifies a type descriptor.
type TypeKind string

const (
	TypeVoid            TypeKind = "void"
	TypePrimitive       TypeKind = "primitive"
	TypePointer         TypeKind = "pointer"
	TypeObject          TypeKind = "object"
	TypeID              TypeKind = "id"
	TypeClass           TypeKind = "class"
	TypeSel             TypeKind = "sel"
	TypeStruct          TypeKind = "struct"
	TypeEnum            TypeKind = "enum"
	TypeTypedef         TypeKind = "typedef"
	TypeArray           TypeKind = "array"
	TypeBlock           TypeKind = "block"
	TypeFunctionPointer TypeKind = "function-pointer"
	TypeGenericParam    TypeKind = "generic-param"
)

func (k *TypeKind) UnmarshalText(text []byte) error {
	switch v := TypeKind(text); v {
	case TypeVoid, TypePrimitive, TypePointer, TypeObject, TypeID, TypeClass, TypeSel,
		TypeStruct, TypeEnum, TypeTypedef, TypeArray, TypeBlock, TypeFunctionPointer, TypeGenericParam:
		*k = v
		return nil
	default:
		return fmt.Errorf("unknown type kind %q", string(text))
	}
}

// TypeRef is the type descriptor attached to an entity.
//
// Pointee is set for pointer types and is the element type of arrays. Object
// types carry the class name in Name, their type arguments in Generics and
// adopted protocols in Protocols. Named kinds (struct, enum, typedef, object)
// carry the Location of their declaration when it is known.
type TypeRef struct {
	Kind      TypeKind   `json:"kind" yaml:"kind"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Location  Location   `json:"location,omitempty" yaml:"location,omitempty"`
	Pointee   *TypeRef   `json:"pointee,omitempty" yaml:"pointee,omitempty"`
	Len       int        `json:"len,omitempty" yaml:"len,omitempty"`
	Generics  []*TypeRef `json:"generics,omitempty" yaml:"generics,omitempty"`
	Protocols []string   `json:"protocols,omitempty" yaml:"protocols,omitempty"`
	Nullable  bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Const     bool       `json:"const,omitempty" yaml:"const,omitempty"`
	Signed    bool       `json:"signed,omitempty" yaml:"signed,omitempty"`
}

func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypePointer:
		return t.Pointee.String() + " *"
	case TypeArray:
		return fmt.Sprintf("%s[%d]", t.Pointee, t.Len)
	case TypeObject:
		return t.Name + " *"
	case TypeVoid, TypeID, TypeClass, TypeSel:
		if t.Name != "" {
			return t.Name
		}
		return string(t.Kind)
	default:
		return t.Name
	}
}
