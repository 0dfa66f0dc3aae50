package parser

import (
	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
)

// TypeMode selects the rules a type is parsed under.
type TypeMode int

const (
	StructField TypeMode = iota
	FunctionArgument
	FunctionReturn
	MethodArgument
	MethodReturn
	Property
	Static
	Typedef
	Enum
)

func (m TypeMode) String() string {
	switch m {
	case StructField:
		return "struct field"
	case FunctionArgument:
		return "function argument"
	case FunctionReturn:
		return "function return"
	case MethodArgument:
		return "method argument"
	case MethodReturn:
		return "method return"
	case Property:
		return "property"
	case Static:
		return "static"
	case Typedef:
		return "typedef"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

func (m TypeMode) isArgument() bool {
	return m == FunctionArgument || m == MethodArgument
}

func (m TypeMode) isReturn() bool {
	return m == FunctionReturn || m == MethodReturn
}

// primitives maps C and Foundation scalar spellings to Go builtins (LP64).
var primitives = map[string]string{
	"BOOL":               "bool",
	"bool":               "bool",
	"_Bool":              "bool",
	"Boolean":            "bool",
	"char":               "int8",
	"signed char":        "int8",
	"unsigned char":      "uint8",
	"short":              "int16",
	"unsigned short":     "uint16",
	"int":                "int32",
	"unsigned int":       "uint32",
	"long":               "int",
	"unsigned long":      "uint",
	"long long":          "int64",
	"unsigned long long": "uint64",
	"float":              "float32",
	"double":             "float64",
	"int8_t":             "int8",
	"int16_t":            "int16",
	"int32_t":            "int32",
	"int64_t":            "int64",
	"uint8_t":            "uint8",
	"uint16_t":           "uint16",
	"uint32_t":           "uint32",
	"uint64_t":           "uint64",
	"size_t":             "uint",
	"ssize_t":            "int",
	"intptr_t":           "int",
	"uintptr_t":          "uintptr",
	"NSInteger":          "int",
	"NSUInteger":         "uint",
	"CGFloat":            "float64",
	"unichar":            "uint16",
	"UniChar":            "uint16",
}

var integerPrimitives = map[string]bool{
	"int8": true, "int16": true, "int32": true, "int64": true, "int": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true, "uint": true, "uintptr": true,
}

func unknownType(t *entity.TypeRef, mode TypeMode, why string) error {
	return model.Errorf(model.ErrUnknownType, t.String(), "%s in %s position", why, mode)
}

// parseType normalizes t under mode. A nil type with a nil error means t can't
// be represented under mode.
func parseType(t *entity.TypeRef, mode TypeMode) (*model.Ty, error) {
	if t == nil {
		return nil, model.Errorf(model.ErrMissingMetadata, "type", "missing type in %s position", mode)
	}
	ty, err := parseTypeInner(t, mode)
	if err != nil || ty == nil {
		return nil, err
	}
	if mode == Enum && (ty.Kind != model.TyPrimitive || !integerPrimitives[ty.Name]) {
		return nil, unknownType(t, mode, "non-integer enum type")
	}
	return ty, nil
}

func parseTypeInner(t *entity.TypeRef, mode TypeMode) (*model.Ty, error) {
	switch t.Kind {
	case entity.TypeVoid:
		if !mode.isReturn() {
			return nil, unknownType(t, mode, "void")
		}
		return &model.Ty{Kind: model.TyVoid}, nil
	case entity.TypePrimitive:
		name, ok := primitives[t.Name]
		if !ok {
			return nil, unknownType(t, mode, "unknown primitive")
		}
		return &model.Ty{Kind: model.TyPrimitive, Name: name}, nil
	case entity.TypeID:
		return &model.Ty{Kind: model.TyID}, nil
	case entity.TypeClass:
		return &model.Ty{Kind: model.TyClass}, nil
	case entity.TypeSel:
		return &model.Ty{Kind: model.TySel}, nil
	case entity.TypeObject:
		if mode == StructField {
			// struct fields hold unretained references
			return &model.Ty{Kind: model.TyID}, nil
		}
		return objectType(t)
	case entity.TypeGenericParam:
		if mode == StructField {
			return &model.Ty{Kind: model.TyID}, nil
		}
		return &model.Ty{Kind: model.TyGenericParam, Name: t.Name}, nil
	case entity.TypeStruct, entity.TypeEnum, entity.TypeTypedef:
		if t.Name == "" {
			return nil, unknownType(t, mode, "anonymous named type")
		}
		item := model.ItemIdentifier{Name: t.Name, Location: location(t.Location)}
		return &model.Ty{Kind: model.TyNamed, Name: t.Name, Item: &item}, nil
	case entity.TypePointer:
		return pointerType(t, mode)
	case entity.TypeArray:
		if t.Pointee == nil {
			return nil, unknownType(t, mode, "array without element")
		}
		elem, err := parseTypeInner(t.Pointee, elemMode(mode))
		if err != nil || elem == nil {
			return nil, err
		}
		if mode.isArgument() {
			return &model.Ty{Kind: model.TyPointer, Elem: elem}, nil
		}
		return &model.Ty{Kind: model.TyArray, Elem: elem, Len: t.Len}, nil
	case entity.TypeBlock, entity.TypeFunctionPointer:
		if mode == Typedef {
			return nil, nil
		}
		return &model.Ty{Kind: model.TyUnsafePointer}, nil
	default:
		return nil, unknownType(t, mode, "unsupported type kind")
	}
}

// elemMode is the mode of a pointee or array element. Pointees keep their
// object-ness, except in struct fields where everything stays unretained.
func elemMode(mode TypeMode) TypeMode {
	if mode == StructField {
		return StructField
	}
	return Static
}

func pointerType(t *entity.TypeRef, mode TypeMode) (*model.Ty, error) {
	if t.Pointee == nil || t.Pointee.Kind == entity.TypeVoid {
		return &model.Ty{Kind: model.TyUnsafePointer}, nil
	}
	switch t.Pointee.Kind {
	case entity.TypeBlock, entity.TypeFunctionPointer:
		if mode == Typedef {
			return nil, nil
		}
		return &model.Ty{Kind: model.TyUnsafePointer}, nil
	}
	elem, err := parseTypeInner(t.Pointee, elemMode(mode))
	if err != nil || elem == nil {
		return nil, err
	}
	return &model.Ty{Kind: model.TyPointer, Elem: elem}, nil
}

func objectType(t *entity.TypeRef) (*model.Ty, error) {
	if t.Name == "" {
		return &model.Ty{Kind: model.TyID}, nil
	}
	item := model.ItemIdentifier{Name: t.Name, Location: location(t.Location)}
	ty := &model.Ty{Kind: model.TyObject, Name: t.Name, Item: &item}
	for _, g := range t.Generics {
		arg, err := genericArg(g)
		if err != nil {
			return nil, err
		}
		ty.Generics = append(ty.Generics, *arg)
	}
	return ty, nil
}

func genericArg(t *entity.TypeRef) (*model.Ty, error) {
	switch t.Kind {
	case entity.TypeObject:
		return objectType(t)
	case entity.TypeGenericParam:
		return &model.Ty{Kind: model.TyGenericParam, Name: t.Name}, nil
	case entity.TypeID:
		return &model.Ty{Kind: model.TyID}, nil
	default:
		return nil, unknownType(t, MethodArgument, "non-object generic argument")
	}
}

// isErrorOut reports whether t is the NSError ** out-parameter of the error convention.
func isErrorOut(t *entity.TypeRef) bool {
	if t == nil || t.Kind != entity.TypePointer || t.Pointee == nil {
		return false
	}
	inner := t.Pointee
	return inner.Kind == entity.TypeObject && inner.Name == "NSError"
}
