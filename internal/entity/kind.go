package entity

import "fmt"

// Kind tags an entity with one of the declaration shapes the translator understands.
type Kind int

const (
	InvalidKind Kind = iota
	InterfaceDecl
	ProtocolDecl
	CategoryDecl
	StructDecl
	UnionDecl
	EnumDecl
	FunctionDecl
	VarDecl
	TypedefDecl
	ClassRef
	ProtocolRef
	SuperClassRef
	RootClass
	TemplateTypeParameter
	TypeRefKind
	InstanceMethodDecl
	ClassMethodDecl
	PropertyDecl
	IvarDecl
	FieldDecl
	ParmDecl
	EnumConstantDecl
	UnexposedAttr
	FlagEnum
	Boxable
	VisibilityAttr
	ExplicitProtocolImpl
	ExceptionAttr
	Expression
)

var kindNames = [...]string{
	InvalidKind:           "Invalid",
	InterfaceDecl:         "InterfaceDecl",
	ProtocolDecl:          "ProtocolDecl",
	CategoryDecl:          "CategoryDecl",
	StructDecl:            "StructDecl",
	UnionDecl:             "UnionDecl",
	EnumDecl:              "EnumDecl",
	FunctionDecl:          "FunctionDecl",
	VarDecl:               "VarDecl",
	TypedefDecl:           "TypedefDecl",
	ClassRef:              "ClassRef",
	ProtocolRef:           "ProtocolRef",
	SuperClassRef:         "SuperClassRef",
	RootClass:             "RootClass",
	TemplateTypeParameter: "TemplateTypeParameter",
	TypeRefKind:           "TypeRef",
	InstanceMethodDecl:    "InstanceMethodDecl",
	ClassMethodDecl:       "ClassMethodDecl",
	PropertyDecl:          "PropertyDecl",
	IvarDecl:              "IvarDecl",
	FieldDecl:             "FieldDecl",
	ParmDecl:              "ParmDecl",
	EnumConstantDecl:      "EnumConstantDecl",
	UnexposedAttr:         "UnexposedAttr",
	FlagEnum:              "FlagEnum",
	Boxable:               "Boxable",
	VisibilityAttr:        "VisibilityAttr",
	ExplicitProtocolImpl:  "ExplicitProtocolImpl",
	ExceptionAttr:         "ExceptionAttr",
	Expression:            "Expression",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		if Kind(k) != InvalidKind {
			m[n] = Kind(k)
		}
	}
	return m
}()

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a dump kind string onto the closed Kind set.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindsByName[s]; ok {
		return k, nil
	}
	return InvalidKind, fmt.Errorf("unknown entity kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
