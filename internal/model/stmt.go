package model

// StmtKind discriminates the statement variants.
type StmtKind string

const (
	KindClass    StmtKind = "class"
	KindCategory StmtKind = "category"
	KindProtocol StmtKind = "protocol"
	KindStruct   StmtKind = "struct"
	KindEnum     StmtKind = "enum"
	KindVar      StmtKind = "var"
	KindFn       StmtKind = "fn"
	KindAlias    StmtKind = "alias"
)

// Stmt is one normalized top-level declaration. The set of implementations is closed.
type Stmt interface {
	Kind() StmtKind
	Location() Location
	// ProvidedItem is the item other statements can reference, if any.
	ProvidedItem() (ItemIdentifier, bool)
	// RequiredItems lists every item the rendered statement references.
	RequiredItems() []ItemIdentifier
	sealed()
}

// Derives is the set of convenience methods generated for a class.
type Derives []string

const (
	DeriveString = "String"
	DeriveEqual  = "Equal"
	DeriveHash   = "Hash"
)

func DefaultDerives() Derives {
	return Derives{DeriveString, DeriveEqual, DeriveHash}
}

func (d Derives) Has(name string) bool {
	for _, n := range d {
		if n == name {
			return true
		}
	}
	return false
}

type ClassDecl struct {
	Name         string
	Generics     []GenericType
	Loc          Location
	Availability Availability
	// Root marks a class without a parent; Superclass is unset exactly when Root is true.
	Root       bool
	Superclass GenericType
	Protocols  []ItemIdentifier
	Members    []Member
	Derives    Derives
}

type CategoryDecl struct {
	Class        ItemIdentifier
	Generics     []GenericType
	Loc          Location
	Availability Availability
	Name         string
	Protocols    []ItemIdentifier
	Members      []Member
}

type ProtocolDecl struct {
	Name         string
	Loc          Location
	Availability Availability
	Protocols    []ItemIdentifier
	Members      []Member
}

type Field struct {
	Name string
	Ty   Ty
}

type StructDecl struct {
	Name         string
	Loc          Location
	Availability Availability
	Boxable      bool
	Fields       []Field
}

// EnumKind is the tag kind of an enum.
type EnumKind string

const (
	EnumPlain   EnumKind = "plain"
	EnumEnum    EnumKind = "enum"
	EnumOptions EnumKind = "options"
	EnumClosed  EnumKind = "closed"
	EnumError   EnumKind = "error"
)

type Variant struct {
	Name         string
	Value        Expr
	Availability Availability
}

type EnumDecl struct {
	// Name is empty for anonymous enums.
	Name         string
	Loc          Location
	Availability Availability
	Ty           Ty
	Tag          EnumKind
	Variants     []Variant
}

type VarDecl struct {
	Name         string
	Loc          Location
	Availability Availability
	Ty           Ty
	Value        *Expr
}

type FnDecl struct {
	Name         string
	Loc          Location
	Availability Availability
	Params       []Param
	Result       Ty
	// Inline marks a function whose body lives in the header.
	Inline bool
}

type AliasDecl struct {
	Name         string
	Loc          Location
	Availability Availability
	Ty           Ty
}

func (*ClassDecl) Kind() StmtKind    { return KindClass }
func (*CategoryDecl) Kind() StmtKind { return KindCategory }
func (*ProtocolDecl) Kind() StmtKind { return KindProtocol }
func (*StructDecl) Kind() StmtKind   { return KindStruct }
func (*EnumDecl) Kind() StmtKind     { return KindEnum }
func (*VarDecl) Kind() StmtKind      { return KindVar }
func (*FnDecl) Kind() StmtKind       { return KindFn }
func (*AliasDecl) Kind() StmtKind    { return KindAlias }

func (s *ClassDecl) Location() Location    { return s.Loc }
func (s *CategoryDecl) Location() Location { return s.Loc }
func (s *ProtocolDecl) Location() Location { return s.Loc }
func (s *StructDecl) Location() Location   { return s.Loc }
func (s *EnumDecl) Location() Location     { return s.Loc }
func (s *VarDecl) Location() Location      { return s.Loc }
func (s *FnDecl) Location() Location       { return s.Loc }
func (s *AliasDecl) Location() Location    { return s.Loc }

func (*ClassDecl) sealed()    {}
func (*CategoryDecl) sealed() {}
func (*ProtocolDecl) sealed() {}
func (*StructDecl) sealed()   {}
func (*EnumDecl) sealed()     {}
func (*VarDecl) sealed()      {}
func (*FnDecl) sealed()       {}
func (*AliasDecl) sealed()    {}
