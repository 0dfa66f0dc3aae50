package model

// Member is a Method or a Property of a class, category or protocol.
type Member interface {
	// Selector identifies the member: the method selector or the property name.
	Selector() string
	ClassLevel() bool
	RequiredItems() []ItemIdentifier
	member()
}

type Param struct {
	Name string
	Ty   Ty
}

type Method struct {
	Sel          string
	GoName       string
	IsClass      bool
	Params       []Param
	Result       Ty
	Availability Availability
	// ErrorParam is set when the trailing NSError ** parameter was lifted into
	// an error result.
	ErrorParam bool
}

func (m *Method) Selector() string { return m.Sel }
func (m *Method) ClassLevel() bool { return m.IsClass }
func (*Method) member()            {}

func (m *Method) RequiredItems() []ItemIdentifier {
	var out []ItemIdentifier
	for _, p := range m.Params {
		out = append(out, p.Ty.Items()...)
	}
	return append(out, m.Result.Items()...)
}

type Property struct {
	Name         string
	IsClass      bool
	Getter       string
	Setter       string
	HasSetter    bool
	Ty           Ty
	Availability Availability
}

func (p *Property) Selector() string { return p.Name }
func (p *Property) ClassLevel() bool { return p.IsClass }
func (*Property) member()            {}

func (p *Property) RequiredItems() []ItemIdentifier {
	return p.Ty.Items()
}

// GenericType is a named type with nested type arguments.
type GenericType struct {
	Name     string
	Generics []GenericType
	// Location of the named declaration, zero for type parameters.
	Location Location
}

func (g GenericType) Items(params []GenericType) []ItemIdentifier {
	var out []ItemIdentifier
	if !g.Location.IsZero() && !isParam(g.Name, params) {
		out = append(out, ItemIdentifier{Name: g.Name, Location: g.Location})
	}
	for _, a := range g.Generics {
		out = append(out, a.Items(params)...)
	}
	return out
}

func isParam(name string, params []GenericType) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}
