package model

// Expr is a constant expression already rewritten into Go syntax.
type Expr struct {
	Text string
	// Refs are the declarations the expression names, in order of first
	// use. Name is the C name. A reference without a Location is resolved
	// by name once every statement of the library is known.
	Refs []ItemIdentifier
}

func (e Expr) String() string {
	return e.Text
}

// located returns the refs of e that know where they are declared, except
// those named in skip.
func (e Expr) located(skip map[string]bool) []ItemIdentifier {
	var out []ItemIdentifier
	for _, ref := range e.Refs {
		if ref.Location.IsZero() || skip[ref.Name] {
			continue
		}
		out = append(out, ref)
	}
	return out
}
