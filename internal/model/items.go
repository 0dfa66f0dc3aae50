package model

func provide(name string, loc Location) (ItemIdentifier, bool) {
	return ItemIdentifier{Name: name, Location: loc}, true
}

func (s *ClassDecl) ProvidedItem() (ItemIdentifier, bool)  { return provide(s.Name, s.Loc) }
func (*CategoryDecl) ProvidedItem() (ItemIdentifier, bool) { return ItemIdentifier{}, false }
func (s *ProtocolDecl) ProvidedItem() (ItemIdentifier, bool) {
	return provide(s.Name, s.Loc)
}
func (s *StructDecl) ProvidedItem() (ItemIdentifier, bool) { return provide(s.Name, s.Loc) }
func (s *VarDecl) ProvidedItem() (ItemIdentifier, bool)    { return provide(s.Name, s.Loc) }
func (s *FnDecl) ProvidedItem() (ItemIdentifier, bool)     { return provide(s.Name, s.Loc) }
func (s *AliasDecl) ProvidedItem() (ItemIdentifier, bool)  { return provide(s.Name, s.Loc) }

func (s *EnumDecl) ProvidedItem() (ItemIdentifier, bool) {
	if s.Name == "" {
		return ItemIdentifier{}, false
	}
	return provide(s.Name, s.Loc)
}

func membersItems(members []Member) []ItemIdentifier {
	var out []ItemIdentifier
	for _, m := range members {
		out = append(out, m.RequiredItems()...)
	}
	return out
}

// Adopted protocols of classes and categories only show up in docs, so they
// are not required.
func (s *ClassDecl) RequiredItems() []ItemIdentifier {
	var out []ItemIdentifier
	if !s.Root {
		out = append(out, s.Superclass.Items(s.Generics)...)
	}
	return append(out, membersItems(s.Members)...)
}

func (s *CategoryDecl) RequiredItems() []ItemIdentifier {
	return append([]ItemIdentifier{s.Class}, membersItems(s.Members)...)
}

func (s *ProtocolDecl) RequiredItems() []ItemIdentifier {
	out := append([]ItemIdentifier(nil), s.Protocols...)
	return append(out, membersItems(s.Members)...)
}

func (s *StructDecl) RequiredItems() []ItemIdentifier {
	var out []ItemIdentifier
	for _, f := range s.Fields {
		out = append(out, f.Ty.Items()...)
	}
	return out
}

// Enum values referring to constants of the same enum require nothing.
func (s *EnumDecl) RequiredItems() []ItemIdentifier {
	out := s.Ty.Items()
	own := make(map[string]bool, len(s.Variants))
	for _, v := range s.Variants {
		own[v.Name] = true
	}
	for _, v := range s.Variants {
		out = append(out, v.Value.located(own)...)
	}
	return out
}

func (s *VarDecl) RequiredItems() []ItemIdentifier {
	out := s.Ty.Items()
	if s.Value != nil {
		out = append(out, s.Value.located(nil)...)
	}
	return out
}

func (s *FnDecl) RequiredItems() []ItemIdentifier {
	var out []ItemIdentifier
	for _, p := range s.Params {
		out = append(out, p.Ty.Items()...)
	}
	return append(out, s.Result.Items()...)
}

func (s *AliasDecl) RequiredItems() []ItemIdentifier { return s.Ty.Items() }

// RequiredItemsInner is RequiredItems without the statement's own item and
// without duplicates, in first-seen order.
func RequiredItemsInner(s Stmt) []ItemIdentifier {
	own, hasOwn := s.ProvidedItem()
	seen := make(map[ItemIdentifier]bool)
	var out []ItemIdentifier
	for _, item := range s.RequiredItems() {
		if (hasOwn && item == own) || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
