package model

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

func members(s Stmt) ([]Member, bool) {
	switch s := s.(type) {
	case *ClassDecl:
		return s.Members, true
	case *CategoryDecl:
		return s.Members, true
	case *ProtocolDecl:
		return s.Members, true
	default:
		return nil, false
	}
}

func describe(s Stmt) string {
	if item, ok := s.ProvidedItem(); ok {
		return fmt.Sprintf("%s %s", s.Kind(), item)
	}
	return fmt.Sprintf("%s in %s", s.Kind(), s.Location())
}

// Compare returns nil when a and b are equal. Otherwise the error points at the
// first differing member when both statements have members, and carries a
// full diff of the statements when they don't.
func Compare(a, b Stmt) error {
	if cmp.Equal(a, b) {
		return nil
	}
	subject := describe(a)
	if a.Kind() == b.Kind() {
		am, ok := members(a)
		bm, _ := members(b)
		if ok {
			for i := 0; i < len(am) && i < len(bm); i++ {
				if diff := cmp.Diff(am[i], bm[i]); diff != "" {
					return Errorf(ErrStatementMismatch, subject, "member %d (%s) differs (-a +b):\n%s", i, am[i].Selector(), diff)
				}
			}
			if len(am) != len(bm) {
				return Errorf(ErrStatementMismatch, subject, "member count differs: %d != %d", len(am), len(bm))
			}
		}
	}
	return Errorf(ErrStatementMismatch, subject, "statements differ (-a +b):\n%s", cmp.Diff(a, b))
}
