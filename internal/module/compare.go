package module

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/headergen/internal/model"
)

// Compare walks a and b together and reports the first difference: a
// submodule present on one side only, a differing statement count, or the
// first differing statement with its member-level diff.
func Compare(a, b *Module) error {
	return compare(nil, a, b)
}

func compare(p []string, a, b *Module) error {
	where := strings.Join(p, "/")
	if where == "" {
		where = "root"
	}
	if diff := cmp.Diff(a.Names(), b.Names()); diff != "" {
		return model.Errorf(model.ErrStatementMismatch, where, "submodules differ (-a +b):\n%s", diff)
	}
	for i := 0; i < len(a.Stmts) && i < len(b.Stmts); i++ {
		if err := model.Compare(a.Stmts[i], b.Stmts[i]); err != nil {
			return fmt.Errorf("%s: statement %d: %w", where, i, err)
		}
	}
	if len(a.Stmts) != len(b.Stmts) {
		return model.Errorf(model.ErrStatementMismatch, where, "statement count differs: %d != %d", len(a.Stmts), len(b.Stmts))
	}
	for _, name := range a.Names() {
		if err := compare(append(append([]string(nil), p...), name), a.Submodules[name], b.Submodules[name]); err != nil {
			return err
		}
	}
	return nil
}
