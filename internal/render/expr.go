package render

import (
	"go/ast"
	goparser "go/parser"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/headergen/internal/model"
)

// value renders a constant expression. Names of declarations living in
// another package are qualified so that jennifer imports it.
func (r *Renderer) value(e model.Expr) jen.Code {
	qual := make(map[string]string)
	for _, ref := range e.Refs {
		if ref.Location.IsZero() {
			continue
		}
		if path := r.resolver.ImportPath(ref); path != "" {
			qual[model.GoName(ref.Name)] = path
		}
	}
	if len(qual) == 0 {
		return jen.Op(e.Text)
	}
	node, err := goparser.ParseExpr(e.Text)
	if err != nil {
		return jen.Op(e.Text)
	}
	if code, ok := exprCode(node, qual); ok {
		return code
	}
	return jen.Op(e.Text)
}

// exprCode rebuilds the constant expression n with jennifer.
func exprCode(n ast.Expr, qual map[string]string) (*jen.Statement, bool) {
	switch n := n.(type) {
	case *ast.Ident:
		if path, ok := qual[n.Name]; ok {
			return jen.Qual(path, n.Name), true
		}
		return jen.Id(n.Name), true
	case *ast.BasicLit:
		return jen.Op(n.Value), true
	case *ast.ParenExpr:
		x, ok := exprCode(n.X, qual)
		return jen.Parens(x), ok
	case *ast.UnaryExpr:
		x, ok := exprCode(n.X, qual)
		return jen.Op(n.Op.String()).Add(x), ok
	case *ast.BinaryExpr:
		x, okX := exprCode(n.X, qual)
		y, okY := exprCode(n.Y, qual)
		return jen.Add(x).Op(n.Op.String()).Add(y), okX && okY
	}
	return nil, false
}
