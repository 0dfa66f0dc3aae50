package parser

import (
	"bytes"
	"go/ast"
	"go/format"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"github.com/cmmoran/headergen/internal/entity"
	"github.com/cmmoran/headergen/internal/model"
)

var (
	intSuffix   = regexp.MustCompile(`^[uUlL]+$`)
	floatSuffix = regexp.MustCompile(`^[fFlL]$`)
)

type exprToken struct {
	tok token.Token
	lit string
	pos token.Pos
	end token.Pos
}

func tokenize(src string) ([]exprToken, bool) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))
	var (
		s      scanner.Scanner
		failed bool
		out    []exprToken
	)
	s.Init(file, []byte(src), func(token.Position, string) { failed = true }, 0)
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		text := lit
		if text == "" {
			text = tok.String()
		}
		out = append(out, exprToken{tok: tok, lit: text, pos: pos, end: pos + token.Pos(len(text))})
	}
	return out, !failed
}

// isCast reports whether toks[i:] starts with a parenthesized scalar type
// followed by an operand, returning the index after ')'.
func isCast(toks []exprToken, i int) (int, bool) {
	if toks[i].tok != token.LPAREN {
		return 0, false
	}
	j := i + 1
	var words []string
	for j < len(toks) && toks[j].tok == token.IDENT {
		words = append(words, toks[j].lit)
		j++
	}
	if len(words) == 0 || j >= len(toks)-1 || toks[j].tok != token.RPAREN {
		return 0, false
	}
	if _, ok := primitives[strings.Join(words, " ")]; !ok {
		return 0, false
	}
	switch toks[j+1].tok {
	case token.INT, token.FLOAT, token.CHAR, token.IDENT, token.LPAREN, token.SUB, token.TILDE, token.NOT:
		return j + 1, true
	}
	return 0, false
}

// parseExpr rewrites a C constant expression into Go. It returns false when
// the expression uses syntax Go constants can't express, casts included.
func parseExpr(src string) (*model.Expr, bool) {
	toks, ok := tokenize(strings.TrimSpace(src))
	if !ok || len(toks) == 0 {
		return nil, false
	}
	var (
		words []string
		refs  []model.ItemIdentifier
		seen  = make(map[string]bool)
	)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if _, ok := isCast(toks, i); ok {
			// a C cast changes the value's type, which an untyped Go
			// rewrite would lose
			return nil, false
		}
		switch t.tok {
		case token.INT, token.FLOAT:
			words = append(words, t.lit)
			if i+1 < len(toks) && toks[i+1].tok == token.IDENT && toks[i+1].pos == t.end {
				suffix := intSuffix
				if t.tok == token.FLOAT {
					suffix = floatSuffix
				}
				if !suffix.MatchString(toks[i+1].lit) {
					return nil, false
				}
				i++
			}
		case token.CHAR:
			words = append(words, t.lit)
		case token.IDENT:
			switch t.lit {
			case "YES", "true":
				words = append(words, "true")
			case "NO", "false":
				words = append(words, "false")
			default:
				if !seen[t.lit] {
					seen[t.lit] = true
					refs = append(refs, model.ItemIdentifier{Name: t.lit})
				}
				words = append(words, model.GoName(t.lit))
			}
		case token.TILDE:
			words = append(words, "^")
		case token.LPAREN, token.RPAREN,
			token.ADD, token.SUB, token.MUL, token.QUO, token.REM, token.AND, token.OR, token.XOR,
			token.SHL, token.SHR, token.NOT, token.LAND, token.LOR,
			token.EQL, token.NEQ, token.LSS, token.GTR, token.LEQ, token.GEQ:
			words = append(words, t.lit)
		default:
			return nil, false
		}
	}
	// go/parser rejects anything that isn't a well formed Go expression and
	// go/format gives it canonical spacing.
	node, err := goparser.ParseExpr(strings.Join(words, " "))
	if err != nil {
		return nil, false
	}
	call := false
	ast.Inspect(node, func(n ast.Node) bool {
		if _, ok := n.(*ast.CallExpr); ok {
			call = true
		}
		return !call
	})
	if call {
		return nil, false
	}
	var buf bytes.Buffer
	if err = format.Node(&buf, token.NewFileSet(), node); err != nil {
		return nil, false
	}
	return &model.Expr{Text: buf.String(), Refs: refs}, true
}

// parseExprEntity parses the initializer e and places its references where
// the header parser says they are declared.
func parseExprEntity(e entity.Entity) (*model.Expr, bool) {
	expr, ok := parseExpr(e.Expression())
	if !ok {
		return nil, false
	}
	known := make(map[string]model.Location)
	for _, ref := range e.References() {
		known[ref.Name] = location(ref.Location)
	}
	for i, ref := range expr.Refs {
		expr.Refs[i].Location = known[ref.Name]
	}
	return expr, true
}

// literalExpr renders an integer value with the signedness of its type.
func literalExpr(signed int64, unsigned uint64, isSigned bool) model.Expr {
	if isSigned {
		return model.Expr{Text: strconv.FormatInt(signed, 10)}
	}
	return model.Expr{Text: strconv.FormatUint(unsigned, 10)}
}

// childExpression finds the initializer expression among e's children.
func childExpression(e entity.Entity) (entity.Entity, bool) {
	var found entity.Entity
	e.Visit(func(child entity.Entity) entity.VisitResult {
		if child.IsExpression() {
			found = child
			return entity.Break
		}
		return entity.Continue
	})
	return found, found != nil
}

// parseEnumConstant parses the written value of an enum constant, if any.
func parseEnumConstant(e entity.Entity) (*model.Expr, bool) {
	child, ok := childExpression(e)
	if !ok {
		return nil, false
	}
	return parseExprEntity(child)
}
