// Package parse builds the Witness AST from source text with a
// recursive-descent parser over the token stream.
package parse

import (
	"fmt"

	"github.com/witness-lang/witness/ast"
	"github.com/witness-lang/witness/token"
)

// Parse parses a whole Witness program.
func Parse(d []byte) (*ast.Program, error) {
	toks, _, err := token.Tokenize(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	p := &parser{toks: toks}
	prog := &ast.Program{}
	for p.peek().Type != token.TEOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	return prog, nil
}

type parser struct {
	toks []*token.Token
	i    int
}

func (p *parser) peek() *token.Token {
	return p.toks[p.i]
}

func (p *parser) next() *token.Token {
	t := p.toks[p.i]
	if t.Type != token.TEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t.Type != typ {
		return nil, fmt.Errorf("%w: expected %s, got %s %s", ErrParse, typ, t, t.Pos)
	}
	return t, nil
}

// statement := typedef | assetdef | clausedef | directive | ';'
func (p *parser) statement() (ast.Stmt, error) {
	t := p.peek()
	switch {
	case t.Type == token.TSemi:
		p.next()
		return nil, nil
	case t.Type != token.TIdent:
		return nil, fmt.Errorf("%w: unexpected %s %s", ErrParse, t, t.Pos)
	case token.IsTypeKeyword(t.Text):
		return p.typeDef()
	case t.Text == "asset":
		return p.assetDef()
	case t.Text == "clause":
		return p.clauseDef()
	default:
		// Bare calls are directive statements: global(); litis(a);
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if expr.Kind != ast.CallKind {
			return nil, fmt.Errorf("%w: unexpected expression statement %s %s", ErrParse, expr, t.Pos)
		}
		if _, err := p.expect(token.TSemi); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr}, nil
	}
}

func (p *parser) typeDef() (ast.Stmt, error) {
	kw := p.next().Text
	name, err := p.expect(token.TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TAssign); err != nil {
		return nil, err
	}
	props, err := p.exprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TSemi); err != nil {
		return nil, err
	}
	return &ast.TypeDef{Keyword: kw, Name: name.Text, Props: props}, nil
}

func (p *parser) assetDef() (ast.Stmt, error) {
	p.next() // asset
	name, err := p.expect(token.TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TAssign); err != nil {
		return nil, err
	}
	value, err := p.exprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TSemi); err != nil {
		return nil, err
	}
	return &ast.AssetDef{Name: name.Text, Value: value}, nil
}

func (p *parser) clauseDef() (ast.Stmt, error) {
	p.next() // clause
	name, err := p.expect(token.TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TAssign); err != nil {
		return nil, err
	}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TSemi); err != nil {
		return nil, err
	}
	return &ast.ClauseDef{Name: name.Text, Expr: expr}, nil
}

func (p *parser) exprList() ([]*ast.Expr, error) {
	var es []*ast.Expr
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		es = append(es, e)
		if p.peek().Type != token.TComma {
			return es, nil
		}
		p.next()
	}
}

// Binding strength, loosest first: EQUIV, IMPLIES, OR, XOR, AND, NOT.
// IMPLIES is right-associative; the other binary operators associate
// to the left.
var binLevels = [][]string{
	{"EQUIV"},
	{"IMPLIES"},
	{"OR"},
	{"XOR"},
	{"AND"},
}

func (p *parser) expr() (*ast.Expr, error) {
	return p.binary(0)
}

func (p *parser) binary(level int) (*ast.Expr, error) {
	if level == len(binLevels) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Type != token.TOp || !opAt(t.Text, level) {
			return left, nil
		}
		p.next()
		if t.Text == "IMPLIES" {
			right, err := p.binary(level)
			if err != nil {
				return nil, err
			}
			return ast.Binary(t.Text, left, right), nil
		}
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = ast.Binary(t.Text, left, right)
	}
}

func opAt(op string, level int) bool {
	for _, o := range binLevels[level] {
		if o == op {
			return true
		}
	}
	return false
}

func (p *parser) unary() (*ast.Expr, error) {
	t := p.peek()
	if t.Type == token.TOp && t.Text == "NOT" {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Not(x), nil
	}
	return p.atom()
}

func (p *parser) atom() (*ast.Expr, error) {
	t := p.next()
	switch t.Type {
	case token.TString:
		return ast.String(t.Text), nil
	case token.TLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TRParen); err != nil {
			return nil, err
		}
		return e, nil
	case token.TIdent:
		if p.peek().Type != token.TLParen {
			return ast.Ident(t.Text), nil
		}
		p.next()
		var args []*ast.Expr
		if p.peek().Type != token.TRParen {
			var err error
			args, err = p.exprList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.TRParen); err != nil {
			return nil, err
		}
		return ast.Call(t.Text, args...), nil
	default:
		return nil, fmt.Errorf("%w: unexpected %s %s", ErrParse, t, t.Pos)
	}
}
