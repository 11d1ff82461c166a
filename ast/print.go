package ast

import (
	"fmt"
	"io"
	"strings"
)

func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case IdentKind:
		return e.Name
	case StringKind:
		return fmt.Sprintf("%q", e.Str)
	case BinaryKind:
		return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
	case UnaryKind:
		return fmt.Sprintf("%s %s", e.Op, e.X)
	case CallKind:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
	default:
		return "<unknown expr>"
	}
}

func exprList(es []*Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Print writes a line-per-statement rendering of the program, the
// form shown by `witness ast`.
func (p *Program) Print(w io.Writer) {
	for _, stmt := range p.Stmts {
		switch s := stmt.(type) {
		case *TypeDef:
			fmt.Fprintf(w, "TypeDefinition(%s): %s = %s;\n", s.Keyword, s.Name, exprList(s.Props))
		case *AssetDef:
			fmt.Fprintf(w, "AssetDefinition: %s = %s;\n", s.Name, exprList(s.Value))
		case *ClauseDef:
			fmt.Fprintf(w, "ClauseDefinition: %s = %s;\n", s.Name, s.Expr)
		case *ExprStmt:
			fmt.Fprintf(w, "Directive: %s;\n", s.Expr)
		}
	}
}
