package sat

import "github.com/witness-lang/witness/ast"

// Eval evaluates a clause expression under an assignment of variable
// ids to truth values. Identifiers without an assigned id or absent
// from the assignment evaluate to false; so does any expression form
// outside the clause algebra.
func Eval(e *ast.Expr, syms Symbols, assign map[int]bool) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.IdentKind:
		id, ok := syms.LookupID(e.Name)
		if !ok {
			return false
		}
		return assign[id]
	case ast.CallKind:
		switch e.Name {
		case "oblig", "claim":
			if len(e.Args) == 1 {
				return Eval(e.Args[0], syms, assign)
			}
		case "not":
			if len(e.Args) == 1 {
				return !Eval(e.Args[0], syms, assign)
			}
		}
		return false
	case ast.BinaryKind:
		l := Eval(e.Left, syms, assign)
		r := Eval(e.Right, syms, assign)
		switch e.Op {
		case "AND":
			return l && r
		case "OR":
			return l || r
		case "XOR":
			return l != r
		case "IMPLIES":
			return !l || r
		case "EQUIV":
			return l == r
		}
		return false
	case ast.UnaryKind:
		if e.Op == "NOT" {
			return !Eval(e.X, syms, assign)
		}
		return false
	default:
		return false
	}
}
