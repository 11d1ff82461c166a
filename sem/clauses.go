package sem

import (
	"context"
	"fmt"
	"strings"

	"github.com/witness-lang/witness/ast"
	"github.com/witness-lang/witness/sat"
)

// analyzeClause lowers a clause definition into the current clause
// set. The simple literal forms get positive/negative literal sets;
// everything else is recorded as a compound clause evaluated through
// its AST at solve time. A clause whose expression is a directive
// call dispatches the directive instead.
func (a *Analyzer) analyzeClause(ctx context.Context, cd *ast.ClauseDef) {
	expr := cd.Expr
	if expr == nil {
		return
	}
	if expr.Kind == ast.CallKind {
		switch {
		case isLogicalOperation(expr.Name):
			a.lowerLogicalClause(cd.Name, expr)
			return
		case isSystemOperation(expr.Name):
			a.runDirective(ctx, expr, "")
			return
		case isJoinOperation(expr.Name):
			if len(expr.Args) != 2 {
				a.reportError(fmt.Sprintf("Join operation '%s' requires exactly 2 arguments, got %d", expr.Name, len(expr.Args)))
				return
			}
			a.validateJoin(expr.Name, expr.Args[0], expr.Args[1])
			return
		}
	}
	a.addClause(cd.Name, nil, nil, "binary_op", expr)
}

func (a *Analyzer) lowerLogicalClause(name string, call *ast.Expr) {
	if !a.validateLogicalOperation(call) {
		return
	}
	arg := call.Args[0]
	switch call.Name {
	case "oblig", "claim":
		if x, ok := arg.IdentName(); ok {
			id := a.IDOf(x)
			a.addClause(name, []int{id}, nil, fmt.Sprintf("%s(%s)", call.Name, x), call)
			return
		}
	case "not":
		if x, ok := arg.IdentName(); ok {
			id := a.IDOf(x)
			a.addClause(name, nil, []int{id}, fmt.Sprintf("not(%s)", x), call)
			return
		}
		if nested := arg; nested.Kind == ast.CallKind &&
			(nested.Name == "oblig" || nested.Name == "claim") && len(nested.Args) == 1 {
			if x, ok := nested.Args[0].IdentName(); ok {
				id := a.IDOf(x)
				a.addClause(name, nil, []int{id}, fmt.Sprintf("not(%s(%s))", nested.Name, x), call)
				return
			}
		}
	}
	// Compound argument: no literal-level structure to extract.
	a.addClause(name, nil, nil, "binary_op", call)
}

// validateLogicalOperation checks argument shape for oblig, claim and
// not, and records the id assignment warnings for identifier
// arguments.
func (a *Analyzer) validateLogicalOperation(call *ast.Expr) bool {
	if len(call.Args) != 1 {
		a.reportError(fmt.Sprintf("%s() operation requires exactly 1 argument, got %d", call.Name, len(call.Args)))
		return false
	}
	if x, ok := call.Args[0].IdentName(); ok {
		id := a.IDOf(x)
		role := "positive"
		if call.Name == "not" {
			role = "negative"
		}
		a.reportWarning(fmt.Sprintf("%s(%s) - asset ID %d marked as %s literal", call.Name, x, id, role))
	}
	return true
}

func (a *Analyzer) addClause(name string, pos, neg []int, label string, expr *ast.Expr) {
	c := sat.Clause{Name: name, Pos: pos, Neg: neg, Label: label, Expr: expr}
	a.clauses = append(a.clauses, c)
	var lits strings.Builder
	for _, id := range pos {
		fmt.Fprintf(&lits, "+%d ", id)
	}
	for _, id := range neg {
		fmt.Fprintf(&lits, "-%d ", id)
	}
	a.reportWarning(fmt.Sprintf("Clause '%s' added: [%s] from '%s'", name, lits.String(), label))
	if a.verbose {
		a.printClauseTruthTable(c)
	}
}

// printClauseTruthTable dumps the per-clause truth table in verbose
// mode.
func (a *Analyzer) printClauseTruthTable(c sat.Clause) {
	ids := sat.ClauseVars(c, a)
	n := len(ids)
	if n == 0 {
		fmt.Fprintf(a.out, "Clause '%s' has no asset variables.\n", c.Name)
		return
	}
	fmt.Fprintf(a.out, "\nTruth table for clause '%s':\n", c.Name)
	for _, id := range ids {
		fmt.Fprintf(a.out, "asset_%d\t", id)
	}
	fmt.Fprintln(a.out, "| satisfied")
	assign := make(map[int]bool, n)
	for m := 0; m < 1<<n; m++ {
		for i, id := range ids {
			v := m&(1<<i) != 0
			assign[id] = v
			if v {
				fmt.Fprintf(a.out, "+%d\t", id)
			} else {
				fmt.Fprintf(a.out, "-%d\t", id)
			}
		}
		sat01 := "0"
		if sat.Eval(c.Expr, a, assign) {
			sat01 = "1"
		}
		fmt.Fprintf(a.out, "| %s\n", sat01)
	}
}
