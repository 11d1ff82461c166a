package sat

import (
	"context"
	"fmt"

	"github.com/witness-lang/witness/debug"
)

// maxExhaustiveVars bounds in-process enumeration; larger clause sets
// are expected to run in external mode.
const maxExhaustiveVars = 30

// Exhaustive enumerates every assignment over the clause variables
// and keeps the models. Deliberately naive: 2^n over typically small
// n, with the external engine as the hatch for scale.
type Exhaustive struct{}

func (Exhaustive) Solve(ctx context.Context, clauses []Clause, syms Symbols) (*Result, error) {
	if len(clauses) == 0 {
		return &Result{Satisfiable: true, Assignments: [][]int{{}}}, nil
	}
	ids := Vars(clauses, syms)
	n := len(ids)
	if n > maxExhaustiveVars {
		return nil, fmt.Errorf("%w: %d variables exceed exhaustive enumeration limit %d", ErrEngine, n, maxExhaustiveVars)
	}
	if debug.Sat() {
		debug.Logf("exhaustive: %d assets, %d clauses, %d combinations\n", n, len(clauses), 1<<n)
	}
	res := &Result{Names: resultNames(ids, syms)}
	assign := make(map[int]bool, n)
	for m := 0; m < 1<<n; m++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEngine, err)
		}
		vec := make([]int, n)
		for i, id := range ids {
			v := m&(1<<i) != 0
			assign[id] = v
			if v {
				vec[i] = id
			} else {
				vec[i] = -id
			}
		}
		ok := true
		for _, c := range clauses {
			if !Eval(c.Expr, syms, assign) {
				ok = false
				break
			}
		}
		if ok {
			res.Assignments = append(res.Assignments, vec)
		}
	}
	res.Satisfiable = len(res.Assignments) != 0
	if !res.Satisfiable {
		res.Message = "No satisfying assignments found - clauses are unsatisfiable"
		res.Conflicts = Conflicts(clauses, syms)
	}
	return res, nil
}
