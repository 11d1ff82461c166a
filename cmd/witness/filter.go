package main

import (
	"fmt"
	"io"

	"github.com/witness-lang/witness/sat"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filterHook compiles a boolean expression over asset names and
// reports, after each directive, which returned models satisfy it.
// Variables are asset names bound to their truth value in the model.
func filterHook(src string, w io.Writer) (func(directive string, res *sat.Result), error) {
	prog, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("could not compile filter %q: %w", src, err)
	}
	return func(directive string, res *sat.Result) {
		if !res.Satisfiable {
			return
		}
		matched := filterModels(prog, res)
		fmt.Fprintf(w, "filter: %d/%d models match\n", len(matched), len(res.Assignments))
		for _, m := range matched {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}, nil
}

func filterModels(prog *vm.Program, res *sat.Result) []string {
	var out []string
	for _, vec := range res.Assignments {
		env := map[string]any{}
		for _, lit := range vec {
			id := lit
			if id < 0 {
				id = -id
			}
			name, ok := res.Names[id]
			if !ok {
				continue
			}
			env[name] = lit > 0
		}
		v, err := expr.Run(prog, env)
		if err != nil {
			continue
		}
		if b, ok := v.(bool); ok && b {
			out = append(out, formatModel(vec))
		}
	}
	return out
}

func formatModel(vec []int) string {
	s := "["
	for i, lit := range vec {
		if i > 0 {
			s += ", "
		}
		if lit > 0 {
			s += fmt.Sprintf("+%d", lit)
		} else {
			s += fmt.Sprintf("%d", lit)
		}
	}
	return s + "]"
}
