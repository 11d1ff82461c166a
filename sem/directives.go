package sem

import (
	"context"
	"fmt"
	"strings"

	"github.com/witness-lang/witness/ast"
	"github.com/witness-lang/witness/sat"
)

// runDirective dispatches a system operation call. assetName is
// non-empty when the directive is the value of an asset definition
// (name = meet(a, b)) and names the asset a successful meet
// synthesizes.
func (a *Analyzer) runDirective(ctx context.Context, call *ast.Expr, assetName string) {
	switch call.Name {
	case "global":
		a.global(ctx, call)
	case "litis":
		a.litis(ctx, call)
	case "meet":
		a.meet(call, assetName)
	case "domain":
		a.domain(call)
	}
}

func (a *Analyzer) global(ctx context.Context, call *ast.Expr) {
	if len(call.Args) != 0 {
		a.reportError(fmt.Sprintf("global() operation requires no arguments, got %d", len(call.Args)))
		return
	}
	a.reportWarning("global() operation triggered - generating truth table...")
	res, err := a.engine.Solve(ctx, a.clauses, a)
	if err != nil {
		a.reportError(fmt.Sprintf("global() operation failed - %v", err))
		a.printVerdict(fmt.Sprintf("Global check UNSATISFIABLE: %v", err))
		a.resetClauses("global")
		return
	}
	a.finishCheck("Global", "global", res)
}

func (a *Analyzer) litis(ctx context.Context, call *ast.Expr) {
	if len(call.Args) < 1 {
		a.reportError(fmt.Sprintf("litis() operation requires at least 1 argument, got %d", len(call.Args)))
		return
	}
	var targets []string
	for _, arg := range call.Args {
		name, ok := arg.IdentName()
		if !ok {
			a.reportError("litis() operation requires asset identifier arguments")
			return
		}
		targets = append(targets, name)
	}
	a.reportWarning("litis() operation triggered - selective satisfiability checking for assets: " + strings.Join(targets, ", "))

	targetIDs := map[int]bool{}
	for _, name := range targets {
		id, ok := a.LookupID(name)
		if !ok {
			a.reportWarning(fmt.Sprintf("Asset '%s' not found in current clauses - skipping", name))
			continue
		}
		targetIDs[id] = true
	}
	var res *sat.Result
	if len(targetIDs) == 0 {
		res = &sat.Result{Satisfiable: true, Assignments: [][]int{{}}}
	} else {
		// Retain only the clauses that mention a target asset; the
		// check runs over that subset in the active mode.
		var relevant []sat.Clause
		for _, c := range a.clauses {
			for _, id := range sat.ClauseVars(c, a) {
				if targetIDs[id] {
					relevant = append(relevant, c)
					break
				}
			}
		}
		if len(relevant) == 0 {
			res = &sat.Result{Satisfiable: true, Assignments: [][]int{{}}}
		} else {
			var err error
			res, err = a.engine.Solve(ctx, relevant, a)
			if err != nil {
				a.reportError(fmt.Sprintf("litis() operation failed - %v", err))
				a.printVerdict(fmt.Sprintf("Litis check UNSATISFIABLE: %v", err))
				a.resetClauses("litis")
				return
			}
		}
	}
	a.finishCheck("Litis", "litis", res)
}

// finishCheck reports a satisfiability result, prints the verdict
// line and drains the clause set.
func (a *Analyzer) finishCheck(label, directive string, res *sat.Result) {
	if res.Satisfiable {
		for i, vec := range res.Assignments {
			a.reportWarning(fmt.Sprintf("Assignment %d: [%s]", i+1, formatLits(vec)))
		}
		a.printVerdict(label + " check SATISFIABLE")
	} else {
		a.reportError(fmt.Sprintf("%s() operation failed - unsatisfiable: %s", directive, res.Message))
		a.printVerdict(fmt.Sprintf("%s check UNSATISFIABLE: %s", label, res.Message))
		if len(res.Conflicts) != 0 {
			fmt.Fprintf(a.out, "\n%s\n", sat.ConflictReport(res.Conflicts, a.clauses, a))
		}
	}
	if a.onResult != nil {
		a.onResult(directive, res)
	}
	a.resetClauses(directive)
}

func (a *Analyzer) resetClauses(directive string) {
	a.clauses = nil
	a.reportWarning(fmt.Sprintf("Clause set reset after %s() operation.", directive))
}

func formatLits(vec []int) string {
	parts := make([]string, len(vec))
	for i, lit := range vec {
		if lit > 0 {
			parts[i] = fmt.Sprintf("+%d", lit)
		} else {
			parts[i] = fmt.Sprintf("%d", lit)
		}
	}
	return strings.Join(parts, ", ")
}

// meet extracts the shared elements of two assets and, when invoked
// as an asset definition, synthesizes the common-ground asset.
func (a *Analyzer) meet(call *ast.Expr, assetName string) {
	if len(call.Args) != 2 {
		a.reportError(fmt.Sprintf("meet() operation requires exactly 2 arguments, got %d", len(call.Args)))
		return
	}
	leftName, lok := call.Args[0].IdentName()
	rightName, rok := call.Args[1].IdentName()
	if !lok || !rok {
		a.reportError("meet() operation requires asset identifier arguments")
		return
	}
	a.reportWarning("meet() operation triggered - extracting greatest common legal denominator from: " + leftName + " and " + rightName)

	common, msg := a.meetCommonElements(leftName, rightName)
	if len(common) == 0 {
		a.reportError("meet() operation failed - no common elements found: " + msg)
		a.printVerdict("Meet check UNSATISFIABLE: " + msg)
		a.resetClauses("meet")
		return
	}
	a.reportWarning(fmt.Sprintf("Common elements between '%s' and '%s':", leftName, rightName))
	for _, el := range common {
		a.reportWarning("  - " + el)
	}
	if assetName != "" {
		components := meetComponents(common)
		a.syms[assetName] = TypeInfo{Keyword: "asset", Components: components}
		a.reportWarning(fmt.Sprintf("Created meet asset '%s' with components: (%s, %s, %s)",
			assetName, components[0], components[1], components[2]))
	}
	a.printVerdict("Meet check SATISFIABLE")
	a.resetClauses("meet")
}

// meetCommonElements compares the two component triples position by
// position and across positions. Synthesized actions compare by the
// registered component string, not by inference class.
func (a *Analyzer) meetCommonElements(leftName, rightName string) ([]string, string) {
	left, ok := a.syms[leftName]
	if !ok || left.Keyword != "asset" {
		return nil, fmt.Sprintf("Asset '%s' not found or not a valid asset", leftName)
	}
	right, ok := a.syms[rightName]
	if !ok || right.Keyword != "asset" {
		return nil, fmt.Sprintf("Asset '%s' not found or not a valid asset", rightName)
	}
	lc, rc := left.Components, right.Components
	if len(lc) < 3 || len(rc) < 3 {
		return nil, "Assets must have at least 3 components (subject, action, object)"
	}
	var common []string
	if lc[0] == rc[0] {
		common = append(common, "subject: "+lc[0])
	}
	if lc[2] == rc[2] {
		common = append(common, "object: "+lc[2])
	}
	if lc[1] == rc[1] {
		common = append(common, "action: "+lc[1])
	}
	if lc[0] == rc[2] {
		common = append(common, "subject-object: "+lc[0]+" ↔ "+rc[2])
	}
	if lc[2] == rc[0] {
		common = append(common, "object-subject: "+lc[2]+" ↔ "+rc[0])
	}
	if len(common) == 0 {
		return nil, fmt.Sprintf("Meet analysis: No common elements found between '%s' and '%s'", leftName, rightName)
	}
	return common, ""
}

// meetComponents derives the synthesized asset's triple from the
// common elements; positions with no shared element read "shared".
func meetComponents(common []string) []string {
	subject, object := "", ""
	for _, el := range common {
		switch {
		case strings.HasPrefix(el, "subject: "):
			subject = strings.TrimPrefix(el, "subject: ")
		case strings.HasPrefix(el, "object: "):
			object = strings.TrimPrefix(el, "object: ")
		case strings.HasPrefix(el, "subject-object: "):
			rel := strings.TrimPrefix(el, "subject-object: ")
			if s, o, ok := strings.Cut(rel, " ↔ "); ok {
				subject, object = s, o
			}
		}
	}
	if subject == "" {
		subject = "shared"
	}
	if object == "" {
		object = "shared"
	}
	return []string{subject, "meet", object}
}

// domain is reserved: argument shape is validated, nothing further
// runs.
func (a *Analyzer) domain(call *ast.Expr) {
	if len(call.Args) < 1 {
		a.reportError(fmt.Sprintf("domain() operation requires at least 1 argument, got %d", len(call.Args)))
	}
}
