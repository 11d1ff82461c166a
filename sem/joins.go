package sem

import (
	"fmt"

	"github.com/witness-lang/witness/ast"
)

var universalJoins = map[string]bool{
	"join":     true,
	"evidence": true,
	"argument": true,
}

// legReq is the expected kind/constraint of one side of a contextual
// join; an empty constraint accepts either variant of the kind.
type legReq struct {
	kind       string
	constraint string
}

type joinRule struct {
	left  legReq
	right legReq
	// error text when the kind/constraint check fails
	msg string
}

var contextualJoins = map[string]joinRule{
	"transfer": {
		left: legReq{"object", "movable"}, right: legReq{"object", "movable"},
		msg: "transfer operation requires both assets to involve movable objects",
	},
	"sell": {
		left: legReq{"object", ""}, right: legReq{"service", "positive"},
		msg: "sell operation requires object action ↔ positive service action",
	},
	"compensation": {
		left: legReq{"service", "positive"}, right: legReq{"service", "positive"},
		msg: "compensation operation requires both assets to involve positive services",
	},
	"consideration": {
		left: legReq{"service", "positive"}, right: legReq{"service", "negative"},
		msg: "consideration operation requires positive service ↔ negative service",
	},
	"forbearance": {
		left: legReq{"service", "negative"}, right: legReq{"service", "negative"},
		msg: "forbearance operation requires both assets to involve negative services",
	},
	"encumber": {
		left: legReq{"object", "non_movable"}, right: legReq{"service", "positive"},
		msg: "encumber operation requires non-movable object ↔ positive service",
	},
	"access": {
		left: legReq{"object", "non_movable"}, right: legReq{"service", "positive"},
		msg: "access operation requires non-movable object ↔ positive service",
	},
	"lien": {
		left: legReq{"object", "non_movable"}, right: legReq{"service", "negative"},
		msg: "lien operation requires non-movable object ↔ negative service",
	},
}

func isJoinOperation(name string) bool {
	if universalJoins[name] {
		return true
	}
	_, ok := contextualJoins[name]
	return ok
}

// validateJoin checks a join call per the join algebra: idempotence
// always succeeds with a warning, nested joins are admitted with an
// associativity warning, universal joins carry no constraints, and
// contextual joins require the reciprocal pattern plus per-operator
// kind/constraint pairs.
func (a *Analyzer) validateJoin(joinType string, left, right *ast.Expr) bool {
	if a.checkIdempotency(joinType, left, right) {
		return true
	}
	if nested := a.checkAssociativity(joinType, left, right); nested {
		return true
	}
	if universalJoins[joinType] {
		return left != nil && right != nil
	}
	rule := contextualJoins[joinType]
	if !a.isReciprocalPattern(left, right) {
		a.reportError(fmt.Sprintf("%s operation requires reciprocal pattern: (s1,A1,s2) ↔ (s2,A2,s1)", joinType))
		return false
	}
	if !a.legSatisfies(left, rule.left) || !a.legSatisfies(right, rule.right) {
		a.reportError(rule.msg)
		return false
	}
	return true
}

// checkIdempotency recognizes J(x, x) and short-circuits to success.
func (a *Analyzer) checkIdempotency(joinType string, left, right *ast.Expr) bool {
	ln, lok := left.IdentName()
	rn, rok := right.IdentName()
	if lok && rok && ln == rn {
		a.reportWarning(fmt.Sprintf("Idempotent %s operation: %s(%s, %s) = %s", joinType, joinType, ln, ln, ln))
		return true
	}
	return false
}

// checkAssociativity admits nested join shapes permissively, with a
// warning. No contextual operator documents a rejection for any
// associativity shape.
func (a *Analyzer) checkAssociativity(joinType string, left, right *ast.Expr) bool {
	leftJoin := left.Kind == ast.CallKind && isJoinOperation(left.Name)
	rightJoin := right.Kind == ast.CallKind && isJoinOperation(right.Name)
	if !leftJoin && !rightJoin {
		return false
	}
	if leftJoin && rightJoin && left.Name == joinType && right.Name == joinType {
		a.reportWarning(fmt.Sprintf("Complex nested %s operation detected: %s(%s(...), %s(...)) - Associativity validation may require manual review",
			joinType, joinType, joinType, joinType))
		return true
	}
	a.reportWarning(fmt.Sprintf("Associative %s operation validated", joinType))
	return true
}

// isReciprocalPattern checks (s1,A1,s2) ↔ (s2,A2,s1): the left
// subject is the right object and vice versa.
func (a *Analyzer) isReciprocalPattern(left, right *ast.Expr) bool {
	lc := a.assetComponents(left)
	rc := a.assetComponents(right)
	if len(lc) < 3 || len(rc) < 3 {
		return false
	}
	return lc[0] == rc[2] && lc[2] == rc[0]
}

// legSatisfies resolves a join argument's kind/constraint through the
// chain asset -> action -> referenced type and compares it with the
// expected pair. Unresolvable chains fail the check.
func (a *Analyzer) legSatisfies(expr *ast.Expr, req legReq) bool {
	name, ok := expr.IdentName()
	if !ok {
		return false
	}
	if req.constraint == "" {
		// either variant of the kind
		for _, c := range []string{"movable", "non_movable", "positive", "negative"} {
			if a.assetTypeConstraint(name, req.kind, c) {
				return true
			}
		}
		return false
	}
	return a.assetTypeConstraint(name, req.kind, req.constraint)
}

func (a *Analyzer) assetTypeConstraint(name, kind, constraint string) bool {
	info, ok := a.syms[name]
	if !ok {
		return false
	}
	if info.Keyword == kind && info.Constraint == constraint {
		return true
	}
	if info.Keyword != "asset" || len(info.Components) < 2 {
		return false
	}
	action, ok := a.syms[info.Components[1]]
	if !ok || action.Keyword != "action" || len(action.Components) < 2 {
		return false
	}
	ref, ok := a.syms[action.Components[1]]
	if !ok {
		return false
	}
	return ref.Keyword == kind && ref.Constraint == constraint
}
