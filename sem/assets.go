package sem

import (
	"fmt"

	"github.com/witness-lang/witness/ast"
)

var constraintTags = map[string]bool{
	"movable":     true,
	"non_movable": true,
	"positive":    true,
	"negative":    true,
}

// registerTypeDef enters a TypeDefinition in the symbol table,
// extracting a constraint tag from the properties when present. For
// actions the property list is preserved so the kind chain
// asset -> action -> referenced type can be resolved later.
func (a *Analyzer) registerTypeDef(td *ast.TypeDef) {
	constraint := ""
	for _, prop := range td.Props {
		if name, ok := prop.IdentName(); ok && constraintTags[name] {
			constraint = name
			break
		}
	}
	info := TypeInfo{Keyword: td.Keyword, Constraint: constraint}
	if td.Keyword == "action" {
		for _, prop := range td.Props {
			switch prop.Kind {
			case ast.IdentKind:
				info.Components = append(info.Components, prop.Name)
			case ast.StringKind:
				info.Components = append(info.Components, prop.Str)
			}
		}
	}
	a.syms[td.Name] = info
}

// registerAssetDef validates and enters an AssetDefinition. Plain
// assets are [subject, action, object] triples; a single call value
// is a join composition or a meet directive. Definitions that fail
// validation are not admitted.
func (a *Analyzer) registerAssetDef(ad *ast.AssetDef) {
	if len(ad.Value) == 1 && ad.Value[0].Kind == ast.CallKind {
		call := ad.Value[0]
		switch {
		case isJoinOperation(call.Name):
			a.registerJoinAsset(ad.Name, call)
		case call.Name == "meet":
			a.meet(call, ad.Name)
		default:
			a.reportError(fmt.Sprintf("asset '%s' value must be a component list or a join operation, got call to '%s'", ad.Name, call.Name))
		}
		return
	}

	var components []string
	for i, expr := range ad.Value {
		switch expr.Kind {
		case ast.IdentKind:
			components = append(components, expr.Name)
		case ast.StringKind:
			components = append(components, expr.Str)
			if i == 1 {
				// A free action string: infer its classification and
				// synthesize the action entries it needs.
				kind, constraint := a.patterns.Infer(expr.Str)
				a.createImplicitAction(expr.Str, kind, constraint)
				a.reportWarning(fmt.Sprintf("Type inference: action '%s' inferred as %s (%s)", expr.Str, kind, constraint))
			}
		default:
			a.reportError(fmt.Sprintf("asset '%s' component %d must be an identifier or string, got %s", ad.Name, i, expr))
			return
		}
	}
	if len(components) != 3 {
		a.reportError(fmt.Sprintf("Asset '%s' must have exactly 3 components (subject/authority, service/action/time, subject/authority)", ad.Name))
		return
	}
	if !a.hasKind(components[0], "subject", "authority") {
		a.reportError(fmt.Sprintf("First component of asset '%s' must be a defined subject or authority (got '%s')", ad.Name, components[0]))
		return
	}
	if !a.hasKind(components[1], "service", "action", "time") {
		a.reportError(fmt.Sprintf("Second component of asset '%s' must be a defined service, action, or time (got '%s')", ad.Name, components[1]))
		return
	}
	if !a.hasKind(components[2], "subject", "authority") {
		a.reportError(fmt.Sprintf("Third component of asset '%s' must be a defined subject or authority (got '%s')", ad.Name, components[2]))
		return
	}
	a.syms[ad.Name] = TypeInfo{Keyword: "asset", Components: components}
}

func (a *Analyzer) hasKind(name string, kinds ...string) bool {
	info, ok := a.syms[name]
	if !ok {
		return false
	}
	for _, k := range kinds {
		if info.Keyword == k {
			return true
		}
	}
	return false
}

// registerJoinAsset validates the join call and, when valid, admits
// the composite asset with deterministically composed components.
func (a *Analyzer) registerJoinAsset(name string, call *ast.Expr) {
	if len(call.Args) != 2 {
		a.reportError(fmt.Sprintf("Join operation '%s' requires exactly 2 arguments, got %d", call.Name, len(call.Args)))
		return
	}
	left, right := call.Args[0], call.Args[1]
	if !a.validateJoin(call.Name, left, right) {
		return
	}
	lc := a.assetComponents(left)
	rc := a.assetComponents(right)
	if len(lc) < 3 || len(rc) < 3 {
		a.reportError("Join operation requires assets with at least 3 components each")
		return
	}
	components := composeJoin(call.Name, lc, rc)
	a.syms[name] = TypeInfo{Keyword: "asset", Components: components}
	a.reportWarning(fmt.Sprintf("Join asset '%s' created with components: (%s, %s, %s)", name, components[0], components[1], components[2]))
}

// composeJoin builds the composite component triple. The universal
// join keeps the bare combined action; every other operator prefixes
// its own name so distinct operators yield distinct composites.
func composeJoin(joinType string, left, right []string) []string {
	if joinType == "join" {
		return []string{left[0], left[1] + "_" + right[1], left[2]}
	}
	return []string{left[0], joinType + "_" + left[1] + "_" + right[1], left[2]}
}

// assetComponents resolves the [subject, action, object] components
// of a join argument: a symbol table lookup for identifiers, a
// recursive composition for nested join calls.
func (a *Analyzer) assetComponents(expr *ast.Expr) []string {
	switch expr.Kind {
	case ast.IdentKind:
		info, ok := a.syms[expr.Name]
		if ok && info.Keyword == "asset" {
			return info.Components
		}
		return nil
	case ast.CallKind:
		if !isJoinOperation(expr.Name) || len(expr.Args) != 2 {
			return nil
		}
		lc := a.assetComponents(expr.Args[0])
		rc := a.assetComponents(expr.Args[1])
		if len(lc) < 3 || len(rc) < 3 {
			return nil
		}
		return composeJoin(expr.Name, lc, rc)
	default:
		return nil
	}
}

// createImplicitAction registers the entries an inferred action
// needs: the synthesized underlying type, the inferred_<s> action,
// and a duplicate under the literal spelling so component lookups
// succeed.
func (a *Analyzer) createImplicitAction(action, kind, constraint string) {
	actionName := "inferred_" + action
	if _, ok := a.syms[actionName]; ok {
		return
	}
	typeName := "inferred_" + kind + "_" + constraint
	if _, ok := a.syms[typeName]; !ok {
		a.syms[typeName] = TypeInfo{Keyword: kind, Constraint: constraint}
	}
	components := []string{action, typeName}
	a.syms[actionName] = TypeInfo{Keyword: "action", Components: components}
	a.syms[action] = TypeInfo{Keyword: "action", Components: components}
}
