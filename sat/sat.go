// Package sat decides satisfiability of lowered clause sets, either by
// in-process truth-table enumeration or by handing per-clause
// assignment sets to an external solver binary.
package sat

import (
	"context"
	"errors"
	"sort"

	"github.com/witness-lang/witness/ast"
)

var ErrEngine = errors.New("engine error")

// Clause is one lowered clause. Pos and Neg carry variable ids only
// for the simple literal forms oblig(x), claim(x), not(x),
// not(oblig(x)), not(claim(x)); compound clauses have Label
// "binary_op" and are evaluated through Expr.
type Clause struct {
	Name  string
	Pos   []int
	Neg   []int
	Label string
	Expr  *ast.Expr
}

// Symbols is what the engines need from the analyzer: the stable
// name<->id mapping and asset construction details for the export.
type Symbols interface {
	// IDOf returns the variable id for name, assigning the next id
	// if the name has none yet.
	IDOf(name string) int
	// LookupID returns the id for name without assigning one.
	LookupID(name string) (int, bool)
	// NameOf is the reverse of LookupID.
	NameOf(id int) (string, bool)
	// Construction returns the [subject, action, object] components
	// of the asset with the given id, when known.
	Construction(id int) (subject, action, object string, ok bool)
}

// Result of one satisfiability check. Assignments hold signed
// literals: +id means the asset variable is true, -id false. Names
// maps the variable ids involved back to asset names.
type Result struct {
	Satisfiable bool
	Assignments [][]int
	Names       map[int]string
	Message     string
	Conflicts   []string
}

func resultNames(ids []int, syms Symbols) map[int]string {
	names := make(map[int]string, len(ids))
	for _, id := range ids {
		if name, ok := syms.NameOf(id); ok {
			names[id] = name
		}
	}
	return names
}

type Engine interface {
	Solve(ctx context.Context, clauses []Clause, syms Symbols) (*Result, error)
}

// ClauseVars returns the sorted variable ids referenced by the clause
// expression.
func ClauseVars(c Clause, syms Symbols) []int {
	set := map[int]bool{}
	c.Expr.Walk(func(x *ast.Expr) {
		if x.Kind == ast.IdentKind {
			set[syms.IDOf(x.Name)] = true
		}
	})
	return sortedIDs(set)
}

// Vars returns the sorted union of all clause variable ids.
func Vars(clauses []Clause, syms Symbols) []int {
	set := map[int]bool{}
	for _, c := range clauses {
		c.Expr.Walk(func(x *ast.Expr) {
			if x.Kind == ast.IdentKind {
				set[syms.IDOf(x.Name)] = true
			}
		})
	}
	return sortedIDs(set)
}

func sortedIDs(set map[int]bool) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
