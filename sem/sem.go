// Package sem implements the Witness semantic analyzer: symbol
// registration, join validation, type inference, clause lowering and
// the satisfiability directives.
package sem

import "errors"

var ErrAnalyze = errors.New("analyze error")

// TypeInfo is a symbol table entry.
//
// Components depends on Keyword: actions carry
// [description, referenced_type_name]; assets carry
// [subject, action, object].
type TypeInfo struct {
	Keyword    string // object service action subject authority time asset
	Constraint string // movable non_movable positive negative or ""
	Components []string
}

// Diagnostics collects analysis errors and warnings; nothing is
// thrown out of analysis.
type Diagnostics struct {
	errors   []string
	warnings []string
}

func (d *Diagnostics) Errors() []string {
	return d.errors
}

func (d *Diagnostics) Warnings() []string {
	return d.warnings
}
