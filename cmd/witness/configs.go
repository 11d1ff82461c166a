package main

import (
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Solver    string `cli:"name=solver desc='sat mode: exhaustive or external (default exhaustive)'"`
	SolverBin string `cli:"name=solver-bin desc='external solver binary (default ./tree_fold)'"`
	Dir       string `cli:"name=dir desc='directory for solver artifacts (default .)'"`
	Patterns  string `cli:"name=patterns desc='yaml pattern table overriding the built-in type inference'"`
	Verbose   bool   `cli:"name=verbose aliases=v desc='print per-clause truth tables'"`
	Quiet     bool   `cli:"name=quiet aliases=q desc='suppress the analysis summary'"`
	Color     bool   `cli:"name=color desc='force colored verdicts'"`

	Main *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Filter string `cli:"name=filter desc='boolean expression over asset names selecting models to report'"`

	Check *cli.Command
}

type AstConfig struct {
	*MainConfig

	Ast *cli.Command
}
