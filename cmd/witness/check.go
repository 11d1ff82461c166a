package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/witness-lang/witness/parse"
	"github.com/witness-lang/witness/sat"
	"github.com/witness-lang/witness/sem"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: check takes exactly one file argument", cli.ErrUsage)
	}
	return checkFile(cfg, cc.In, cc.Out, args[0])
}

func checkFile(cfg *CheckConfig, in io.Reader, out io.Writer, file string) error {
	d, err := readInput(in, file)
	if err != nil {
		return err
	}
	prog, err := parse.Parse(d)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", file, err)
	}

	opts := []sem.Option{
		sem.WithOutput(out),
		sem.Verbose(cfg.Verbose),
		sem.Quiet(cfg.Quiet),
		sem.WithDir(cfg.Dir),
		sem.WithVerdictPrinter(verdictPrinter(cfg.MainConfig, out)),
	}
	switch cfg.Solver {
	case "", "exhaustive":
	case "external":
		opts = append(opts, sem.WithEngine(sat.External{Solver: cfg.SolverBin, Dir: cfg.Dir}))
	default:
		return fmt.Errorf("%w: unknown solver mode %q", cli.ErrUsage, cfg.Solver)
	}
	if cfg.Patterns != "" {
		table, err := sem.LoadPatterns(cfg.Patterns)
		if err != nil {
			return err
		}
		opts = append(opts, sem.WithPatterns(table))
	}
	if cfg.Filter != "" {
		hook, err := filterHook(cfg.Filter, out)
		if err != nil {
			return err
		}
		opts = append(opts, sem.WithResultHook(hook))
	}

	a := sem.New(opts...)
	// UNSAT verdicts and analysis diagnostics are not process
	// failures; only parse and usage errors are.
	return a.Analyze(context.Background(), prog)
}

func readInput(in io.Reader, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(in)
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", file, err)
	}
	return d, nil
}

func printAst(cfg *AstConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Ast.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: ast takes exactly one file argument", cli.ErrUsage)
	}
	d, err := readInput(cc.In, args[0])
	if err != nil {
		return err
	}
	prog, err := parse.Parse(d)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", args[0], err)
	}
	prog.Print(cc.Out)
	return nil
}
