package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "witness").
		WithSynopsis("witness [opts] command [opts] <file>").
		WithDescription("witness analyzes legal contract programs and decides clause satisfiability.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(&CheckConfig{MainConfig: cfg, Check: cfg.Main}, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			AstCommand(cfg))
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("check").
		WithAliases("c").
		WithSynopsis("check [opts] <file>").
		WithDescription("Parse and analyze a program, running its satisfiability directives").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
	cfg.Check = cmd
	return cmd
}

func AstCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AstConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("ast").
		WithSynopsis("ast <file>").
		WithDescription("Parse a program and print its AST").
		WithRun(func(cc *cli.Context, args []string) error {
			return printAst(cfg, cc, args)
		})
	cfg.Ast = cmd
	return cmd
}
