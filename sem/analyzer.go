package sem

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/witness-lang/witness/ast"
	"github.com/witness-lang/witness/debug"
	"github.com/witness-lang/witness/sat"
)

type Analyzer struct {
	syms    map[string]TypeInfo
	ids     map[string]int
	names   map[int]string
	nextID  int
	clauses []sat.Clause
	diags   Diagnostics

	engine   sat.Engine
	dir      string
	patterns *InferTable

	out     io.Writer
	errw    io.Writer
	verbose bool
	quiet   bool

	printVerdict func(line string)
	onResult     func(directive string, res *sat.Result)
}

type Option func(*Analyzer)

// WithEngine selects the satisfiability engine; the default is the
// in-process exhaustive enumerator.
func WithEngine(e sat.Engine) Option {
	return func(a *Analyzer) { a.engine = e }
}

// WithDir sets the directory for external-engine artifacts.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// WithOutput directs verdict lines and the analysis summary.
func WithOutput(w io.Writer) Option {
	return func(a *Analyzer) { a.out = w }
}

// WithErrOutput directs immediately-printed errors.
func WithErrOutput(w io.Writer) Option {
	return func(a *Analyzer) { a.errw = w }
}

// WithPatterns overrides the type-inference pattern table.
func WithPatterns(t *InferTable) Option {
	return func(a *Analyzer) { a.patterns = t }
}

func Verbose(v bool) Option {
	return func(a *Analyzer) { a.verbose = v }
}

func Quiet(q bool) Option {
	return func(a *Analyzer) { a.quiet = q }
}

// WithVerdictPrinter replaces how directive verdict lines are
// rendered (the CLI uses this to color them).
func WithVerdictPrinter(f func(line string)) Option {
	return func(a *Analyzer) { a.printVerdict = f }
}

// WithResultHook observes each directive's satisfiability result.
func WithResultHook(f func(directive string, res *sat.Result)) Option {
	return func(a *Analyzer) { a.onResult = f }
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		syms:     map[string]TypeInfo{},
		ids:      map[string]int{},
		names:    map[int]string{},
		nextID:   1,
		engine:   sat.Exhaustive{},
		out:      os.Stdout,
		errw:     os.Stderr,
		patterns: DefaultPatterns(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.printVerdict == nil {
		a.printVerdict = func(line string) { fmt.Fprintln(a.out, line) }
	}
	return a
}

func (a *Analyzer) Diagnostics() *Diagnostics {
	return &a.diags
}

// Analyze runs the three analysis passes over the program: type
// registration, asset registration, then statement analysis with
// directive dispatch. Diagnostics are collected, never returned as
// errors; only a nil program is an error.
func (a *Analyzer) Analyze(ctx context.Context, prog *ast.Program) error {
	if prog == nil {
		return fmt.Errorf("%w: cannot analyze nil program", ErrAnalyze)
	}
	// Stale solver artifacts from prior runs must not be picked up.
	sat.Cleanup(a.dir)

	a.diags = Diagnostics{}
	a.syms = map[string]TypeInfo{}
	a.clauses = nil

	for _, stmt := range prog.Stmts {
		if td, ok := stmt.(*ast.TypeDef); ok {
			a.registerTypeDef(td)
		}
	}
	for _, stmt := range prog.Stmts {
		if ad, ok := stmt.(*ast.AssetDef); ok {
			a.registerAssetDef(ad)
		}
	}
	for _, stmt := range prog.Stmts {
		a.analyzeStatement(ctx, stmt)
	}

	a.summarize()
	return nil
}

func (a *Analyzer) analyzeStatement(ctx context.Context, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.TypeDef:
		// Registered in the first pass; nothing further to check.
	case *ast.AssetDef:
		// Registered and validated in the second pass. Directive
		// values (name = meet(a, b)) also ran there so later
		// definitions can see the synthesized asset.
	case *ast.ClauseDef:
		a.analyzeClause(ctx, s)
	case *ast.ExprStmt:
		if s.Expr.Kind == ast.CallKind && isSystemOperation(s.Expr.Name) {
			a.runDirective(ctx, s.Expr, "")
			return
		}
		a.reportError(fmt.Sprintf("unknown directive '%s'", s.Expr.Name))
	}
}

func (a *Analyzer) summarize() {
	if a.quiet {
		return
	}
	if len(a.diags.errors) != 0 {
		fmt.Fprintln(a.out, "Semantic Analysis Errors:")
		for _, e := range a.diags.errors {
			fmt.Fprintf(a.out, "  Error: %s\n", e)
		}
	}
	if len(a.diags.warnings) != 0 {
		fmt.Fprintln(a.out, "Semantic Analysis Warnings:")
		for _, w := range a.diags.warnings {
			fmt.Fprintf(a.out, "  Warning: %s\n", w)
		}
	}
	if len(a.diags.errors) == 0 {
		fmt.Fprintln(a.out, "Semantic analysis completed successfully!")
	} else {
		fmt.Fprintf(a.out, "Semantic analysis completed with %d error(s)\n", len(a.diags.errors))
	}
}

func (a *Analyzer) reportError(msg string) {
	a.diags.errors = append(a.diags.errors, msg)
	fmt.Fprintf(a.errw, "Error: %s\n", msg)
}

func (a *Analyzer) reportWarning(msg string) {
	a.diags.warnings = append(a.diags.warnings, msg)
	if debug.Sem() {
		debug.Logf("sem: %s\n", msg)
	}
}

// Clauses returns the clause set pending the next directive.
func (a *Analyzer) Clauses() []sat.Clause {
	return a.clauses
}

// Lookup returns the symbol table entry for name.
func (a *Analyzer) Lookup(name string) (TypeInfo, bool) {
	info, ok := a.syms[name]
	return info, ok
}

// IDOf implements sat.Symbols: variable ids are assigned lazily, in
// first-appearance order, and are stable for the analyzer's lifetime.
func (a *Analyzer) IDOf(name string) int {
	if id, ok := a.ids[name]; ok {
		return id
	}
	id := a.nextID
	a.nextID++
	a.ids[name] = id
	a.names[id] = name
	a.reportWarning(fmt.Sprintf("Asset '%s' assigned ID %d for satisfiability checking", name, id))
	return id
}

func (a *Analyzer) LookupID(name string) (int, bool) {
	id, ok := a.ids[name]
	return id, ok
}

func (a *Analyzer) NameOf(id int) (string, bool) {
	name, ok := a.names[id]
	return name, ok
}

func (a *Analyzer) Construction(id int) (subject, action, object string, ok bool) {
	name, ok := a.names[id]
	if !ok {
		return "", "", "", false
	}
	info, ok := a.syms[name]
	if !ok || info.Keyword != "asset" || len(info.Components) < 3 {
		return "", "", "", false
	}
	return info.Components[0], info.Components[1], info.Components[2], true
}

var systemOperations = map[string]bool{
	"global": true,
	"litis":  true,
	"meet":   true,
	"domain": true,
}

func isSystemOperation(name string) bool {
	return systemOperations[name]
}

var logicalOperations = map[string]bool{
	"oblig": true,
	"claim": true,
	"not":   true,
}

func isLogicalOperation(name string) bool {
	return logicalOperations[name]
}
