package sat

import (
	"context"
	"reflect"
	"testing"

	"github.com/witness-lang/witness/ast"
)

// testSyms is a minimal Symbols for engine tests.
type testSyms struct {
	ids   map[string]int
	names map[int]string
	cons  map[int][3]string
	next  int
}

func newTestSyms() *testSyms {
	return &testSyms{
		ids:   map[string]int{},
		names: map[int]string{},
		cons:  map[int][3]string{},
		next:  1,
	}
}

func (s *testSyms) IDOf(name string) int {
	if id, ok := s.ids[name]; ok {
		return id
	}
	id := s.next
	s.next++
	s.ids[name] = id
	s.names[id] = name
	return id
}

func (s *testSyms) LookupID(name string) (int, bool) {
	id, ok := s.ids[name]
	return id, ok
}

func (s *testSyms) NameOf(id int) (string, bool) {
	name, ok := s.names[id]
	return name, ok
}

func (s *testSyms) Construction(id int) (string, string, string, bool) {
	c, ok := s.cons[id]
	if !ok {
		return "", "", "", false
	}
	return c[0], c[1], c[2], true
}

func oblig(name string) *ast.Expr {
	return ast.Call("oblig", ast.Ident(name))
}

func notC(name string) *ast.Expr {
	return ast.Call("not", ast.Ident(name))
}

type evalTest struct {
	expr *ast.Expr
	env  map[string]bool
	want bool
}

func TestEval(t *testing.T) {
	var ets = []evalTest{
		{expr: oblig("k"), env: map[string]bool{"k": true}, want: true},
		{expr: oblig("k"), env: map[string]bool{"k": false}, want: false},
		{expr: ast.Call("claim", ast.Ident("k")), env: map[string]bool{"k": true}, want: true},
		{expr: notC("k"), env: map[string]bool{"k": true}, want: false},
		{expr: ast.Call("not", oblig("k")), env: map[string]bool{"k": false}, want: true},
		{expr: ast.Binary("AND", oblig("p"), oblig("q")), env: map[string]bool{"p": true, "q": false}, want: false},
		{expr: ast.Binary("OR", oblig("p"), oblig("q")), env: map[string]bool{"p": true, "q": false}, want: true},
		{expr: ast.Binary("XOR", oblig("p"), oblig("q")), env: map[string]bool{"p": true, "q": true}, want: false},
		{expr: ast.Binary("IMPLIES", oblig("p"), oblig("q")), env: map[string]bool{"p": true, "q": false}, want: false},
		{expr: ast.Binary("IMPLIES", oblig("p"), oblig("q")), env: map[string]bool{"p": false, "q": false}, want: true},
		{expr: ast.Binary("EQUIV", oblig("p"), oblig("q")), env: map[string]bool{"p": false, "q": false}, want: true},
		{expr: ast.Not(oblig("p")), env: map[string]bool{"p": false}, want: true},
		// Unknown identifiers default to false.
		{expr: oblig("missing"), env: map[string]bool{}, want: false},
		// Unsupported forms evaluate to false, conservatively.
		{expr: ast.String("x"), env: map[string]bool{}, want: false},
		{expr: ast.Call("global"), env: map[string]bool{}, want: false},
	}
	for _, et := range ets {
		syms := newTestSyms()
		assign := map[int]bool{}
		for name, v := range et.env {
			assign[syms.IDOf(name)] = v
		}
		if got := Eval(et.expr, syms, assign); got != et.want {
			t.Errorf("%s under %v: got %v want %v", et.expr, et.env, got, et.want)
		}
	}
}

func TestExhaustiveEmpty(t *testing.T) {
	res, err := Exhaustive{}.Solve(context.Background(), nil, newTestSyms())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Satisfiable || !reflect.DeepEqual(res.Assignments, [][]int{{}}) {
		t.Errorf("got %v want one empty model", res.Assignments)
	}
}

func TestExhaustiveModels(t *testing.T) {
	syms := newTestSyms()
	clauses := []Clause{
		{Name: "c1", Label: "binary_op", Expr: ast.Binary("IMPLIES", oblig("p"), oblig("q"))},
	}
	res, err := Exhaustive{}.Solve(context.Background(), clauses, syms)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{-1, -2}, {-1, 2}, {1, 2}}
	if !reflect.DeepEqual(res.Assignments, want) {
		t.Errorf("got %v want %v", res.Assignments, want)
	}
	// Soundness: every returned model satisfies every clause.
	for _, vec := range res.Assignments {
		assign := map[int]bool{}
		for _, lit := range vec {
			if lit > 0 {
				assign[lit] = true
			} else {
				assign[-lit] = false
			}
		}
		for _, c := range clauses {
			if !Eval(c.Expr, syms, assign) {
				t.Errorf("model %v does not satisfy %s", vec, c.Name)
			}
		}
	}
}

func TestExhaustiveUnsat(t *testing.T) {
	syms := newTestSyms()
	id := syms.IDOf("k")
	clauses := []Clause{
		{Name: "c1", Pos: []int{id}, Label: "oblig(k)", Expr: oblig("k")},
		{Name: "c2", Neg: []int{id}, Label: "not(k)", Expr: notC("k")},
	}
	res, err := Exhaustive{}.Solve(context.Background(), clauses, syms)
	if err != nil {
		t.Fatal(err)
	}
	if res.Satisfiable {
		t.Fatal("contradiction reported satisfiable")
	}
	if len(res.Conflicts) != 2 {
		t.Errorf("got conflicts %v want both clauses", res.Conflicts)
	}
}

func TestExhaustiveCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	syms := newTestSyms()
	clauses := []Clause{{Name: "c1", Label: "oblig(k)", Expr: oblig("k")}}
	if _, err := (Exhaustive{}).Solve(ctx, clauses, syms); err == nil {
		t.Error("canceled solve returned no error")
	}
}

func TestVarsStableOrder(t *testing.T) {
	syms := newTestSyms()
	clauses := []Clause{
		{Name: "c1", Label: "binary_op", Expr: ast.Binary("AND", oblig("b"), oblig("a"))},
		{Name: "c2", Label: "oblig(c)", Expr: oblig("c")},
	}
	got := Vars(clauses, syms)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v want ascending ids", got)
	}
}
