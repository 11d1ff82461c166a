package token

import (
	"errors"
	"testing"
)

type lexTest struct {
	in   string
	toks []string
}

func TestTokenize(t *testing.T) {
	var lts = []lexTest{
		{in: `subject a = x;`, toks: []string{"subject", "a", "=", "x", ";"}},
		{in: `asset k = a, "give", b;`, toks: []string{"asset", "k", "=", "a", ",", `"give"`, ",", "b", ";"}},
		{in: `clause c1 = oblig(k);`, toks: []string{"clause", "c1", "=", "oblig", "(", "k", ")", ";"}},
		{in: "oblig(p) IMPLIES oblig(q)", toks: []string{"oblig", "(", "p", ")", "IMPLIES", "oblig", "(", "q", ")"}},
		{in: "NOT x AND y", toks: []string{"NOT", "x", "AND", "y"}},
		{in: "# comment\nx", toks: []string{"x"}},
		{in: "\"a\\tb\"", toks: []string{"\"a\\tb\""}},
		{in: "", toks: []string{}},
	}
	for _, lt := range lts {
		toks, _, err := Tokenize([]byte(lt.in))
		if err != nil {
			t.Errorf("%q: %v", lt.in, err)
			continue
		}
		if toks[len(toks)-1].Type != TEOF {
			t.Errorf("%q: missing EOF token", lt.in)
		}
		toks = toks[:len(toks)-1]
		if len(toks) != len(lt.toks) {
			t.Errorf("%q: got %d tokens want %d", lt.in, len(toks), len(lt.toks))
			continue
		}
		for i, tok := range toks {
			if tok.String() != lt.toks[i] {
				t.Errorf("%q token %d: got %q want %q", lt.in, i, tok.String(), lt.toks[i])
			}
		}
	}
}

func TestTokenizeErrs(t *testing.T) {
	var ets = []struct {
		in   string
		want error
	}{
		{in: `"abc`, want: ErrString},
		{in: "\"ab\nc\"", want: ErrString},
		{in: "a @ b", want: ErrLex},
	}
	for _, et := range ets {
		_, _, err := Tokenize([]byte(et.in))
		if !errors.Is(err, et.want) {
			t.Errorf("%q: got %v want %v", et.in, err, et.want)
		}
	}
}

func TestLineCol(t *testing.T) {
	toks, _, err := Tokenize([]byte("subject a = x;\nclause c = oblig(k);\n"))
	if err != nil {
		t.Fatal(err)
	}
	var clause *Token
	for _, tok := range toks {
		if tok.Text == "clause" {
			clause = tok
		}
	}
	if clause == nil {
		t.Fatal("no clause token")
	}
	l, c := clause.Pos.LineCol()
	if l != 1 || c != 0 {
		t.Errorf("got line=%d col=%d want 1 0", l, c)
	}
}
