package sem

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type inferTest struct {
	action     string
	kind       string
	constraint string
}

func TestInferPatterns(t *testing.T) {
	var its = []inferTest{
		{action: "give", kind: "service", constraint: "positive"},
		{action: "pay rent", kind: "service", constraint: "positive"},
		{action: "Deliver Goods", kind: "service", constraint: "positive"},
		{action: "forbid entry", kind: "service", constraint: "negative"},
		{action: "keep silence", kind: "service", constraint: "negative"},
		{action: "swap horses", kind: "object", constraint: "movable"},
		{action: "own the land", kind: "object", constraint: "non_movable"},
		{action: "market price", kind: "service", constraint: "positive"},
		{action: "zzz", kind: "object", constraint: "movable"},
	}
	table := DefaultPatterns()
	for _, it := range its {
		kind, constraint := table.Infer(it.action)
		if kind != it.kind || constraint != it.constraint {
			t.Errorf("%q: got %s/%s want %s/%s", it.action, kind, constraint, it.kind, it.constraint)
		}
	}
}

func TestInferredActionEntries(t *testing.T) {
	a, _ := analyzeSrc(t, `
subject a = x;
subject b = y;
asset k = a, "give", b;
`)
	// Three entries: the synthesized type, the inferred_ action, and
	// the literal spelling.
	if info, ok := a.Lookup("inferred_service_positive"); !ok || info.Keyword != "service" || info.Constraint != "positive" {
		t.Errorf("synthesized type entry: %v %v", info, ok)
	}
	want := TypeInfo{Keyword: "action", Components: []string{"give", "inferred_service_positive"}}
	if info, ok := a.Lookup("inferred_give"); !ok || !reflect.DeepEqual(info, want) {
		t.Errorf("inferred action entry: got %v", info)
	}
	if info, ok := a.Lookup("give"); !ok || !reflect.DeepEqual(info, want) {
		t.Errorf("literal action entry: got %v", info)
	}
	warned := false
	for _, w := range a.Diagnostics().Warnings() {
		if strings.Contains(w, "Type inference: action 'give' inferred as service (positive)") {
			warned = true
		}
	}
	if !warned {
		t.Error("missing inference warning")
	}
}

func TestInferredJoinLeg(t *testing.T) {
	// Inferred actions participate in the kind chain: both "swap horses"
	// and "trade cattle" infer types that satisfy transfer's
	// movable-object legs.
	a, _ := analyzeSrc(t, `
subject alice = p;
subject bob = p;
asset a1 = alice, "swap horses", bob;
asset a2 = bob, "trade cattle", alice;
asset x = transfer(a1, a2);
`)
	if len(a.Diagnostics().Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", a.Diagnostics().Errors())
	}
	if _, ok := a.Lookup("x"); !ok {
		t.Error("join over inferred actions not admitted")
	}
}

func TestLoadPatternsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	src := `
groups:
  - kind: service
    constraint: negative
    patterns: [frobnicate]
default:
  kind: service
  constraint: positive
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadPatterns(path)
	if err != nil {
		t.Fatal(err)
	}
	if kind, c := table.Infer("frobnicate widget"); kind != "service" || c != "negative" {
		t.Errorf("override group: got %s/%s", kind, c)
	}
	if kind, c := table.Infer("anything"); kind != "service" || c != "positive" {
		t.Errorf("override default: got %s/%s", kind, c)
	}
}
