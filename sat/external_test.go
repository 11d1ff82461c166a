package sat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/witness-lang/witness/ast"
)

func writeRecords(t *testing.T, path string, records [][]int32) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, rec := range records {
		if err := binary.Write(f, binary.LittleEndian, int32(len(rec))); err != nil {
			t.Fatal(err)
		}
		if err := binary.Write(f, binary.LittleEndian, rec); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReadResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zdd_1.bin")
	writeRecords(t, path, [][]int32{{1, -2}, {-1, 2}})
	got, err := readResults(path)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{1, -2}, {-1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestReadResultsBadSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zdd_2.bin")
	// One good record, then a size far out of range: the reader
	// stops without erroring.
	writeRecords(t, path, [][]int32{{3}})
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(f, binary.LittleEndian, int32(100000)); err != nil {
		t.Fatal(err)
	}
	f.Close()
	got, err := readResults(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, [][]int{{3}}) {
		t.Errorf("got %v want [[3]]", got)
	}
}

// fakeSolver writes a shell script that saves its input JSON and
// copies a prepared result file to the output path.
func fakeSolver(t *testing.T, dir string, result [][]int32) (solver, savedJSON string) {
	t.Helper()
	prepared := filepath.Join(dir, "prepared.bin")
	writeRecords(t, prepared, result)
	savedJSON = filepath.Join(dir, "saved.json")
	solver = filepath.Join(dir, "solver.sh")
	script := "#!/bin/sh\ncp \"$1\" \"" + savedJSON + "\"\ncp \"" + prepared + "\" \"$2\"\n"
	if err := os.WriteFile(solver, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return solver, savedJSON
}

func TestExternalSolve(t *testing.T) {
	dir := t.TempDir()
	syms := newTestSyms()
	k := syms.IDOf("k")
	syms.cons[k] = [3]string{"a", "give", "b"}
	clauses := []Clause{
		{Name: "c1", Pos: []int{k}, Label: "oblig(k)", Expr: oblig("k")},
	}
	solver, savedJSON := fakeSolver(t, dir, [][]int32{{1}})
	x := External{Solver: solver, Dir: dir}
	res, err := x.Solve(context.Background(), clauses, syms)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Satisfiable || !reflect.DeepEqual(res.Assignments, [][]int{{1}}) {
		t.Errorf("got %v", res.Assignments)
	}

	// The export carries the schema the solver expects.
	d, err := os.ReadFile(savedJSON)
	if err != nil {
		t.Fatal(err)
	}
	var ef struct {
		Assets            []int                        `json:"assets"`
		AssetNames        map[string]string            `json:"asset_names"`
		AssetConstruction map[string]map[string]string `json:"asset_construction"`
		Clauses           []struct {
			Name        string  `json:"name"`
			AssetIDs    []int   `json:"asset_ids"`
			Assignments [][]int `json:"assignments"`
		} `json:"clauses"`
	}
	if err := json.Unmarshal(d, &ef); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ef.Assets, []int{1}) {
		t.Errorf("assets: got %v", ef.Assets)
	}
	if ef.AssetNames["1"] != "k" {
		t.Errorf("asset_names: got %v", ef.AssetNames)
	}
	if ef.AssetConstruction["1"]["subject"] != "a" || ef.AssetConstruction["1"]["action"] != "give" {
		t.Errorf("asset_construction: got %v", ef.AssetConstruction)
	}
	if len(ef.Clauses) != 1 || ef.Clauses[0].Name != "c1" {
		t.Fatalf("clauses: got %v", ef.Clauses)
	}
	// oblig(k) has exactly one satisfying partial assignment: [+1].
	if !reflect.DeepEqual(ef.Clauses[0].Assignments, [][]int{{1}}) {
		t.Errorf("clause assignments: got %v", ef.Clauses[0].Assignments)
	}
}

// Mode agreement: for the same clause set the external path returns
// the same models as the exhaustive engine, given a solver that
// intersects correctly.
func TestModeAgreement(t *testing.T) {
	dir := t.TempDir()
	syms := newTestSyms()
	clauses := []Clause{
		{Name: "c1", Label: "binary_op", Expr: ast.Binary("IMPLIES", oblig("p"), oblig("q"))},
	}
	exh, err := Exhaustive{}.Solve(context.Background(), clauses, syms)
	if err != nil {
		t.Fatal(err)
	}
	want := make([][]int32, len(exh.Assignments))
	for i, vec := range exh.Assignments {
		rec := make([]int32, len(vec))
		for j, lit := range vec {
			rec[j] = int32(lit)
		}
		want[i] = rec
	}
	solver, _ := fakeSolver(t, dir, want)
	ext, err := External{Solver: solver, Dir: dir}.Solve(context.Background(), clauses, syms)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ext.Assignments, exh.Assignments) {
		t.Errorf("external %v != exhaustive %v", ext.Assignments, exh.Assignments)
	}
}

func TestExternalSolverFailure(t *testing.T) {
	dir := t.TempDir()
	syms := newTestSyms()
	clauses := []Clause{{Name: "c1", Label: "oblig(k)", Expr: oblig("k")}}
	solver := filepath.Join(dir, "solver.sh")
	if err := os.WriteFile(solver, []byte("#!/bin/sh\nexit 3\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := External{Solver: solver, Dir: dir}.Solve(context.Background(), clauses, syms)
	if err == nil {
		t.Fatal("non-zero solver exit did not error")
	}
}

func TestExternalEmptyClauseSet(t *testing.T) {
	res, err := External{Solver: "/nonexistent", Dir: t.TempDir()}.Solve(context.Background(), nil, newTestSyms())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Satisfiable || !reflect.DeepEqual(res.Assignments, [][]int{{}}) {
		t.Errorf("got %v want one empty model", res.Assignments)
	}
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	stale := []string{"witness_export_1.json", "witness_export_9.json", "zdd_1.bin"}
	for _, name := range stale {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(dir, "program.wit")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	Cleanup(dir)
	for _, name := range stale {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s not removed", name)
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}
