package sat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/witness-lang/witness/debug"
)

// maxRecordLits guards the result reader against corrupt record
// headers; sizes outside (0, maxRecordLits] terminate the stream.
const maxRecordLits = 1000

// The per-invocation file counter is process-wide so re-used
// directives keep distinct artifact names across analyses sharing a
// process.
var (
	checkMu      sync.Mutex
	checkCounter int
)

func nextCheckID() int {
	checkMu.Lock()
	defer checkMu.Unlock()
	checkCounter++
	return checkCounter
}

// External offloads model enumeration: it exports per-clause
// satisfying-assignment sets as JSON, runs the solver binary with
// `<solver> <input.json> <output.bin>`, and reads the binary result
// stream back.
type External struct {
	Solver string // solver binary, default ./tree_fold
	Dir    string // artifact directory, default cwd
}

type exportConstruction struct {
	Subject string `json:"subject"`
	Action  string `json:"action"`
	Object  string `json:"object"`
}

type exportClause struct {
	Name        string  `json:"name"`
	AssetIDs    []int   `json:"asset_ids"`
	Assignments [][]int `json:"assignments"`
}

type exportFile struct {
	Assets            []int                         `json:"assets"`
	AssetNames        map[string]string             `json:"asset_names"`
	AssetConstruction map[string]exportConstruction `json:"asset_construction"`
	Clauses           []exportClause                `json:"clauses"`
}

func (x External) solver() string {
	if x.Solver != "" {
		return x.Solver
	}
	return "./tree_fold"
}

func (x External) path(name string) string {
	if x.Dir == "" {
		return name
	}
	return filepath.Join(x.Dir, name)
}

func (x External) Solve(ctx context.Context, clauses []Clause, syms Symbols) (*Result, error) {
	if len(clauses) == 0 {
		return &Result{Satisfiable: true, Assignments: [][]int{{}}}, nil
	}
	k := nextCheckID()
	jsonPath := x.path("witness_export_" + strconv.Itoa(k) + ".json")
	binPath := x.path("zdd_" + strconv.Itoa(k) + ".bin")

	if err := x.export(clauses, syms, jsonPath); err != nil {
		return nil, err
	}
	if debug.Export() {
		debug.Logf("external: exported %d clauses to %s\n", len(clauses), jsonPath)
	}
	cmd := exec.CommandContext(ctx, x.solver(), jsonPath, binPath)
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: solver %s failed: %w", ErrEngine, x.solver(), err)
	}
	assignments, err := readResults(binPath)
	if err != nil {
		return nil, err
	}
	res := &Result{Assignments: assignments, Names: resultNames(Vars(clauses, syms), syms)}
	res.Satisfiable = len(assignments) != 0
	if res.Satisfiable {
		res.Message = fmt.Sprintf("External solver mode: %d satisfying assignments found", len(assignments))
	} else {
		res.Message = "External solver mode: No satisfying assignments found"
		res.Conflicts = Conflicts(clauses, syms)
	}
	return res, nil
}

// export writes the bag-of-sets job: for each clause, all satisfying
// partial assignments over just that clause's variables.
func (x External) export(clauses []Clause, syms Symbols, path string) error {
	ef := exportFile{
		Assets:            Vars(clauses, syms),
		AssetNames:        map[string]string{},
		AssetConstruction: map[string]exportConstruction{},
	}
	for _, id := range ef.Assets {
		key := strconv.Itoa(id)
		name, ok := syms.NameOf(id)
		if !ok {
			name = "unknown_asset_" + key
		}
		ef.AssetNames[key] = name
		c := exportConstruction{Subject: "unknown", Action: "unknown", Object: "unknown"}
		if s, a, o, ok := syms.Construction(id); ok {
			c = exportConstruction{Subject: s, Action: a, Object: o}
		}
		ef.AssetConstruction[key] = c
	}
	for _, cl := range clauses {
		vars := ClauseVars(cl, syms)
		ec := exportClause{Name: cl.Name, AssetIDs: vars, Assignments: [][]int{}}
		assign := make(map[int]bool, len(vars))
		for m := 0; m < 1<<len(vars); m++ {
			vec := make([]int, len(vars))
			for i, id := range vars {
				v := m&(1<<i) != 0
				assign[id] = v
				if v {
					vec[i] = id
				} else {
					vec[i] = -id
				}
			}
			if Eval(cl.Expr, syms, assign) {
				ec.Assignments = append(ec.Assignments, vec)
			}
		}
		ef.Clauses = append(ef.Clauses, ec)
	}
	d, err := json.MarshalIndent(&ef, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	if err := os.WriteFile(path, d, 0o644); err != nil {
		return fmt.Errorf("%w: could not write %s: %w", ErrEngine, path, err)
	}
	return nil
}

// readResults reads the solver output: records of an int32 size
// followed by size int32 signed literals, little-endian, until EOF or
// an out-of-range size.
func readResults(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read solver results: %w", ErrEngine, err)
	}
	defer f.Close()
	var out [][]int
	for {
		var size int32
		if err := binary.Read(f, binary.LittleEndian, &size); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("%w: truncated result record: %w", ErrEngine, err)
		}
		if size <= 0 || size > maxRecordLits {
			return out, nil
		}
		lits := make([]int32, size)
		if err := binary.Read(f, binary.LittleEndian, lits); err != nil {
			return out, nil
		}
		vec := make([]int, size)
		for i, l := range lits {
			vec[i] = int(l)
		}
		out = append(out, vec)
	}
}

// Cleanup removes artifacts of prior runs so a stale export can never
// be picked up by the solver.
func Cleanup(dir string) {
	if dir == "" {
		dir = "."
	}
	for _, pat := range []string{"witness_export_*.json", "zdd_*.bin"} {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			continue
		}
		for _, m := range matches {
			os.Remove(m)
		}
	}
}
