package sat

import (
	"fmt"
	"sort"
	"strings"
)

// Informational lines emitted when no literal-level contradiction
// explains an UNSAT verdict.
var complexConflictNotes = []string{
	"No direct explicit contradictions detected",
	"Unsatisfiability may be due to complex logical interactions between clauses",
	"Consider reviewing clause dependencies and logical constraints",
}

// Conflicts finds a best-effort minimal conflicting set: any variable
// appearing as a positive literal in one clause and a negative literal
// in another puts both clauses in the set. Compound clauses carry no
// literal structure, so when nothing direct is found the informational
// notes are returned instead.
func Conflicts(clauses []Clause, syms Symbols) []string {
	var conflicting []string
	seen := map[string]bool{}
	add := func(desc string) {
		if !seen[desc] {
			seen[desc] = true
			conflicting = append(conflicting, desc)
		}
	}
	pos := map[int][]int{} // variable id -> clause indexes
	neg := map[int][]int{}
	for i, c := range clauses {
		for _, id := range c.Pos {
			pos[id] = append(pos[id], i)
		}
		for _, id := range c.Neg {
			neg[id] = append(neg[id], i)
		}
	}
	for id, ps := range pos {
		ns, ok := neg[id]
		if !ok {
			continue
		}
		for _, i := range ps {
			add(DescribeClause(clauses[i], syms))
		}
		for _, i := range ns {
			add(DescribeClause(clauses[i], syms))
		}
	}
	sort.Strings(conflicting)
	if len(conflicting) == 0 {
		return append([]string{}, complexConflictNotes...)
	}
	return conflicting
}

// DescribeClause renders a clause for conflict reports:
// clause '<name>': <expression> [oblig(x), not(y), ...]
func DescribeClause(c Clause, syms Symbols) string {
	desc := fmt.Sprintf("clause '%s': %s", c.Name, c.Label)
	var details []string
	for _, id := range c.Pos {
		details = append(details, "oblig("+assetName(syms, id)+")")
	}
	for _, id := range c.Neg {
		details = append(details, "not("+assetName(syms, id)+")")
	}
	if len(details) != 0 {
		desc += " [" + strings.Join(details, ", ") + "]"
	}
	return desc
}

func assetName(syms Symbols, id int) string {
	if name, ok := syms.NameOf(id); ok {
		return name
	}
	return fmt.Sprintf("asset_%d", id)
}

// ConflictReport renders the printed UNSAT report for a conflicting
// set produced by Conflicts.
func ConflictReport(conflicting []string, clauses []Clause, syms Symbols) string {
	if len(conflicting) == 0 {
		return "No conflicts detected."
	}
	informational := len(conflicting) == len(complexConflictNotes) &&
		conflicting[0] == complexConflictNotes[0]

	var b strings.Builder
	b.WriteString("Error: Unsatisfiable clauses detected\n\n")
	if informational {
		b.WriteString("Analysis Results:\n")
		for i, line := range conflicting {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, line)
		}
		b.WriteString("\nSuggestion: The system is unsatisfiable due to complex logical interactions. Consider simplifying clause dependencies or reviewing the overall contract structure.")
		return b.String()
	}
	b.WriteString("Minimal conflicting set:\n")
	for i, line := range conflicting {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, line)
	}
	involved := map[int]bool{}
	for _, desc := range conflicting {
		for _, c := range clauses {
			if DescribeClause(c, syms) != desc {
				continue
			}
			for _, id := range c.Pos {
				involved[id] = true
			}
			for _, id := range c.Neg {
				involved[id] = true
			}
		}
	}
	if len(involved) != 0 {
		ids := sortedIDs(involved)
		b.WriteString("\nAssets involved:\n")
		for _, id := range ids {
			fmt.Fprintf(&b, "  - %s (ID: %d)\n", assetName(syms, id), id)
		}
	}
	b.WriteString("\nSuggestion: Review conflicting obligations in your contract specification.")
	return b.String()
}
