package graph

import (
	"fmt"
	"sort"
	"strings"
)

// CyclicDependencyError carries every cycle found in the graph so callers
// can report them all instead of fixing one reference at a time.
type CyclicDependencyError struct {
	Cycles [][]string
}

func (e *CyclicDependencyError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, cycle := range e.Cycles {
		closed := append(append([]string{}, cycle...), cycle[0])
		parts = append(parts, strings.Join(closed, " -> "))
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(parts, "; "))
}

// Analyzer answers ordering questions about a dependency graph.
type Analyzer struct {
	g *Graph
}

// NewAnalyzer wraps a graph for analysis.
func NewAnalyzer(g *Graph) *Analyzer {
	return &Analyzer{g: g}
}

// DetectCycles walks the graph from every table and returns each distinct
// cycle as a path slice, rotated so the smallest table name leads. An
// acyclic graph yields an empty result.
func (a *Analyzer) DetectCycles() [][]string {
	var cycles [][]string
	reported := make(map[string]bool)

	var path []string
	onPath := make(map[string]int)

	var walk func(name string)
	walk = func(name string) {
		if idx, ok := onPath[name]; ok {
			cycle := rotateToSmallest(path[idx:])
			key := strings.Join(cycle, "\x00")
			if !reported[key] {
				reported[key] = true
				cycles = append(cycles, cycle)
			}
			return
		}
		onPath[name] = len(path)
		path = append(path, name)
		for _, parent := range a.g.Parents(name) {
			walk(parent)
		}
		path = path[:len(path)-1]
		delete(onPath, name)
	}

	for _, name := range a.g.Tables() {
		walk(name)
	}
	return cycles
}

// GenerationOrder returns the tables so that every table appears after all
// tables it depends on. Ties break alphabetically, so the order is stable.
// A cyclic graph yields a CyclicDependencyError listing every cycle.
func (a *Analyzer) GenerationOrder() ([]string, error) {
	tables := a.g.Tables()
	inDegree := make(map[string]int, len(tables))
	for _, name := range tables {
		inDegree[name] = len(a.g.Parents(name))
	}

	var queue []string
	for _, name := range tables {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]string, 0, len(tables))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, child := range a.g.Children(current) {
			inDegree[child]--
			if inDegree[child] == 0 {
				pos := sort.SearchStrings(queue, child)
				queue = append(queue[:pos], append([]string{child}, queue[pos:]...)...)
			}
		}
	}

	if len(order) != len(tables) {
		return nil, &CyclicDependencyError{Cycles: a.DetectCycles()}
	}
	return order, nil
}

// DependencyLevels assigns each table its generation depth: tables with no
// parents sit at level 0, every other table one past its deepest parent.
func (a *Analyzer) DependencyLevels() (map[string]int, error) {
	order, err := a.GenerationOrder()
	if err != nil {
		return nil, err
	}
	levels := make(map[string]int, len(order))
	for _, name := range order {
		level := 0
		for _, parent := range a.g.Parents(name) {
			if levels[parent]+1 > level {
				level = levels[parent] + 1
			}
		}
		levels[name] = level
	}
	return levels, nil
}

// Roots returns the tables nothing depends on upward, sorted.
func (a *Analyzer) Roots() []string {
	var roots []string
	for _, name := range a.g.Tables() {
		if len(a.g.Parents(name)) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// Leaves returns the tables no other table depends on, sorted.
func (a *Analyzer) Leaves() []string {
	var leaves []string
	for _, name := range a.g.Tables() {
		if len(a.g.Children(name)) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// Chain returns the table together with every table it transitively depends
// on, ordered so dependencies come first and the table itself last.
func (a *Analyzer) Chain(table string) ([]string, error) {
	if !a.g.Has(table) {
		return nil, fmt.Errorf("unknown table '%s'", table)
	}
	order, err := a.GenerationOrder()
	if err != nil {
		return nil, err
	}

	needed := map[string]bool{table: true}
	stack := []string{table}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, parent := range a.g.Parents(current) {
			if !needed[parent] {
				needed[parent] = true
				stack = append(stack, parent)
			}
		}
	}

	var chain []string
	for _, name := range order {
		if needed[name] {
			chain = append(chain, name)
		}
	}
	return chain, nil
}

// Report renders a plain-text summary of the graph: size, roots, leaves,
// levels and the generation order, or the cycles that block one.
func (a *Analyzer) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dependency Report\n")
	fmt.Fprintf(&b, "=================\n")
	fmt.Fprintf(&b, "Tables: %d\n", len(a.g.Tables()))
	fmt.Fprintf(&b, "Edges:  %d\n", len(a.g.Edges()))
	fmt.Fprintf(&b, "Roots:  %s\n", joinOrDash(a.Roots()))
	fmt.Fprintf(&b, "Leaves: %s\n", joinOrDash(a.Leaves()))

	order, err := a.GenerationOrder()
	if err != nil {
		fmt.Fprintf(&b, "\nCycles:\n")
		for _, cycle := range a.DetectCycles() {
			closed := append(append([]string{}, cycle...), cycle[0])
			fmt.Fprintf(&b, "  %s\n", strings.Join(closed, " -> "))
		}
		return b.String()
	}

	levels, _ := a.DependencyLevels()
	byLevel := make(map[int][]string)
	maxLevel := 0
	for name, level := range levels {
		byLevel[level] = append(byLevel[level], name)
		if level > maxLevel {
			maxLevel = level
		}
	}
	fmt.Fprintf(&b, "\nLevels:\n")
	for level := 0; level <= maxLevel; level++ {
		names := byLevel[level]
		sort.Strings(names)
		fmt.Fprintf(&b, "  %d: %s\n", level, strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "\nOrder: %s\n", strings.Join(order, " -> "))
	return b.String()
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func rotateToSmallest(cycle []string) []string {
	min := 0
	for i, name := range cycle {
		if name < cycle[min] {
			min = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return out
}
