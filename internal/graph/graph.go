package graph

import (
	"sort"

	"github.com/Rana718/Forge/internal/metadata"
)

// Edge is one foreign-key dependency: FromTable needs a row of ToTable to
// exist first, because FromField stores values drawn from ToField.
type Edge struct {
	FromTable string
	FromField string
	ToTable   string
	ToField   string
}

// Graph is a directed dependency graph over table names. Both endpoints of
// an edge are registered automatically, so an edge to an undeclared table
// still shows up in traversals (catalog validation reports it separately).
type Graph struct {
	tables   map[string]bool
	edges    []Edge
	parents  map[string]map[string]bool
	children map[string]map[string]bool
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{
		tables:   make(map[string]bool),
		parents:  make(map[string]map[string]bool),
		children: make(map[string]map[string]bool),
	}
}

// FromTables builds a graph from table definitions, one edge per foreign key.
func FromTables(tables []metadata.Table) *Graph {
	g := New()
	for _, t := range tables {
		g.AddTable(t.Name)
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys() {
			g.AddEdge(Edge{
				FromTable: t.Name,
				FromField: fk.FieldName,
				ToTable:   fk.RefTable,
				ToField:   fk.RefField,
			})
		}
	}
	return g
}

// AddTable registers a table with no dependencies yet.
func (g *Graph) AddTable(name string) {
	g.tables[name] = true
}

// AddEdge registers a dependency edge and both of its endpoints.
func (g *Graph) AddEdge(e Edge) {
	g.tables[e.FromTable] = true
	g.tables[e.ToTable] = true
	g.edges = append(g.edges, e)

	if g.parents[e.FromTable] == nil {
		g.parents[e.FromTable] = make(map[string]bool)
	}
	g.parents[e.FromTable][e.ToTable] = true

	if g.children[e.ToTable] == nil {
		g.children[e.ToTable] = make(map[string]bool)
	}
	g.children[e.ToTable][e.FromTable] = true
}

// Tables returns every registered table name in sorted order.
func (g *Graph) Tables() []string {
	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edges returns a copy of every registered edge.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Parents returns the tables this table depends on, sorted.
func (g *Graph) Parents(name string) []string {
	return sortedKeys(g.parents[name])
}

// Children returns the tables that depend on this table, sorted.
func (g *Graph) Children(name string) []string {
	return sortedKeys(g.children[name])
}

// Has reports whether the table is registered.
func (g *Graph) Has(name string) bool {
	return g.tables[name]
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
