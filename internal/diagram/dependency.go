package diagram

import (
	"fmt"
	"io"

	"github.com/Rana718/Forge/internal/graph"
	"github.com/Rana718/Forge/internal/metadata"
)

// DependencyFormatter writes a simplified diagram of table dependencies,
// names and labeled edges only. It speaks "mermaid" or "dot".
type DependencyFormatter struct {
	writer io.Writer
	format string
}

// NewDependencyFormatter creates a dependency formatter writing to w.
func NewDependencyFormatter(w io.Writer, format string) *DependencyFormatter {
	return &DependencyFormatter{writer: w, format: format}
}

// Format writes the dependency diagram for the given tables.
func (f *DependencyFormatter) Format(tables []metadata.Table) error {
	g := graph.FromTables(tables)

	switch f.format {
	case "mermaid":
		_, _ = fmt.Fprintln(f.writer, "graph LR")
		_, _ = fmt.Fprintln(f.writer)
		for _, name := range g.Tables() {
			_, _ = fmt.Fprintf(f.writer, "  %s[\"%s\"]\n", name, name)
		}
		_, _ = fmt.Fprintln(f.writer)
		for _, edge := range g.Edges() {
			_, _ = fmt.Fprintf(f.writer, "  %s -->|%s| %s\n", edge.FromTable, edge.FromField, edge.ToTable)
		}
	case "dot":
		_, _ = fmt.Fprintln(f.writer, "digraph Dependencies {")
		_, _ = fmt.Fprintln(f.writer, "  rankdir=LR;")
		_, _ = fmt.Fprintln(f.writer, "  node [shape=box, style=rounded];")
		_, _ = fmt.Fprintln(f.writer)
		for _, edge := range g.Edges() {
			_, _ = fmt.Fprintf(f.writer, "  %s -> %s [label=\"%s\"];\n",
				sanitizeName(edge.FromTable), sanitizeName(edge.ToTable), edge.FromField)
		}
		_, _ = fmt.Fprintln(f.writer, "}")
	default:
		return fmt.Errorf("unsupported dependency diagram format '%s'", f.format)
	}

	return nil
}
