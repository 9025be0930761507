package diagram

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rana718/Forge/internal/graph"
	"github.com/Rana718/Forge/internal/metadata"
)

// DOTFormatter writes an ER diagram as a Graphviz digraph with record nodes
// and crow's-foot arrowheads.
type DOTFormatter struct {
	writer io.Writer
	opts   Options
}

// NewDOTFormatter creates a DOT formatter writing to w.
func NewDOTFormatter(w io.Writer, opts Options) *DOTFormatter {
	return &DOTFormatter{writer: w, opts: opts}
}

// Format writes the diagram for the given tables.
func (f *DOTFormatter) Format(tables []metadata.Table) error {
	_, _ = fmt.Fprintln(f.writer, "digraph ER {")
	_, _ = fmt.Fprintln(f.writer, "  rankdir=LR;")
	_, _ = fmt.Fprintln(f.writer, `  node [shape=record, fontname="Arial"];`)
	_, _ = fmt.Fprintln(f.writer, `  edge [fontname="Arial", fontsize=10];`)
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range sortedByName(tables) {
		_, _ = fmt.Fprintf(f.writer, "  // Table: %s\n", table.Name)
		_, _ = fmt.Fprintf(f.writer, "  %s [label=\"%s\"];\n", sanitizeName(table.Name), f.tableLabel(table))
		_, _ = fmt.Fprintln(f.writer)
	}

	_, _ = fmt.Fprintln(f.writer, "  // Relationships")
	for _, edge := range graph.FromTables(tables).Edges() {
		_, _ = fmt.Fprintf(f.writer, "  %s -> %s [label=\"%s\", arrowhead=crow];\n",
			sanitizeName(edge.FromTable), sanitizeName(edge.ToTable), edge.FromField)
	}

	_, _ = fmt.Fprintln(f.writer, "}")
	return nil
}

func (f *DOTFormatter) tableLabel(table metadata.Table) string {
	parts := []string{fmt.Sprintf("{<table>表名: %s|%s}", table.Name, table.Description)}

	if f.opts.ShowFields {
		lines := make([]string, 0, len(table.Fields))
		for _, field := range table.Fields {
			lines = append(lines, f.fieldLabel(field, table.PrimaryKey))
		}
		parts = append(parts, "{"+strings.Join(lines, `\l`)+`\l}`)
	}

	return strings.Join(parts, "|")
}

func (f *DOTFormatter) fieldLabel(field metadata.Field, primaryKey string) string {
	s := field.Name
	if f.opts.HighlightKeys && field.Name == primaryKey {
		s = "🔑 " + s
	} else if f.opts.HighlightKeys && field.IsForeignKey() {
		s = "🔗 " + s
	}
	if f.opts.ShowFieldTypes {
		s += ": " + displayType(field.Type)
	}
	if field.Required {
		s += " *"
	}
	return s
}
