package diagram

import (
	"fmt"
	"io"

	"github.com/Rana718/Forge/internal/graph"
	"github.com/Rana718/Forge/internal/metadata"
)

// MermaidFormatter writes an ER diagram in Mermaid erDiagram syntax.
type MermaidFormatter struct {
	writer io.Writer
	opts   Options
}

// NewMermaidFormatter creates a Mermaid formatter writing to w.
func NewMermaidFormatter(w io.Writer, opts Options) *MermaidFormatter {
	return &MermaidFormatter{writer: w, opts: opts}
}

// Format writes the diagram for the given tables.
func (f *MermaidFormatter) Format(tables []metadata.Table) error {
	_, _ = fmt.Fprintln(f.writer, "erDiagram")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range sortedByName(tables) {
		_, _ = fmt.Fprintf(f.writer, "  %s {\n", table.Name)
		if f.opts.ShowFields {
			for _, field := range table.Fields {
				_, _ = fmt.Fprintf(f.writer, "    %s\n", f.fieldLine(field))
			}
		}
		_, _ = fmt.Fprintln(f.writer, "  }")
		_, _ = fmt.Fprintln(f.writer)
	}

	// parent ||--o{ child reads "one parent row owns many child rows".
	for _, edge := range graph.FromTables(tables).Edges() {
		_, _ = fmt.Fprintf(f.writer, "  %s ||--o{ %s : \"%s\"\n", edge.ToTable, edge.FromTable, edge.FromField)
	}

	return nil
}

func (f *MermaidFormatter) fieldLine(field metadata.Field) string {
	fieldType := "string"
	if f.opts.ShowFieldTypes {
		fieldType = displayType(field.Type)
	}

	marker := ""
	if field.Unique && field.Required {
		marker = "PK"
	}
	if field.IsForeignKey() {
		if marker == "" {
			marker = "FK"
		} else {
			marker += ",FK"
		}
	}

	if marker != "" {
		return fmt.Sprintf("%s %s %s", fieldType, field.Name, marker)
	}
	return fmt.Sprintf("%s %s", fieldType, field.Name)
}
