package diagram

import (
	"fmt"
	"io"

	"github.com/Rana718/Forge/internal/graph"
	"github.com/Rana718/Forge/internal/metadata"
)

// PlantUMLFormatter writes an ER diagram as PlantUML entity blocks.
type PlantUMLFormatter struct {
	writer io.Writer
	opts   Options
}

// NewPlantUMLFormatter creates a PlantUML formatter writing to w.
func NewPlantUMLFormatter(w io.Writer, opts Options) *PlantUMLFormatter {
	return &PlantUMLFormatter{writer: w, opts: opts}
}

// Format writes the diagram for the given tables.
func (f *PlantUMLFormatter) Format(tables []metadata.Table) error {
	_, _ = fmt.Fprintln(f.writer, "@startuml")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "skinparam linetype ortho")
	_, _ = fmt.Fprintln(f.writer, "skinparam class {")
	_, _ = fmt.Fprintln(f.writer, "  BackgroundColor White")
	_, _ = fmt.Fprintln(f.writer, "  BorderColor Black")
	_, _ = fmt.Fprintln(f.writer, "  ArrowColor Black")
	_, _ = fmt.Fprintln(f.writer, "}")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range sortedByName(tables) {
		_, _ = fmt.Fprintf(f.writer, "entity %s {\n", table.Name)

		if pk, ok := table.Field(table.PrimaryKey); ok {
			_, _ = fmt.Fprintf(f.writer, "  * %s : %s <<PK>>\n", pk.Name, plantUMLType(pk.Type))
		}

		if f.opts.ShowFields {
			for _, field := range table.Fields {
				if field.Name == table.PrimaryKey {
					continue
				}
				fieldType := ""
				if f.opts.ShowFieldTypes {
					fieldType = plantUMLType(field.Type)
				}
				required := " "
				if field.Required {
					required = "*"
				}
				fkMarker := ""
				if field.IsForeignKey() {
					fkMarker = " <<FK>>"
				}
				_, _ = fmt.Fprintf(f.writer, "  %s %s : %s%s\n", required, field.Name, fieldType, fkMarker)
			}
		}

		_, _ = fmt.Fprintln(f.writer, "}")
		_, _ = fmt.Fprintln(f.writer)
	}

	for _, edge := range graph.FromTables(tables).Edges() {
		_, _ = fmt.Fprintf(f.writer, "%s ||--o{ %s\n", edge.ToTable, edge.FromTable)
	}

	_, _ = fmt.Fprintln(f.writer, "@enduml")
	return nil
}
