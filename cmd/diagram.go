package cmd

import (
	"fmt"
	"os"

	"github.com/Rana718/Forge/internal/diagram"
	"github.com/spf13/cobra"
)

var (
	diagramFormat  string
	diagramDeps    bool
	diagramNoField bool
	diagramNoTypes bool
	diagramNoKeys  bool
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Emit an ER or dependency diagram for the catalog",
	Long: `Emit a relationship diagram for the catalog tables on stdout.

Formats: dot (Graphviz), mermaid, plantuml. With --deps a simplified
table-level dependency diagram is emitted instead (dot or mermaid).

Pipe the output into your renderer of choice:
  forge diagram --format dot | dot -Tsvg > schema.svg
  forge diagram --format mermaid > schema.mmd`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		tables := catalog.Tables()

		if diagramDeps {
			return diagram.NewDependencyFormatter(os.Stdout, diagramFormat).Format(tables)
		}

		opts := diagram.Options{
			ShowFields:     !diagramNoField,
			ShowFieldTypes: !diagramNoTypes,
			HighlightKeys:  !diagramNoKeys,
		}

		switch diagramFormat {
		case "dot":
			return diagram.NewDOTFormatter(os.Stdout, opts).Format(tables)
		case "mermaid":
			return diagram.NewMermaidFormatter(os.Stdout, opts).Format(tables)
		case "plantuml":
			return diagram.NewPlantUMLFormatter(os.Stdout, opts).Format(tables)
		default:
			return fmt.Errorf("unsupported diagram format '%s' (expected dot, mermaid or plantuml)", diagramFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVar(&diagramFormat, "format", "mermaid", "Diagram format: dot, mermaid or plantuml")
	diagramCmd.Flags().BoolVar(&diagramDeps, "deps", false, "Emit a table-level dependency diagram instead of an ER diagram")
	diagramCmd.Flags().BoolVar(&diagramNoField, "no-fields", false, "Omit field lists from table nodes")
	diagramCmd.Flags().BoolVar(&diagramNoTypes, "no-types", false, "Omit field types")
	diagramCmd.Flags().BoolVar(&diagramNoKeys, "no-keys", false, "Omit key markers")
}
