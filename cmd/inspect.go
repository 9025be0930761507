package cmd

import (
	"fmt"
	"strings"

	"github.com/Rana718/Forge/internal/graph"
	"github.com/spf13/cobra"
)

var inspectTable string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the catalog's dependency graph",
	Long: `Show how the catalog's tables depend on each other: roots, leaves,
dependency levels and the order generation will walk. Cycles are listed
when they block an order.

With --table the output narrows to that table's ancestor chain.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		analyzer := graph.NewAnalyzer(graph.FromTables(catalog.Tables()))

		if inspectTable != "" {
			chain, err := analyzer.Chain(inspectTable)
			if err != nil {
				return err
			}
			fmt.Printf("%s depends on: %s\n", inspectTable, strings.Join(chain, " -> "))
			return nil
		}

		fmt.Print(analyzer.Report())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectTable, "table", "", "Show one table's ancestor chain")
}
