package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rana718/Forge/internal/rules"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkTable string

var checkCmd = &cobra.Command{
	Use:   "check <rows.json>",
	Short: "Validate a JSON rows file against a table's rules",
	Long: `Validate rows stored as a JSON array of objects against the rules
derived from one table's metadata: completeness over required fields,
uniqueness, numeric ranges and declared patterns.

Exits non-zero when any error-severity violation is found, so the
command slots into CI pipelines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		table, ok := catalog.Get(checkTable)
		if !ok {
			return fmt.Errorf("unknown table '%s' (catalog has: %v)", checkTable, catalog.Names())
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read rows file: %w", err)
		}
		var rows []map[string]interface{}
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("failed to parse rows file %s: %w", args[0], err)
		}

		validator, err := rules.NewValidator(table)
		if err != nil {
			return err
		}

		report := validator.Validate(rows)
		printTableResult(checkTable, rows, &report)

		if !report.OK() {
			return fmt.Errorf("validation found %d error(s)", report.ErrorCount)
		}
		color.Green("✓ %s passed all %d rule(s)", args[0], len(validator.Rules()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkTable, "table", "", "Table whose rules to check against (required)")
	checkCmd.MarkFlagRequired("table")
}
