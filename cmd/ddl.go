package cmd

import (
	"fmt"

	"github.com/Rana718/Forge/internal/config"
	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/parser"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ddlOut string

var ddlCmd = &cobra.Command{
	Use:   "ddl <schema.sql>",
	Short: "Import CREATE TABLE statements into a catalog",
	Long: `Parse a SQL script and write every CREATE TABLE it contains to a
catalog file. Column types map to semantic field types, and constraints
(NOT NULL, UNIQUE, DEFAULT, ENUM values, DECIMAL precision, foreign
keys) carry over as field metadata.

Statements that cannot be parsed are skipped with the rest kept, so a
partially supported script still yields a usable catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := ddlOut
		if out == "" {
			out = catalogPath(cfg)
		}

		tables, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			return fmt.Errorf("no CREATE TABLE statements found in %s", args[0])
		}

		catalog := metadata.NewCatalog()
		for _, t := range tables {
			catalog.Add(t)
		}

		if err := catalog.Validate(); err != nil {
			color.Yellow("⚠️  Imported catalog has unresolved references:")
			color.Yellow("   %v", err)
		}

		if err := catalog.SaveFile(out); err != nil {
			return err
		}

		color.Green("✓ Imported %d table(s) into %s", catalog.Len(), out)
		for _, name := range catalog.Names() {
			t, _ := catalog.Get(name)
			fmt.Printf("   %s (%d fields)\n", name, len(t.Fields))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ddlCmd)

	ddlCmd.Flags().StringVar(&ddlOut, "out", "", "Output catalog file (default from config)")
}
