package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Rana718/Forge/internal/financial"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Forge project",
	Long: `Initialize a new Forge project: a forge.config.json and a starter
catalog with the built-in banking tables, ready to edit or generate from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initializeProject()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config and catalog files")
}

const defaultConfigContent = `{
  "version": "1",
  "catalog_path": "forge/catalog.yaml",
  "generation": {
    "rows": 10,
    "seed": 42,
    "chunk_size": 100
  },
  "database": {
    "provider": "postgresql",
    "url_env": "DATABASE_URL"
  }
}
`

func initializeProject() error {
	configPath := "forge.config.json"
	catalogFile := "forge/catalog.yaml"
	if catalogFlag != "" {
		catalogFile = catalogFlag
	}

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if _, err := os.Stat(catalogFile); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", catalogFile)
		}
	}

	if dir := filepath.Dir(catalogFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", configPath, err)
	}

	catalog := financial.Catalog()
	if err := catalog.SaveFile(catalogFile); err != nil {
		return err
	}

	fmt.Println("✅ Successfully initialized Forge project")
	fmt.Println()
	fmt.Println("📝 Files created:")
	fmt.Printf("   %s\n", configPath)
	fmt.Printf("   %s (%d tables)\n", catalogFile, catalog.Len())
	fmt.Println()
	fmt.Println("📋 Starter tables:")
	for _, name := range catalog.Names() {
		fmt.Printf("   %s\n", name)
	}
	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   forge inspect                  # See the dependency graph\n")
	fmt.Printf("   forge gen --rows 20            # Generate data for every table\n")
	fmt.Printf("   forge gen --table account      # Generate one table and its parents\n")

	return nil
}
