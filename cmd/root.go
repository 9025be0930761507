package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.3.0"
)

func showBanner() {
	cyanColor := color.New(color.FgCyan, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║   ███████╗ ██████╗ ██████╗  ██████╗ ███████╗ ║",
		"║   ██╔════╝██╔═══██╗██╔══██╗██╔════╝ ██╔════╝ ║",
		"║   █████╗  ██║   ██║██████╔╝██║  ███╗█████╗   ║",
		"║   ██╔══╝  ██║   ██║██╔══██╗██║   ██║██╔══╝   ║",
		"║   ██║     ╚██████╔╝██║  ██║╚██████╔╝███████╗ ║",
		"║   ╚═╝      ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚══════╝ ║",
		"║                                              ║",
		"║      🔥 Metadata-Driven Test Data Forge      ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		cyanColor.Println(line)
	}

	fmt.Print("                ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Generate realistic synthetic datasets from table metadata",
	Long: `
Forge generates reproducible synthetic datasets from declarative table
metadata: field types, bounds, enums, uniqueness and foreign keys.

What it does:
- Seeded generation, so equal seeds replay equal data
- Foreign keys drawn from generated parent rows, in dependency order
- Validation rules derived from the same metadata
- DDL import: turn CREATE TABLE scripts into a catalog
- ER and dependency diagrams (DOT, Mermaid, PlantUML)

Database Support (for incremental continuation):
- PostgreSQL
- MySQL
- SQLite`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("Forge CLI version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./forge.config.json)")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "catalog file (default from config)")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("forge.config")
	}

	viper.AutomaticEnv()

	viper.ReadInConfig()
}
