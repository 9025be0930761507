package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rana718/Forge/internal/config"
	"github.com/Rana718/Forge/internal/engine"
	"github.com/Rana718/Forge/internal/progress"
	"github.com/Rana718/Forge/internal/rowsource"
	"github.com/Rana718/Forge/internal/rules"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	genTables      []string
	genRows        int
	genSeed        int64
	genNoValidate  bool
	genPreview     int
	genProgressBar bool
	genIncremental bool
	genSample      int
)

// violationCap bounds how many violations print per table before the rest
// collapse into a count.
const violationCap = 5

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate synthetic rows for the catalog tables",
	Long: `Generate synthetic rows for every table in the catalog, or for the
named tables and the parents they depend on.

Tables generate in dependency order, so foreign keys draw from freshly
generated parent rows. Each table's rows are then checked against the
validation rules derived from its own metadata.

With --incremental the command reads recent rows from the configured
database first and generates rows that continue their identifier
sequences, numeric ranges and date progression. Rows are previewed on
the terminal and never written anywhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		seed := cfg.Generation.Seed
		if cmd.Flags().Changed("seed") {
			seed = genSeed
		}
		rowCount := cfg.Generation.Rows
		if cmd.Flags().Changed("rows") {
			rowCount = genRows
		}

		eng := engine.New(seed)
		eng.SetChunkSize(cfg.Generation.ChunkSize)
		eng.SetTokenPools(cfg.Tokens.PhonePrefixes, cfg.Tokens.MailDomains)
		eng.RegisterCatalog(catalog)

		if genProgressBar {
			eng.Monitor().AddCallback(progress.BarCallback)
		} else {
			eng.Monitor().AddCallback(progress.ConsoleCallback)
		}

		targets, err := resolveTargets(eng, genTables)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if genIncremental {
			return runIncremental(ctx, cfg, eng, targets, rowCount)
		}

		counts := make(map[string]int, len(targets))
		for _, name := range targets {
			counts[name] = rowCount
		}

		data, err := eng.GeneratePlan(ctx, counts)
		if err != nil {
			return err
		}

		fmt.Println()
		totalErrors := 0
		for _, name := range targets {
			rows := data[name]
			var report *rules.ValidationReport
			if !genNoValidate {
				validator, err := eng.Validator(name)
				if err != nil {
					return err
				}
				r := validator.Validate(rows)
				report = &r
			}
			printTableResult(name, rows, report)
			if report != nil {
				totalErrors += report.ErrorCount
			}
		}

		for _, name := range targets {
			printPreview(name, data[name], genPreview)
		}

		if totalErrors > 0 {
			return fmt.Errorf("validation found %d error(s)", totalErrors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().StringSliceVar(&genTables, "table", nil, "Generate only these tables and their parents")
	genCmd.Flags().IntVar(&genRows, "rows", 0, "Rows per table (default from config)")
	genCmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (default from config)")
	genCmd.Flags().BoolVar(&genNoValidate, "no-validate", false, "Skip validation of generated rows")
	genCmd.Flags().IntVar(&genPreview, "preview", 5, "Rows to preview per table (0 disables)")
	genCmd.Flags().BoolVar(&genProgressBar, "bar", false, "Draw a progress bar instead of event lines")
	genCmd.Flags().BoolVar(&genIncremental, "incremental", false, "Continue existing data read from the configured database")
	genCmd.Flags().IntVar(&genSample, "sample", 500, "Existing rows to read per table in incremental mode")
}

// resolveTargets expands the requested tables to include every parent they
// depend on, in generation order. An empty request means every table.
func resolveTargets(eng *engine.Engine, requested []string) ([]string, error) {
	analyzer := eng.Analyzer()
	order, err := analyzer.GenerationOrder()
	if err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return order, nil
	}

	needed := make(map[string]bool, len(requested))
	asked := make(map[string]bool, len(requested))
	for _, name := range requested {
		asked[name] = true
		chain, err := analyzer.Chain(name)
		if err != nil {
			return nil, err
		}
		for _, t := range chain {
			needed[t] = true
		}
	}

	var targets []string
	var extras []string
	for _, name := range order {
		if !needed[name] {
			continue
		}
		targets = append(targets, name)
		if !asked[name] {
			extras = append(extras, name)
		}
	}
	if len(extras) > 0 {
		fmt.Printf("ℹ️  Including parent tables: %s\n", strings.Join(extras, ", "))
	}
	return targets, nil
}

func runIncremental(ctx context.Context, cfg *config.Config, eng *engine.Engine, targets []string, count int) error {
	src, err := rowsource.New(cfg.Database.Provider)
	if err != nil {
		return err
	}
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return err
	}
	if err := src.Connect(ctx, dbURL); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer src.Close()

	related := make(map[string][]interface{})
	totalErrors := 0
	preview := make(map[string][]map[string]interface{}, len(targets))
	for _, name := range targets {
		table, err := eng.Table(name)
		if err != nil {
			return err
		}

		existing, err := src.FetchRows(ctx, table, genSample)
		if err != nil {
			return err
		}
		fmt.Printf("ℹ️  %s: read %d existing row(s)\n", name, len(existing))

		rows, report, err := eng.GenerateIncrementalWithRelations(ctx, name, existing, count, related, !genNoValidate)
		if err != nil {
			return err
		}
		printTableResult(name, rows, report)
		if report != nil {
			totalErrors += report.ErrorCount
		}
		preview[name] = rows

		if table.PrimaryKey == "" {
			continue
		}
		for _, row := range existing {
			if id, ok := row[table.PrimaryKey]; ok && id != nil {
				related[name] = append(related[name], id)
			}
		}
		for _, row := range rows {
			if id, ok := row[table.PrimaryKey]; ok && id != nil {
				related[name] = append(related[name], id)
			}
		}
	}

	for _, name := range targets {
		printPreview(name, preview[name], genPreview)
	}

	if totalErrors > 0 {
		return fmt.Errorf("validation found %d error(s)", totalErrors)
	}
	return nil
}

func printTableResult(name string, rows []map[string]interface{}, report *rules.ValidationReport) {
	if report == nil {
		color.Green("✓ %s: %d rows", name, len(rows))
		return
	}
	if report.OK() {
		color.Green("✓ %s: %s", name, report.Summary())
		return
	}

	color.Yellow("⚠️  %s: %s", name, report.Summary())
	for i, v := range report.Violations {
		if i == violationCap {
			color.Yellow("   ... and %d more", len(report.Violations)-violationCap)
			break
		}
		if v.Row >= 0 {
			fmt.Printf("   row %d [%s] %s\n", v.Row, v.Rule, v.Message)
		} else {
			fmt.Printf("   [%s] %s\n", v.Rule, v.Message)
		}
	}
}

func printPreview(name string, rows []map[string]interface{}, limit int) {
	if limit <= 0 || len(rows) == 0 {
		return
	}
	fmt.Println()
	color.Cyan("%s preview:", name)
	for i, row := range rows {
		if i == limit {
			break
		}
		b, err := json.Marshal(row)
		if err != nil {
			fmt.Printf("  %v\n", row)
			continue
		}
		fmt.Printf("  %s\n", string(b))
	}
}
