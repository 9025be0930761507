// Package engine ties the catalog, generators, analyzer, validator and
// progress monitor into one seeded generation session.
package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Rana718/Forge/internal/generator"
	"github.com/Rana718/Forge/internal/graph"
	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/progress"
	"github.com/Rana718/Forge/internal/rules"
)

const defaultChunkSize = 100

// Engine is one generation session. Every table generator shares the
// session PRNG, so a fixed seed and a fixed call sequence reproduce the
// same data. An Engine is not safe for concurrent use.
type Engine struct {
	seed          int64
	rng           *rand.Rand
	catalog       *metadata.Catalog
	generators    map[string]*generator.TableGenerator
	monitor       *progress.Monitor
	chunkSize     int
	phonePrefixes []string
	mailDomains   []string
}

func New(seed int64) *Engine {
	return &Engine{
		seed:       seed,
		rng:        rand.New(rand.NewSource(seed)),
		catalog:    metadata.NewCatalog(),
		generators: make(map[string]*generator.TableGenerator),
		monitor:    progress.NewMonitor(),
		chunkSize:  defaultChunkSize,
	}
}

func (e *Engine) Seed() int64 { return e.seed }

// Monitor exposes the session progress monitor for callback registration.
func (e *Engine) Monitor() *progress.Monitor { return e.monitor }

// Catalog exposes the registered table definitions.
func (e *Engine) Catalog() *metadata.Catalog { return e.catalog }

// SetChunkSize adjusts how many rows are generated between context checks
// and progress events. Values below 1 are ignored.
func (e *Engine) SetChunkSize(n int) {
	if n > 0 {
		e.chunkSize = n
	}
}

// SetTokenPools overrides the phone prefix and mail domain vocabulary used
// by every table generated in this session. Existing per-table generators
// are rebuilt on next use so the pools apply everywhere.
func (e *Engine) SetTokenPools(phonePrefixes, mailDomains []string) {
	e.phonePrefixes = phonePrefixes
	e.mailDomains = mailDomains
	e.generators = make(map[string]*generator.TableGenerator)
}

// RegisterTable adds or replaces a table definition.
func (e *Engine) RegisterTable(table metadata.Table) {
	e.catalog.Add(table)
	delete(e.generators, table.Name)
}

// RegisterCatalog registers every table the catalog holds.
func (e *Engine) RegisterCatalog(c *metadata.Catalog) {
	for _, t := range c.Tables() {
		e.RegisterTable(t)
	}
}

// LoadCatalog reads table definitions from a YAML or JSON file and
// registers them.
func (e *Engine) LoadCatalog(path string) error {
	c, err := metadata.LoadFile(path)
	if err != nil {
		return err
	}
	e.RegisterCatalog(c)
	return nil
}

// Tables lists the registered table names in sorted order.
func (e *Engine) Tables() []string { return e.catalog.Names() }

// Table returns a registered table definition.
func (e *Engine) Table(name string) (metadata.Table, error) {
	t, ok := e.catalog.Get(name)
	if !ok {
		return metadata.Table{}, fmt.Errorf("unknown table '%s'", name)
	}
	return t, nil
}

// Analyzer builds a dependency analyzer over the registered tables.
func (e *Engine) Analyzer() *graph.Analyzer {
	return graph.NewAnalyzer(graph.FromTables(e.catalog.Tables()))
}

// Validator builds a rule validator for a registered table.
func (e *Engine) Validator(table string) (*rules.Validator, error) {
	t, err := e.Table(table)
	if err != nil {
		return nil, err
	}
	return rules.NewValidator(t)
}

// GenerateData generates count rows for one table. When validate is set the
// rows are checked against the table's derived rules and the report is
// returned alongside them.
func (e *Engine) GenerateData(ctx context.Context, table string, count int, validate bool) ([]map[string]interface{}, *rules.ValidationReport, error) {
	return e.generate(ctx, table, count, nil, validate)
}

// GenerateWithRelations is GenerateData with foreign keys drawn from
// relatedData, keyed by parent table name.
func (e *Engine) GenerateWithRelations(ctx context.Context, table string, count int, relatedData map[string][]interface{}, validate bool) ([]map[string]interface{}, *rules.ValidationReport, error) {
	return e.generate(ctx, table, count, relatedData, validate)
}

// GenerateIncrementalData extends an existing dataset with count new rows
// that continue its identifier sequences, numeric ranges and date
// progression. The run is not chunked; the context is checked once up
// front.
func (e *Engine) GenerateIncrementalData(ctx context.Context, table string, existing []map[string]interface{}, count int, validate bool) ([]map[string]interface{}, *rules.ValidationReport, error) {
	return e.generateIncremental(ctx, table, existing, count, nil, validate)
}

// GenerateIncrementalWithRelations adds relation sampling on top of
// incremental continuation.
func (e *Engine) GenerateIncrementalWithRelations(ctx context.Context, table string, existing []map[string]interface{}, count int, relatedData map[string][]interface{}, validate bool) ([]map[string]interface{}, *rules.ValidationReport, error) {
	return e.generateIncremental(ctx, table, existing, count, relatedData, validate)
}

// GeneratePlan generates every table named in counts, walking the
// dependency order and feeding each child's foreign keys from the
// primary-key values of already generated parents. A table absent from
// counts is skipped and its children fall back to ordinary synthesis for
// the keys that reference it.
func (e *Engine) GeneratePlan(ctx context.Context, counts map[string]int) (map[string][]map[string]interface{}, error) {
	for name := range counts {
		if _, ok := e.catalog.Get(name); !ok {
			return nil, fmt.Errorf("unknown table '%s'", name)
		}
	}
	order, err := e.Analyzer().GenerationOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve generation order: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	e.monitor.Start("", total)

	result := make(map[string][]map[string]interface{}, len(counts))
	generatedIDs := make(map[string][]interface{})
	for _, name := range order {
		count, ok := counts[name]
		if !ok {
			continue
		}
		gen, err := e.generatorFor(name)
		if err != nil {
			e.monitor.Error(fmt.Sprintf("table %s failed", name), err)
			return nil, err
		}

		e.monitor.TableStarted(name, count)
		gen.Reset()
		rows, err := e.chunked(ctx, gen, count, generatedIDs)
		if err != nil {
			e.reportFailure(ctx, fmt.Sprintf("table %s failed", name), err)
			return nil, err
		}
		result[name] = rows
		e.monitor.TableCompleted(name, len(rows))

		table, _ := e.catalog.Get(name)
		if table.PrimaryKey == "" {
			continue
		}
		for _, row := range rows {
			if id, ok := row[table.PrimaryKey]; ok && id != nil {
				generatedIDs[name] = append(generatedIDs[name], id)
			}
		}
	}
	e.monitor.Complete("generation plan completed")
	return result, nil
}

func (e *Engine) generate(ctx context.Context, table string, count int, relatedData map[string][]interface{}, validate bool) ([]map[string]interface{}, *rules.ValidationReport, error) {
	gen, err := e.generatorFor(table)
	if err != nil {
		return nil, nil, err
	}

	e.monitor.Start(table, count)
	gen.Reset()
	rows, err := e.chunked(ctx, gen, count, relatedData)
	if err != nil {
		e.reportFailure(ctx, fmt.Sprintf("table %s failed", table), err)
		return nil, nil, err
	}

	report, err := e.maybeValidate(table, rows, validate)
	if err != nil {
		return nil, nil, err
	}
	e.monitor.Complete(fmt.Sprintf("table %s: %d rows generated", table, len(rows)))
	return rows, report, nil
}

func (e *Engine) generateIncremental(ctx context.Context, table string, existing []map[string]interface{}, count int, relatedData map[string][]interface{}, validate bool) ([]map[string]interface{}, *rules.ValidationReport, error) {
	gen, err := e.generatorFor(table)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("generation cancelled: %w", err)
	}

	e.monitor.Start(table, count)
	rows, err := gen.GenerateIncrementalWithRelations(count, existing, relatedData)
	if err != nil {
		e.monitor.Error(fmt.Sprintf("table %s failed", table), err)
		return nil, nil, err
	}
	e.monitor.BatchCompleted(len(rows), 1)

	report, err := e.maybeValidate(table, rows, validate)
	if err != nil {
		return nil, nil, err
	}
	e.monitor.Complete(fmt.Sprintf("table %s: %d incremental rows generated", table, len(rows)))
	return rows, report, nil
}

// chunked produces count rows in chunkSize slices, checking the context and
// reporting progress between slices. The generator must already be reset.
func (e *Engine) chunked(ctx context.Context, gen *generator.TableGenerator, count int, relatedData map[string][]interface{}) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, count)
	batchNum := 0
	for produced := 0; produced < count; {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		n := e.chunkSize
		if remaining := count - produced; remaining < n {
			n = remaining
		}
		chunk, err := gen.GenerateRange(produced, n, count, nil, relatedData)
		if err != nil {
			return nil, err
		}
		rows = append(rows, chunk...)
		produced += n
		batchNum++
		e.monitor.BatchCompleted(n, batchNum)
	}
	return rows, nil
}

func (e *Engine) maybeValidate(table string, rows []map[string]interface{}, validate bool) (*rules.ValidationReport, error) {
	if !validate {
		return nil, nil
	}
	v, err := e.Validator(table)
	if err != nil {
		e.monitor.Error("validation setup failed", err)
		return nil, err
	}
	e.monitor.ValidationStarted(len(rows))
	report := v.Validate(rows)
	e.monitor.ValidationCompleted(len(rows), report.OK(), report.ErrorCount)
	return &report, nil
}

func (e *Engine) reportFailure(ctx context.Context, message string, err error) {
	if ctx.Err() != nil {
		e.monitor.Cancel()
		return
	}
	e.monitor.Error(message, err)
}

func (e *Engine) generatorFor(name string) (*generator.TableGenerator, error) {
	if g, ok := e.generators[name]; ok {
		return g, nil
	}
	table, err := e.Table(name)
	if err != nil {
		return nil, err
	}
	fg := generator.NewFieldGeneratorWithRand(e.rng)
	fg.SetTokenPools(e.phonePrefixes, e.mailDomains)
	g, err := generator.NewTableGeneratorWith(table, fg)
	if err != nil {
		return nil, err
	}
	e.generators[name] = g
	return g, nil
}
