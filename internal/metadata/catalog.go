package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaReferenceError reports every structural problem found in a catalog
// at once, so a broken schema surfaces all of its offenses in a single pass.
type SchemaReferenceError struct {
	Problems []string
}

func (e *SchemaReferenceError) Error() string {
	return fmt.Sprintf("schema validation failed with %d problem(s): %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// Catalog holds a set of table definitions keyed by name. It is the unit of
// persistence: a whole catalog round-trips through one YAML or JSON document.
type Catalog struct {
	tables map[string]Table
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]Table)}
}

// Add registers a table, replacing any previous definition with the same name.
func (c *Catalog) Add(t Table) {
	c.tables[t.Name] = t
}

// Remove drops a table definition if present.
func (c *Catalog) Remove(name string) {
	delete(c.tables, name)
}

// Get returns the table with the given name.
func (c *Catalog) Get(name string) (Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Names returns all table names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables returns all tables sorted by name.
func (c *Catalog) Tables() []Table {
	tables := make([]Table, 0, len(c.tables))
	for _, name := range c.Names() {
		tables = append(tables, c.tables[name])
	}
	return tables
}

// Len returns the number of registered tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// Validate checks every cross-reference in the catalog and collects each
// offense instead of stopping at the first. A nil return means the catalog
// is structurally sound.
func (c *Catalog) Validate() error {
	var problems []string
	for _, name := range c.Names() {
		t := c.tables[name]
		seen := make(map[string]bool)
		for _, f := range t.Fields {
			if seen[f.Name] {
				problems = append(problems,
					fmt.Sprintf("table '%s' declares field '%s' more than once", t.Name, f.Name))
			}
			seen[f.Name] = true

			if f.Type == TypeEnum && len(f.EnumValues) == 0 {
				problems = append(problems,
					fmt.Sprintf("table '%s' field '%s' is an enum with no values", t.Name, f.Name))
			}

			parent, pf, ok := f.References()
			if !ok {
				continue
			}
			pt, exists := c.tables[parent]
			if !exists {
				problems = append(problems,
					fmt.Sprintf("table '%s' references non-existent table '%s' (field '%s' has REFERENCES %s(%s))",
						t.Name, parent, f.Name, parent, pf))
				continue
			}
			if !pt.HasField(pf) {
				problems = append(problems,
					fmt.Sprintf("table '%s' field '%s' references %s(%s) but '%s' has no field '%s'",
						t.Name, f.Name, parent, pf, parent, pf))
			}
		}
		if t.PrimaryKey != "" && !t.HasField(t.PrimaryKey) {
			problems = append(problems,
				fmt.Sprintf("table '%s' names primary key '%s' which is not a declared field", t.Name, t.PrimaryKey))
		}
		for _, idx := range t.Indexes {
			if !t.HasField(idx) {
				problems = append(problems,
					fmt.Sprintf("table '%s' indexes unknown field '%s'", t.Name, idx))
			}
		}
	}
	if len(problems) > 0 {
		return &SchemaReferenceError{Problems: problems}
	}
	return nil
}

// document is the on-disk shape shared by YAML and JSON catalogs.
type document struct {
	Tables []Table `json:"tables" yaml:"tables"`
}

// LoadFile reads a catalog from a YAML or JSON file, chosen by extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported metadata format: %s (expected .yaml, .yml or .json)", path)
	}

	c := NewCatalog()
	for _, t := range doc.Tables {
		c.Add(t)
	}
	return c, nil
}

// SaveFile writes the catalog to a YAML or JSON file, chosen by extension.
// Tables are written in name order so output is stable across runs.
func (c *Catalog) SaveFile(path string) error {
	doc := document{Tables: c.Tables()}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return fmt.Errorf("unsupported metadata format: %s (expected .yaml, .yml or .json)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
