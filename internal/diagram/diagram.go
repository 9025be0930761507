// Package diagram renders table relationships as entity-relationship
// diagrams. Formatters wrap an io.Writer and emit Graphviz DOT, Mermaid or
// PlantUML text; rendering text to images is the caller's business.
package diagram

import (
	"sort"
	"strings"

	"github.com/Rana718/Forge/internal/metadata"
)

// Options control how much detail the ER formatters emit.
type Options struct {
	ShowFields     bool
	ShowFieldTypes bool
	HighlightKeys  bool
}

// DefaultOptions turns every detail on.
func DefaultOptions() Options {
	return Options{ShowFields: true, ShowFieldTypes: true, HighlightKeys: true}
}

var displayTypes = map[metadata.FieldType]string{
	metadata.TypeString:   "string",
	metadata.TypeInteger:  "int",
	metadata.TypeDecimal:  "decimal",
	metadata.TypeDate:     "date",
	metadata.TypeDatetime: "datetime",
	metadata.TypeBoolean:  "boolean",
	metadata.TypeEnum:     "enum",
	metadata.TypeID:       "id",
	metadata.TypePhone:    "phone",
	metadata.TypeEmail:    "email",
	metadata.TypeIDCard:   "id_card",
	metadata.TypeBankCard: "bank_card",
	metadata.TypeAmount:   "amount",
}

var plantUMLTypes = map[metadata.FieldType]string{
	metadata.TypeString:   "VARCHAR",
	metadata.TypeInteger:  "INT",
	metadata.TypeDecimal:  "DECIMAL",
	metadata.TypeDate:     "DATE",
	metadata.TypeDatetime: "DATETIME",
	metadata.TypeBoolean:  "BOOLEAN",
	metadata.TypeEnum:     "ENUM",
	metadata.TypeID:       "VARCHAR",
	metadata.TypePhone:    "VARCHAR",
	metadata.TypeEmail:    "VARCHAR",
	metadata.TypeIDCard:   "VARCHAR",
	metadata.TypeBankCard: "VARCHAR",
	metadata.TypeAmount:   "DECIMAL",
}

func displayType(t metadata.FieldType) string {
	if s, ok := displayTypes[t]; ok {
		return s
	}
	return "unknown"
}

func plantUMLType(t metadata.FieldType) string {
	if s, ok := plantUMLTypes[t]; ok {
		return s
	}
	return "VARCHAR"
}

// sanitizeName makes a table name safe as a DOT node identifier.
func sanitizeName(name string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}

// sortedByName returns a copy of the tables ordered by name. Node sections
// come out sorted while edges keep declaration order.
func sortedByName(tables []metadata.Table) []metadata.Table {
	out := make([]metadata.Table, len(tables))
	copy(out, tables)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
