package metadata

// FieldType is the semantic type of a column-level field. It drives both
// synthesis and the rule layer, so it is deliberately richer than raw SQL
// types (phone, email, id_card and bank_card all map to VARCHAR on the wire).
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeDecimal  FieldType = "decimal"
	TypeDate     FieldType = "date"
	TypeDatetime FieldType = "datetime"
	TypeBoolean  FieldType = "boolean"
	TypeEnum     FieldType = "enum"
	TypeID       FieldType = "id"
	TypePhone    FieldType = "phone"
	TypeEmail    FieldType = "email"
	TypeIDCard   FieldType = "id_card"
	TypeBankCard FieldType = "bank_card"
	TypeAmount   FieldType = "amount"
)

// IsNumeric reports whether values of this type order and compare as numbers.
func (t FieldType) IsNumeric() bool {
	return t == TypeInteger || t == TypeDecimal || t == TypeAmount
}

// IsTemporal reports whether values of this type are calendar-valued.
func (t FieldType) IsTemporal() bool {
	return t == TypeDate || t == TypeDatetime
}

// Field describes one column: its semantic type plus every constraint the
// generator must honor and the validator re-checks. Fields are plain records,
// built once and treated as read-only afterwards.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Type        FieldType `json:"type" yaml:"type"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`

	Required bool `json:"required" yaml:"required"`
	Unique   bool `json:"unique,omitempty" yaml:"unique,omitempty"`

	// Length bounds. Length wins over Min/MaxLength when set.
	Length    int `json:"length,omitempty" yaml:"length,omitempty"`
	MinLength int `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength int `json:"max_length,omitempty" yaml:"max_length,omitempty"`

	// Numeric bounds. Pointers so zero stays a usable bound.
	MinValue  *float64 `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue  *float64 `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Precision *int     `json:"precision,omitempty" yaml:"precision,omitempty"`

	EnumValues []string    `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
	Default    interface{} `json:"default,omitempty" yaml:"default,omitempty"`

	// Pattern is a full-match regular expression for generated values.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// RefTable/RefField mark this field as a foreign key. RefField defaults
	// to "id" when only the table is given.
	RefTable string `json:"ref_table,omitempty" yaml:"ref_table,omitempty"`
	RefField string `json:"ref_field,omitempty" yaml:"ref_field,omitempty"`

	// Strategy names a bound generation strategy, configured by
	// StrategyParams. Empty means plain type-driven synthesis.
	Strategy       string                 `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	StrategyParams map[string]interface{} `json:"strategy_params,omitempty" yaml:"strategy_params,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsForeignKey reports whether the field references another table.
func (f Field) IsForeignKey() bool {
	return f.RefTable != ""
}

// References returns the parent table and field this field points at.
// The parent field falls back to "id" when unspecified.
func (f Field) References() (table, field string, ok bool) {
	if f.RefTable == "" {
		return "", "", false
	}
	ref := f.RefField
	if ref == "" {
		ref = "id"
	}
	return f.RefTable, ref, true
}

// Float returns a pointer to v, for bound literals in table definitions.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for precision literals in table definitions.
func Int(v int) *int { return &v }
