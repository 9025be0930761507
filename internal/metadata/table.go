package metadata

// ForeignKeyRef is one resolved outbound reference of a table.
type ForeignKeyRef struct {
	FieldName string `json:"field_name" yaml:"field_name"`
	RefTable  string `json:"ref_table" yaml:"ref_table"`
	RefField  string `json:"ref_field" yaml:"ref_field"`
}

// Table describes one logical table: its fields in declaration order plus
// table-level hints. Like Field it is a plain record; nothing mutates it
// after construction.
type Table struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field  `json:"fields" yaml:"fields"`
	PrimaryKey  string   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Indexes     []string `json:"indexes,omitempty" yaml:"indexes,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the field with the given name.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasField reports whether the table declares a field with the given name.
func (t Table) HasField(name string) bool {
	_, ok := t.Field(name)
	return ok
}

// FieldNames returns every field name in declaration order.
func (t Table) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return names
}

// ForeignKeys returns every outbound reference in declaration order.
func (t Table) ForeignKeys() []ForeignKeyRef {
	var refs []ForeignKeyRef
	for _, f := range t.Fields {
		if parent, field, ok := f.References(); ok {
			refs = append(refs, ForeignKeyRef{
				FieldName: f.Name,
				RefTable:  parent,
				RefField:  field,
			})
		}
	}
	return refs
}

// WithField returns a copy of the table with one more field appended.
// The receiver is left untouched.
func (t Table) WithField(f Field) Table {
	fields := make([]Field, len(t.Fields), len(t.Fields)+1)
	copy(fields, t.Fields)
	t.Fields = append(fields, f)
	return t
}
