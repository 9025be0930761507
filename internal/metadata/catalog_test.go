package metadata

import (
	"errors"
	"path/filepath"
	"testing"
)

func customerTable() Table {
	return Table{
		Name:       "customer",
		PrimaryKey: "customer_id",
		Fields: []Field{
			{Name: "customer_id", Type: TypeID, Required: true, Unique: true},
			{Name: "name", Type: TypeString, Required: true, MinLength: 2, MaxLength: 4},
			{Name: "age", Type: TypeInteger, MinValue: Float(18), MaxValue: Float(65)},
		},
		Indexes: []string{"name"},
	}
}

func accountTable() Table {
	return Table{
		Name:       "account",
		PrimaryKey: "account_id",
		Fields: []Field{
			{Name: "account_id", Type: TypeID, Required: true, Unique: true},
			{Name: "customer_id", Type: TypeID, Required: true, RefTable: "customer", RefField: "customer_id"},
			{Name: "balance", Type: TypeAmount, MinValue: Float(0), Precision: Int(2)},
		},
	}
}

func TestFieldReferencesDefaultsToID(t *testing.T) {
	f := Field{Name: "owner_id", Type: TypeID, RefTable: "customer"}
	table, field, ok := f.References()
	if !ok {
		t.Fatal("expected field to be a foreign key")
	}
	if table != "customer" || field != "id" {
		t.Errorf("expected customer.id, got %s.%s", table, field)
	}
}

func TestTableFieldLookup(t *testing.T) {
	tbl := customerTable()
	f, ok := tbl.Field("age")
	if !ok {
		t.Fatal("expected to find field 'age'")
	}
	if f.Type != TypeInteger {
		t.Errorf("expected integer type, got %s", f.Type)
	}
	if tbl.HasField("missing") {
		t.Error("did not expect field 'missing'")
	}
	names := tbl.FieldNames()
	if len(names) != 3 || names[0] != "customer_id" {
		t.Errorf("unexpected field names: %v", names)
	}
}

func TestTableForeignKeys(t *testing.T) {
	refs := accountTable().ForeignKeys()
	if len(refs) != 1 {
		t.Fatalf("expected 1 foreign key, got %d", len(refs))
	}
	if refs[0].FieldName != "customer_id" || refs[0].RefTable != "customer" || refs[0].RefField != "customer_id" {
		t.Errorf("unexpected foreign key: %+v", refs[0])
	}
}

func TestWithFieldLeavesOriginalUntouched(t *testing.T) {
	tbl := customerTable()
	grown := tbl.WithField(Field{Name: "email", Type: TypeEmail})
	if len(tbl.Fields) != 3 {
		t.Errorf("original table mutated, now has %d fields", len(tbl.Fields))
	}
	if len(grown.Fields) != 4 {
		t.Errorf("expected 4 fields after WithField, got %d", len(grown.Fields))
	}
}

func TestCatalogValidateOK(t *testing.T) {
	c := NewCatalog()
	c.Add(customerTable())
	c.Add(accountTable())
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid catalog, got %v", err)
	}
}

func TestCatalogValidateCollectsAllProblems(t *testing.T) {
	c := NewCatalog()
	c.Add(Table{
		Name:       "orders",
		PrimaryKey: "missing_pk",
		Fields: []Field{
			{Name: "id", Type: TypeID},
			{Name: "id", Type: TypeID},
			{Name: "status", Type: TypeEnum},
			{Name: "customer_id", Type: TypeID, RefTable: "customer"},
		},
		Indexes: []string{"nope"},
	})

	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	var refErr *SchemaReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected SchemaReferenceError, got %T", err)
	}
	// duplicate field, empty enum, dangling reference, bad pk, bad index
	if len(refErr.Problems) != 5 {
		t.Errorf("expected 5 problems, got %d: %v", len(refErr.Problems), refErr.Problems)
	}
}

func TestCatalogValidateBadRefField(t *testing.T) {
	c := NewCatalog()
	c.Add(customerTable())
	c.Add(Table{
		Name: "account",
		Fields: []Field{
			{Name: "customer_id", Type: TypeID, RefTable: "customer", RefField: "not_there"},
		},
	})
	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	var refErr *SchemaReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected SchemaReferenceError, got %T", err)
	}
	if len(refErr.Problems) != 1 {
		t.Errorf("expected 1 problem, got %d", len(refErr.Problems))
	}
}

func TestCatalogRoundTripYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")

	c := NewCatalog()
	c.Add(customerTable())
	c.Add(accountTable())
	if err := c.SaveFile(path); err != nil {
		t.Fatalf("failed to save catalog: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 tables, got %d", loaded.Len())
	}
	cust, ok := loaded.Get("customer")
	if !ok {
		t.Fatal("expected customer table after round trip")
	}
	age, ok := cust.Field("age")
	if !ok {
		t.Fatal("expected age field after round trip")
	}
	if age.MinValue == nil || *age.MinValue != 18 {
		t.Errorf("expected min_value 18, got %v", age.MinValue)
	}
	if age.MaxValue == nil || *age.MaxValue != 65 {
		t.Errorf("expected max_value 65, got %v", age.MaxValue)
	}
}

func TestCatalogRoundTripJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")

	c := NewCatalog()
	c.Add(accountTable())
	if err := c.SaveFile(path); err != nil {
		t.Fatalf("failed to save catalog: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	acct, ok := loaded.Get("account")
	if !ok {
		t.Fatal("expected account table after round trip")
	}
	bal, ok := acct.Field("balance")
	if !ok {
		t.Fatal("expected balance field after round trip")
	}
	if bal.Precision == nil || *bal.Precision != 2 {
		t.Errorf("expected precision 2, got %v", bal.Precision)
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	if _, err := LoadFile("schema.toml"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
