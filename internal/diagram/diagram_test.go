package diagram

import (
	"strings"
	"testing"

	"github.com/Rana718/Forge/internal/metadata"
)

func fixtureTables() []metadata.Table {
	customer := metadata.Table{
		Name:        "customer",
		Description: "客户信息表",
		PrimaryKey:  "customer_id",
		Fields: []metadata.Field{
			{Name: "customer_id", Type: metadata.TypeID, Required: true, Unique: true},
			{Name: "name", Type: metadata.TypeString, Required: true},
			{Name: "email", Type: metadata.TypeEmail},
		},
	}
	account := metadata.Table{
		Name:        "account",
		Description: "账户信息表",
		PrimaryKey:  "account_id",
		Fields: []metadata.Field{
			{Name: "account_id", Type: metadata.TypeID, Required: true, Unique: true},
			{Name: "customer_id", Type: metadata.TypeID, Required: true, RefTable: "customer", RefField: "customer_id"},
			{Name: "balance", Type: metadata.TypeAmount, Required: true},
		},
	}
	return []metadata.Table{customer, account}
}

func TestDOTFormatter(t *testing.T) {
	var b strings.Builder
	if err := NewDOTFormatter(&b, DefaultOptions()).Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"digraph ER {",
		"rankdir=LR;",
		`node [shape=record, fontname="Arial"];`,
		"// Table: account",
		"// Table: customer",
		"🔑 customer_id: id *",
		"🔗 customer_id: id *",
		"balance: amount *",
		`account -> customer [label="customer_id", arrowhead=crow];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q\n%s", want, out)
		}
	}

	// Nodes come out sorted by table name.
	if strings.Index(out, "// Table: account") > strings.Index(out, "// Table: customer") {
		t.Error("tables should be emitted in name order")
	}
}

func TestDOTFormatterOptionsOff(t *testing.T) {
	var b strings.Builder
	opts := Options{ShowFields: false, ShowFieldTypes: false, HighlightKeys: false}
	if err := NewDOTFormatter(&b, opts).Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	if strings.Contains(out, "🔑") || strings.Contains(out, "🔗") {
		t.Error("key markers should be off")
	}
	if strings.Contains(out, "balance") {
		t.Error("field lines should be off")
	}
	if !strings.Contains(out, "表名: customer") {
		t.Error("table header should remain")
	}
}

func TestMermaidFormatter(t *testing.T) {
	var b strings.Builder
	if err := NewMermaidFormatter(&b, DefaultOptions()).Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"erDiagram",
		"  customer {",
		"    id customer_id PK",
		"    email email",
		"  account {",
		"    id customer_id FK",
		"    id account_id PK",
		`  customer ||--o{ account : "customer_id"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid output missing %q\n%s", want, out)
		}
	}
}

func TestMermaidFormatterTypesOff(t *testing.T) {
	var b strings.Builder
	opts := Options{ShowFields: true, ShowFieldTypes: false, HighlightKeys: true}
	if err := NewMermaidFormatter(&b, opts).Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(b.String(), "string balance") {
		t.Errorf("all fields should fall back to string:\n%s", b.String())
	}
}

func TestPlantUMLFormatter(t *testing.T) {
	var b strings.Builder
	if err := NewPlantUMLFormatter(&b, DefaultOptions()).Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"@startuml",
		"skinparam linetype ortho",
		"entity customer {",
		"  * customer_id : VARCHAR <<PK>>",
		"  * customer_id : VARCHAR <<FK>>",
		"  * balance : DECIMAL",
		"    email : VARCHAR",
		"customer ||--o{ account",
		"@enduml",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PlantUML output missing %q\n%s", want, out)
		}
	}

	// The primary key line leads its entity block; it must not repeat below.
	if strings.Count(out, "account_id") != 1 {
		t.Errorf("primary key should be listed once per entity:\n%s", out)
	}
}

func TestDependencyFormatterMermaid(t *testing.T) {
	var b strings.Builder
	if err := NewDependencyFormatter(&b, "mermaid").Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"graph LR",
		`  account["account"]`,
		`  customer["customer"]`,
		"  account -->|customer_id| customer",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dependency output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "balance") {
		t.Error("dependency diagram must not list fields")
	}
}

func TestDependencyFormatterDOT(t *testing.T) {
	var b strings.Builder
	if err := NewDependencyFormatter(&b, "dot").Format(fixtureTables()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"digraph Dependencies {",
		"node [shape=box, style=rounded];",
		`  account -> customer [label="customer_id"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dependency output missing %q\n%s", want, out)
		}
	}
}

func TestDependencyFormatterUnknownFormat(t *testing.T) {
	var b strings.Builder
	err := NewDependencyFormatter(&b, "svg").Format(fixtureTables())
	if err == nil || !strings.Contains(err.Error(), "svg") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	var b strings.Builder
	tables := []metadata.Table{
		{Name: "order-item", Fields: []metadata.Field{
			{Name: "order_id", Type: metadata.TypeID, Required: true, RefTable: "order", RefField: "order_id"},
		}},
		{Name: "order", PrimaryKey: "order_id", Fields: []metadata.Field{
			{Name: "order_id", Type: metadata.TypeID, Required: true, Unique: true},
		}},
	}
	if err := NewDependencyFormatter(&b, "dot").Format(tables); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(b.String(), "order_item -> order") {
		t.Errorf("dashed names should be sanitized for DOT:\n%s", b.String())
	}
}
