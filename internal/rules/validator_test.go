package rules

import (
	"strings"
	"testing"

	"github.com/Rana718/Forge/internal/metadata"
)

func validatorTable() metadata.Table {
	return metadata.Table{
		Name: "customer",
		Fields: []metadata.Field{
			{Name: "customer_id", Type: metadata.TypeID, Required: true, Unique: true},
			{Name: "age", Type: metadata.TypeInteger, MinValue: metadata.Float(0), MaxValue: metadata.Float(150)},
			{Name: "email", Type: metadata.TypeEmail, Pattern: `^[a-z0-9]+@[a-z0-9.]+$`},
		},
		PrimaryKey: "customer_id",
	}
}

func TestValidatorDerivesRulesFromTable(t *testing.T) {
	v, err := NewValidator(validatorTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := []map[string]interface{}{
		{"customer_id": "C1", "age": 30, "email": "a@qq.com"},
		{"customer_id": nil, "age": 31, "email": "b@qq.com"},
		{"customer_id": "C1", "age": 32, "email": "c@qq.com"},
		{"customer_id": "C4", "age": 200, "email": "d@qq.com"},
		{"customer_id": "C5", "age": 33, "email": "BAD EMAIL"},
	}
	report := v.Validate(rows)

	if report.TotalRows != 5 {
		t.Errorf("expected 5 total rows, got %d", report.TotalRows)
	}
	// Rows 1 (missing id), 2 (duplicate id), 3 (age out of range)
	// and 4 (bad email) each carry an error.
	if report.ValidRows != 1 {
		t.Errorf("expected 1 valid row, got %d", report.ValidRows)
	}
	if report.ErrorCount != 4 {
		t.Errorf("expected 4 errors, got %d: %v", report.ErrorCount, report.Violations)
	}
	if report.OK() {
		t.Error("report with errors must not be OK")
	}
}

func TestValidatorCleanData(t *testing.T) {
	v, err := NewValidator(validatorTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := []map[string]interface{}{
		{"customer_id": "C1", "age": 30, "email": "a@qq.com"},
		{"customer_id": "C2", "age": 45, "email": "b@163.com"},
	}
	report := v.Validate(rows)
	if !report.OK() || report.ValidRows != 2 || len(report.Violations) != 0 {
		t.Fatalf("clean data flagged: %+v", report)
	}
}

func TestValidatorWarningsDoNotInvalidateRows(t *testing.T) {
	v, err := NewValidator(validatorTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.AddRule(NewDistributionRule("age", 500, 1, 0.1))

	rows := []map[string]interface{}{
		{"customer_id": "C1", "age": 30, "email": "a@qq.com"},
		{"customer_id": "C2", "age": 40, "email": "b@qq.com"},
	}
	report := v.Validate(rows)
	if report.WarningCount == 0 {
		t.Fatal("expected a distribution warning")
	}
	if report.ValidRows != 2 {
		t.Errorf("warnings must not reduce valid rows, got %d", report.ValidRows)
	}
	if !report.OK() {
		t.Error("warnings alone must leave the report OK")
	}
}

func TestValidatorRejectsBadFieldPattern(t *testing.T) {
	table := metadata.Table{
		Name: "t",
		Fields: []metadata.Field{
			{Name: "f", Type: metadata.TypeString, Pattern: "(unclosed"},
		},
	}
	if _, err := NewValidator(table); err == nil {
		t.Fatal("expected error for invalid field pattern")
	}
}

func TestValidatorMultipleErrorsOnOneRowCountOnce(t *testing.T) {
	v, err := NewValidator(validatorTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := []map[string]interface{}{
		{"customer_id": "C1", "age": 30, "email": "a@qq.com"},
		{"customer_id": nil, "age": 999, "email": "NOPE"},
	}
	report := v.Validate(rows)
	if report.ErrorCount != 3 {
		t.Errorf("expected 3 errors, got %d", report.ErrorCount)
	}
	if report.ValidRows != 1 {
		t.Errorf("one bad row however many errors, got %d valid", report.ValidRows)
	}
}

func TestReportSummary(t *testing.T) {
	v, err := NewValidator(validatorTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows := []map[string]interface{}{
		{"customer_id": "C1", "age": 300, "email": "a@qq.com"},
		{"customer_id": "C2", "age": 40, "email": "b@qq.com"},
	}
	report := v.Validate(rows)
	s := report.Summary()
	if !strings.Contains(s, "1/2 rows valid") {
		t.Errorf("summary should report valid rows: %s", s)
	}
	if !strings.Contains(s, "1 error(s)") {
		t.Errorf("summary should count errors: %s", s)
	}
}
