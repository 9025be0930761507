package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Rana718/Forge/internal/graph"
	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/progress"
)

func customerTable() metadata.Table {
	return metadata.Table{
		Name: "customer",
		Fields: []metadata.Field{
			{Name: "customer_id", Type: metadata.TypeID, Required: true, Unique: true, Length: 12},
			{Name: "name", Type: metadata.TypeString, Required: true, MinLength: 2, MaxLength: 4},
			{Name: "age", Type: metadata.TypeInteger, Required: true, MinValue: metadata.Float(18), MaxValue: metadata.Float(80)},
		},
		PrimaryKey: "customer_id",
	}
}

func accountTable() metadata.Table {
	return metadata.Table{
		Name: "account",
		Fields: []metadata.Field{
			{Name: "account_id", Type: metadata.TypeID, Required: true, Unique: true, Length: 12},
			{Name: "customer_id", Type: metadata.TypeID, Required: true, RefTable: "customer", RefField: "customer_id"},
			{Name: "balance", Type: metadata.TypeAmount, Required: true, MinValue: metadata.Float(0), MaxValue: metadata.Float(100000)},
		},
		PrimaryKey: "account_id",
	}
}

func TestGenerateDataWithValidation(t *testing.T) {
	e := New(42)
	e.RegisterTable(customerTable())

	rows, report, err := e.GenerateData(context.Background(), "customer", 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	if report == nil {
		t.Fatal("expected a validation report")
	}
	if !report.OK() {
		t.Errorf("generated data should satisfy its own constraints: %+v", report.Violations)
	}
	if report.TotalRows != 10 || report.ValidRows != 10 {
		t.Errorf("unexpected report counts: %+v", report)
	}
}

func TestGenerateDataWithoutValidation(t *testing.T) {
	e := New(42)
	e.RegisterTable(customerTable())

	rows, report, err := e.GenerateData(context.Background(), "customer", 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if report != nil {
		t.Error("expected no report when validation is off")
	}
}

func TestGenerateDataUnknownTable(t *testing.T) {
	e := New(1)
	if _, _, err := e.GenerateData(context.Background(), "ghost", 3, false); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestGenerateWithRelationsContainsForeignKeys(t *testing.T) {
	e := New(7)
	e.RegisterTable(customerTable())
	e.RegisterTable(accountTable())

	ids := []interface{}{"C1", "C2", "C3", "C4", "C5"}
	rows, _, err := e.GenerateWithRelations(context.Background(), "account", 10,
		map[string][]interface{}{"customer": ids}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	allowed := map[interface{}]bool{}
	for _, id := range ids {
		allowed[id] = true
	}
	for i, row := range rows {
		if !allowed[row["customer_id"]] {
			t.Errorf("row %d: foreign key %v not drawn from parent ids", i, row["customer_id"])
		}
	}
}

func TestGeneratePlanFeedsChildrenFromParents(t *testing.T) {
	e := New(11)
	e.RegisterTable(customerTable())
	e.RegisterTable(accountTable())

	result, err := e.GeneratePlan(context.Background(), map[string]int{"customer": 5, "account": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	customers := result["customer"]
	accounts := result["account"]
	if len(customers) != 5 || len(accounts) != 10 {
		t.Fatalf("expected 5 customers and 10 accounts, got %d and %d", len(customers), len(accounts))
	}

	parentIDs := map[interface{}]bool{}
	for _, row := range customers {
		parentIDs[row["customer_id"]] = true
	}
	if len(parentIDs) != 5 {
		t.Fatalf("expected 5 distinct customer ids, got %d", len(parentIDs))
	}
	for i, row := range accounts {
		if !parentIDs[row["customer_id"]] {
			t.Errorf("account %d references unknown customer %v", i, row["customer_id"])
		}
	}
}

func TestGeneratePlanUnknownTable(t *testing.T) {
	e := New(1)
	e.RegisterTable(customerTable())
	if _, err := e.GeneratePlan(context.Background(), map[string]int{"ghost": 3}); err == nil {
		t.Fatal("expected error for unknown table in plan")
	}
}

func TestGeneratePlanCycleFails(t *testing.T) {
	e := New(1)
	e.RegisterTable(metadata.Table{
		Name: "a",
		Fields: []metadata.Field{
			{Name: "id", Type: metadata.TypeID, Required: true},
			{Name: "b_id", Type: metadata.TypeID, RefTable: "b", RefField: "id"},
		},
		PrimaryKey: "id",
	})
	e.RegisterTable(metadata.Table{
		Name: "b",
		Fields: []metadata.Field{
			{Name: "id", Type: metadata.TypeID, Required: true},
			{Name: "a_id", Type: metadata.TypeID, RefTable: "a", RefField: "id"},
		},
		PrimaryKey: "id",
	})

	_, err := e.GeneratePlan(context.Background(), map[string]int{"a": 1, "b": 1})
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cycleErr *graph.CyclicDependencyError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}
}

func TestGeneratePlanSkippedParentFallsBack(t *testing.T) {
	e := New(3)
	e.RegisterTable(customerTable())
	e.RegisterTable(accountTable())

	result, err := e.GeneratePlan(context.Background(), map[string]int{"account": 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range result["account"] {
		if row["customer_id"] == nil {
			t.Errorf("row %d: required foreign key missing after fallback", i)
		}
	}
}

func TestGenerateDataCancelled(t *testing.T) {
	e := New(5)
	e.RegisterTable(customerTable())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.GenerateData(ctx, "customer", 100, false)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !strings.Contains(err.Error(), "cancelled") {
		t.Errorf("unexpected error: %v", err)
	}
	if !e.Monitor().Cancelled() {
		t.Error("monitor should record the cancellation")
	}
}

func TestChunkedProgressEvents(t *testing.T) {
	e := New(9)
	e.RegisterTable(customerTable())
	e.SetChunkSize(3)

	batches := 0
	e.Monitor().AddCallback(func(ev progress.Event) {
		if ev.Type == progress.EventBatchCompleted {
			batches++
		}
	})

	if _, _, err := e.GenerateData(context.Background(), "customer", 10, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batches != 4 {
		t.Errorf("expected 4 chunks for 10 rows at size 3, got %d", batches)
	}
	if s := e.Monitor().Snapshot(); s.Completed != 10 {
		t.Errorf("expected 10 completed, got %d", s.Completed)
	}
}

func TestGenerateIncrementalContinuesSequence(t *testing.T) {
	e := New(21)
	e.RegisterTable(customerTable())

	existing := []map[string]interface{}{
		{"customer_id": "CUST001", "name": "王伟", "age": 30},
		{"customer_id": "CUST002", "name": "李娜", "age": 41},
		{"customer_id": "CUST003", "name": "张强", "age": 55},
	}
	rows, _, err := e.GenerateIncrementalData(context.Background(), "customer", existing, 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["customer_id"] != "CUST004" || rows[1]["customer_id"] != "CUST005" {
		t.Errorf("identifier sequence not continued: %v, %v", rows[0]["customer_id"], rows[1]["customer_id"])
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	gen := func() []map[string]interface{} {
		e := New(777)
		e.RegisterTable(customerTable())
		rows, _, err := e.GenerateData(context.Background(), "customer", 20, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return rows
	}
	if !reflect.DeepEqual(gen(), gen()) {
		t.Error("same seed and call sequence must reproduce the same rows")
	}
}

func TestRegisterTableReplacesGenerator(t *testing.T) {
	e := New(2)
	e.RegisterTable(customerTable())
	if _, _, err := e.GenerateData(context.Background(), "customer", 1, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	replacement := metadata.Table{
		Name: "customer",
		Fields: []metadata.Field{
			{Name: "customer_id", Type: metadata.TypeID, Required: true},
			{Name: "city", Type: metadata.TypeString, Required: true},
		},
		PrimaryKey: "customer_id",
	}
	e.RegisterTable(replacement)

	rows, _, err := e.GenerateData(context.Background(), "customer", 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rows[0]["city"]; !ok {
		t.Error("replacement definition not picked up")
	}
	if _, ok := rows[0]["name"]; ok {
		t.Error("stale definition still generating")
	}
}

func TestValidatorUnknownTable(t *testing.T) {
	e := New(1)
	if _, err := e.Validator("ghost"); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	e := New(1)
	if err := e.LoadCatalog("/nonexistent/catalog.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMonitorLifecycleAcrossPlan(t *testing.T) {
	e := New(13)
	e.RegisterTable(customerTable())
	e.RegisterTable(accountTable())

	var types []progress.EventType
	e.Monitor().AddCallback(func(ev progress.Event) {
		types = append(types, ev.Type)
	})

	if _, err := e.GeneratePlan(context.Background(), map[string]int{"customer": 2, "account": 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if types[0] != progress.EventStarted {
		t.Errorf("plan should start the monitor, got %s first", types[0])
	}
	if types[len(types)-1] != progress.EventCompleted {
		t.Errorf("plan should complete the monitor, got %s last", types[len(types)-1])
	}
	tables := 0
	for _, ty := range types {
		if ty == progress.EventTableCompleted {
			tables++
		}
	}
	if tables != 2 {
		t.Errorf("expected 2 table completions, got %d", tables)
	}
}
