package rules

import (
	"strings"
	"testing"

	"github.com/Rana718/Forge/internal/metadata"
)

func TestCompletenessFlagsNullAndBlank(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "x"},
		{"name": nil},
		{"name": ""},
	}
	vs := NewCompletenessRule("name").Validate(rows)
	if len(vs) != 2 {
		t.Fatalf("expected exactly 2 violations, got %d: %v", len(vs), vs)
	}
	if vs[0].Row != 1 || vs[1].Row != 2 {
		t.Errorf("expected rows 1 and 2, got %d and %d", vs[0].Row, vs[1].Row)
	}
	for _, v := range vs {
		if v.Severity != SeverityError {
			t.Errorf("expected error severity, got %s", v.Severity)
		}
	}
}

func TestUniquenessNamesFirstOccurrence(t *testing.T) {
	rows := []map[string]interface{}{
		{"code": "A"},
		{"code": "B"},
		{"code": "A"},
		{"code": "A"},
	}
	vs := NewUniquenessRule("code").Validate(rows)
	if len(vs) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(vs))
	}
	if vs[0].Row != 2 || vs[1].Row != 3 {
		t.Errorf("expected rows 2 and 3, got %d and %d", vs[0].Row, vs[1].Row)
	}
	if !strings.Contains(vs[0].Message, "row 0") {
		t.Errorf("message should name the first occurrence: %s", vs[0].Message)
	}
}

func TestUniquenessSkipsMissing(t *testing.T) {
	rows := []map[string]interface{}{
		{"code": nil},
		{"code": nil},
	}
	if vs := NewUniquenessRule("code").Validate(rows); len(vs) != 0 {
		t.Fatalf("missing values must not collide: %v", vs)
	}
}

func TestRangeFlagsOutOfBoundsAndUnparseable(t *testing.T) {
	rows := []map[string]interface{}{
		{"age": -5},
		{"age": 200},
		{"age": 50},
	}
	vs := NewRangeRule("age", metadata.Float(0), metadata.Float(150)).Validate(rows)
	if len(vs) != 2 {
		t.Fatalf("expected exactly 2 violations, got %d: %v", len(vs), vs)
	}
	if vs[0].Row != 0 || vs[1].Row != 1 {
		t.Errorf("expected rows 0 and 1, got %d and %d", vs[0].Row, vs[1].Row)
	}

	vs = NewRangeRule("age", metadata.Float(0), metadata.Float(150)).
		Validate([]map[string]interface{}{{"age": "abc"}})
	if len(vs) != 1 || !strings.Contains(vs[0].Message, "not numeric") {
		t.Errorf("unparseable value must violate: %v", vs)
	}
}

func TestRangeOpenBounds(t *testing.T) {
	rows := []map[string]interface{}{{"n": -1000000}}
	if vs := NewRangeRule("n", nil, metadata.Float(0)).Validate(rows); len(vs) != 0 {
		t.Errorf("open lower bound must admit any low value: %v", vs)
	}
}

func TestPatternNamedFormats(t *testing.T) {
	cases := []struct {
		format string
		good   string
		bad    string
	}{
		{"email", "user@163.com", "user@@163"},
		{"phone", "13812345678", "12812345678"},
		{"id_card", "110101199003074518", "12345"},
		{"ip", "192.168.1.1", "192.168.1"},
		{"url", "https://example.com/x", "example.com"},
		{"date", "2024-03-15", "2024/03/15"},
		{"time", "13:45:00", "25h"},
		{"datetime", "2024-03-15 13:45:00", "2024-03-15"},
	}
	for _, c := range cases {
		rule, err := NewFormatRule("f", c.format)
		if err != nil {
			t.Fatalf("%s: %v", c.format, err)
		}
		if vs := rule.Validate([]map[string]interface{}{{"f": c.good}}); len(vs) != 0 {
			t.Errorf("%s: %q should pass, got %v", c.format, c.good, vs)
		}
		if vs := rule.Validate([]map[string]interface{}{{"f": c.bad}}); len(vs) != 1 {
			t.Errorf("%s: %q should fail", c.format, c.bad)
		}
	}
}

func TestPatternUnknownFormat(t *testing.T) {
	if _, err := NewFormatRule("f", "zipcode"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPatternFullMatchOnly(t *testing.T) {
	rule, err := NewPatternRule("f", `[A-Z]{3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vs := rule.Validate([]map[string]interface{}{{"f": "xxABCxx"}}); len(vs) != 1 {
		t.Error("partial match must not satisfy the pattern")
	}
	if vs := rule.Validate([]map[string]interface{}{{"f": "ABC"}}); len(vs) != 0 {
		t.Errorf("full match flagged: %v", vs)
	}
}

func TestPatternRejectsBadRegex(t *testing.T) {
	if _, err := NewPatternRule("f", "(unclosed"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestEnumRule(t *testing.T) {
	rule := NewEnumRule("status", []string{"正常", "冻结"})
	rows := []map[string]interface{}{
		{"status": "正常"},
		{"status": "不明"},
		{"status": nil},
	}
	vs := rule.Validate(rows)
	if len(vs) != 1 || vs[0].Row != 1 {
		t.Fatalf("expected one violation at row 1, got %v", vs)
	}
}

func TestTemporalRule(t *testing.T) {
	rows := []map[string]interface{}{
		{"start": "2024-01-01", "end": "2024-06-01"},
		{"start": "2024-08-01", "end": "2024-06-01"},
		{"start": "garbage", "end": "2024-06-01"},
	}
	vs := NewTemporalRule("start", "end").Validate(rows)
	if len(vs) != 1 || vs[0].Row != 1 {
		t.Fatalf("expected one violation at row 1, got %v", vs)
	}
}

func TestLengthRuleCountsRunes(t *testing.T) {
	rule := NewLengthRule("name", 2, 4)
	rows := []map[string]interface{}{
		{"name": "王伟"},
		{"name": "欧阳娜娜子"},
		{"name": "张"},
	}
	vs := rule.Validate(rows)
	if len(vs) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(vs), vs)
	}
	if vs[0].Row != 1 || vs[1].Row != 2 {
		t.Errorf("expected rows 1 and 2, got %d and %d", vs[0].Row, vs[1].Row)
	}
}

func TestReferentialIntegrityRule(t *testing.T) {
	rule := NewReferentialIntegrityRule("customer_id", []interface{}{"C1", "C2"})
	rows := []map[string]interface{}{
		{"customer_id": "C1"},
		{"customer_id": "C9"},
		{"customer_id": nil},
	}
	vs := rule.Validate(rows)
	if len(vs) != 1 || vs[0].Row != 1 {
		t.Fatalf("expected one violation at row 1, got %v", vs)
	}
}

func TestConsistencyRule(t *testing.T) {
	rule := NewConsistencyRule("balance_sign", "balance must not be negative", func(row map[string]interface{}) bool {
		return row["balance"].(float64) >= 0
	})
	rows := []map[string]interface{}{
		{"balance": 10.0},
		{"balance": -3.0},
		{"balance": "broken"},
	}
	vs := rule.Validate(rows)
	if len(vs) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(vs), vs)
	}
	if vs[0].Row != 1 || vs[0].Message != "balance must not be negative" {
		t.Errorf("unexpected first violation: %+v", vs[0])
	}
	if vs[1].Row != 2 || !strings.Contains(vs[1].Message, "panicked") {
		t.Errorf("panic not recovered into a violation: %+v", vs[1])
	}
}

func TestDistributionRuleFlagsDrift(t *testing.T) {
	rows := []map[string]interface{}{
		{"v": 1.0}, {"v": 2.0}, {"v": 3.0}, {"v": 4.0}, {"v": 5.0},
	}
	// Sample stdev of 1..5 is sqrt(2.5).
	rule := NewDistributionRule("v", 10, 1.5811388300841898, 0.1)
	vs := rule.Validate(rows)
	if len(vs) != 1 {
		t.Fatalf("expected one violation for drifted mean, got %d: %v", len(vs), vs)
	}
	if vs[0].Row != -1 || vs[0].Severity != SeverityWarning {
		t.Errorf("expected dataset-level warning, got %+v", vs[0])
	}
}

func TestDistributionRuleWithinTolerance(t *testing.T) {
	rows := []map[string]interface{}{
		{"v": 9.0}, {"v": 10.0}, {"v": 11.0},
	}
	rule := NewDistributionRule("v", 10, 1, 0.2)
	if vs := rule.Validate(rows); len(vs) != 0 {
		t.Fatalf("expected no violations, got %v", vs)
	}
}

func TestDistributionRuleTinyDataset(t *testing.T) {
	rule := NewDistributionRule("v", 10, 1, 0.1)
	if vs := rule.Validate([]map[string]interface{}{{"v": 3.0}}); len(vs) != 0 {
		t.Fatalf("single row must not be judged: %v", vs)
	}
}

func TestCorrelationRule(t *testing.T) {
	rows := []map[string]interface{}{
		{"x": 1, "y": 2}, {"x": 2, "y": 4}, {"x": 3, "y": 6},
		{"x": 4, "y": 8}, {"x": 5, "y": 10},
	}

	positive, _ := NewCorrelationRule("x", "y", "positive")
	if vs := positive.Validate(rows); len(vs) != 0 {
		t.Errorf("perfect positive correlation flagged: %v", vs)
	}

	none, _ := NewCorrelationRule("x", "y", "none")
	vs := none.Validate(rows)
	if len(vs) != 1 || vs[0].Row != -1 {
		t.Fatalf("expected one dataset-level violation, got %v", vs)
	}

	negative, _ := NewCorrelationRule("x", "y", "negative")
	if vs := negative.Validate(rows); len(vs) != 1 {
		t.Errorf("positive data declared negative must flag: %v", vs)
	}
}

func TestCorrelationRuleRejectsUnknownDirection(t *testing.T) {
	if _, err := NewCorrelationRule("x", "y", "strong"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestCorrelationRuleConstantColumn(t *testing.T) {
	rows := []map[string]interface{}{
		{"x": 1, "y": 5}, {"x": 2, "y": 5},
	}
	rule, _ := NewCorrelationRule("x", "y", "positive")
	if vs := rule.Validate(rows); len(vs) != 0 {
		t.Fatalf("undefined correlation must not flag: %v", vs)
	}
}
