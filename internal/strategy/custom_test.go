package strategy

import (
	"testing"
)

func TestCustomFunctionExpression(t *testing.T) {
	s := mustCreate(t, "custom_function", map[string]interface{}{
		"expression": "row_index * 2",
	})
	ctx := testCtx(1)
	ctx.RowIndex = 21
	got, err := s.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != int64(42) {
		t.Errorf("expected 42, got %v (%T)", got, got)
	}
}

func TestCustomFunctionReadsRow(t *testing.T) {
	s := mustCreate(t, "custom_function", map[string]interface{}{
		"expression": `row["balance"] * 2.0`,
	})
	ctx := testCtx(1)
	ctx.Row["balance"] = 150.5
	got, err := s.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 301.0 {
		t.Errorf("expected 301.0, got %v", got)
	}
}

func TestCustomFunctionTernary(t *testing.T) {
	s := mustCreate(t, "custom_function", map[string]interface{}{
		"expression": `row_index % 2 == 0 ? "even" : "odd"`,
	})
	ctx := testCtx(1)
	ctx.RowIndex = 3
	if got, _ := s.Generate(ctx); got != "odd" {
		t.Errorf("expected odd, got %v", got)
	}
	ctx.RowIndex = 4
	if got, _ := s.Generate(ctx); got != "even" {
		t.Errorf("expected even, got %v", got)
	}
}

func TestCustomFunctionCompileError(t *testing.T) {
	_, err := NewRegistry().Create("custom_function", map[string]interface{}{
		"expression": "row_index +",
	})
	if err == nil {
		t.Fatal("expected compile error")
	}
}

func TestCustomFunctionUndeclaredVariable(t *testing.T) {
	_, err := NewRegistry().Create("custom_function", map[string]interface{}{
		"expression": "os_getenv('HOME')",
	})
	if err == nil {
		t.Fatal("expected unknown function to fail at compile time")
	}
}

func TestCustomFunctionNamedCallable(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunction("row_tag", func(ctx *Context) (interface{}, error) {
		return ctx.RowIndex * 10, nil
	})
	s, err := reg.Create("custom_function", map[string]interface{}{
		"function": "row_tag",
	})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	ctx := testCtx(1)
	ctx.RowIndex = 7
	got, err := s.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 70 {
		t.Errorf("expected 70, got %v", got)
	}
}

func TestCustomFunctionUnknownCallable(t *testing.T) {
	_, err := NewRegistry().Create("custom_function", map[string]interface{}{
		"function": "ghost",
	})
	if err == nil {
		t.Fatal("expected error for unregistered function")
	}
}

func TestCustomFunctionConfigExclusivity(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Create("custom_function", nil); err == nil {
		t.Error("expected error when neither expression nor function given")
	}
	reg.RegisterFunction("f", func(ctx *Context) (interface{}, error) { return 1, nil })
	_, err := reg.Create("custom_function", map[string]interface{}{
		"expression": "1", "function": "f",
	})
	if err == nil {
		t.Error("expected error when both expression and function given")
	}
}
