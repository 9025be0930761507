package strategy

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// CustomFunction evaluates either a CEL expression compiled once at
// configuration time, or a named callable registered on the registry. The
// expression sees only the declared variables below; there is no general
// code-execution path.
type CustomFunction struct {
	expression string
	program    cel.Program
	fnName     string
	fn         Callable
}

func newCustomFunction(params map[string]interface{}, registry *Registry) (Strategy, error) {
	expression := strParam(params, "expression", "")
	fnName := strParam(params, "function", "")

	switch {
	case expression != "" && fnName != "":
		return nil, fmt.Errorf("takes either expression or function, not both")
	case expression == "" && fnName == "":
		return nil, fmt.Errorf("requires an expression or a function name")
	}

	if fnName != "" {
		fn, ok := registry.functions[fnName]
		if !ok {
			return nil, fmt.Errorf("unknown custom function '%s'", fnName)
		}
		return &CustomFunction{fnName: fnName, fn: fn}, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("row_index", cel.IntType),
		cel.Variable("total_rows", cel.IntType),
		cel.Variable("extra", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build expression environment: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to plan expression: %w", err)
	}
	return &CustomFunction{expression: expression, program: program}, nil
}

func (c *CustomFunction) Name() string { return "custom_function" }

func (c *CustomFunction) Generate(ctx *Context) (interface{}, error) {
	if c.fn != nil {
		out, err := c.fn(ctx)
		if err != nil {
			return nil, fmt.Errorf("custom function '%s' failed: %w", c.fnName, err)
		}
		return out, nil
	}

	row := ctx.Row
	if row == nil {
		row = map[string]interface{}{}
	}
	extra := ctx.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}
	out, _, err := c.program.Eval(map[string]interface{}{
		"row":        row,
		"row_index":  ctx.RowIndex,
		"total_rows": ctx.TotalRows,
		"extra":      extra,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression: %w", err)
	}
	if out == types.NullValue {
		return nil, nil
	}
	return out.Value(), nil
}

func (c *CustomFunction) Reset() {}
