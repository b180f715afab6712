package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// CalculatorArgs are the arguments of the calculator tool.
type CalculatorArgs struct {
	Expression string `json:"expression" jsonschema:"required,description=Arithmetic expression to evaluate such as (3 + 4) * 2 or 2 ** 10"`
}

// Calculator returns the calculator tool. Expressions are evaluated
// without access to any variables or functions beyond the expression
// language builtins.
func Calculator() Registration {
	return Func("calculator", "Evaluate a mathematical expression",
		func(ctx context.Context, args CalculatorArgs) (string, error) {
			return Calculate(args.Expression)
		})
}

// Calculate evaluates an arithmetic expression and formats the result.
func Calculate(expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", fmt.Errorf("calculation error: empty expression")
	}
	program, err := expr.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("calculation error: %w", err)
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return "", fmt.Errorf("calculation error: %w", err)
	}
	return fmt.Sprint(out), nil
}
