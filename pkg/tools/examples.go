package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// EchoInput is the input type for the echo tool (spec.md §8 scenario S3).
type EchoInput struct {
	Message string `json:"message" jsonschema:"description=Text to echo back,required"`
}

// EchoTool builds the reference "echo" tool: it returns exactly one text
// content item, "Echo: "+message.
func EchoTool() (Tool, error) {
	return NewTool[EchoInput]("echo").
		Description("Echoes the provided message back, prefixed with 'Echo: '").
		Handler(func(_ context.Context, _ handler.State, in EchoInput) ([]protocol.Content, error) {
			return []protocol.Content{protocol.TextContent("Echo: " + in.Message)}, nil
		}).
		Build()
}

// CalculatorInput is the input type for the calculator tool, adapted from
// the teacher's pkg/tools/calculator.go into the typed-handler shape.
type CalculatorInput struct {
	Expression string `json:"expression" jsonschema:"description=An arithmetic expression such as '2 + 2' or '4 * 6',required"`
}

// CalculatorTool evaluates simple two-operand arithmetic expressions.
func CalculatorTool() (Tool, error) {
	return NewTool[CalculatorInput]("calculator").
		Description("Evaluates a simple arithmetic expression of the form 'number operator number'").
		Handler(func(_ context.Context, _ handler.State, in CalculatorInput) ([]protocol.Content, error) {
			result, err := evaluate(in.Expression)
			if err != nil {
				return nil, NewToolError("%v", err)
			}
			return []protocol.Content{protocol.TextContent(fmt.Sprintf("%s = %g", in.Expression, result))}, nil
		}).
		Build()
}

func evaluate(expression string) (float64, error) {
	parts := strings.Fields(strings.TrimSpace(expression))
	if len(parts) != 3 {
		return 0, fmt.Errorf("expression must be in the form 'number operator number'")
	}
	a, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid first operand: %w", err)
	}
	b, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid second operand: %w", err)
	}
	switch parts[1] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*", "x":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported operator: %s", parts[1])
	}
}
