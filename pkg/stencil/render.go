package stencil

import (
	"strings"

	"go.uber.org/zap"
)

// RenderExpression substitutes the expression's variable from ctx and
// reassembles the line. A variable missing from ctx renders as nothing.
func RenderExpression(expr ExpressionData, ctx Context) string {
	var sb strings.Builder

	if expr.Head != nil {
		sb.WriteString(*expr.Head)
	}

	value, ok := ctx[expr.Variable]
	if ok {
		sb.WriteString(value)
	}

	if expr.Tail != nil {
		sb.WriteString(*expr.Tail)
	}

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.Debug("Rendered expression",
			zap.Stringer("expression", expr),
			zap.Bool("resolved", ok))
	}

	return sb.String()
}

// RenderLine classifies a single line and renders it with ctx.
//
// Literal lines come back unchanged and variable lines are substituted.
// Tag and unrecognized lines produce no output since control flow is not
// evaluated here. Malformed placeholders are reported as errors.
func RenderLine(line string, ctx Context) (string, error) {
	content, err := ClassifyLine(line)
	if err != nil {
		return "", err
	}

	switch content.Kind {
	case KindLiteral:
		return content.Text, nil
	case KindVariable:
		return RenderExpression(*content.Expression, ctx), nil
	default:
		return "", nil
	}
}
