package stencil

import "go.uber.org/zap"

// ExtractExpression splits a line around its {{variable}} placeholder.
//
// The first '{' must open a "{{" and the first '}' must open a "}}", otherwise
// ErrMissingDelimiter is returned. A closing brace found before the opening
// one yields ErrOutOfRangeSlice. On success head and tail are always set, even
// when empty. The variable name is taken verbatim, surrounding spaces included.
func ExtractExpression(line string) (ExpressionData, error) {
	opening, found := LocateSymbol(line, '{')
	if !found || !hasPrefixAt(line, opening, VariableOpen) {
		return ExpressionData{}, NewExpressionError(line, opening, ErrMissingDelimiter)
	}

	closing, found := LocateSymbol(line, '}')
	if !found || !hasPrefixAt(line, closing, VariableClose) {
		return ExpressionData{}, NewExpressionError(line, closing, ErrMissingDelimiter)
	}

	start := opening + len(VariableOpen)
	end := closing + len(VariableClose)
	if closing < start || end > len(line) {
		return ExpressionData{}, NewExpressionError(line, closing, ErrOutOfRangeSlice)
	}

	expr := NewExpressionData(line[:opening], line[start:closing], line[end:])

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.Debug("Extracted expression",
			zap.String("head", expr.HeadText()),
			zap.String("variable", expr.Variable),
			zap.String("tail", expr.TailText()))
	}

	return expr, nil
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	return pos+len(prefix) <= len(s) && s[pos:pos+len(prefix)] == prefix
}
