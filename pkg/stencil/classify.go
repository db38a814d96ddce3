package stencil

import "go.uber.org/zap"

// Classify assigns a single template line to exactly one content category.
//
// Lines whose placeholder cannot be split are reported as Unrecognized; use
// ClassifyLine to get the underlying extraction error instead.
func Classify(line string) ContentType {
	content, err := ClassifyLine(line)
	if err != nil {
		logger := GetLogger()
		if logger.IsDebugMode() {
			logger.Debug("Placeholder could not be extracted", zap.String("line", line), zap.Error(err))
		}
		return Unrecognized()
	}
	return content
}

// ClassifyLine assigns a single template line to exactly one content category.
//
// The checks are plain substring tests evaluated in a fixed order, so
// overlapping lines resolve as follows: a tag line mentioning "for" wins over
// "if", and any tag line matching neither keyword falls through to the
// variable check. Only lines without any delimiter pair are Literal.
//
// An error is returned only when the line has both variable delimiters but
// its placeholder is malformed.
func ClassifyLine(line string) (ContentType, error) {
	isTag := ContainsPair(line, TagOpen, TagClose)
	isFor := (ContainsSymbol(line, "for") && ContainsSymbol(line, "in")) || ContainsSymbol(line, "endfor")
	isIf := ContainsSymbol(line, "if") || ContainsSymbol(line, "endif")
	isVar := ContainsPair(line, VariableOpen, VariableClose)

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.Debug("Classifying line",
			zap.String("line", line),
			zap.Bool("tag", isTag),
			zap.Bool("for", isFor),
			zap.Bool("if", isIf),
			zap.Bool("variable", isVar))
	}

	switch {
	case isTag && isFor:
		return Tag(ForTag), nil
	case isTag && isIf:
		return Tag(IfTag), nil
	case isVar:
		expr, err := ExtractExpression(line)
		if err != nil {
			return Unrecognized(), err
		}
		return TemplateVariable(expr), nil
	case !isTag && !isVar:
		return Literal(line), nil
	default:
		return Unrecognized(), nil
	}
}
