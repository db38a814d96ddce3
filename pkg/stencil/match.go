package stencil

import "strings"

// Delimiters recognized by the classifier
const (
	VariableOpen  = "{{"
	VariableClose = "}}"
	TagOpen       = "{%"
	TagClose      = "%}"
)

// ContainsSymbol reports whether symbol occurs anywhere in text
func ContainsSymbol(text, symbol string) bool {
	return strings.Contains(text, symbol)
}

// ContainsPair reports whether both symbols occur in text.
// Order and adjacency are not checked.
func ContainsPair(text, symbol1, symbol2 string) bool {
	return strings.Contains(text, symbol1) && strings.Contains(text, symbol2)
}
