package stencil

// LocateSymbol finds the first occurrence of symbol in text.
//
// The text is scanned rune by rune, so multi-byte characters are never split.
// When found, pos is the byte offset where the symbol starts and can be used
// directly as a slice boundary. When not found, pos is 0 and must not be used.
func LocateSymbol(text string, symbol rune) (pos int, found bool) {
	for i, r := range text {
		if r == symbol {
			return i, true
		}
	}
	return 0, false
}
