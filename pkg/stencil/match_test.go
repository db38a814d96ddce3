package stencil

import "testing"

func TestContainsSymbol(t *testing.T) {
	tests := []struct {
		text   string
		symbol string
		want   bool
	}{
		{"{{hello}}", "{{", true},
		{"{{hello}}", "}}", true},
		{"hello", "{{", false},
		{"", "{{", false},
		{"anything", "", true},
	}

	for _, tt := range tests {
		if got := ContainsSymbol(tt.text, tt.symbol); got != tt.want {
			t.Errorf("ContainsSymbol(%q, %q) = %v, want %v", tt.text, tt.symbol, got, tt.want)
		}
	}
}

func TestContainsPair(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"matching pair", "{{hello}}", true},
		{"reversed order still matches", "}} hello {{", true},
		{"only opening", "{{hello", false},
		{"only closing", "hello}}", false},
		{"neither", "hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsPair(tt.text, "{{", "}}"); got != tt.want {
				t.Errorf("ContainsPair(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
