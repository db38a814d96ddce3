package stencil

import "fmt"

// ContentKind identifies which category a template line belongs to
type ContentKind int

const (
	KindLiteral ContentKind = iota
	KindVariable
	KindTag
	KindUnrecognized
)

func (k ContentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindVariable:
		return "variable"
	case KindTag:
		return "tag"
	case KindUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// TagType identifies the control construct a tag line represents
type TagType int

const (
	ForTag TagType = iota
	IfTag
)

func (t TagType) String() string {
	switch t {
	case ForTag:
		return "for"
	case IfTag:
		return "if"
	default:
		return "unknown"
	}
}

// ContentType is the classification of a single template line.
// Only the fields relevant to Kind are populated:
//
//	KindLiteral      - Text holds the line unchanged
//	KindVariable     - Expression holds the split line
//	KindTag          - Tag holds the control construct
//	KindUnrecognized - nothing
type ContentType struct {
	Kind       ContentKind
	Text       string
	Expression *ExpressionData
	Tag        TagType
}

// Literal creates a plain text classification
func Literal(text string) ContentType {
	return ContentType{Kind: KindLiteral, Text: text}
}

// TemplateVariable creates a variable interpolation classification
func TemplateVariable(expr ExpressionData) ContentType {
	return ContentType{Kind: KindVariable, Expression: &expr}
}

// Tag creates a control tag classification
func Tag(tag TagType) ContentType {
	return ContentType{Kind: KindTag, Tag: tag}
}

// Unrecognized creates a classification for lines with markers of no known shape
func Unrecognized() ContentType {
	return ContentType{Kind: KindUnrecognized}
}

func (c ContentType) String() string {
	switch c.Kind {
	case KindLiteral:
		return fmt.Sprintf("Literal(%q)", c.Text)
	case KindVariable:
		if c.Expression == nil {
			return "TemplateVariable(<nil>)"
		}
		return fmt.Sprintf("TemplateVariable(%s)", c.Expression.GoString())
	case KindTag:
		return fmt.Sprintf("Tag(%s)", c.Tag)
	default:
		return "Unrecognized"
	}
}

// ExpressionData is a line split around a single {{variable}} placeholder.
// A nil Head or Tail means the part is absent.
type ExpressionData struct {
	Head     *string
	Variable string
	Tail     *string
}

// NewExpressionData builds an ExpressionData with both head and tail present
func NewExpressionData(head, variable, tail string) ExpressionData {
	return ExpressionData{Head: &head, Variable: variable, Tail: &tail}
}

// HeadText returns the head or an empty string when absent
func (e ExpressionData) HeadText() string {
	if e.Head == nil {
		return ""
	}
	return *e.Head
}

// TailText returns the tail or an empty string when absent
func (e ExpressionData) TailText() string {
	if e.Tail == nil {
		return ""
	}
	return *e.Tail
}

// String reassembles the placeholder line. It equals the source line only
// when the variable name carries no brace characters.
func (e ExpressionData) String() string {
	return e.HeadText() + "{{" + e.Variable + "}}" + e.TailText()
}

func (e ExpressionData) GoString() string {
	head, tail := "<nil>", "<nil>"
	if e.Head != nil {
		head = fmt.Sprintf("%q", *e.Head)
	}
	if e.Tail != nil {
		tail = fmt.Sprintf("%q", *e.Tail)
	}
	return fmt.Sprintf("{head:%s variable:%q tail:%s}", head, e.Variable, tail)
}

// Context maps variable names to their values for a render call.
// It is only read during rendering; callers sharing a Context across
// goroutines must not mutate it while a render is in flight.
type Context map[string]string
