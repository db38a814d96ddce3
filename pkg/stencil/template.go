package stencil

import (
	"bufio"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Line is one classified line of a template document
type Line struct {
	// Number is the 1-based line number in the source
	Number int
	// Raw is the line text without its line terminator
	Raw     string
	Content ContentType
	// Err is set when the line has variable delimiters but a malformed placeholder
	Err error
}

// PreparedTemplate is a template document whose lines have been classified,
// bound to the configuration it renders with.
// It is immutable and safe for concurrent rendering.
type PreparedTemplate struct {
	lines           []Line
	trailingNewline bool
	config          Config
}

// prepare reads r line by line and classifies every line
func prepare(r io.Reader, config *Config) (*PreparedTemplate, error) {
	if r == nil {
		return nil, errors.New("reader cannot be nil")
	}
	if config == nil {
		config = GetGlobalConfig()
	}

	logger := GetLogger()
	tmpl := &PreparedTemplate{config: *config}

	br := bufio.NewReader(r)
	for number := 1; ; number++ {
		text, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, NewDocumentError("read", "", err)
		}
		if text == "" && err == io.EOF {
			break
		}

		hasNewline := strings.HasSuffix(text, "\n")
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")

		content, classifyErr := ClassifyLine(text)
		tmpl.lines = append(tmpl.lines, Line{
			Number:  number,
			Raw:     text,
			Content: content,
			Err:     classifyErr,
		})
		if classifyErr != nil {
			logger.Warn("Malformed placeholder", zap.Int("line", number), zap.Error(classifyErr))
		}

		tmpl.trailingNewline = hasNewline
		if err == io.EOF {
			break
		}
	}

	if logger.IsDebugMode() {
		logger.Debug("Template prepared", zap.Int("lines", len(tmpl.lines)))
	}

	return tmpl, nil
}

// withConfig returns t bound to config. The classified lines are shared.
func (t *PreparedTemplate) withConfig(config *Config) *PreparedTemplate {
	if config == nil || t.config == *config {
		return t
	}
	bound := *t
	bound.config = *config
	return &bound
}

// Lines returns a copy of the classified lines
func (t *PreparedTemplate) Lines() []Line {
	lines := make([]Line, len(t.lines))
	copy(lines, t.lines)
	return lines
}

// Variables returns the distinct variable names referenced by the template in
// natural order. Names are trimmed of surrounding whitespace when
// TrimVariableNames is set.
func (t *PreparedTemplate) Variables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, line := range t.lines {
		if line.Content.Kind != KindVariable {
			continue
		}
		name := line.Content.Expression.Variable
		if t.config.TrimVariableNames {
			name = strings.TrimSpace(name)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Tags returns the line numbers of tag lines grouped by tag type
func (t *PreparedTemplate) Tags() map[TagType][]int {
	tags := make(map[TagType][]int)
	for _, line := range t.lines {
		if line.Content.Kind == KindTag {
			tags[line.Content.Tag] = append(tags[line.Content.Tag], line.Number)
		}
	}
	return tags
}

// Validate reports every malformed or unrecognized line, regardless of mode
func (t *PreparedTemplate) Validate() error {
	var err error
	for _, line := range t.lines {
		if issue := lineIssue(line); issue != nil {
			err = multierr.Append(err, NewLineError(line.Number, line.Raw, issue))
		}
	}
	return err
}

// Render produces the output document with ctx.
//
// Literal lines are copied, variable lines are substituted by exact name (see
// TrimVariableNames for {{ name }} style placeholders), and tag lines are
// dropped (or copied with KeepTagLines) since control flow is not evaluated.
// Unrecognized and malformed lines are copied verbatim, unless StrictMode is
// set, in which case every such line is reported and no output is returned.
func (t *PreparedTemplate) Render(ctx Context) (string, error) {
	logger := GetLogger()

	var (
		out   []string
		errs  error
		stats = make(map[ContentKind]int)
	)
	for _, line := range t.lines {
		stats[line.Content.Kind]++

		if issue := lineIssue(line); issue != nil {
			if t.config.StrictMode {
				errs = multierr.Append(errs, NewLineError(line.Number, line.Raw, issue))
			} else {
				out = append(out, line.Raw)
			}
			continue
		}

		switch line.Content.Kind {
		case KindLiteral:
			out = append(out, line.Content.Text)
		case KindVariable:
			out = append(out, RenderExpression(t.lookupExpression(*line.Content.Expression, ctx), ctx))
		case KindTag:
			if t.config.KeepTagLines {
				out = append(out, line.Raw)
			}
		}
	}

	if errs != nil {
		return "", errs
	}

	if logger.IsDebugMode() {
		logger.Debug("Template rendered",
			zap.Int("literal", stats[KindLiteral]),
			zap.Int("variable", stats[KindVariable]),
			zap.Int("tag", stats[KindTag]),
			zap.Int("unrecognized", stats[KindUnrecognized]))
	}

	result := strings.Join(out, "\n")
	if t.trailingNewline && len(out) > 0 {
		result += "\n"
	}
	return result, nil
}

// lookupExpression returns expr with its variable name trimmed when
// TrimVariableNames is set and ctx has no entry for the verbatim name.
func (t *PreparedTemplate) lookupExpression(expr ExpressionData, ctx Context) ExpressionData {
	if !t.config.TrimVariableNames {
		return expr
	}
	if _, ok := ctx[expr.Variable]; ok {
		return expr
	}
	expr.Variable = strings.TrimSpace(expr.Variable)
	return expr
}

// lineIssue returns the reason a line cannot be rendered as a known shape
func lineIssue(line Line) error {
	if line.Err != nil {
		return line.Err
	}
	if line.Content.Kind == KindUnrecognized {
		return ErrUnrecognizedLine
	}
	return nil
}
