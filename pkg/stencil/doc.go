// Package stencil provides a minimal line-oriented template engine.
//
// Each line of template source is classified on its own as plain text, a
// variable interpolation, a control tag, or an unrecognized line. Variable
// lines are split around their placeholder and rendered by substituting the
// value from a Context.
//
// # Quick Start
//
//	tmpl, err := stencil.PrepareFile("greeting.tmpl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	output, err := tmpl.Render(stencil.Context{"name": "Bob"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(output)
//
// Single lines can be handled without preparing a document:
//
//	content := stencil.Classify("Hi {{name}} world")
//	if content.Kind == stencil.KindVariable {
//	    fmt.Println(stencil.RenderExpression(*content.Expression, ctx))
//	}
//
// # Template Syntax
//
//	Hi {{name}} world           - Variable line, one placeholder per line
//	{% for item in items %}     - For tag (also {% endfor %})
//	{% if user == 'Bob' %}      - If tag (also {% endif %})
//	<h1>Hello</h1>              - Literal line
//
// # Classification
//
// Detection is a fixed sequence of substring checks, not a grammar:
//
//  1. Tag delimiters {% and %} together with "for" and "in", or "endfor": for tag.
//  2. Tag delimiters with "if" or "endif": if tag.
//  3. Variable delimiters {{ and }}: variable line.
//  4. No delimiter pair at all: literal line.
//  5. Anything else: unrecognized.
//
// The order matters. A tag line that also holds a placeholder is a tag, and a
// tag line without a known keyword but with a placeholder is a variable line.
//
// Tags are only detected. Loops and conditionals are not evaluated, and tag
// lines are dropped from rendered output unless Config.KeepTagLines is set.
//
// # Rendering
//
// A placeholder whose variable is missing from the Context renders as
// nothing. Values are inserted as-is without escaping. Lookup uses the
// variable name exactly as written between the delimiters, so {{ name }}
// looks up " name ". Set Config.TrimVariableNames to let document rendering
// fall back to the key "name".
//
// # Error Handling
//
// Malformed placeholders are reported by ExtractExpression and ClassifyLine
// as an *ExpressionError wrapping ErrMissingDelimiter or ErrOutOfRangeSlice.
// Document rendering in strict mode reports every bad line as a *LineError;
// the errors are combined with go.uber.org/multierr:
//
//	if _, err := tmpl.Render(ctx); err != nil {
//	    for _, e := range multierr.Errors(err) {
//	        log.Println(e)
//	    }
//	}
//
// # Thread Safety
//
// Classification and rendering functions are pure. PreparedTemplate is safe
// for concurrent use, as are the Engine and its cache. A Context must not be
// mutated while a render using it is in progress.
//
// # Configuration
//
// The global configuration is read from STENCIL_* environment variables and
// can be overridden with a YAML file through LoadConfigFile:
//
//	cache_max_size: 50
//	cache_ttl: 10m
//	log_level: debug
//	strict_mode: true
//	keep_tag_lines: false
//	trim_variable_names: true
package stencil
