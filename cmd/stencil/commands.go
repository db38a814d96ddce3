package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-stencil-lines/pkg/stencil"
)

var errNoSource = errors.New("no SOURCE specified, use - for standard input")

// prepareSource classifies the template named by the first argument, reading
// standard input for "-"
func prepareSource(cmd *cli.Command, engine *stencil.Engine) (*stencil.PreparedTemplate, error) {
	src := cmd.Args().First()
	switch src {
	case "":
		return nil, errNoSource
	case "-":
		in := cmd.Root().Reader
		if in == nil {
			in = os.Stdin
		}
		return engine.Prepare(in)
	default:
		return engine.PrepareFile(src)
	}
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func runClassify(ctx context.Context, cmd *cli.Command) error {
	log := loggerFor("classify")

	tmpl, err := prepareSource(cmd, stencil.NewWithConfig(envFromContext(ctx).cfg))
	if err != nil {
		return err
	}

	w := output(cmd)
	for _, line := range tmpl.Lines() {
		var detail string
		switch line.Content.Kind {
		case stencil.KindLiteral:
			detail = line.Content.Text
		case stencil.KindVariable:
			detail = line.Content.Expression.Variable
		case stencil.KindTag:
			detail = line.Content.Tag.String()
		case stencil.KindUnrecognized:
			if line.Err != nil {
				detail = line.Err.Error()
			}
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", line.Number, line.Content.Kind, detail); err != nil {
			return err
		}
	}

	log.Debug("Classification complete", zap.Int("lines", len(tmpl.Lines())))
	return nil
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	log := loggerFor("render")

	cfg := *envFromContext(ctx).cfg
	if cmd.Bool("strict") {
		cfg.StrictMode = true
	}
	if cmd.Bool("keep-tags") {
		cfg.KeepTagLines = true
	}

	vars, err := loadContext(cmd.String("data"), cmd.StringSlice("set"))
	if err != nil {
		return err
	}

	tmpl, err := prepareSource(cmd, stencil.NewWithConfig(&cfg))
	if err != nil {
		return err
	}

	result, err := tmpl.Render(vars)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			log.Warn("Line not rendered", zap.Error(e))
		}
		return fmt.Errorf("unable to render template: %w", err)
	}

	for _, name := range tmpl.Variables() {
		if _, ok := vars[name]; !ok {
			log.Info("Variable has no value", zap.String("name", name))
		}
	}

	dst := cmd.Args().Get(1)
	if dst == "" {
		_, err = io.WriteString(output(cmd), result)
		return err
	}
	if err := os.WriteFile(dst, []byte(result), 0644); err != nil {
		return fmt.Errorf("unable to write destination: %w", err)
	}
	log.Info("Template rendered", zap.String("destination", dst))
	return nil
}

func runVars(ctx context.Context, cmd *cli.Command) error {
	tmpl, err := prepareSource(cmd, stencil.NewWithConfig(envFromContext(ctx).cfg))
	if err != nil {
		return err
	}

	w := output(cmd)
	for _, name := range tmpl.Variables() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	log := loggerFor("check")

	tmpl, err := prepareSource(cmd, stencil.NewWithConfig(envFromContext(ctx).cfg))
	if err != nil {
		return err
	}

	if err := tmpl.Validate(); err != nil {
		w := output(cmd)
		issues := multierr.Errors(err)
		for _, e := range issues {
			if _, err := fmt.Fprintln(w, e); err != nil {
				return err
			}
		}
		return fmt.Errorf("%d problem line(s) found", len(issues))
	}

	log.Info("Template is well formed", zap.Int("lines", len(tmpl.Lines())))
	return nil
}

// loadContext builds the render context from an optional YAML file followed
// by NAME=VALUE assignments, which take precedence.
func loadContext(path string, assignments []string) (stencil.Context, error) {
	vars := make(stencil.Context)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read data file: %w", err)
		}
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unable to parse data file %s: %w", path, err)
		}
		for k, v := range raw {
			if v == nil {
				vars[k] = ""
				continue
			}
			vars[k] = fmt.Sprint(v)
		}
	}

	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected NAME=VALUE", a)
		}
		vars[name] = value
	}

	return vars, nil
}
