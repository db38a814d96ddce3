package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/benjaminschreck/go-stencil-lines/pkg/stencil"
)

const (
	appName    = "stencil"
	appVersion = "0.2.0"
)

type envKey struct{}

// env carries state prepared in Before for subcommands
type env struct {
	cfg *stencil.Config
	log *zap.Logger
}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &env{})
}

// envFromContext returns program state, filling in defaults for anything
// Before did not get to prepare
func envFromContext(ctx context.Context) *env {
	e, ok := ctx.Value(envKey{}).(*env)
	if !ok {
		e = &env{}
	}
	if e.cfg == nil {
		e.cfg = stencil.GetGlobalConfig()
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// initializeAppContext loads configuration and logging after the command line
// has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := stencil.LoadConfigFile(cmd.String("config"))
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	if cmd.Bool("trim-names") {
		cfg.TrimVariableNames = true
	}
	stencil.SetGlobalConfig(cfg)

	log := newConsoleLogger(os.Stderr, cfg.LogLevel)
	stencil.SetLogger(stencil.NewLoggerFromZap(log))

	e := envFromContext(ctx)
	e.cfg, e.log = cfg, log

	log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", appVersion), zap.String("runtime", runtime.Version()))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	e := envFromContext(ctx)
	e.log.Debug("Program ended")
	// stderr may not support sync, nothing useful to report in that case
	_ = e.log.Sync()
	return nil
}

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	envFromContext(ctx).log.Error("Program ended with error", zap.Error(err))
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "line oriented template engine",
		Version:         appVersion + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "trim-names", Usage: "resolve {{ name }} with the variable \"name\""},
		},
		Commands: []*cli.Command{
			{
				Name:      "classify",
				Usage:     "Prints the classification of every template line",
				ArgsUsage: "SOURCE",
				Action:    runClassify,
			},
			{
				Name:      "render",
				Usage:     "Renders a template with variables from a YAML file and/or the command line",
				ArgsUsage: "SOURCE [DESTINATION]",
				Action:    runRender,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data", Usage: "read variables from `FILE` (YAML mapping)"},
					&cli.StringSliceFlag{Name: "set", Usage: "set variable as `NAME=VALUE`, may be repeated"},
					&cli.BoolFlag{Name: "strict", Usage: "fail on unrecognized or malformed lines"},
					&cli.BoolFlag{Name: "keep-tags", Usage: "copy tag lines to the output"},
				},
			},
			{
				Name:      "vars",
				Usage:     "Lists variables referenced by a template",
				ArgsUsage: "SOURCE",
				Action:    runVars,
			},
			{
				Name:      "check",
				Usage:     "Reports malformed and unrecognized template lines",
				ArgsUsage: "SOURCE",
				Action:    runCheck,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
