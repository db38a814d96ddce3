package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/benjaminschreck/go-stencil-lines/pkg/stencil"
)

// newConsoleLogger builds the program logger. Levels are colored when the
// destination is a terminal.
func newConsoleLogger(out *os.File, level string) *zap.Logger {
	if level == "off" {
		return zap.NewNop()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if enableColorOutput(out) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(out), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).Named(appName)
}

func enableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// loggerFor returns the engine logger scoped to a subcommand
func loggerFor(command string) *stencil.Logger {
	return stencil.WithField("command", command)
}
