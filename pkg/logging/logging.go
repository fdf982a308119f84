// Package logging builds the zap logger each cmd/treebench subcommand
// constructs when it starts and uses within that command. Nothing under
// pkg/treemap ever takes a logger: structural mutation happens under
// spinlocks, and a logging call there would turn a microsecond critical
// section into a syscall.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger for the harness. debug selects human-readable
// console output at debug level; otherwise JSON at info level, suitable
// for piping into a log aggregator.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}

// Must is New, panicking on failure — only used at cmd/treebench startup,
// before there is any logger to report the failure through.
func Must(debug bool) *zap.Logger {
	l, err := New(debug)
	if err != nil {
		panic(err)
	}
	return l
}
