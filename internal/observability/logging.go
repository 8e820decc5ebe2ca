// Package observability provides process-wide zap loggers.
//
// Two loggers are exposed: CLILogger for command-line output and
// ServerLogger for the HTTP service. Both default to no-op loggers so
// packages can log unconditionally before initialization.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is used by CLI commands. Defaults to a no-op logger.
var CLILogger = zap.NewNop()

// ServerLogger is used by the HTTP service. Defaults to a no-op logger.
var ServerLogger = zap.NewNop()

// InitCLILogger configures CLILogger at the given level. When structured
// is false the logger emits human-readable console output on stderr.
func InitCLILogger(level string, structured bool) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if structured {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	CLILogger = zap.New(core)
	return nil
}

// InitServerLogger configures ServerLogger with JSON output at the given
// level.
func InitServerLogger(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	ServerLogger = logger
	return nil
}

// Sync flushes buffered log entries. Errors are ignored since stderr
// sync failures are expected on some platforms.
func Sync() {
	_ = CLILogger.Sync()
	_ = ServerLogger.Sync()
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
