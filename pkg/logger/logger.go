// Package logger builds the zap loggers used by the server and the terminal client.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

// New returns a console logger for local/dev and a JSON logger otherwise.
func New(env string) *zap.Logger {
	var log *zap.Logger
	var err error

	switch env {
	case envLocal:
		log, err = zap.NewDevelopment()
	case envDev:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		log, err = cfg.Build()
	default:
		log, err = zap.NewProduction()
	}
	if err != nil {
		// zap config errors are programmer errors
		panic(err)
	}
	return log
}

// FileOptions controls rotation of a file logger.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      zapcore.Level
}

// NewFile returns a JSON logger writing to a rotated file. An empty path
// returns a no-op logger so nothing is written to the terminal.
func NewFile(opts FileOptions) *zap.Logger {
	if opts.Path == "" {
		return zap.NewNop()
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = 28
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		opts.Level,
	)
	return zap.New(core, zap.AddCaller())
}

// Tee also writes the server log to a rotated file when path is set.
func Tee(log *zap.Logger, path string) *zap.Logger {
	if path == "" {
		return log
	}
	file := NewFile(FileOptions{Path: path, Level: zapcore.InfoLevel})
	return log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, file.Core())
	}))
}

// Stderr is a minimal console logger for CLI commands that print their
// own results to stdout.
func Stderr(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
