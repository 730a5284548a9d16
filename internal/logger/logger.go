package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quiz-ai/internal/config"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// New builds a logger for cfg without installing it. Production uses JSON,
// every other environment the console encoder.
func New(cfg config.LoggerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)
	if cfg.Env == "production" {
		encCfg.EncodeDuration = zapcore.MillisDurationEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", cfg.Env)), nil
}

// Initialize builds a logger for cfg and installs it as the global one.
func Initialize(cfg config.LoggerConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	current.Store(l)
	return nil
}

// Get returns the global logger. Before Initialize it discards everything.
func Get() *zap.Logger {
	return current.Load()
}

// Replace installs l as the global logger and returns a func restoring the
// previous one.
func Replace(l *zap.Logger) func() {
	prev := current.Swap(l)
	return func() { current.Store(prev) }
}

// Sync flushes buffered entries of the global logger.
func Sync() error {
	return current.Load().Sync()
}
