// Package logging implements the Logger capability set (§9: "Polymorphism")
// against go.uber.org/zap, grounded on
// theRebelliousNerd-codenerd/cmd/nerd/main.go's zap.NewProductionConfig()/
// Build() setup. §5's shared-resource policy requires the logger be
// thread-safe since it is the one object shared, unguarded, across every
// worker-pool goroutine; *zap.Logger already satisfies that.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the capability set every package in this module logs through.
// Fields are passed as alternating key/value pairs, matching zap's
// SugaredLogger convention, so call sites don't need zap.Field literals.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// With returns a Logger that prepends keysAndValues to every subsequent
	// call, for attaching per-file/per-task context (e.g. "file", path).
	With(keysAndValues ...any) Logger

	// Sync flushes any buffered log entries; call once at process exit.
	Sync() error
}

// zapLogger adapts *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a production-style JSON logger; debug enables debug-level
// output, mirroring codenerd's --verbose toggle on zap.NewProductionConfig.
func New(debug bool) (Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: base.Sugar()}, nil
}

// Nop returns a Logger that discards everything, for tests that don't care
// about log output.
func Nop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }

func (l *zapLogger) With(kv ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(kv...)}
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}
